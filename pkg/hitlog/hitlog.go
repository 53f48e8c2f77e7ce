// Package hitlog records traced hit sequences as JSON lines, optionally
// framed with snappy or zstd compression, and reads them back.
package hitlog

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
)

// Compression selects the stream framing.
type Compression int

const (
	None Compression = iota
	Snappy
	Zstd
)

func (c Compression) String() string {
	switch c {
	case None:
		return "none"
	case Snappy:
		return "snappy"
	case Zstd:
		return "zstd"
	default:
		return fmt.Sprintf("Compression(%d)", int(c))
	}
}

// ParseCompression accepts "none", "snappy" or "zstd".
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none", "":
		return None, nil
	case "snappy":
		return Snappy, nil
	case "zstd":
		return Zstd, nil
	}
	return None, fmt.Errorf("unknown compression %q (want none, snappy or zstd)", s)
}

func (c Compression) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Compression) UnmarshalText(b []byte) error {
	v, err := ParseCompression(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// CompressionForPath guesses the framing from a file extension.
func CompressionForPath(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".sz", ".snappy":
		return Snappy
	case ".zst", ".zstd":
		return Zstd
	}
	return None
}

// Hit is one crossing along a traced ray.
type Hit struct {
	Instance string     `json:"instance,omitempty"`
	T        float64    `json:"t"`
	P        [3]float64 `json:"p"`
}

// Record holds every crossing of the primary ray through one pixel.
type Record struct {
	PX     int        `json:"px"`
	PY     int        `json:"py"`
	Origin [3]float64 `json:"origin"`
	Dir    [3]float64 `json:"dir"`
	Hits   []Hit      `json:"hits"`
}

// flushCloser is the compressed stream a Writer appends to.
type flushCloser interface {
	io.Writer
	Flush() error
	Close() error
}

// bufferedSink adapts bufio.Writer for uncompressed logs.
type bufferedSink struct{ *bufio.Writer }

func (b bufferedSink) Close() error { return b.Flush() }

// Writer appends records to a stream. It is safe for concurrent use.
type Writer struct {
	mu     sync.Mutex
	stream flushCloser
	count  int
	closed bool
}

// NewWriter wraps w. Closing the Writer flushes the framing but leaves w
// open.
func NewWriter(w io.Writer, c Compression) (*Writer, error) {
	var stream flushCloser
	switch c {
	case None:
		stream = bufferedSink{bufio.NewWriter(w)}
	case Snappy:
		stream = snappy.NewBufferedWriter(w)
	case Zstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("hitlog: zstd writer: %w", err)
		}
		stream = enc
	default:
		return nil, fmt.Errorf("hitlog: unknown compression %s", c)
	}
	return &Writer{stream: stream}, nil
}

// Append writes one record as a JSON line.
func (w *Writer) Append(rec Record) error {
	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("hitlog: encoding record: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return fmt.Errorf("hitlog: writer closed")
	}
	if _, err := w.stream.Write(line); err != nil {
		return fmt.Errorf("hitlog: writing record: %w", err)
	}
	w.count++
	return nil
}

// Count returns the number of records appended.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Flush pushes buffered records to the underlying writer.
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	return w.stream.Flush()
}

// Close flushes and finishes the framing. It is safe to call twice.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.stream.Close()
}

// maxLine bounds a single record; a ray rarely crosses more than a few
// hundred surfaces.
const maxLine = 4 * 1024 * 1024

// Reader decodes records written by Writer.
type Reader struct {
	scanner *bufio.Scanner
	dec     *zstd.Decoder
}

// NewReader wraps r, which must use the framing c.
func NewReader(r io.Reader, c Compression) (*Reader, error) {
	rd := &Reader{}
	var src io.Reader
	switch c {
	case None:
		src = r
	case Snappy:
		src = snappy.NewReader(r)
	case Zstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("hitlog: zstd reader: %w", err)
		}
		rd.dec = dec
		src = dec
	default:
		return nil, fmt.Errorf("hitlog: unknown compression %s", c)
	}
	rd.scanner = bufio.NewScanner(src)
	rd.scanner.Buffer(make([]byte, 0, 64*1024), maxLine)
	return rd, nil
}

// Next returns the next record, or io.EOF at the end of the stream.
// Blank lines are skipped.
func (r *Reader) Next() (Record, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line == "" {
			continue
		}
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return Record{}, fmt.Errorf("hitlog: decoding record: %w", err)
		}
		return rec, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Record{}, fmt.Errorf("hitlog: reading: %w", err)
	}
	return Record{}, io.EOF
}

// ReadAll returns every remaining record.
func (r *Reader) ReadAll() ([]Record, error) {
	var out []Record
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
}

// Close releases decoder resources.
func (r *Reader) Close() {
	if r.dec != nil {
		r.dec.Close()
	}
}
