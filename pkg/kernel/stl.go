package kernel

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// stlHeader is the fixed 80-byte header of a binary STL file.
const stlHeader = "csgray binary STL"

// WriteSTL writes meshes as one binary STL solid. Per-triangle normals are
// taken from the first vertex normal of each triangle.
func WriteSTL(w io.Writer, meshes ...*Mesh) error {
	var count uint32
	for _, m := range meshes {
		count += uint32(m.TriangleCount())
	}

	bw := bufio.NewWriter(w)
	var header [80]byte
	copy(header[:], stlHeader)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("stl: header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, count); err != nil {
		return fmt.Errorf("stl: count: %w", err)
	}

	var rec [50]byte
	for _, m := range meshes {
		for t := 0; t < m.TriangleCount(); t++ {
			idx := m.Indices[t*3 : t*3+3]
			putVec(rec[0:], m.Normals, idx[0])
			for j, vi := range idx {
				putVec(rec[12+12*j:], m.Vertices, vi)
			}
			// rec[48:50] is the attribute byte count, always zero.
			if _, err := bw.Write(rec[:]); err != nil {
				return fmt.Errorf("stl: triangle: %w", err)
			}
		}
	}
	return bw.Flush()
}

func putVec(dst []byte, src []float32, i uint32) {
	for a := uint32(0); a < 3; a++ {
		var f float32
		if int(i*3+a) < len(src) {
			f = src[i*3+a]
		}
		binary.LittleEndian.PutUint32(dst[4*a:], math.Float32bits(f))
	}
}
