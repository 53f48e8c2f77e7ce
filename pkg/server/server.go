// Package server exposes scene rendering over HTTP. Finished images are
// served as PNG, and a websocket endpoint streams tiles as the renderer
// completes them.
package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/chazu/csgray/pkg/config"
	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/raytrace"
	"github.com/chazu/csgray/pkg/scenes"
	"github.com/gorilla/websocket"
)

// Logger is the logging interface used by the server.
type Logger interface {
	Printf(format string, args ...any)
}

// SceneInfo describes one entry of GET /scenes.
type SceneInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	DSL         bool   `json:"dsl"`
}

// Message is one websocket frame sent by /ws.
type Message struct {
	Type    string `json:"type"` // start, tile, done or error
	Scene   string `json:"scene,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Tiles   int    `json:"tiles,omitempty"`
	ID      int    `json:"id,omitempty"`
	X       int    `json:"x,omitempty"`
	Y       int    `json:"y,omitempty"`
	PNG     string `json:"png,omitempty"` // base64 tile image
	Done    int    `json:"done,omitempty"`
	Elapsed int64  `json:"elapsed_ms,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server renders named scenes on request.
type Server struct {
	cfg      config.Render
	logger   Logger
	mux      *http.ServeMux
	upgrader websocket.Upgrader
}

// New returns a server rendering with cfg. A nil logger uses log.Default().
func New(cfg config.Render, logger Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		logger: logger,
		mux:    http.NewServeMux(),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.mux.HandleFunc("GET /scenes", s.handleScenes)
	s.mux.HandleFunc("GET /render/{name}", s.handleRender)
	s.mux.HandleFunc("GET /ws", s.handleWS)
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe serves on cfg.Addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("server: listening on %s", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	}
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	var list []SceneInfo
	for _, name := range scenes.Names() {
		info := SceneInfo{Name: name}
		if _, ok := scenes.Source(name); ok {
			info.DSL = true
		} else if sc, err := scenes.Load(name); err == nil {
			info.Description = sc.Description
		}
		list = append(list, info)
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(list); err != nil {
		s.logger.Printf("server: writing scene list: %v", err)
	}
}

// imageSize reads optional width and height query parameters.
func (s *Server) imageSize(r *http.Request) (int, int, error) {
	width, height := s.cfg.Width, s.cfg.Height
	for key, dst := range map[string]*int{"width": &width, "height": &height} {
		raw := r.URL.Query().Get(key)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 || v > config.DefaultMaxSize {
			return 0, 0, fmt.Errorf("%s must be an integer in 1..%d, got %q", key, config.DefaultMaxSize, raw)
		}
		*dst = v
	}
	return width, height, nil
}

// renderer prepares a renderer for the named scene.
func (s *Server) renderer(name string, width, height int) (*raytrace.Renderer, error) {
	sc, err := scenes.Load(name)
	if err != nil {
		return nil, err
	}
	rs, err := sc.Build()
	if err != nil {
		return nil, err
	}
	bg := sc.Background
	if s.cfg.Background != "" {
		if bg, err = graph.ParseColor(s.cfg.Background); err != nil {
			return nil, err
		}
	}
	return &raytrace.Renderer{
		Scene:      rs,
		Camera:     sc.RayCamera(float64(width)/float64(height), s.cfg.FOV),
		Width:      width,
		Height:     height,
		TileSize:   s.cfg.TileSize,
		Workers:    s.cfg.Workers,
		Background: bg,
		Logger:     s.logger,
	}, nil
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	width, height, err := s.imageSize(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rd, err := s.renderer(name, width, height)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	img, err := rd.Render(r.Context())
	if err != nil {
		s.logger.Printf("server: render %s: %v", name, err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Printf("server: writing %s: %v", name, err)
	}
}

// handleWS streams a render tile by tile. The render stops when the client
// goes away.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("server: upgrade: %v", err)
		return
	}
	defer conn.Close()

	name := r.URL.Query().Get("scene")
	width, height, err := s.imageSize(r)
	if err == nil {
		var rd *raytrace.Renderer
		if rd, err = s.renderer(name, width, height); err == nil {
			err = s.stream(r.Context(), conn, name, rd)
		}
	}
	if err != nil {
		s.logger.Printf("server: ws %s: %v", name, err)
		_ = conn.WriteJSON(Message{Type: "error", Scene: name, Error: err.Error()})
	}
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (s *Server) stream(parent context.Context, conn *websocket.Conn, name string, rd *raytrace.Renderer) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	// The client sends nothing; a read error means it has gone.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	tiles := raytrace.NewTileGrid(rd.Width, rd.Height, rd.TileSize)
	if err := conn.WriteJSON(Message{Type: "start", Scene: name, Width: rd.Width, Height: rd.Height, Tiles: len(tiles)}); err != nil {
		return err
	}

	var writeErr error
	rd.OnTile = func(tr raytrace.TileResult) {
		if writeErr != nil {
			return
		}
		data, err := encodeTile(tr.Image)
		if err == nil {
			err = conn.WriteJSON(Message{
				Type: "tile",
				ID:   tr.Tile.ID,
				X:    tr.Tile.Bounds.Min.X,
				Y:    tr.Tile.Bounds.Min.Y,
				PNG:  data,
				Done: tr.Done,
			})
		}
		if err != nil {
			writeErr = err
			cancel()
		}
	}

	start := time.Now()
	if _, err := rd.Render(ctx); err != nil {
		if writeErr != nil {
			return writeErr
		}
		return err
	}
	return conn.WriteJSON(Message{Type: "done", Scene: name, Elapsed: time.Since(start).Milliseconds()})
}

// encodeTile returns the tile as base64 PNG. The sub-image is re-based at
// the origin so the PNG holds only the tile.
func encodeTile(tile *image.RGBA) (string, error) {
	b := tile.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		copy(out.Pix[y*out.Stride:y*out.Stride+4*b.Dx()], tile.Pix[y*tile.Stride:y*tile.Stride+4*b.Dx()])
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
