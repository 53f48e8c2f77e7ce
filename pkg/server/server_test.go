package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/chazu/csgray/pkg/config"
	"github.com/gorilla/websocket"
)

type quietLogger struct{}

func (quietLogger) Printf(string, ...any) {}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Width, cfg.Height, cfg.TileSize, cfg.Workers = 40, 30, 16, 2
	srv := httptest.NewServer(New(cfg, quietLogger{}).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func TestScenes(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/scenes")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var list []SceneInfo
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	byName := map[string]SceneInfo{}
	for _, s := range list {
		byName[s.Name] = s
	}
	if s, ok := byName["cross"]; !ok || s.DSL || s.Description == "" {
		t.Errorf("cross = %+v", s)
	}
	if s, ok := byName["dice"]; !ok || !s.DSL {
		t.Errorf("dice = %+v", s)
	}
}

func TestRender(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		status int
		width  int
	}{
		{"default size", "/render/cross", http.StatusOK, 40},
		{"query size", "/render/cross?width=24&height=12", http.StatusOK, 24},
		{"unknown scene", "/render/nope", http.StatusNotFound, 0},
		{"bad width", "/render/cross?width=-3", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.status != http.StatusOK {
				return
			}
			if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("content type = %q", ct)
			}
			img, err := png.Decode(resp.Body)
			if err != nil {
				t.Fatalf("png: %v", err)
			}
			if img.Bounds().Dx() != tt.width {
				t.Errorf("width = %d, want %d", img.Bounds().Dx(), tt.width)
			}
		})
	}
}

func dial(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	return conn
}

func TestStreamTiles(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv, "scene=cross")

	var start Message
	if err := conn.ReadJSON(&start); err != nil {
		t.Fatal(err)
	}
	if start.Type != "start" || start.Width != 40 || start.Height != 30 || start.Tiles != 6 {
		t.Fatalf("start = %+v", start)
	}

	seen := map[int]bool{}
	for {
		var m Message
		if err := conn.ReadJSON(&m); err != nil {
			t.Fatalf("read: %v", err)
		}
		if m.Type == "done" {
			break
		}
		if m.Type != "tile" {
			t.Fatalf("unexpected message %+v", m)
		}
		data, err := base64.StdEncoding.DecodeString(m.PNG)
		if err != nil {
			t.Fatalf("base64: %v", err)
		}
		img, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("png: %v", err)
		}
		if b := img.Bounds(); b.Min.X != 0 || b.Dx() > 16 || b.Dy() > 16 {
			t.Errorf("tile %d bounds = %v", m.ID, b)
		}
		if m.Done != len(seen)+1 {
			t.Errorf("done = %d, want %d", m.Done, len(seen)+1)
		}
		seen[m.ID] = true
	}
	if len(seen) != 6 {
		t.Errorf("got %d tiles, want 6", len(seen))
	}
}

func TestStreamUnknownScene(t *testing.T) {
	srv := newTestServer(t)
	conn := dial(t, srv, "scene=nope")
	var m Message
	if err := conn.ReadJSON(&m); err != nil {
		t.Fatal(err)
	}
	if m.Type != "error" || !strings.Contains(m.Error, "nope") {
		t.Errorf("message = %+v", m)
	}
}
