package main

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/csgray/pkg/hitlog"
)

func runArgs(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), args, &stdout, &stderr)
	return stdout.String(), err
}

func TestUsage(t *testing.T) {
	if _, err := runArgs(t); !errors.Is(err, errUsage) {
		t.Errorf("no args: err = %v", err)
	}
	if _, err := runArgs(t, "frobnicate"); !errors.Is(err, errUsage) {
		t.Errorf("unknown command: err = %v", err)
	}
	out, err := runArgs(t, "help")
	if err != nil || !strings.Contains(out, "render") {
		t.Errorf("help = %q, %v", out, err)
	}
}

func TestScenesCommand(t *testing.T) {
	out, err := runArgs(t, "scenes")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"guitar", "dice", "dsl"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "cross.png")
	if _, err := runArgs(t, "render", "-scene", "cross", "-width", "20", "-height", "10", "-o", out); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 10 {
		t.Errorf("bounds = %v", b)
	}
}

func TestRenderCommandErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csg")
	if err := os.WriteFile(bad, []byte(`(object "x" (sphere :radius -1))`), 0o644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		args []string
	}{
		{"no scene", []string{"render"}},
		{"both", []string{"render", "-scene", "cross", "-file", bad}},
		{"unknown scene", []string{"render", "-scene", "nope"}},
		{"eval errors", []string{"render", "-file", bad}},
		{"bad width", []string{"render", "-scene", "cross", "-width", "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runArgs(t, append(tt.args, "-o", filepath.Join(dir, "x.png"))...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTraceSinglePixel(t *testing.T) {
	out, err := runArgs(t, "trace", "-scene", "spheres", "-width", "40", "-height", "30", "-x", "20", "-y", "15")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "pixel (20, 15)") || !strings.Contains(out, "ellipsoid") {
		t.Errorf("output:\n%s", out)
	}
}

func TestTraceHitLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hits.jsonl.zst")
	if _, err := runArgs(t, "trace", "-scene", "cross", "-width", "8", "-height", "6", "-hitlog", path); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r, err := hitlog.NewReader(f, hitlog.Zstd)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	recs, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 48 {
		t.Fatalf("got %d records, want 48", len(recs))
	}
	hits := 0
	for _, rec := range recs {
		if len(rec.Hits)%2 != 0 {
			t.Errorf("pixel (%d, %d) has %d crossings", rec.PX, rec.PY, len(rec.Hits))
		}
		hits += len(rec.Hits)
	}
	if hits == 0 {
		t.Error("no ray hit the cross")
	}
}

func TestTraceNeedsHitLogForAllPixels(t *testing.T) {
	if _, err := runArgs(t, "trace", "-scene", "cross"); err == nil {
		t.Error("expected error")
	}
}

func TestMeshCommand(t *testing.T) {
	out := filepath.Join(t.TempDir(), "dice.stl")
	msg, err := runArgs(t, "mesh", "-scene", "dice", "-cells", "24", "-o", out)
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() <= 84 {
		t.Errorf("STL has no triangles (%d bytes)", info.Size())
	}
	if !strings.Contains(msg, "1 parts") {
		t.Errorf("message = %q", msg)
	}
}
