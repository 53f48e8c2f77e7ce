package raytrace

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// Logger is the logging interface used by the renderer.
type Logger interface {
	Printf(format string, args ...any)
}

// DefaultTileSize is the edge length of a render tile in pixels.
const DefaultTileSize = 32

// Tile is a rectangular region of the image rendered by one worker.
type Tile struct {
	ID     int
	Bounds image.Rectangle
}

// NewTileGrid partitions a width x height image into non-overlapping tiles,
// row by row.
func NewTileGrid(width, height, tileSize int) []Tile {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	var tiles []Tile
	for y0 := 0; y0 < height; y0 += tileSize {
		for x0 := 0; x0 < width; x0 += tileSize {
			tiles = append(tiles, Tile{
				ID:     len(tiles),
				Bounds: image.Rect(x0, y0, min(x0+tileSize, width), min(y0+tileSize, height)),
			})
		}
	}
	return tiles
}

// TileResult reports a finished tile.
type TileResult struct {
	Tile  Tile
	Image *image.RGBA // view of the tile inside the full image
	Done  int         // tiles finished so far, including this one
	Total int
}

// Renderer draws a scene from a camera into an RGBA image.
type Renderer struct {
	Scene      *Scene
	Camera     Camera
	Width      int
	Height     int
	TileSize   int // DefaultTileSize when zero
	Workers    int // runtime.NumCPU() when zero
	Background color.RGBA

	// OnTile, when set, is called once per finished tile. Calls are
	// serialized.
	OnTile func(TileResult)
	Logger Logger
}

func (r *Renderer) logger() Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return log.Default()
}

// Render traces every pixel. Tiles are handed to a fixed pool of workers;
// cancellation is checked between tiles and returns ctx.Err() with the
// partly drawn image.
func (r *Renderer) Render(ctx context.Context) (*image.RGBA, error) {
	if r.Scene == nil {
		return nil, fmt.Errorf("raytrace: renderer has no scene")
	}
	if r.Width <= 0 || r.Height <= 0 {
		return nil, fmt.Errorf("raytrace: invalid image size %dx%d", r.Width, r.Height)
	}

	img := image.NewRGBA(image.Rect(0, 0, r.Width, r.Height))
	tiles := NewTileGrid(r.Width, r.Height, r.TileSize)
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	workers = min(workers, len(tiles))

	start := time.Now()
	tasks := make(chan Tile)
	results := make(chan Tile, len(tiles))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range tasks {
				// Each tile owns its pixels, so workers write without locks.
				r.renderTile(img, t)
				results <- t
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, t := range tiles {
			select {
			case tasks <- t:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	done := 0
	for t := range results {
		done++
		if r.OnTile != nil {
			r.OnTile(TileResult{
				Tile:  t,
				Image: img.SubImage(t.Bounds).(*image.RGBA),
				Done:  done,
				Total: len(tiles),
			})
		}
	}

	if err := ctx.Err(); err != nil && done < len(tiles) {
		r.logger().Printf("raytrace: render cancelled after %d/%d tiles", done, len(tiles))
		return img, err
	}
	r.logger().Printf("raytrace: rendered %dx%d in %d tiles with %d workers (%v)",
		r.Width, r.Height, len(tiles), workers, time.Since(start).Round(time.Millisecond))
	return img, nil
}

// sample is the primary hit of one pixel.
type sample struct {
	inst *Instance
	pos  mgl64.Vec3
	t    float64
	dir  mgl64.Vec3
}

// renderTile traces the tile plus one extra column and row so every pixel
// has right and lower neighbours for its surface normal estimate.
func (r *Renderer) renderTile(img *image.RGBA, t Tile) {
	b := t.Bounds
	w, h := b.Dx()+1, b.Dy()+1
	grid := make([]sample, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			px, py := b.Min.X+x, b.Min.Y+y
			ray := r.Camera.Ray(float64(px)+0.5, float64(py)+0.5, r.Width, r.Height)
			s := &grid[y*w+x]
			s.dir = ray.Direction
			if is, ok := r.Scene.Closest(ray); ok {
				s.inst, s.pos, s.t = is.Instance, is.Position, is.T
			}
		}
	}

	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			s := grid[y*w+x]
			c := r.Background
			if s.inst != nil {
				c = r.shade(s, grid[y*w+x+1], grid[(y+1)*w+x])
			}
			img.SetRGBA(b.Min.X+x, b.Min.Y+y, c)
		}
	}
}

// shade lights a hit from the eye. The normal comes from the neighbouring
// hits when they lie on the same instance; far hits are darkened.
func (r *Renderer) shade(s, right, down sample) color.RGBA {
	light := 0.8
	if right.inst == s.inst && down.inst == s.inst {
		n := right.pos.Sub(s.pos).Cross(down.pos.Sub(s.pos))
		if l := n.Len(); l > 0 {
			light = math.Abs(n.Mul(1 / l).Dot(s.dir))
		}
	}
	light = 0.2 + 0.8*light

	cue := 1.0
	if over := s.t - r.Camera.Focus; over > 0 && r.Camera.Focus > 0 {
		cue = 1 / (1 + over/(2*r.Camera.Focus))
	}

	k := light * cue
	base := s.inst.Color
	return color.RGBA{
		R: uint8(math.Round(float64(base.R) * k)),
		G: uint8(math.Round(float64(base.G) * k)),
		B: uint8(math.Round(float64(base.B) * k)),
		A: 0xff,
	}
}
