// Package config holds the render settings shared by the command line,
// the tile server and the viewer. Values start from defaults, may be read
// from a JSON file, and are then overridden by CSGRAY_* environment
// variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/hitlog"
)

const (
	// DefaultWidth and DefaultHeight are the output image size in pixels.
	DefaultWidth  = 640
	DefaultHeight = 480
	// DefaultTileSize is the edge length of a render tile.
	DefaultTileSize = 32
	// DefaultOutput is where rendered images are written.
	DefaultOutput = "out.png"
	// DefaultAddr is the tile server listen address.
	DefaultAddr = ":8080"
	// DefaultMaxSize caps width and height.
	DefaultMaxSize = 8192
)

// Render captures every render tunable.
type Render struct {
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	TileSize   int     `json:"tile_size"`
	Workers    int     `json:"workers"`              // zero means one per CPU
	FOV        float64 `json:"fov,omitempty"`        // overrides the scene camera when set
	Background string  `json:"background,omitempty"` // overrides the scene background when set
	Output     string  `json:"output"`
	Addr       string  `json:"addr"`

	// HitLog selects the framing of hit-log dumps: none, snappy or zstd.
	HitLog hitlog.Compression `json:"hitlog"`
}

// Default returns the built-in configuration.
func Default() Render {
	return Render{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		TileSize: DefaultTileSize,
		Output:   DefaultOutput,
		Addr:     DefaultAddr,
		HitLog:   hitlog.Snappy,
	}
}

// Problems lists every invalid setting found.
type Problems []string

func (p Problems) Error() string {
	return strings.Join(p, "; ")
}

// LoadFile overlays the JSON file at path on top of the defaults. Keys
// missing from the file keep their default values.
func LoadFile(path string) (Render, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Load returns the defaults, or the file at path when path is non-empty,
// with environment overrides applied.
func Load(path string) (Render, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv reads CSGRAY_* overrides. Invalid values are collected and
// returned together as Problems; valid ones are still applied.
func (c *Render) ApplyEnv() error {
	var problems Problems

	positive := func(key string, dst *int) {
		raw := strings.TrimSpace(os.Getenv(key))
		if raw == "" {
			return
		}
		value, err := strconv.Atoi(raw)
		if err != nil || value <= 0 {
			problems = append(problems, fmt.Sprintf("%s must be a positive integer, got %q", key, raw))
			return
		}
		*dst = value
	}
	positive("CSGRAY_WIDTH", &c.Width)
	positive("CSGRAY_HEIGHT", &c.Height)
	positive("CSGRAY_TILE_SIZE", &c.TileSize)

	if raw := strings.TrimSpace(os.Getenv("CSGRAY_WORKERS")); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			problems = append(problems, fmt.Sprintf("CSGRAY_WORKERS must be a non-negative integer, got %q", raw))
		} else {
			c.Workers = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CSGRAY_FOV")); raw != "" {
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil || !(value > 0 && value < 180) {
			problems = append(problems, fmt.Sprintf("CSGRAY_FOV must be between 0 and 180 degrees, got %q", raw))
		} else {
			c.FOV = value
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CSGRAY_BACKGROUND")); raw != "" {
		if _, err := graph.ParseColor(raw); err != nil {
			problems = append(problems, fmt.Sprintf("CSGRAY_BACKGROUND: %v", err))
		} else {
			c.Background = raw
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CSGRAY_HITLOG")); raw != "" {
		comp, err := hitlog.ParseCompression(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("CSGRAY_HITLOG: %v", err))
		} else {
			c.HitLog = comp
		}
	}

	if raw := strings.TrimSpace(os.Getenv("CSGRAY_OUTPUT")); raw != "" {
		c.Output = raw
	}
	if raw := strings.TrimSpace(os.Getenv("CSGRAY_ADDR")); raw != "" {
		c.Addr = raw
	}

	if len(problems) > 0 {
		return problems
	}
	return nil
}

// Validate checks values that may have come from a file or flags.
func (c Render) Validate() error {
	var problems Problems
	if c.Width <= 0 || c.Width > DefaultMaxSize {
		problems = append(problems, fmt.Sprintf("width %d must be in 1..%d", c.Width, DefaultMaxSize))
	}
	if c.Height <= 0 || c.Height > DefaultMaxSize {
		problems = append(problems, fmt.Sprintf("height %d must be in 1..%d", c.Height, DefaultMaxSize))
	}
	if c.TileSize <= 0 {
		problems = append(problems, fmt.Sprintf("tile size %d must be positive", c.TileSize))
	}
	if c.Workers < 0 {
		problems = append(problems, fmt.Sprintf("workers %d must not be negative", c.Workers))
	}
	if c.FOV != 0 && !(c.FOV > 0 && c.FOV < 180) {
		problems = append(problems, fmt.Sprintf("fov %g must be between 0 and 180 degrees", c.FOV))
	}
	if c.Background != "" {
		if _, err := graph.ParseColor(c.Background); err != nil {
			problems = append(problems, err.Error())
		}
	}
	if len(problems) > 0 {
		return problems
	}
	return nil
}

// WorkerCount resolves a zero Workers setting to the CPU count.
func (c Render) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}
