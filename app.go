package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image/color"
	"image/png"
	"log"

	"github.com/chazu/csgray/pkg/assemble"
	"github.com/chazu/csgray/pkg/config"
	"github.com/chazu/csgray/pkg/engine"
	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/raytrace"
	"github.com/chazu/csgray/pkg/scenes"
)

// colorPalette is assigned in turn to parts that do not set a color.
var colorPalette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// App is the Wails backend. It exposes methods to the frontend via bindings.
type App struct {
	ctx    context.Context
	engine *engine.Engine
	cfg    config.Render
}

// PartData describes one rendered object for the frontend part list.
type PartData struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the full result returned to the frontend.
type EvalResult struct {
	Source   string          `json:"source,omitempty"`
	Image    string          `json:"image"` // PNG data URL, empty on error
	Width    int             `json:"width"`
	Height   int             `json:"height"`
	Parts    []PartData      `json:"parts"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// SceneEntry is one item of the scene picker.
type SceneEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Editable    bool   `json:"editable"`
}

// NewApp creates a new App rendering with cfg.
func NewApp(cfg config.Render) *App {
	return &App{
		ctx:    context.Background(),
		engine: engine.NewEngine(),
		cfg:    cfg,
	}
}

// startup is called by Wails on app startup. The context is saved so
// renders stop when the window closes.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func newResult() EvalResult {
	return EvalResult{
		Parts:    []PartData{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
}

func (r *EvalResult) fail(msg string) {
	r.Errors = append(r.Errors, EvalErrorData{Message: msg})
}

// Evaluate takes scene source and returns a rendered image plus errors.
// This is the primary binding called by the frontend editor.
func (a *App) Evaluate(source string) EvalResult {
	result := newResult()

	// Step 1: Evaluate the source into a scene graph.
	res, err := a.engine.Run(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		result.fail(err.Error())
		return result
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Line: w.Line, Col: w.Col, Message: w.Message})
	}

	// Step 2: Convert eval errors to the frontend format.
	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Col: e.Col, Message: e.Message})
		}
		return result
	}

	// Step 3: Assemble the graph into csg instances.
	scene, err := scenes.FromGraph(res.Graph)
	if err != nil {
		log.Printf("Assemble error: %v", err)
		result.fail("assembly failed: " + err.Error())
		return result
	}
	if len(scene.Instances) == 0 {
		return result
	}
	applyPalette(scene)

	// Step 4: Render and encode.
	a.render(scene, &result)
	return result
}

// applyPalette recolors instances left at the default color so that
// neighbouring parts are distinguishable.
func applyPalette(s *scenes.Scene) {
	n := 0
	for i := range s.Instances {
		if s.Instances[i].Color != assemble.DefaultColor {
			continue
		}
		c, err := graph.ParseColor(colorPalette[n%len(colorPalette)])
		if err == nil {
			s.Instances[i].Color = c
		}
		n++
	}
}

func hexColor(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// render draws s at the configured size into result.
func (a *App) render(s *scenes.Scene, result *EvalResult) {
	for _, inst := range s.Instances {
		result.Parts = append(result.Parts, PartData{Name: inst.Name, Color: hexColor(inst.Color)})
	}

	rs, err := s.Build()
	if err != nil {
		result.fail(err.Error())
		return
	}
	bg := s.Background
	if a.cfg.Background != "" {
		if c, err := graph.ParseColor(a.cfg.Background); err == nil {
			bg = c
		}
	}
	r := &raytrace.Renderer{
		Scene:      rs,
		Camera:     s.RayCamera(float64(a.cfg.Width)/float64(a.cfg.Height), a.cfg.FOV),
		Width:      a.cfg.Width,
		Height:     a.cfg.Height,
		TileSize:   a.cfg.TileSize,
		Workers:    a.cfg.Workers,
		Background: bg,
	}
	img, err := r.Render(a.ctx)
	if err != nil {
		log.Printf("Render error: %v", err)
		result.fail("render failed: " + err.Error())
		return
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		result.fail(err.Error())
		return
	}
	result.Image = "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	result.Width, result.Height = a.cfg.Width, a.cfg.Height
}

// Scenes lists the bundled scenes for the picker.
func (a *App) Scenes() []SceneEntry {
	entries := []SceneEntry{}
	for _, name := range scenes.Names() {
		e := SceneEntry{Name: name}
		if _, ok := scenes.Source(name); ok {
			e.Editable = true
		} else if s, err := scenes.Load(name); err == nil {
			e.Description = s.Description
		}
		entries = append(entries, e)
	}
	return entries
}

// LoadScene renders a bundled scene. DSL scenes also return their source
// so the editor can show it.
func (a *App) LoadScene(name string) EvalResult {
	if src, ok := scenes.Source(name); ok {
		result := a.Evaluate(src)
		result.Source = src
		return result
	}

	result := newResult()
	s, err := scenes.Load(name)
	if err != nil {
		result.fail(err.Error())
		return result
	}
	a.render(s, &result)
	return result
}
