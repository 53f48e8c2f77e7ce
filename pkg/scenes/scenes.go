// Package scenes provides ready-made scenes: a few built in Go directly
// on the csg package, and scene DSL files embedded from examples/.
package scenes

import (
	"embed"
	"fmt"
	"image/color"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/chazu/csgray/pkg/assemble"
	"github.com/chazu/csgray/pkg/csg"
	"github.com/chazu/csgray/pkg/engine"
	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/kernel/raycast"
	"github.com/chazu/csgray/pkg/raytrace"
	"github.com/go-gl/mathgl/mgl64"
)

//go:embed examples/*.csg
var examples embed.FS

// Scene is a renderable description: instances plus camera settings.
type Scene struct {
	Name        string
	Description string
	Camera      graph.Camera
	Background  color.RGBA
	Instances   []raytrace.Instance
}

// Build registers the instances with a new raytrace.Scene.
func (s *Scene) Build() (*raytrace.Scene, error) {
	rs := raytrace.NewScene()
	for _, inst := range s.Instances {
		if _, err := rs.Add(inst); err != nil {
			return nil, fmt.Errorf("scenes: %s: %w", s.Name, err)
		}
	}
	return rs, nil
}

// RayCamera returns the scene camera for an image of the given aspect
// ratio. A positive fov overrides the scene's field of view.
func (s *Scene) RayCamera(aspect, fov float64) raytrace.Camera {
	c := s.Camera
	if fov > 0 {
		c.FOV = fov
	}
	return raytrace.LookAt(vec(c.Eye), vec(c.Target), vec(c.Up), c.FOV, aspect)
}

func vec(v graph.Vec3) mgl64.Vec3 { return mgl64.Vec3(v.Array()) }

// builtin maps a name to a constructor for the Go scenes.
var builtin = map[string]func() *Scene{
	"spheres":    spheres,
	"carved-box": carvedBox,
	"cross":      cross,
	"pipes":      pipes,
	"guitar":     guitar,
}

// Names lists every scene, built-in and embedded, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	entries, _ := fs.ReadDir(examples, "examples")
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".csg"))
	}
	slices.Sort(names)
	return names
}

// Source returns the DSL text of an embedded scene.
func Source(name string) (string, bool) {
	data, err := examples.ReadFile(path.Join("examples", name+".csg"))
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Load returns the named scene. Embedded DSL scenes are evaluated on each
// call.
func Load(name string) (*Scene, error) {
	if fn, ok := builtin[name]; ok {
		return fn(), nil
	}
	src, ok := Source(name)
	if !ok {
		return nil, fmt.Errorf("scenes: unknown scene %q", name)
	}
	s, evalErrs, err := FromSource(src)
	if err != nil {
		return nil, fmt.Errorf("scenes: %s: %w", name, err)
	}
	if len(evalErrs) > 0 {
		return nil, fmt.Errorf("scenes: %s: %s", name, evalErrs[0].Error())
	}
	s.Name = name
	return s, nil
}

// FromSource evaluates scene DSL. Source errors are returned as EvalErrors
// with a nil scene; err is reserved for failures outside the source.
func FromSource(src string) (*Scene, []engine.EvalError, error) {
	g, evalErrs, err := engine.NewEngine().Evaluate(src)
	if err != nil || len(evalErrs) > 0 {
		return nil, evalErrs, err
	}
	s, err := FromGraph(g)
	if err != nil {
		return nil, nil, err
	}
	return s, nil, nil
}

// FromGraph assembles each root of g into a compiled csg instance.
func FromGraph(g *graph.SceneGraph) (*Scene, error) {
	parts, err := assemble.Assemble(g, raycast.New())
	if err != nil {
		return nil, err
	}
	bg, err := graph.ParseColor(g.Settings.Background)
	if err != nil {
		return nil, fmt.Errorf("scenes: background: %w", err)
	}
	s := &Scene{Camera: g.Settings.Camera, Background: bg}
	for _, p := range parts {
		s.Instances = append(s.Instances, raytrace.Instance{
			Name:     p.Name,
			Geometry: csg.Compile(raycast.Node(p.Solid)),
			ToWorld:  mgl64.Ident4(),
			Color:    p.Color,
		})
	}
	return s, nil
}
