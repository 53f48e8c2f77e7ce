// Package raytrace is the ray tracing harness around the CSG evaluator: a
// flat list of scene instances, a Trace call that dispatches hits to
// caller-supplied closures, a look-at camera and a tiled parallel renderer.
package raytrace

import (
	"fmt"
	"image/color"
	"math"

	"github.com/chazu/csgray/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Instance places a geometry in the world.
type Instance struct {
	Name     string
	Geometry geom.Geometry
	ToWorld  mgl64.Mat4 // the zero matrix means identity
	Color    color.RGBA

	toLocal mgl64.Mat4
}

// Intersection is one hit reported by Trace.
type Intersection struct {
	Instance *Instance
	T        float64    // parameter along the world ray
	Local    mgl64.Vec3 // hit position in the instance frame
	Position mgl64.Vec3 // hit position in world space
}

// Handler receives the results of Scene.Trace. Any field may be nil.
//
// AnyHit is called for every crossing of every instance, in T order within
// an instance; returning false stops the scan. ClosestHit is then called
// with the nearest crossing seen, or Miss if there was none.
type Handler struct {
	AnyHit     func(Intersection) bool
	ClosestHit func(Intersection)
	Miss       func()
}

// Scene is a list of instances. It is safe for concurrent Trace calls once
// all instances have been added.
type Scene struct {
	instances []*Instance
}

// NewScene returns an empty scene.
func NewScene() *Scene {
	return &Scene{}
}

// Add appends an instance. The placement must be invertible.
func (s *Scene) Add(inst Instance) (*Instance, error) {
	if inst.Geometry == nil {
		return nil, fmt.Errorf("raytrace: instance %q has no geometry", inst.Name)
	}
	if inst.ToWorld == (mgl64.Mat4{}) {
		inst.ToWorld = mgl64.Ident4()
	}
	det := inst.ToWorld.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return nil, fmt.Errorf("raytrace: instance %q has a singular transform", inst.Name)
	}
	inst.toLocal = inst.ToWorld.Inv()

	p := &inst
	s.instances = append(s.instances, p)
	return p, nil
}

// Instances returns the scene's instances in insertion order.
func (s *Scene) Instances() []*Instance {
	return s.instances
}

// Trace intersects r with every instance. Each instance sees the ray in its
// own frame; since the transform keeps the ray parameter, T values from
// different instances compare directly.
func (s *Scene) Trace(r geom.Ray, h Handler) {
	var (
		closest Intersection
		found   bool
	)
	record := func(inst *Instance, hit geom.Hit) {
		if !found || hit.T < closest.T {
			closest = Intersection{
				Instance: inst,
				T:        hit.T,
				Local:    hit.Position,
				Position: r.At(hit.T),
			}
			found = true
		}
	}

scan:
	for _, inst := range s.instances {
		local := r.Transform(inst.toLocal)
		if h.AnyHit == nil {
			if hit, ok := geom.First(inst.Geometry.Raycast(local)); ok {
				record(inst, hit)
			}
			continue
		}
		for hit := range inst.Geometry.Raycast(local) {
			record(inst, hit)
			is := Intersection{Instance: inst, T: hit.T, Local: hit.Position, Position: r.At(hit.T)}
			if !h.AnyHit(is) {
				break scan
			}
		}
	}

	switch {
	case found && h.ClosestHit != nil:
		h.ClosestHit(closest)
	case !found && h.Miss != nil:
		h.Miss()
	}
}

// Closest returns the nearest intersection of r with the scene.
func (s *Scene) Closest(r geom.Ray) (Intersection, bool) {
	var (
		out Intersection
		ok  bool
	)
	s.Trace(r, Handler{ClosestHit: func(is Intersection) { out, ok = is, true }})
	return out, ok
}
