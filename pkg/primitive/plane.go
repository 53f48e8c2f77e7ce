package primitive

import (
	"iter"
	"math"

	"github.com/chazu/csgray/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Plane is the surface dot(Normal, x-Point) = 0. As a solid it is the
// half-space behind the normal.
type Plane struct {
	Point  mgl64.Vec3
	Normal mgl64.Vec3
}

// NewPlane returns the plane through point with the given normal.
func NewPlane(point, normal mgl64.Vec3) *Plane {
	return &Plane{Point: point, Normal: normal}
}

// Intersect returns the parameter of the single crossing, or false when the
// ray runs parallel to the plane.
func (p *Plane) Intersect(r geom.Ray) (float64, bool) {
	denom := p.Normal.Dot(r.Direction)
	if math.Abs(denom) <= degenerateEps*p.Normal.Len()*r.Direction.Len() {
		return 0, false
	}
	return p.Normal.Dot(p.Point.Sub(r.Origin)) / denom, true
}

// Raycast yields at most one hit. A ray starting on the plane is reported
// crossing it only when it heads behind the plane.
func (p *Plane) Raycast(r geom.Ray) iter.Seq[geom.Hit] {
	return func(yield func(geom.Hit) bool) {
		t, ok := p.Intersect(r)
		if !ok {
			return
		}
		if onStart(r, t) {
			if t, ok = startCrossing(r, t, p.Normal.Dot(r.Direction), p.Contains); !ok {
				return
			}
		} else if !r.Contains(t) {
			return
		}
		yield(geom.Hit{T: t, Position: r.At(t)})
	}
}

// Contains reports whether x lies strictly behind the plane.
func (p *Plane) Contains(x mgl64.Vec3) bool {
	return p.Normal.Dot(x.Sub(p.Point)) < 0
}
