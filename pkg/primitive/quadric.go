// Package primitive implements ray intersection for the implicit surfaces
// used as CSG leaves: quadrics, planes, boxes and cylinders. Every type here
// is immutable after construction and safe for concurrent Raycast calls.
package primitive

import (
	"iter"
	"math"

	"github.com/chazu/csgray/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// degenerateEps is the relative threshold below which the quadratic or
// linear coefficient of a ray/quadric equation is treated as zero.
const degenerateEps = 1e-12

// Quadric is the surface (x-Center)ᵗ Q (x-Center) + R = 0. Q must be
// symmetric. Points where the left-hand side is negative are inside.
type Quadric struct {
	Q      mgl64.Mat3
	Center mgl64.Vec3
	R      float64
}

// NewQuadric returns a quadric with the given coefficients.
func NewQuadric(q mgl64.Mat3, center mgl64.Vec3, r float64) *Quadric {
	return &Quadric{Q: q, Center: center, R: r}
}

// NewSphere returns the sphere of the given radius around center.
func NewSphere(center mgl64.Vec3, radius float64) *Quadric {
	return &Quadric{Q: mgl64.Ident3(), Center: center, R: -radius * radius}
}

// NewEllipsoid returns an axis-aligned ellipsoid with semi-axes radii.
func NewEllipsoid(center, radii mgl64.Vec3) *Quadric {
	q := mgl64.Diag3(mgl64.Vec3{
		1 / (radii[0] * radii[0]),
		1 / (radii[1] * radii[1]),
		1 / (radii[2] * radii[2]),
	})
	return &Quadric{Q: q, Center: center, R: -1}
}

// Eval returns the implicit function value at p.
func (q *Quadric) Eval(p mgl64.Vec3) float64 {
	d := p.Sub(q.Center)
	return d.Dot(q.Q.Mul3x1(d)) + q.R
}

// Contains reports whether p is strictly inside the quadric.
func (q *Quadric) Contains(p mgl64.Vec3) bool {
	return q.Eval(p) < 0
}

// Raycast yields up to two crossings, smaller T first. A tangent ray yields
// two equal hits so that every closed quadric is crossed an even number of
// times. A ray that starts on the surface only reports the crossing at MinT
// when it changes what Contains says about the start point.
func (q *Quadric) Raycast(r geom.Ray) iter.Seq[geom.Hit] {
	return func(yield func(geom.Hit) bool) {
		roots, n := q.roots(r)
		if n == 2 && math.Abs(roots[1]-roots[0]) <= geom.TieEpsilon && onStart(r, roots[0]) {
			// Grazing the surface at the start point.
			return
		}
		for _, t := range roots[:n] {
			if onStart(r, t) {
				a, b, _ := q.equation(r)
				var keep bool
				if t, keep = startCrossing(r, t, 2*a*t+b, q.Contains); !keep {
					continue
				}
			} else if !r.Contains(t) {
				continue
			}
			if !yield(geom.Hit{T: t, Position: r.At(t)}) {
				return
			}
		}
	}
}

// equation returns the coefficients of a·t² + b·t + c, the implicit
// function along r.
func (q *Quadric) equation(r geom.Ray) (a, b, c float64) {
	o := r.Origin.Sub(q.Center)
	d := r.Direction
	qd := q.Q.Mul3x1(d)
	return d.Dot(qd), 2 * o.Dot(qd), o.Dot(q.Q.Mul3x1(o)) + q.R
}

func (q *Quadric) roots(r geom.Ray) ([2]float64, int) {
	a, b, c := q.equation(r)
	o := r.Origin.Sub(q.Center)
	d := r.Direction

	scale := maxAbs(q.Q)
	if math.Abs(a) <= degenerateEps*scale*d.LenSqr() {
		// The direction lies in (or near) the null space of Q: the
		// equation is linear in t, or has no t term at all.
		if math.Abs(b) <= degenerateEps*scale*d.Len()*math.Max(1, o.Len()) {
			return [2]float64{}, 0
		}
		return [2]float64{-c / b}, 1
	}

	disc := b*b - 4*a*c
	if disc < 0 {
		return [2]float64{}, 0
	}
	s := math.Sqrt(disc)
	t0 := (-b - s) / (2 * a)
	t1 := (-b + s) / (2 * a)
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return [2]float64{t0, t1}, 2
}

// onStart reports whether t is a crossing at the ray's start point.
func onStart(r geom.Ray, t float64) bool {
	return !math.IsInf(r.MinT, -1) && math.Abs(t-r.MinT) <= geom.TieEpsilon
}

// startCrossing decides a crossing at the start point. slope is the
// derivative of the implicit function along the ray at t: negative means the
// ray moves inside. The crossing is kept, clamped to MinT, only when it
// takes the ray to the side opposite the one contains reports for the start.
func startCrossing(r geom.Ray, t, slope float64, contains func(mgl64.Vec3) bool) (float64, bool) {
	if slope == 0 {
		return 0, false
	}
	entering := slope < 0
	if entering == contains(r.At(r.MinT)) {
		return 0, false
	}
	return math.Max(t, r.MinT), true
}

func maxAbs(m mgl64.Mat3) float64 {
	v := 0.0
	for _, e := range m {
		v = math.Max(v, math.Abs(e))
	}
	return v
}
