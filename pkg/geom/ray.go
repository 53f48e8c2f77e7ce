// Package geom holds the ray, hit and bounds types shared by primitives,
// CSG nodes and the ray tracer, plus the Geometry interface they all
// satisfy.
package geom

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Ray is a parametric ray Origin + t*Direction restricted to the half-open
// interval [MinT, MaxT). Rays are values; transforming one produces a new Ray.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
	MinT      float64
	MaxT      float64
}

// NewRay returns a ray covering [0, +Inf).
func NewRay(origin, dir mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: dir, MinT: 0, MaxT: math.Inf(1)}
}

// NewRayInterval returns a ray restricted to [minT, maxT). It panics if the
// interval is inverted or NaN.
func NewRayInterval(origin, dir mgl64.Vec3, minT, maxT float64) Ray {
	if !(minT <= maxT) {
		panic(fmt.Sprintf("geom: invalid ray interval [%g, %g)", minT, maxT))
	}
	return Ray{Origin: origin, Direction: dir, MinT: minT, MaxT: maxT}
}

// RayThrough returns a ray starting at from and heading towards to, with a
// normalized direction.
func RayThrough(from, to mgl64.Vec3) Ray {
	return NewRay(from, to.Sub(from).Normalize())
}

// At returns the point at parameter t.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// Contains reports whether t lies in [MinT, MaxT).
func (r Ray) Contains(t float64) bool {
	return t >= r.MinT && t < r.MaxT
}

// WithInterval returns a copy of r restricted to [minT, maxT).
func (r Ray) WithInterval(minT, maxT float64) Ray {
	return NewRayInterval(r.Origin, r.Direction, minT, maxT)
}

// Transform maps the ray through m. The origin and origin+direction are both
// transformed as homogeneous points and the direction is recovered by
// subtraction, so scale and shear are handled correctly. The parametric
// interval is carried over unchanged.
func (r Ray) Transform(m mgl64.Mat4) Ray {
	o := TransformPoint(m, r.Origin)
	p := TransformPoint(m, r.Origin.Add(r.Direction))
	return Ray{Origin: o, Direction: p.Sub(o), MinT: r.MinT, MaxT: r.MaxT}
}

func (r Ray) String() string {
	return fmt.Sprintf("ray(o=%v d=%v [%g, %g))", r.Origin, r.Direction, r.MinT, r.MaxT)
}

// TransformPoint applies m to p as a w=1 point, with perspective divide.
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	h := m.Mul4x1(p.Vec4(1))
	if w := h.W(); w != 0 && w != 1 {
		return h.Vec3().Mul(1 / w)
	}
	return h.Vec3()
}

// FromScreen builds the primary ray through pixel (px, py) of a width x height
// image. Pixel coordinates map to NDC as (2x/w-1, 1-2y/h); the near (z=0) and
// far (z=1) NDC points are un-projected through the inverse projection and
// then the inverse view. Pass px+0.5 to sample pixel centers.
func FromScreen(px, py float64, width, height int, view, proj mgl64.Mat4) Ray {
	x := 2*px/float64(width) - 1
	y := 1 - 2*py/float64(height)
	toWorld := view.Inv().Mul4(proj.Inv())
	near := TransformPoint(toWorld, mgl64.Vec3{x, y, 0})
	far := TransformPoint(toWorld, mgl64.Vec3{x, y, 1})
	return RayThrough(near, far)
}

// Perspective returns a right-handed perspective projection whose NDC depth
// runs from 0 at the near plane to 1 at the far plane. fovy is in radians.
func Perspective(fovy, aspect, near, far float64) mgl64.Mat4 {
	f := 1 / math.Tan(fovy/2)
	return mgl64.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, far / (near - far), -1,
		0, 0, near * far / (near - far), 0,
	}
}
