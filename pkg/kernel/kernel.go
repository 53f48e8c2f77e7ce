// Package kernel defines the abstract geometry kernel interface.
// Implementations (raycast, sdfx) build solids and Boolean combinations
// behind this interface, so the scene graph can be assembled against any
// backend without changing the rest of the system.
package kernel

import "math"

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box. Unbounded solids
	// report infinite components.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
//
// Cylinder and Pipe take their cross-section plane as "xy", "xz" or "yz";
// a length of zero leaves them unbounded along the remaining axis. Passing
// a Solid built by a different Kernel panics.
type Kernel interface {
	// Primitives
	Sphere(center [3]float64, radius float64) Solid
	Ellipsoid(center, radii [3]float64) Solid
	Quadric(q [9]float64, center [3]float64, r float64) Solid
	Box(lower, upper [3]float64) Solid
	Plane(point, normal [3]float64) Solid
	Cylinder(axes string, center [3]float64, radius, length float64) Solid
	Pipe(axes string, center [3]float64, radius, thickness, length float64) Solid

	// Boolean operations
	Union(a, b Solid) Solid
	Difference(a, b Solid) Solid
	Intersection(a, b Solid) Solid
	Clip(s Solid, lower, upper [3]float64) Solid

	// Transforms
	Translate(s Solid, x, y, z float64) Solid
	Rotate(s Solid, x, y, z float64) Solid // Euler angles in degrees, X then Y then Z
	Scale(s Solid, x, y, z float64) Solid
}

// Mesher is implemented by kernels that can tessellate their solids.
type Mesher interface {
	ToMesh(s Solid) (*Mesh, error)
}

// Classifier is implemented by kernels that can answer point membership.
type Classifier interface {
	// Inside reports whether p lies strictly inside s.
	Inside(s Solid, p [3]float64) bool
}

// Bounded reports whether a solid has a finite bounding box.
func Bounded(s Solid) bool {
	lo, hi := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.IsInf(lo[i], 0) || math.IsInf(hi[i], 0) {
			return false
		}
	}
	return true
}

// Empty reports whether a solid's bounding box encloses no volume.
func Empty(s Solid) bool {
	lo, hi := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if !(lo[i] < hi[i]) {
			return true
		}
	}
	return false
}
