// Package raycast implements the kernel.Kernel interface with the CSG
// raycaster. Solids are csg trees; Boolean operations evaluate exactly on
// rays rather than by sampling.
package raycast

import (
	"fmt"
	"math"

	"github.com/chazu/csgray/pkg/csg"
	"github.com/chazu/csgray/pkg/geom"
	"github.com/chazu/csgray/pkg/kernel"
	"github.com/chazu/csgray/pkg/primitive"
	"github.com/go-gl/mathgl/mgl64"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel     = (*Kernel)(nil)
	_ kernel.Classifier = (*Kernel)(nil)
)

// solid pairs a csg node with a conservative bounding box.
type solid struct {
	node   geom.Solid
	bounds geom.Bounds
}

// BoundingBox returns the axis-aligned bounding box.
func (s *solid) BoundingBox() (min, max [3]float64) {
	return s.bounds.Lower, s.bounds.Upper
}

// Kernel implements kernel.Kernel by building csg trees.
type Kernel struct{}

// New returns a new raycast Kernel.
func New() *Kernel {
	return &Kernel{}
}

// Node returns the csg tree behind a solid built by this package.
func Node(s kernel.Solid) geom.Solid {
	return unwrap(s).node
}

func unwrap(s kernel.Solid) *solid {
	rs, ok := s.(*solid)
	if !ok {
		panic(fmt.Sprintf("raycast: solid %T was not built by this kernel", s))
	}
	return rs
}

func wrap(node geom.Solid, b geom.Bounds) kernel.Solid {
	return &solid{node: node, bounds: b}
}

func around(center mgl64.Vec3, half mgl64.Vec3) geom.Bounds {
	return geom.Bounds{Lower: center.Sub(half), Upper: center.Add(half)}
}

func axisPair(axes string) primitive.AxisPair {
	a, err := primitive.ParseAxisPair(axes)
	if err != nil {
		panic("raycast: " + err.Error())
	}
	return a
}

// cylinderBounds encloses a cylinder; length 0 leaves the free axis open.
func cylinderBounds(a primitive.AxisPair, center mgl64.Vec3, radius, length float64) geom.Bounds {
	half := mgl64.Vec3{radius, radius, radius}
	half[a.Free()] = length / 2
	if length == 0 {
		half[a.Free()] = math.Inf(1)
	}
	return around(center, half)
}

// Sphere creates a sphere.
func (k *Kernel) Sphere(center [3]float64, radius float64) kernel.Solid {
	c := mgl64.Vec3(center)
	return wrap(csg.Primitive(primitive.NewSphere(c, radius)), around(c, mgl64.Vec3{radius, radius, radius}))
}

// Ellipsoid creates an axis-aligned ellipsoid.
func (k *Kernel) Ellipsoid(center, radii [3]float64) kernel.Solid {
	c := mgl64.Vec3(center)
	return wrap(csg.Primitive(primitive.NewEllipsoid(c, mgl64.Vec3(radii))), around(c, mgl64.Vec3(radii)))
}

// Quadric creates a general quadric. Its extent is not analyzed, so the
// bounds are infinite.
func (k *Kernel) Quadric(q [9]float64, center [3]float64, r float64) kernel.Solid {
	m := mgl64.Mat3FromRows(
		mgl64.Vec3{q[0], q[1], q[2]},
		mgl64.Vec3{q[3], q[4], q[5]},
		mgl64.Vec3{q[6], q[7], q[8]},
	)
	return wrap(csg.Primitive(primitive.NewQuadric(m, mgl64.Vec3(center), r)), geom.Infinite())
}

// Box creates an axis-aligned box between two corners.
func (k *Kernel) Box(lower, upper [3]float64) kernel.Solid {
	b := geom.NewBounds(lower, upper)
	return wrap(csg.Primitive(primitive.NewBox(b.Lower, b.Upper)), b)
}

// Plane creates the half-space behind a plane.
func (k *Kernel) Plane(point, normal [3]float64) kernel.Solid {
	return wrap(csg.Primitive(primitive.NewPlane(point, normal)), geom.Infinite())
}

// Cylinder creates a circular cylinder, capped when length > 0.
func (k *Kernel) Cylinder(axes string, center [3]float64, radius, length float64) kernel.Solid {
	a := axisPair(axes)
	c := mgl64.Vec3(center)
	b := cylinderBounds(a, c, radius, length)
	if length == 0 {
		return wrap(csg.Primitive(primitive.NewCylinder(a, c, radius)), b)
	}
	return wrap(csg.FiniteCylinder(a, c, radius, length), b)
}

// Pipe creates a tube of inner radius radius and wall thickness.
func (k *Kernel) Pipe(axes string, center [3]float64, radius, thickness, length float64) kernel.Solid {
	a := axisPair(axes)
	c := mgl64.Vec3(center)
	l := length
	if l == 0 {
		l = math.Inf(1)
	}
	return wrap(csg.Pipe(a, c, radius, thickness, l), cylinderBounds(a, c, radius+math.Max(thickness, 0), length))
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return wrap(csg.Union(sa.node, sb.node), hull(sa.bounds, sb.bounds))
}

// Difference returns the difference a - b.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return wrap(csg.Subtract(sa.node, sb.node), sa.bounds)
}

// Intersection returns the intersection of two solids.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	return wrap(csg.Intersect(sa.node, sb.node), overlap(sa.bounds, sb.bounds))
}

// Clip restricts a solid to an axis-aligned box.
func (k *Kernel) Clip(s kernel.Solid, lower, upper [3]float64) kernel.Solid {
	ss := unwrap(s)
	box := geom.NewBounds(lower, upper)
	return wrap(csg.Clip(ss.node, box), overlap(ss.bounds, box))
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(s, mgl64.Translate3D(x, y, z))
}

// Rotate rotates a solid by Euler angles (degrees) around X, then Y, then Z.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(s, EulerRotation(x, y, z))
}

// Scale scales a solid about the origin.
func (k *Kernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(s, mgl64.Scale3D(x, y, z))
}

func (k *Kernel) transform(s kernel.Solid, m mgl64.Mat4) kernel.Solid {
	ss := unwrap(s)
	return wrap(csg.Transformed(ss.node, m), transformBounds(ss.bounds, m))
}

// Inside reports whether p lies strictly inside s.
func (k *Kernel) Inside(s kernel.Solid, p [3]float64) bool {
	return unwrap(s).node.Contains(p)
}

// EulerRotation returns the rotation applying x, then y, then z degrees
// about the coordinate axes.
func EulerRotation(x, y, z float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(mgl64.DegToRad(z)).
		Mul4(mgl64.HomogRotate3DY(mgl64.DegToRad(y))).
		Mul4(mgl64.HomogRotate3DX(mgl64.DegToRad(x)))
}

// ---------------------------------------------------------------------------
// Bounds arithmetic
// ---------------------------------------------------------------------------

func hull(a, b geom.Bounds) geom.Bounds {
	var out geom.Bounds
	for i := 0; i < 3; i++ {
		out.Lower[i] = math.Min(a.Lower[i], b.Lower[i])
		out.Upper[i] = math.Max(a.Upper[i], b.Upper[i])
	}
	return out
}

// overlap may return inverted bounds when a and b are disjoint.
func overlap(a, b geom.Bounds) geom.Bounds {
	var out geom.Bounds
	for i := 0; i < 3; i++ {
		out.Lower[i] = math.Max(a.Lower[i], b.Lower[i])
		out.Upper[i] = math.Min(a.Upper[i], b.Upper[i])
	}
	return out
}

// transformBounds encloses the image of b under m. Unbounded boxes stay
// unbounded unless m is a pure translation.
func transformBounds(b geom.Bounds, m mgl64.Mat4) geom.Bounds {
	if b.IsInfinite() {
		if m.Mat3() == mgl64.Ident3() {
			off := m.Col(3).Vec3()
			return geom.Bounds{Lower: b.Lower.Add(off), Upper: b.Upper.Add(off)}
		}
		return geom.Infinite()
	}

	inf := math.Inf(1)
	out := geom.Bounds{
		Lower: mgl64.Vec3{inf, inf, inf},
		Upper: mgl64.Vec3{-inf, -inf, -inf},
	}
	for c := 0; c < 8; c++ {
		corner := b.Lower
		for i := 0; i < 3; i++ {
			if c&(1<<i) != 0 {
				corner[i] = b.Upper[i]
			}
		}
		p := geom.TransformPoint(m, corner)
		out = hull(out, geom.Bounds{Lower: p, Upper: p})
	}
	return out
}
