// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// Unbounded primitives (planes, general quadrics, uncapped cylinders and
// pipes) are intersected with a cube of half-size Extent around the origin
// so that every solid can be meshed.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/csgray/pkg/kernel"
	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface checks.
var (
	_ kernel.Kernel     = (*SdfxKernel)(nil)
	_ kernel.Mesher     = (*SdfxKernel)(nil)
	_ kernel.Classifier = (*SdfxKernel)(nil)
)

const (
	// DefaultExtent is the half-size of the world cube clamping unbounded solids.
	DefaultExtent = 50.0

	// DefaultMeshCells controls marching cubes tessellation resolution.
	DefaultMeshCells = 200
)

// sdfxSolid wraps an sdf.SDF3 to implement kernel.Solid.
type sdfxSolid struct {
	s sdf.SDF3
}

// BoundingBox returns the axis-aligned bounding box.
func (s *sdfxSolid) BoundingBox() (min, max [3]float64) {
	bb := s.s.BoundingBox()
	min = [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	max = [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}
	return min, max
}

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	Extent float64 // half-size of the world cube
	Cells  int     // marching cubes cells along the longest axis
}

// New returns a new SdfxKernel with default extent and mesh resolution.
func New() *SdfxKernel {
	return &SdfxKernel{Extent: DefaultExtent, Cells: DefaultMeshCells}
}

// unwrap extracts the underlying sdf.SDF3 from a kernel.Solid.
func unwrap(s kernel.Solid) sdf.SDF3 {
	ss, ok := s.(*sdfxSolid)
	if !ok {
		panic(fmt.Sprintf("sdfx: solid %T was not built by this kernel", s))
	}
	return ss.s
}

// wrap creates a kernel.Solid from an sdf.SDF3.
func wrap(s sdf.SDF3) kernel.Solid {
	return &sdfxSolid{s: s}
}

func vec(a [3]float64) v3.Vec {
	return v3.Vec{X: a[0], Y: a[1], Z: a[2]}
}

func must(s sdf.SDF3, err error) sdf.SDF3 {
	if err != nil {
		panic(fmt.Sprintf("sdfx: %v", err))
	}
	return s
}

func at(s sdf.SDF3, center [3]float64) sdf.SDF3 {
	if center == [3]float64{} {
		return s
	}
	return sdf.Transform3D(s, sdf.Translate3d(vec(center)))
}

// world returns the clamping cube.
func (k *SdfxKernel) world() sdf.SDF3 {
	e := 2 * k.Extent
	return must(sdf.Box3D(v3.Vec{X: e, Y: e, Z: e}, 0))
}

// clamp bounds an unbounded solid by the world cube. Intersect3D takes its
// bounding box from the first operand, so the cube goes first.
func (k *SdfxKernel) clamp(s sdf.SDF3) sdf.SDF3 {
	return sdf.Intersect3D(k.world(), s)
}

// Sphere creates a sphere.
func (k *SdfxKernel) Sphere(center [3]float64, radius float64) kernel.Solid {
	return wrap(at(must(sdf.Sphere3D(radius)), center))
}

// Ellipsoid creates an axis-aligned ellipsoid by scaling a unit sphere.
func (k *SdfxKernel) Ellipsoid(center, radii [3]float64) kernel.Solid {
	s := sdf.Transform3D(must(sdf.Sphere3D(1)), sdf.Scale3d(vec(radii)))
	return wrap(at(s, center))
}

// Quadric creates a general quadric, clamped to the world cube.
func (k *SdfxKernel) Quadric(q [9]float64, center [3]float64, r float64) kernel.Solid {
	return wrap(k.clamp(&quadricSDF{q: q, center: center, r: r, extent: k.Extent}))
}

// Box creates an axis-aligned box between two corners.
func (k *SdfxKernel) Box(lower, upper [3]float64) kernel.Solid {
	var size, center [3]float64
	for i := 0; i < 3; i++ {
		size[i] = math.Abs(upper[i] - lower[i])
		center[i] = (upper[i] + lower[i]) / 2
	}
	return wrap(at(must(sdf.Box3D(vec(size), 0)), center))
}

// Plane creates the half-space behind a plane, clamped to the world cube.
func (k *SdfxKernel) Plane(point, normal [3]float64) kernel.Solid {
	n := math.Sqrt(normal[0]*normal[0] + normal[1]*normal[1] + normal[2]*normal[2])
	if n == 0 {
		panic("sdfx: plane with zero normal")
	}
	unit := [3]float64{normal[0] / n, normal[1] / n, normal[2] / n}
	return wrap(k.clamp(&halfSpaceSDF{point: point, normal: unit, extent: k.Extent}))
}

// cylinderFrame rotates sdfx's Z-aligned cylinder onto the free axis of axes.
func cylinderFrame(axes string) sdf.M44 {
	switch axes {
	case "xy", "yx":
		return sdf.Translate3d(v3.Vec{})
	case "xz", "zx":
		return sdf.RotateX(math.Pi / 2)
	case "yz", "zy":
		return sdf.RotateY(math.Pi / 2)
	}
	panic(fmt.Sprintf("sdfx: invalid axis pair %q", axes))
}

// Cylinder creates a circular cylinder, capped when length > 0.
func (k *SdfxKernel) Cylinder(axes string, center [3]float64, radius, length float64) kernel.Solid {
	return wrap(k.cylinder(axes, center, radius, length))
}

func (k *SdfxKernel) cylinder(axes string, center [3]float64, radius, length float64) sdf.SDF3 {
	capped := length > 0
	if !capped {
		// Long enough to cross the whole world cube after clamping.
		length = 4 * k.Extent
	}
	s := sdf.Transform3D(must(sdf.Cylinder3D(length, radius, 0)), cylinderFrame(axes))
	s = at(s, center)
	if !capped {
		s = k.clamp(s)
	}
	return s
}

// Pipe creates a tube of inner radius radius and wall thickness. A
// non-positive thickness gives an empty solid.
func (k *SdfxKernel) Pipe(axes string, center [3]float64, radius, thickness, length float64) kernel.Solid {
	if thickness <= 0 {
		return wrap(emptySDF{at: vec(center)})
	}
	outer := k.cylinder(axes, center, radius+thickness, length)
	innerLen := 0.0
	if length > 0 {
		// Overshoot so the bore opens cleanly through both caps.
		innerLen = length + 2*thickness
	}
	inner := k.cylinder(axes, center, radius, innerLen)
	return wrap(sdf.Difference3D(outer, inner))
}

// Union returns the union of two solids.
func (k *SdfxKernel) Union(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Union3D(unwrap(a), unwrap(b)))
}

// Difference returns the difference a - b.
func (k *SdfxKernel) Difference(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Difference3D(unwrap(a), unwrap(b)))
}

// Intersection returns the intersection of two solids.
func (k *SdfxKernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(a), unwrap(b)))
}

// Clip restricts a solid to an axis-aligned box.
func (k *SdfxKernel) Clip(s kernel.Solid, lower, upper [3]float64) kernel.Solid {
	return wrap(sdf.Intersect3D(unwrap(s), unwrap(k.Box(lower, upper))))
}

// Translate moves a solid by (x, y, z).
func (k *SdfxKernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	m := sdf.Translate3d(v3.Vec{X: x, Y: y, Z: z})
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Rotate rotates a solid by Euler angles (degrees) around X, then Y, then Z.
func (k *SdfxKernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0

	m := sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))
	return wrap(sdf.Transform3D(unwrap(s), m))
}

// Scale scales a solid about the origin. Non-uniform scales distort the
// distance field but keep its sign, which is all meshing and Inside need.
func (k *SdfxKernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	return wrap(sdf.Transform3D(unwrap(s), sdf.Scale3d(v3.Vec{X: x, Y: y, Z: z})))
}

// Inside reports whether p lies strictly inside s.
func (k *SdfxKernel) Inside(s kernel.Solid, p [3]float64) bool {
	return unwrap(s).Evaluate(vec(p)) < 0
}

// ToMesh converts a solid to a triangle mesh using marching cubes.
func (k *SdfxKernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	sdf3 := unwrap(s)
	if kernel.Empty(s) {
		return &kernel.Mesh{}, nil
	}

	cells := k.Cells
	if cells <= 0 {
		cells = DefaultMeshCells
	}
	renderer := render.NewMarchingCubesUniform(cells)
	triangles := render.ToTriangles(sdf3, renderer)

	numVerts := len(triangles) * 3
	mesh := &kernel.Mesh{
		Vertices: make([]float32, 0, numVerts*3),
		Normals:  make([]float32, 0, numVerts*3),
		Indices:  make([]uint32, 0, numVerts),
	}

	for i, tri := range triangles {
		n := tri.Normal()
		for j := 0; j < 3; j++ {
			v := tri[j]
			mesh.Vertices = append(mesh.Vertices, float32(v.X), float32(v.Y), float32(v.Z))
			mesh.Normals = append(mesh.Normals, float32(n.X), float32(n.Y), float32(n.Z))
			mesh.Indices = append(mesh.Indices, uint32(i*3+j))
		}
	}
	return mesh, nil
}
