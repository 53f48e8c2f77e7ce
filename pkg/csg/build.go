package csg

import (
	"math"

	"github.com/chazu/csgray/pkg/geom"
	"github.com/chazu/csgray/pkg/primitive"
	"github.com/go-gl/mathgl/mgl64"
)

// Union returns a ∪ b.
func Union(a, b geom.Solid) *Operation { return NewOperation(OpUnion, a, b) }

// Intersect returns a ∩ b.
func Intersect(a, b geom.Solid) *Operation { return NewOperation(OpIntersection, a, b) }

// Subtract returns a − b.
func Subtract(a, b geom.Solid) *Operation { return NewOperation(OpDifference, a, b) }

// Fold left-folds op over solids: op(op(s0, s1), s2)... A single solid is
// returned unchanged. It panics when solids is empty.
func Fold(op Op, solids ...geom.Solid) geom.Solid {
	if len(solids) == 0 {
		panic("csg: fold over no solids")
	}
	acc := solids[0]
	for _, s := range solids[1:] {
		acc = NewOperation(op, acc, s)
	}
	return acc
}

// UnionAll is Fold(OpUnion, solids...).
func UnionAll(solids ...geom.Solid) geom.Solid {
	return Fold(OpUnion, solids...)
}

// axisBounds returns the box enclosing a cylinder of the given radius and
// length around center. An infinite length leaves the free axis unbounded.
func axisBounds(axes primitive.AxisPair, center mgl64.Vec3, radius, length float64) geom.Bounds {
	half := mgl64.Vec3{radius, radius, radius}
	half[axes.Free()] = length / 2
	return geom.Bounds{Lower: center.Sub(half), Upper: center.Add(half)}
}

// FiniteCylinder returns a capped cylinder: the infinite cylinder clipped to
// length along its free axis, centered on center.
func FiniteCylinder(axes primitive.AxisPair, center mgl64.Vec3, radius, length float64) *Leaf {
	cyl := primitive.NewCylinder(axes, center, radius)
	b := axisBounds(axes, center, radius, length)
	return NewLeaf(cyl, mgl64.Ident4(), &b)
}

// Pipe returns a tube with the given inner radius and wall thickness: the
// outer cylinder minus the inner one. A pipe is sometimes described as the
// union of the two coaxial cylinders, but that union is just the solid outer
// cylinder, so the wall is built as a difference. An infinite length gives an
// unbounded tube; a non-positive thickness gives an empty solid.
func Pipe(axes primitive.AxisPair, center mgl64.Vec3, radius, thickness, length float64) *Operation {
	inner := Primitive(primitive.NewCylinder(axes, center, radius))
	if math.IsInf(length, 1) {
		outer := Primitive(primitive.NewCylinder(axes, center, radius+thickness))
		return Subtract(outer, inner)
	}
	return Subtract(FiniteCylinder(axes, center, radius+thickness, length), inner)
}

// Clip intersects s with an axis-aligned box. Unclipped leaves take the box
// as their own bounds; anything else becomes Intersection(s, box).
func Clip(s geom.Solid, bounds geom.Bounds) geom.Solid {
	if l, ok := s.(*Leaf); ok && l.bounds == nil && l.identity {
		return NewLeaf(l.shape, l.toParent, &bounds)
	}
	return Intersect(s, Primitive(primitive.NewBox(bounds.Lower, bounds.Upper)))
}

// Transformed returns s placed by m. The transform is pushed down to the
// leaves, since only leaves change coordinate frames.
func Transformed(s geom.Solid, m mgl64.Mat4) geom.Solid {
	switch n := s.(type) {
	case *Leaf:
		return NewLeaf(n.shape, m.Mul4(n.toParent), n.Bounds())
	case *Operation:
		return NewOperation(n.op, Transformed(n.left, m), Transformed(n.right, m))
	case *Program:
		return Compile(Transformed(n.root, m))
	default:
		return NewLeaf(s, m, nil)
	}
}
