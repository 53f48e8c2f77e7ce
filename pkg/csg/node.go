package csg

import (
	"fmt"
	"iter"
	"math"

	"github.com/chazu/csgray/pkg/geom"
	"github.com/chazu/csgray/pkg/primitive"
	"github.com/go-gl/mathgl/mgl64"
)

// Leaf wraps a primitive solid with a local-to-parent transform and an
// optional clipping box given in the primitive's local frame.
type Leaf struct {
	shape    geom.Solid
	toParent mgl64.Mat4
	toLocal  mgl64.Mat4
	identity bool
	bounds   *geom.Bounds

	// clipped is Intersection(shape, Box(bounds)) when bounds are set.
	clipped *Operation
}

// NewLeaf returns a leaf for shape placed by toParent. A nil bounds leaves
// the primitive unclipped.
func NewLeaf(shape geom.Solid, toParent mgl64.Mat4, bounds *geom.Bounds) *Leaf {
	if shape == nil {
		panic("csg: leaf with nil shape")
	}
	l := &Leaf{
		shape:    shape,
		toParent: toParent,
		toLocal:  toParent.Inv(),
		identity: toParent == mgl64.Ident4(),
	}
	if bounds != nil {
		b := *bounds
		l.bounds = &b
		box := primitive.NewBox(b.Lower, b.Upper)
		l.clipped = NewOperation(OpIntersection, Primitive(shape), Primitive(box))
	}
	return l
}

// Primitive returns an untransformed, unclipped leaf.
func Primitive(shape geom.Solid) *Leaf {
	return NewLeaf(shape, mgl64.Ident4(), nil)
}

// Shape returns the wrapped primitive.
func (l *Leaf) Shape() geom.Solid { return l.shape }

// ToParent returns the leaf's local-to-parent transform.
func (l *Leaf) ToParent() mgl64.Mat4 { return l.toParent }

// Bounds returns a copy of the clipping box, or nil when unclipped.
func (l *Leaf) Bounds() *geom.Bounds {
	if l.bounds == nil {
		return nil
	}
	b := *l.bounds
	return &b
}

func (l *Leaf) local() geom.Solid {
	if l.clipped != nil {
		return l.clipped
	}
	return l.shape
}

// Raycast transforms r into the leaf's frame and delegates to the primitive.
// Hit parameters are unchanged by the (affine) transform, so positions are
// reported on the incoming ray.
func (l *Leaf) Raycast(r geom.Ray) iter.Seq[geom.Hit] {
	return func(yield func(geom.Hit) bool) {
		local := r
		if !l.identity {
			local = r.Transform(l.toLocal)
		}
		for h := range l.local().Raycast(local) {
			if !yield(geom.Hit{T: h.T, Position: r.At(h.T)}) {
				return
			}
		}
	}
}

// Contains classifies a parent-frame point.
func (l *Leaf) Contains(p mgl64.Vec3) bool {
	if !l.identity {
		p = geom.TransformPoint(l.toLocal, p)
	}
	return l.local().Contains(p)
}

// Operation combines two child solids. It exclusively owns its children and
// is never modified after construction.
type Operation struct {
	op          Op
	left, right geom.Solid
}

// NewOperation returns op(left, right). It panics on an unknown op or a nil
// child.
func NewOperation(op Op, left, right geom.Solid) *Operation {
	if !op.Valid() {
		panic(unknownOp(op))
	}
	if left == nil || right == nil {
		panic(fmt.Sprintf("csg: %s with nil operand", op))
	}
	return &Operation{op: op, left: left, right: right}
}

// Op returns the node's operation.
func (o *Operation) Op() Op { return o.op }

// Left returns the first operand.
func (o *Operation) Left() geom.Solid { return o.left }

// Right returns the second operand.
func (o *Operation) Right() geom.Solid { return o.right }

// Raycast evaluates both children on r and merges their hits.
func (o *Operation) Raycast(r geom.Ray) iter.Seq[geom.Hit] {
	return func(yield func(geom.Hit) bool) {
		left := geom.Collect(o.left.Raycast(r))
		right := geom.Collect(o.right.Raycast(r))
		inL, inR := startState(r, o.left, o.right)
		for _, h := range Merge(o.op, left, right, inL, inR) {
			if !yield(h) {
				return
			}
		}
	}
}

// Contains classifies p by combining the children's classifications.
func (o *Operation) Contains(p mgl64.Vec3) bool {
	return Combine(o.op, o.left.Contains(p), o.right.Contains(p))
}

// startState returns whether the start of r lies inside each operand. A ray
// reaching back to -Inf starts outside everything.
func startState(r geom.Ray, left, right geom.Solid) (bool, bool) {
	if math.IsInf(r.MinT, -1) {
		return false, false
	}
	p := r.At(r.MinT)
	return left.Contains(p), right.Contains(p)
}
