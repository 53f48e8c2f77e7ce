package primitive

import (
	"iter"
	"math"

	"github.com/chazu/csgray/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// Box is an axis-aligned box built from its six face planes. Raycast yields
// both the entry and the exit crossing so the box can bound a CSG solid.
type Box struct {
	bounds geom.Bounds
	faces  [6]Plane
}

// NewBox returns the box spanned by two corners. A box with zero extent on
// any axis is valid and never reports a hit.
func NewBox(lower, upper mgl64.Vec3) *Box {
	b := &Box{bounds: geom.NewBounds(lower, upper)}
	for axis := 0; axis < 3; axis++ {
		var n mgl64.Vec3
		n[axis] = 1
		b.faces[2*axis] = Plane{Point: b.bounds.Lower, Normal: n.Mul(-1)}
		b.faces[2*axis+1] = Plane{Point: b.bounds.Upper, Normal: n}
	}
	return b
}

// Bounds returns the box extent.
func (b *Box) Bounds() geom.Bounds { return b.bounds }

// Contains reports whether p is strictly inside the box.
func (b *Box) Contains(p mgl64.Vec3) bool {
	return b.bounds.ContainsStrict(p)
}

// Raycast yields the face crossings that lie on the box, ordered by T. Hits
// on an edge or corner reported by several faces are collapsed to one.
func (b *Box) Raycast(r geom.Ray) iter.Seq[geom.Hit] {
	return func(yield func(geom.Hit) bool) {
		for _, h := range b.hits(r) {
			if !yield(h) {
				return
			}
		}
	}
}

// NearestHit returns only the closest face crossing, for use outside CSG.
func (b *Box) NearestHit(r geom.Ray) (geom.Hit, bool) {
	return geom.First(b.Raycast(r))
}

func (b *Box) hits(r geom.Ray) []geom.Hit {
	if b.bounds.Degenerate() {
		return nil
	}
	// A ray parallel to a slab never enters the box unless it runs strictly
	// between the slab's faces, matching Contains on a face.
	for axis := 0; axis < 3; axis++ {
		if math.Abs(r.Direction[axis]) > degenerateEps*r.Direction.Len() {
			continue
		}
		if o := r.Origin[axis]; o <= b.bounds.Lower[axis] || o >= b.bounds.Upper[axis] {
			return nil
		}
	}

	hits := make([]geom.Hit, 0, 6)
	for i := range b.faces {
		t, ok := b.faces[i].Intersect(r)
		if !ok || !r.Contains(t) {
			continue
		}
		if pos := r.At(t); b.bounds.Contains(pos, geom.Epsilon) {
			hits = append(hits, geom.Hit{T: t, Position: pos})
		}
	}
	geom.SortHits(hits)

	out := hits[:0]
	for _, h := range hits {
		if len(out) > 0 && math.Abs(h.T-out[len(out)-1].T) <= geom.TieEpsilon {
			continue
		}
		out = append(out, h)
	}

	// A lone crossing with both ends of the ray outside the box is a ray
	// that only touches an edge or corner: report it as an enter/exit pair.
	if len(out) == 1 && !b.Contains(r.At(r.MinT)) &&
		(math.IsInf(r.MaxT, 1) || !b.Contains(r.At(r.MaxT))) {
		out = append(out, out[0])
	}
	return out
}
