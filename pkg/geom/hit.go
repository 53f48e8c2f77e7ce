package geom

import (
	"cmp"
	"iter"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
)

// Hit is a single ray/surface crossing.
type Hit struct {
	T        float64
	Position mgl64.Vec3
}

// Geometry is implemented by every primitive and every CSG node. Raycast
// yields the crossings of r with the surface inside [r.MinT, r.MaxT) in
// non-decreasing T order. The sequence is finite and may be iterated more
// than once.
type Geometry interface {
	Raycast(r Ray) iter.Seq[Hit]
}

// Solid is a Geometry that bounds a volume and can classify points.
// Contains is strict: points on the surface are outside.
type Solid interface {
	Geometry
	Contains(p mgl64.Vec3) bool
}

const (
	// Epsilon is the tolerance used for bound membership tests.
	Epsilon = 1e-7
	// TieEpsilon is the distance below which two crossings are coincident.
	TieEpsilon = 1e-9
)

func compareT(a, b Hit) int { return cmp.Compare(a.T, b.T) }

// SortHits orders hits by T, keeping the relative order of equal hits.
func SortHits(hits []Hit) {
	slices.SortStableFunc(hits, compareT)
}

// IsSorted reports whether hits are in non-decreasing T order.
func IsSorted(hits []Hit) bool {
	return slices.IsSortedFunc(hits, compareT)
}

// Values yields the hits of a slice.
func Values(hits []Hit) iter.Seq[Hit] {
	return slices.Values(hits)
}

// Collect drains seq into a slice.
func Collect(seq iter.Seq[Hit]) []Hit {
	return slices.Collect(seq)
}

// First returns the nearest hit of an ordered sequence.
func First(seq iter.Seq[Hit]) (Hit, bool) {
	for h := range seq {
		return h, true
	}
	return Hit{}, false
}

// Count returns the number of hits in seq.
func Count(seq iter.Seq[Hit]) int {
	n := 0
	for range seq {
		n++
	}
	return n
}

// HitsEqual compares two hit lists element-wise within eps.
func HitsEqual(a, b []Hit, eps float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i].T-b[i].T) > eps {
			return false
		}
		if !a[i].Position.ApproxEqualThreshold(b[i].Position, eps) {
			return false
		}
	}
	return true
}
