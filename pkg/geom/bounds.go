package geom

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Bounds is an axis-aligned box given by its lower and upper corners.
type Bounds struct {
	Lower mgl64.Vec3
	Upper mgl64.Vec3
}

// NewBounds returns the box spanned by two corners in any order.
func NewBounds(a, b mgl64.Vec3) Bounds {
	var out Bounds
	for i := 0; i < 3; i++ {
		out.Lower[i] = math.Min(a[i], b[i])
		out.Upper[i] = math.Max(a[i], b[i])
	}
	return out
}

// Infinite returns bounds covering all of space.
func Infinite() Bounds {
	inf := math.Inf(1)
	return Bounds{
		Lower: mgl64.Vec3{-inf, -inf, -inf},
		Upper: mgl64.Vec3{inf, inf, inf},
	}
}

// Contains reports whether p lies inside the closed box grown by eps.
func (b Bounds) Contains(p mgl64.Vec3, eps float64) bool {
	for i := 0; i < 3; i++ {
		if p[i] < b.Lower[i]-eps || p[i] > b.Upper[i]+eps {
			return false
		}
	}
	return true
}

// ContainsStrict reports whether p lies in the open interior.
func (b Bounds) ContainsStrict(p mgl64.Vec3) bool {
	for i := 0; i < 3; i++ {
		if p[i] <= b.Lower[i] || p[i] >= b.Upper[i] {
			return false
		}
	}
	return true
}

// Degenerate reports whether the box has zero (or negative) extent on any
// axis, in which case it encloses no volume.
func (b Bounds) Degenerate() bool {
	for i := 0; i < 3; i++ {
		if !(b.Upper[i] > b.Lower[i]) {
			return true
		}
	}
	return false
}

// Empty reports whether the box is inverted on some axis, as produced by
// intersecting disjoint boxes.
func (b Bounds) Empty() bool {
	for i := 0; i < 3; i++ {
		if b.Lower[i] > b.Upper[i] {
			return true
		}
	}
	return false
}

// IsInfinite reports whether any face of the box lies at infinity.
func (b Bounds) IsInfinite() bool {
	for i := 0; i < 3; i++ {
		if math.IsInf(b.Lower[i], 0) || math.IsInf(b.Upper[i], 0) {
			return true
		}
	}
	return false
}

// Size returns the extent along each axis.
func (b Bounds) Size() mgl64.Vec3 {
	return b.Upper.Sub(b.Lower)
}

// Center returns the midpoint of the box.
func (b Bounds) Center() mgl64.Vec3 {
	return b.Lower.Add(b.Upper).Mul(0.5)
}
