package primitive

import (
	"fmt"
	"iter"

	"github.com/chazu/csgray/pkg/geom"
	"github.com/go-gl/mathgl/mgl64"
)

// AxisPair names the two coordinate axes a cylinder's cross-section spans.
// The remaining axis is the cylinder's (infinite) length direction.
type AxisPair string

const (
	AxesXY AxisPair = "xy"
	AxesXZ AxisPair = "xz"
	AxesYZ AxisPair = "yz"
)

// ParseAxisPair accepts "xy", "xz" or "yz" in either order ("yx" is "xy").
func ParseAxisPair(s string) (AxisPair, error) {
	switch s {
	case "xy", "yx":
		return AxesXY, nil
	case "xz", "zx":
		return AxesXZ, nil
	case "yz", "zy":
		return AxesYZ, nil
	}
	return "", fmt.Errorf("invalid axis pair %q, expected xy, xz or yz", s)
}

// Free returns the index of the axis the cylinder extends along.
func (a AxisPair) Free() int {
	switch a {
	case AxesXY:
		return 2
	case AxesXZ:
		return 1
	case AxesYZ:
		return 0
	}
	panic(fmt.Sprintf("primitive: unknown axis pair %q", string(a)))
}

// Cylinder is an infinite circular cylinder: a quadric whose coefficient
// matrix is zero along the free axis.
type Cylinder struct {
	Axes   AxisPair
	Center mgl64.Vec3
	Radius float64

	quadric Quadric
}

// NewCylinder returns a cylinder of the given radius whose axis passes
// through center along the axis not named by axes.
func NewCylinder(axes AxisPair, center mgl64.Vec3, radius float64) *Cylinder {
	diag := mgl64.Vec3{1, 1, 1}
	diag[axes.Free()] = 0
	return &Cylinder{
		Axes:    axes,
		Center:  center,
		Radius:  radius,
		quadric: Quadric{Q: mgl64.Diag3(diag), Center: center, R: -radius * radius},
	}
}

// Raycast yields the crossings of the cylinder wall. Rays parallel to the
// axis never cross it.
func (c *Cylinder) Raycast(r geom.Ray) iter.Seq[geom.Hit] {
	return c.quadric.Raycast(r)
}

// Contains reports whether p is strictly inside the cylinder.
func (c *Cylinder) Contains(p mgl64.Vec3) bool {
	return c.quadric.Contains(p)
}
