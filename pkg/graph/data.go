package graph

import (
	"fmt"
	"image/color"
	"strconv"
)

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// SphereData is a sphere.
type SphereData struct {
	Center Vec3    `json:"center"`
	Radius float64 `json:"radius"`
}

func (SphereData) nodeData() {}

// EllipsoidData is an axis-aligned ellipsoid with semi-axes Radii.
type EllipsoidData struct {
	Center Vec3 `json:"center"`
	Radii  Vec3 `json:"radii"`
}

func (EllipsoidData) nodeData() {}

// QuadricData is the general surface (x-Center)ᵗ Q (x-Center) + R = 0,
// with Q given row-major.
type QuadricData struct {
	Q      [9]float64 `json:"q"`
	Center Vec3       `json:"center"`
	R      float64    `json:"r"`
}

func (QuadricData) nodeData() {}

// BoxData is an axis-aligned box between two corners.
type BoxData struct {
	Lower Vec3 `json:"lower"`
	Upper Vec3 `json:"upper"`
}

func (BoxData) nodeData() {}

// PlaneData is the half-space behind a plane.
type PlaneData struct {
	Point  Vec3 `json:"point"`
	Normal Vec3 `json:"normal"`
}

func (PlaneData) nodeData() {}

// CylinderData is a circular cylinder whose cross-section spans Axes
// ("xy", "xz" or "yz"). Length 0 means unbounded.
type CylinderData struct {
	Axes   string  `json:"axes"`
	Center Vec3    `json:"center"`
	Radius float64 `json:"radius"`
	Length float64 `json:"length,omitempty"`
}

func (CylinderData) nodeData() {}

// PipeData is a tube of inner radius Radius and wall Thickness.
// Length 0 means unbounded.
type PipeData struct {
	Axes      string  `json:"axes"`
	Center    Vec3    `json:"center"`
	Radius    float64 `json:"radius"`
	Thickness float64 `json:"thickness"`
	Length    float64 `json:"length,omitempty"`
}

func (PipeData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData places its child. Components are applied as scale, then
// rotation (Euler degrees, X then Y then Z), then translation.
type TransformData struct {
	Translation *Vec3 `json:"translation,omitempty"`
	Rotation    *Vec3 `json:"rotation,omitempty"` // Euler angles in degrees
	Scale       *Vec3 `json:"scale,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BoolOp names a Boolean set operation.
type BoolOp int

const (
	BoolUnion BoolOp = iota
	BoolIntersection
	BoolDifference
)

func (o BoolOp) String() string {
	switch o {
	case BoolUnion:
		return "union"
	case BoolIntersection:
		return "intersection"
	case BoolDifference:
		return "difference"
	default:
		return fmt.Sprintf("BoolOp(%d)", int(o))
	}
}

// BooleanData combines exactly two children. For difference the first
// child is the minuend.
type BooleanData struct {
	Op BoolOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Clip
// ---------------------------------------------------------------------------

// ClipData restricts its child to an axis-aligned box.
type ClipData struct {
	Lower Vec3 `json:"lower"`
	Upper Vec3 `json:"upper"`
}

func (ClipData) nodeData() {}

// ---------------------------------------------------------------------------
// Object
// ---------------------------------------------------------------------------

// ObjectData makes its child a named scene instance.
type ObjectData struct {
	Color string `json:"color,omitempty"` // "#rrggbb"
}

func (ObjectData) nodeData() {}

// ParseColor parses a "#rrggbb" string.
func ParseColor(s string) (color.RGBA, error) {
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(s[1:], 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
