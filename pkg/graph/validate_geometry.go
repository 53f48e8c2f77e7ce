package graph

import (
	"fmt"
	"math"
)

// ---------------------------------------------------------------------------
// Tier 2: geometric validation (errors + warnings)
// ---------------------------------------------------------------------------

// validateGeometry runs all Tier 2 geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *SceneGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	for _, node := range g.Nodes {
		e, w := checkNodeGeometry(node)
		errs = append(errs, e...)
		warnings = append(warnings, w...)
	}

	return errs, warnings
}

// geometryCheck collects findings for a single node.
type geometryCheck struct {
	id       NodeID
	errs     []ValidationError
	warnings []ValidationWarning
}

func (c *geometryCheck) errorf(format string, args ...any) {
	c.errs = append(c.errs, ValidationError{
		NodeID:   c.id,
		Message:  fmt.Sprintf(format, args...),
		Severity: SeverityError,
	})
}

func (c *geometryCheck) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, ValidationWarning{
		NodeID:  c.id,
		Message: fmt.Sprintf(format, args...),
	})
}

func (c *geometryCheck) finite(what string, vs ...float64) {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			c.errorf("%s is not finite", what)
			return
		}
	}
}

func (c *geometryCheck) positive(what string, v float64) {
	if !(v > 0) {
		c.errorf("%s is %.4f, must be positive", what, v)
	}
}

func (c *geometryCheck) axes(axes string) {
	switch axes {
	case "xy", "yx", "xz", "zx", "yz", "zy":
	default:
		c.errorf("axes %q must name two of x, y, z", axes)
	}
}

func (c *geometryCheck) length(v float64) {
	if v < 0 {
		c.errorf("length is %.4f, must be zero (unbounded) or positive", v)
	}
}

func (c *geometryCheck) flatBox(what string, lo, hi Vec3) {
	if lo.X > hi.X || lo.Y > hi.Y || lo.Z > hi.Z {
		c.errorf("%s lower corner exceeds upper corner", what)
		return
	}
	if lo.X == hi.X || lo.Y == hi.Y || lo.Z == hi.Z {
		c.warnf("%s has zero extent along at least one axis and encloses nothing", what)
	}
}

func checkNodeGeometry(node *Node) ([]ValidationError, []ValidationWarning) {
	c := &geometryCheck{id: node.ID}

	switch d := node.Data.(type) {
	case SphereData:
		c.finite("sphere center", d.Center.X, d.Center.Y, d.Center.Z)
		c.positive("sphere radius", d.Radius)
	case EllipsoidData:
		c.finite("ellipsoid center", d.Center.X, d.Center.Y, d.Center.Z)
		c.positive("ellipsoid radius X", d.Radii.X)
		c.positive("ellipsoid radius Y", d.Radii.Y)
		c.positive("ellipsoid radius Z", d.Radii.Z)
	case QuadricData:
		c.finite("quadric coefficients", d.Q[:]...)
		c.finite("quadric constant", d.R)
		if d.Q == [9]float64{} {
			c.warnf("quadric has an all-zero matrix; it is either empty or fills space")
		}
	case BoxData:
		c.finite("box corners", d.Lower.X, d.Lower.Y, d.Lower.Z, d.Upper.X, d.Upper.Y, d.Upper.Z)
		c.flatBox("box", d.Lower, d.Upper)
	case PlaneData:
		c.finite("plane point", d.Point.X, d.Point.Y, d.Point.Z)
		if d.Normal.IsZero() {
			c.errorf("plane normal must be non-zero")
		}
	case CylinderData:
		c.axes(d.Axes)
		c.positive("cylinder radius", d.Radius)
		c.length(d.Length)
	case PipeData:
		c.axes(d.Axes)
		c.positive("pipe radius", d.Radius)
		c.length(d.Length)
		if d.Thickness <= 0 {
			c.warnf("pipe thickness is %.4f; the pipe is empty", d.Thickness)
		}
	case TransformData:
		if s := d.Scale; s != nil {
			if s.X == 0 || s.Y == 0 || s.Z == 0 {
				c.errorf("scale (%g, %g, %g) has a zero component and cannot be inverted", s.X, s.Y, s.Z)
			}
		}
	case ClipData:
		c.finite("clip corners", d.Lower.X, d.Lower.Y, d.Lower.Z, d.Upper.X, d.Upper.Y, d.Upper.Z)
		c.flatBox("clip box", d.Lower, d.Upper)
	case ObjectData:
		if d.Color != "" {
			if _, err := ParseColor(d.Color); err != nil {
				c.errorf("%v", err)
			}
		}
	}

	return c.errs, c.warnings
}
