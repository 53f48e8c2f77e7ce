// Package assemble turns a scene graph into kernel solids. Each root of the
// graph becomes one named, colored Part; shared subgraphs are built once.
package assemble

import (
	"fmt"
	"image/color"

	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/kernel"
)

// DefaultColor is used for roots that are not objects or carry no color.
var DefaultColor = color.RGBA{R: 0xb0, G: 0xb0, B: 0xb8, A: 0xff}

// Part is one scene object built by a kernel.
type Part struct {
	Name  string
	Solid kernel.Solid
	Color color.RGBA
}

// assembler caches built solids by node so a node referenced from several
// places is only built once.
type assembler struct {
	g     *graph.SceneGraph
	k     kernel.Kernel
	built map[graph.NodeID]kernel.Solid
}

// Assemble builds every root of g with k, in root order.
func Assemble(g *graph.SceneGraph, k kernel.Kernel) ([]Part, error) {
	a := &assembler{g: g, k: k, built: make(map[graph.NodeID]kernel.Solid)}

	parts := make([]Part, 0, len(g.Roots))
	for _, rootID := range g.Roots {
		root := g.Get(rootID)
		if root == nil {
			return nil, fmt.Errorf("assemble: root %s not found", rootID.Short())
		}
		part, err := a.part(root)
		if err != nil {
			return nil, fmt.Errorf("assemble: error walking root %s: %w", partName(root), err)
		}
		parts = append(parts, part)
	}
	return parts, nil
}

func partName(n *graph.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID.Short()
}

// part builds a root. Object roots contribute their name and color; any
// other root is drawn in DefaultColor.
func (a *assembler) part(root *graph.Node) (Part, error) {
	p := Part{Name: partName(root), Color: DefaultColor}
	s, err := a.walkNode(root)
	if err != nil {
		return Part{}, err
	}
	p.Solid = s

	if obj, ok := root.Data.(graph.ObjectData); ok && obj.Color != "" {
		c, err := graph.ParseColor(obj.Color)
		if err != nil {
			return Part{}, err
		}
		p.Color = c
	}
	return p, nil
}

// walkNode returns the solid for a node, building it on first use.
func (a *assembler) walkNode(n *graph.Node) (kernel.Solid, error) {
	if s, ok := a.built[n.ID]; ok {
		return s, nil
	}

	var (
		s   kernel.Solid
		err error
	)
	switch n.Kind {
	case graph.NodePrimitive:
		s, err = a.handlePrimitive(n)
	case graph.NodeTransform:
		s, err = a.handleTransform(n)
	case graph.NodeBoolean:
		s, err = a.handleBoolean(n)
	case graph.NodeClip:
		s, err = a.handleClip(n)
	case graph.NodeObject:
		s, err = a.child(n, 0)
	default:
		err = fmt.Errorf("node %s has unknown kind %d", n.ID.Short(), n.Kind)
	}
	if err != nil {
		return nil, err
	}
	a.built[n.ID] = s
	return s, nil
}

// child builds the i-th child of n.
func (a *assembler) child(n *graph.Node, i int) (kernel.Solid, error) {
	if i >= len(n.Children) {
		return nil, fmt.Errorf("%s node %s has %d children, want at least %d",
			n.Kind, n.ID.Short(), len(n.Children), i+1)
	}
	c := a.g.Get(n.Children[i])
	if c == nil {
		return nil, fmt.Errorf("%s node %s references missing child %s",
			n.Kind, n.ID.Short(), n.Children[i].Short())
	}
	return a.walkNode(c)
}

func (a *assembler) handlePrimitive(n *graph.Node) (kernel.Solid, error) {
	switch d := n.Data.(type) {
	case graph.SphereData:
		return a.k.Sphere(d.Center.Array(), d.Radius), nil
	case graph.EllipsoidData:
		return a.k.Ellipsoid(d.Center.Array(), d.Radii.Array()), nil
	case graph.QuadricData:
		return a.k.Quadric(d.Q, d.Center.Array(), d.R), nil
	case graph.BoxData:
		return a.k.Box(d.Lower.Array(), d.Upper.Array()), nil
	case graph.PlaneData:
		return a.k.Plane(d.Point.Array(), d.Normal.Array()), nil
	case graph.CylinderData:
		return a.k.Cylinder(d.Axes, d.Center.Array(), d.Radius, d.Length), nil
	case graph.PipeData:
		return a.k.Pipe(d.Axes, d.Center.Array(), d.Radius, d.Thickness, d.Length), nil
	default:
		return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
	}
}

// handleTransform applies scale, then rotation, then translation.
func (a *assembler) handleTransform(n *graph.Node) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has data type %T", n.ID.Short(), n.Data)
	}
	s, err := a.child(n, 0)
	if err != nil {
		return nil, err
	}
	if v := td.Scale; v != nil {
		s = a.k.Scale(s, v.X, v.Y, v.Z)
	}
	if v := td.Rotation; v != nil {
		s = a.k.Rotate(s, v.X, v.Y, v.Z)
	}
	if v := td.Translation; v != nil {
		s = a.k.Translate(s, v.X, v.Y, v.Z)
	}
	return s, nil
}

func (a *assembler) handleBoolean(n *graph.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(graph.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has data type %T", n.ID.Short(), n.Data)
	}
	left, err := a.child(n, 0)
	if err != nil {
		return nil, err
	}
	right, err := a.child(n, 1)
	if err != nil {
		return nil, err
	}
	switch bd.Op {
	case graph.BoolUnion:
		return a.k.Union(left, right), nil
	case graph.BoolIntersection:
		return a.k.Intersection(left, right), nil
	case graph.BoolDifference:
		return a.k.Difference(left, right), nil
	default:
		return nil, fmt.Errorf("boolean node %s has unknown op %s", n.ID.Short(), bd.Op)
	}
}

func (a *assembler) handleClip(n *graph.Node) (kernel.Solid, error) {
	cd, ok := n.Data.(graph.ClipData)
	if !ok {
		return nil, fmt.Errorf("clip node %s has data type %T", n.ID.Short(), n.Data)
	}
	s, err := a.child(n, 0)
	if err != nil {
		return nil, err
	}
	return a.k.Clip(s, cd.Lower.Array(), cd.Upper.Array()), nil
}
