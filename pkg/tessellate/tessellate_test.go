package tessellate_test

import (
	"math"
	"testing"

	"github.com/chazu/csgray/pkg/graph"
	"github.com/chazu/csgray/pkg/kernel/sdfx"
	"github.com/chazu/csgray/pkg/tessellate"
)

// newKernel returns a coarse sdfx kernel so tests stay fast.
func newKernel() *sdfx.SdfxKernel {
	k := sdfx.New()
	k.Extent = 10
	k.Cells = 40
	return k
}

// makeBox creates a box primitive node.
func makeBox(name string, x, y, z float64) *graph.Node {
	return &graph.Node{
		ID:   graph.NewNodeID("box/" + name),
		Kind: graph.NodePrimitive,
		Name: name,
		Data: graph.BoxData{
			Lower: graph.Vec3{X: -x / 2, Y: -y / 2, Z: -z / 2},
			Upper: graph.Vec3{X: x / 2, Y: y / 2, Z: z / 2},
		},
	}
}

// makeTranslate creates a transform node with a translation.
func makeTranslate(name string, tx, ty, tz float64, child graph.NodeID) *graph.Node {
	t := graph.Vec3{X: tx, Y: ty, Z: tz}
	return &graph.Node{
		ID:       graph.NewNodeID("translate/" + name),
		Kind:     graph.NodeTransform,
		Name:     name,
		Children: []graph.NodeID{child},
		Data:     graph.TransformData{Translation: &t},
	}
}

// makeObject creates a colored object root.
func makeObject(name, col string, child graph.NodeID) *graph.Node {
	return &graph.Node{
		ID:       graph.NewNodeID("object/" + name),
		Kind:     graph.NodeObject,
		Name:     name,
		Children: []graph.NodeID{child},
		Data:     graph.ObjectData{Color: col},
	}
}

func addObject(g *graph.SceneGraph, nodes ...*graph.Node) {
	for _, n := range nodes {
		g.AddNode(n)
	}
	g.AddRoot(nodes[len(nodes)-1].ID)
}

func TestSingleBox(t *testing.T) {
	g := graph.New()
	box := makeBox("block", 4, 2, 1)
	addObject(g, box, makeObject("slab", "#112233", box.ID))

	meshes, err := tessellate.Tessellate(g, newKernel())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 1 {
		t.Fatalf("expected 1 mesh, got %d", len(meshes))
	}
	m := meshes[0]
	if m.PartName != "slab" || m.Color != "#112233" {
		t.Errorf("mesh tagged %q %q", m.PartName, m.Color)
	}
	if m.TriangleCount() == 0 {
		t.Error("mesh has no triangles")
	}
}

func TestTwoObjects(t *testing.T) {
	g := graph.New()
	a := makeBox("a", 1, 1, 1)
	b := makeBox("b", 2, 2, 2)
	addObject(g, a, makeObject("first", "", a.ID))
	addObject(g, b, makeObject("second", "", b.ID))

	meshes, err := tessellate.Tessellate(g, newKernel())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 2 {
		t.Fatalf("expected 2 meshes, got %d", len(meshes))
	}
	if meshes[0].PartName != "first" || meshes[1].PartName != "second" {
		t.Errorf("mesh order = %q, %q", meshes[0].PartName, meshes[1].PartName)
	}
	if meshes[0].Color != "#b0b0b8" {
		t.Errorf("default color = %q", meshes[0].Color)
	}
}

func TestObjectWithTransform(t *testing.T) {
	g := graph.New()
	box := makeBox("cube", 1, 1, 1)
	moved := makeTranslate("moved", 3, 0, 0, box.ID)
	addObject(g, box, moved, makeObject("cube", "", moved.ID))

	meshes, err := tessellate.Tessellate(g, newKernel())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	min, max := meshes[0].Bounds()
	cx := (min[0] + max[0]) / 2
	if math.Abs(float64(cx)-3) > 0.2 {
		t.Errorf("mesh center x = %f, expected ~3", cx)
	}
}

func TestEmptyGraph(t *testing.T) {
	meshes, err := tessellate.Tessellate(graph.New(), newKernel())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("expected no meshes, got %d", len(meshes))
	}
}

func TestEmptySolidSkipped(t *testing.T) {
	g := graph.New()
	pipe := &graph.Node{
		ID:   graph.NewNodeID("pipe/flat"),
		Kind: graph.NodePrimitive,
		Data: graph.PipeData{Axes: "xy", Radius: 1, Thickness: 0, Length: 2},
	}
	addObject(g, pipe, makeObject("nothing", "", pipe.ID))

	meshes, err := tessellate.Tessellate(g, newKernel())
	if err != nil {
		t.Fatalf("Tessellate: %v", err)
	}
	if len(meshes) != 0 {
		t.Errorf("zero-thickness pipe produced %d meshes", len(meshes))
	}
}
