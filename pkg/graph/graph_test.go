package graph

import (
	"encoding/json"
	"image/color"
	"testing"
)

func TestNewSceneGraph(t *testing.T) {
	g := New()
	if g.Nodes == nil {
		t.Fatal("Nodes map should be initialized")
	}
	if g.NameIndex == nil {
		t.Fatal("NameIndex map should be initialized")
	}
	if g.Settings.Camera != DefaultCamera {
		t.Errorf("camera = %+v, want %+v", g.Settings.Camera, DefaultCamera)
	}
	if g.Settings.Background == "" {
		t.Error("background should have a default")
	}
	if g.NodeCount() != 0 {
		t.Errorf("empty graph should have 0 nodes, got %d", g.NodeCount())
	}
}

func TestAddNodeAndLookup(t *testing.T) {
	g := New()

	id := NewNodeID("sphere/ball")
	node := &Node{
		ID:   id,
		Kind: NodePrimitive,
		Name: "ball",
		Data: SphereData{Center: Vec3{0, 0, 5}, Radius: 1},
	}
	g.AddNode(node)
	g.AddRoot(id)

	if g.NodeCount() != 1 {
		t.Errorf("node count = %d, want 1", g.NodeCount())
	}
	if node.ContentHash.IsZero() {
		t.Error("AddNode should fill in the content hash")
	}

	found := g.Lookup("ball")
	if found == nil {
		t.Fatal("Lookup('ball') returned nil")
	}
	if found.ID != id {
		t.Errorf("lookup returned wrong node")
	}

	if must := g.MustLookup("ball"); must.ID != id {
		t.Errorf("MustLookup returned wrong node")
	}

	if g.Lookup("nonexistent") != nil {
		t.Error("Lookup should return nil for missing name")
	}

	if got := g.Get(id); got == nil || got.Name != "ball" {
		t.Errorf("Get by ID failed")
	}

	if len(g.Roots) != 1 || g.Roots[0] != id {
		t.Errorf("roots = %v, want [%s]", g.Roots, id.Short())
	}
}

func TestMustLookupPanics(t *testing.T) {
	g := New()
	defer func() {
		if r := recover(); r == nil {
			t.Error("MustLookup should panic on missing name")
		}
	}()
	g.MustLookup("missing")
}

func TestObjectsAndPrimitives(t *testing.T) {
	g := buildValidScene()

	objs := g.Objects()
	if len(objs) != 1 {
		t.Fatalf("Objects() count = %d, want 1", len(objs))
	}
	if objs[0].Name != "carved" {
		t.Errorf("object name = %q, want %q", objs[0].Name, "carved")
	}
	if n := len(g.Primitives()); n != 2 {
		t.Errorf("Primitives() count = %d, want 2", n)
	}
}

func TestChildren(t *testing.T) {
	g := buildValidScene()

	diff := g.Lookup("cut")
	children := g.Children(diff)
	if len(children) != 2 {
		t.Fatalf("Children count = %d, want 2", len(children))
	}
	if children[0].Name != "block" || children[1].Name != "hole" {
		t.Errorf("children = %q, %q; want block, hole", children[0].Name, children[1].Name)
	}
}

func TestNodeIDDeterministic(t *testing.T) {
	a := NewNodeID("sphere/a")
	b := NewNodeID("sphere/a")
	if a != b {
		t.Error("same path should produce same NodeID")
	}

	c := NewNodeID("sphere/b")
	if a == c {
		t.Error("different paths should produce different NodeIDs")
	}
}

func TestNodeIDZero(t *testing.T) {
	var id NodeID
	if !id.IsZero() {
		t.Error("zero-value NodeID should be zero")
	}
	id = NewNodeID("something")
	if id.IsZero() {
		t.Error("non-zero NodeID should not be zero")
	}
}

func TestNodeIDText(t *testing.T) {
	id := NewNodeID("box/frame")
	b, err := json.Marshal(map[string]NodeID{"id": id})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back map[string]NodeID
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back["id"] != id {
		t.Errorf("text round trip = %s, want %s", back["id"], id)
	}

	var bad NodeID
	if err := bad.UnmarshalText([]byte("not-hex")); err == nil {
		t.Error("UnmarshalText should reject malformed input")
	}
}

func TestHashNodeContent(t *testing.T) {
	a := &Node{Kind: NodePrimitive, Data: SphereData{Radius: 1}}
	b := &Node{Kind: NodePrimitive, Data: SphereData{Radius: 1}}
	c := &Node{Kind: NodePrimitive, Data: SphereData{Radius: 2}}

	if HashNode(a) != HashNode(b) {
		t.Error("identical content should hash identically")
	}
	if HashNode(a) == HashNode(c) {
		t.Error("different data should change the hash")
	}
}

func TestVec3(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, 5, 6}

	if sum := a.Add(b); sum != (Vec3{5, 7, 9}) {
		t.Errorf("Add = %v, want (5, 7, 9)", sum)
	}
	if a.IsZero() || !(Vec3{}).IsZero() {
		t.Error("IsZero mismatch")
	}
	if a.Array() != [3]float64{1, 2, 3} {
		t.Errorf("Array = %v", a.Array())
	}
}

func TestArity(t *testing.T) {
	tests := []struct {
		kind NodeKind
		want int
	}{
		{NodePrimitive, 0},
		{NodeTransform, 1},
		{NodeBoolean, 2},
		{NodeClip, 1},
		{NodeObject, 1},
	}
	for _, tt := range tests {
		if got := tt.kind.Arity(); got != tt.want {
			t.Errorf("%s.Arity() = %d, want %d", tt.kind, got, tt.want)
		}
	}
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("#ff8000")
	if err != nil {
		t.Fatalf("ParseColor: %v", err)
	}
	if c != (color.RGBA{R: 0xff, G: 0x80, B: 0x00, A: 0xff}) {
		t.Errorf("color = %v", c)
	}

	for _, bad := range []string{"", "ff8000", "#ff80", "#gg8000"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) should fail", bad)
		}
	}
}

func TestNodeDataInterface(t *testing.T) {
	// Verify all concrete types implement NodeData at compile time.
	var _ NodeData = SphereData{}
	var _ NodeData = EllipsoidData{}
	var _ NodeData = QuadricData{}
	var _ NodeData = BoxData{}
	var _ NodeData = PlaneData{}
	var _ NodeData = CylinderData{}
	var _ NodeData = PipeData{}
	var _ NodeData = TransformData{}
	var _ NodeData = BooleanData{}
	var _ NodeData = ClipData{}
	var _ NodeData = ObjectData{}
}

func TestStringers(t *testing.T) {
	if NodePrimitive.String() != "primitive" {
		t.Errorf("NodePrimitive.String() = %q", NodePrimitive.String())
	}
	if BoolDifference.String() != "difference" {
		t.Errorf("BoolDifference.String() = %q", BoolDifference.String())
	}

	id := NewNodeID("test")
	if len(id.Short()) != 8 {
		t.Errorf("Short() len = %d, want 8", len(id.Short()))
	}
}
