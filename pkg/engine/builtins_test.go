package engine

import (
	"strings"
	"testing"

	"github.com/chazu/csgray/pkg/graph"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(sphere :radius 2)`, `(sphere "__kw_radius" 2)`},
		{"keyword value", `(cylinder :axes :xz)`, `(cylinder "__kw_axes" "__kw_xz")`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"escaped quote in string", `"a \" :b"`, `"a \" :b"`},
		{"backtick string preserved", "`raw :kw`", "`raw :kw`"},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(def carved-box 1)`, `(def carved_box 1)`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"negative number preserved", `(vec3 -1 0 1)`, `(vec3 -1 0 1)`},
		{"comment converted", `;; note :keyword`, `// note :keyword`},
		{"hyphen in keyword preserved", `:wall-size`, `"__kw_wall-size"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := preprocessSource(tt.input)
			if got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// Builtin tests
// ---------------------------------------------------------------------------

func mustEval(t *testing.T, source string) *graph.SceneGraph {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if g == nil {
		t.Fatal("expected non-nil graph")
	}
	return g
}

func mustFail(t *testing.T, source, wantMsg string) {
	t.Helper()
	g, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if g != nil {
		t.Fatalf("expected failure for %q", source)
	}
	for _, e := range evalErrs {
		if strings.Contains(e.Message, wantMsg) {
			return
		}
	}
	t.Errorf("errors %v do not mention %q", evalErrs, wantMsg)
}

func TestPrimitives(t *testing.T) {
	tests := []struct {
		source string
		want   graph.NodeData
	}{
		{`(sphere :name "p" :center (vec3 0 0 5) :radius 2)`,
			graph.SphereData{Center: graph.Vec3{Z: 5}, Radius: 2}},
		{`(sphere :name "p")`,
			graph.SphereData{Radius: 1}},
		{`(ellipsoid :name "p" :radii (vec3 3 2 1))`,
			graph.EllipsoidData{Radii: graph.Vec3{X: 3, Y: 2, Z: 1}}},
		{`(quadric :name "p" :q (list 1 0 0 0 1 0 0 0 -1) :r -1)`,
			graph.QuadricData{Q: [9]float64{1, 0, 0, 0, 1, 0, 0, 0, -1}, R: -1}},
		{`(box :name "p" :lower (vec3 0 0 0) :upper (vec3 1 2 3))`,
			graph.BoxData{Upper: graph.Vec3{X: 1, Y: 2, Z: 3}}},
		{`(box :name "p" :center (vec3 1 1 1) :size 2)`,
			graph.BoxData{Upper: graph.Vec3{X: 2, Y: 2, Z: 2}}},
		{`(plane :name "p" :normal (vec3 0 0 1))`,
			graph.PlaneData{Normal: graph.Vec3{Z: 1}}},
		{`(cylinder :name "p" :axes :xz :radius 0.5 :length 4)`,
			graph.CylinderData{Axes: "xz", Radius: 0.5, Length: 4}},
		{`(pipe :name "p" :axes "yz" :radius 1 :thickness 0.2)`,
			graph.PipeData{Axes: "yz", Radius: 1, Thickness: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			g := mustEval(t, tt.source)
			n := g.Lookup("p")
			if n == nil {
				t.Fatal("expected node named 'p'")
			}
			if n.Kind != graph.NodePrimitive {
				t.Errorf("kind = %s, want primitive", n.Kind)
			}
			if n.Data != tt.want {
				t.Errorf("data = %+v, want %+v", n.Data, tt.want)
			}
		})
	}
}

func TestVariableReference(t *testing.T) {
	g := mustEval(t, `
(def r 3)
(sphere :name "ball" :radius r)
`)
	sd, ok := g.MustLookup("ball").Data.(graph.SphereData)
	if !ok || sd.Radius != 3 {
		t.Errorf("data = %+v, want radius 3 from variable", g.MustLookup("ball").Data)
	}
}

func TestBooleanFold(t *testing.T) {
	g := mustEval(t, `
(def a (sphere :name "a"))
(def b (sphere :name "b" :center (vec3 1 0 0)))
(def c (sphere :name "c" :center (vec3 2 0 0)))
(object "cut" (difference a b c :name "abc"))
`)
	outer := g.MustLookup("abc")
	if bd := outer.Data.(graph.BooleanData); bd.Op != graph.BoolDifference {
		t.Errorf("op = %s, want difference", bd.Op)
	}
	if len(outer.Children) != 2 || outer.Children[1] != g.MustLookup("c").ID {
		t.Fatalf("outer children = %v, want [(a - b), c]", outer.Children)
	}
	inner := g.Get(outer.Children[0])
	if inner.Kind != graph.NodeBoolean || inner.Name != "" {
		t.Fatalf("inner node = %+v, want anonymous boolean", inner)
	}
	if inner.Children[0] != g.MustLookup("a").ID || inner.Children[1] != g.MustLookup("b").ID {
		t.Errorf("inner children out of order")
	}
}

func TestBooleanSingleOperand(t *testing.T) {
	g := mustEval(t, `(object "solo" (union (sphere :name "s")))`)
	obj := g.MustLookup("solo")
	if obj.Children[0] != g.MustLookup("s").ID {
		t.Error("single-operand union should return its operand")
	}
}

func TestTransforms(t *testing.T) {
	g := mustEval(t, `
(def s (sphere))
(translate s (vec3 1 2 3) :name "t")
(rotate s (vec3 0 90 0) :name "r")
(scale s 2 :name "k")
`)
	if td := g.MustLookup("t").Data.(graph.TransformData); td.Translation == nil || *td.Translation != (graph.Vec3{X: 1, Y: 2, Z: 3}) {
		t.Errorf("translate data = %+v", td)
	}
	if td := g.MustLookup("r").Data.(graph.TransformData); td.Rotation == nil || td.Rotation.Y != 90 {
		t.Errorf("rotate data = %+v", td)
	}
	if td := g.MustLookup("k").Data.(graph.TransformData); td.Scale == nil || *td.Scale != (graph.Vec3{X: 2, Y: 2, Z: 2}) {
		t.Errorf("scale data = %+v", td)
	}
}

func TestClipAndObject(t *testing.T) {
	g := mustEval(t, `
(object "rod"
  (clip (cylinder :axes :xy :radius 1) :lower (vec3 -2 -2 0) :upper (vec3 2 2 4))
  :color "#ff0000")
`)
	objs := g.Objects()
	if len(objs) != 1 {
		t.Fatalf("objects = %d, want 1", len(objs))
	}
	if od := objs[0].Data.(graph.ObjectData); od.Color != "#ff0000" {
		t.Errorf("color = %q", od.Color)
	}
	clip := g.Get(objs[0].Children[0])
	cd, ok := clip.Data.(graph.ClipData)
	if !ok {
		t.Fatalf("child data = %T, want ClipData", clip.Data)
	}
	if cd.Upper.Z != 4 {
		t.Errorf("clip = %+v", cd)
	}
}

func TestCameraAndBackground(t *testing.T) {
	g := mustEval(t, `
(camera :eye (vec3 0 2 10) :fov 60)
(background "#000000")
`)
	cam := g.Settings.Camera
	if cam.Eye != (graph.Vec3{Y: 2, Z: 10}) || cam.FOV != 60 {
		t.Errorf("camera = %+v", cam)
	}
	if cam.Up != graph.DefaultCamera.Up {
		t.Errorf("unset fields should keep defaults, up = %+v", cam.Up)
	}
	if g.Settings.Background != "#000000" {
		t.Errorf("background = %q", g.Settings.Background)
	}
}

func TestRefLookup(t *testing.T) {
	g := mustEval(t, `
(sphere :name "ball")
(object "shown" (ref "ball"))
`)
	if g.MustLookup("shown").Children[0] != g.MustLookup("ball").ID {
		t.Error("ref should resolve to the named node")
	}
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantMsg string
	}{
		{"unknown keyword", `(sphere :radious 1)`, "unknown keyword :radious"},
		{"positional to primitive", `(sphere 1)`, "keyword arguments only"},
		{"bad vec3 arity", `(vec3 1 2)`, "exactly 3 arguments"},
		{"non-number", `(sphere :radius "big")`, "expected number"},
		{"missing ref", `(ref "ghost")`, "no solid named"},
		{"duplicate name", `(sphere :name "a") (box :name "a")`, "already defined"},
		{"quadric needs q", `(quadric :r 1)`, ":q is required"},
		{"quadric short q", `(quadric :q (list 1 2 3))`, "9 coefficients"},
		{"empty union", `(union)`, "at least one solid"},
		{"union of number", `(union 1 2)`, "expected solid"},
		{"size with lower", `(box :size 1 :lower 0)`, "cannot be combined"},
		{"object arity", `(object "x")`, "name and a solid"},
		{"bad fov", `(camera :fov 0)`, "fov"},
		{"bad background", `(background "blue")`, "#rrggbb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mustFail(t, tt.source, tt.wantMsg)
		})
	}
}

func TestAnonymousIDsAreStable(t *testing.T) {
	src := `(object "o" (union (sphere) (box)))`
	a := mustEval(t, src)
	b := mustEval(t, src)
	if a.NodeCount() != b.NodeCount() {
		t.Fatalf("node counts differ: %d vs %d", a.NodeCount(), b.NodeCount())
	}
	for id := range a.Nodes {
		if b.Get(id) == nil {
			t.Errorf("node %s missing from second evaluation", id.Short())
		}
	}
}
