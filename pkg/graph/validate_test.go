package graph

import (
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

// buildValidScene creates a box with a sphere carved out of it, wrapped in
// a single colored object root.
func buildValidScene() *SceneGraph {
	g := New()

	blockID := NewNodeID("box/block")
	holeID := NewNodeID("sphere/hole")
	cutID := NewNodeID("difference/cut")
	objID := NewNodeID("object/carved")

	g.AddNode(&Node{
		ID: blockID, Kind: NodePrimitive, Name: "block",
		Data: BoxData{Lower: Vec3{-1, -1, -1}, Upper: Vec3{1, 1, 1}},
	})
	g.AddNode(&Node{
		ID: holeID, Kind: NodePrimitive, Name: "hole",
		Data: SphereData{Center: Vec3{0, 0, 1}, Radius: 0.5},
	})
	g.AddNode(&Node{
		ID: cutID, Kind: NodeBoolean, Name: "cut",
		Children: []NodeID{blockID, holeID},
		Data:     BooleanData{Op: BoolDifference},
	})
	g.AddNode(&Node{
		ID: objID, Kind: NodeObject, Name: "carved",
		Children: []NodeID{cutID},
		Data:     ObjectData{Color: "#c08040"},
	})
	g.AddRoot(objID)

	return g
}

// hasError returns true if errs contains at least one error-severity finding
// whose message contains substr.
func hasError(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityError && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// hasWarning returns true if errs contains at least one warning-severity
// finding whose message contains substr.
func hasWarning(errs []ValidationError, substr string) bool {
	for _, e := range errs {
		if e.Severity == SeverityWarning && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// errorCount returns the number of error-severity findings.
func errorCount(errs []ValidationError) int {
	n := 0
	for _, e := range errs {
		if e.Severity == SeverityError {
			n++
		}
	}
	return n
}

func logFindings(t *testing.T, errs []ValidationError) {
	t.Helper()
	for _, e := range errs {
		t.Logf("  %s", e)
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestValidate_ValidGraph(t *testing.T) {
	g := buildValidScene()
	errs := Validate(g)
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected validation error: %s", e)
		}
	}
}

func TestValidate_EmptyGraph(t *testing.T) {
	g := New()
	errs := Validate(g)
	if len(errs) != 0 {
		for _, e := range errs {
			t.Errorf("unexpected validation error on empty graph: %s", e)
		}
	}
}

func TestValidate_CycleDetection(t *testing.T) {
	g := New()

	aID := NewNodeID("a")
	bID := NewNodeID("b")
	cID := NewNodeID("c")

	// a -> b -> c -> a
	g.AddNode(&Node{ID: aID, Kind: NodeObject, Name: "a", Children: []NodeID{bID}, Data: ObjectData{}})
	g.AddNode(&Node{ID: bID, Kind: NodeTransform, Name: "b", Children: []NodeID{cID}, Data: TransformData{}})
	g.AddNode(&Node{ID: cID, Kind: NodeClip, Name: "c", Children: []NodeID{aID},
		Data: ClipData{Upper: Vec3{1, 1, 1}}})
	g.AddRoot(aID)

	errs := Validate(g)
	if !hasError(errs, "cycle") {
		t.Error("expected cycle detection error, got none")
		logFindings(t, errs)
	}
}

func TestValidate_DanglingReference(t *testing.T) {
	g := New()

	parentID := NewNodeID("parent")
	missingID := NewNodeID("missing-child")

	g.AddNode(&Node{
		ID: parentID, Kind: NodeObject, Name: "parent",
		Children: []NodeID{missingID},
		Data:     ObjectData{},
	})
	g.AddRoot(parentID)

	errs := Validate(g)
	if !hasError(errs, "child reference") {
		t.Error("expected dangling reference error, got none")
		logFindings(t, errs)
	}
}

func TestValidate_DanglingRoot(t *testing.T) {
	g := buildValidScene()
	g.AddRoot(NewNodeID("nowhere"))

	errs := Validate(g)
	if !hasError(errs, "root reference") {
		t.Error("expected dangling root error, got none")
		logFindings(t, errs)
	}
}

func TestValidate_NameIndex(t *testing.T) {
	t.Run("stale entry", func(t *testing.T) {
		g := buildValidScene()
		g.NameIndex["ghost"] = NewNodeID("ghost")
		if errs := Validate(g); !hasError(errs, "non-existent node") {
			t.Error("expected stale name index error")
			logFindings(t, errs)
		}
	})

	t.Run("duplicate name", func(t *testing.T) {
		g := buildValidScene()
		g.Lookup("hole").Name = "block"
		if errs := Validate(g); !hasError(errs, "duplicate name") {
			t.Error("expected duplicate name error")
			logFindings(t, errs)
		}
	})
}

func TestValidate_Orphan(t *testing.T) {
	g := buildValidScene()
	g.AddNode(&Node{
		ID: NewNodeID("sphere/stray"), Kind: NodePrimitive, Name: "stray",
		Data: SphereData{Radius: 1},
	})

	errs := Validate(g)
	if !hasWarning(errs, "orphan") {
		t.Error("expected orphan warning")
		logFindings(t, errs)
	}
	if errorCount(errs) != 0 {
		t.Errorf("orphans are advisory, got %d errors", errorCount(errs))
	}
}

func TestValidate_RootNotObject(t *testing.T) {
	g := New()
	id := NewNodeID("sphere/bare")
	g.AddNode(&Node{ID: id, Kind: NodePrimitive, Data: SphereData{Radius: 1}})
	g.AddRoot(id)

	errs := Validate(g)
	if !hasWarning(errs, "not an object") {
		t.Error("expected bare-root warning")
		logFindings(t, errs)
	}
	if errorCount(errs) != 0 {
		t.Errorf("bare roots are advisory, got %d errors", errorCount(errs))
	}
}

func TestValidate_Arity(t *testing.T) {
	g := buildValidScene()
	cut := g.Lookup("cut")
	cut.Children = cut.Children[:1]

	errs := Validate(g)
	if !hasError(errs, "has 1 children, want 2") {
		t.Error("expected arity error for one-armed Boolean")
		logFindings(t, errs)
	}
}

func TestValidate_KindDataMismatch(t *testing.T) {
	g := buildValidScene()
	g.Lookup("hole").Kind = NodeClip

	errs := Validate(g)
	if !hasError(errs, "carries graph.SphereData data") {
		t.Error("expected kind/data mismatch error")
		logFindings(t, errs)
	}
}

func TestValidateAll_SeparatesSeverities(t *testing.T) {
	g := buildValidScene()
	g.AddNode(&Node{
		ID: NewNodeID("sphere/stray"), Kind: NodePrimitive, Name: "stray",
		Data: SphereData{Radius: -1},
	})

	res := ValidateAll(g)
	if len(res.Errors) != 1 {
		t.Errorf("errors = %d, want 1 (negative radius)", len(res.Errors))
	}
	if len(res.Warnings) != 1 {
		t.Errorf("warnings = %d, want 1 (orphan)", len(res.Warnings))
	}
	for _, e := range res.Errors {
		if e.Severity != SeverityError {
			t.Errorf("warning leaked into errors: %s", e)
		}
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Message: "boom", Severity: SeverityError}
	if got := e.Error(); got != "[error] boom" {
		t.Errorf("Error() = %q", got)
	}

	id := NewNodeID("x")
	e = ValidationError{NodeID: id, Message: "careful", Severity: SeverityWarning}
	want := "[warning] node " + id.Short() + ": careful"
	if got := e.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
