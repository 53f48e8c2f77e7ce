package sdfx

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/chazu/csgray/pkg/kernel"
	"github.com/chazu/csgray/pkg/kernel/raycast"
)

func coarse() *SdfxKernel {
	k := New()
	k.Extent = 10
	k.Cells = 60
	return k
}

func checkMesh(t *testing.T, k *SdfxKernel, s kernel.Solid) *kernel.Mesh {
	t.Helper()
	mesh, err := k.ToMesh(s)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
	return mesh
}

func approxBounds(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], wantMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := coarse()
	box := k.Box([3]float64{-2, -1, -0.5}, [3]float64{2, 1, 0.5})
	checkMesh(t, k, box)
	approxBounds(t, box, [3]float64{-2, -1, -0.5}, [3]float64{2, 1, 0.5}, 0.01)
}

func TestPrimitiveMeshes(t *testing.T) {
	k := coarse()
	tests := []struct {
		name  string
		solid kernel.Solid
	}{
		{"sphere", k.Sphere([3]float64{1, 0, 0}, 1)},
		{"ellipsoid", k.Ellipsoid([3]float64{}, [3]float64{2, 1, 1})},
		{"capped cylinder", k.Cylinder("xz", [3]float64{}, 1, 3)},
		{"pipe", k.Pipe("yz", [3]float64{}, 1, 0.3, 4)},
		{"clipped plane", k.Clip(k.Plane([3]float64{}, [3]float64{0, 1, 0}), [3]float64{-1, -1, -1}, [3]float64{1, 1, 1})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mesh := checkMesh(t, k, tt.solid)
			t.Logf("%s triangle count: %d", tt.name, mesh.TriangleCount())
		})
	}
}

func TestUnboundedSolidsAreClamped(t *testing.T) {
	k := coarse()
	for name, s := range map[string]kernel.Solid{
		"plane":    k.Plane([3]float64{}, [3]float64{0, 0, 1}),
		"quadric":  k.Quadric([9]float64{1, 0, 0, 0, 1, 0, 0, 0, -1}, [3]float64{}, -1),
		"cylinder": k.Cylinder("xy", [3]float64{}, 1, 0),
		"pipe":     k.Pipe("xy", [3]float64{}, 1, 0.5, 0),
	} {
		if !kernel.Bounded(s) {
			t.Errorf("%s: bounds not clamped", name)
			continue
		}
		min, max := s.BoundingBox()
		for i := 0; i < 3; i++ {
			if min[i] < -k.Extent-1e-9 || max[i] > k.Extent+1e-9 {
				t.Errorf("%s: bounds %v %v exceed extent %g", name, min, max, k.Extent)
				break
			}
		}
		if name == "cylinder" && (min[2] > -k.Extent+1e-9 || max[2] < k.Extent-1e-9) {
			t.Errorf("cylinder: bounds %v %v do not span the free axis", min, max)
		}
	}
}

func TestEmptyPipe(t *testing.T) {
	k := coarse()
	p := k.Pipe("xy", [3]float64{}, 1, 0, 2)
	if !kernel.Empty(p) {
		t.Fatal("zero-thickness pipe should be empty")
	}
	mesh, err := k.ToMesh(p)
	if err != nil || !mesh.IsEmpty() {
		t.Errorf("ToMesh = %v, %v; want empty mesh", mesh, err)
	}
	if k.Inside(p, [3]float64{}) {
		t.Error("empty pipe contains a point")
	}
}

func TestDifference(t *testing.T) {
	k := coarse()
	box := k.Box([3]float64{-2, -2, -2}, [3]float64{2, 2, 2})
	boxMesh := checkMesh(t, k, box)

	diff := k.Difference(box, k.Cylinder("xy", [3]float64{}, 1, 6))
	diffMesh := checkMesh(t, k, diff)

	// A box with a hole should have more triangles than a plain box.
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}
}

func TestTranslate(t *testing.T) {
	k := coarse()
	box := k.Box([3]float64{-0.5, -0.5, -0.5}, [3]float64{0.5, 0.5, 0.5})
	moved := k.Translate(box, 3, 4, 5)
	approxBounds(t, moved, [3]float64{2.5, 3.5, 4.5}, [3]float64{3.5, 4.5, 5.5}, 0.01)
}

func TestRotate(t *testing.T) {
	k := coarse()
	box := k.Box([3]float64{-5, -0.5, -0.5}, [3]float64{5, 0.5, 0.5})

	// A long box along X rotated 90 degrees around Z should extend along Y instead.
	min, max := k.Rotate(box, 0, 0, 90).BoundingBox()
	if x := max[0] - min[0]; math.Abs(x-1) > 0.1 {
		t.Errorf("rotated X extent = %f, expected ~1", x)
	}
	if y := max[1] - min[1]; math.Abs(y-10) > 0.1 {
		t.Errorf("rotated Y extent = %f, expected ~10", y)
	}
}

// buildCarved builds the same solid with any kernel.
func buildCarved(k kernel.Kernel) kernel.Solid {
	body := k.Box([3]float64{-2, -1, -1}, [3]float64{2, 1, 1})
	hole := k.Cylinder("xz", [3]float64{0.5, 0, 0}, 0.6, 0)
	ball := k.Translate(k.Scale(k.Sphere([3]float64{}, 1), 1, 1, 0.5), -2, 0, 0)
	floor := k.Plane([3]float64{0, -0.5, 0}, [3]float64{0, -1, 0})
	return k.Intersection(k.Union(k.Difference(body, hole), ball), floor)
}

func TestInsideAgreesWithRaycastKernel(t *testing.T) {
	sk := coarse()
	rk := raycast.New()
	a := buildCarved(sk)
	b := buildCarved(rk)

	rng := rand.New(rand.NewPCG(3, 5))
	disagree := 0
	for i := 0; i < 2000; i++ {
		p := [3]float64{rng.Float64()*8 - 4, rng.Float64()*4 - 2, rng.Float64()*4 - 2}
		if sk.Inside(a, p) != rk.Inside(b, p) {
			disagree++
		}
	}
	// Points landing within rounding of a surface may disagree.
	if disagree > 2 {
		t.Errorf("%d of 2000 samples disagree between kernels", disagree)
	}
}
