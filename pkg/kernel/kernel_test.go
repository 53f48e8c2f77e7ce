package kernel

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

// --- Mesh helper method tests ---

func TestMeshVertexCount(t *testing.T) {
	tests := []struct {
		name     string
		vertices []float32
		want     int
	}{
		{"empty", nil, 0},
		{"one vertex", []float32{1, 2, 3}, 1},
		{"four vertices", []float32{0, 0, 0, 1, 0, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Vertices: tt.vertices}
			if got := m.VertexCount(); got != tt.want {
				t.Errorf("VertexCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshTriangleCount(t *testing.T) {
	tests := []struct {
		name    string
		indices []uint32
		want    int
	}{
		{"empty", nil, 0},
		{"one triangle", []uint32{0, 1, 2}, 1},
		{"two triangles", []uint32{0, 1, 2, 2, 3, 0}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Mesh{Indices: tt.indices}
			if got := m.TriangleCount(); got != tt.want {
				t.Errorf("TriangleCount() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestMeshIsEmpty(t *testing.T) {
	t.Run("empty mesh", func(t *testing.T) {
		m := &Mesh{}
		if !m.IsEmpty() {
			t.Error("IsEmpty() = false for empty mesh, want true")
		}
	})
	t.Run("non-empty mesh", func(t *testing.T) {
		m := &Mesh{Vertices: []float32{1, 2, 3}}
		if m.IsEmpty() {
			t.Error("IsEmpty() = true for non-empty mesh, want false")
		}
	})
}

func TestMeshBounds(t *testing.T) {
	m := &Mesh{Vertices: []float32{1, -2, 3, -1, 4, 0, 0, 0, 5}}
	min, max := m.Bounds()
	if min != [3]float32{-1, -2, 0} || max != [3]float32{1, 4, 5} {
		t.Errorf("Bounds() = %v %v", min, max)
	}
}

// --- Bounds helpers ---

// boxSolid is a minimal Solid implementation for testing.
type boxSolid struct {
	minBB, maxBB [3]float64
}

func (s boxSolid) BoundingBox() (min, max [3]float64) {
	return s.minBB, s.maxBB
}

func TestBoundedAndEmpty(t *testing.T) {
	inf := math.Inf(1)
	tests := []struct {
		name           string
		s              boxSolid
		bounded, empty bool
	}{
		{"unit", boxSolid{[3]float64{0, 0, 0}, [3]float64{1, 1, 1}}, true, false},
		{"flat", boxSolid{[3]float64{0, 0, 0}, [3]float64{1, 0, 1}}, true, true},
		{"inverted", boxSolid{[3]float64{2, 0, 0}, [3]float64{1, 1, 1}}, true, true},
		{"half-space", boxSolid{[3]float64{-inf, -inf, -inf}, [3]float64{inf, 0, inf}}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Bounded(tt.s); got != tt.bounded {
				t.Errorf("Bounded() = %v, want %v", got, tt.bounded)
			}
			if got := Empty(tt.s); got != tt.empty {
				t.Errorf("Empty() = %v, want %v", got, tt.empty)
			}
		})
	}
}

// --- STL export ---

func TestWriteSTL(t *testing.T) {
	tri := &Mesh{
		Vertices: []float32{0, 0, 0, 1, 0, 0, 0, 1, 0},
		Normals:  []float32{0, 0, 1, 0, 0, 1, 0, 0, 1},
		Indices:  []uint32{0, 1, 2},
	}
	var buf bytes.Buffer
	if err := WriteSTL(&buf, tri, tri, &Mesh{}); err != nil {
		t.Fatalf("WriteSTL: %v", err)
	}

	b := buf.Bytes()
	if len(b) != 84+2*50 {
		t.Fatalf("STL size = %d, want %d", len(b), 84+2*50)
	}
	if n := binary.LittleEndian.Uint32(b[80:84]); n != 2 {
		t.Errorf("triangle count = %d, want 2", n)
	}
	rec := b[84:134]
	if nz := math.Float32frombits(binary.LittleEndian.Uint32(rec[8:12])); nz != 1 {
		t.Errorf("normal z = %g, want 1", nz)
	}
	if vx := math.Float32frombits(binary.LittleEndian.Uint32(rec[24:28])); vx != 1 {
		t.Errorf("second vertex x = %g, want 1", vx)
	}
}
