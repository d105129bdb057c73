//go:build manifold

package manifold

import (
	"math"
	"testing"

	"github.com/chazu/mortar/pkg/kernel"
)

func mustNew(t *testing.T) kernel.Kernel {
	t.Helper()
	k, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return k
}

func assertBounds(t *testing.T, s kernel.Solid, wantLo, wantHi [3]float64) {
	t.Helper()
	lo, hi := s.BoundingBox()
	for i := range 3 {
		if math.Abs(lo[i]-wantLo[i]) > 1e-6 || math.Abs(hi[i]-wantHi[i]) > 1e-6 {
			t.Errorf("bounds = %v..%v, want %v..%v", lo, hi, wantLo, wantHi)
			return
		}
	}
}

func TestBox(t *testing.T) {
	k := mustNew(t)
	assertBounds(t, k.Box(10, 20, 30), [3]float64{0, 0, 0}, [3]float64{10, 20, 30})
}

func TestBoxBetween(t *testing.T) {
	k := mustNew(t)
	s := kernel.BoxBetween(k, [3]float64{10, 2, 5}, [3]float64{0, 0, 0})
	assertBounds(t, s, [3]float64{0, 0, 0}, [3]float64{10, 2, 5})
}

func TestWindowCutout(t *testing.T) {
	k := mustNew(t)
	core := kernel.BoxBetween(k, [3]float64{0, 0, 0}, [3]float64{10, 2, 5})
	window := kernel.BoxBetween(k, [3]float64{2, 0, 1}, [3]float64{4, 2, 3})
	result := k.Difference(core, window)

	// A through hole leaves the outer bounds unchanged.
	assertBounds(t, result, [3]float64{0, 0, 0}, [3]float64{10, 2, 5})

	m, err := k.ToMesh(result)
	if err != nil {
		t.Fatal(err)
	}
	plain, err := k.ToMesh(core)
	if err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() <= plain.TriangleCount() {
		t.Errorf("cutout mesh has %d triangles, plain wall %d", m.TriangleCount(), plain.TriangleCount())
	}
}

func TestIntersection(t *testing.T) {
	k := mustNew(t)
	a := kernel.BoxBetween(k, [3]float64{0, 0, 0}, [3]float64{4, 2, 2})
	b := kernel.BoxBetween(k, [3]float64{3, 0, 0}, [3]float64{6, 2, 2})
	assertBounds(t, k.Intersection(a, b), [3]float64{3, 0, 0}, [3]float64{4, 2, 2})
	assertBounds(t, k.Union(a, b), [3]float64{0, 0, 0}, [3]float64{6, 2, 2})
}

func TestTranslate(t *testing.T) {
	k := mustNew(t)
	moved := k.Translate(k.Box(10, 10, 10), 100, 200, 300)
	assertBounds(t, moved, [3]float64{100, 200, 300}, [3]float64{110, 210, 310})
}

func TestToMesh(t *testing.T) {
	k := mustNew(t)
	m, err := k.ToMesh(k.Box(10, 10, 10))
	if err != nil {
		t.Fatalf("ToMesh() error = %v", err)
	}
	if m.IsEmpty() {
		t.Fatal("empty mesh for a box")
	}
	// Sharp edges may split vertices, but a box never needs more than two
	// triangles per face.
	if m.TriangleCount() < 12 {
		t.Errorf("triangles = %d, want >= 12", m.TriangleCount())
	}
	if len(m.Normals) != len(m.Vertices) {
		t.Errorf("normals %d, vertices %d", len(m.Normals), len(m.Vertices))
	}
}
