package service

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/chazu/mortar/pkg/catalog"
	"github.com/chazu/mortar/pkg/estimate"
	"github.com/chazu/mortar/pkg/kernel/sdfx"
	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/tessellate"
	"github.com/chazu/mortar/pkg/wall"
)

func newTestService(opts ...Option) *Service {
	opts = append([]Option{WithKernel(sdfx.New(sdfx.WithMeshCells(32)))}, opts...)
	return New(opts...)
}

func readHouse(t *testing.T) string {
	t.Helper()
	src, err := os.ReadFile("../../examples/house.mortar")
	if err != nil {
		t.Fatalf("failed to read house.mortar: %v", err)
	}
	return string(src)
}

// TestHouseEstimate runs the example file through evaluation and estimation.
func TestHouseEstimate(t *testing.T) {
	res := newTestService().Estimate(context.Background(), readHouse(t), estimate.Options{})
	if !res.OK() {
		t.Fatalf("errors: %+v", res.Errors)
	}
	if len(res.Warnings) != 0 {
		t.Errorf("unexpected warnings: %+v", res.Warnings)
	}

	s := res.Estimate
	if len(s.Walls) != 2 || s.Walls[0].Wall != "north" || s.Walls[1].Wall != "east" {
		t.Fatalf("walls = %+v", s.Walls)
	}

	tests := []struct {
		wall   string
		volume int
		total  float64
	}{
		// core 1000 + skin 550 + window 4*120 + door 8*60
		{"north", 126, 2510},
		// brick 80*11 + faced brick 80*15, shared 40 subtracted once
		{"east", 120, 2080},
	}
	for i, tt := range tests {
		t.Run(tt.wall, func(t *testing.T) {
			est := s.Walls[i]
			if est.Volume != tt.volume {
				t.Errorf("volume = %d, want %d", est.Volume, tt.volume)
			}
			if math.Abs(est.Total-tt.total) > 1e-9 {
				t.Errorf("total = %v, want %v", est.Total, tt.total)
			}
		})
	}
	if math.Abs(s.Total-4590) > 1e-9 {
		t.Errorf("project total = %v, want 4590", s.Total)
	}
}

// TestHouseMesh exercises the full mesh path: source, engine, project,
// tessellation and the JSON mesh format.
func TestHouseMesh(t *testing.T) {
	res := newTestService().Mesh(context.Background(), readHouse(t), tessellate.Options{})
	if !res.OK() {
		t.Fatalf("errors: %+v", res.Errors)
	}

	// core, skin, backing, facing
	if len(res.Meshes) != 4 {
		t.Fatalf("expected 4 meshes, got %d", len(res.Meshes))
	}
	for _, m := range res.Meshes {
		if len(m.Vertices) == 0 || len(m.Normals) == 0 || len(m.Indices) == 0 {
			t.Errorf("%s/%s: empty geometry", m.Wall, m.Element)
		}
		if m.Color == "" {
			t.Errorf("%s/%s: no color assigned", m.Wall, m.Element)
		}
	}
	if res.Meshes[0].Element != "core" || res.Meshes[0].Wall != "north" {
		t.Errorf("first mesh = %s/%s", res.Meshes[0].Wall, res.Meshes[0].Element)
	}
}

func TestEmptySource(t *testing.T) {
	res := newTestService().Mesh(context.Background(), "", tessellate.Options{})
	if !res.OK() || len(res.Meshes) != 0 || len(res.Warnings) != 0 {
		t.Errorf("unexpected result for empty source: %+v", res)
	}

	// Slices must encode as [] not null.
	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{`"meshes":[]`, `"errors":[]`, `"warnings":[]`} {
		if !strings.Contains(string(b), field) {
			t.Errorf("json %s does not contain %s", b, field)
		}
	}
}

func TestSyntaxError(t *testing.T) {
	res := newTestService().Estimate(context.Background(), "(+ 1 2)\n(layer \"a\"", estimate.Options{})
	if res.OK() {
		t.Fatal("expected an error for unmatched parens")
	}
	if res.Estimate != nil || res.Project() != nil {
		t.Error("failed evaluation must not produce an estimate or project")
	}
	if res.Errors[0].Message == "" {
		t.Error("error should have a message")
	}
}

func TestValidationErrorBlocksEstimate(t *testing.T) {
	src := `
(def a (layer "a" :material "concrete" :coords (coords 0 0 0 1 1 1)))
(def b (layer "a" :material "concrete" :coords (coords 1 0 0 2 1 1)))
(wall "w" a b)
`
	res := newTestService().Estimate(context.Background(), src, estimate.Options{})
	if res.OK() || res.Estimate != nil {
		t.Fatalf("duplicate names must block the estimate: %+v", res)
	}
}

func TestSharedElementBlocksEstimate(t *testing.T) {
	src := `
(def a (layer "a" :material "concrete" :coords (coords 0 0 0 2 2 2)))
(wall "one" a)
(wall "two" a)
`
	res := newTestService().Estimate(context.Background(), src, estimate.Options{})
	if res.OK() || res.Estimate != nil {
		t.Fatalf("an element in two walls must block the estimate: %+v", res)
	}
	if msg := res.Errors[0].Message; !strings.Contains(msg, "wall two, a") || !strings.Contains(msg, "wall one") {
		t.Errorf("errors = %+v", res.Errors)
	}
}

func TestWarningsDoNotBlock(t *testing.T) {
	src := `
(def a (layer "a" :material "concrete" :coords (coords 0 0 0 4 1 2)))
(def w1 (window "w1" :coords (coords 3 0 0 6 1 1)))
(wall "w" a w1)
`
	res := newTestService().Estimate(context.Background(), src, estimate.Options{})
	if !res.OK() {
		t.Fatalf("errors: %+v", res.Errors)
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Wall != "w" {
		t.Errorf("warnings = %+v", res.Warnings)
	}
	if res.Estimate == nil {
		t.Error("warnings must not block the estimate")
	}
}

func TestWithCatalog(t *testing.T) {
	cat := catalog.New()
	if err := cat.Add(wall.Material{Name: "concrete", Price: 1, Unit: wall.PerVolume}); err != nil {
		t.Fatal(err)
	}
	svc := newTestService(WithCatalog(cat))
	src := `(wall "w" (layer "a" :material "concrete" :coords (coords 0 0 0 2 2 2)))`
	res := svc.Estimate(context.Background(), src, estimate.Options{})
	if !res.OK() {
		t.Fatalf("errors: %+v", res.Errors)
	}
	if res.Estimate.Total != 8 {
		t.Errorf("total = %v, want 8", res.Estimate.Total)
	}
	if len(svc.Materials()) != 1 {
		t.Errorf("materials = %v", svc.Materials())
	}
}

func TestEstimateProject(t *testing.T) {
	svc := newTestService()
	concrete, _ := svc.Catalog().Lookup("concrete")
	w, err := wall.NewWall("w", wall.MustLayer("a", concrete, wall.SideFront, wall.MustCoordSet(0, 0, 0, 1, 1, 1)))
	if err != nil {
		t.Fatal(err)
	}
	p := project.New(svc.Catalog())
	if err := p.AddWall(w); err != nil {
		t.Fatal(err)
	}
	res := svc.EstimateProject(context.Background(), p, estimate.Options{})
	if !res.OK() || res.Estimate.Total != 10 {
		t.Errorf("result = %+v", res)
	}
	if res.Project() != p {
		t.Error("project not carried through")
	}
}

func TestMeshProject(t *testing.T) {
	svc := newTestService()
	concrete, _ := svc.Catalog().Lookup("concrete")
	a := wall.MustLayer("a", concrete, wall.SideFront, wall.MustCoordSet(0, 0, 0, 2, 1, 1))
	dup := wall.MustLayer("a", concrete, wall.SideFront, wall.MustCoordSet(2, 0, 0, 4, 1, 1))

	ok, _ := wall.NewWall("ok", a)
	p := project.New(svc.Catalog())
	if err := p.AddWall(ok); err != nil {
		t.Fatal(err)
	}
	res := svc.MeshProject(p, tessellate.Options{})
	if !res.OK() || len(res.Meshes) != 1 {
		t.Errorf("result = %+v", res)
	}

	bad, _ := wall.NewWall("bad", a, dup)
	p = project.New(svc.Catalog())
	if err := p.AddWall(bad); err != nil {
		t.Fatal(err)
	}
	res = svc.MeshProject(p, tessellate.Options{})
	if res.OK() || len(res.Meshes) != 0 || res.Project() != nil {
		t.Errorf("duplicate names must block meshing: %+v", res)
	}
}
