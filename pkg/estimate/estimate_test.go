package estimate

import (
	"context"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/wall"
)

var (
	concrete = wall.Material{Name: "concrete", Price: 10, Unit: wall.PerVolume}
	plaster  = wall.Material{Name: "plaster", Price: 11, Unit: wall.PerArea}
	glass    = wall.Material{Name: "window", Price: 100, Unit: wall.PerArea}
	doorLeaf = wall.Material{Name: "door", Price: 60, Unit: wall.PerPiece}
)

// buildWall returns a 10x2x5 concrete core, a plaster skin, a 2x2x2 window,
// a door and a 1x1x1 cut.
func buildWall(t *testing.T, name string) *wall.Wall {
	t.Helper()
	core, err := wall.NewLayer("core", concrete, wall.SideFront, nil, wall.MustCoordSet(0, 0, 0, 10, 2, 5))
	if err != nil {
		t.Fatal(err)
	}
	skin, err := wall.NewLayer("skin", plaster, wall.SideFront, nil, wall.MustCoordSet(0, 2, 0, 10, 3, 5))
	if err != nil {
		t.Fatal(err)
	}
	win, err := wall.NewWindow("w1", glass, wall.SideFront, nil, wall.MustCoordSet(2, 0, 1, 4, 2, 3), 120)
	if err != nil {
		t.Fatal(err)
	}
	door, err := wall.NewDoor("d1", doorLeaf, wall.SideFront, nil, wall.MustCoordSet(6, 0, 0, 8, 2, 4), 60)
	if err != nil {
		t.Fatal(err)
	}
	cut, err := wall.NewCut("niche", concrete, wall.SideFront, nil, wall.MustCoordSet(9, 0, 0, 10, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	w, err := wall.NewWall(name, core, skin, win, door, cut)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func TestWallLines(t *testing.T) {
	est, err := Wall(buildWall(t, "north"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := uuid.Parse(est.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", est.ID, err)
	}

	tests := []struct {
		name      string
		kind      string
		unit      string
		quantity  float64
		unitPrice float64
		cost      float64
	}{
		{"core", "layer", "m3", 100, 10, 1000},
		{"skin", "layer", "m2", 50, 11, 550},
		{"w1", "window", "m2", 4, 120, 480},
		{"d1", "door", "m2", 8, 60, 480},
		{"niche", "cut", "m3", -1, 10, -10},
	}
	if len(est.Lines) != len(tests) {
		t.Fatalf("lines = %d, want %d", len(est.Lines), len(tests))
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := est.Lines[i]
			if l.Name != tt.name || l.Kind != tt.kind || l.Unit != tt.unit {
				t.Errorf("line = %s/%s/%s, want %s/%s/%s", l.Name, l.Kind, l.Unit, tt.name, tt.kind, tt.unit)
			}
			if l.Quantity != tt.quantity || l.UnitPrice != tt.unitPrice || l.Cost != tt.cost {
				t.Errorf("quantity/price/cost = %v/%v/%v, want %v/%v/%v",
					l.Quantity, l.UnitPrice, l.Cost, tt.quantity, tt.unitPrice, tt.cost)
			}
		})
	}
}

func TestWallTotalsMatchWall(t *testing.T) {
	w := buildWall(t, "north")
	est, err := Wall(w, Options{})
	if err != nil {
		t.Fatal(err)
	}
	cost, err := w.Cost()
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(est.Total-cost) > 1e-9 {
		t.Errorf("total = %v, wall cost = %v", est.Total, cost)
	}
	if est.Volume != w.Volume() {
		t.Errorf("volume = %d, want %d", est.Volume, w.Volume())
	}
	if est.Coords != [6]int{0, 0, 0, 10, 3, 5} {
		t.Errorf("coords = %v", est.Coords)
	}
	// naive per-axis sums: lengths 10+10+2+2+1, widths 2+1+2+2+1, heights 5+5+2+4+1
	if est.Length != 25 || est.Width != 8 || est.Height != 17 {
		t.Errorf("dimensions = %d x %d x %d", est.Length, est.Width, est.Height)
	}
}

func TestWallScale(t *testing.T) {
	est, err := Wall(buildWall(t, "north"), Options{Scale: 100})
	if err != nil {
		t.Fatal(err)
	}
	core := est.Lines[0]
	if len(core.Scaled) != 3 || core.Scaled[0] != 1000 || core.Scaled[1] != 200 || core.Scaled[2] != 500 {
		t.Errorf("scaled = %v", core.Scaled)
	}
	if core.Cost != 1000 {
		t.Errorf("scaling must not change cost, got %v", core.Cost)
	}

	plain, _ := Wall(buildWall(t, "north"), Options{})
	if plain.Lines[0].Scaled != nil {
		t.Error("unscaled estimate should omit scaled dimensions")
	}
}

func TestWallConnectionVolume(t *testing.T) {
	w := buildWall(t, "north")
	core, _ := w.Layer("core")
	win, _ := w.Layer("w1")
	c, err := wall.ConnectElements(core, win)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Connect(c); err != nil {
		t.Fatal(err)
	}
	est, err := Wall(w, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if est.ConnectionVolume != 8 {
		t.Errorf("connection volume = %d, want 8", est.ConnectionVolume)
	}
}

func TestWallErrors(t *testing.T) {
	if _, err := Wall(nil, Options{}); err == nil {
		t.Error("expected error for nil wall")
	}
	w := buildWall(t, "w")
	for _, name := range []string{"core", "skin", "w1", "d1", "niche"} {
		if err := w.RemoveLayer(name); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := Wall(w, Options{}); err == nil {
		t.Error("expected error for empty wall")
	}
}

func TestProjectKeepsOrder(t *testing.T) {
	p := project.New(nil)
	names := []string{"n", "e", "s", "w", "x", "y", "z"}
	for _, n := range names {
		if err := p.AddWall(buildWall(t, n)); err != nil {
			t.Fatal(err)
		}
	}

	s, err := Project(context.Background(), p, Options{Workers: 3})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Walls) != len(names) {
		t.Fatalf("walls = %d", len(s.Walls))
	}
	for i, est := range s.Walls {
		if est.Wall != names[i] {
			t.Errorf("wall %d = %q, want %q", i, est.Wall, names[i])
		}
	}
	if want := float64(len(names)) * s.Walls[0].Total; math.Abs(s.Total-want) > 1e-9 {
		t.Errorf("total = %v, want %v", s.Total, want)
	}
}

func TestProjectCancelled(t *testing.T) {
	p := project.New(nil)
	if err := p.AddWall(buildWall(t, "n")); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Project(ctx, p, Options{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestProjectEmpty(t *testing.T) {
	s, err := Project(context.Background(), project.New(nil), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Walls) != 0 || s.Total != 0 {
		t.Errorf("summary = %+v", s)
	}
}
