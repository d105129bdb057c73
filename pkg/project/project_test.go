package project

import (
	"strings"
	"testing"

	"github.com/chazu/mortar/pkg/wall"
)

// ---------------------------------------------------------------------------
// Test helpers
// ---------------------------------------------------------------------------

var concrete = wall.Material{Name: "concrete", Price: 10, Unit: wall.PerVolume}

func layer(t *testing.T, name string, c wall.CoordSet) *wall.Layer {
	t.Helper()
	l, err := wall.NewLayer(name, concrete, wall.SideFront, nil, c)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

// buildValidProject creates a project with a single two-layer wall whose
// layers share length and height and carry a window inside the first.
func buildValidProject(t *testing.T) *Project {
	t.Helper()
	core := layer(t, "core", wall.MustCoordSet(0, 0, 0, 10, 2, 5))
	plaster := layer(t, "plaster", wall.MustCoordSet(0, 2, 0, 10, 3, 5))
	win, err := wall.NewWindow("window", concrete, wall.SideFront, nil, wall.MustCoordSet(2, 0, 1, 4, 2, 3), 100)
	if err != nil {
		t.Fatal(err)
	}
	w, err := wall.NewWall("north", core, plaster, win)
	if err != nil {
		t.Fatal(err)
	}
	p := New(nil)
	if err := p.AddWall(w); err != nil {
		t.Fatal(err)
	}
	return p
}

func hasWarning(ws []ValidationWarning, substr string) bool {
	for _, w := range ws {
		if strings.Contains(w.Message, substr) {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// Project
// ---------------------------------------------------------------------------

func TestNewUsesDefaultCatalog(t *testing.T) {
	p := New(nil)
	if _, err := p.Catalog.Lookup("concrete"); err != nil {
		t.Error(err)
	}
}

func TestAddWallDuplicate(t *testing.T) {
	p := buildValidProject(t)
	dup, _ := wall.NewWall("north", layer(t, "x", wall.MustCoordSet(0, 0, 0, 1, 1, 1)))
	if err := p.AddWall(dup); err == nil {
		t.Error("expected duplicate wall error")
	}
	if err := p.AddWall(nil); err == nil {
		t.Error("expected nil wall error")
	}
}

func TestLookup(t *testing.T) {
	p := buildValidProject(t)
	if p.Lookup("north") == nil {
		t.Error("north not found")
	}
	if p.Lookup("south") != nil {
		t.Error("south should not exist")
	}
	defer func() {
		if recover() == nil {
			t.Error("MustLookup should panic")
		}
	}()
	p.MustLookup("south")
}

func TestWallsKeepOrder(t *testing.T) {
	p := New(nil)
	for _, name := range []string{"c", "a", "b"} {
		w, _ := wall.NewWall(name, layer(t, "l", wall.MustCoordSet(0, 0, 0, 1, 1, 1)))
		if err := p.AddWall(w); err != nil {
			t.Fatal(err)
		}
	}
	var got []string
	for _, w := range p.Walls() {
		got = append(got, w.Name())
	}
	if strings.Join(got, ",") != "c,a,b" {
		t.Errorf("order = %v", got)
	}
	if p.WallCount() != 3 {
		t.Errorf("count = %d", p.WallCount())
	}
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func TestValidateAllClean(t *testing.T) {
	r := ValidateAll(buildValidProject(t))
	if !r.OK() {
		t.Errorf("errors: %v", r.Errors)
	}
	if len(r.Warnings) != 0 {
		t.Errorf("warnings: %v", r.Warnings)
	}
}

func TestValidateDuplicateLayerNames(t *testing.T) {
	p := buildValidProject(t)
	w := p.MustLookup("north")
	if err := w.AddLayer(layer(t, "core", wall.MustCoordSet(0, 3, 0, 10, 4, 5))); err != nil {
		t.Fatal(err)
	}
	errs := Validate(p)
	if len(errs) != 1 || errs[0].Element != "core" || errs[0].Severity != SeverityError {
		t.Fatalf("errs = %v", errs)
	}
	if !strings.Contains(errs[0].Error(), "wall north, core") {
		t.Errorf("Error() = %q", errs[0].Error())
	}
}

func TestValidateElementInTwoWalls(t *testing.T) {
	a := layer(t, "a", wall.MustCoordSet(0, 0, 0, 2, 2, 2))
	p := New(nil)
	for _, name := range []string{"one", "two"} {
		w, err := wall.NewWall(name, a)
		if err != nil {
			t.Fatal(err)
		}
		if err := p.AddWall(w); err != nil {
			t.Fatal(err)
		}
	}
	errs := Validate(p)
	if len(errs) != 1 {
		t.Fatalf("errs = %v, want one", errs)
	}
	if errs[0].Wall != "two" || errs[0].Element != "a" || !strings.Contains(errs[0].Message, "wall one") {
		t.Errorf("err = %v", errs[0])
	}
}

func TestValidateOpeningOutsideLayers(t *testing.T) {
	p := buildValidProject(t)
	door, err := wall.NewDoor("door", concrete, wall.SideFront, nil, wall.MustCoordSet(9, 0, 0, 12, 2, 4), 60)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.MustLookup("north").AddLayer(door); err != nil {
		t.Fatal(err)
	}
	r := ValidateAll(p)
	if !r.OK() {
		t.Fatalf("errors: %v", r.Errors)
	}
	if !hasWarning(r.Warnings, "not inside any solid layer") {
		t.Errorf("warnings = %v", r.Warnings)
	}
}

func TestValidateFootprintMismatch(t *testing.T) {
	p := buildValidProject(t)
	if err := p.MustLookup("north").AddLayer(layer(t, "short", wall.MustCoordSet(0, 3, 0, 6, 4, 5))); err != nil {
		t.Fatal(err)
	}
	if !hasWarning(ValidateAll(p).Warnings, "footprint") {
		t.Error("expected footprint warning")
	}
}

func TestValidateTouchingConnection(t *testing.T) {
	p := buildValidProject(t)
	w := p.MustLookup("north")
	core, _ := w.Layer("core")
	plaster, _ := w.Layer("plaster")
	c, err := wall.ConnectElements(core, plaster)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Connect(c); err != nil {
		t.Fatal(err)
	}
	r := ValidateAll(p)
	if !hasWarning(r.Warnings, "zero interface volume") {
		t.Errorf("warnings = %v", r.Warnings)
	}
	if r.Warnings[0].String() == "" {
		t.Error("empty warning string")
	}
}
