package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/chazu/mortar/pkg/catalog"
	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/wall"
)

// ---------------------------------------------------------------------------
// Preprocessing tests
// ---------------------------------------------------------------------------

func TestPreprocessKeywords(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(layer "core" :side :front)`,
			expect: `(layer "core" "__kw_side" "__kw_front")`,
		},
		{
			name:   "multiple keywords",
			input:  `(window "w" :price 120 :side :rear)`,
			expect: `(window "w" "__kw_price" 120 "__kw_side" "__kw_rear")`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(def faced-brick (catalog "faced brick"))`,
			expect: `(def faced_brick (catalog "faced brick"))`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5)`,
			expect: `(- 10 5)`,
		},
		{
			name:   "comment converted to // style",
			input:  `;; comment with :keyword`,
			expect: `// comment with :keyword`,
		},
		{
			name:   "single semicolon comment",
			input:  `; simple comment`,
			expect: `// simple comment`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `:per-piece`,
			expect: `"__kw_per-piece"`,
		},
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
// Helpers
// ---------------------------------------------------------------------------

func mustEvaluate(t *testing.T, eng *Engine, source string) *project.Project {
	t.Helper()
	p, evalErrs, err := eng.Evaluate(source)
	if err != nil {
		t.Fatalf("fatal error: %v", err)
	}
	if len(evalErrs) > 0 {
		t.Fatalf("eval errors: %v", evalErrs)
	}
	if p == nil {
		t.Fatal("expected non-nil project")
	}
	return p
}

func mustWall(t *testing.T, p *project.Project, name string) *wall.Wall {
	t.Helper()
	w := p.Lookup(name)
	if w == nil {
		t.Fatalf("expected wall named %q", name)
	}
	return w
}

func expectEvalError(t *testing.T, source, substr string) {
	t.Helper()
	p, evalErrs, err := NewEngine().Evaluate(source)
	if err != nil {
		t.Fatalf("expected non-fatal eval error, got fatal: %v", err)
	}
	if p != nil {
		t.Fatal("expected nil project on eval error")
	}
	if len(evalErrs) == 0 {
		t.Fatal("expected eval errors")
	}
	if !strings.Contains(evalErrs[0].Message, substr) {
		t.Errorf("error %q does not mention %q", evalErrs[0].Message, substr)
	}
}

// ---------------------------------------------------------------------------
// Simple wall
// ---------------------------------------------------------------------------

const simpleWall = `
;; two layers and a window
(def core (layer "core" :material "concrete" :coords (coords 0 0 0 10 2 5)))
(def plaster (layer "plaster"
  :material (material "plaster" :price 11 :unit :m2)
  :side :front
  :coords (coords 0 2 0 10 3 5)))
(def w1 (window "w1" :coords (coords 2 0 1 4 2 3) :price 120))
(wall "north" core plaster w1)
`

func TestSimpleWall(t *testing.T) {
	p := mustEvaluate(t, NewEngine(), simpleWall)
	if p.WallCount() != 1 {
		t.Fatalf("expected 1 wall, got %d", p.WallCount())
	}
	w := mustWall(t, p, "north")
	if w.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", w.Len())
	}

	// 100 + 50 - 8
	if w.Volume() != 142 {
		t.Errorf("volume = %d, want 142", w.Volume())
	}

	win, ok := w.Layer("w1")
	if !ok {
		t.Fatal("w1 missing")
	}
	if win.Kind() != wall.KindWindow {
		t.Errorf("kind = %s, want window", win.Kind())
	}
	if win.Material().Name != "window" {
		t.Errorf("window material = %q, want catalog default", win.Material().Name)
	}

	// concrete 100*10 + plaster 50*11 + window 4*120
	cost, err := w.Cost()
	if err != nil {
		t.Fatal(err)
	}
	if cost != 1000+550+480 {
		t.Errorf("cost = %v, want 2030", cost)
	}
}

func TestVariableReference(t *testing.T) {
	source := `
(def thickness 3)
(def brick (catalog "brick"))
(wall "w" (layer "a" :material brick :coords (coords 0 0 0 4 thickness 2)))
`
	p := mustEvaluate(t, NewEngine(), source)
	l, _ := mustWall(t, p, "w").Layer("a")
	if l.Volume() != 24 {
		t.Errorf("volume = %d, want 24", l.Volume())
	}
	if l.Material().Price != 11 {
		t.Errorf("brick price = %v, want 11", l.Material().Price)
	}
}

func TestKebabCaseVariables(t *testing.T) {
	source := `
(def faced-brick (catalog "faced brick"))
(wall "w" (layer "skin" :material faced-brick :coords (coords 0 0 0 1 1 1)))
`
	p := mustEvaluate(t, NewEngine(), source)
	l, _ := mustWall(t, p, "w").Layer("skin")
	if l.Material().Price != 15 {
		t.Errorf("price = %v, want 15", l.Material().Price)
	}
}

// ---------------------------------------------------------------------------
// Openings
// ---------------------------------------------------------------------------

func TestDoorAndCut(t *testing.T) {
	source := `
(def core (layer "core" :material "brick" :coords (coords 0 0 0 10 2 5)))
(def d (door "d1" :side :rear :coords (coords 6 0 0 8 2 4)))
(def niche (cut "niche" :material "brick" :coords (coords 1 0 1 2 1 2)))
(wall "south" core d niche)
`
	p := mustEvaluate(t, NewEngine(), source)
	w := mustWall(t, p, "south")

	d, _ := w.Layer("d1")
	if d.Exterior() != wall.SideRear {
		t.Errorf("door side = %s", d.Exterior())
	}
	o := d.(*wall.Opening)
	if o.UnitPrice() != 60 {
		t.Errorf("door price = %v, want catalog 60", o.UnitPrice())
	}

	niche, _ := w.Layer("niche")
	if niche.Volume() != -1 {
		t.Errorf("cut volume = %d, want -1", niche.Volume())
	}
	// 100 - 16 - 1
	if w.Volume() != 83 {
		t.Errorf("wall volume = %d, want 83", w.Volume())
	}
}

func TestWindowRequiresPositivePrice(t *testing.T) {
	expectEvalError(t, `(window "w" :coords (coords 0 0 0 1 1 1) :price 0)`, "price")
}

// ---------------------------------------------------------------------------
// Connections and groups
// ---------------------------------------------------------------------------

func TestConnectRegistersOnWall(t *testing.T) {
	source := `
(def a (layer "a" :material "concrete" :coords (coords 0 0 0 4 2 1)))
(def b (layer "b" :material "concrete" :coords (coords 2 0 0 6 2 1)))
(def w (wall "w" a b))
(connect a b :wall w)
`
	p := mustEvaluate(t, NewEngine(), source)
	w := mustWall(t, p, "w")
	if len(w.Connections()) != 1 {
		t.Fatalf("connections = %d, want 1", len(w.Connections()))
	}
	// 8 + 8 - 4
	if w.Volume() != 12 {
		t.Errorf("volume = %d, want 12", w.Volume())
	}
}

func TestConnectionOnLayer(t *testing.T) {
	source := `
(def a (layer "a" :material "concrete" :coords (coords 0 0 0 4 2 1)))
(def b (layer "b" :material "concrete" :coords (coords 2 0 0 6 2 1)))
(def ab (connect a b :at (coords 3 0 0 4 2 1)))
(def c (layer "c" :material "concrete" :coords (coords 0 2 0 6 3 1) :connections (list ab)))
(wall "w" a b c)
`
	p := mustEvaluate(t, NewEngine(), source)
	// 8 + 8 + 6 - 2
	if v := mustWall(t, p, "w").Volume(); v != 20 {
		t.Errorf("volume = %d, want 20", v)
	}
}

func TestConnectGroup(t *testing.T) {
	source := `
(def a (layer "a" :material "concrete" :coords (coords 0 0 0 2 1 3)))
(def b (layer "b" :material "concrete" :coords (coords 0 1 0 2 2 3)))
(def col (layer "col" :material "concrete" :coords (coords 1 0 0 3 2 3)))
(def w (wall "w" a b col))
(connect (group "ab" a b) col :wall w)
`
	p := mustEvaluate(t, NewEngine(), source)
	// 6 + 6 + 12 - 6
	if v := mustWall(t, p, "w").Volume(); v != 18 {
		t.Errorf("volume = %d, want 18", v)
	}
}

func TestConnectDisjoint(t *testing.T) {
	expectEvalError(t, `
(def a (layer "a" :material "concrete" :coords (coords 0 0 0 1 1 1)))
(def b (layer "b" :material "concrete" :coords (coords 5 5 5 6 6 6)))
(connect a b)
`, "do not touch")
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		substr string
	}{
		{"missing material", `(layer "a" :coords (coords 0 0 0 1 1 1))`, ":material is required"},
		{"missing coords", `(layer "a" :material "brick")`, ":coords is required"},
		{"unknown catalog name", `(catalog "granite")`, "unknown material"},
		{"negative coordinate", `(coords 0 0 -1 1 1 1)`, "less than zero"},
		{"coords arity", `(coords 0 0 0 1 1)`, "exactly 6"},
		{"fractional coordinate", `(coords 0 0 0 1.5 1 1)`, "whole number"},
		{"bad side", `(layer "a" :material "brick" :side :up :coords (coords 0 0 0 1 1 1))`, "side"},
		{"bad unit", `(material "x" :price 1 :unit :kg)`, "unit"},
		{"empty wall", `(wall "w")`, "at least one layer"},
		{"wall non-element", `(wall "w" 3)`, "expected layer or opening"},
		{"duplicate wall", `
(def a (layer "a" :material "brick" :coords (coords 0 0 0 1 1 1)))
(wall "w" a)
(wall "w" a)`, "already defined"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectEvalError(t, tt.source, tt.substr)
		})
	}
}

// ---------------------------------------------------------------------------
// Catalogs
// ---------------------------------------------------------------------------

func TestWithCatalog(t *testing.T) {
	cat := catalog.New()
	if err := cat.Add(wall.Material{Name: "brick", Price: 20, Unit: wall.PerVolume}); err != nil {
		t.Fatal(err)
	}
	eng := NewEngine(WithCatalog(cat))
	p := mustEvaluate(t, eng, `(wall "w" (layer "a" :material "brick" :coords (coords 0 0 0 1 1 1)))`)
	l, _ := mustWall(t, p, "w").Layer("a")
	if l.Material().Price != 20 {
		t.Errorf("price = %v, want 20", l.Material().Price)
	}
}

func TestMaterialDefinitionsStayLocal(t *testing.T) {
	eng := NewEngine()
	p, _, err := eng.Evaluate(`(material "granite" :price 40)`)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Catalog.Lookup("granite"); err != nil {
		t.Errorf("project catalog should know granite: %v", err)
	}
	if _, err := eng.Catalog().Lookup("granite"); err == nil {
		t.Error("engine catalog must not be modified by evaluation")
	}
}

func TestQueryBuiltins(t *testing.T) {
	source := `
(def a (layer "a" :material "concrete" :coords (coords 0 0 0 2 2 2)))
(def w (wall "w" a))
(def v (volume w))
(def c (cost a))
(wall "check" (layer "b" :material "concrete" :coords (coords 0 0 0 v 1 1)))
`
	p := mustEvaluate(t, NewEngine(), source)
	b, _ := mustWall(t, p, "check").Layer("b")
	if b.Volume() != 8 {
		t.Errorf("volume via (volume w) = %d, want 8", b.Volume())
	}
}

// ---------------------------------------------------------------------------
// Run
// ---------------------------------------------------------------------------

func TestRunReportsWarnings(t *testing.T) {
	source := `
(def core (layer "core" :material "brick" :coords (coords 0 0 0 10 2 5)))
(def d (door "d" :coords (coords 9 0 0 12 2 4)))
(wall "w" core d)
`
	res := NewEngine().Run(context.Background(), source)
	if len(res.Errors) > 0 {
		t.Fatalf("errors: %v", res.Errors)
	}
	if res.Project == nil {
		t.Fatal("expected project")
	}
	if len(res.Warnings) != 1 || res.Warnings[0].Wall != "w" {
		t.Errorf("warnings = %v", res.Warnings)
	}
}

func TestRunBlocksOnDuplicateLayerNames(t *testing.T) {
	source := `
(def a (layer "a" :material "brick" :coords (coords 0 0 0 1 1 1)))
(def b (layer "a" :material "brick" :coords (coords 0 1 0 1 2 1)))
(wall "w" a b)
`
	res := NewEngine().Run(context.Background(), source)
	if res.Project != nil {
		t.Error("project must be nil when validation fails")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0].Message, "duplicate") {
		t.Errorf("errors = %v", res.Errors)
	}
}

func TestRunFatal(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := NewEngine().Run(ctx, simpleWall)
	if res.Project != nil || len(res.Errors) != 1 {
		t.Errorf("expected one fatal error, got %+v", res)
	}
}
