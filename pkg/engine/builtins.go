package engine

import (
	"fmt"
	"math"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/wall"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpMaterial struct {
	m wall.Material
}

func (s *sexpMaterial) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(material %q :price %g :unit %s)", s.m.Name, s.m.Price, s.m.Unit)
}
func (s *sexpMaterial) Type() *zygo.RegisteredType { return nil }

type sexpCoords struct {
	c wall.CoordSet
}

func (s *sexpCoords) SexpString(ps *zygo.PrintState) string {
	v := s.c.Values()
	return fmt.Sprintf("(coords %d %d %d %d %d %d)", v[0], v[1], v[2], v[3], v[4], v[5])
}
func (s *sexpCoords) Type() *zygo.RegisteredType { return nil }

// sexpElement wraps a layer or opening.
type sexpElement struct {
	e wall.Element
}

func (s *sexpElement) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %q)", s.e.Kind(), s.e.Name())
}
func (s *sexpElement) Type() *zygo.RegisteredType { return nil }

type sexpGroup struct {
	g *wall.Group
}

func (s *sexpGroup) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(group %q)", s.g.Name())
}
func (s *sexpGroup) Type() *zygo.RegisteredType { return nil }

type sexpConnection struct {
	c *wall.Connection
}

func (s *sexpConnection) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(connection %s)", s.c)
}
func (s *sexpConnection) Type() *zygo.RegisteredType { return nil }

type sexpWall struct {
	w *wall.Wall
}

func (s *sexpWall) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(wall %q)", s.w.Name())
}
func (s *sexpWall) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toInt accepts integers and floats without a fractional part.
func toInt(s zygo.Sexp) (int, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return int(v.Val), nil
	case *zygo.SexpFloat:
		if v.Val == math.Trunc(v.Val) {
			return int(v.Val), nil
		}
		return 0, fmt.Errorf("expected whole number, got %g", v.Val)
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_front) and plain strings ("front").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

func toSide(s zygo.Sexp) (wall.Side, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	return wall.ParseSide(name)
}

func toQuantity(s zygo.Sexp) (wall.Quantity, error) {
	name, err := toKeywordString(s)
	if err != nil {
		return 0, err
	}
	return wall.ParseQuantity(name)
}

func toCoords(s zygo.Sexp) (wall.CoordSet, error) {
	if c, ok := s.(*sexpCoords); ok {
		return c.c, nil
	}
	return wall.CoordSet{}, fmt.Errorf("expected coords, got %T (%s)", s, s.SexpString(nil))
}

func toElement(s zygo.Sexp) (wall.Element, error) {
	if e, ok := s.(*sexpElement); ok {
		return e.e, nil
	}
	return nil, fmt.Errorf("expected layer or opening, got %T (%s)", s, s.SexpString(nil))
}

// toPart accepts an element or a group as a connection endpoint.
func toPart(s zygo.Sexp) (wall.Part, error) {
	switch v := s.(type) {
	case *sexpElement:
		return wall.Single(v.e), nil
	case *sexpGroup:
		return v.g, nil
	}
	return nil, fmt.Errorf("expected layer, opening or group, got %T (%s)", s, s.SexpString(nil))
}

func toWall(s zygo.Sexp) (*wall.Wall, error) {
	if w, ok := s.(*sexpWall); ok {
		return w.w, nil
	}
	return nil, fmt.Errorf("expected wall, got %T (%s)", s, s.SexpString(nil))
}

// sexpListToSlice converts a SexpPair (Lisp list) or SexpArray to a Go slice.
func sexpListToSlice(s zygo.Sexp) ([]zygo.Sexp, error) {
	switch v := s.(type) {
	case *zygo.SexpPair:
		return zygo.ListToArray(v)
	case *zygo.SexpArray:
		return v.Val, nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("expected list or array, got %T", s)
}

// ---------------------------------------------------------------------------
// Shared element arguments
// ---------------------------------------------------------------------------

// elementArgs is the common argument set of layer, cut, window and door:
//
//	("name" :material m :side :front :coords (coords ...) :connections (list ...))
type elementArgs struct {
	name        string
	material    wall.Material
	side        wall.Side
	coords      wall.CoordSet
	connections []*wall.Connection
	kw          map[string]zygo.Sexp
}

// parseElement reads an elementArgs. When :material is absent the catalog
// entry named fallback is used; an empty fallback makes :material required.
func parseElement(fn string, p *project.Project, args []zygo.Sexp, fallback string) (elementArgs, error) {
	pa := parseArgs(args)
	ea := elementArgs{side: wall.SideFront, kw: pa.kw}

	if len(pa.positional) < 1 {
		return ea, fmt.Errorf("%s requires a name argument", fn)
	}
	name, err := toString(pa.positional[0])
	if err != nil {
		return ea, fmt.Errorf("%s: name: %w", fn, err)
	}
	ea.name = name

	switch v, ok := pa.kw["material"]; {
	case ok:
		m, err := resolveMaterial(p, v)
		if err != nil {
			return ea, fmt.Errorf("%s %q: material: %w", fn, name, err)
		}
		ea.material = m
	case fallback != "":
		m, err := p.Catalog.Lookup(fallback)
		if err != nil {
			return ea, fmt.Errorf("%s %q: %w", fn, name, err)
		}
		ea.material = m
	default:
		return ea, fmt.Errorf("%s %q: :material is required", fn, name)
	}

	if v, ok := pa.kw["side"]; ok {
		s, err := toSide(v)
		if err != nil {
			return ea, fmt.Errorf("%s %q: side: %w", fn, name, err)
		}
		ea.side = s
	}

	v, ok := pa.kw["coords"]
	if !ok {
		return ea, fmt.Errorf("%s %q: :coords is required", fn, name)
	}
	c, err := toCoords(v)
	if err != nil {
		return ea, fmt.Errorf("%s %q: coords: %w", fn, name, err)
	}
	ea.coords = c

	if v, ok := pa.kw["connections"]; ok {
		items, err := sexpListToSlice(v)
		if err != nil {
			return ea, fmt.Errorf("%s %q: connections: %w", fn, name, err)
		}
		for _, item := range items {
			sc, ok := item.(*sexpConnection)
			if !ok {
				return ea, fmt.Errorf("%s %q: connections: expected connection, got %T", fn, name, item)
			}
			ea.connections = append(ea.connections, sc.c)
		}
	}
	return ea, nil
}

// resolveMaterial accepts a material value or a catalog name.
func resolveMaterial(p *project.Project, s zygo.Sexp) (wall.Material, error) {
	if m, ok := s.(*sexpMaterial); ok {
		return m.m, nil
	}
	name, err := toKeywordString(s)
	if err != nil {
		return wall.Material{}, fmt.Errorf("expected material or catalog name: %w", err)
	}
	return p.Catalog.Lookup(name)
}

// openingPrice reads :price, defaulting to the material's own price.
func openingPrice(fn string, ea elementArgs) (float64, error) {
	v, ok := ea.kw["price"]
	if !ok {
		return ea.material.Price, nil
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s %q: price: %w", fn, ea.name, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the wall definition builtins into a zygomys
// environment. Builtins populate p during evaluation.
//
// Source code must be preprocessed with preprocessSource() first so that
// :keyword tokens arrive as recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, p *project.Project) {

	// -----------------------------------------------------------------------
	// (material "brick" :price 11 :unit :m3)
	// -----------------------------------------------------------------------
	env.AddFunction("material", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("material requires a name argument")
		}
		mname, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("material: name: %w", err)
		}

		var price float64
		if v, ok := pa.kw["price"]; ok {
			if price, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("material %q: price: %w", mname, err)
			}
		}
		unit := wall.PerVolume
		if v, ok := pa.kw["unit"]; ok {
			if unit, err = toQuantity(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("material %q: unit: %w", mname, err)
			}
		}

		m, err := wall.NewMaterial(mname, price, unit)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := p.Catalog.Add(m); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpMaterial{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (catalog "faced brick")
	// -----------------------------------------------------------------------
	env.AddFunction("catalog", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("catalog requires exactly 1 argument, got %d", len(args))
		}
		mname, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("catalog: name: %w", err)
		}
		m, err := p.Catalog.Lookup(mname)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpMaterial{m: m}, nil
	})

	// -----------------------------------------------------------------------
	// (coords 0 0 0 10 2 5)
	// -----------------------------------------------------------------------
	env.AddFunction("coords", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 6 {
			return zygo.SexpNull, fmt.Errorf("coords requires exactly 6 arguments, got %d", len(args))
		}
		var v [6]int
		for i, a := range args {
			n, err := toInt(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("coords: argument %d: %w", i+1, err)
			}
			v[i] = n
		}
		c, err := wall.NewCoordSet(v[0], v[1], v[2], v[3], v[4], v[5])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpCoords{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (layer "core" :material "concrete" :side :front :coords (coords ...))
	// -----------------------------------------------------------------------
	env.AddFunction("layer", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ea, err := parseElement("layer", p, args, "")
		if err != nil {
			return zygo.SexpNull, err
		}
		l, err := wall.NewLayer(ea.name, ea.material, ea.side, ea.connections, ea.coords)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpElement{e: l}, nil
	})

	// -----------------------------------------------------------------------
	// (cut "niche" :material "brick" :coords (coords ...))
	// -----------------------------------------------------------------------
	env.AddFunction("cut", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ea, err := parseElement("cut", p, args, "")
		if err != nil {
			return zygo.SexpNull, err
		}
		o, err := wall.NewCut(ea.name, ea.material, ea.side, ea.connections, ea.coords)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpElement{e: o}, nil
	})

	// -----------------------------------------------------------------------
	// (window "w1" :coords (coords ...) :price 120)
	// (door "d1" :coords (coords ...))
	// -----------------------------------------------------------------------
	env.AddFunction("window", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ea, err := parseElement("window", p, args, "window")
		if err != nil {
			return zygo.SexpNull, err
		}
		price, err := openingPrice("window", ea)
		if err != nil {
			return zygo.SexpNull, err
		}
		o, err := wall.NewWindow(ea.name, ea.material, ea.side, ea.connections, ea.coords, price)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpElement{e: o}, nil
	})

	env.AddFunction("door", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		ea, err := parseElement("door", p, args, "door")
		if err != nil {
			return zygo.SexpNull, err
		}
		price, err := openingPrice("door", ea)
		if err != nil {
			return zygo.SexpNull, err
		}
		o, err := wall.NewDoor(ea.name, ea.material, ea.side, ea.connections, ea.coords, price)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpElement{e: o}, nil
	})

	// -----------------------------------------------------------------------
	// (group "coatings" inner outer)
	// -----------------------------------------------------------------------
	env.AddFunction("group", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("group requires a name and at least one element")
		}
		gname, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("group: name: %w", err)
		}
		elems := make([]wall.Element, 0, len(args)-1)
		for i, a := range args[1:] {
			e, err := toElement(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("group %q: member %d: %w", gname, i+1, err)
			}
			elems = append(elems, e)
		}
		g, err := wall.NewGroup(gname, elems...)
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpGroup{g: g}, nil
	})

	// -----------------------------------------------------------------------
	// (connect a b :wall north :at (coords ...))
	// -----------------------------------------------------------------------
	env.AddFunction("connect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("connect requires exactly 2 parts, got %d", len(pa.positional))
		}
		a, err := toPart(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: first part: %w", err)
		}
		b, err := toPart(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("connect: second part: %w", err)
		}

		var c *wall.Connection
		if v, ok := pa.kw["at"]; ok {
			iface, err := toCoords(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("connect: at: %w", err)
			}
			c, err = wall.NewConnectionAt(a, b, iface)
			if err != nil {
				return zygo.SexpNull, err
			}
		} else {
			c, err = wall.NewConnection(a, b)
			if err != nil {
				return zygo.SexpNull, err
			}
		}

		if v, ok := pa.kw["wall"]; ok {
			w, err := toWall(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("connect: wall: %w", err)
			}
			if err := w.Connect(c); err != nil {
				return zygo.SexpNull, err
			}
		}
		return &sexpConnection{c: c}, nil
	})

	// -----------------------------------------------------------------------
	// (wall "north" core plaster w1)
	// -----------------------------------------------------------------------
	env.AddFunction("wall", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("wall requires a name argument")
		}
		wname, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wall: name: %w", err)
		}
		elems := make([]wall.Element, 0, len(args)-1)
		for i, a := range args[1:] {
			e, err := toElement(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("wall %q: layer %d: %w", wname, i+1, err)
			}
			elems = append(elems, e)
		}
		w, err := wall.NewWall(wname, elems...)
		if err != nil {
			return zygo.SexpNull, err
		}
		if err := p.AddWall(w); err != nil {
			return zygo.SexpNull, err
		}
		return &sexpWall{w: w}, nil
	})

	// -----------------------------------------------------------------------
	// (volume x) and (cost x) for layers, openings and walls.
	// -----------------------------------------------------------------------
	env.AddFunction("volume", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("volume requires exactly 1 argument, got %d", len(args))
		}
		switch v := args[0].(type) {
		case *sexpElement:
			return &zygo.SexpInt{Val: int64(v.e.Volume())}, nil
		case *sexpWall:
			return &zygo.SexpInt{Val: int64(v.w.Volume())}, nil
		case *sexpConnection:
			return &zygo.SexpInt{Val: int64(v.c.Volume())}, nil
		}
		return zygo.SexpNull, fmt.Errorf("volume: unsupported value %T", args[0])
	})

	env.AddFunction("cost", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("cost requires exactly 1 argument, got %d", len(args))
		}
		var (
			c   float64
			err error
		)
		switch v := args[0].(type) {
		case *sexpElement:
			c, err = v.e.Cost()
		case *sexpWall:
			c, err = v.w.Cost()
		default:
			return zygo.SexpNull, fmt.Errorf("cost: unsupported value %T", args[0])
		}
		if err != nil {
			return zygo.SexpNull, err
		}
		return &zygo.SexpFloat{Val: c}, nil
	})
}
