package wall

import (
	"fmt"
	"strings"
)

// Kind distinguishes solid layers from the opening variants.
type Kind int

const (
	KindLayer  Kind = iota // solid slab of material
	KindCut                // generic void (material removed)
	KindWindow             // window opening
	KindDoor               // door opening
)

func (k Kind) String() string {
	switch k {
	case KindLayer:
		return "layer"
	case KindCut:
		return "cut"
	case KindWindow:
		return "window"
	case KindDoor:
		return "door"
	default:
		return "unknown"
	}
}

// IsOpening reports whether k removes material from a wall.
func (k Kind) IsOpening() bool {
	return k == KindCut || k == KindWindow || k == KindDoor
}

// Element is the capability set shared by layers and openings. A Wall
// operates on Elements without caring which variant it holds.
type Element interface {
	Name() string
	Kind() Kind
	Material() Material
	Exterior() Side
	Coords() CoordSet
	Connections() []*Connection

	// Dimensions returns fresh Dimension values on every call.
	Dimensions() Dimensions
	Area() (int, error)
	Volume() int
	Scaled(scale int) (Dimensions, error)
	Cost() (float64, error)
}

// Compile-time interface checks.
var (
	_ Element = (*Layer)(nil)
	_ Element = (*Opening)(nil)
)

// Layer is a slab of one material occupying a box, exposed on one side of
// the wall. Dimensions, area and volume are derived from the box and never
// stored.
type Layer struct {
	name        string
	material    Material
	exterior    Side
	connections []*Connection
	coords      CoordSet
}

// NewLayer validates and returns a Layer. The box must have a positive
// extent on every axis.
func NewLayer(name string, material Material, exterior Side, connections []*Connection, coords CoordSet) (*Layer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, newError(CodeInvalidValue, "layer name must not be empty")
	}
	if !exterior.Valid() {
		return nil, newError(CodeInvalidConfiguration, "layer %q: exterior must be a known side: %s", name, exterior)
	}
	if !material.Unit.Valid() {
		return nil, newError(CodeInvalidConfiguration, "layer %q: wrong price quantity of material %q: %s", name, material.Name, material.Unit)
	}
	if coords.Degenerate() {
		return nil, newError(CodeInvalidValue, "layer %q: every extent must be > 0: %s", name, coords)
	}
	for _, c := range connections {
		if c == nil {
			return nil, newError(CodeInvalidValue, "layer %q: nil connection", name)
		}
	}
	return &Layer{
		name:        name,
		material:    material,
		exterior:    exterior,
		connections: append([]*Connection(nil), connections...),
		coords:      coords,
	}, nil
}

// MustLayer is like NewLayer but panics on invalid input.
func MustLayer(name string, material Material, exterior Side, coords CoordSet) *Layer {
	l, err := NewLayer(name, material, exterior, nil, coords)
	if err != nil {
		panic(fmt.Sprintf("wall: %v", err))
	}
	return l
}

func (l *Layer) Name() string       { return l.name }
func (l *Layer) Kind() Kind         { return KindLayer }
func (l *Layer) Material() Material { return l.material }
func (l *Layer) Exterior() Side     { return l.exterior }
func (l *Layer) Coords() CoordSet   { return l.coords }

// Connections returns the connections the layer was built with.
func (l *Layer) Connections() []*Connection {
	return append([]*Connection(nil), l.connections...)
}

// Dimensions returns the canonical (length, width, height) triple where
// length >= width.
func (l *Layer) Dimensions() Dimensions {
	return l.coords.dimensions()
}

// Area returns the area of the exterior face.
func (l *Layer) Area() (int, error) {
	return l.coords.faceArea(l.exterior)
}

// Volume is length*width*height; never negative for a solid layer.
func (l *Layer) Volume() int {
	return l.Dimensions().Volume()
}

// Scaled returns the dimensions multiplied by scale. Each call derives fresh
// dimensions, so it may be called repeatedly.
func (l *Layer) Scaled(scale int) (Dimensions, error) {
	if scale <= 0 {
		return Dimensions{}, newError(CodeInvalidValue, "scale must be > 0: %d", scale)
	}
	return l.Dimensions().Scaled(scale)
}

// Cost prices the layer according to its material's unit.
func (l *Layer) Cost() (float64, error) {
	area, err := l.Area()
	if err != nil {
		return 0, err
	}
	return l.material.price(l.Volume(), area)
}

func (l *Layer) String() string {
	return fmt.Sprintf("%s %q (%s, %s) %s", l.Kind(), l.name, l.material.Name, l.exterior, l.coords)
}
