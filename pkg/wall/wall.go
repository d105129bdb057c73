package wall

import (
	"fmt"
	"strings"
)

// Wall is a named, ordered composition of layers and openings. The wall owns
// its elements; only AddLayer and RemoveLayer change membership.
type Wall struct {
	name        string
	layers      []Element
	connections []*Connection
}

// NewWall returns a wall over at least one element.
func NewWall(name string, layers ...Element) (*Wall, error) {
	if strings.TrimSpace(name) == "" {
		return nil, newError(CodeInvalidValue, "wall name must not be empty")
	}
	if len(layers) == 0 {
		return nil, newError(CodeInvalidOperation, "at least one layer should be added to wall %q", name)
	}
	for i, l := range layers {
		if isNil(l) {
			return nil, newError(CodeInvalidOperation, "wall %q: wrong object passed at position %d: nil", name, i)
		}
	}
	return &Wall{name: name, layers: append([]Element(nil), layers...)}, nil
}

// Name returns the wall name.
func (w *Wall) Name() string { return w.name }

// Len returns the number of elements.
func (w *Wall) Len() int { return len(w.layers) }

// Layers returns the elements in order. The slice is a copy.
func (w *Wall) Layers() []Element {
	return append([]Element(nil), w.layers...)
}

// Layer returns the first element with the given name.
func (w *Wall) Layer(name string) (Element, bool) {
	for _, l := range w.layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

// AddLayer appends an element at the end of the wall.
func (w *Wall) AddLayer(layer Element) error {
	if isNil(layer) {
		return newError(CodeInvalidOperation, "layer object should be passed to wall %q", w.name)
	}
	w.layers = append(w.layers, layer)
	return nil
}

// RemoveLayer removes the first element with the given name. Connections
// registered on the wall that involve the removed element are dropped. The
// element itself is not modified.
func (w *Wall) RemoveLayer(name string) error {
	for i, l := range w.layers {
		if l.Name() != name {
			continue
		}
		w.layers = append(w.layers[:i:i], w.layers[i+1:]...)
		kept := w.connections[:0:0]
		for _, c := range w.connections {
			if !c.Involves(l) {
				kept = append(kept, c)
			}
		}
		w.connections = kept
		return nil
	}
	return newError(CodeNotFound, "%s not found in the layers of wall %q", name, w.name)
}

// Connect registers a connection between elements of this wall.
func (w *Wall) Connect(c *Connection) error {
	if c == nil {
		return newError(CodeInvalidOperation, "nil connection")
	}
	for _, p := range [2]Part{c.a, c.b} {
		for _, m := range p.members() {
			if !w.contains(m) {
				return newError(CodeInvalidOperation, "%q is not a layer of wall %q", m.Name(), w.name)
			}
		}
	}
	for _, existing := range w.connections {
		if existing == c {
			return nil
		}
	}
	w.connections = append(w.connections, c)
	return nil
}

// Connections returns every distinct connection known to the wall: those
// registered with Connect followed by those the elements were built with.
// A connection with an end outside the wall, for instance after
// RemoveLayer, is left out.
func (w *Wall) Connections() []*Connection {
	seen := make(map[*Connection]bool)
	var out []*Connection
	add := func(c *Connection) {
		if c != nil && !seen[c] && c.within(w) {
			seen[c] = true
			out = append(out, c)
		}
	}
	for _, c := range w.connections {
		add(c)
	}
	for _, l := range w.layers {
		for _, c := range l.Connections() {
			add(c)
		}
	}
	return out
}

// isNil also catches typed nil pointers stored in an Element.
func isNil(e Element) bool {
	switch v := e.(type) {
	case nil:
		return true
	case *Layer:
		return v == nil
	case *Opening:
		return v == nil
	}
	return false
}

func (w *Wall) contains(e Element) bool {
	for _, l := range w.layers {
		if l == e {
			return true
		}
	}
	return false
}

// Volume sums every element's volume (openings are negative) and subtracts
// each connection's interface volume once.
func (w *Wall) Volume() int {
	total := 0
	for _, l := range w.layers {
		total += l.Volume()
	}
	for _, c := range w.Connections() {
		total -= c.Volume()
	}
	return total
}

// Dimensions sums each axis across all elements.
//
// The sum is only physically meaningful when the elements share their
// footprint on the non-stacking axes; it is not a bounding envelope.
func (w *Wall) Dimensions() (Dimensions, error) {
	if len(w.layers) == 0 {
		return Dimensions{}, newError(CodeInvalidOperation, "wall %q has no layers", w.name)
	}
	total := w.layers[0].Dimensions()
	for _, l := range w.layers[1:] {
		var err error
		total, err = total.Add(l.Dimensions())
		if err != nil {
			return Dimensions{}, wrapError(CodeInvalidOperation, err, "wall %q: layer %q", w.name, l.Name())
		}
	}
	return total, nil
}

// Coords returns the smallest box containing every element.
func (w *Wall) Coords() CoordSet {
	sets := make([]CoordSet, len(w.layers))
	for i, l := range w.layers {
		sets[i] = l.Coords()
	}
	box, _ := Bounding(sets...)
	return box
}

// Cost totals the cost of every element.
func (w *Wall) Cost() (float64, error) {
	var total float64
	for _, l := range w.layers {
		c, err := l.Cost()
		if err != nil {
			return 0, wrapError(GetCode(err), err, "wall %q: layer %q", w.name, l.Name())
		}
		total += c
	}
	return total, nil
}

func (w *Wall) String() string {
	return fmt.Sprintf("wall %q (%d layers)", w.name, len(w.layers))
}
