package wall

import (
	"fmt"
	"strings"
)

// Part is one end of a Connection: a single element or a group of them.
type Part interface {
	Coords() CoordSet
	members() []Element
}

// Group is a named set of elements treated as one side of a connection,
// for example all layers of an adjoining wall.
type Group struct {
	name     string
	elements []Element
	coords   CoordSet
}

// NewGroup returns a group over at least one element. Its box is the
// bounding box of the members.
func NewGroup(name string, elements ...Element) (*Group, error) {
	if len(elements) == 0 {
		return nil, newError(CodeInvalidOperation, "group %q must contain at least one element", name)
	}
	sets := make([]CoordSet, 0, len(elements))
	for i, e := range elements {
		if isNil(e) {
			return nil, newError(CodeInvalidOperation, "group %q: element %d is nil", name, i)
		}
		sets = append(sets, e.Coords())
	}
	box, _ := Bounding(sets...)
	return &Group{name: name, elements: append([]Element(nil), elements...), coords: box}, nil
}

func (g *Group) Name() string        { return g.name }
func (g *Group) Coords() CoordSet    { return g.coords }
func (g *Group) Elements() []Element { return append([]Element(nil), g.elements...) }
func (g *Group) members() []Element  { return g.elements }

// elementPart adapts a single Element to Part.
type elementPart struct{ Element }

func (p elementPart) members() []Element { return []Element{p.Element} }

// Single wraps an element as a connection endpoint.
func Single(e Element) Part {
	return elementPart{e}
}

// ConnectElements connects two single elements.
func ConnectElements(a, b Element) (*Connection, error) {
	if isNil(a) || isNil(b) {
		return nil, newError(CodeInvalidOperation, "connection needs two elements")
	}
	return NewConnection(Single(a), Single(b))
}

// Connection records that two parts share an interface. The interface
// volume is the amount a naive sum of layer volumes counts twice: the sum,
// over every pair of members from opposite ends, of their overlap. For
// groups this differs from the box of the interface, which also spans the
// gaps between members.
type Connection struct {
	a, b   Part
	iface  CoordSet
	pieces []CoordSet
}

// NewConnection derives the interface from the pairwise overlaps of the two
// parts' members. Parts with no touching members cannot be connected.
func NewConnection(a, b Part) (*Connection, error) {
	if err := checkParts(a, b); err != nil {
		return nil, err
	}
	return connect(a, b, nil)
}

// NewConnectionAt connects two parts over an explicitly given interface.
// The interface must lie inside both parts' boxes and meet at least one
// pair of members.
func NewConnectionAt(a, b Part, iface CoordSet) (*Connection, error) {
	if err := checkParts(a, b); err != nil {
		return nil, err
	}
	if !a.Coords().Contains(iface) || !b.Coords().Contains(iface) {
		return nil, newError(CodeInvalidOperation, "interface %s is not shared by both elements", iface)
	}
	return connect(a, b, &iface)
}

// connect collects the member overlaps, clipped to within when given.
func connect(a, b Part, within *CoordSet) (*Connection, error) {
	var pieces []CoordSet
	for _, ma := range a.members() {
		for _, mb := range b.members() {
			piece, ok := ma.Coords().Intersect(mb.Coords())
			if ok && within != nil {
				piece, ok = piece.Intersect(*within)
			}
			if ok {
				pieces = append(pieces, piece)
			}
		}
	}
	if len(pieces) == 0 {
		if within != nil {
			return nil, newError(CodeInvalidOperation, "interface %s is not shared by both elements", *within)
		}
		return nil, newError(CodeInvalidOperation, "elements do not touch: %s and %s", a.Coords(), b.Coords())
	}
	iface, _ := Bounding(pieces...)
	if within != nil {
		iface = *within
	}
	return &Connection{a: a, b: b, iface: iface, pieces: pieces}, nil
}

func checkParts(a, b Part) error {
	if a == nil || b == nil {
		return newError(CodeInvalidOperation, "connection needs two elements")
	}
	for _, p := range [2]Part{a, b} {
		for _, m := range p.members() {
			if isNil(m) {
				return newError(CodeInvalidOperation, "connection endpoint holds a nil element")
			}
		}
	}
	for _, ea := range a.members() {
		for _, eb := range b.members() {
			if ea == eb {
				return newError(CodeInvalidOperation, "element %q cannot be connected to itself", ea.Name())
			}
		}
	}
	return nil
}

// Parts returns both ends of the connection.
func (c *Connection) Parts() (Part, Part) { return c.a, c.b }

// Interface returns the box spanning the shared region. For groups it may
// include gaps that are not shared; use Pieces for the overlaps themselves.
func (c *Connection) Interface() CoordSet { return c.iface }

// Pieces returns the overlap of each touching pair of members.
func (c *Connection) Pieces() []CoordSet { return append([]CoordSet(nil), c.pieces...) }

// Volume is the total volume of the member overlaps.
func (c *Connection) Volume() int {
	v := 0
	for _, p := range c.pieces {
		v += p.Volume()
	}
	return v
}

// within reports whether every member of both ends is an element of w.
func (c *Connection) within(w *Wall) bool {
	for _, p := range [2]Part{c.a, c.b} {
		for _, m := range p.members() {
			if !w.contains(m) {
				return false
			}
		}
	}
	return true
}

// Involves reports whether e is a member of either end.
func (c *Connection) Involves(e Element) bool {
	for _, p := range [2]Part{c.a, c.b} {
		for _, m := range p.members() {
			if m == e {
				return true
			}
		}
	}
	return false
}

func (c *Connection) String() string {
	return fmt.Sprintf("connection %s <-> %s at %s", partName(c.a), partName(c.b), c.iface)
}

func partName(p Part) string {
	ms := p.members()
	names := make([]string, len(ms))
	for i, m := range ms {
		names[i] = m.Name()
	}
	return strings.Join(names, "+")
}
