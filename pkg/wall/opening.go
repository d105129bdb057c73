package wall

import "fmt"

// Opening is a void cut into a wall. Its volume is the negation of the
// equivalent layer's volume. Windows and doors carry a unit price and are
// billed per area of the opening, whatever the material's own unit is.
type Opening struct {
	Layer
	kind      Kind
	unitPrice float64
}

// NewCut returns a plain opening priced by the layer rule of its material.
// The volume rule sees the negated volume, so a volume-priced cut is a
// credit; area and piece prices are billed as they are.
func NewCut(name string, material Material, exterior Side, connections []*Connection, coords CoordSet) (*Opening, error) {
	l, err := NewLayer(name, material, exterior, connections, coords)
	if err != nil {
		return nil, err
	}
	return &Opening{Layer: *l, kind: KindCut}, nil
}

// NewWindow returns a window opening billed at price per unit of area.
func NewWindow(name string, material Material, exterior Side, connections []*Connection, coords CoordSet, price float64) (*Opening, error) {
	return newPricedOpening(KindWindow, name, material, exterior, connections, coords, price)
}

// NewDoor returns a door opening billed at price per unit of area.
func NewDoor(name string, material Material, exterior Side, connections []*Connection, coords CoordSet, price float64) (*Opening, error) {
	return newPricedOpening(KindDoor, name, material, exterior, connections, coords, price)
}

func newPricedOpening(kind Kind, name string, material Material, exterior Side, connections []*Connection, coords CoordSet, price float64) (*Opening, error) {
	if price <= 0 {
		return nil, newError(CodeInvalidValue, "%s %q: price must be > 0: %g", kind, name, price)
	}
	l, err := NewLayer(name, material, exterior, connections, coords)
	if err != nil {
		return nil, err
	}
	return &Opening{Layer: *l, kind: kind, unitPrice: price}, nil
}

// Kind returns KindCut, KindWindow or KindDoor.
func (o *Opening) Kind() Kind { return o.kind }

// UnitPrice is the price per unit of area for windows and doors; zero for
// plain cuts.
func (o *Opening) UnitPrice() float64 { return o.unitPrice }

// Volume is the negated volume of the equivalent layer.
func (o *Opening) Volume() int {
	return -o.Layer.Volume()
}

// Cost bills windows and doors by area. A plain cut follows its material's
// unit with its own (negative) volume.
func (o *Opening) Cost() (float64, error) {
	switch o.kind {
	case KindWindow, KindDoor:
		area, err := o.Area()
		if err != nil {
			return 0, err
		}
		return o.unitPrice * float64(area), nil
	case KindCut:
		area, err := o.Area()
		if err != nil {
			return 0, err
		}
		return o.material.price(o.Volume(), area)
	}
	return 0, newError(CodeInvalidConfiguration, "opening %q has unknown kind %s", o.name, o.kind)
}

func (o *Opening) String() string {
	return fmt.Sprintf("%s %q (%s, %s) %s", o.kind, o.name, o.material.Name, o.exterior, o.coords)
}
