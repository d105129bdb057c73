package wall

import "fmt"

// ScaleState records whether a Dimension has had its one permitted
// unit-scaling applied.
type ScaleState int

const (
	Unscaled ScaleState = iota
	Scaled
)

func (s ScaleState) String() string {
	switch s {
	case Unscaled:
		return "unscaled"
	case Scaled:
		return "scaled"
	default:
		return fmt.Sprintf("ScaleState(%d)", int(s))
	}
}

// Dimension is a single positive measurement along one axis.
//
// A Dimension may be scaled exactly once. The transition Unscaled -> Scaled
// is the only state change; a second Scaled call fails so that a unit
// conversion factor cannot be applied twice to the same measurement.
type Dimension struct {
	axis     Axis
	quantity int
	state    ScaleState
}

// NewDimension returns an unscaled Dimension. quantity must be > 0.
func NewDimension(axis Axis, quantity int) (*Dimension, error) {
	if !axis.Valid() {
		return nil, newError(CodeInvalidConfiguration, "value must be a known axis: %s", axis)
	}
	if quantity <= 0 {
		return nil, newError(CodeInvalidValue, "dimension must be > 0: %d", quantity)
	}
	return &Dimension{axis: axis, quantity: quantity}, nil
}

// MustDimension is like NewDimension but panics on invalid input.
func MustDimension(axis Axis, quantity int) *Dimension {
	d, err := NewDimension(axis, quantity)
	if err != nil {
		panic(fmt.Sprintf("wall: %v", err))
	}
	return d
}

// Axis returns the axis the measurement is taken along.
func (d *Dimension) Axis() Axis { return d.axis }

// Quantity returns the raw measurement. It remains readable after scaling.
func (d *Dimension) Quantity() int { return d.quantity }

// State reports whether the dimension has been scaled.
func (d *Dimension) State() ScaleState { return d.state }

// Scaled returns quantity*factor and marks the dimension as scaled.
func (d *Dimension) Scaled(factor int) (int, error) {
	if factor <= 0 {
		return 0, newError(CodeInvalidValue, "scale must be > 0: %d", factor)
	}
	if d.state == Scaled {
		return 0, newError(CodeInvalidOperation, "%s dimension already scaled", d.axis)
	}
	d.state = Scaled
	return d.quantity * factor, nil
}

// Add returns a new unscaled Dimension holding the sum of d and other.
// Both must lie on the same axis.
func (d *Dimension) Add(other *Dimension) (*Dimension, error) {
	if other == nil {
		return nil, newError(CodeInvalidOperation, "cannot add nil dimension")
	}
	if d.axis != other.axis {
		return nil, newError(CodeInvalidOperation, "only the same dimensions can be combined: %s, %s", d.axis, other.axis)
	}
	return &Dimension{axis: d.axis, quantity: d.quantity + other.quantity}, nil
}

// Equal reports whether d and other measure the same quantity on the same
// axis. The scale state is not compared.
func (d *Dimension) Equal(other *Dimension) bool {
	if d == nil || other == nil {
		return d == other
	}
	return d.axis == other.axis && d.quantity == other.quantity
}

func (d *Dimension) String() string {
	return fmt.Sprintf("%s=%d", d.axis, d.quantity)
}

// ---------------------------------------------------------------------------
// Dimensions
// ---------------------------------------------------------------------------

// Dimensions is the canonical (length, width, height) triple of a box.
type Dimensions struct {
	Length *Dimension
	Width  *Dimension
	Height *Dimension
}

// Slice returns the triple in canonical axis order.
func (ds Dimensions) Slice() [3]*Dimension {
	return [3]*Dimension{ds.Length, ds.Width, ds.Height}
}

// Volume is the product of the three quantities.
func (ds Dimensions) Volume() int {
	return ds.Length.Quantity() * ds.Width.Quantity() * ds.Height.Quantity()
}

// Scaled returns a fresh triple, each quantity multiplied by factor. Every
// dimension of ds is consumed by the call.
func (ds Dimensions) Scaled(factor int) (Dimensions, error) {
	if factor <= 0 {
		return Dimensions{}, newError(CodeInvalidValue, "scale must be > 0: %d", factor)
	}
	var out [3]*Dimension
	for i, d := range ds.Slice() {
		q, err := d.Scaled(factor)
		if err != nil {
			return Dimensions{}, err
		}
		out[i] = &Dimension{axis: d.axis, quantity: q}
	}
	return Dimensions{Length: out[0], Width: out[1], Height: out[2]}, nil
}

// Add sums two triples axis by axis.
func (ds Dimensions) Add(other Dimensions) (Dimensions, error) {
	var out [3]*Dimension
	a, b := ds.Slice(), other.Slice()
	for i := range a {
		sum, err := a[i].Add(b[i])
		if err != nil {
			return Dimensions{}, err
		}
		out[i] = sum
	}
	return Dimensions{Length: out[0], Width: out[1], Height: out[2]}, nil
}

func (ds Dimensions) String() string {
	return fmt.Sprintf("%d x %d x %d", ds.Length.Quantity(), ds.Width.Quantity(), ds.Height.Quantity())
}
