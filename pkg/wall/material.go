package wall

import "strings"

// Material is a named building material and its unit price. Materials are
// plain values and are typically shared by many layers.
type Material struct {
	Name  string   `json:"name" yaml:"name" toml:"name"`
	Price float64  `json:"price" yaml:"price" toml:"price"`
	Unit  Quantity `json:"unit" yaml:"unit" toml:"unit"`
}

// NewMaterial validates and returns a Material. The price must not be
// negative and the unit must be one of PerVolume, PerArea or PerPiece.
func NewMaterial(name string, price float64, unit Quantity) (Material, error) {
	if strings.TrimSpace(name) == "" {
		return Material{}, newError(CodeInvalidValue, "material name must not be empty")
	}
	if price < 0 {
		return Material{}, newError(CodeInvalidValue, "material %q: price must be >= 0: %g", name, price)
	}
	if !unit.Valid() {
		return Material{}, newError(CodeInvalidConfiguration, "material %q: wrong price quantity: %s", name, unit)
	}
	return Material{Name: name, Price: price, Unit: unit}, nil
}

// price dispatches on the pricing unit. volume and area are only consulted
// for the matching unit.
func (m Material) price(volume, area int) (float64, error) {
	switch m.Unit {
	case PerVolume:
		return float64(volume) * m.Price, nil
	case PerArea:
		return float64(area) * m.Price, nil
	case PerPiece:
		return m.Price, nil
	}
	return 0, newError(CodeInvalidConfiguration, "wrong price quantity of material %q: %s", m.Name, m.Unit)
}
