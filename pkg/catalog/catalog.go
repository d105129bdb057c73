// Package catalog holds named material price lists.
//
// A catalog is read from TOML or YAML, chosen by file extension:
//
//	[[material]]
//	name  = "concrete"
//	price = 10
//	unit  = "m3"
//
// or
//
//	material:
//	  - name: concrete
//	    price: 10
//	    unit: m3
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/chazu/mortar/pkg/wall"
)

// ErrUnknownMaterial is returned by Lookup for names not in the catalog.
var ErrUnknownMaterial = errors.New("unknown material")

// Format selects the file encoding of a catalog.
type Format int

const (
	FormatTOML Format = iota + 1
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("catalog: unsupported file extension %q (want .toml, .yaml or .yml)", filepath.Ext(path))
}

// Catalog is an ordered set of materials addressed by name.
type Catalog struct {
	order []string
	byKey map[string]wall.Material
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{byKey: make(map[string]wall.Material)}
}

// Default returns the built-in price list.
func Default() *Catalog {
	c := New()
	for _, m := range []wall.Material{
		{Name: "concrete", Price: 10, Unit: wall.PerVolume},
		{Name: "brick", Price: 11, Unit: wall.PerVolume},
		{Name: "faced brick", Price: 15, Unit: wall.PerVolume},
		{Name: "window", Price: 100, Unit: wall.PerArea},
		{Name: "door", Price: 60, Unit: wall.PerPiece},
	} {
		// The built-in list is valid by construction.
		if err := c.Add(m); err != nil {
			panic(err)
		}
	}
	return c
}

func key(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

// Add validates m and inserts it. A later material with the same name
// replaces the earlier one but keeps its position.
func (c *Catalog) Add(m wall.Material) error {
	m, err := wall.NewMaterial(m.Name, m.Price, m.Unit)
	if err != nil {
		return fmt.Errorf("catalog: %w", err)
	}
	k := key(m.Name)
	if _, ok := c.byKey[k]; !ok {
		c.order = append(c.order, k)
	}
	c.byKey[k] = m
	return nil
}

// Lookup finds a material by case-insensitive name.
func (c *Catalog) Lookup(name string) (wall.Material, error) {
	m, ok := c.byKey[key(name)]
	if !ok {
		return wall.Material{}, fmt.Errorf("catalog: %w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// Materials returns all materials in insertion order.
func (c *Catalog) Materials() []wall.Material {
	out := make([]wall.Material, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, c.byKey[k])
	}
	return out
}

// Names returns the material names sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.order))
	for _, k := range c.order {
		names = append(names, c.byKey[k].Name)
	}
	sort.Strings(names)
	return names
}

func (c *Catalog) Len() int { return len(c.order) }

// Merge adds every material of o, overriding same-named entries.
func (c *Catalog) Merge(o *Catalog) {
	for _, m := range o.Materials() {
		_ = c.Add(m) // already validated by o
	}
}

// ---------------------------------------------------------------------------
// Encoding
// ---------------------------------------------------------------------------

// entry is the on-disk form of a material. The unit is kept as a string
// so that both decoders share wall.ParseQuantity.
type entry struct {
	Name  string  `toml:"name" yaml:"name"`
	Price float64 `toml:"price" yaml:"price"`
	Unit  string  `toml:"unit" yaml:"unit"`
}

type file struct {
	Materials []entry `toml:"material" yaml:"material"`
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	c, err := Decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses catalog data in the given format.
func Decode(data []byte, f Format) (*Catalog, error) {
	var raw file
	switch f {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("catalog: toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("catalog: yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("catalog: unknown format %s", f)
	}

	c := New()
	for i, e := range raw.Materials {
		unit, err := wall.ParseQuantity(e.Unit)
		if err != nil {
			return nil, fmt.Errorf("catalog: material %d (%q): %w", i, e.Name, err)
		}
		if err := c.Add(wall.Material{Name: e.Name, Price: e.Price, Unit: unit}); err != nil {
			return nil, fmt.Errorf("material %d: %w", i, err)
		}
	}
	return c, nil
}

// Encode writes the catalog in the given format.
func (c *Catalog) Encode(w io.Writer, f Format) error {
	raw := file{Materials: make([]entry, 0, c.Len())}
	for _, m := range c.Materials() {
		raw.Materials = append(raw.Materials, entry{Name: m.Name, Price: m.Price, Unit: m.Unit.String()})
	}

	switch f {
	case FormatTOML:
		return toml.NewEncoder(w).Encode(raw)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(raw); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		_, err := w.Write(buf.Bytes())
		return err
	}
	return fmt.Errorf("catalog: unknown format %s", f)
}
