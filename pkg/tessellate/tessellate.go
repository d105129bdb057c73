// Package tessellate turns walls into triangle meshes using a geometry
// kernel. One mesh is produced per solid layer, with every opening of the
// same wall that overlaps the layer subtracted from it.
package tessellate

import (
	"fmt"

	"github.com/chazu/mortar/pkg/kernel"
	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/wall"
)

// Palette assigns distinct colors to materials in order of appearance.
var Palette = []string{
	"#4A90D9", "#E67E22", "#2ECC71", "#9B59B6",
	"#E74C3C", "#1ABC9C", "#F39C12", "#3498DB",
}

// Options controls tessellation.
type Options struct {
	// Scale multiplies every coordinate. Zero means 1.
	Scale float64
	// Openings also emits a mesh for every window and door so that they
	// can be drawn filled. Cuts are never emitted.
	Openings bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return 1
	}
	return o.Scale
}

// Tessellate produces meshes for every wall of p in definition order. The
// tessellator is read-only and never mutates the project.
func Tessellate(p *project.Project, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	if p == nil {
		return nil, nil
	}
	colors := newColorMap()
	var meshes []*kernel.Mesh
	for _, w := range p.Walls() {
		collected, err := tessellateWall(w, k, opts, colors)
		if err != nil {
			return nil, fmt.Errorf("tessellate: wall %q: %w", w.Name(), err)
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// Wall produces the meshes of a single wall.
func Wall(w *wall.Wall, k kernel.Kernel, opts Options) ([]*kernel.Mesh, error) {
	meshes, err := tessellateWall(w, k, opts, newColorMap())
	if err != nil {
		return nil, fmt.Errorf("tessellate: wall %q: %w", w.Name(), err)
	}
	return meshes, nil
}

func tessellateWall(w *wall.Wall, k kernel.Kernel, opts Options, colors *colorMap) ([]*kernel.Mesh, error) {
	var solids, openings []wall.Element
	for _, e := range w.Layers() {
		if e.Kind().IsOpening() {
			openings = append(openings, e)
		} else {
			solids = append(solids, e)
		}
	}

	var meshes []*kernel.Mesh
	for _, l := range solids {
		solid := box(k, l.Coords(), opts.scale())
		for _, o := range openings {
			overlap, ok := l.Coords().Intersect(o.Coords())
			if !ok || overlap.Volume() == 0 {
				continue
			}
			solid = k.Difference(solid, box(k, o.Coords(), opts.scale()))
		}
		m, err := mesh(k, solid, w, l, colors)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}

	if !opts.Openings {
		return meshes, nil
	}
	for _, o := range openings {
		if o.Kind() == wall.KindCut {
			continue
		}
		m, err := mesh(k, box(k, o.Coords(), opts.scale()), w, o, colors)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, m)
	}
	return meshes, nil
}

func box(k kernel.Kernel, c wall.CoordSet, scale float64) kernel.Solid {
	lo, hi := c.Min(), c.Max()
	return kernel.BoxBetween(k,
		[3]float64{float64(lo.X) * scale, float64(lo.Y) * scale, float64(lo.Z) * scale},
		[3]float64{float64(hi.X) * scale, float64(hi.Y) * scale, float64(hi.Z) * scale},
	)
}

func mesh(k kernel.Kernel, s kernel.Solid, w *wall.Wall, e wall.Element, colors *colorMap) (*kernel.Mesh, error) {
	m, err := k.ToMesh(s)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed for %s %q: %w", e.Kind(), e.Name(), err)
	}
	m.Wall = w.Name()
	m.Element = e.Name()
	m.Color = colors.get(e.Material().Name)
	return m, nil
}

// colorMap hands out palette colors per material name.
type colorMap struct {
	byName map[string]string
}

func newColorMap() *colorMap {
	return &colorMap{byName: make(map[string]string)}
}

func (c *colorMap) get(name string) string {
	if col, ok := c.byName[name]; ok {
		return col
	}
	col := Palette[len(c.byName)%len(Palette)]
	c.byName[name] = col
	return col
}
