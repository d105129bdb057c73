package project

import (
	"fmt"

	"github.com/chazu/mortar/pkg/catalog"
	"github.com/chazu/mortar/pkg/wall"
)

// Project is the top-level structure produced by evaluating a wall
// definition. Walls keep their definition order.
type Project struct {
	Catalog   *catalog.Catalog
	walls     []*wall.Wall
	nameIndex map[string]int
	Version   uint64
}

// New creates an empty project priced from cat. A nil catalog means the
// built-in price list.
func New(cat *catalog.Catalog) *Project {
	if cat == nil {
		cat = catalog.Default()
	}
	return &Project{
		Catalog:   cat,
		nameIndex: make(map[string]int),
	}
}

// AddWall registers w. Wall names are unique within a project.
func (p *Project) AddWall(w *wall.Wall) error {
	if w == nil {
		return fmt.Errorf("project: nil wall")
	}
	if _, ok := p.nameIndex[w.Name()]; ok {
		return fmt.Errorf("project: wall %q already defined", w.Name())
	}
	p.nameIndex[w.Name()] = len(p.walls)
	p.walls = append(p.walls, w)
	return nil
}

// Lookup returns the wall with the given name, or nil.
func (p *Project) Lookup(name string) *wall.Wall {
	i, ok := p.nameIndex[name]
	if !ok {
		return nil
	}
	return p.walls[i]
}

// MustLookup returns the wall with the given name, or panics.
func (p *Project) MustLookup(name string) *wall.Wall {
	w := p.Lookup(name)
	if w == nil {
		panic(fmt.Sprintf("project: no wall named %q", name))
	}
	return w
}

// Walls returns the walls in definition order.
func (p *Project) Walls() []*wall.Wall {
	return append([]*wall.Wall(nil), p.walls...)
}

// WallCount returns the number of walls.
func (p *Project) WallCount() int {
	return len(p.walls)
}
