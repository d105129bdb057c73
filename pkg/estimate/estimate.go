// Package estimate produces itemized cost estimates for walls.
//
// Each element of a wall becomes one Line. Solid layers are billed by
// their material unit (volume, front area or piece). Windows and doors are
// billed per square metre of face area at their own unit price. Cuts carry
// negative quantities and cost, so the line totals add up to Wall.Cost.
package estimate

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/wall"
)

// Options controls estimation.
type Options struct {
	// Scale, when positive, adds scaled dimensions to every line. Scaling
	// never changes quantities or costs.
	Scale int
	// Workers bounds concurrent wall estimation in Project. Zero means
	// GOMAXPROCS.
	Workers int
}

// Line is one billed element.
type Line struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Material  string  `json:"material"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	Cost      float64 `json:"cost"`
	Volume    int     `json:"volume"`
	Length    int     `json:"length"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Scaled    []int   `json:"scaled,omitempty"` // l, w, h after Options.Scale
}

// Estimate is the itemized cost of one wall.
type Estimate struct {
	ID               string    `json:"id"`
	Wall             string    `json:"wall"`
	CreatedAt        time.Time `json:"createdAt"`
	Lines            []Line    `json:"lines"`
	Volume           int       `json:"volume"`
	ConnectionVolume int       `json:"connectionVolume"`
	Length           int       `json:"length"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	Coords           [6]int    `json:"coords"`
	Total            float64   `json:"total"`
}

// Summary is the estimate of a whole project.
type Summary struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"createdAt"`
	Walls     []*Estimate `json:"walls"`
	Total     float64     `json:"total"`
}

// Wall estimates a single wall.
func Wall(w *wall.Wall, opts Options) (*Estimate, error) {
	if w == nil {
		return nil, fmt.Errorf("estimate: nil wall")
	}
	if w.Len() == 0 {
		return nil, fmt.Errorf("estimate: wall %q has no layers", w.Name())
	}

	est := &Estimate{
		ID:        uuid.NewString(),
		Wall:      w.Name(),
		CreatedAt: time.Now().UTC(),
		Volume:    w.Volume(),
		Coords:    w.Coords().Values(),
	}

	ds, err := w.Dimensions()
	if err != nil {
		return nil, fmt.Errorf("estimate: wall %q: %w", w.Name(), err)
	}
	est.Length = ds.Length.Quantity()
	est.Width = ds.Width.Quantity()
	est.Height = ds.Height.Quantity()

	for _, c := range w.Connections() {
		est.ConnectionVolume += c.Volume()
	}

	for _, e := range w.Layers() {
		line, err := lineFor(e, opts)
		if err != nil {
			return nil, fmt.Errorf("estimate: wall %q: %w", w.Name(), err)
		}
		est.Lines = append(est.Lines, line)
		est.Total += line.Cost
	}
	return est, nil
}

func lineFor(e wall.Element, opts Options) (Line, error) {
	m := e.Material()
	ds := e.Dimensions()
	line := Line{
		Name:      e.Name(),
		Kind:      e.Kind().String(),
		Material:  m.Name,
		Unit:      m.Unit.String(),
		UnitPrice: m.Price,
		Volume:    e.Volume(),
		Length:    ds.Length.Quantity(),
		Width:     ds.Width.Quantity(),
		Height:    ds.Height.Quantity(),
	}

	cost, err := e.Cost()
	if err != nil {
		return Line{}, fmt.Errorf("%s %q: %w", e.Kind(), e.Name(), err)
	}
	line.Cost = cost

	area, err := e.Area()
	if err != nil {
		return Line{}, fmt.Errorf("%s %q: %w", e.Kind(), e.Name(), err)
	}

	switch o, ok := e.(*wall.Opening); {
	case ok && o.Kind() != wall.KindCut:
		line.Unit = wall.PerArea.String()
		line.UnitPrice = o.UnitPrice()
		line.Quantity = float64(area)
	default:
		line.Quantity = billed(m.Unit, e.Volume(), area)
	}

	if opts.Scale > 0 {
		scaled, err := e.Scaled(opts.Scale)
		if err != nil {
			return Line{}, fmt.Errorf("%s %q: %w", e.Kind(), e.Name(), err)
		}
		line.Scaled = []int{scaled.Length.Quantity(), scaled.Width.Quantity(), scaled.Height.Quantity()}
	}
	return line, nil
}

func billed(unit wall.Quantity, volume, area int) float64 {
	switch unit {
	case wall.PerVolume:
		return float64(volume)
	case wall.PerArea:
		return float64(area)
	}
	return 1
}

// Project estimates every wall of p concurrently. Results keep the wall
// definition order; the first failing wall cancels the rest.
func Project(ctx context.Context, p *project.Project, opts Options) (*Summary, error) {
	walls := p.Walls()
	results := make([]*Estimate, len(walls))

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, w := range walls {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			est, err := Wall(w, opts)
			if err != nil {
				return err
			}
			results[i] = est
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Summary{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Walls:     results,
	}
	for _, est := range results {
		s.Total += est.Total
	}
	return s, nil
}
