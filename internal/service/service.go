// Package service runs wall source through the evaluation, estimation and
// tessellation pipeline and returns JSON-friendly results. It backs both the
// CLI and the HTTP server.
package service

import (
	"context"

	"github.com/chazu/mortar/pkg/catalog"
	"github.com/chazu/mortar/pkg/engine"
	"github.com/chazu/mortar/pkg/estimate"
	"github.com/chazu/mortar/pkg/kernel"
	"github.com/chazu/mortar/pkg/kernel/sdfx"
	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/tessellate"
	"github.com/chazu/mortar/pkg/wall"
)

// Service holds the shared catalog and geometry kernel. It is safe for
// concurrent use: every call evaluates with its own engine.
type Service struct {
	catalog *catalog.Catalog
	kernel  kernel.Kernel
}

// Option configures a Service.
type Option func(*Service)

// WithCatalog replaces the default price list.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithKernel replaces the sdfx kernel.
func WithKernel(k kernel.Kernel) Option {
	return func(s *Service) {
		if k != nil {
			s.kernel = k
		}
	}
}

// New creates a Service with the default catalog and the sdfx kernel.
func New(opts ...Option) *Service {
	s := &Service{catalog: catalog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.kernel == nil {
		s.kernel = sdfx.New()
	}
	return s
}

// Catalog returns the base price list.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Diagnostic is a JSON-serializable evaluation error or warning.
type Diagnostic struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Wall    string `json:"wall,omitempty"`
	Message string `json:"message"`
}

// MeshData is the JSON-serializable mesh format.
type MeshData struct {
	Vertices []float32 `json:"vertices"`
	Normals  []float32 `json:"normals"`
	Indices  []uint32  `json:"indices"`
	Wall     string    `json:"wall"`
	Element  string    `json:"element"`
	Color    string    `json:"color"`
}

// Result is the full outcome of a pipeline run. Slices are never nil so that
// they encode as [] rather than null.
type Result struct {
	Estimate *estimate.Summary `json:"estimate,omitempty"`
	Meshes   []MeshData        `json:"meshes"`
	Errors   []Diagnostic      `json:"errors"`
	Warnings []Diagnostic      `json:"warnings"`

	project *project.Project
}

// OK reports whether the run produced no errors.
func (r Result) OK() bool { return len(r.Errors) == 0 }

// Project returns the evaluated project, or nil when evaluation failed.
func (r Result) Project() *project.Project { return r.project }

func newResult() Result {
	return Result{
		Meshes:   []MeshData{},
		Errors:   []Diagnostic{},
		Warnings: []Diagnostic{},
	}
}

func (r *Result) fail(msg string) {
	r.Errors = append(r.Errors, Diagnostic{Message: msg})
}

// Evaluate runs source through the engine and validation only.
func (s *Service) Evaluate(ctx context.Context, source string) Result {
	result := newResult()

	res := engine.NewEngine(engine.WithCatalog(s.catalog)).Run(ctx, source)
	for _, e := range res.Errors {
		result.Errors = append(result.Errors, Diagnostic{Line: e.Line, Col: e.Col, Message: e.Message})
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, Diagnostic{Line: w.Line, Col: w.Col, Wall: w.Wall, Message: w.Message})
	}
	result.project = res.Project
	return result
}

// Estimate evaluates source and estimates every wall.
func (s *Service) Estimate(ctx context.Context, source string, opts estimate.Options) Result {
	result := s.Evaluate(ctx, source)
	s.estimate(ctx, &result, opts)
	return result
}

// Mesh evaluates source and tessellates every wall.
func (s *Service) Mesh(ctx context.Context, source string, opts tessellate.Options) Result {
	result := s.Evaluate(ctx, source)
	s.mesh(&result, opts)
	return result
}

// Validate checks an already built project, such as one read from a
// spreadsheet. Findings are reported the same way as for source.
func (s *Service) Validate(p *project.Project) Result {
	result := newResult()
	v := project.ValidateAll(p)
	for _, ve := range v.Errors {
		result.Errors = append(result.Errors, Diagnostic{Wall: ve.Wall, Message: ve.Error()})
	}
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, Diagnostic{Wall: w.Wall, Message: w.String()})
	}
	if result.OK() {
		result.project = p
	}
	return result
}

// EstimateProject validates and estimates an already built project.
func (s *Service) EstimateProject(ctx context.Context, p *project.Project, opts estimate.Options) Result {
	result := s.Validate(p)
	s.estimate(ctx, &result, opts)
	return result
}

// MeshProject validates and tessellates an already built project.
func (s *Service) MeshProject(p *project.Project, opts tessellate.Options) Result {
	result := s.Validate(p)
	s.mesh(&result, opts)
	return result
}

func (s *Service) estimate(ctx context.Context, result *Result, opts estimate.Options) {
	if !result.OK() {
		return
	}
	sum, err := estimate.Project(ctx, result.project, opts)
	if err != nil {
		result.fail("estimate failed: " + err.Error())
		return
	}
	result.Estimate = sum
}

func (s *Service) mesh(result *Result, opts tessellate.Options) {
	if !result.OK() {
		return
	}
	meshes, err := tessellate.Tessellate(result.project, s.kernel, opts)
	if err != nil {
		result.fail("tessellation failed: " + err.Error())
		return
	}
	for _, m := range meshes {
		result.Meshes = append(result.Meshes, MeshData{
			Vertices: m.Vertices,
			Normals:  m.Normals,
			Indices:  m.Indices,
			Wall:     m.Wall,
			Element:  m.Element,
			Color:    m.Color,
		})
	}
}

// Materials lists the base catalog in insertion order.
func (s *Service) Materials() []wall.Material {
	return s.catalog.Materials()
}
