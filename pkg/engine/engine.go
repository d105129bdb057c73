// Package engine evaluates wall definitions written in a small Lisp.
// It wraps zygomys in a sandboxed environment and produces a Project
// from user source code.
package engine

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/mortar/pkg/catalog"
	"github.com/chazu/mortar/pkg/project"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning produced during evaluation.
type EvalWarning struct {
	Line    int
	Col     int
	Message string
	Wall    string
}

// EvalResult bundles the full output of an evaluation and validation pass.
type EvalResult struct {
	Project  *project.Project
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for wall evaluation. Each call to
// Evaluate creates a fresh sandboxed environment for determinism.
//
// An Engine tracks a generation counter: when evaluations overlap, only the
// newest one returns a project. Callers serving independent requests
// should use one Engine per request.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	catalog    *catalog.Catalog
}

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog sets the price list that catalog lookups resolve against.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// NewEngine creates a new Engine instance using the built-in catalog
// unless WithCatalog is given.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{catalog: catalog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the engine's base price list.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// Evaluate takes Lisp source code and produces a new Project.
//
// Return semantics:
//   - On success: returns project + nil errors + nil error
//   - On parse/eval failure: returns nil project + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*project.Project, []EvalError, error) {
	return e.EvaluateContext(context.Background(), source)
}

// EvaluateContext is Evaluate with cancellation. A cancelled context is a
// fatal failure; the sandbox goroutine is abandoned and its result dropped.
func (e *Engine) EvaluateContext(ctx context.Context, source string) (*project.Project, []EvalError, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("evaluation cancelled: %w", err)
	}

	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		p, evalErrs, err := e.evaluate(source)
		ch <- evalResult{project: p, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ctx, ch, gen, &e.mu, &e.generation)
}

// Run evaluates source and validates the resulting project. Blocking
// validation findings are reported as errors and clear the project.
func (e *Engine) Run(ctx context.Context, source string) EvalResult {
	var result EvalResult

	p, evalErrs, err := e.EvaluateContext(ctx, source)
	if err != nil {
		result.Errors = append(result.Errors, EvalError{Message: err.Error()})
		return result
	}
	if len(evalErrs) > 0 {
		result.Errors = evalErrs
		return result
	}

	v := project.ValidateAll(p)
	for _, ve := range v.Errors {
		result.Errors = append(result.Errors, EvalError{Message: ve.Error()})
	}
	for _, w := range v.Warnings {
		result.Warnings = append(result.Warnings, EvalWarning{Message: w.String(), Wall: w.Wall})
	}
	if v.OK() {
		result.Project = p
	}
	return result
}

// newProject returns an empty project whose catalog is a private copy of
// the engine catalog, so that (material ...) definitions stay local.
func (e *Engine) newProject() *project.Project {
	cat := catalog.New()
	cat.Merge(e.catalog)
	return project.New(cat)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*project.Project, []EvalError, error) {
	p := e.newProject()

	// Empty source is a valid program that produces an empty project.
	if strings.TrimSpace(source) == "" {
		return p, nil, nil
	}

	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, p)

	err := env.LoadString(preprocessSource(source))
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	_, err = env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	return p, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// Try to extract line numbers from the error message.
	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
