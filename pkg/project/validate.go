package project

import (
	"fmt"

	"github.com/chazu/mortar/pkg/wall"
)

// ValidationSeverity indicates whether a finding blocks estimation or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks estimation
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Wall     string             // which wall has the problem (empty if project-level)
	Element  string             // element name, if any
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	switch {
	case e.Wall == "":
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	case e.Element == "":
		return fmt.Sprintf("[%s] wall %s: %s", e.Severity, e.Wall, e.Message)
	}
	return fmt.Sprintf("[%s] wall %s, %s: %s", e.Severity, e.Wall, e.Element, e.Message)
}

// ValidationWarning describes a non-blocking advisory finding.
type ValidationWarning struct {
	Wall    string
	Element string
	Message string
}

func (w ValidationWarning) String() string {
	return ValidationError{Wall: w.Wall, Element: w.Element, Message: w.Message, Severity: SeverityWarning}.Error()
}

// ValidationResult bundles errors (blocking) and warnings (advisory).
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationWarning
}

// OK reports whether there are no blocking errors.
func (r ValidationResult) OK() bool { return len(r.Errors) == 0 }

// Validate runs the structural checks and returns blocking errors only.
// It never mutates the project.
func Validate(p *Project) []ValidationError {
	var errs []ValidationError
	for _, w := range p.walls {
		errs = append(errs, validateLayerNames(w)...)
	}
	return append(errs, validateOwnership(p)...)
}

// validateOwnership rejects an element that belongs to more than one wall;
// it would be billed once per wall.
func validateOwnership(p *Project) []ValidationError {
	var errs []ValidationError
	owner := make(map[wall.Element]string)
	for _, w := range p.walls {
		for _, l := range w.Layers() {
			first, ok := owner[l]
			switch {
			case !ok:
				owner[l] = w.Name()
			case first != w.Name():
				errs = append(errs, ValidationError{
					Wall:     w.Name(),
					Element:  l.Name(),
					Message:  fmt.Sprintf("element already belongs to wall %s", first),
					Severity: SeverityError,
				})
			}
		}
	}
	return errs
}

// ValidateAll runs structural and geometric checks.
func ValidateAll(p *Project) ValidationResult {
	result := ValidationResult{Errors: Validate(p)}
	for _, w := range p.walls {
		result.Warnings = append(result.Warnings, validateOpenings(w)...)
		result.Warnings = append(result.Warnings, validateFootprint(w)...)
		result.Warnings = append(result.Warnings, validateConnections(w)...)
	}
	return result
}

// validateLayerNames rejects duplicate element names within one wall, since
// RemoveLayer and lookups address elements by name.
func validateLayerNames(w *wall.Wall) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]bool)
	for _, l := range w.Layers() {
		if seen[l.Name()] {
			errs = append(errs, ValidationError{
				Wall:     w.Name(),
				Element:  l.Name(),
				Message:  "duplicate element name",
				Severity: SeverityError,
			})
			continue
		}
		seen[l.Name()] = true
	}
	return errs
}

// ---------------------------------------------------------------------------
// Geometric warnings
// ---------------------------------------------------------------------------

func solids(w *wall.Wall) []wall.Element {
	var out []wall.Element
	for _, l := range w.Layers() {
		if !l.Kind().IsOpening() {
			out = append(out, l)
		}
	}
	return out
}

// validateOpenings warns about openings that no solid layer fully contains.
func validateOpenings(w *wall.Wall) []ValidationWarning {
	var warnings []ValidationWarning
	layers := solids(w)
	for _, l := range w.Layers() {
		if !l.Kind().IsOpening() {
			continue
		}
		contained := false
		for _, s := range layers {
			if s.Coords().Contains(l.Coords()) {
				contained = true
				break
			}
		}
		if !contained {
			warnings = append(warnings, ValidationWarning{
				Wall:    w.Name(),
				Element: l.Name(),
				Message: fmt.Sprintf("%s %s is not inside any solid layer", l.Kind(), l.Coords()),
			})
		}
	}
	return warnings
}

// validateFootprint warns when solid layers differ in length or height,
// which makes the per-axis sum of Wall.Dimensions only a rough figure.
func validateFootprint(w *wall.Wall) []ValidationWarning {
	layers := solids(w)
	if len(layers) < 2 {
		return nil
	}
	first := layers[0].Dimensions()
	var warnings []ValidationWarning
	for _, l := range layers[1:] {
		d := l.Dimensions()
		if !d.Length.Equal(first.Length) || !d.Height.Equal(first.Height) {
			warnings = append(warnings, ValidationWarning{
				Wall:    w.Name(),
				Element: l.Name(),
				Message: fmt.Sprintf("footprint %s differs from %s (%s)", d, layers[0].Name(), first),
			})
		}
	}
	return warnings
}

// validateConnections warns about connections whose parts only touch.
func validateConnections(w *wall.Wall) []ValidationWarning {
	var warnings []ValidationWarning
	for _, c := range w.Connections() {
		if c.Volume() == 0 {
			warnings = append(warnings, ValidationWarning{
				Wall:    w.Name(),
				Message: fmt.Sprintf("connection %s has zero interface volume", c),
			})
		}
	}
	return warnings
}
