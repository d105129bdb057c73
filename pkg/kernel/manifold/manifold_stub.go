//go:build !manifold

// Package manifold is a cgo geometry kernel backed by the Manifold library.
// Without the "manifold" build tag only this stub is compiled and New
// reports that the kernel is unavailable.
package manifold

import (
	"errors"

	"github.com/chazu/mortar/pkg/kernel"
)

// Available reports whether this binary was built with the Manifold kernel.
const Available = false

// ErrUnavailable is returned by New in builds without the manifold tag.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

// New returns ErrUnavailable.
func New() (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
