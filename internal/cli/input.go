package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/mortar/internal/service"
	"github.com/chazu/mortar/pkg/project"
	"github.com/chazu/mortar/pkg/sheet"
)

// errRejected is returned when the input has blocking errors. The errors
// themselves have already been logged.
var errRejected = errors.New("input rejected")

// load reads a wall source file, or an xlsx layout when the extension is
// .xlsx, and returns the validated project.
func (c *CLI) load(ctx context.Context, path string) (*project.Project, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var res service.Result
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		p, err := sheet.ReadFile(path, c.svc.Catalog())
		if err != nil {
			return nil, fmt.Errorf("read layout %s: %w", path, err)
		}
		res = c.svc.Validate(p)
	default:
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read source: %w", err)
		}
		res = c.svc.Evaluate(ctx, string(src))
	}

	if !diagnose(ctx, path, res) {
		return nil, errRejected
	}
	p := res.Project()
	logger.Debug("loaded", "path", path, "walls", p.WallCount())
	prog.done(fmt.Sprintf("Loaded %d walls from %s", p.WallCount(), filepath.Base(path)))
	return p, nil
}

// diagnose logs the diagnostics of res and reports whether it succeeded.
func diagnose(ctx context.Context, path string, res service.Result) bool {
	logger := loggerFromContext(ctx)
	for _, w := range res.Warnings {
		logger.Warn(w.Message, "file", path, "wall", w.Wall)
	}
	for _, e := range res.Errors {
		if e.Line > 0 {
			logger.Error(e.Message, "file", path, "line", e.Line)
			continue
		}
		logger.Error(e.Message, "file", path)
	}
	return res.OK()
}

// createOutput opens path for writing, or returns the command output when
// path is empty or "-".
func (c *CLI) createOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{c.out}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// check logs only the errors of res. Warnings were already reported by load.
func check(ctx context.Context, path string, res service.Result) bool {
	res.Warnings = nil
	return diagnose(ctx, path, res)
}
