package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/mortar/internal/service"
	"github.com/chazu/mortar/pkg/kernel"
	"github.com/chazu/mortar/pkg/kernel/manifold"
	"github.com/chazu/mortar/pkg/kernel/sdfx"
	"github.com/chazu/mortar/pkg/tessellate"
)

type meshOpts struct {
	output   string
	scale    float64
	openings bool
	cells    int
	kernel   string
}

func (c *CLI) meshCommand() *cobra.Command {
	opts := meshOpts{cells: sdfx.DefaultMeshCells, kernel: "sdfx"}

	cmd := &cobra.Command{
		Use:   "mesh [file]",
		Short: "Tessellate walls into JSON triangle meshes",
		Long: `Mesh builds one triangle mesh per solid layer, with every overlapping window,
door and cut subtracted, and writes them as a JSON array. Each mesh carries
its wall, element and a display color per material.

The default sdfx kernel samples a signed distance field, so corners are
rounded to the --cells resolution. Binaries built with -tags=manifold can
pass --kernel manifold for exact booleans.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMesh(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "output file (default stdout)")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "multiply every coordinate")
	cmd.Flags().BoolVar(&opts.openings, "openings", false, "also emit window and door meshes")
	cmd.Flags().IntVar(&opts.cells, "cells", opts.cells, "marching cubes resolution along the longest axis (sdfx)")
	cmd.Flags().StringVar(&opts.kernel, "kernel", opts.kernel, "geometry kernel: sdfx or manifold")
	return cmd
}

func (c *CLI) runMesh(ctx context.Context, path string, opts meshOpts) error {
	k, err := newKernel(opts)
	if err != nil {
		return err
	}
	p, err := c.load(ctx, path)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	svc := service.New(
		service.WithCatalog(c.svc.Catalog()),
		service.WithKernel(k),
	)
	res := svc.MeshProject(p, tessellate.Options{Scale: opts.scale, Openings: opts.openings})
	if !check(ctx, path, res) {
		return errRejected
	}
	prog.done(fmt.Sprintf("Tessellated %d meshes", len(res.Meshes)))

	f, err := c.createOutput(opts.output)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := json.NewEncoder(f).Encode(res.Meshes); err != nil {
		f.Close()
		return fmt.Errorf("encode meshes: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if opts.output != "" && opts.output != "-" {
		printFile(c.out, opts.output)
	}
	return nil
}

func newKernel(opts meshOpts) (kernel.Kernel, error) {
	switch opts.kernel {
	case "sdfx":
		if opts.cells <= 0 {
			return nil, fmt.Errorf("--cells must be > 0, got %d", opts.cells)
		}
		return sdfx.New(sdfx.WithMeshCells(opts.cells)), nil
	case "manifold":
		return manifold.New()
	default:
		return nil, fmt.Errorf("unknown kernel %q (want sdfx or manifold)", opts.kernel)
	}
}
