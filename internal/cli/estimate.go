package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/mortar/pkg/estimate"
	"github.com/chazu/mortar/pkg/sheet"
)

type estimateOpts struct {
	scale    int
	workers  int
	asJSON   bool
	workbook string
}

func (c *CLI) estimateCommand() *cobra.Command {
	var opts estimateOpts

	cmd := &cobra.Command{
		Use:   "estimate [file]",
		Short: "Print an itemized cost estimate of every wall",
		Long: `Estimate evaluates a wall source file (or reads an .xlsx layout) and prints
one table per wall with the billed quantity, unit price and cost of every
element, followed by the project total.

Solid layers are billed by their material unit. Windows and doors are billed
by face area at their own price. Cuts are credited.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runEstimate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.scale, "scale", 0, "also report dimensions multiplied by this factor")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "walls estimated concurrently (default GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the estimate as JSON")
	cmd.Flags().StringVarP(&opts.workbook, "out", "o", "", "also write an xlsx workbook")
	return cmd
}

func (c *CLI) runEstimate(ctx context.Context, path string, opts estimateOpts) error {
	if opts.scale < 0 {
		return fmt.Errorf("--scale must be > 0, got %d", opts.scale)
	}
	p, err := c.load(ctx, path)
	if err != nil {
		return err
	}

	prog := newProgress(loggerFromContext(ctx))
	res := c.svc.EstimateProject(ctx, p, estimate.Options{Scale: opts.scale, Workers: opts.workers})
	if !check(ctx, path, res) {
		return errRejected
	}
	prog.done(fmt.Sprintf("Estimated %d walls", len(res.Estimate.Walls)))

	if opts.asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res.Estimate); err != nil {
			return fmt.Errorf("encode estimate: %w", err)
		}
	} else {
		printSummary(c.out, res.Estimate)
	}

	if opts.workbook == "" {
		return nil
	}
	f, err := c.createOutput(opts.workbook)
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := sheet.WriteEstimate(f, res.Estimate); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close workbook: %w", err)
	}
	if !opts.asJSON {
		printFile(c.out, opts.workbook)
	}
	return nil
}
