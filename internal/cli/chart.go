package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/mortar/pkg/estimate"
	"github.com/chazu/mortar/pkg/report"
)

func (c *CLI) chartCommand() *cobra.Command {
	var (
		output string
		opts   report.Options
	)

	cmd := &cobra.Command{
		Use:   "chart [file]",
		Short: "Render cost shares as an HTML chart page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := c.load(ctx, args[0])
			if err != nil {
				return err
			}
			res := c.svc.EstimateProject(ctx, p, estimate.Options{})
			if !check(ctx, args[0], res) {
				return errRejected
			}

			f, err := c.createOutput(output)
			if err != nil {
				return fmt.Errorf("create chart: %w", err)
			}
			if err := report.Render(f, res.Estimate, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			if output != "" && output != "-" {
				printFile(c.out, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "output HTML file (default stdout)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "page title")
	cmd.Flags().BoolVar(&opts.ByMaterial, "by-material", false, "group pie slices by material")
	return cmd
}
