package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/mortar/pkg/sheet"
)

func (c *CLI) exportCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the walls of a source file as an xlsx layout",
		Long: `Export writes every element as one row of an xlsx layout sheet with the
columns ` + fmt.Sprint(sheet.Columns) + `.
The sheet can be edited and estimated directly. Connections are not part of
the layout and are dropped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return fmt.Errorf("--out is required")
			}
			p, err := c.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			f, err := c.createOutput(output)
			if err != nil {
				return fmt.Errorf("create layout: %w", err)
			}
			if err := sheet.WriteProject(f, p); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printFile(c.out, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "out", "o", "", "output xlsx file")
	return cmd
}
