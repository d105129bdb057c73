package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chazu/mortar/pkg/catalog"
)

func (c *CLI) materialsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "materials",
		Short: "List the material catalog",
		Long: `List the effective material catalog: the built-in price list merged with
--catalog. With --format the catalog is written as TOML or YAML, which can be
edited and passed back with --catalog.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat := c.svc.Catalog()
			if format == "" {
				printMaterials(c.out, cat.Materials())
				return nil
			}
			f, err := parseFormat(format)
			if err != nil {
				return err
			}
			return cat.Encode(c.out, f)
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "dump as toml or yaml instead of a table")
	return cmd
}

func parseFormat(s string) (catalog.Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return catalog.FormatTOML, nil
	case "yaml", "yml":
		return catalog.FormatYAML, nil
	}
	return 0, fmt.Errorf("unknown format %q (want toml or yaml)", s)
}
