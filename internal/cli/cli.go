// Package cli implements the mortar command-line interface.
//
// # Commands
//
//   - estimate: itemized cost of every wall in a source file or xlsx layout
//   - materials: print or dump the material catalog
//   - mesh: tessellate walls into JSON triangle meshes
//   - export: write the walls of a source file as an xlsx layout
//   - chart: render cost shares as an HTML chart page
//   - serve: run the HTTP API
//
// All commands accept --catalog to merge a TOML or YAML price list over the
// built-in one, and --verbose (-v) for debug logging. The logger travels
// through the command context.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/chazu/mortar/internal/service"
	"github.com/chazu/mortar/pkg/catalog"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version. main
// passes values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger

	out         io.Writer
	verbose     bool
	catalogPath string
	svc         *service.Service
}

// New creates a CLI writing command output to out and logs to errOut.
func New(out, errOut io.Writer) *CLI {
	return &CLI{
		Logger: newLogger(errOut, log.InfoLevel),
		out:    out,
	}
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "mortar",
		Short: "Mortar computes volumes and costs of layered walls",
		Long: `Mortar composes walls from layers of priced materials, subtracts windows,
doors and cuts, and reports volumes, dimensions and itemized costs.

Walls are described in a small Lisp (see examples/house.mortar) or in an
xlsx layout sheet.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}
	root.SetOut(c.out)
	root.SetVersionTemplate(fmt.Sprintf("mortar %s\ncommit: %s\nbuilt: %s\n", version, commit, date))

	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.catalogPath, "catalog", "", "TOML or YAML price list merged over the built-in catalog")

	root.AddCommand(c.estimateCommand())
	root.AddCommand(c.materialsCommand())
	root.AddCommand(c.meshCommand())
	root.AddCommand(c.exportCommand())
	root.AddCommand(c.chartCommand())
	root.AddCommand(c.serveCommand())
	return root
}

// setup configures logging and loads the catalog before any command runs.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	level := log.InfoLevel
	if c.verbose {
		level = log.DebugLevel
	}
	c.Logger.SetLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))

	cat := catalog.Default()
	if c.catalogPath != "" {
		loaded, err := catalog.Load(c.catalogPath)
		if err != nil {
			return fmt.Errorf("load catalog: %w", err)
		}
		cat.Merge(loaded)
		c.Logger.Debug("catalog loaded", "path", c.catalogPath, "materials", loaded.Len())
	}
	c.svc = service.New(service.WithCatalog(cat))
	return nil
}

// Execute builds a CLI on the given writers and runs it with args.
func Execute(ctx context.Context, out, errOut io.Writer, args []string) error {
	root := New(out, errOut).RootCommand()
	root.SetErr(errOut)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}
