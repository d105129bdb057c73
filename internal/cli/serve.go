package cli

import (
	"github.com/spf13/cobra"

	"github.com/chazu/mortar/internal/server"
)

const defaultAddr = ":8080"

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP estimate API",
		Long: `Serve exposes the pipeline over HTTP:

  GET  /healthz    liveness probe
  GET  /materials  catalog
  POST /estimate   {"source": "..."} to an itemized estimate
  POST /mesh       {"source": "..."} to triangle meshes
  POST /chart      {"source": "..."} to an HTML chart page
  POST /import     multipart xlsx layout ("file") to an estimate

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return server.New(c.svc, loggerFromContext(ctx)).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	return cmd
}
