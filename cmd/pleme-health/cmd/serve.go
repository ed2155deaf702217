package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pleme-io/pleme-health/internal/app"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the liveness and readiness endpoints",
		Long: `Serve GET /health and GET /ready on the configured address. When the
prometheus metrics exporter is selected, GET /metrics is served as well.

The server stops gracefully on SIGINT or SIGTERM, waiting at most
server.shutdown_timeout for in-flight requests.`,
		Args: cobra.NoArgs,
		Example: `  pleme-health serve --config health.yaml
  pleme-health serve --config health.yaml --addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := app.New(ctx, cfg, app.WithLogOutput(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			serveErr := a.ListenAndServe(ctx)

			closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			if err := a.Close(closeCtx); err != nil && serveErr == nil {
				return fmt.Errorf("close: %w", err)
			}
			return serveErr
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")

	return cmd
}
