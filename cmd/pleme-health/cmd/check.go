package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pleme-io/pleme-health/internal/app"
)

// ErrNotReady is returned by the check command when readiness is not healthy.
var ErrNotReady = errors.New("service is not ready")

func newCheckCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run the readiness checks once",
		Long: `Run every configured check once and print the readiness response.

The command fails when the aggregate status is not healthy, so it can be
used directly as a container health command.`,
		Args: cobra.NoArgs,
		Example: `  pleme-health check --config health.yaml
  pleme-health check --config health.yaml --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			a, err := app.New(cmd.Context(), cfg, app.WithLogOutput(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			defer a.Close(cmd.Context())

			resp := a.Check(cmd.Context())

			out := cmd.OutOrStdout()
			switch opts.outputFormat {
			case "json":
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				if err := encoder.Encode(resp); err != nil {
					return err
				}
			default:
				fmt.Fprintf(out, "%s: %s\n", resp.Service, resp.Status)
				for _, name := range sortedNames(resp.Checks) {
					result := resp.Checks[name]
					if result.Message == "" {
						fmt.Fprintf(out, "  %s: %s\n", name, result.Status)
						continue
					}
					fmt.Fprintf(out, "  %s: %s (%s)\n", name, result.Status, result.Message)
				}
			}

			if !resp.IsHealthy() {
				return fmt.Errorf("%w: status %s", ErrNotReady, resp.Status)
			}
			return nil
		},
	}
}
