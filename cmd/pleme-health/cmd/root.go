// Package cmd provides the CLI commands for pleme-health.
package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pleme-io/pleme-health/internal/config"
)

// ErrNoConfig is returned by commands that need a configuration file when
// --config is not set.
var ErrNoConfig = errors.New("no config file given, set --config")

// globalOptions holds the persistent flags shared by all subcommands.
type globalOptions struct {
	configFile   string
	outputFormat string
}

func (o *globalOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&o.configFile, "config", "c", "", "path to the YAML config file")
	fs.StringVarP(&o.outputFormat, "output", "o", "plain", "output format (json|plain)")
}

func (o *globalOptions) loadConfig() (*config.Config, error) {
	if o.configFile == "" {
		return nil, ErrNoConfig
	}
	return config.Load(o.configFile)
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	return NewRootCmd().ExecuteContext(context.Background())
}

// NewRootCmd creates the command tree. Each call returns fresh flags, so tests
// can run commands independently.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "pleme-health",
		Short: "Liveness and readiness endpoints for a service's dependencies",
		Long: `pleme-health serves /health and /ready for a service, checking the
databases, caches and HTTP endpoints declared in its config file.

/health answers as long as the process is up. /ready runs every configured
check and answers 503 when any of them is unhealthy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	opts.addFlags(cmd.PersistentFlags())

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newCheckCmd(opts))
	cmd.AddCommand(newValidateCmd(opts))
	cmd.AddCommand(newVersionCmd(opts))

	return cmd
}
