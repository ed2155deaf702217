package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newValidateCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file",
		Long: `Parse and validate the config file without resolving secrets or
contacting any dependency.`,
		Args:    cobra.NoArgs,
		Example: `  pleme-health validate --config health.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			kinds := cfg.CheckKinds()
			fmt.Fprintf(cmd.OutOrStdout(), "config is valid: service %s, %d checks\n", cfg.Service.Name, len(kinds))
			for _, name := range sortedNames(kinds) {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s)\n", name, kinds[name])
			}
			return nil
		},
	}
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
