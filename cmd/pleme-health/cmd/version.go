package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Version information (set at build time via ldflags)
var (
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// VersionInfo holds version information for JSON output.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

func newVersionCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Example: `  pleme-health version
  pleme-health version --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := VersionInfo{
				Version:   Version,
				BuildDate: BuildDate,
				GitCommit: GitCommit,
			}

			switch opts.outputFormat {
			case "json":
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(info)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "pleme-health %s\n", Version)
				fmt.Fprintf(cmd.OutOrStdout(), "Build Date: %s\n", BuildDate)
				fmt.Fprintf(cmd.OutOrStdout(), "Git Commit: %s\n", GitCommit)
				return nil
			}
		},
	}
}
