package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCmd builds the version command
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pii-sentinel %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
