package cli

import (
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

var configPath string

// NewRootCmd builds the piisentinel command tree
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "piisentinel",
		Short:         "Screen text corpora for personally identifiable information",
		Long:          "piisentinel screens free-form text for PII using independent detection strategies (regex patterns, statistical NER, and a hybrid rule+model analyzer) and reports per-detector findings.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")

	rootCmd.AddCommand(NewScanCmd())
	rootCmd.AddCommand(NewDetectorsCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the CLI
func Execute() error {
	return NewRootCmd().Execute()
}
