package cli

import (
	"fmt"

	"github.com/raaihank/pii-sentinel/internal/config"
	"github.com/spf13/cobra"
)

// detectorDescriptions maps registry names to one-line summaries
var detectorDescriptions = map[string]string{
	"regex":  "Fixed regular-expression pattern bank (Email, Phone, SSN, Credit Card, Passport, Canadian SIN)",
	"ner":    "Statistical named-entity recognition (PERSON, GPE, ORG), requires the NER model",
	"hybrid": "Remote rule+model analyzer, requires a configured analyzer service",
}

// NewDetectorsCmd builds the detectors command. The listing comes from the
// same registry construction the scan command uses, so it reflects which
// backends the current configuration actually enables.
func NewDetectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detectors",
		Short: "List available detection methods",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			log, err := newLogger(cfg)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer log.Sync()

			coordinator, cleanup := buildCoordinator(cfg, log)
			defer cleanup()

			for _, name := range coordinator.Names() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", name, detectorDescriptions[name])
			}
			return nil
		},
	}
}
