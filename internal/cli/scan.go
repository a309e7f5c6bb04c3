package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/raaihank/pii-sentinel/internal/analyzer"
	"github.com/raaihank/pii-sentinel/internal/cache"
	"github.com/raaihank/pii-sentinel/internal/config"
	"github.com/raaihank/pii-sentinel/internal/detect"
	"github.com/raaihank/pii-sentinel/internal/logger"
	"github.com/raaihank/pii-sentinel/internal/ner"
	"github.com/raaihank/pii-sentinel/internal/report"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	scanFile      string
	scanDetectors []string
	scanOutput    string
	scanWatch     bool
)

// NewScanCmd builds the scan command
func NewScanCmd() *cobra.Command {
	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a text corpus for PII",
		RunE:  runScan,
	}

	scanCmd.Flags().StringVarP(&scanFile, "file", "f", "", "Path to the corpus file")
	if err := scanCmd.MarkFlagRequired("file"); err != nil {
		panic(err)
	}
	scanCmd.Flags().StringSliceVarP(&scanDetectors, "detectors", "d", nil, "Detectors to run (regex, ner, hybrid, or 'all'); prompts interactively when omitted")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "text", "Output format: text or json")
	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false, "Rescan whenever the configuration file changes")

	return scanCmd
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if scanOutput != "text" && scanOutput != "json" {
		return fmt.Errorf("invalid output format: %s (must be text or json)", scanOutput)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	// Input availability is checked before any detector is constructed or
	// invoked; an unreadable corpus aborts the run outright.
	corpus, err := os.ReadFile(scanFile)
	if err != nil {
		return fmt.Errorf("failed to read corpus %s: %w", scanFile, err)
	}

	coordinator, cleanup := buildCoordinator(cfg, log)
	defer func() { cleanup() }()

	selected := scanDetectors
	if len(selected) == 0 {
		selected, err = report.SelectDetectors(cmd.InOrStdin(), cmd.ErrOrStderr(), coordinator.Names())
		if err != nil {
			return fmt.Errorf("detector selection: %w", err)
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	runOnce := func(coord *detect.Coordinator) error {
		results := coord.Run(ctx, string(corpus), selected)
		if scanOutput == "json" {
			return report.RenderJSON(cmd.OutOrStdout(), results)
		}
		report.Render(cmd.OutOrStdout(), coord.Names(), results)
		return nil
	}

	if err := runOnce(coordinator); err != nil {
		return err
	}

	if !scanWatch {
		return nil
	}

	// Watch mode: rebuild the registry from the updated configuration and
	// rescan the same corpus, so detector tuning can be iterated live.
	rescans := make(chan *config.Config, 1)
	if err := config.Watch(cfg, func(newCfg *config.Config) {
		select {
		case rescans <- newCfg:
		default:
		}
	}); err != nil {
		return fmt.Errorf("failed to watch configuration: %w", err)
	}

	log.Info("Watching configuration for changes, Ctrl+C to exit")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case newCfg := <-rescans:
			cleanup()
			coordinator, cleanup = buildCoordinator(newCfg, log)
			if err := runOnce(coordinator); err != nil {
				log.Error("Rescan failed", zap.Error(err))
			}
		case sig := <-shutdown:
			log.Info("Shutdown signal received", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// newLogger builds the process logger from configuration
func newLogger(cfg *config.Config) (*logger.Logger, error) {
	loggerConfig := logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	}

	if cfg.Logging.File.Enabled {
		loggerConfig.File = &logger.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
			MaxSize: cfg.Logging.File.MaxSize,
			MaxAge:  cfg.Logging.File.MaxAge,
		}
	}

	return logger.New(loggerConfig)
}

// buildCoordinator constructs the detector registry. A detector whose
// backend cannot be initialized is omitted with a startup-time warning; it
// is never registered half-constructed.
func buildCoordinator(cfg *config.Config, log *logger.Logger) (*detect.Coordinator, func()) {
	var closers []func()

	detectors := []detect.Detector{
		detect.NewRegexDetector(log.WithDetector("regex")),
	}

	tagger, err := ner.NewTagger(&cfg.NER, log.Logger)
	if err != nil {
		if errors.Is(err, ner.ErrModelUnavailable) {
			log.Warn("Statistical detector disabled: NER model unavailable", zap.Error(err))
		} else {
			log.Warn("Statistical detector disabled", zap.Error(err))
		}
	} else {
		closers = append(closers, func() { tagger.Close() })

		if cfg.Cache.Enabled {
			entityCache, cacheErr := cache.New(&cfg.Cache, log.Logger)
			if cacheErr != nil {
				log.Warn("Entity cache unavailable, tagging without cache", zap.Error(cacheErr))
			} else {
				closers = append(closers, func() { entityCache.Close() })
				tagger = ner.NewCachedTagger(tagger, entityCache, log.Logger)
			}
		}

		detectors = append(detectors, detect.NewNERDetector(tagger, log.WithDetector("ner")))
	}

	if cfg.Analyzer.Enabled {
		client := analyzer.New(&cfg.Analyzer, log.Logger)
		closers = append(closers, func() { client.Close() })
		detectors = append(detectors, detect.NewHybridDetector(client, log.WithDetector("hybrid")))
	} else {
		log.Info("Hybrid detector disabled by configuration")
	}

	cleanup := func() {
		for _, closeFn := range closers {
			closeFn()
		}
	}

	return detect.NewCoordinator(detectors, log.WithComponent("coordinator")), cleanup
}
