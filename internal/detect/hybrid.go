package detect

import (
	"context"

	"github.com/raaihank/pii-sentinel/internal/analyzer"
	"github.com/raaihank/pii-sentinel/internal/logger"
	"go.uber.org/zap"
)

// hybridEntities is the fixed entity set requested from the analyzer
var hybridEntities = []string{
	"PERSON",
	"PHONE_NUMBER",
	"EMAIL_ADDRESS",
	"CREDIT_CARD",
	"US_SSN",
	"US_PASSPORT",
	"CA_SIN",
}

const hybridLanguage = "en"

// HybridDetector detects PII by delegating to a remote rule+model analyzer.
// The analyzer returns rune offsets, not text, so this detector slices the
// original input to recover the exact matched substrings.
type HybridDetector struct {
	client *analyzer.Client
	logger *logger.Logger
}

// NewHybridDetector creates a detector over an analyzer client
func NewHybridDetector(client *analyzer.Client, log *logger.Logger) *HybridDetector {
	return &HybridDetector{
		client: client,
		logger: log,
	}
}

// Name implements Detector
func (d *HybridDetector) Name() string {
	return "hybrid"
}

// Detect implements Detector
func (d *HybridDetector) Detect(ctx context.Context, text string) (Set, error) {
	results, err := d.client.Analyze(ctx, text, hybridEntities, hybridLanguage)
	if err != nil {
		return nil, err
	}

	runes := []rune(text)
	findings := NewSet()
	for _, result := range results {
		if result.Start < 0 || result.End > len(runes) || result.Start > result.End {
			d.logger.Warn("Analyzer returned out-of-range offsets",
				zap.String("entity_type", result.EntityType),
				zap.Int("start", result.Start),
				zap.Int("end", result.End),
			)
			continue
		}
		findings.Add(Finding{
			Category: result.EntityType,
			Value:    string(runes[result.Start:result.End]),
		})
	}

	return findings, nil
}
