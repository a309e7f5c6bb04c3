package detect

import (
	"context"

	"github.com/raaihank/pii-sentinel/internal/logger"
	"github.com/raaihank/pii-sentinel/internal/ner"
	"go.uber.org/zap"
)

// nerAllowedLabels is the fixed allow-list of PII-relevant entity labels
var nerAllowedLabels = map[string]bool{
	"PERSON": true,
	"GPE":    true,
	"ORG":    true,
}

// NERDetector detects PII by delegating to a statistical NER capability and
// filtering its annotations to PII-relevant labels.
type NERDetector struct {
	tagger ner.Tagger
	logger *logger.Logger
}

// NewNERDetector creates a detector over an already-constructed tagger.
// Tagger construction failures (ner.ErrModelUnavailable) are handled by the
// caller at registry-build time; a half-constructed detector never exists.
func NewNERDetector(tagger ner.Tagger, log *logger.Logger) *NERDetector {
	return &NERDetector{
		tagger: tagger,
		logger: log,
	}
}

// Name implements Detector
func (d *NERDetector) Name() string {
	return "ner"
}

// Detect implements Detector
func (d *NERDetector) Detect(ctx context.Context, text string) (Set, error) {
	entities, err := d.tagger.Tag(ctx, text)
	if err != nil {
		return nil, err
	}

	findings := NewSet()
	kept := 0
	for _, entity := range entities {
		if !nerAllowedLabels[entity.Label] {
			continue
		}
		findings.Add(Finding{Category: entity.Label, Value: entity.Text})
		kept++
	}

	d.logger.Debug("NER annotations filtered",
		zap.Int("total", len(entities)),
		zap.Int("kept", kept),
	)

	return findings, nil
}
