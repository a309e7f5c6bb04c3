package detect

import (
	"context"

	"github.com/raaihank/pii-sentinel/internal/logger"
	"go.uber.org/zap"
)

// RegexDetector recognizes PII via fixed, hand-authored regular expressions,
// independent of any learned model.
type RegexDetector struct {
	rules  []PatternRule
	logger *logger.Logger
}

// NewRegexDetector creates a regex detector backed by the default pattern bank
func NewRegexDetector(log *logger.Logger) *RegexDetector {
	return &RegexDetector{
		rules:  DefaultRules(),
		logger: log,
	}
}

// Name implements Detector
func (d *RegexDetector) Name() string {
	return "regex"
}

// Detect runs every pattern category unconditionally and collects all
// non-overlapping matches. This path never errors on well-formed input.
func (d *RegexDetector) Detect(ctx context.Context, text string) (Set, error) {
	findings := NewSet()

	for _, rule := range d.rules {
		matches := rule.Pattern.FindAllString(text, -1)
		for _, match := range matches {
			findings.Add(Finding{Category: rule.Name, Value: match})
		}

		if len(matches) > 0 {
			d.logger.Debug("Pattern matches found",
				zap.String("category", rule.Name),
				zap.Int("count", len(matches)),
			)
		}
	}

	return findings, nil
}

// Rules returns the pattern bank in bank order
func (d *RegexDetector) Rules() []PatternRule {
	return d.rules
}
