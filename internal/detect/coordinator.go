package detect

import (
	"context"
	"fmt"

	"github.com/raaihank/pii-sentinel/internal/logger"
	"go.uber.org/zap"
)

// SelectAll is the special selector that expands to every registered detector
const SelectAll = "all"

// Coordinator runs a caller-chosen subset of named detectors over one text
// and returns per-detector results. The registry is built once and never
// mutated afterward.
type Coordinator struct {
	registry map[string]Detector
	order    []string
	logger   *logger.Logger
}

// NewCoordinator builds the immutable detector registry, keyed by each
// detector's Name(). The slice order determines Names() order; a duplicate
// name keeps the first detector registered under it.
func NewCoordinator(detectors []Detector, log *logger.Logger) *Coordinator {
	registry := make(map[string]Detector, len(detectors))
	order := make([]string, 0, len(detectors))

	for _, detector := range detectors {
		name := detector.Name()
		if _, exists := registry[name]; exists {
			continue
		}
		registry[name] = detector
		order = append(order, name)
	}

	log.Info("Detection coordinator initialized",
		zap.Strings("detectors", order),
	)

	return &Coordinator{
		registry: registry,
		order:    order,
		logger:   log,
	}
}

// Names returns the registered detector names in registration order
func (c *Coordinator) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// Run invokes each selected, registered detector on text and returns a
// mapping from detector name to its finding set. Unknown names are silently
// ignored. A detector failure is recorded as an empty set under that name;
// it never prevents sibling detectors from running.
func (c *Coordinator) Run(ctx context.Context, text string, selected []string) map[string]Set {
	results := make(map[string]Set)

	for _, name := range c.expand(selected) {
		detector, ok := c.registry[name]
		if !ok {
			c.logger.Debug("Ignoring unregistered detector selection",
				zap.String("detector", name),
			)
			continue
		}
		if _, attempted := results[name]; attempted {
			continue
		}

		findings, err := c.invoke(ctx, detector, text)
		if err != nil {
			c.logger.Warn("Detector failed, recording empty result",
				zap.String("detector", name),
				zap.Error(err),
			)
			results[name] = NewSet()
			continue
		}

		results[name] = findings
		c.logger.Debug("Detector completed",
			zap.String("detector", name),
			zap.Int("findings", findings.Len()),
		)
	}

	return results
}

// invoke runs one detector. A panicking detector is treated like one that
// returned an error.
func (c *Coordinator) invoke(ctx context.Context, detector Detector, text string) (findings Set, err error) {
	defer func() {
		if r := recover(); r != nil {
			findings = nil
			err = fmt.Errorf("detector panicked: %v", r)
		}
	}()

	findings, err = detector.Detect(ctx, text)
	if err != nil {
		return nil, err
	}
	if findings == nil {
		findings = NewSet()
	}
	return findings, nil
}

// expand resolves the "all" selector against the registry
func (c *Coordinator) expand(selected []string) []string {
	for _, name := range selected {
		if name == SelectAll {
			return c.Names()
		}
	}
	return selected
}
