package detect

import (
	"context"
)

// Detector is the common capability shared by all detection strategies.
// Implementations hold no per-call state: running the same detector on the
// same text twice yields equal result sets.
type Detector interface {
	// Detect scans text and returns the deduplicated set of findings.
	Detect(ctx context.Context, text string) (Set, error)
	// Name returns the registry name of this detector.
	Name() string
}
