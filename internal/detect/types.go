package detect

import (
	"fmt"
	"sort"
)

// Finding represents a single detected PII occurrence
type Finding struct {
	Category string
	Value    string
}

// String returns the composed "<category>: <value>" form used for deduplication
func (f Finding) String() string {
	return fmt.Sprintf("%s: %s", f.Category, f.Value)
}

// Set is a deduplicating set of composed finding strings. Findings from
// different detectors are never merged into one Set; results stay
// partitioned by detector name.
type Set map[string]struct{}

// NewSet creates an empty finding set
func NewSet() Set {
	return make(Set)
}

// Add inserts a finding; duplicate insertions collapse to one entry
func (s Set) Add(f Finding) {
	s[f.String()] = struct{}{}
}

// Has reports whether the composed finding string is present
func (s Set) Has(finding string) bool {
	_, ok := s[finding]
	return ok
}

// Len returns the number of distinct findings
func (s Set) Len() int {
	return len(s)
}

// Strings returns all findings sorted for stable display
func (s Set) Strings() []string {
	out := make([]string, 0, len(s))
	for finding := range s {
		out = append(out, finding)
	}
	sort.Strings(out)
	return out
}
