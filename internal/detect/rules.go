package detect

import "regexp"

// PatternRule represents a single PII pattern category
type PatternRule struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultRules returns the built-in pattern bank. Order is significant:
// categories are tried in this order on every scan, and overlapping matches
// across categories are recorded independently, never resolved against each
// other.
//
// The Passport and Credit Card patterns are intentionally broad: any
// 6-9 character uppercase alphanumeric token or 13-16 digit run matches.
// Corpus screening favors recall here; narrowing them would silently change
// detection characteristics.
func DefaultRules() []PatternRule {
	return []PatternRule{
		{
			Name:    "Email",
			Pattern: regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		},
		{
			Name:    "Phone",
			Pattern: regexp.MustCompile(`\b(?:\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}\b`),
		},
		{
			Name:    "SSN",
			Pattern: regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		},
		{
			Name:    "Credit Card",
			Pattern: regexp.MustCompile(`\b(?:\d[ -]*?){13,16}\b`),
		},
		{
			Name:    "Passport",
			Pattern: regexp.MustCompile(`\b[A-Z0-9]{6,9}\b`),
		},
		{
			Name:    "Canadian SIN",
			Pattern: regexp.MustCompile(`\b\d{3}-\d{3}-\d{3}\b`),
		},
	}
}
