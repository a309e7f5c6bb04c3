package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/raaihank/pii-sentinel/internal/detect"
)

// Render writes per-detector results as console text. Detectors are printed
// in the given name order; findings within each detector are sorted.
func Render(w io.Writer, names []string, results map[string]detect.Set) {
	fmt.Fprintln(w, "\n=== PII Detection Results ===")

	for _, name := range names {
		findings, ok := results[name]
		if !ok {
			continue
		}

		fmt.Fprintf(w, "\n%s detector:\n", capitalize(name))
		if findings.Len() == 0 {
			fmt.Fprintln(w, "  No PII detected.")
			continue
		}
		for _, finding := range findings.Strings() {
			fmt.Fprintf(w, "  - %s\n", finding)
		}
	}

	fmt.Fprintln(w, "\n=============================")
}

// RenderJSON writes the result mapping as indented JSON, with each finding
// set sorted for stable output
func RenderJSON(w io.Writer, results map[string]detect.Set) error {
	out := make(map[string][]string, len(results))
	for name, findings := range results {
		out[name] = findings.Strings()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
