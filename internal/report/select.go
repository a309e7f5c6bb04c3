package report

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SelectDetectors prompts for a detector subset from the available names.
// Accepted input: space-separated 1-based numbers (e.g. "1 3") or "all".
// Invalid input is reported and re-prompted; it never terminates the
// selection step. An exhausted reader returns an error.
func SelectDetectors(r io.Reader, w io.Writer, available []string) ([]string, error) {
	fmt.Fprintln(w, "\nSelect PII detection methods:")
	for i, name := range available {
		fmt.Fprintf(w, "%d. %s\n", i+1, capitalize(name))
	}
	fmt.Fprintln(w, "Enter the numbers of the methods to use (e.g. '1 2 3' or '1 3'), or 'all':")

	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, fmt.Errorf("reading selection: %w", err)
			}
			return nil, fmt.Errorf("no selection made")
		}

		input := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if input == "all" {
			selected := make([]string, len(available))
			copy(selected, available)
			return selected, nil
		}

		selected, ok := parseSelection(input, available)
		if !ok {
			fmt.Fprintln(w, "Invalid selection. Enter numbers separated by spaces, or 'all'.")
			continue
		}
		return selected, nil
	}
}

// parseSelection resolves space-separated 1-based indices against available
func parseSelection(input string, available []string) ([]string, bool) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return nil, false
	}

	var selected []string
	for _, field := range fields {
		index, err := strconv.Atoi(field)
		if err != nil || index < 1 || index > len(available) {
			return nil, false
		}
		selected = append(selected, available[index-1])
	}
	return selected, true
}
