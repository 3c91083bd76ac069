// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"path/filepath"
	"slices"
	"strings"
)

// Limits for ForUnknownFormatter suggestions.
const (
	maxSuggestions  = 3
	minSharedPrefix = 4
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in the user config directory.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/chandragen.toml"

	// Find a user config path (contains chandragen/) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(filepath.ToSlash(p), "/chandragen/") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForUnknownFormatter suggests registered formatters close to name:
// those containing it first, then those sharing a long prefix with it.
// Falls back to the listing command.
func ForUnknownFormatter(name string, available []string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return format("run 'chandragen formatters' to list available formatters")
	}

	var matches []string
	for _, candidate := range available {
		if strings.Contains(candidate, name) || strings.Contains(name, candidate) {
			matches = append(matches, candidate)
		}
	}
	for _, candidate := range available {
		if sharedPrefix(candidate, name) >= minSharedPrefix && !slices.Contains(matches, candidate) {
			matches = append(matches, candidate)
		}
	}

	if len(matches) == 0 {
		return format("run 'chandragen formatters' to list available formatters")
	}
	if len(matches) > maxSuggestions {
		matches = matches[:maxSuggestions]
	}
	return format("did you mean " + strings.Join(matches, ", ") + "?")
}

// ForHeadingBoundary returns hints for heading_end_pattern mismatches.
func ForHeadingBoundary(pattern string) string {
	return format("heading_end_pattern " + pattern + " must match a whole line of the input; it is a regular expression")
}

// ForTableFormat returns hints for malformed Markdown tables.
func ForTableFormat() string {
	return format("every table row needs as many | cells as the header row")
}

// ForCodeblockFormat returns hints for unterminated fenced code blocks.
func ForCodeblockFormat() string {
	return format("close the ``` fence or remove normalize_code_blocks from the entry")
}

// ForInterval returns hints for unparseable schedule intervals.
func ForInterval() string {
	return format(`use a 5-field cron expression, a descriptor such as @hourly or "@every 30m", or "once"`)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

func sharedPrefix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}
