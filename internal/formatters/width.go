package formatters

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// tabWidth is the column count a tab occupies when measuring preformatted text.
const tabWidth = 4

// displayWidth returns the number of terminal columns s occupies.
// Wide East Asian runes count as two, combining marks as zero.
func displayWidth(s string) int {
	if !strings.ContainsRune(s, '\t') {
		return runewidth.StringWidth(s)
	}
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

// isBlank returns true if the line is empty or contains only whitespace.
func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// leadingWhitespace returns the run of spaces and tabs that starts s.
func leadingWhitespace(s string) string {
	return s[:len(s)-len(strings.TrimLeft(s, " \t"))]
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
