package formatters

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/thanosengine/ChandraGen/internal/textdoc"
)

var (
	// deepHeading matches headings below level three.
	deepHeading = regexp.MustCompile(`^(#{4,})(\s)`)

	// listMarker matches the bullet or ordinal that starts a list item.
	listMarker = regexp.MustCompile(`^\s*(?:[-*+]|\d+[.)])\s+`)

	htmlComment = regexp.MustCompile(`<!--.*?-->`)

	emphasisStars = regexp.MustCompile(`\*{1,3}`)
)

// ClampHeadingLevels rewrites headings deeper than ### as ###, the deepest
// level Gemtext has.
func ClampHeadingLevels(text string) string {
	return textdoc.MapLines(text, func(line string) (string, bool) {
		return deepHeading.ReplaceAllString(line, "###$2"), true
	})
}

// StripHTMLComments removes HTML comments outside code blocks. Lines left
// empty by the removal are dropped.
func StripHTMLComments(text string) string {
	inComment := false
	return textdoc.MapLines(text, func(line string) (string, bool) {
		original := line
		if inComment {
			end := strings.Index(line, "-->")
			if end < 0 {
				return "", false
			}
			inComment = false
			line = line[end+3:]
		}

		line = htmlComment.ReplaceAllString(line, "")
		if start := strings.Index(line, "<!--"); start >= 0 {
			inComment = true
			line = line[:start]
		}

		if line != original && isBlank(line) {
			return "", false
		}
		return line, true
	})
}

// StripInlineMarkdown removes bold and italic markers outside inline code.
// Underscores inside words (snake_case) are kept.
func StripInlineMarkdown(text string) string {
	return textdoc.MapLines(text, func(line string) (string, bool) {
		if strings.HasPrefix(line, "=>") {
			return line, true
		}
		prefix := listMarker.FindString(line)
		return prefix + stripEmphasis(line[len(prefix):]), true
	})
}

// stripEmphasis strips markers from every segment not inside a backtick span.
func stripEmphasis(s string) string {
	var sb strings.Builder
	for {
		open := strings.IndexByte(s, '`')
		if open < 0 {
			sb.WriteString(stripMarkers(s))
			return sb.String()
		}
		closing := strings.IndexByte(s[open+1:], '`')
		if closing < 0 {
			sb.WriteString(stripMarkers(s))
			return sb.String()
		}
		closing += open + 1
		sb.WriteString(stripMarkers(s[:open]))
		sb.WriteString(s[open : closing+1])
		s = s[closing+1:]
	}
}

func stripMarkers(s string) string {
	s = emphasisStars.ReplaceAllString(s, "")
	if !strings.Contains(s, "_") {
		return s
	}

	var sb strings.Builder
	for i := 0; i < len(s); {
		if s[i] != '_' {
			sb.WriteByte(s[i])
			i++
			continue
		}
		j := i
		for j < len(s) && s[j] == '_' {
			j++
		}
		before, _ := utf8.DecodeLastRuneInString(s[:i])
		after, _ := utf8.DecodeRuneInString(s[j:])
		intraword := i > 0 && j < len(s) && isWordRune(before) && isWordRune(after)
		if j-i > 3 || intraword {
			sb.WriteString(s[i:j])
		}
		i = j
	}
	return sb.String()
}
