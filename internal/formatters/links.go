package formatters

import (
	"regexp"
	"strings"

	"github.com/thanosengine/ChandraGen/internal/textdoc"
)

var (
	// bulletLink matches a list item that starts with a link.
	// Groups: label, url, trailing text.
	bulletLink = regexp.MustCompile(`^[-*+]\s+\[([^\]]+)\]\(([^)\s]+)(?:\s+"[^"]*")?\)\s*(.*)$`)

	// inlineLink matches a link or image anywhere in a line.
	// Groups: image marker, label, url.
	inlineLink = regexp.MustCompile(`(!?)\[([^\]]+)\]\(([^)\s]+)(?:\s+"[^"]*")?\)`)
)

// ConvertBulletPointLinks turns list items that lead with a link into Gemini
// link lines. Text after the link is kept after the label.
func ConvertBulletPointLinks(text string) string {
	return textdoc.MapLines(text, func(line string) (string, bool) {
		return bulletToLinkLine(line), true
	})
}

func bulletToLinkLine(line string) string {
	m := bulletLink.FindStringSubmatch(line)
	if m == nil {
		return line
	}
	label, url, rest := m[1], m[2], strings.TrimSpace(m[3])
	if rest != "" {
		label += " " + rest
	}
	return "=> " + url + " " + label
}

// ConvertInlineLinks replaces inline links with their label followed by
// inline_link_suffix, and emits a "=> url label" line for each of them after
// the paragraph the links appeared in. Bullet links and existing link lines
// are left for ConvertBulletPointLinks.
func ConvertInlineLinks(text string, flags Flags) (string, error) {
	suffix := flags.String(FlagInlineLinkSuffix, DefaultInlineLinkSuffix)

	doc := textdoc.New(text)
	var b textdoc.Builder
	var pending []string
	var fences textdoc.FenceState

	flush := func() {
		b.Add(pending...)
		pending = pending[:0]
	}

	for !doc.Done() {
		line, _ := doc.Next()

		if fences.Step(line) {
			if fences.Open() {
				flush()
			}
			b.Add(line)
			continue
		}
		if fences.Open() {
			b.Add(line)
			continue
		}
		if isBlank(line) {
			flush()
			b.Add(line)
			continue
		}
		if strings.HasPrefix(line, "=>") || bulletLink.MatchString(line) {
			b.Add(line)
			continue
		}

		line = inlineLink.ReplaceAllStringFunc(line, func(match string) string {
			m := inlineLink.FindStringSubmatch(match)
			label, url := m[2], m[3]
			pending = append(pending, "=> "+url+" "+label)
			return label + suffix
		})
		b.Add(line)
	}

	flush()
	return b.String(), nil
}
