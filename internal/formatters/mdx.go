package formatters

import (
	"regexp"
	"strings"

	"github.com/thanosengine/ChandraGen/internal/textdoc"
)

var jsxExpression = regexp.MustCompile(`\{.*?\}`)

// mdxComponents maps the MDX components with a plain-text rendering.
var mdxComponents = strings.NewReplacer(
	"<Note>", "NOTE:",
	"</Note>", "",
	"<Warning>", "WARNING:",
	"</Warning>", "",
)

// StripImportsExports drops MDX import and export statements.
func StripImportsExports(text string) string {
	return textdoc.MapLines(text, func(line string) (string, bool) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "export ") {
			return "", false
		}
		return line, true
	})
}

// StripJSXTags drops lines that start with a tag. HTML comments and doctype
// declarations are kept. Tags spanning several lines are only partly removed.
func StripJSXTags(text string) string {
	return textdoc.MapLines(text, func(line string) (string, bool) {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "<") || !strings.Contains(trimmed, ">") {
			return line, true
		}
		if strings.HasPrefix(trimmed, "<!--") || strings.HasPrefix(strings.ToUpper(trimmed), "<!DOCTYPE") {
			return line, true
		}
		return "", false
	})
}

// StripJSXExpressions removes {expression} spans.
func StripJSXExpressions(text string) string {
	return textdoc.MapLines(text, func(line string) (string, bool) {
		return jsxExpression.ReplaceAllString(line, ""), true
	})
}

// ConvertKnownMDXComponents replaces <Note> and <Warning> with plain labels
// and removes their closing tags.
func ConvertKnownMDXComponents(text string) string {
	return textdoc.MapLines(text, func(line string) (string, bool) {
		return mdxComponents.Replace(line), true
	})
}
