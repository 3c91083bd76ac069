package formatters

import (
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/thanosengine/ChandraGen/internal/textdoc"
)

var (
	// referenceDefinition matches a link reference definition line.
	referenceDefinition = regexp.MustCompile(`^ {0,3}\[([^\]]+)\]:\s*(\S+)`)

	// referenceUse matches "[text][ref]", "[ref][]" and "[ref]".
	referenceUse = regexp.MustCompile(`\[([^\]]+)\](?:\[([^\]]*)\])?`)
)

// ResolveReferenceLinks rewrites reference-style links to inline links using
// the definitions goldmark finds in the document, then drops the definition
// lines. Links whose reference is undefined are left untouched.
func ResolveReferenceLinks(text string, _ Flags) (string, error) {
	refs := collectReferences(text)
	if len(refs) == 0 {
		return text, nil
	}

	return textdoc.MapLines(text, func(line string) (string, bool) {
		if m := referenceDefinition.FindStringSubmatch(line); m != nil {
			if _, ok := refs[normalizeLabel(m[1])]; ok {
				return "", false
			}
		}
		return rewriteReferences(line, refs), true
	}), nil
}

func collectReferences(text string) map[string]string {
	src := []byte(text)
	pctx := parser.NewContext()
	goldmark.New().Parser().Parse(gmtext.NewReader(src), parser.WithContext(pctx))

	refs := make(map[string]string)
	for _, ref := range pctx.References() {
		refs[normalizeLabel(string(ref.Label()))] = string(ref.Destination())
	}
	return refs
}

func rewriteReferences(line string, refs map[string]string) string {
	matches := referenceUse.FindAllStringSubmatchIndex(line, -1)
	if matches == nil {
		return line
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		end := m[1]
		if end < len(line) && (line[end] == '(' || line[end] == ':') {
			continue
		}

		label := line[m[2]:m[3]]
		key := label
		if m[4] >= 0 && m[5] > m[4] {
			key = line[m[4]:m[5]]
		}
		url, ok := refs[normalizeLabel(key)]
		if !ok {
			continue
		}

		sb.WriteString(line[last:m[0]])
		sb.WriteString("[" + label + "](" + url + ")")
		last = end
	}
	sb.WriteString(line[last:])
	return sb.String()
}

// normalizeLabel folds case and collapses whitespace the way reference labels match.
func normalizeLabel(label string) string {
	return strings.Join(strings.Fields(strings.ToLower(label)), " ")
}
