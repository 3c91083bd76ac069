package formatters

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/thanosengine/ChandraGen/internal/textdoc"
)

// NormalizeCodeBlocks re-wraps code block lines wider than
// preformatted_text_columns. Lines break at whitespace; continuation lines
// keep the original indentation when it leaves room for content. A token
// wider than the limit is left intact on its own line.
//
// The result is stable: normalizing twice equals normalizing once.
func NormalizeCodeBlocks(text string, flags Flags) (string, error) {
	cols := flags.Int(FlagPreformattedColumns, DefaultColumns)
	if cols <= 0 {
		return "", fmt.Errorf("%w: %s must be positive, got %d", ErrInvalidFlag, FlagPreformattedColumns, cols)
	}

	doc := textdoc.New(text)
	var b textdoc.Builder
	var fences textdoc.FenceState
	openedAt := -1

	for !doc.Done() {
		idx := doc.Pos()
		line, _ := doc.Next()
		if fences.Step(line) {
			if fences.Open() {
				openedAt = idx
			}
			b.Add(line)
			continue
		}
		if !fences.Open() {
			b.Add(line)
			continue
		}
		b.Add(wrapLine(line, cols)...)
	}

	if fences.Open() {
		return "", &CodeblockFormatError{Line: openedAt + 1, Reason: "code block is never closed"}
	}
	return b.String(), nil
}

// wrapLine splits line into pieces no wider than cols where whitespace allows.
func wrapLine(line string, cols int) []string {
	if displayWidth(line) <= cols {
		return []string{line}
	}

	indent := leadingWhitespace(line)
	at := breakPoint(line, len(indent), cols)
	if at < 0 {
		return []string{line}
	}

	head := strings.TrimRight(line[:at], " \t")
	tail := strings.TrimLeft(line[at:], " \t")
	if tail == "" {
		return []string{head}
	}
	if displayWidth(indent)*2 < cols {
		tail = indent + tail
	}
	return append([]string{head}, wrapLine(tail, cols)...)
}

// breakPoint returns the byte offset of the whitespace to break line at, or
// -1 if the line has no usable whitespace after its first token. It prefers
// the last whitespace keeping the head within cols and otherwise breaks right
// after the first token. A break never leaves a piece that reads as a fence.
func breakPoint(line string, contentStart, cols int) int {
	best, first := -1, -1
	seenToken := false
	for i := contentStart; i < len(line); i++ {
		c := line[i]
		if c != ' ' && c != '\t' {
			seenToken = true
			continue
		}
		if !seenToken || makesFence(line, i) {
			continue
		}
		if first < 0 {
			first = i
		}
		if displayWidth(line[:i]) > cols {
			break
		}
		best = i
	}
	if best >= 0 {
		return best
	}
	return first
}

// makesFence reports whether breaking line at i would start the continuation
// with a fence or leave a bare fence as the head.
func makesFence(line string, i int) bool {
	if strings.HasPrefix(strings.TrimLeft(line[i:], " \t"), "```") {
		return true
	}
	return textdoc.IsClosingFence(strings.TrimRight(line[:i], " \t"))
}

// StripCodeblockLanguage removes the info string from opening fences.
func StripCodeblockLanguage(text string) string {
	doc := textdoc.New(text)
	var b textdoc.Builder
	var fences textdoc.FenceState
	for !doc.Done() {
		line, _ := doc.Next()
		if fences.Step(line) && fences.Open() {
			if info, _ := textdoc.IsFence(line); info != "" {
				line = line[:strings.Index(line, "```")+3]
			}
		}
		b.Add(line)
	}
	return b.String()
}

// DetectCodeblockLanguage tags untagged, closed code blocks with the language
// chroma recognises in their body. Blocks chroma cannot identify are left as is.
func DetectCodeblockLanguage(text string) string {
	doc := textdoc.New(text)
	var b textdoc.Builder

	for !doc.Done() {
		line, _ := doc.Next()
		info, fence := textdoc.IsFence(line)
		if !fence {
			b.Add(line)
			continue
		}

		closeAt := doc.Find(doc.Pos(), textdoc.IsClosingFence)
		if closeAt < 0 {
			b.Add(line)
			continue
		}
		body := doc.Lines()[doc.Pos():closeAt]
		if info == "" {
			if tag := detectLanguage(strings.Join(body, "\n")); tag != "" {
				line += tag
			}
		}
		b.Add(line)
		b.Add(body...)
		b.Add(doc.Lines()[closeAt])
		doc.Seek(closeAt + 1)
	}
	return b.String()
}

func detectLanguage(body string) string {
	if isBlank(body) {
		return ""
	}
	lexer := lexers.Analyse(body)
	if lexer == nil {
		return ""
	}
	cfg := lexer.Config()
	for _, alias := range cfg.Aliases {
		if alias != "" && alias == strings.ToLower(alias) {
			return alias
		}
	}
	return strings.ToLower(strings.ReplaceAll(cfg.Name, " ", ""))
}
