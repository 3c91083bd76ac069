// Package textdoc provides the line buffer and cursor that structural
// formatters walk. A Document is owned by a single caller for its whole life.
package textdoc

import (
	"regexp"
	"strings"
)

// fencePattern matches a fenced code block delimiter and captures the info string.
var fencePattern = regexp.MustCompile("^(\\s{0,3})```(.*)$")

// Document is a text buffer split into lines plus a read cursor.
// Joining Lines with "\n" reproduces the original text exactly.
type Document struct {
	lines []string
	pos   int
}

// New splits text into lines. A trailing newline yields a final empty line.
func New(text string) *Document {
	return &Document{lines: strings.Split(text, "\n")}
}

// Lines returns the underlying lines. Callers must not retain the slice
// across mutations of the document.
func (d *Document) Lines() []string { return d.lines }

// Len returns the number of lines.
func (d *Document) Len() int { return len(d.lines) }

// Pos returns the index of the line Next will return.
func (d *Document) Pos() int { return d.pos }

// Seek moves the cursor, clamping it to [0, Len].
func (d *Document) Seek(pos int) {
	switch {
	case pos < 0:
		d.pos = 0
	case pos > len(d.lines):
		d.pos = len(d.lines)
	default:
		d.pos = pos
	}
}

// Done reports whether the cursor has consumed every line.
func (d *Document) Done() bool { return d.pos >= len(d.lines) }

// Next returns the current line and advances the cursor.
func (d *Document) Next() (string, bool) {
	if d.Done() {
		return "", false
	}
	line := d.lines[d.pos]
	d.pos++
	return line, true
}

// Peek returns the current line without advancing.
func (d *Document) Peek() (string, bool) {
	if d.Done() {
		return "", false
	}
	return d.lines[d.pos], true
}

// Find returns the index of the first line at or after from that satisfies match, or -1.
func (d *Document) Find(from int, match func(string) bool) int {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(d.lines); i++ {
		if match(d.lines[i]) {
			return i
		}
	}
	return -1
}

// String joins the lines back into text.
func (d *Document) String() string {
	return strings.Join(d.lines, "\n")
}

// IsFence reports whether line opens or closes a fenced code block and returns
// the trimmed info string (language tag / alt text).
func IsFence(line string) (info string, ok bool) {
	m := fencePattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[2]), true
}

// IsClosingFence reports whether line can close an open code block. Only a
// bare fence closes; a fence carrying an info string inside a block is content.
func IsClosingFence(line string) bool {
	info, ok := IsFence(line)
	return ok && info == ""
}

// FenceState follows fenced code blocks while walking lines in order.
// Any fence opens a block. Only a bare fence closes it.
type FenceState struct {
	open bool
}

// Step advances past line and reports whether it opened or closed a block.
func (s *FenceState) Step(line string) bool {
	switch {
	case !s.open:
		_, ok := IsFence(line)
		s.open = ok
		return ok
	case IsClosingFence(line):
		s.open = false
		return true
	default:
		return false
	}
}

// Open reports whether the walk is inside a code block.
func (s *FenceState) Open() bool { return s.open }

// Builder accumulates output lines.
type Builder struct {
	lines []string
}

// Add appends lines.
func (b *Builder) Add(lines ...string) { b.lines = append(b.lines, lines...) }

// Len returns the number of lines accumulated so far.
func (b *Builder) Len() int { return len(b.lines) }

// String joins the accumulated lines with "\n".
func (b *Builder) String() string { return strings.Join(b.lines, "\n") }

// MapLines applies fn to every line outside fenced code blocks and joins the
// results. Returning keep=false drops the line.
func MapLines(text string, fn func(line string) (out string, keep bool)) string {
	doc := New(text)
	var b Builder
	var fences FenceState
	for {
		line, ok := doc.Next()
		if !ok {
			break
		}
		if fences.Step(line) || fences.Open() {
			b.Add(line)
			continue
		}
		if out, keep := fn(line); keep {
			b.Add(out)
		}
	}
	return b.String()
}
