package formatters

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/thanosengine/ChandraGen/internal/textdoc"
)

// delimiterCell matches one cell of a table alignment row.
var delimiterCell = regexp.MustCompile(`^:?-+:?$`)

// Alignment is the horizontal alignment of a table column.
type Alignment int

// Column alignments, from the alignment row markers.
const (
	AlignLeft   Alignment = iota // "---" or ":--"
	AlignCenter                  // ":-:"
	AlignRight                   // "--:"
)

// boxStyle holds the glyphs used to draw a table.
type boxStyle struct {
	horizontal, vertical                string
	topLeft, topJoin, topRight          string
	middleLeft, middleJoin, middleRight string
	bottomLeft, bottomJoin, bottomRight string
}

var boxStyles = map[string]boxStyle{
	"single":  {"─", "│", "┌", "┬", "┐", "├", "┼", "┤", "└", "┴", "┘"},
	"rounded": {"─", "│", "╭", "┬", "╮", "├", "┼", "┤", "╰", "┴", "╯"},
	"double":  {"═", "║", "╔", "╦", "╗", "╠", "╬", "╣", "╚", "╩", "╝"},
	"heavy":   {"━", "┃", "┏", "┳", "┓", "┣", "╋", "┫", "┗", "┻", "┛"},
}

// Table is a parsed pipe table.
type Table struct {
	Header []string
	Align  []Alignment
	Rows   [][]string
}

// TableToUnicode renders every pipe table outside code blocks as a
// box-drawing table. With table_preformat (default true) the box is wrapped
// in a preformatted block so Gemini clients keep the columns aligned.
func TableToUnicode(text string, flags Flags) (string, error) {
	styleName := flags.String(FlagTableStyle, DefaultTableStyle)
	style, ok := boxStyles[styleName]
	if !ok {
		return "", fmt.Errorf("%w: %s %q (must be single, rounded, double, or heavy)", ErrInvalidFlag, FlagTableStyle, styleName)
	}
	preformat := flags.Bool(FlagTablePreformat, true)

	doc := textdoc.New(text)
	var b textdoc.Builder
	var fences textdoc.FenceState

	for !doc.Done() {
		start := doc.Pos()
		line, _ := doc.Next()

		if fences.Step(line) || fences.Open() || !isTableRow(line) {
			b.Add(line)
			continue
		}
		next, ok := doc.Peek()
		if !ok || !isDelimiterRow(next) {
			b.Add(line)
			continue
		}
		doc.Next()

		rows := []string{line, next}
		for {
			candidate, ok := doc.Peek()
			if !ok || isBlank(candidate) || !isTableRow(candidate) {
				break
			}
			if _, fence := textdoc.IsFence(candidate); fence {
				break
			}
			doc.Next()
			rows = append(rows, candidate)
		}

		table, err := ParseTable(rows, start+1)
		if err != nil {
			return "", err
		}
		if preformat {
			b.Add("```")
		}
		b.Add(table.Render(style)...)
		if preformat {
			b.Add("```")
		}
	}

	return b.String(), nil
}

// ParseTable parses header, alignment and body rows. firstLine is the
// 1-indexed document line of the header, used in error reports.
// Every row must have exactly as many cells as the header.
func ParseTable(rows []string, firstLine int) (*Table, error) {
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: need a header and an alignment row", ErrTableFormat)
	}

	header := splitRow(rows[0])
	want := len(header)

	delims := splitRow(rows[1])
	if len(delims) != want {
		return nil, &TableFormatError{Line: firstLine + 1, Row: 1, Want: want, Got: len(delims)}
	}
	align := make([]Alignment, want)
	for i, cell := range delims {
		align[i] = alignmentOf(cell)
	}

	t := &Table{Header: header, Align: align}
	for i, raw := range rows[2:] {
		cells := splitRow(raw)
		if len(cells) != want {
			return nil, &TableFormatError{Line: firstLine + 2 + i, Row: 2 + i, Want: want, Got: len(cells)}
		}
		t.Rows = append(t.Rows, cells)
	}
	return t, nil
}

// Render draws the table using style. Column widths are the widest display
// width in each column; cells get one space of padding on both sides.
func (t *Table) Render(style boxStyle) []string {
	widths := make([]int, len(t.Header))
	for i, cell := range t.Header {
		widths[i] = displayWidth(cell)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := displayWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	out := make([]string, 0, len(t.Rows)+4)
	out = append(out, rule(widths, style.horizontal, style.topLeft, style.topJoin, style.topRight))
	out = append(out, t.renderRow(t.Header, widths, style.vertical))
	out = append(out, rule(widths, style.horizontal, style.middleLeft, style.middleJoin, style.middleRight))
	for _, row := range t.Rows {
		out = append(out, t.renderRow(row, widths, style.vertical))
	}
	out = append(out, rule(widths, style.horizontal, style.bottomLeft, style.bottomJoin, style.bottomRight))
	return out
}

func (t *Table) renderRow(cells []string, widths []int, vertical string) string {
	var sb strings.Builder
	sb.WriteString(vertical)
	for i, cell := range cells {
		sb.WriteString(" ")
		sb.WriteString(pad(cell, widths[i], t.Align[i]))
		sb.WriteString(" ")
		sb.WriteString(vertical)
	}
	return sb.String()
}

func rule(widths []int, horizontal, left, join, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat(horizontal, w+2)
	}
	return left + strings.Join(parts, join) + right
}

func pad(cell string, width int, align Alignment) string {
	gap := width - displayWidth(cell)
	if gap <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}

func alignmentOf(delim string) Alignment {
	left := strings.HasPrefix(delim, ":")
	right := strings.HasSuffix(delim, ":")
	switch {
	case left && right:
		return AlignCenter
	case right:
		return AlignRight
	default:
		return AlignLeft
	}
}

// isTableRow reports whether line contains an unescaped pipe.
func isTableRow(line string) bool {
	if isBlank(line) {
		return false
	}
	for i := 0; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] == '|' {
			return true
		}
	}
	return false
}

// isDelimiterRow reports whether line is a table alignment row.
func isDelimiterRow(line string) bool {
	if !isTableRow(line) {
		return false
	}
	for _, cell := range splitRow(line) {
		if !delimiterCell.MatchString(cell) {
			return false
		}
	}
	return true
}

// splitRow splits a table row on unescaped pipes, dropping the optional
// outer pipes, trimming cells and unescaping "\|".
func splitRow(line string) []string {
	s := strings.TrimSpace(line)
	s = strings.TrimPrefix(s, "|")
	if strings.HasSuffix(s, "|") && !strings.HasSuffix(s, `\|`) {
		s = s[:len(s)-1]
	}

	var cells []string
	var cell strings.Builder
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\' && i+1 < len(s) && s[i+1] == '|':
			cell.WriteByte('|')
			i++
		case s[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(s[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}
