package editline

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Line is one soft-wrapped row of text, as a half-open range of grapheme
// indices.
type Line struct {
	Start, End int
}

// graphemes splits s into user-perceived characters.
func graphemes(s string) []string {
	var out []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		out = append(out, gr.Str())
	}
	return out
}

func cellWidth(g string) int {
	if g == "\t" {
		return 1
	}
	return runewidth.StringWidth(g)
}

func isWordChar(g string) bool {
	for _, r := range g {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}

// Layout wraps text into rows no wider than width cells. Rows break after
// the last space that fits; a word longer than a row is split. Empty text
// still has one row.
func Layout(text string, width int) []Line {
	return layout(graphemes(text), width)
}

func layout(gs []string, width int) []Line {
	if width < 1 {
		width = 1
	}
	var lines []Line
	start, cells, lastSpace := 0, 0, -1
	for i := 0; i < len(gs); i++ {
		w := cellWidth(gs[i])
		if cells+w > width && i > start {
			end := i
			if lastSpace >= start {
				end = lastSpace + 1
			}
			lines = append(lines, Line{Start: start, End: end})
			start, cells, lastSpace = end, 0, -1
			i = end - 1
			continue
		}
		cells += w
		if gs[i] == " " {
			lastSpace = i
		}
	}
	return append(lines, Line{Start: start, End: len(gs)})
}

// Wrap returns text broken into its layout rows.
func Wrap(text string, width int) []string {
	gs := graphemes(text)
	lines := layout(gs, width)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = strings.Join(gs[l.Start:l.End], "")
	}
	return out
}

// locate returns the row holding grapheme position pos and the cell column
// of pos within it.
func locate(gs []string, lines []Line, pos int) (row, col int) {
	row = len(lines) - 1
	for i, l := range lines {
		if pos < l.End || (pos == l.End && i == len(lines)-1) {
			row = i
			break
		}
	}
	for i := lines[row].Start; i < pos && i < len(gs); i++ {
		col += cellWidth(gs[i])
	}
	return row, col
}

// positionAt returns the grapheme position in row closest to cell column col
// without passing it.
func positionAt(gs []string, lines []Line, row, col int) int {
	l := lines[row]
	end := l.End
	if row < len(lines)-1 && end > l.Start {
		// The last position of a wrapped row belongs to the next row.
		end--
	}
	pos, cells := l.Start, 0
	for pos < end {
		w := cellWidth(gs[pos])
		if cells+w > col {
			break
		}
		cells += w
		pos++
	}
	return pos
}
