// Package editline edits a single piece of text in place: an item, a list
// title or a search query. It works in grapheme clusters so the cursor never
// lands inside a combined character, and it knows the soft-wrapped layout
// so up and down move between rows.
package editline

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Editable is anything whose text can be edited in place.
type Editable interface {
	EditableText() string
	SetEditableText(string)
}

// Action tells the caller what to do after a key.
type Action int

const (
	// Continue keeps editing.
	Continue Action = iota
	// Done ends the edit.
	Done
	// NewItem ends the edit and asks for a fresh item after this one.
	NewItem
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "continue"
	case Done:
		return "done"
	case NewItem:
		return "new_item"
	default:
		return "unknown"
	}
}

// Controller holds the cursor, counted in graphemes.
type Controller struct {
	Cursor int
}

// MoveToEnd puts the cursor after the last grapheme of e.
func (c *Controller) MoveToEnd(e Editable) {
	c.Cursor = len(graphemes(e.EditableText()))
}

// Reset puts the cursor at the start.
func (c *Controller) Reset() {
	c.Cursor = 0
}

// Position returns the row and cell column of the cursor in the layout of
// text at width.
func (c *Controller) Position(text string, width int) (row, col int) {
	gs := graphemes(text)
	return locate(gs, layout(gs, width), clampInt(c.Cursor, 0, len(gs)))
}

// Input applies key to e. width is the column width the text is wrapped to.
func (c *Controller) Input(e Editable, key tea.KeyMsg, width int) Action {
	gs := graphemes(e.EditableText())
	c.Cursor = clampInt(c.Cursor, 0, len(gs))

	switch key.Type {
	case tea.KeyEsc:
		return Done
	case tea.KeyEnter:
		return NewItem
	case tea.KeyRunes, tea.KeySpace:
		ins := string(key.Runes)
		if key.Type == tea.KeySpace {
			ins = " "
		}
		// Pasted newlines would break the one-line document format.
		ins = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(ins)
		added := graphemes(ins)
		out := make([]string, 0, len(gs)+len(added))
		out = append(out, gs[:c.Cursor]...)
		out = append(out, added...)
		out = append(out, gs[c.Cursor:]...)
		e.SetEditableText(strings.Join(out, ""))
		c.Cursor += len(added)
	case tea.KeyBackspace:
		if c.Cursor > 0 {
			e.SetEditableText(strings.Join(gs[:c.Cursor-1], "") + strings.Join(gs[c.Cursor:], ""))
			c.Cursor--
		}
	case tea.KeyDelete:
		if c.Cursor < len(gs) {
			e.SetEditableText(strings.Join(gs[:c.Cursor], "") + strings.Join(gs[c.Cursor+1:], ""))
		}
	case tea.KeyLeft:
		if c.Cursor > 0 {
			c.Cursor--
		}
	case tea.KeyRight:
		if c.Cursor < len(gs) {
			c.Cursor++
		}
	case tea.KeyCtrlLeft:
		c.Cursor = wordLeft(gs, c.Cursor)
	case tea.KeyCtrlRight:
		c.Cursor = wordRight(gs, c.Cursor)
	case tea.KeyHome, tea.KeyCtrlA:
		c.Cursor = 0
	case tea.KeyEnd, tea.KeyCtrlE:
		c.Cursor = len(gs)
	case tea.KeyUp, tea.KeyDown:
		lines := layout(gs, width)
		row, col := locate(gs, lines, c.Cursor)
		switch {
		case key.Type == tea.KeyUp && row == 0:
			c.Cursor = 0
		case key.Type == tea.KeyDown && row == len(lines)-1:
			c.Cursor = len(gs)
		case key.Type == tea.KeyUp:
			c.Cursor = positionAt(gs, lines, row-1, col)
		default:
			c.Cursor = positionAt(gs, lines, row+1, col)
		}
	}
	return Continue
}

// wordLeft returns the start of the word before pos.
func wordLeft(gs []string, pos int) int {
	for pos > 0 && !isWordChar(gs[pos-1]) {
		pos--
	}
	for pos > 0 && isWordChar(gs[pos-1]) {
		pos--
	}
	return pos
}

// wordRight returns the start of the next word, or the end of the text.
func wordRight(gs []string, pos int) int {
	for pos < len(gs) && isWordChar(gs[pos]) {
		pos++
	}
	for pos < len(gs) && !isWordChar(gs[pos]) {
		pos++
	}
	return pos
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
