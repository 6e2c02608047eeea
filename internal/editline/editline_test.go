package editline

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

type text struct{ s string }

func (t *text) EditableText() string     { return t.s }
func (t *text) SetEditableText(s string) { t.s = s }

func key(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func TestInput_TypeAndPaste(t *testing.T) {
	var c Controller
	e := &text{}
	require.Equal(t, Continue, c.Input(e, runes("a"), 80))
	require.Equal(t, Continue, c.Input(e, runes("b"), 80))
	c.Input(e, key(tea.KeySpace), 80)
	c.Input(e, runes("pasted\ntext"), 80)
	require.Equal(t, "ab pasted text", e.s)
	require.Equal(t, 14, c.Cursor)
}

func TestInput_BackspaceAndDelete(t *testing.T) {
	e := &text{s: "abc"}
	c := Controller{Cursor: 3}

	c.Input(e, key(tea.KeyLeft), 80)
	c.Input(e, key(tea.KeyLeft), 80)
	c.Input(e, key(tea.KeyBackspace), 80)
	require.Equal(t, "bc", e.s)
	require.Equal(t, 0, c.Cursor)

	c.Input(e, key(tea.KeyBackspace), 80)
	require.Equal(t, "bc", e.s, "nothing left of the cursor")

	c.Input(e, key(tea.KeyDelete), 80)
	require.Equal(t, "c", e.s)
	c.Input(e, key(tea.KeyEnd), 80)
	c.Input(e, key(tea.KeyDelete), 80)
	require.Equal(t, "c", e.s, "nothing right of the cursor")
}

func TestInput_Graphemes(t *testing.T) {
	// The family emoji and the accented e are single graphemes.
	e := &text{s: "é👨‍👩‍👧x"}
	var c Controller
	c.MoveToEnd(e)
	require.Equal(t, 3, c.Cursor)

	c.Input(e, key(tea.KeyLeft), 80)
	c.Input(e, key(tea.KeyBackspace), 80)
	require.Equal(t, "éx", e.s)
	require.Equal(t, 1, c.Cursor)

	c.Input(e, key(tea.KeyHome), 80)
	c.Input(e, key(tea.KeyDelete), 80)
	require.Equal(t, "x", e.s)
}

func TestInput_Words(t *testing.T) {
	e := &text{s: "hello world"}
	var c Controller

	c.Input(e, key(tea.KeyCtrlRight), 80)
	require.Equal(t, 6, c.Cursor)
	c.Input(e, key(tea.KeyCtrlRight), 80)
	require.Equal(t, 11, c.Cursor)

	c.Input(e, key(tea.KeyCtrlLeft), 80)
	require.Equal(t, 6, c.Cursor)
	c.Input(e, key(tea.KeyCtrlLeft), 80)
	require.Equal(t, 0, c.Cursor)
}

func TestInput_UpDownAcrossWrappedRows(t *testing.T) {
	e := &text{s: "aaaa bbbb cc"}
	c := Controller{Cursor: 2}

	c.Input(e, key(tea.KeyDown), 5)
	require.Equal(t, 7, c.Cursor)
	c.Input(e, key(tea.KeyDown), 5)
	require.Equal(t, 12, c.Cursor)
	c.Input(e, key(tea.KeyDown), 5)
	require.Equal(t, 12, c.Cursor)

	c.Input(e, key(tea.KeyUp), 5)
	require.Equal(t, 7, c.Cursor)
	c.Input(e, key(tea.KeyUp), 5)
	require.Equal(t, 2, c.Cursor)
	c.Input(e, key(tea.KeyUp), 5)
	require.Equal(t, 0, c.Cursor)
}

func TestInput_Actions(t *testing.T) {
	var c Controller
	e := &text{s: "x"}
	require.Equal(t, Done, c.Input(e, key(tea.KeyEsc), 80))
	require.Equal(t, NewItem, c.Input(e, key(tea.KeyEnter), 80))
	require.Equal(t, "x", e.s)
	require.Equal(t, "new_item", NewItem.String())
}

func TestLayout(t *testing.T) {
	require.Equal(t, []Line{{0, 5}, {5, 10}, {10, 12}}, Layout("aaaa bbbb cc", 5))
	require.Equal(t, []string{"hello ", "world"}, Wrap("hello world", 8))
	require.Equal(t, []string{"abcd", "ef"}, Wrap("abcdef", 4), "long words are split")
	require.Equal(t, []Line{{0, 0}}, Layout("", 10))
	require.Equal(t, []string{"日本", "語"}, Wrap("日本語", 4), "wide runes take two cells")
}

func TestPosition(t *testing.T) {
	c := Controller{Cursor: 7}
	row, col := c.Position("aaaa bbbb cc", 5)
	require.Equal(t, 1, row)
	require.Equal(t, 2, col)

	c.Cursor = 99
	row, col = c.Position("ab", 10)
	require.Equal(t, 0, row)
	require.Equal(t, 2, col)
}
