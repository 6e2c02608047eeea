// Package search filters a board down to the items matching a query and
// moves the selection through the filtered view.
//
// While a search is active the board's own selection is read as a position
// in the view: Current names a list and that list's Selected is an index
// into its matches. SelectFromView turns it back into a real item index.
package search

import (
	"strings"

	"github.com/zjrosen/strata/internal/board"
)

// Direction is a navigation key within the view.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Entry maps a visible row to the item it shows.
type Entry struct {
	View   int
	Actual int
}

// View is the filtered reflection of one board.
type View struct {
	Query string
	lists [][]Entry
}

// Reflect collects, per list, the items whose text contains query ignoring
// case. An empty query matches everything.
func Reflect(b *board.Board, query string) View {
	needle := strings.ToLower(query)
	v := View{Query: query, lists: make([][]Entry, len(b.Lists))}
	for li, l := range b.Lists {
		var entries []Entry
		for i, it := range l.Items {
			if strings.Contains(strings.ToLower(it.Text), needle) {
				entries = append(entries, Entry{View: len(entries), Actual: i})
			}
		}
		v.lists[li] = entries
	}
	return v
}

// Visible returns the matches of list.
func (v View) Visible(list int) []Entry {
	if list < 0 || list >= len(v.lists) {
		return nil
	}
	return v.lists[list]
}

// Matches returns the number of matching items on the board.
func (v View) Matches() int {
	n := 0
	for _, l := range v.lists {
		n += len(l)
	}
	return n
}

// Navigate moves the view selection. Up and down stay within the matches of
// the current list; left and right jump over lists without matches.
func (v View) Navigate(b *board.Board, dir Direction) {
	cur := b.Current
	if cur == board.None || cur >= len(v.lists) {
		return
	}
	switch dir {
	case Up:
		b.MoveUp()
	case Down:
		if l := b.CurrentList(); l != nil && l.Selected+1 < len(v.lists[cur]) {
			b.MoveDown()
		}
	case Left:
		for i := cur - 1; i >= 0; i-- {
			if len(v.lists[i]) > 0 {
				v.focus(b, i)
				return
			}
		}
	case Right:
		for i := cur + 1; i < len(v.lists); i++ {
			if len(v.lists[i]) > 0 {
				v.focus(b, i)
				return
			}
		}
	}
}

// focus enters list keeping its remembered position when it is inside the
// view.
func (v View) focus(b *board.Board, list int) {
	pos := b.Lists[list].Selected
	if n := len(v.lists[list]); pos == board.None || pos >= n {
		pos = n - 1
	}
	b.Select(list, pos)
}

// UpdateSelection puts the view selection on the first match. It returns
// false when nothing matches.
func (v View) UpdateSelection(b *board.Board) bool {
	for li, entries := range v.lists {
		if len(entries) > 0 {
			b.Select(li, 0)
			return true
		}
	}
	return false
}

// SelectFromView replaces the view position held in the board with the
// index of the item it shows.
func (v View) SelectFromView(b *board.Board) {
	cur := b.Current
	if cur == board.None || cur >= len(v.lists) || len(v.lists[cur]) == 0 {
		return
	}
	entries := v.lists[cur]
	pos := b.Lists[cur].Selected
	if pos == board.None || pos < 0 {
		pos = 0
	}
	if pos >= len(entries) {
		pos = len(entries) - 1
	}
	b.Select(cur, entries[pos].Actual)
}

// Token is the query being typed.
type Token struct {
	Text string
}

func (t *Token) EditableText() string     { return t.Text }
func (t *Token) SetEditableText(s string) { t.Text = s }
