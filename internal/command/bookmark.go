package command

import "github.com/zjrosen/strata/internal/board"

// SelectionBookmark remembers where the selection should land after a
// command or its inverse runs.
type SelectionBookmark struct {
	List int
	Item int
}

// BookmarkOf captures the board's current selection.
func BookmarkOf(b *board.Board) SelectionBookmark {
	list, item := b.Selection()
	return SelectionBookmark{List: list, Item: item}
}

// Select restores the bookmark on b.
func (s SelectionBookmark) Select(b *board.Board) {
	s.SelectWithOffset(b, 0)
}

// SelectWithOffset restores the bookmark with the item index shifted by
// offset. Indices past either end are clamped; an empty target list ends up
// with no selection. A bookmark without an item keeps the list's own
// remembered selection.
func (s SelectionBookmark) SelectWithOffset(b *board.Board, offset int) {
	if b.Empty() {
		b.Current = board.None
		return
	}
	list := s.List
	if list == board.None {
		list = 0
	}
	if s.Item == board.None {
		b.Select(list, b.Lists[clampList(b, list)].Selected)
		return
	}
	b.Select(list, s.Item+offset)
}

func clampList(b *board.Board, list int) int {
	if list < 0 {
		return 0
	}
	if list >= len(b.Lists) {
		return len(b.Lists) - 1
	}
	return list
}
