package command

import "github.com/zjrosen/strata/internal/board"

// The constructors below inspect the board and return nil when the request
// does not apply (no list, no selection, already at an edge). Staged
// constructors also perform their speculative mutation so the user can edit
// the new or existing content in place.

// PrioritizeSelectedItem moves the selected item one slot up.
func PrioritizeSelectedItem(b *board.Board) Command {
	list, item := b.Selection()
	if item == board.None || item == 0 {
		return nil
	}
	return &ShuffleItem{list: list, from: item, to: item - 1, bookmark: BookmarkOf(b)}
}

// DeprioritizeSelectedItem moves the selected item one slot down.
func DeprioritizeSelectedItem(b *board.Board) Command {
	list, item := b.Selection()
	if item == board.None || item+1 >= len(b.Lists[list].Items) {
		return nil
	}
	return &ShuffleItem{list: list, from: item, to: item + 1, bookmark: BookmarkOf(b)}
}

// MoveToPrevList moves the selected item into the list on the left at index.
func MoveToPrevList(b *board.Board, index int) Command {
	return moveToList(b, b.Current-1, index)
}

// MoveToNextList moves the selected item into the list on the right at index.
func MoveToNextList(b *board.Board, index int) Command {
	return moveToList(b, b.Current+1, index)
}

func moveToList(b *board.Board, target, index int) Command {
	list, item := b.Selection()
	if item == board.None || target < 0 || target >= len(b.Lists) || target == list {
		return nil
	}
	if index < 0 {
		index = 0
	}
	return &MoveItem{
		fromList: list,
		fromPos:  item,
		toList:   target,
		toPos:    index,
		bookmark: BookmarkOf(b),
	}
}

// InsertItem inserts an empty item after the selection (or at the top of an
// empty list), selects it, and returns the pending add.
func InsertItem(b *board.Board) StagedCommand {
	l := b.CurrentList()
	if l == nil {
		return nil
	}
	pos := 0
	if l.Selected != board.None {
		pos = l.Selected + 1
	}
	value := board.NewItem("")
	pos = l.Insert(pos, value)
	b.Select(b.Current, pos)
	return &AddItem{
		list:     b.Current,
		pos:      pos,
		value:    value,
		bookmark: SelectionBookmark{List: b.Current, Item: pos},
	}
}

// DeleteSelectedItem removes the selected item.
func DeleteSelectedItem(b *board.Board) Command {
	list, item := b.Selection()
	if item == board.None {
		return nil
	}
	return &DeleteItem{list: list, pos: item, bookmark: BookmarkOf(b)}
}

// InsertList inserts an untitled list after the current one (or at the end
// of an empty board), focuses it, and returns the pending add.
func InsertList(b *board.Board) StagedCommand {
	bookmark := BookmarkOf(b)
	pos := len(b.Lists)
	if b.Current != board.None {
		pos = b.Current + 1
	}
	pos = b.InsertList(pos, board.NewList(""))
	b.Select(pos, board.None)
	return &AddList{pos: pos, bookmark: bookmark}
}

// DeleteSelectedList removes the current list.
func DeleteSelectedList(b *board.Board) Command {
	if b.CurrentList() == nil {
		return nil
	}
	return &DeleteList{pos: b.Current, bookmark: BookmarkOf(b)}
}

// ShuffleListForward swaps the current list with the one on its right.
func ShuffleListForward(b *board.Board) Command {
	if b.CurrentList() == nil || b.Current+1 >= len(b.Lists) {
		return nil
	}
	return &ShuffleList{from: b.Current, to: b.Current + 1, bookmark: BookmarkOf(b)}
}

// ShuffleListBack swaps the current list with the one on its left.
func ShuffleListBack(b *board.Board) Command {
	if b.CurrentList() == nil || b.Current == 0 {
		return nil
	}
	return &ShuffleList{from: b.Current, to: b.Current - 1, bookmark: BookmarkOf(b)}
}

// EditSelectedItem starts an in-place edit of the selected item.
func EditSelectedItem(b *board.Board) StagedCommand {
	it := b.CurrentItem()
	if it == nil {
		return nil
	}
	list, item := b.Selection()
	return &ChangeText{list: list, item: item, old: it.Text, new: it.Text, bookmark: BookmarkOf(b)}
}

// RenameCurrentList starts an in-place edit of the current list title.
func RenameCurrentList(b *board.Board) StagedCommand {
	l := b.CurrentList()
	if l == nil {
		return nil
	}
	return &RenameList{pos: b.Current, old: l.Name, new: l.Name, bookmark: BookmarkOf(b)}
}

// ToggleSelectedItem flips the done flag of the selected item.
func ToggleSelectedItem(b *board.Board) Command {
	list, item := b.Selection()
	if item == board.None {
		return nil
	}
	return &ToggleItem{list: list, pos: item, bookmark: BookmarkOf(b)}
}

// YankSelectedItem copies the selected item's text into the clipboard.
func YankSelectedItem(b *board.Board) Command {
	list, item := b.Selection()
	if item == board.None {
		return nil
	}
	return &YankItem{list: list, pos: item, bookmark: BookmarkOf(b)}
}

// CutSelectedItem removes the selected item into the clipboard.
func CutSelectedItem(b *board.Board) Command {
	list, item := b.Selection()
	if item == board.None {
		return nil
	}
	return &CutItem{list: list, pos: item, bookmark: BookmarkOf(b)}
}

// PasteAfterSelection inserts the clipboard text after the selection. It
// returns nil when the clipboard is empty or the board has no list.
func PasteAfterSelection(b *board.Board, clip Clipboard) Command {
	l := b.CurrentList()
	if l == nil || clip.Empty() {
		return nil
	}
	text, _ := clip.Text()
	pos := 0
	if l.Selected != board.None {
		pos = l.Selected + 1
	}
	return &PasteItem{list: b.Current, pos: pos, text: text, bookmark: BookmarkOf(b)}
}
