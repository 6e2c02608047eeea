// Package board holds the outline model: a board is an ordered set of lists,
// a list is an ordered set of items, and an item may own a child board.
package board

// None marks an absent index: no selected list, no selected item, no child board.
const None = -1

// Item is a single entry in a list.
type Item struct {
	Text string
	Done bool
	// ChildBoard indexes the forest's board table, or None.
	ChildBoard int
}

// NewItem returns an unchecked item without a child board.
func NewItem(text string) Item {
	return Item{Text: text, ChildBoard: None}
}

// HasChildBoard reports whether the item links to a nested board.
func (i Item) HasChildBoard() bool {
	return i.ChildBoard != None
}

// Toggle flips the done flag.
func (i *Item) Toggle() {
	i.Done = !i.Done
}

// EditableText returns the text being edited.
func (i *Item) EditableText() string {
	return i.Text
}

// SetEditableText replaces the item text.
func (i *Item) SetEditableText(s string) {
	i.Text = s
}
