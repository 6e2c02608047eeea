package board

// List is a named, ordered column of items.
//
// Selected is None exactly when the list is empty. Every mutating method
// restores that rule before returning.
type List struct {
	Name     string
	Items    []Item
	Selected int
	// Width is a layout hint written by the renderer.
	Width int
}

// NewList returns a list holding items with the first one selected.
func NewList(name string, items ...Item) List {
	if len(items) == 0 {
		items = nil
	}
	l := List{Name: name, Items: items, Selected: None}
	l.normalize()
	return l
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.Items)
}

// SelectedItem returns the selected item or nil.
func (l *List) SelectedItem() *Item {
	if l.Selected == None || l.Selected >= len(l.Items) {
		return nil
	}
	return &l.Items[l.Selected]
}

// SelectNext moves the selection down without wrapping.
func (l *List) SelectNext() {
	if l.Selected == None {
		l.normalize()
		return
	}
	l.SetSelection(l.Selected + 1)
}

// SelectPrevious moves the selection up without wrapping.
func (l *List) SelectPrevious() {
	if l.Selected == None {
		l.normalize()
		return
	}
	l.SetSelection(l.Selected - 1)
}

// SetSelection selects index i clamped into range. On an empty list the
// selection stays None.
func (l *List) SetSelection(i int) {
	if len(l.Items) == 0 {
		l.Selected = None
		return
	}
	l.Selected = clamp(i, 0, len(l.Items)-1)
}

// Insert places item at pos (clamped to [0, Len]) and returns the position used.
func (l *List) Insert(pos int, item Item) int {
	pos = clamp(pos, 0, len(l.Items))
	l.Items = append(l.Items, Item{})
	copy(l.Items[pos+1:], l.Items[pos:])
	l.Items[pos] = item
	l.normalize()
	return pos
}

// Remove deletes and returns the item at pos. The second result is false
// when pos is out of range.
func (l *List) Remove(pos int) (Item, bool) {
	if pos < 0 || pos >= len(l.Items) {
		return Item{}, false
	}
	item := l.Items[pos]
	l.Items = append(l.Items[:pos], l.Items[pos+1:]...)
	if len(l.Items) == 0 {
		l.Items = nil
	}
	l.normalize()
	return item, true
}

// Swap exchanges the items at a and b.
func (l *List) Swap(a, b int) bool {
	if a < 0 || b < 0 || a >= len(l.Items) || b >= len(l.Items) {
		return false
	}
	l.Items[a], l.Items[b] = l.Items[b], l.Items[a]
	return true
}

// EditableText returns the list name.
func (l *List) EditableText() string {
	return l.Name
}

// SetEditableText replaces the list name.
func (l *List) SetEditableText(s string) {
	l.Name = s
}

// Clone returns a deep copy.
func (l List) Clone() List {
	out := l
	out.Items = append([]Item(nil), l.Items...)
	return out
}

func (l *List) normalize() {
	switch {
	case len(l.Items) == 0:
		l.Selected = None
	case l.Selected == None || l.Selected < 0:
		l.Selected = 0
	case l.Selected >= len(l.Items):
		l.Selected = len(l.Items) - 1
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
