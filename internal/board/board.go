package board

// Board is an ordered set of lists with one current list.
//
// Current is None exactly when the board has no lists.
type Board struct {
	Lists   []List
	Current int
}

// New returns a board over lists with the first list current.
func New(lists ...List) *Board {
	if len(lists) == 0 {
		lists = nil
	}
	b := &Board{Lists: lists, Current: None}
	b.normalize()
	return b
}

// Empty reports whether the board has no lists.
func (b *Board) Empty() bool {
	return len(b.Lists) == 0
}

// CurrentList returns the focused list or nil.
func (b *Board) CurrentList() *List {
	if b.Current == None || b.Current >= len(b.Lists) {
		return nil
	}
	return &b.Lists[b.Current]
}

// CurrentItem returns the selected item of the focused list or nil.
func (b *Board) CurrentItem() *Item {
	l := b.CurrentList()
	if l == nil {
		return nil
	}
	return l.SelectedItem()
}

// Selection returns the focused list and its selected item, None for
// whichever is absent.
func (b *Board) Selection() (list, item int) {
	l := b.CurrentList()
	if l == nil {
		return None, None
	}
	return b.Current, l.Selected
}

// MoveUp selects the previous item in the focused list.
func (b *Board) MoveUp() {
	if l := b.CurrentList(); l != nil {
		l.SelectPrevious()
	}
}

// MoveDown selects the next item in the focused list.
func (b *Board) MoveDown() {
	if l := b.CurrentList(); l != nil {
		l.SelectNext()
	}
}

// MoveLeft focuses the previous list. Focus stops at the first list.
func (b *Board) MoveLeft() {
	b.focus(b.Current - 1)
}

// MoveRight focuses the next list. Focus stops at the last list.
func (b *Board) MoveRight() {
	b.focus(b.Current + 1)
}

func (b *Board) focus(list int) {
	if len(b.Lists) == 0 {
		return
	}
	if b.Current == None {
		b.Current = 0
		return
	}
	b.Current = clamp(list, 0, len(b.Lists)-1)
}

// Select focuses list and selects item, both clamped into range.
func (b *Board) Select(list, item int) {
	if len(b.Lists) == 0 {
		b.Current = None
		return
	}
	b.Current = clamp(list, 0, len(b.Lists)-1)
	b.Lists[b.Current].SetSelection(item)
}

// InsertList places l at pos (clamped) and returns the position used.
func (b *Board) InsertList(pos int, l List) int {
	pos = clamp(pos, 0, len(b.Lists))
	b.Lists = append(b.Lists, List{})
	copy(b.Lists[pos+1:], b.Lists[pos:])
	b.Lists[pos] = l
	b.normalize()
	return pos
}

// RemoveList deletes and returns the list at pos.
func (b *Board) RemoveList(pos int) (List, bool) {
	if pos < 0 || pos >= len(b.Lists) {
		return List{}, false
	}
	l := b.Lists[pos]
	b.Lists = append(b.Lists[:pos], b.Lists[pos+1:]...)
	if len(b.Lists) == 0 {
		b.Lists = nil
	}
	b.normalize()
	return l, true
}

// SwapLists exchanges the lists at i and j.
func (b *Board) SwapLists(i, j int) bool {
	if i < 0 || j < 0 || i >= len(b.Lists) || j >= len(b.Lists) {
		return false
	}
	b.Lists[i], b.Lists[j] = b.Lists[j], b.Lists[i]
	return true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	out := &Board{Current: b.Current}
	for _, l := range b.Lists {
		out.Lists = append(out.Lists, l.Clone())
	}
	return out
}

// ItemCount returns the total number of items across lists.
func (b *Board) ItemCount() int {
	n := 0
	for i := range b.Lists {
		n += len(b.Lists[i].Items)
	}
	return n
}

func (b *Board) normalize() {
	switch {
	case len(b.Lists) == 0:
		b.Current = None
	case b.Current == None || b.Current < 0:
		b.Current = 0
	case b.Current >= len(b.Lists):
		b.Current = len(b.Lists) - 1
	}
}
