package command

import "github.com/zjrosen/strata/internal/board"

func listAt(b *board.Board, list int) *board.List {
	if list < 0 || list >= len(b.Lists) {
		return nil
	}
	return &b.Lists[list]
}

func itemAt(b *board.Board, list, item int) *board.Item {
	l := listAt(b, list)
	if l == nil || item < 0 || item >= len(l.Items) {
		return nil
	}
	return &l.Items[item]
}

// ChangeText replaces the text of an item.
type ChangeText struct {
	list, item int
	old, new   string
	bookmark   SelectionBookmark
}

func (c *ChangeText) Apply(ctx *Context) {
	if it := itemAt(ctx.Board, c.list, c.item); it != nil {
		it.Text = c.new
	}
	c.bookmark.Select(ctx.Board)
}

func (c *ChangeText) Revert(ctx *Context) {
	if it := itemAt(ctx.Board, c.list, c.item); it != nil {
		it.Text = c.old
	}
	c.bookmark.Select(ctx.Board)
}

func (c *ChangeText) Name() string { return "change_text" }

// Finalize keeps the edit only when the text changed.
func (c *ChangeText) Finalize(b *board.Board) bool {
	if it := itemAt(b, c.list, c.item); it != nil {
		c.new = it.Text
	}
	return c.new != c.old
}

func (c *ChangeText) Snapshot() Command {
	cp := *c
	return &cp
}

func (c *ChangeText) Stage() Stage { return StageEdit }

// AddItem inserts a new item and selects it.
type AddItem struct {
	list, pos int
	value     board.Item
	// bookmark points at the inserted position.
	bookmark SelectionBookmark
}

func (c *AddItem) Apply(ctx *Context) {
	l := listAt(ctx.Board, c.list)
	if l == nil {
		return
	}
	l.Insert(c.pos, c.value)
	ctx.Board.Select(c.list, c.pos)
}

func (c *AddItem) Revert(ctx *Context) {
	if l := listAt(ctx.Board, c.list); l != nil {
		l.Remove(c.pos)
	}
	c.bookmark.SelectWithOffset(ctx.Board, -1)
}

func (c *AddItem) Name() string { return "add_item" }

// Finalize keeps the item only when it has text.
func (c *AddItem) Finalize(b *board.Board) bool {
	if it := itemAt(b, c.list, c.pos); it != nil {
		c.value = *it
	}
	return c.value.Text != ""
}

func (c *AddItem) Snapshot() Command {
	cp := *c
	return &cp
}

func (c *AddItem) Stage() Stage { return StageAdd }

// DeleteItem removes an item and keeps it for Revert.
type DeleteItem struct {
	list, pos int
	value     board.Item
	bookmark  SelectionBookmark
}

func (c *DeleteItem) Apply(ctx *Context) {
	l := listAt(ctx.Board, c.list)
	if l == nil {
		return
	}
	if v, ok := l.Remove(c.pos); ok {
		c.value = v
	}
	ctx.Board.Select(c.list, c.pos-1)
}

func (c *DeleteItem) Revert(ctx *Context) {
	if l := listAt(ctx.Board, c.list); l != nil {
		l.Insert(c.pos, c.value)
	}
	c.bookmark.Select(ctx.Board)
}

func (c *DeleteItem) Name() string { return "delete_item" }

// ShuffleItem swaps two items of the same list.
type ShuffleItem struct {
	list, from, to int
	bookmark       SelectionBookmark
}

func (c *ShuffleItem) Apply(ctx *Context) {
	if l := listAt(ctx.Board, c.list); l != nil && l.Swap(c.from, c.to) {
		ctx.Board.Select(c.list, c.to)
	}
}

func (c *ShuffleItem) Revert(ctx *Context) {
	if l := listAt(ctx.Board, c.list); l != nil {
		l.Swap(c.from, c.to)
	}
	c.bookmark.Select(ctx.Board)
}

func (c *ShuffleItem) Name() string { return "shuffle_item" }

// MoveItem moves an item to another list of the same board. The target
// index is clamped, so anything past the end appends.
type MoveItem struct {
	fromList, fromPos int
	toList, toPos     int
	bookmark          SelectionBookmark

	value          board.Item
	insertedAt     int
	targetSelected int
}

func (c *MoveItem) Apply(ctx *Context) {
	src, dst := listAt(ctx.Board, c.fromList), listAt(ctx.Board, c.toList)
	if src == nil || dst == nil {
		return
	}
	v, ok := src.Remove(c.fromPos)
	if !ok {
		return
	}
	c.value = v
	c.targetSelected = dst.Selected
	c.insertedAt = dst.Insert(c.toPos, v)
	ctx.Board.Select(c.toList, c.insertedAt)
}

func (c *MoveItem) Revert(ctx *Context) {
	src, dst := listAt(ctx.Board, c.fromList), listAt(ctx.Board, c.toList)
	if src == nil || dst == nil {
		return
	}
	dst.Remove(c.insertedAt)
	dst.SetSelection(c.targetSelected)
	src.Insert(c.fromPos, c.value)
	c.bookmark.Select(ctx.Board)
}

func (c *MoveItem) Name() string { return "move_item" }

// ToggleItem flips the done flag. It is its own inverse.
type ToggleItem struct {
	list, pos int
	bookmark  SelectionBookmark
}

func (c *ToggleItem) Apply(ctx *Context) {
	if it := itemAt(ctx.Board, c.list, c.pos); it != nil {
		it.Toggle()
	}
	c.bookmark.Select(ctx.Board)
}

func (c *ToggleItem) Revert(ctx *Context) {
	c.Apply(ctx)
}

func (c *ToggleItem) Name() string { return "toggle_item" }
