package command

import (
	"strings"

	"github.com/zjrosen/strata/internal/board"
)

// AddList inserts a new list and focuses it.
type AddList struct {
	pos      int
	title    string
	bookmark SelectionBookmark
}

func (c *AddList) Apply(ctx *Context) {
	c.pos = ctx.Board.InsertList(c.pos, board.NewList(c.title))
	ctx.Board.Select(c.pos, board.None)
}

func (c *AddList) Revert(ctx *Context) {
	ctx.Board.RemoveList(c.pos)
	c.bookmark.Select(ctx.Board)
}

func (c *AddList) Name() string { return "add_list" }

// Finalize keeps the list only when it was given a non-blank title.
func (c *AddList) Finalize(b *board.Board) bool {
	if l := listAt(b, c.pos); l != nil {
		c.title = l.Name
	}
	return strings.TrimSpace(c.title) != ""
}

func (c *AddList) Snapshot() Command {
	cp := *c
	return &cp
}

func (c *AddList) Stage() Stage { return StageAdd }

// DeleteList removes a list together with its items. Child boards referenced
// by those items stay in the board table so Revert can restore the links.
type DeleteList struct {
	pos      int
	value    board.List
	bookmark SelectionBookmark
}

func (c *DeleteList) Apply(ctx *Context) {
	if l, ok := ctx.Board.RemoveList(c.pos); ok {
		c.value = l
	}
}

func (c *DeleteList) Revert(ctx *Context) {
	ctx.Board.InsertList(c.pos, c.value)
	c.bookmark.Select(ctx.Board)
}

func (c *DeleteList) Name() string { return "delete_list" }

// ShuffleList swaps two lists and keeps focus on the moved one.
type ShuffleList struct {
	from, to int
	bookmark SelectionBookmark
}

func (c *ShuffleList) Apply(ctx *Context) {
	if ctx.Board.SwapLists(c.from, c.to) {
		ctx.Board.Current = c.to
	}
}

func (c *ShuffleList) Revert(ctx *Context) {
	ctx.Board.SwapLists(c.from, c.to)
	c.bookmark.Select(ctx.Board)
}

func (c *ShuffleList) Name() string { return "shuffle_list" }

// RenameList replaces a list title.
type RenameList struct {
	pos      int
	old, new string
	bookmark SelectionBookmark
}

func (c *RenameList) Apply(ctx *Context) {
	if l := listAt(ctx.Board, c.pos); l != nil {
		l.Name = c.new
	}
	c.bookmark.Select(ctx.Board)
}

func (c *RenameList) Revert(ctx *Context) {
	if l := listAt(ctx.Board, c.pos); l != nil {
		l.Name = c.old
	}
	c.bookmark.Select(ctx.Board)
}

func (c *RenameList) Name() string { return "rename_list" }

// Finalize keeps the rename when the title changed and is not blank.
func (c *RenameList) Finalize(b *board.Board) bool {
	if l := listAt(b, c.pos); l != nil {
		c.new = l.Name
	}
	return c.new != c.old && strings.TrimSpace(c.new) != ""
}

func (c *RenameList) Snapshot() Command {
	cp := *c
	return &cp
}

func (c *RenameList) Stage() Stage { return StageEdit }
