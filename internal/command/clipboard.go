package command

import "github.com/zjrosen/strata/internal/board"

// YankItem copies an item's text into the clipboard.
type YankItem struct {
	list, pos int
	previous  Clipboard
	bookmark  SelectionBookmark
}

func (c *YankItem) Apply(ctx *Context) {
	c.previous = ctx.Clipboard
	if it := itemAt(ctx.Board, c.list, c.pos); it != nil {
		ctx.Clipboard = NewClipboard(it.Text)
	}
	c.bookmark.Select(ctx.Board)
}

func (c *YankItem) Revert(ctx *Context) {
	ctx.Clipboard = c.previous
	c.bookmark.Select(ctx.Board)
}

func (c *YankItem) Name() string { return "yank_item" }

// CutItem removes an item and puts its text into the clipboard.
type CutItem struct {
	list, pos int
	value     board.Item
	previous  Clipboard
	bookmark  SelectionBookmark
}

func (c *CutItem) Apply(ctx *Context) {
	c.previous = ctx.Clipboard
	l := listAt(ctx.Board, c.list)
	if l == nil {
		return
	}
	v, ok := l.Remove(c.pos)
	if !ok {
		return
	}
	c.value = v
	ctx.Clipboard = NewClipboard(v.Text)
	ctx.Board.Select(c.list, c.pos-1)
}

func (c *CutItem) Revert(ctx *Context) {
	if l := listAt(ctx.Board, c.list); l != nil {
		l.Insert(c.pos, c.value)
	}
	ctx.Clipboard = c.previous
	c.bookmark.Select(ctx.Board)
}

func (c *CutItem) Name() string { return "cut_item" }

// PasteItem inserts a new item holding text.
type PasteItem struct {
	list, pos int
	text      string
	bookmark  SelectionBookmark
}

func (c *PasteItem) Apply(ctx *Context) {
	l := listAt(ctx.Board, c.list)
	if l == nil {
		return
	}
	c.pos = l.Insert(c.pos, board.NewItem(c.text))
	ctx.Board.Select(c.list, c.pos)
}

func (c *PasteItem) Revert(ctx *Context) {
	if l := listAt(ctx.Board, c.list); l != nil {
		l.Remove(c.pos)
	}
	c.bookmark.Select(ctx.Board)
}

func (c *PasteItem) Name() string { return "paste_item" }
