// Package command implements the reversible edits of the outline.
//
// Every Command is an exact inverse pair: Revert undoes everything Apply did,
// including the selection. Commands that have to wait for user input before
// their content is known are StagedCommands: the board is mutated
// speculatively, the user types, and Finalize decides whether the edit is
// kept.
package command

import "github.com/zjrosen/strata/internal/board"

// Context is the mutable state a command touches during one application.
type Context struct {
	Board     *board.Board
	Clipboard Clipboard
}

// Command is a reversible mutation of a board.
type Command interface {
	// Apply performs the mutation and selects its result.
	Apply(ctx *Context)
	// Revert undoes Apply and restores the selection that preceded it.
	Revert(ctx *Context)
	// Name identifies the command in logs and traces.
	Name() string
}

// Stage tells the history engine what kind of edit is pending.
type Stage int

const (
	StageAdd Stage = iota
	StageEdit
)

func (s Stage) String() string {
	switch s {
	case StageAdd:
		return "add"
	case StageEdit:
		return "edit"
	default:
		return "unknown"
	}
}

// StagedCommand is a command whose content is captured after the user has
// finished editing the board in place.
type StagedCommand interface {
	Command
	// Finalize captures the edited content. It returns false when the edit
	// should be discarded.
	Finalize(b *board.Board) bool
	// Snapshot returns an independent plain command for the history.
	Snapshot() Command
	// Stage reports whether the command adds or edits content.
	Stage() Stage
}

// Clipboard is the single yank/cut slot. The zero value is empty.
type Clipboard struct {
	text string
	set  bool
}

// NewClipboard returns a clipboard holding text.
func NewClipboard(text string) Clipboard {
	return Clipboard{text: text, set: true}
}

// Text returns the stored text and whether anything is stored.
func (c Clipboard) Text() (string, bool) {
	return c.text, c.set
}

// Empty reports whether pasting would insert nothing.
func (c Clipboard) Empty() bool {
	return !c.set || c.text == ""
}
