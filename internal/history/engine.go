// Package history records committed commands so they can be undone and
// redone, and drives the staged-edit cycle of in-place edits.
//
// The engine is single-threaded; it is owned by the UI update loop.
package history

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/strata/internal/board"
	"github.com/zjrosen/strata/internal/command"
	"github.com/zjrosen/strata/internal/forest"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/tracing"
)

// ErrStaging is returned when a history step is requested while an in-place
// edit has not been settled.
var ErrStaging = errors.New("staged edit in progress")

// State is the staged-edit state.
type State int

const (
	Idle State = iota
	StagedAdd
	StagedEdit
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case StagedAdd:
		return "staged_add"
	case StagedEdit:
		return "staged_edit"
	default:
		return "unknown"
	}
}

// Entry is a committed command and the board it was applied to.
type Entry struct {
	BoardIndex int
	Command    command.Command
}

// Persister writes the document after every successful step.
type Persister interface {
	Persist(ctx context.Context, f *forest.Forest) error
}

// PersistFunc adapts a function to Persister.
type PersistFunc func(ctx context.Context, f *forest.Forest) error

func (fn PersistFunc) Persist(ctx context.Context, f *forest.Forest) error {
	return fn(ctx, f)
}

// Option configures an Engine.
type Option func(*Engine)

// WithPersister sets what runs after each step. Without one nothing is
// written.
func WithPersister(p Persister) Option {
	return func(e *Engine) { e.persister = p }
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// Engine owns the undo and redo stacks, the clipboard slot and the pending
// staged command. Both stacks are unbounded.
type Engine struct {
	forest    *forest.Forest
	undo      []Entry
	redo      []Entry
	clipboard command.Clipboard

	staged      command.StagedCommand
	stagedBoard int
	state       State

	persister Persister
	tracer    trace.Tracer
}

// New returns an idle engine over f.
func New(f *forest.Forest, opts ...Option) *Engine {
	e := &Engine{
		forest:      f,
		stagedBoard: board.None,
		tracer:      otel.Tracer("github.com/zjrosen/strata/internal/history"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Forest returns the document the engine edits.
func (e *Engine) Forest() *forest.Forest { return e.forest }

// State returns the staged-edit state.
func (e *Engine) State() State { return e.state }

// Staged returns the pending staged command, or nil when idle.
func (e *Engine) Staged() command.StagedCommand { return e.staged }

// Clipboard returns the current clipboard slot.
func (e *Engine) Clipboard() command.Clipboard { return e.clipboard }

// CanUndo reports whether Undo would do anything.
func (e *Engine) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (e *Engine) CanRedo() bool { return len(e.redo) > 0 }

// Depth returns the sizes of the undo and redo stacks.
func (e *Engine) Depth() (undo, redo int) { return len(e.undo), len(e.redo) }

// Commit applies cmd to the active board and records it. A nil command is
// ignored.
func (e *Engine) Commit(ctx context.Context, cmd command.Command) (err error) {
	if e.state != Idle {
		return ErrStaging
	}
	if cmd == nil {
		return nil
	}

	idx := e.forest.ActiveIndex()
	ctx, span := e.tracer.Start(ctx, tracing.SpanCommit,
		trace.WithAttributes(tracing.CommandAttrs(cmd.Name(), idx)...))
	defer func() { tracing.Finish(span, err) }()

	e.run(idx, cmd.Apply)
	e.undo = append(e.undo, Entry{BoardIndex: idx, Command: cmd})
	e.redo = nil
	log.Debug(log.CatHistory, "committed", "command", cmd.Name(), "board", idx, "undo", len(e.undo))

	return e.persist(ctx)
}

// Stage records cmd as the pending in-place edit. The board has already been
// mutated speculatively by the factory that built cmd. A nil command is
// ignored.
func (e *Engine) Stage(cmd command.StagedCommand) error {
	if e.state != Idle {
		return ErrStaging
	}
	if cmd == nil {
		return nil
	}

	e.staged = cmd
	e.stagedBoard = e.forest.ActiveIndex()
	switch cmd.Stage() {
	case command.StageAdd:
		e.state = StagedAdd
	default:
		e.state = StagedEdit
	}
	log.Debug(log.CatHistory, "staged", "command", cmd.Name(), "state", e.state)
	return nil
}

// Settle finalizes the pending edit. An accepted edit is recorded and
// persisted; a rejected one is reverted on the spot. Settle reports whether
// the edit was kept. It is a no-op when idle.
func (e *Engine) Settle(ctx context.Context) (accepted bool, err error) {
	if e.state == Idle {
		return false, nil
	}

	cmd, idx := e.staged, e.stagedBoard
	ctx, span := e.tracer.Start(ctx, tracing.SpanSettle,
		trace.WithAttributes(tracing.CommandAttrs(cmd.Name(), idx)...),
		trace.WithAttributes(attribute.String(tracing.AttrStage, e.state.String())))
	defer func() {
		span.SetAttributes(attribute.Bool(tracing.AttrAccepted, accepted))
		tracing.Finish(span, err)
	}()

	e.staged = nil
	e.stagedBoard = board.None
	e.state = Idle

	b := e.forest.Board(idx)
	if b == nil {
		return false, fmt.Errorf("settle %s: board %d missing", cmd.Name(), idx)
	}
	if !cmd.Finalize(b) {
		e.run(idx, cmd.Revert)
		log.Debug(log.CatHistory, "discarded staged edit", "command", cmd.Name(), "board", idx)
		return false, nil
	}

	e.undo = append(e.undo, Entry{BoardIndex: idx, Command: cmd.Snapshot()})
	e.redo = nil
	log.Debug(log.CatHistory, "settled", "command", cmd.Name(), "board", idx, "undo", len(e.undo))
	return true, e.persist(ctx)
}

// Undo reverts the most recent command, first navigating to the board it
// changed. It reports whether anything was undone.
func (e *Engine) Undo(ctx context.Context) (bool, error) {
	return e.step(ctx, tracing.SpanUndo, &e.undo, &e.redo, command.Command.Revert)
}

// Redo reapplies the most recently undone command.
func (e *Engine) Redo(ctx context.Context) (bool, error) {
	return e.step(ctx, tracing.SpanRedo, &e.redo, &e.undo, command.Command.Apply)
}

func (e *Engine) step(ctx context.Context, name string, from, to *[]Entry, do func(command.Command, *command.Context)) (ok bool, err error) {
	if e.state != Idle {
		return false, ErrStaging
	}
	if len(*from) == 0 {
		return false, nil
	}

	entry := (*from)[len(*from)-1]
	ctx, span := e.tracer.Start(ctx, name,
		trace.WithAttributes(tracing.CommandAttrs(entry.Command.Name(), entry.BoardIndex)...))
	defer func() { tracing.Finish(span, err) }()

	if e.forest.Board(entry.BoardIndex) == nil {
		return false, fmt.Errorf("%s %s: board %d missing", name, entry.Command.Name(), entry.BoardIndex)
	}
	*from = (*from)[:len(*from)-1]

	if entry.BoardIndex != e.forest.ActiveIndex() && !e.forest.Jump(entry.BoardIndex) {
		log.Warn(log.CatHistory, "board is no longer linked from the document; this change will not be saved",
			"command", entry.Command.Name(), "board", entry.BoardIndex)
	}

	// The selection is not cleared first. Every command's bookmark sets it,
	// and wiping the other lists' remembered selections would make redo
	// after undo differ from the state before the undo.
	e.run(entry.BoardIndex, func(c *command.Context) { do(entry.Command, c) })
	*to = append(*to, entry)
	log.Debug(log.CatHistory, name, "command", entry.Command.Name(), "board", entry.BoardIndex)

	return true, e.persist(ctx)
}

// run executes fn against board idx with a fresh context and keeps whatever
// the command left in the clipboard.
func (e *Engine) run(idx int, fn func(*command.Context)) {
	c := &command.Context{Board: e.forest.Board(idx), Clipboard: e.clipboard}
	fn(c)
	e.clipboard = c.Clipboard
}

func (e *Engine) persist(ctx context.Context) error {
	if e.persister == nil {
		return nil
	}
	if err := e.persister.Persist(ctx, e.forest); err != nil {
		log.ErrorErr(log.CatHistory, "persist failed", err)
		return fmt.Errorf("persist: %w", err)
	}
	return nil
}
