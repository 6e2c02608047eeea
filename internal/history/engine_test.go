package history

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zjrosen/strata/internal/board"
	"github.com/zjrosen/strata/internal/command"
	"github.com/zjrosen/strata/internal/forest"
	"github.com/zjrosen/strata/internal/tracing"
)

func sampleForest() *forest.Forest {
	child := board.New(board.NewList("Sub", board.NewItem("deep")))
	parent := board.NewItem("a")
	parent.ChildBoard = 1
	root := board.New(
		board.NewList("Todo", parent, board.NewItem("b"), board.NewItem("c")),
		board.NewList("Done"),
	)
	return forest.FromBoards("Project", []*board.Board{root, child})
}

type countingPersister struct {
	calls int
	err   error
}

func (p *countingPersister) Persist(context.Context, *forest.Forest) error {
	p.calls++
	return p.err
}

func TestEngine_CommitUndoRedo(t *testing.T) {
	f := sampleForest()
	p := &countingPersister{}
	e := New(f, WithPersister(p))
	ctx := context.Background()

	root := f.Active()
	root.Select(0, 2)
	require.NoError(t, e.Commit(ctx, command.PrioritizeSelectedItem(root)))
	require.Equal(t, "c", root.Lists[0].Items[1].Text)
	require.Equal(t, 1, root.Lists[0].Selected)
	require.True(t, e.CanUndo())
	require.False(t, e.CanRedo())

	ok, err := e.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "b", root.Lists[0].Items[1].Text)
	require.Equal(t, 2, root.Lists[0].Selected)

	ok, err = e.Redo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "c", root.Lists[0].Items[1].Text)
	require.Equal(t, 3, p.calls)

	ok, err = e.Redo(ctx)
	require.NoError(t, err)
	require.False(t, ok, "redo stack is empty")
}

func TestEngine_CommitClearsRedo(t *testing.T) {
	f := sampleForest()
	e := New(f)
	ctx := context.Background()
	root := f.Active()

	require.NoError(t, e.Commit(ctx, command.ToggleSelectedItem(root)))
	_, err := e.Undo(ctx)
	require.NoError(t, err)
	require.True(t, e.CanRedo())

	require.NoError(t, e.Commit(ctx, command.DeleteSelectedItem(root)))
	require.False(t, e.CanRedo())
	undo, redo := e.Depth()
	require.Equal(t, 1, undo)
	require.Equal(t, 0, redo)
}

func TestEngine_NilCommandIsIgnored(t *testing.T) {
	p := &countingPersister{}
	e := New(forest.New("x"), WithPersister(p))
	require.NoError(t, e.Commit(context.Background(), nil))
	require.NoError(t, e.Stage(nil))
	require.False(t, e.CanUndo())
	require.Equal(t, Idle, e.State())
	require.Zero(t, p.calls)
}

func TestEngine_StagedAddAccepted(t *testing.T) {
	f := sampleForest()
	p := &countingPersister{}
	e := New(f, WithPersister(p))
	ctx := context.Background()
	root := f.Active()

	require.NoError(t, e.Stage(command.InsertItem(root)))
	require.Equal(t, StagedAdd, e.State())
	require.Equal(t, 4, root.Lists[0].Len())

	root.CurrentItem().SetEditableText("new")

	require.ErrorIs(t, e.Commit(ctx, command.ToggleSelectedItem(root)), ErrStaging)
	_, err := e.Undo(ctx)
	require.ErrorIs(t, err, ErrStaging)
	require.ErrorIs(t, e.Stage(command.EditSelectedItem(root)), ErrStaging)

	accepted, err := e.Settle(ctx)
	require.NoError(t, err)
	require.True(t, accepted)
	require.Equal(t, Idle, e.State())
	require.Nil(t, e.Staged())
	require.Equal(t, 1, p.calls)

	_, err = e.Undo(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, root.Lists[0].Len())
	require.Equal(t, 0, root.Lists[0].Selected)

	_, err = e.Redo(ctx)
	require.NoError(t, err)
	require.Equal(t, "new", root.Lists[0].Items[1].Text)
	require.Equal(t, 1, root.Lists[0].Selected)
}

func TestEngine_StagedRejectedIsReverted(t *testing.T) {
	f := sampleForest()
	p := &countingPersister{}
	e := New(f, WithPersister(p))
	root := f.Active()
	before := root.Clone()

	require.NoError(t, e.Stage(command.InsertList(root)))
	require.Len(t, root.Lists, 3)

	accepted, err := e.Settle(context.Background())
	require.NoError(t, err)
	require.False(t, accepted)
	require.Equal(t, before, root)
	require.False(t, e.CanUndo())
	require.Zero(t, p.calls)
}

func TestEngine_StagedEdit(t *testing.T) {
	f := sampleForest()
	e := New(f)
	root := f.Active()

	require.NoError(t, e.Stage(command.EditSelectedItem(root)))
	require.Equal(t, StagedEdit, e.State())
	root.CurrentItem().SetEditableText("renamed")

	accepted, err := e.Settle(context.Background())
	require.NoError(t, err)
	require.True(t, accepted)

	_, err = e.Undo(context.Background())
	require.NoError(t, err)
	require.Equal(t, "a", root.CurrentItem().Text)
}

func TestEngine_SettleWhenIdle(t *testing.T) {
	e := New(forest.New("x"))
	accepted, err := e.Settle(context.Background())
	require.NoError(t, err)
	require.False(t, accepted)
}

func TestEngine_UndoNavigatesToChangedBoard(t *testing.T) {
	f := sampleForest()
	e := New(f)
	ctx := context.Background()

	require.True(t, f.Push())
	require.Equal(t, 1, f.ActiveIndex())
	require.NoError(t, e.Commit(ctx, command.ToggleSelectedItem(f.Active())))
	require.True(t, f.Pop())
	require.Equal(t, forest.Root, f.ActiveIndex())

	_, err := e.Undo(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, f.ActiveIndex())
	require.False(t, f.Board(1).Lists[0].Items[0].Done)

	top := f.Path[len(f.Path)-1]
	require.Equal(t, board.None, top.SourceBoard)

	// Redo on the board we are already on does not push again.
	depth := f.Depth()
	_, err = e.Redo(ctx)
	require.NoError(t, err)
	require.Equal(t, depth, f.Depth())
	require.True(t, f.Board(1).Lists[0].Items[0].Done)
}

func TestEngine_UndoRelinksPrunedBoard(t *testing.T) {
	f := sampleForest()
	e := New(f)
	ctx := context.Background()
	root := f.Active()

	require.True(t, f.Push())
	require.NoError(t, e.Commit(ctx, command.DeleteSelectedList(f.Active())))
	require.True(t, f.Active().Empty())
	require.True(t, f.Pop())
	require.False(t, root.Lists[0].Items[0].HasChildBoard(), "empty board is pruned")
	require.NotContains(t, f.Reachable(), 1)

	ok, err := e.Undo(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, f.ActiveIndex())
	require.Equal(t, "Sub", f.Active().Lists[0].Name)
	require.Equal(t, 1, root.Lists[0].Items[0].ChildBoard)
	require.Contains(t, f.Reachable(), 1)
	require.Equal(t, []string{"Project", "a"}, f.Breadcrumb())
}

func TestEngine_ClipboardFollowsHistory(t *testing.T) {
	f := sampleForest()
	e := New(f)
	ctx := context.Background()
	root := f.Active()

	require.True(t, e.Clipboard().Empty())
	require.NoError(t, e.Commit(ctx, command.CutSelectedItem(root)))
	text, ok := e.Clipboard().Text()
	require.True(t, ok)
	require.Equal(t, "a", text)

	root.MoveRight()
	require.NoError(t, e.Commit(ctx, command.PasteAfterSelection(root, e.Clipboard())))
	require.Equal(t, "a", root.Lists[1].Items[0].Text)

	_, err := e.Undo(ctx)
	require.NoError(t, err)
	_, err = e.Undo(ctx)
	require.NoError(t, err)
	require.True(t, e.Clipboard().Empty())
	require.Equal(t, "a", root.Lists[0].Items[0].Text)
	require.Equal(t, 1, root.Lists[0].Items[0].ChildBoard)
}

func TestEngine_PersistError(t *testing.T) {
	f := sampleForest()
	boom := errors.New("read-only filesystem")
	e := New(f, WithPersister(PersistFunc(func(context.Context, *forest.Forest) error { return boom })))

	err := e.Commit(context.Background(), command.ToggleSelectedItem(f.Active()))
	require.ErrorIs(t, err, boom)
	require.True(t, e.CanUndo(), "the step happened even though it was not saved")
}

func TestEngine_Spans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	f := sampleForest()
	e := New(f, WithTracer(tp.Tracer("test")))
	ctx := context.Background()
	root := f.Active()

	require.NoError(t, e.Commit(ctx, command.ToggleSelectedItem(root)))
	require.NoError(t, e.Stage(command.EditSelectedItem(root)))
	_, err := e.Settle(ctx)
	require.NoError(t, err)
	_, err = e.Undo(ctx)
	require.NoError(t, err)
	_, err = e.Redo(ctx)
	require.NoError(t, err)

	ended := rec.Ended()
	require.Len(t, ended, 4)
	names := make([]string, len(ended))
	for i, s := range ended {
		names[i] = s.Name()
	}
	require.Equal(t, []string{tracing.SpanCommit, tracing.SpanSettle, tracing.SpanUndo, tracing.SpanRedo}, names)

	attrs := ended[0].Attributes()
	require.Contains(t, attrs, attribute.String(tracing.AttrCommandName, "toggle_item"))
	require.Contains(t, attrs, attribute.Int(tracing.AttrBoardIndex, 0))
	require.Contains(t, ended[1].Attributes(), attribute.Bool(tracing.AttrAccepted, false))
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", Idle.String())
	require.Equal(t, "staged_add", StagedAdd.String())
	require.Equal(t, "staged_edit", StagedEdit.String())
}
