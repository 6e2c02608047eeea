package forest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/board"
)

func withItem() *Forest {
	f := New("Project")
	f.Boards[Root] = board.New(board.NewList("Todo", board.NewItem("parent"), board.NewItem("other")))
	return f
}

func TestPush_AllocatesChildBoard(t *testing.T) {
	f := withItem()

	require.True(t, f.Push())
	require.Equal(t, 1, f.ActiveIndex())
	require.Equal(t, 1, f.Depth())
	require.Len(t, f.Boards, 2)
	require.Equal(t, 1, f.Boards[Root].Lists[0].Items[0].ChildBoard)
	require.True(t, f.Active().Empty())
}

func TestPush_NothingSelected(t *testing.T) {
	f := New("Project")
	require.False(t, f.Push())
	require.Equal(t, Root, f.ActiveIndex())
}

func TestPop_PrunesEmptyBoard(t *testing.T) {
	f := withItem()
	require.True(t, f.Push())
	require.True(t, f.Pop())

	require.Equal(t, Root, f.ActiveIndex())
	require.False(t, f.Boards[Root].Lists[0].Items[0].HasChildBoard())
}

func TestPop_KeepsNonEmptyBoard(t *testing.T) {
	f := withItem()
	require.True(t, f.Push())
	f.Active().InsertList(0, board.NewList("Sub"))
	require.True(t, f.Pop())

	require.Equal(t, 1, f.Boards[Root].Lists[0].Items[0].ChildBoard)

	require.True(t, f.Push(), "re-entering reuses the child board")
	require.Len(t, f.Boards, 2)
	require.Equal(t, "Sub", f.Active().Lists[0].Name)
}

func TestPop_AtRoot(t *testing.T) {
	f := withItem()
	require.False(t, f.Pop())
}

func TestPushReference_PopDoesNotPrune(t *testing.T) {
	f := withItem()
	require.True(t, f.Push())
	f.Active().InsertList(0, board.NewList("Sub"))
	require.True(t, f.Pop())

	f.PushReference(Reference{Board: 1, SourceBoard: board.None, SourceList: board.None, SourceItem: board.None})
	require.Equal(t, 1, f.ActiveIndex())
	f.Active().RemoveList(0)
	require.True(t, f.Pop())
	require.Equal(t, 1, f.Boards[Root].Lists[0].Items[0].ChildBoard, "no source item to unlink")
}

func TestBreadcrumb(t *testing.T) {
	f := withItem()
	require.Equal(t, []string{"Project"}, f.Breadcrumb())

	f.Push()
	require.Equal(t, []string{"Project", "parent"}, f.Breadcrumb())

	f.PushReference(Reference{Board: 0, SourceBoard: board.None, SourceList: board.None, SourceItem: board.None})
	require.Equal(t, []string{"Project", "parent", "board 0"}, f.Breadcrumb())
}

func TestRestore(t *testing.T) {
	f := withItem()
	f.Push()
	f.Active().InsertList(0, board.NewList("Sub"))
	path := append([]Reference(nil), f.Path...)
	f.Pop()

	require.True(t, f.Restore(path))
	require.Equal(t, 1, f.ActiveIndex())

	f.Pop()
	stale := append([]Reference(nil), path...)
	stale[1].SourceItem = 1
	require.False(t, f.Restore(stale))
	require.False(t, f.Restore(nil))
}

func TestReachable_SkipsOrphans(t *testing.T) {
	f := withItem()
	f.Push()
	f.Active().InsertList(0, board.NewList("Sub"))
	f.Pop()
	f.Boards = append(f.Boards, board.New(board.NewList("orphan")))

	require.Equal(t, []int{0, 1}, f.Reachable())
}

func TestJump_RelinksPrunedBoard(t *testing.T) {
	f := withItem()
	require.True(t, f.Push())
	require.True(t, f.Pop())
	require.False(t, f.Boards[Root].Lists[0].Items[0].HasChildBoard())

	require.True(t, f.Jump(1))
	require.Equal(t, 1, f.ActiveIndex())
	require.Equal(t, 1, f.Boards[Root].Lists[0].Items[0].ChildBoard)
	require.Equal(t, []string{"Project", "parent"}, f.Breadcrumb())
	require.Contains(t, f.Reachable(), 1)
}

func TestJump_KeepsNewerChildBoard(t *testing.T) {
	f := withItem()
	require.True(t, f.Push())
	require.True(t, f.Pop())

	// Entering again allocates a fresh board for the same item.
	require.True(t, f.Push())
	f.Active().InsertList(0, board.NewList("Fresh"))
	require.True(t, f.Pop())
	require.Equal(t, 2, f.Boards[Root].Lists[0].Items[0].ChildBoard)

	require.False(t, f.Jump(1))
	require.Equal(t, 1, f.ActiveIndex())
	require.Equal(t, 2, f.Boards[Root].Lists[0].Items[0].ChildBoard)
	require.Equal(t, board.None, f.Path[len(f.Path)-1].SourceBoard)
}

func TestJump_LinkedBoardPushesPlainStep(t *testing.T) {
	f := withItem()
	require.True(t, f.Push())
	f.Active().InsertList(0, board.NewList("Kept"))
	require.True(t, f.Pop())

	require.True(t, f.Jump(1))
	require.Equal(t, board.None, f.Path[len(f.Path)-1].SourceBoard)
	require.Equal(t, 1, f.Depth())
}
