package boardview

import (
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/board"
	"github.com/zjrosen/strata/internal/search"
	"github.com/zjrosen/strata/internal/ui/styles"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	zone.NewGlobal()
	os.Exit(m.Run())
}

func newRenderer() *Renderer {
	return New(Options{Theme: styles.DefaultTheme()})
}

func sample() *board.Board {
	linked := board.NewItem("deploy #ops")
	linked.ChildBoard = 3
	done := board.NewItem("write docs")
	done.Done = true
	return board.New(
		board.NewList("Todo", board.NewItem("plan release"), linked),
		board.NewList("Done", done),
	)
}

func render(r *Renderer, f Frame) string {
	return zone.Scan(r.Render(f))
}

func TestRender_EmptyBoard(t *testing.T) {
	out := render(newRenderer(), Frame{Board: board.New(), Breadcrumb: []string{"Doc", "child"}, Width: 80, Height: 20})

	require.Contains(t, out, "Doc 〉 child")
	require.Contains(t, out, "This board is empty.")
}

func TestRender_ListsAndItems(t *testing.T) {
	b := sample()
	out := render(newRenderer(), Frame{Board: b, Breadcrumb: []string{"Doc"}, Width: 80, Height: 20})

	for _, want := range []string{"Todo", "Done", "plan release", "deploy #ops", "write docs", fringeGlyph} {
		require.Contains(t, out, want)
	}
	require.Equal(t, 40-columnChrome, b.Lists[0].Width, "renderer records the text width")
	require.Equal(t, 40-columnChrome, b.Lists[1].Width)
}

func TestRender_CustomSeparator(t *testing.T) {
	r := New(Options{Theme: styles.DefaultTheme(), PathSeparator: " / "})
	out := render(r, Frame{Board: sample(), Breadcrumb: []string{"Doc", "a", "b"}, Width: 80, Height: 20})

	require.Contains(t, out, "Doc / a / b")
}

func TestRender_WrapsLongItems(t *testing.T) {
	b := board.New(board.NewList("L", board.NewItem("alpha beta gamma delta epsilon")))
	out := render(newRenderer(), Frame{Board: b, Width: 20, Height: 20})

	require.Contains(t, out, "alpha beta gamma")
	require.Contains(t, out, "delta epsilon")
}

func TestRender_SearchShowsOnlyMatches(t *testing.T) {
	b := sample()
	v := search.Reflect(b, "DEPLOY")
	v.UpdateSelection(b)

	out := render(newRenderer(), Frame{Board: b, View: &v, Width: 80, Height: 20})
	require.Contains(t, out, "deploy #ops")
	require.NotContains(t, out, "plan release")
	require.NotContains(t, out, "write docs")
	require.Contains(t, out, "Done", "lists stay visible without matches")
}

func TestRender_EditingShowsText(t *testing.T) {
	b := sample()
	b.Select(0, 1)
	out := render(newRenderer(), Frame{Board: b, Edit: EditItem, Cursor: 3, Width: 80, Height: 20})
	require.Contains(t, out, "deploy #ops")

	out = render(newRenderer(), Frame{Board: b, Edit: EditTitle, Cursor: 0, Width: 80, Height: 20})
	require.Contains(t, out, "Todo")
}

func TestRender_ScrollsToSelection(t *testing.T) {
	items := make([]board.Item, 30)
	for i := range items {
		items[i] = board.NewItem("item-" + string(rune('A'+i%26)) + strings.Repeat("x", i/26))
	}
	b := board.New(board.NewList("Long", items...))
	b.Select(0, 29)

	out := render(newRenderer(), Frame{Board: b, Width: 40, Height: 10})
	require.Contains(t, out, "item-Dx")
	require.NotContains(t, out, "item-C ")
	require.NotContains(t, out, "item-B ")
	require.LessOrEqual(t, len(strings.Split(out, "\n")), 10)
}

func TestWindow(t *testing.T) {
	tests := []struct {
		lists, current, width int
		first, count          int
	}{
		{lists: 2, current: 0, width: 80, first: 0, count: 2},
		{lists: 5, current: 4, width: 60, first: 2, count: 3},
		{lists: 5, current: 1, width: 60, first: 0, count: 3},
		{lists: 3, current: 2, width: 10, first: 2, count: 1},
	}
	for _, tt := range tests {
		first, count := window(tt.lists, tt.current, tt.width)
		require.Equal(t, tt.first, first)
		require.Equal(t, tt.count, count)
	}
}

func TestRender_ShowsCurrentListWhenNarrow(t *testing.T) {
	b := board.New(
		board.NewList("One", board.NewItem("a")),
		board.NewList("Two", board.NewItem("b")),
		board.NewList("Three", board.NewItem("c")),
	)
	b.Select(2, 0)

	out := render(newRenderer(), Frame{Board: b, Width: 20, Height: 10})
	require.Contains(t, out, "Three")
	require.NotContains(t, out, "One")
}

func TestLayoutCache_Reused(t *testing.T) {
	r := newRenderer()
	f := Frame{Board: sample(), Width: 80, Height: 20}
	render(r, f)
	n := r.layout.store.Len()
	require.Positive(t, n)

	render(r, f)
	require.Equal(t, n, r.layout.store.Len())
}

func TestHit(t *testing.T) {
	r := newRenderer()
	b := sample()
	render(r, Frame{Board: b, Width: 80, Height: 20})

	// rows: breadcrumb, blank, list header, blank, first item
	click := tea.MouseMsg{X: 2, Y: 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	require.Eventually(t, func() bool {
		li, ii, ok := r.Hit(b, click)
		return ok && li == 0 && ii == 0
	}, time.Second, 10*time.Millisecond)

	header := tea.MouseMsg{X: 42, Y: 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	require.Eventually(t, func() bool {
		li, ii, ok := r.Hit(b, header)
		return ok && li == 1 && ii == board.None
	}, time.Second, 10*time.Millisecond)
}
