package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/board"
)

func items(texts ...string) []board.Item {
	out := make([]board.Item, len(texts))
	for i, s := range texts {
		out[i] = board.NewItem(s)
	}
	return out
}

func sampleBoard() *board.Board {
	return board.New(
		board.NewList("A", items("Buy milk", "walk dog", "MILK again")...),
		board.NewList("B", items("nothing here")...),
		board.NewList("C", items("x", "y", "oat milk")...),
	)
}

func TestReflect_CaseInsensitive(t *testing.T) {
	v := Reflect(sampleBoard(), "milk")
	require.Equal(t, []Entry{{0, 0}, {1, 2}}, v.Visible(0))
	require.Empty(t, v.Visible(1))
	require.Equal(t, []Entry{{0, 2}}, v.Visible(2))
	require.Equal(t, 3, v.Matches())
	require.Nil(t, v.Visible(7))

	require.Equal(t, 7, Reflect(sampleBoard(), "").Matches())
}

func TestView_NavigateAndSelect(t *testing.T) {
	b := sampleBoard()
	v := Reflect(b, "milk")
	require.True(t, v.UpdateSelection(b))
	require.Equal(t, 0, b.Current)
	require.Equal(t, 0, b.Lists[0].Selected)

	v.Navigate(b, Down)
	require.Equal(t, 1, b.Lists[0].Selected)
	v.Navigate(b, Down)
	require.Equal(t, 1, b.Lists[0].Selected, "cannot leave the matches")

	v.Navigate(b, Right)
	require.Equal(t, 2, b.Current, "list without matches is skipped")
	require.Equal(t, 0, b.Lists[2].Selected)

	v.Navigate(b, Right)
	require.Equal(t, 2, b.Current)

	v.SelectFromView(b)
	require.Equal(t, "oat milk", b.CurrentItem().Text)

	v.Navigate(b, Left)
	require.Equal(t, 0, b.Current)
}

func TestView_SelectFromViewMapsIndex(t *testing.T) {
	b := sampleBoard()
	v := Reflect(b, "milk")
	v.UpdateSelection(b)
	v.Navigate(b, Down)
	v.SelectFromView(b)
	require.Equal(t, "MILK again", b.CurrentItem().Text)
}

func TestView_NoMatches(t *testing.T) {
	b := sampleBoard()
	b.Select(1, 0)
	v := Reflect(b, "zebra")
	require.False(t, v.UpdateSelection(b))
	v.Navigate(b, Right)
	v.SelectFromView(b)
	require.Equal(t, 1, b.Current, "selection untouched")
}

func TestView_EmptyBoard(t *testing.T) {
	b := board.New()
	v := Reflect(b, "a")
	require.NotPanics(t, func() {
		v.Navigate(b, Down)
		v.SelectFromView(b)
		v.UpdateSelection(b)
	})
}

func TestToken_Editable(t *testing.T) {
	var tok Token
	tok.SetEditableText("abc")
	require.Equal(t, "abc", tok.EditableText())
}
