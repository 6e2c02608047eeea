package logpane

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/strata/internal/log"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+x":
		return tea.KeyMsg{Type: tea.KeyCtrlX}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func sized() Model {
	m := New()
	m.SetSize(100, 40)
	return m
}

func TestAppend_KeepsMostRecent(t *testing.T) {
	m := New()
	for i := range maxEntries + 10 {
		m.Append(fmt.Sprintf("2026-10-18T10:00:00 [INFO] [ui] entry-%d\n", i))
	}
	entries := m.Entries()
	require.Len(t, entries, maxEntries)
	require.Contains(t, entries[0], "entry-10")
	require.NotContains(t, entries[len(entries)-1], "\n")
}

func TestLevelFilter(t *testing.T) {
	m := sized()
	m.Toggle()
	m.Append("t [DEBUG] [nav] moving")
	m.Append("t [INFO] [outline] saved")
	m.Append("t [WARN] [watcher] changed on disk")
	m.Append("t [ERROR] [state] write failed")

	require.Len(t, m.Entries(), 4)

	m, _ = m.Update(key("w"))
	require.Equal(t, []string{"t [WARN] [watcher] changed on disk", "t [ERROR] [state] write failed"}, m.Entries())

	m, _ = m.Update(key("e"))
	require.Len(t, m.Entries(), 1)

	m, _ = m.Update(key("d"))
	require.Len(t, m.Entries(), 4)

	m, _ = m.Update(key("c"))
	require.Empty(t, m.Entries())
	require.Contains(t, m.View(), "No logs to display")
}

func TestKeysIgnoredWhenHidden(t *testing.T) {
	m := sized()
	m.Append("t [INFO] [ui] one")
	m, _ = m.Update(key("c"))
	require.Len(t, m.Entries(), 1)
}

func TestToggleAndClose(t *testing.T) {
	m := sized()
	require.False(t, m.Visible())
	require.Equal(t, "bg", m.Overlay("bg"))

	m.Toggle()
	require.True(t, m.Visible())
	m.Append("t [INFO] [ui] hello")
	view := m.View()
	require.Contains(t, view, "Logs")
	require.Contains(t, view, "hello")
	require.Contains(t, view, "[i] Info")

	for _, k := range []string{"esc", "ctrl+x"} {
		if !m.Visible() {
			m.Toggle()
		}
		var cmd tea.Cmd
		m, cmd = m.Update(key(k))
		require.False(t, m.Visible())
		require.IsType(t, CloseMsg{}, cmd())
	}
}

func TestLevelOf(t *testing.T) {
	require.Equal(t, log.LevelDebug, levelOf("x [DEBUG] y"))
	require.Equal(t, log.LevelWarn, levelOf("x [WARN] y"))
	require.Equal(t, log.LevelError, levelOf("no tag"))
}
