package app

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/pubsub"
	"github.com/zjrosen/strata/internal/ui/toaster"
)

// listenDocument waits for the next watcher event and tags it so Update can
// tell it from a log event.
func (m Model) listenDocument() tea.Cmd {
	next := m.watcherListener.Listen()
	return func() tea.Msg {
		ev, ok := next().(pubsub.Event[string])
		if !ok {
			return nil
		}
		return documentMsg(ev)
	}
}

// handleDocumentEvent warns when another program changed or removed the
// document. strata never merges: its next save overwrites the file.
func (m Model) handleDocumentEvent(ev documentMsg) (tea.Model, tea.Cmd) {
	listen := m.listenDocument()

	var notice string
	switch ev.Type {
	case pubsub.RemovedEvent:
		notice = "Document removed on disk"
	case pubsub.ChangedEvent:
		data, err := os.ReadFile(ev.Payload) //nolint:gosec // G304: the watched document
		if err != nil {
			log.Warn(log.CatWatcher, "reading changed document failed", "path", ev.Payload, "error", err)
			return m, listen
		}
		if !m.file.ChangedExternally(data) {
			return m, listen
		}
		notice = "Document changed on disk (" + lineSummary(m.file.Written(), data) + ")"
	default:
		return m, listen
	}

	log.Warn(log.CatWatcher, notice, "path", ev.Payload)
	var toast tea.Cmd
	m.toaster, toast = m.toaster.Show(notice, toaster.StyleWarn)
	return m, tea.Batch(toast, listen)
}

// lineSummary counts the lines added and removed between two versions.
func lineSummary(before, after []byte) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(string(before), string(after))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var added, removed int
	for _, d := range diffs {
		n := strings.Count(d.Text, "\n")
		if !strings.HasSuffix(d.Text, "\n") && d.Text != "" {
			n++
		}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			added += n
		case diffmatchpatch.DiffDelete:
			removed += n
		}
	}
	return fmt.Sprintf("+%d -%d lines", added, removed)
}
