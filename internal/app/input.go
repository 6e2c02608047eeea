package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/zjrosen/strata/internal/command"
	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/editline"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/search"
	"github.com/zjrosen/strata/internal/ui/toaster"
)

// fallbackEditWidth is used before the first render has recorded a width.
const fallbackEditWidth = 40

func (m Model) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.forest()
	b := f.Active()
	k := m.keys

	switch {
	case key.Matches(msg, k.Quit):
		return m.quit()
	case key.Matches(msg, k.Help):
		m.mode = ModeHelp
	case key.Matches(msg, k.Search):
		m.query = search.Token{}
		m.editor.Reset()
		m.view = search.Reflect(b, "")
		m.mode = ModeSearch

	case key.Matches(msg, k.Up):
		b.MoveUp()
	case key.Matches(msg, k.Down):
		b.MoveDown()
	case key.Matches(msg, k.Left):
		b.MoveLeft()
	case key.Matches(msg, k.Right):
		b.MoveRight()
	case key.Matches(msg, k.Push):
		f.Push()
	case key.Matches(msg, k.Pop):
		f.Pop()

	case key.Matches(msg, k.Undo):
		return m.step(m.engine.Undo)
	case key.Matches(msg, k.Redo):
		return m.step(m.engine.Redo)

	case key.Matches(msg, k.AddItem):
		return m.stage(command.InsertItem(b), ModeEditItem)
	case key.Matches(msg, k.EditItem):
		return m.stage(command.EditSelectedItem(b), ModeEditItem)
	case key.Matches(msg, k.AddList):
		return m.stage(command.InsertList(b), ModeEditTitle)
	case key.Matches(msg, k.RenameList):
		return m.stage(command.RenameCurrentList(b), ModeEditTitle)

	case key.Matches(msg, k.DeleteItem):
		return m.commit(command.DeleteSelectedItem(b))
	case key.Matches(msg, k.ToggleItem):
		return m.commit(command.ToggleSelectedItem(b))
	case key.Matches(msg, k.Prioritize):
		return m.commit(command.PrioritizeSelectedItem(b))
	case key.Matches(msg, k.Deprioritize):
		return m.commit(command.DeprioritizeSelectedItem(b))
	case key.Matches(msg, k.ToPrevList):
		_, item := b.Selection()
		return m.commit(command.MoveToPrevList(b, item))
	case key.Matches(msg, k.ToNextList):
		_, item := b.Selection()
		return m.commit(command.MoveToNextList(b, item))
	case key.Matches(msg, k.DeleteList):
		return m.commit(command.DeleteSelectedList(b))
	case key.Matches(msg, k.ShuffleListLeft):
		return m.commit(command.ShuffleListBack(b))
	case key.Matches(msg, k.ShuffleListRight):
		return m.commit(command.ShuffleListForward(b))

	case key.Matches(msg, k.Yank):
		return m.copyOut(command.YankSelectedItem(b), "Copied")
	case key.Matches(msg, k.Cut):
		return m.copyOut(command.CutSelectedItem(b), "Cut")
	case key.Matches(msg, k.Paste):
		return m.commit(command.PasteAfterSelection(b, m.engine.Clipboard()))

	case key.Matches(msg, k.ToggleDim):
		return m.toggleDim()
	}
	return m, nil
}

// commit records cmd. Factories return nil for requests that do not apply,
// which is ignored.
func (m Model) commit(cmd command.Command) (tea.Model, tea.Cmd) {
	if cmd == nil {
		return m, nil
	}
	if err := m.engine.Commit(m.ctx, cmd); err != nil {
		return m.fail(err)
	}
	return m, nil
}

// copyOut commits a yank or cut and mirrors the clipboard to the system.
func (m Model) copyOut(cmd command.Command, verb string) (tea.Model, tea.Cmd) {
	if cmd == nil {
		return m, nil
	}
	if err := m.engine.Commit(m.ctx, cmd); err != nil {
		return m.fail(err)
	}
	text, _ := m.engine.Clipboard().Text()

	var toast tea.Cmd
	if err := m.clipboard.Copy(text); err != nil {
		log.Warn(log.CatUI, "system clipboard copy failed", "error", err)
		m.toaster, toast = m.toaster.Show("System clipboard unavailable", toaster.StyleError)
		return m, toast
	}
	m.toaster, toast = m.toaster.Show(verb+": "+text, toaster.StyleSuccess)
	return m, toast
}

func (m Model) step(fn func(context.Context) (bool, error)) (tea.Model, tea.Cmd) {
	if _, err := fn(m.ctx); err != nil {
		return m.fail(err)
	}
	return m, nil
}

// stage starts an in-place edit. The factory has already changed the board.
func (m Model) stage(cmd command.StagedCommand, mode Mode) (tea.Model, tea.Cmd) {
	if cmd == nil {
		return m, nil
	}
	if err := m.engine.Stage(cmd); err != nil {
		return m.fail(err)
	}
	m.mode = mode
	if e := m.editable(); e != nil {
		m.editor.MoveToEnd(e)
	}
	log.Debug(log.CatUI, "editing", "command", cmd.Name(), "mode", mode)
	return m, nil
}

// editable returns the text the current edit mode changes.
func (m Model) editable() editline.Editable {
	b := m.forest().Active()
	switch m.mode {
	case ModeEditTitle:
		if l := b.CurrentList(); l != nil {
			return l
		}
	case ModeEditItem:
		if it := b.CurrentItem(); it != nil {
			return it
		}
	}
	return nil
}

func (m Model) editWidth() int {
	if l := m.forest().Active().CurrentList(); l != nil && l.Width > 0 {
		return l.Width
	}
	return fallbackEditWidth
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	e := m.editable()
	if e == nil {
		m.mode = ModeNormal
		return m, nil
	}

	switch m.editor.Input(e, msg, m.editWidth()) {
	case editline.Done:
		if _, err := m.engine.Settle(m.ctx); err != nil {
			return m.fail(err)
		}
		m.mode = ModeNormal
	case editline.NewItem:
		if _, err := m.engine.Settle(m.ctx); err != nil {
			return m.fail(err)
		}
		m.mode = ModeNormal
		return m.stage(command.InsertItem(m.forest().Active()), ModeEditItem)
	}
	return m, nil
}

// handleSearchKey navigates the filtered view with arrows and types every
// other key into the query. While searching the board selection holds view
// positions, so leaving maps it back.
func (m Model) handleSearchKey(msg tea.KeyMsg) Model {
	b := m.forest().Active()
	sk := m.searchKeys

	switch {
	case key.Matches(msg, sk.Up):
		m.view.Navigate(b, search.Up)
	case key.Matches(msg, sk.Down):
		m.view.Navigate(b, search.Down)
	case key.Matches(msg, sk.Left):
		m.view.Navigate(b, search.Left)
	case key.Matches(msg, sk.Right):
		m.view.Navigate(b, search.Right)
	case key.Matches(msg, sk.Accept), key.Matches(msg, sk.Cancel):
		if m.query.Text != "" {
			m.view.SelectFromView(b)
		}
		m.query = search.Token{}
		m.view = search.View{}
		m.mode = ModeNormal
	default:
		m.editor.Input(&m.query, msg, m.width)
		m.view = search.Reflect(b, m.query.Text)
		if !m.view.UpdateSelection(b) {
			log.Debug(log.CatUI, "no matches", "query", m.query.Text)
		}
	}
	return m
}

// toggleDim flips trailing item dimming and writes the choice to the config
// file.
func (m Model) toggleDim() (tea.Model, tea.Cmd) {
	dim := !m.renderer.DimTrailingItems()
	m.renderer.SetDimTrailingItems(dim)

	var toast tea.Cmd
	if m.configPath != "" {
		if err := config.SetDimTrailingItems(m.configPath, dim); err != nil {
			log.ErrorErr(log.CatConfig, "saving dim_trailing_items failed", err, "path", m.configPath)
			m.toaster, toast = m.toaster.Show("Could not save setting", toaster.StyleError)
			return m, toast
		}
	}
	state := "off"
	if dim {
		state = "on"
	}
	m.toaster, toast = m.toaster.Show("Dim trailing items "+state, toaster.StyleInfo)
	return m, toast
}
