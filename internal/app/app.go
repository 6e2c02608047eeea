// Package app contains the root application model.
package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/strata/internal/board"
	"github.com/zjrosen/strata/internal/config"
	"github.com/zjrosen/strata/internal/editline"
	"github.com/zjrosen/strata/internal/forest"
	"github.com/zjrosen/strata/internal/history"
	"github.com/zjrosen/strata/internal/keys"
	"github.com/zjrosen/strata/internal/log"
	"github.com/zjrosen/strata/internal/outline"
	"github.com/zjrosen/strata/internal/pubsub"
	"github.com/zjrosen/strata/internal/search"
	"github.com/zjrosen/strata/internal/sysclip"
	"github.com/zjrosen/strata/internal/ui/boardview"
	"github.com/zjrosen/strata/internal/ui/logpane"
	"github.com/zjrosen/strata/internal/ui/overlay"
	"github.com/zjrosen/strata/internal/ui/styles"
	"github.com/zjrosen/strata/internal/ui/toaster"
	"github.com/zjrosen/strata/internal/viewstate"
	"github.com/zjrosen/strata/internal/watcher"
)

// Mode is the input mode keys are routed by.
type Mode int

const (
	ModeNormal Mode = iota
	ModeEditTitle
	ModeEditItem
	ModeSearch
	ModeHelp
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "normal"
	case ModeEditTitle:
		return "edit_title"
	case ModeEditItem:
		return "edit_item"
	case ModeSearch:
		return "search"
	case ModeHelp:
		return "help"
	default:
		return "unknown"
	}
}

// Options are the collaborators the model is built from. Forest must be the
// document File opened. State, Watcher and Tracer are optional.
type Options struct {
	Config     config.Config
	ConfigPath string
	File       *outline.File
	Forest     *forest.Forest
	State      *viewstate.Store
	Watcher    *watcher.Watcher
	Clipboard  sysclip.Clipboard
	Tracer     trace.Tracer
	Debug      bool
}

// documentMsg is a watcher event on the open document. It is kept apart
// from log events, which share the same pubsub payload type.
type documentMsg pubsub.Event[string]

// restoredMsg reports that the saved navigation path was re-entered.
type restoredMsg struct{}

// Model is the root application state.
type Model struct {
	mode   Mode
	width  int
	height int

	ctx    context.Context
	cancel context.CancelFunc

	engine     *history.Engine
	file       *outline.File
	docKey     string
	renderer   *boardview.Renderer
	editor     editline.Controller
	query      search.Token
	view       search.View
	keys       keys.KeyMap
	searchKeys keys.SearchKeyMap
	help       help.Model
	toaster    toaster.Model

	configPath string
	clipboard  sysclip.Clipboard
	state      *viewstate.Store
	restored   bool

	watcher         *watcher.Watcher
	watcherListener *pubsub.ContinuousListener[string]

	debugMode   bool
	logPane     logpane.Model
	logListener *log.LogListener

	// err is the failure that ended the program, if any.
	err error
}

// New builds the model and restores the remembered view of the document.
func New(opts Options) (Model, error) {
	theme, err := styles.NewTheme(opts.Config.Theme)
	if err != nil {
		return Model{}, fmt.Errorf("theme: %w", err)
	}
	if opts.Clipboard == nil {
		opts.Clipboard = sysclip.Nop{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	engineOpts := []history.Option{history.WithPersister(history.PersistFunc(opts.File.Persist))}
	if opts.Tracer != nil {
		engineOpts = append(engineOpts, history.WithTracer(opts.Tracer))
	}

	docKey, err := filepath.Abs(opts.File.Path())
	if err != nil {
		docKey = opts.File.Path()
	}

	m := Model{
		mode:   ModeNormal,
		ctx:    ctx,
		cancel: cancel,
		engine: history.New(opts.Forest, engineOpts...),
		file:   opts.File,
		docKey: docKey,
		renderer: boardview.New(boardview.Options{
			Theme:            theme,
			DimTrailingItems: opts.Config.Board.DimTrailingItems,
			PathSeparator:    opts.Config.Board.PathSeparator,
		}),
		keys:       keys.DefaultKeyMap(),
		searchKeys: keys.DefaultSearchKeyMap(),
		help:       help.New(),
		toaster:    toaster.New(),
		configPath: opts.ConfigPath,
		clipboard:  opts.Clipboard,
		state:      opts.State,
		watcher:    opts.Watcher,
		debugMode:  opts.Debug,
		logPane:    logpane.New(),
	}
	m.help.ShowAll = true

	if m.watcher != nil {
		m.watcherListener = pubsub.NewContinuousListener(ctx, m.watcher.Broker())
	}
	if m.debugMode {
		m.logListener = log.NewListener(ctx)
	}
	m.restored = m.restoreView()
	return m, nil
}

func (m *Model) restoreView() bool {
	if m.state == nil {
		return false
	}
	v, err := m.state.Load(m.ctx, m.docKey)
	if err != nil {
		if !errors.Is(err, viewstate.ErrNotFound) {
			log.ErrorErr(log.CatState, "loading view state failed", err, "doc", m.docKey)
		}
		return false
	}
	if !viewstate.Apply(m.forest(), v) {
		log.Info(log.CatState, "stale view state ignored", "doc", m.docKey)
		return false
	}
	log.Debug(log.CatState, "view restored", "doc", m.docKey, "depth", len(v.Path))
	return true
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcherListener != nil {
		cmds = append(cmds, m.listenDocument())
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	if m.restored {
		cmds = append(cmds, func() tea.Msg { return restoredMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.logPane.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case log.LogEvent:
		m.logPane.Append(msg.Payload)
		return m, m.logListener.Listen()

	case documentMsg:
		return m.handleDocumentEvent(msg)

	case restoredMsg:
		var cmd tea.Cmd
		m.toaster, cmd = m.toaster.Show("Restored last position", toaster.StyleInfo)
		return m, cmd

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case logpane.CloseMsg:
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.debugMode && m.mode == ModeNormal && key.Matches(msg, m.keys.ToggleLog) {
			m.logPane.Toggle()
			return m, nil
		}
		if m.logPane.Visible() {
			var cmd tea.Cmd
			m.logPane, cmd = m.logPane.Update(msg)
			return m, cmd
		}
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeEditTitle, ModeEditItem:
		return m.handleEditKey(msg)
	case ModeSearch:
		return m.handleSearchKey(msg), nil
	case ModeHelp:
		m.mode = ModeNormal
		return m, nil
	default:
		return m.handleNormalKey(msg)
	}
}

// handleMouse selects the clicked item or list. Clicks are only honoured in
// normal mode since the other modes read the selection differently.
func (m Model) handleMouse(msg tea.MouseMsg) Model {
	if m.mode != ModeNormal || m.logPane.Visible() {
		return m
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft {
		return m
	}
	b := m.forest().Active()
	list, item, ok := m.renderer.Hit(b, msg)
	if !ok {
		return m
	}
	if item == board.None {
		item = b.Lists[list].Selected
	}
	b.Select(list, item)
	log.Debug(log.CatUI, "clicked", "list", list, "item", item)
	return m
}

// fail records a fatal error and ends the program.
func (m Model) fail(err error) (Model, tea.Cmd) {
	log.ErrorErr(log.CatUI, "fatal", err)
	m.err = err
	return m, tea.Quit
}

// quit keeps any edit in progress, stores the view state and ends the
// program. A search in progress is left on the item it shows.
func (m Model) quit() (Model, tea.Cmd) {
	if _, err := m.engine.Settle(m.ctx); err != nil {
		return m.fail(err)
	}
	if m.mode == ModeSearch && m.query.Text != "" {
		m.view.SelectFromView(m.forest().Active())
	}
	m.mode = ModeNormal
	m.saveView()
	return m, tea.Quit
}

func (m Model) saveView() {
	if m.state == nil {
		return
	}
	ctx, cancel := context.WithTimeout(m.ctx, 2*time.Second)
	defer cancel()
	if err := m.state.Save(ctx, m.docKey, viewstate.Capture(m.forest())); err != nil {
		log.ErrorErr(log.CatState, "saving view state failed", err, "doc", m.docKey)
	}
}

func (m Model) forest() *forest.Forest {
	return m.engine.Forest()
}

// Err returns the error that ended the program, or nil after a normal quit.
func (m Model) Err() error {
	return m.err
}

// Mode returns the current input mode.
func (m Model) Mode() Mode {
	return m.mode
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}
	f := m.forest()
	frame := boardview.Frame{
		Board:      f.Active(),
		Breadcrumb: f.Breadcrumb(),
		Width:      m.width,
		Height:     m.height - 1,
	}
	switch m.mode {
	case ModeEditTitle:
		frame.Edit, frame.Cursor = boardview.EditTitle, m.editor.Cursor
	case ModeEditItem:
		frame.Edit, frame.Cursor = boardview.EditItem, m.editor.Cursor
	case ModeSearch:
		v := m.view
		frame.View = &v
	}

	view := m.renderer.Render(frame) + "\n" + m.statusLine()

	if m.mode == ModeHelp {
		sheet := styles.OverlayBoxStyle.Render(
			styles.OverlayTitleStyle.Render("Keys") + "\n\n" + m.help.FullHelpView(m.keys.FullHelp()))
		view = overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, sheet, view)
	}
	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.debugMode && m.logPane.Visible() {
		view = m.logPane.Overlay(view)
	}
	return zone.Scan(view)
}

func (m Model) statusLine() string {
	switch m.mode {
	case ModeSearch:
		return "/" + m.query.Text
	case ModeEditTitle, ModeEditItem:
		return styles.HintStyle.Render("esc done · enter next item")
	default:
		return m.help.ShortHelpView(m.keys.ShortHelp())
	}
}

// Close releases the watcher and the background subscriptions.
func (m *Model) Close() error {
	m.cancel()
	if m.watcher != nil {
		return m.watcher.Stop()
	}
	return nil
}
