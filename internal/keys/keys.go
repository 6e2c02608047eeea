// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the normal-mode keybindings.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Push  key.Binding
	Pop   key.Binding

	// Items
	AddItem      key.Binding
	DeleteItem   key.Binding
	EditItem     key.Binding
	ToggleItem   key.Binding
	Prioritize   key.Binding
	Deprioritize key.Binding
	ToPrevList   key.Binding
	ToNextList   key.Binding

	// Lists
	AddList          key.Binding
	DeleteList       key.Binding
	RenameList       key.Binding
	ShuffleListLeft  key.Binding
	ShuffleListRight key.Binding

	// Clipboard
	Cut   key.Binding
	Yank  key.Binding
	Paste key.Binding

	// History
	Undo key.Binding
	Redo key.Binding

	// General
	Search    key.Binding
	ToggleDim key.Binding
	ToggleLog key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "move left"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "move right"),
		),
		Push: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "open item board"),
		),
		Pop: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back to parent board"),
		),

		AddItem: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "add item"),
		),
		DeleteItem: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete item"),
		),
		EditItem: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit item"),
		),
		ToggleItem: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle done"),
		),
		Prioritize: key.NewBinding(
			key.WithKeys("ctrl+k", "ctrl+up"),
			key.WithHelp("ctrl+k", "prioritize item"),
		),
		Deprioritize: key.NewBinding(
			key.WithKeys("ctrl+j", "ctrl+down"),
			key.WithHelp("ctrl+j", "deprioritize item"),
		),
		ToPrevList: key.NewBinding(
			key.WithKeys("ctrl+h", "ctrl+left"),
			key.WithHelp("ctrl+h", "move item to previous list"),
		),
		ToNextList: key.NewBinding(
			key.WithKeys("ctrl+l", "ctrl+right"),
			key.WithHelp("ctrl+l", "move item to next list"),
		),

		AddList: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "add list"),
		),
		DeleteList: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "delete list"),
		),
		RenameList: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "rename list"),
		),
		ShuffleListLeft: key.NewBinding(
			key.WithKeys("H", "shift+left"),
			key.WithHelp("H", "move list left"),
		),
		ShuffleListRight: key.NewBinding(
			key.WithKeys("L", "shift+right"),
			key.WithHelp("L", "move list right"),
		),

		Cut: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "cut item"),
		),
		Yank: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy item"),
		),
		Paste: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "paste item"),
		),

		Undo: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "undo"),
		),
		Redo: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "redo"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search items"),
		),
		ToggleDim: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "dim trailing items"),
		),
		ToggleLog: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug log (--debug)"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.AddItem, k.EditItem, k.Undo, k.Help, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Push, k.Pop},
		{k.AddItem, k.DeleteItem, k.EditItem, k.ToggleItem, k.Prioritize, k.Deprioritize, k.ToPrevList, k.ToNextList},
		{k.AddList, k.DeleteList, k.RenameList, k.ShuffleListLeft, k.ShuffleListRight},
		{k.Cut, k.Yank, k.Paste, k.Undo, k.Redo, k.Search, k.ToggleDim, k.ToggleLog, k.Help, k.Quit},
	}
}

// SearchKeyMap defines the keybindings while a search is active.
type SearchKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Accept key.Binding
	Cancel key.Binding
}

// DefaultSearchKeyMap returns the keybindings for search mode. Letters are
// typed into the query, so only arrows navigate.
func DefaultSearchKeyMap() SearchKeyMap {
	return SearchKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous match"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next match"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "matches in previous list"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "matches in next list"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select match"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave search"),
		),
	}
}

// ShortHelp returns keybindings for the search status line.
func (k SearchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Accept}
}

// FullHelp returns keybindings for the full help view.
func (k SearchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Cancel}}
}
