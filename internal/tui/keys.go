package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	Quit       key.Binding
	Help       key.Binding
	Up         key.Binding
	Down       key.Binding
	Left       key.Binding
	Right      key.Binding
	Enter      key.Binding
	Toggle     key.Binding
	Note       key.Binding
	Delete     key.Binding
	Priorities key.Binding
	BrainDump  key.Binding
	Date       key.Binding
	Generate   key.Binding
	Save       key.Binding
	Export     key.Binding
	History    key.Binding
	Week       key.Binding
	Reset      key.Binding
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Generate, k.Save, k.Week, k.Quit, k.Help}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.Enter, k.Toggle},
		{k.Note, k.Delete, k.Priorities, k.BrainDump, k.Date},
		{k.Generate, k.Save, k.Export, k.History, k.Week, k.Reset},
		{k.Help, k.Quit},
	}
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "right"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle color"),
		),
		Note: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "slot note"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "remove block"),
		),
		Priorities: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priorities"),
		),
		BrainDump: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "brain dump"),
		),
		Date: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "change date"),
		),
		Generate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "generate"),
		),
		Save: key.NewBinding(
			key.WithKeys("s", "ctrl+s"),
			key.WithHelp("s", "save"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export"),
		),
		History: key.NewBinding(
			key.WithKeys("H"),
			key.WithHelp("H", "history"),
		),
		Week: key.NewBinding(
			key.WithKeys("w", "tab"),
			key.WithHelp("w", "day/week"),
		),
		Reset: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset"),
		),
	}
}
