package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Clear   key.Binding
	Theme   key.Binding
	Earth   key.Binding
	Menu    key.Binding
	Open    key.Binding
	NextTab key.Binding
	Back    key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Toggle: key.NewBinding(
		key.WithKeys("1", "2", "3", "4", "5", "6"),
		key.WithHelp("1-6", "material"),
	),
	Clear: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "clear filter"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	Earth: key.NewBinding(
		key.WithKeys("e"),
		key.WithHelp("e", "earth"),
	),
	Menu: key.NewBinding(
		key.WithKeys("m"),
		key.WithHelp("m", "menu"),
	),
	Open: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "open"),
	),
	NextTab: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next tab"),
	),
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// helpKeys adapts the bindings relevant to a screen to help.KeyMap
type helpKeys []key.Binding

func (h helpKeys) ShortHelp() []key.Binding { return h }

func (h helpKeys) FullHelp() [][]key.Binding { return [][]key.Binding{h} }

func (m Model) helpFor() helpKeys {
	if m.menuOpen {
		return helpKeys{keys.Up, keys.Down, keys.Open, keys.Back}
	}
	switch m.screen {
	case screenHome:
		return helpKeys{keys.Earth, keys.Theme, keys.Menu, keys.Quit}
	case screenMap:
		return helpKeys{keys.Toggle, keys.Clear, keys.Up, keys.Down, keys.Open, keys.Menu, keys.Quit}
	case screenBlog:
		return helpKeys{keys.Up, keys.Down, keys.Open, keys.Menu, keys.Quit}
	case screenDetail:
		return helpKeys{keys.NextTab, keys.Back, keys.Quit}
	default:
		return helpKeys{keys.Back, keys.Quit}
	}
}
