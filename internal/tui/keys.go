package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Down     key.Binding
	Up       key.Binding
	Open     key.Binding
	Back     key.Binding
	Download key.Binding
	Upload   key.Binding
	Refresh  key.Binding
	Help     key.Binding
	Quit     key.Binding
	ForceQ   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("↓/j", "down")),
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("↑/k", "up")),
		Open:     key.NewBinding(key.WithKeys("l", "enter", "right"), key.WithHelp("→/l/enter", "open")),
		Back:     key.NewBinding(key.WithKeys("h", "backspace", "left"), key.WithHelp("←/h/b-space", "back")),
		Download: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "download")),
		Upload:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "upload")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQ:   key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.Up, k.Open, k.Back, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Down, k.Up},
		{k.Open, k.Back},
		{k.Download, k.Upload},
		{k.Refresh, k.Help, k.Quit},
	}
}

// inputKeyMap is shown while a path is being typed.
type inputKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
	Erase   key.Binding
}

func defaultInputKeyMap() inputKeyMap {
	return inputKeyMap{
		Confirm: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
		Cancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Erase:   key.NewBinding(key.WithKeys("backspace"), key.WithHelp("b-space", "erase")),
	}
}

func (k inputKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel, k.Erase}
}

func (k inputKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
