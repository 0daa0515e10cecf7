package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the wizard's global key bindings.
type keyMap struct {
	Quit     key.Binding
	Back     key.Binding
	Submit   key.Binding
	Retry    key.Binding
	Bill     key.Binding
	Quote    key.Binding
	Analysis key.Binding
	Help     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "continue"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Bill: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "bill"),
		),
		Quote: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "quote"),
		),
		Analysis: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "analysis"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Back, k.Retry, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Bill, k.Quote, k.Analysis},
		{k.Submit, k.Back, k.Retry},
		{k.Help, k.Quit},
	}
}
