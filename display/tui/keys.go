package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings for the TUI application.
// It implements the help.KeyMap interface for bubbles/help integration.
type keyMap struct {
	Quit         key.Binding
	ToggleUnit   key.Binding
	ResetHistory key.Binding
	Pause        key.Binding
	Help         key.Binding
}

// ShortHelp returns the compact set of keybindings shown by default in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.ToggleUnit, k.Pause, k.Quit}
}

// FullHelp returns the expanded keybinding groups shown when help is toggled.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleUnit, k.ResetHistory, k.Pause},
		{k.Help, k.Quit},
	}
}

// keys holds the default key bindings used by the application.
var keys = keyMap{
	Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	ToggleUnit:   key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "°C/°F")),
	ResetHistory: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset history")),
	Pause:        key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
	Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}
