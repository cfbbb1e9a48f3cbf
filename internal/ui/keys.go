package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the application.
type keyMap struct {
	// Controls
	ToggleMode key.Binding
	ToggleGate key.Binding
	TogglePump key.Binding

	// General
	Events     key.Binding
	CycleTheme key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		ToggleMode: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "Auto/manual"),
		),
		ToggleGate: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "Gate"),
		),
		TogglePump: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Pump"),
		),
		Events: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Event log"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("h", "?"),
			key.WithHelp("h/?", "Toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleMode, k.ToggleGate, k.TogglePump, k.Events, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleMode, k.ToggleGate, k.TogglePump},
		{k.Events, k.CycleTheme, k.Help, k.Quit},
	}
}
