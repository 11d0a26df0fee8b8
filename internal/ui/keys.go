package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the form's keyboard shortcuts. Field-level keys (arrows,
// enter, backspace) are handled by LookupField directly and are listed here
// only for the help overlay.
type KeyMap struct {
	// Navigation
	Next     key.Binding
	Prev     key.Binding
	Move     key.Binding
	Choose   key.Binding
	Chips    key.Binding
	ClearSel key.Binding

	// Actions
	Open   key.Binding
	Save   key.Binding
	Cancel key.Binding
	Copy   key.Binding
	Theme  key.Binding
	Help   key.Binding
	Quit   key.Binding
	Exit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("⇥ (Tab)", "Next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("⇧⇥", "Previous field"),
		),
		Move: key.NewBinding(
			key.WithKeys("up", "down"),
			key.WithHelp("↑/↓", "Move in results"),
		),
		Choose: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("⏎ (Enter)", "Select result"),
		),
		Chips: key.NewBinding(
			key.WithKeys("left", "backspace"),
			key.WithHelp("← ⌫", "Edit selected contacts"),
		),
		ClearSel: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("Ctrl+X", "Clear selection"),
		),
		Open: key.NewBinding(
			key.WithKeys("n", "enter"),
			key.WithHelp("n", "Add members"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("Ctrl+S", "Save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "Cancel"),
		),
		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("Ctrl+Y", "Copy IDs"),
		),
		Theme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("Ctrl+T", "Cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "Help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "Quit"),
		),
		Exit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "Quit when closed"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Save, k.Cancel, k.Help}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Move, k.Choose, k.Chips, k.ClearSel},
		{k.Open, k.Save, k.Cancel, k.Copy, k.Theme, k.Help, k.Quit, k.Exit},
	}
}
