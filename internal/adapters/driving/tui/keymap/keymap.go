// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Analyze runs a bulk analysis with the current filters.
	Analyze key.Binding

	// Filters moves focus to the filter inputs.
	Filters key.Binding

	// NextField moves focus to the next input.
	NextField key.Binding

	// Expand shows or hides the summary of the selected result.
	Expand key.Binding

	// Detail opens the full analysis of the selected result.
	Detail key.Binding

	// Retry re-runs a failed deep analysis.
	Retry key.Binding

	// Left and Right cycle through a fixed set of choices.
	Left  key.Binding
	Right key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "analyze"),
		),
		Filters: key.NewBinding(
			key.WithKeys("f", "/"),
			key.WithHelp("f", "filters"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		Expand: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "summary"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "details"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "previous"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// FiltersHelp returns keybindings shown while editing analysis filters.
func (k *KeyMap) FiltersHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Left, k.Select, k.Back}
}

// ResultsHelp returns keybindings for the results view.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.Up, k.Expand, k.Detail, k.Analyze, k.Filters, k.Back}
}

// DetailHelp returns keybindings for the detail overlay.
func (k *KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Back}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Expand, k.Detail, k.Retry},
		{k.Analyze, k.Filters, k.NextField},
		{k.Back, k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
