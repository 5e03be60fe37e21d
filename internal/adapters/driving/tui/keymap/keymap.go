// Package keymap holds the TUI key bindings, grouped by the view that
// uses them. The status line and the help view are both rendered from
// these bindings.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/messages"
)

// KeyMap is the full set of bindings.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Help      key.Binding
	Back      key.Binding

	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Open     key.Binding

	Submit      key.Binding
	NewQuestion key.Binding
	Context     key.Binding

	Refresh key.Binding
}

// Default returns the standard bindings.
func Default() *KeyMap {
	return &KeyMap{
		Quit:      bind("q", "quit", "q"),
		ForceQuit: bind("ctrl+c", "quit", "ctrl+c"),
		Help:      bind("?", "help", "?"),
		Back:      bind("esc", "back", "esc"),

		Up:       bind("↑/k", "up", "up", "k"),
		Down:     bind("↓/j", "down", "down", "j"),
		PageUp:   bind("pgup", "page up", "pgup", "ctrl+u"),
		PageDown: bind("pgdn", "page down", "pgdown", "ctrl+d"),
		Top:      bind("g", "top", "home", "g"),
		Bottom:   bind("G", "bottom", "end", "G"),
		Open:     bind("enter", "open", "enter"),

		Submit:      bind("enter", "ask", "enter"),
		NewQuestion: bind("n", "new question", "n"),
		Context:     bind("c", "context", "c"),

		Refresh: bind("r", "reload", "r"),
	}
}

func bind(helpKey, desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(helpKey, desc))
}

// Hints returns the bindings shown in the status line of view.
func (k *KeyMap) Hints(view messages.ViewType) []key.Binding {
	switch view {
	case messages.ViewAsk:
		return []key.Binding{k.Open, k.Context, k.NewQuestion, k.Back}
	case messages.ViewInstructions:
		return []key.Binding{k.Open, k.Refresh, k.Back}
	case messages.ViewInstruction:
		return []key.Binding{k.PageDown, k.Top, k.Back}
	case messages.ViewHelp:
		return []key.Binding{k.Back}
	default:
		return []key.Binding{k.Open, k.Help, k.Quit}
	}
}

// Section is one titled group of the help view.
type Section struct {
	Title    string
	Bindings []key.Binding
}

// Sections returns the help view content.
func (k *KeyMap) Sections() []Section {
	return []Section{
		{"Everywhere", []key.Binding{k.Back, k.ForceQuit}},
		{"Menu", []key.Binding{k.Up, k.Down, k.Open, k.Help, k.Quit}},
		{"Ask", []key.Binding{k.Submit, k.Up, k.Down, k.Open, k.Context, k.NewQuestion}},
		{"Instructions", []key.Binding{k.Up, k.Down, k.Open, k.Refresh}},
		{"Instruction", []key.Binding{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom}},
	}
}
