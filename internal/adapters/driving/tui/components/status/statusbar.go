// Package status renders the one-line status bar at the bottom of a view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/styles"
)

// State is what the bar reports on its left side.
type State int

const (
	StateReady State = iota
	StateAsking
	StateResults
	StateError
)

// Bar shows the view state on the left and key hints on the right.
type Bar struct {
	styles *styles.Styles
	help   help.Model
	hints  []key.Binding

	state    State
	message  string
	count    int
	fallback bool
	width    int
}

// NewBar creates a bar that shows hints.
func NewBar(s *styles.Styles, hints []key.Binding) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	h := help.New()
	h.ShortSeparator = " | "
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.Help
	h.Styles.ShortSeparator = s.Help

	return &Bar{styles: s, help: h, hints: hints, width: 80}
}

// View renders the bar at its width.
func (b *Bar) View() string {
	left := b.status()
	right := b.help.ShortHelpView(b.hints)

	gap := max(b.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (b *Bar) status() string {
	switch b.state {
	case StateAsking:
		return b.styles.Muted.Render("Finding instructions...")
	case StateError:
		if b.message == "" {
			return b.styles.Error.Render("Error")
		}
		return b.styles.Error.Render("Error: " + b.message)
	case StateResults:
		if b.count == 0 {
			break
		}
		text := b.styles.Normal.Render(fmt.Sprintf("%d instructions", b.count))
		if b.fallback {
			text += b.styles.Warning.Render(" (no match, showing defaults)")
		}
		return text
	}
	if b.message != "" {
		return b.styles.Muted.Render(b.message)
	}
	return b.styles.Muted.Render("Ready")
}

// SetHints replaces the key hints.
func (b *Bar) SetHints(hints []key.Binding) { b.hints = hints }

// SetState sets the reported state.
func (b *Bar) SetState(state State) { b.state = state }

// State returns the reported state.
func (b *Bar) State() State { return b.state }

// SetMessage sets the text shown with an error or when idle.
func (b *Bar) SetMessage(message string) { b.message = message }

// Message returns the current message.
func (b *Bar) Message() string { return b.message }

// SetResults records the outcome of a question.
func (b *Bar) SetResults(count int, fallback bool) {
	b.state = StateResults
	b.count = count
	b.fallback = fallback
}

// SetWidth sets the rendered width.
func (b *Bar) SetWidth(width int) {
	b.width = width
	b.help.Width = width / 2
}

// Clear returns the bar to the ready state.
func (b *Bar) Clear() {
	b.state = StateReady
	b.message = ""
	b.count = 0
	b.fallback = false
}
