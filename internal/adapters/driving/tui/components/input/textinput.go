// Package input wraps the bubbles text input used for questions.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/styles"
)

// MaxQuestionLength caps the question in runes.
const MaxQuestionLength = 500

const (
	placeholder = "Hva lurer du på? (What do you need to know?)"
	label       = "Question: "
	minWidth    = 20
)

// QuestionInput is a focused single-line input for a question.
type QuestionInput struct {
	model  textinput.Model
	styles *styles.Styles
	width  int
}

// NewQuestionInput returns a focused, empty input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}
	m := textinput.New()
	m.Placeholder = placeholder
	m.CharLimit = MaxQuestionLength
	m.Focus()

	q := &QuestionInput{model: m, styles: s}
	q.SetWidth(60)
	return q
}

// Init starts the cursor blink.
func (q *QuestionInput) Init() tea.Cmd { return textinput.Blink }

// Update passes msg to the text input.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.model, cmd = q.model.Update(msg)
	return q, cmd
}

// View renders the label next to the boxed input.
func (q *QuestionInput) View() string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		q.styles.Title.Render(label),
		q.styles.InputField.Render(q.model.View()))
}

// Value returns the raw input.
func (q *QuestionInput) Value() string { return q.model.Value() }

// Question returns the input without surrounding whitespace.
func (q *QuestionInput) Question() string { return strings.TrimSpace(q.model.Value()) }

// SetValue replaces the input.
func (q *QuestionInput) SetValue(v string) { q.model.SetValue(v) }

// Reset clears the input.
func (q *QuestionInput) Reset() { q.model.Reset() }

// Focus gives the input focus.
func (q *QuestionInput) Focus() tea.Cmd { return q.model.Focus() }

// Blur removes focus.
func (q *QuestionInput) Blur() { q.model.Blur() }

// Focused reports whether the input has focus.
func (q *QuestionInput) Focused() bool { return q.model.Focused() }

// SetWidth sets the total width. The text area gets what is left after
// the label and the box.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	q.model.Width = max(width-lipgloss.Width(label)-4, minWidth)
}

// Width returns the total width.
func (q *QuestionInput) Width() int { return q.width }
