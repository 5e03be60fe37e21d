// Package ask provides the question view for the TUI: a question input,
// the ranked instructions, and the context block handed to the answering step.
package ask

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/components/input"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/components/list"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/components/status"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/keymap"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/messages"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/styles"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// Options scope the questions asked from the view.
type Options struct {
	OrgID  string
	TopN   int
	Hybrid bool
}

// View represents the ask view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	list      *list.ResultList
	statusbar *status.Bar

	retrieval driving.RetrievalService
	opts      Options
	ctx       context.Context

	result      *domain.AskResult
	width       int
	height      int
	ready       bool
	err         error
	focusInput  bool // true = typing the question, false = navigating results
	showContext bool
}

// NewView creates a new ask view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	retrieval driving.RetrievalService,
	opts Options,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.Default()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		list:       list.NewResultList(s),
		statusbar:  status.NewBar(s, km.Hints(messages.ViewAsk)),
		retrieval:  retrieval,
		opts:       opts,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg routes keys to the input while it has focus and to the
// result list otherwise.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	km := v.keymap
	if key.Matches(msg, km.Back) {
		if v.showContext {
			v.showContext = false
			return v, nil
		}
		return v, messages.Navigate(messages.ViewMenu)
	}

	if v.focusInput {
		if key.Matches(msg, km.Submit) {
			question := v.input.Question()
			if question == "" {
				return v, nil
			}
			v.statusbar.SetState(status.StateAsking)
			v.focusInput = false
			v.input.Blur()
			return v, v.performAsk(question)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	switch {
	case key.Matches(msg, km.Open):
		if selected := v.list.SelectedResult(); selected != nil {
			id := selected.Instruction.ID
			return v, func() tea.Msg {
				return messages.InstructionSelected{ID: id, From: messages.ViewAsk}
			}
		}
	case key.Matches(msg, km.Up):
		v.list.MoveUp()
	case key.Matches(msg, km.Down):
		v.list.MoveDown()
	case key.Matches(msg, km.Context):
		v.showContext = v.result != nil && !v.showContext
	case key.Matches(msg, km.NewQuestion):
		v.focusInput = true
		v.showContext = false
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	return v, nil
}

// performAsk runs the retrieval for a question.
func (v *View) performAsk(question string) tea.Cmd {
	retrieval := v.retrieval
	ctx := v.ctx
	req := domain.AskRequest{
		OrgID:    v.opts.OrgID,
		Question: question,
		TopN:     v.opts.TopN,
		Hybrid:   v.opts.Hybrid,
	}
	return func() tea.Msg {
		if retrieval == nil {
			return messages.ErrorOccurred{Err: ErrNoRetrievalService}
		}
		result, err := retrieval.Ask(ctx, req)
		return messages.AskCompleted{Question: question, Result: result, Err: err}
	}
}

// handleAskCompleted processes the retrieval result.
func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	v.showContext = false
	if errors.Is(msg.Err, domain.ErrNoInstructions) {
		v.err = nil
		v.result = nil
		v.list.SetResults(nil)
		v.statusbar.Clear()
		v.statusbar.SetMessage("no published instructions")
		return
	}
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.result = msg.Result
	v.list.SetResults(msg.Result.Ranked)
	v.statusbar.SetResults(len(msg.Result.Ranked), msg.Result.Fallback)
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)
	sections = append(sections, v.styles.Title.Render("Tetra")+" "+v.styles.Muted.Render(v.opts.OrgID), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	if v.showContext && v.result != nil {
		sections = append(sections, v.renderContext())
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderContext renders the context block, clipped to the view height.
func (v *View) renderContext() string {
	header := v.styles.Subtitle.Render("Context")
	if v.result.Mode != "" {
		header += " " + v.styles.Muted.Render("("+v.result.Mode+")")
	}

	lines := strings.Split(v.result.Context, "\n")
	limit := max(v.height-12, 1)
	if len(lines) > limit {
		lines = append(lines[:limit], "...")
	}

	return v.styles.Border.Padding(0, 1).Render(header + "\n" + v.styles.Normal.Render(strings.Join(lines, "\n")))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // Reserve space for header, input, status
	v.statusbar.SetWidth(width)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Question returns the current question.
func (v *View) Question() string {
	return v.input.Question()
}

// SetQuestion sets the question text.
func (v *View) SetQuestion(question string) {
	v.input.SetValue(question)
}

// Result returns the last retrieval result.
func (v *View) Result() *domain.AskResult {
	return v.result
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// ShowingContext reports whether the context block is displayed.
func (v *View) ShowingContext() bool {
	return v.showContext
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.showContext = false
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetResults(nil)
	v.result = nil
	v.err = nil
	v.statusbar.Clear()
}
