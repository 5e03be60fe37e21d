// Package instructions provides the instruction list view for the TUI.
package instructions

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/components/list"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/components/status"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/keymap"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/messages"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/styles"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// View is the instruction list view.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	bar     *status.Bar
	service driving.InstructionService
	orgID   string
	ctx     context.Context

	instructions []domain.Instruction
	selected     int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
	scrollOffset int
}

// NewView creates a new instruction list view for an organisation.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.InstructionService, orgID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.Default()
	}
	return &View{
		styles:       s,
		keys:         km,
		bar:          status.NewBar(s, km.Hints(messages.ViewInstructions)),
		service:      service,
		orgID:        orgID,
		ctx:          context.Background(),
		instructions: []domain.Instruction{},
		width:        80,
		height:       24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init starts loading the instructions.
func (v *View) Init() tea.Cmd {
	v.loading = true
	v.err = nil
	return v.load()
}

// load returns a command that lists the organisation's instructions.
func (v *View) load() tea.Cmd {
	service := v.service
	ctx := v.ctx
	orgID := v.orgID
	return func() tea.Msg {
		if service == nil {
			return messages.InstructionsLoaded{OrgID: orgID, Err: fmt.Errorf("instruction service not available")}
		}
		instructions, err := service.List(ctx, orgID, driving.ListOptions{})
		return messages.InstructionsLoaded{OrgID: orgID, Instructions: instructions, Err: err}
	}
}

// Update handles messages for the instruction list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.InstructionsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.bar.SetState(status.StateError)
			v.bar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.bar.Clear()
		v.bar.SetMessage(fmt.Sprintf("%d instructions", len(msg.Instructions)))
		v.err = nil
		v.instructions = msg.Instructions
		if v.selected >= len(v.instructions) {
			v.selected = max(len(v.instructions)-1, 0)
		}
		v.adjustScroll()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		v.selected = max(v.selected-1, 0)
	case key.Matches(msg, v.keys.Down):
		v.selected = max(min(v.selected+1, len(v.instructions)-1), 0)
	case key.Matches(msg, v.keys.Open):
		if len(v.instructions) > 0 {
			id := v.instructions[v.selected].ID
			return v, func() tea.Msg {
				return messages.InstructionSelected{ID: id, From: messages.ViewInstructions}
			}
		}
	case key.Matches(msg, v.keys.Refresh):
		return v, v.Init()
	case key.Matches(msg, v.keys.Back):
		return v, messages.Navigate(messages.ViewMenu)
	}
	v.adjustScroll()
	return v, nil
}

// adjustScroll keeps the selected item visible.
func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

// visibleItemCount returns the number of items that fit on screen.
func (v *View) visibleItemCount() int {
	// Title, separator, help and padding.
	return max(v.height-8, 1)
}

// View renders the instruction list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Instructions - %s (%d)", v.orgID, len(v.instructions))))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading instructions..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case len(v.instructions) == 0:
		b.WriteString(v.styles.Muted.Render("No instructions stored for this organisation."))
	default:
		visible := v.visibleItemCount()
		end := min(v.scrollOffset+visible, len(v.instructions))
		for i := v.scrollOffset; i < end; i++ {
			b.WriteString(v.renderInstruction(i, &v.instructions[i]))
			b.WriteString("\n")
		}
		if len(v.instructions) > visible {
			b.WriteString("\n")
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1, end, len(v.instructions))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.bar.View())

	return b.String()
}

// renderInstruction renders a single instruction line.
func (v *View) renderInstruction(index int, inst *domain.Instruction) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	title := inst.Title
	if folder := inst.FolderName(); folder != "" {
		title = "[" + folder + "] " + title
	}
	maxTitleLen := max(v.width-28, 10)
	title = list.Truncate(title, maxTitleLen)

	status := string(inst.Status)
	if !inst.HasText() {
		status += ", file only"
	}

	line := fmt.Sprintf("%s%-*s", indicator, maxTitleLen, title)
	if index == v.selected {
		line = v.styles.Selected.Render(line)
	} else {
		line = v.styles.Normal.Render(line)
	}
	return line + " " + v.styles.Severity(inst.Severity) + " " + v.styles.Muted.Render(status)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.bar.SetWidth(width)
	v.adjustScroll()
}

// Instructions returns the loaded instructions.
func (v *View) Instructions() []domain.Instruction {
	return v.instructions
}

// SelectedIndex returns the selected index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// Loading reports whether a listing is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
