// Package instruction provides the single-instruction view for the TUI:
// metadata header plus the scrollable instruction body.
package instruction

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/keymap"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/messages"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/styles"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// headerLines is the number of lines used above and below the body.
const headerLines = 10

// View is the instruction view.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	help    help.Model
	service driving.InstructionService
	ctx     context.Context

	id           string
	back         messages.ViewType
	instruction  *domain.Instruction
	details      *driving.InstructionDetails
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new instruction view.
func NewView(s *styles.Styles, km *keymap.KeyMap, service driving.InstructionService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.Default()
	}
	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.Help
	return &View{
		styles:  s,
		keys:    km,
		help:    h,
		service: service,
		ctx:     context.Background(),
		back:    messages.ViewMenu,
		width:   80,
		height:  24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Open selects an instruction and returns the command loading it.
// Esc returns to the back view.
func (v *View) Open(id string, back messages.ViewType) tea.Cmd {
	v.id = id
	v.back = back
	v.instruction = nil
	v.details = nil
	v.lines = nil
	v.scrollOffset = 0
	v.err = nil
	v.loading = true
	return v.load()
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// load fetches the instruction and its details.
func (v *View) load() tea.Cmd {
	service := v.service
	ctx := v.ctx
	id := v.id
	return func() tea.Msg {
		if service == nil {
			return messages.InstructionLoaded{Err: fmt.Errorf("instruction service not available")}
		}
		inst, err := service.Get(ctx, id)
		if err != nil {
			return messages.InstructionLoaded{Err: err}
		}
		details, err := service.GetDetails(ctx, id)
		return messages.InstructionLoaded{Instruction: inst, Details: details, Err: err}
	}
}

// Update handles messages for the instruction view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.InstructionLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.instruction = msg.Instruction
		v.details = msg.Details
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg scrolls the body or leaves the view.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	km := v.keys
	offset := v.scrollOffset
	switch {
	case key.Matches(msg, km.Up):
		offset--
	case key.Matches(msg, km.Down):
		offset++
	case key.Matches(msg, km.PageUp):
		offset -= v.visibleLines()
	case key.Matches(msg, km.PageDown):
		offset += v.visibleLines()
	case key.Matches(msg, km.Top):
		offset = 0
	case key.Matches(msg, km.Bottom):
		offset = v.maxScrollOffset()
	case key.Matches(msg, km.Back):
		return v, messages.Navigate(v.back)
	}
	v.scrollOffset = min(max(offset, 0), v.maxScrollOffset())
	return v, nil
}

// wrapContent wraps the body to the view width on rune boundaries.
func (v *View) wrapContent() {
	v.lines = nil
	if v.instruction == nil || !v.instruction.HasText() {
		return
	}

	width := max(v.width-4, 20)
	for _, line := range strings.Split(v.instruction.Text(), "\n") {
		runes := []rune(line)
		for len(runes) > width {
			v.lines = append(v.lines, string(runes[:width]))
			runes = runes[width:]
		}
		v.lines = append(v.lines, string(runes))
	}
}

// visibleLines returns the number of body lines that fit on screen.
func (v *View) visibleLines() int {
	return max(v.height-headerLines, 1)
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the instruction view.
func (v *View) View() string {
	var b strings.Builder

	title := "Instruction"
	if v.instruction != nil {
		title = v.instruction.Title
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")

	switch {
	case v.loading:
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Loading instruction..."))
	case v.err != nil:
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
	case v.instruction != nil:
		b.WriteString(v.renderMeta())
		b.WriteString(strings.Repeat("─", min(max(v.width-4, 1), 60)))
		b.WriteString("\n")
		b.WriteString(v.renderBody())
	}

	b.WriteString("\n\n")
	b.WriteString(v.help.ShortHelpView(v.keys.Hints(messages.ViewInstruction)))

	return b.String()
}

// renderMeta renders the metadata lines.
func (v *View) renderMeta() string {
	inst := v.instruction
	var b strings.Builder

	meta := v.styles.Severity(inst.Severity) + " " + v.styles.Muted.Render(string(inst.Status))
	if folder := inst.FolderName(); folder != "" {
		meta += " " + v.styles.Muted.Render("in "+folder)
	}
	b.WriteString(meta)
	b.WriteString("\n")

	if v.details != nil {
		keywords := strings.Join(v.details.Keywords, ", ")
		if v.details.KeywordsStale {
			keywords += " (stale)"
		}
		b.WriteString(v.styles.Muted.Render("Keywords: " + keywords))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("%d chunks, %d characters, updated %s",
			v.details.ChunkCount, v.details.ContentLength, v.details.UpdatedAt.Format("2006-01-02 15:04"))))
		b.WriteString("\n")
	}
	if inst.FileURI != "" {
		b.WriteString(v.styles.Muted.Render("File: " + inst.FileURI))
		b.WriteString("\n")
	}
	return b.String()
}

// renderBody renders the visible part of the body.
func (v *View) renderBody() string {
	if len(v.lines) == 0 {
		return v.styles.Muted.Render("(No text, file-only instruction)")
	}

	var b strings.Builder
	visible := v.visibleLines()
	end := min(v.scrollOffset+visible, len(v.lines))
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.styles.Normal.Render(v.lines[i]))
		b.WriteString("\n")
	}
	if len(v.lines) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  Line %d-%d of %d", v.scrollOffset+1, end, len(v.lines))))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

// Instruction returns the loaded instruction.
func (v *View) Instruction() *domain.Instruction {
	return v.instruction
}

// ScrollOffset returns the current scroll position.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
