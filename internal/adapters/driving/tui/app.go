package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/keymap"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/messages"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/styles"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/views/ask"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/views/instruction"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/views/instructions"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/views/menu"
)

// App routes bubbletea messages to the active view.
type App struct {
	ports  *Ports
	config Config
	ctx    context.Context
	styles *styles.Styles
	keys   *keymap.KeyMap

	menuView         *menu.View
	askView          *ask.View
	instructionsView *instructions.View
	instructionView  *instruction.View

	currentView messages.ViewType
	err         error

	width, height int
	ready         bool
}

var _ tea.Model = (*App)(nil)

// NewApp starts on the menu.
func NewApp(ports *Ports, config Config) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.Default()

	return &App{
		ports:    ports,
		config:   config,
		ctx:      context.Background(),
		styles:   s,
		keys:     km,
		menuView: menu.NewView(s, km, config.OrgID),
		askView: ask.NewView(s, km, ports.Retrieval, ask.Options{
			OrgID:  config.OrgID,
			TopN:   config.TopN,
			Hybrid: config.Hybrid,
		}),
		instructionsView: instructions.NewView(s, km, ports.Instruction, config.OrgID),
		instructionView:  instruction.NewView(s, km, ports.Instruction),
		currentView:      messages.ViewMenu,
	}, nil
}

// WithContext sets the context of every service call the views make.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	a.instructionsView.WithContext(ctx)
	a.instructionView.WithContext(ctx)
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("tetra - "+a.config.OrgID),
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if key.Matches(msg, a.keys.Back) {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(a.currentView, msg)

	case messages.ViewChanged:
		return a, a.enter(msg.View)

	case messages.InstructionSelected:
		a.currentView = messages.ViewInstruction
		return a, a.instructionView.Open(msg.ID, msg.From)

	case messages.AskCompleted:
		return a, a.forward(messages.ViewAsk, msg)
	case messages.InstructionsLoaded:
		return a, a.forward(messages.ViewInstructions, msg)
	case messages.InstructionLoaded:
		return a, a.forward(messages.ViewInstruction, msg)

	case messages.ErrorOccurred:
		cmd := a.forward(a.currentView, msg)
		a.err = msg.Err
		return a, cmd
	}

	// Cursor blink and other ticks only matter to the question input.
	if a.currentView == messages.ViewAsk {
		return a, a.forward(messages.ViewAsk, msg)
	}
	return a, nil
}

// forward hands msg to the view and records the error it reports.
func (a *App) forward(view messages.ViewType, msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch view {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
	case messages.ViewInstructions:
		a.instructionsView, cmd = a.instructionsView.Update(msg)
		a.err = a.instructionsView.Err()
	case messages.ViewInstruction:
		a.instructionView, cmd = a.instructionView.Update(msg)
		a.err = a.instructionView.Err()
	}
	return cmd
}

// enter switches to view. Going back from an opened instruction to the
// ask view keeps the results on screen.
func (a *App) enter(view messages.ViewType) tea.Cmd {
	prev := a.currentView
	a.currentView = view
	switch view {
	case messages.ViewAsk:
		if prev == messages.ViewInstruction {
			return nil
		}
		a.askView.Reset()
		return a.askView.Init()
	case messages.ViewInstructions:
		return a.instructionsView.Init()
	}
	return nil
}

func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewInstructions:
		return a.instructionsView.View()
	case messages.ViewInstruction:
		return a.instructionView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp lists every binding, grouped by view.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Keys") + "\n")
	for _, section := range a.keys.Sections() {
		b.WriteString("\n" + a.styles.Subtitle.Render(section.Title) + "\n")
		for _, binding := range section.Bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "  %s %s\n", a.styles.HelpKey.Render(fmt.Sprintf("%-8s", h.Key)), a.styles.Normal.Render(h.Desc))
		}
	}
	b.WriteString("\n" + a.styles.Muted.Render("Type the question in the ask view and press enter."))
	return b.String()
}

// Run blocks until the user quits or the context ends.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

func (a *App) CurrentView() messages.ViewType { return a.currentView }

// Err is the last error a view reported.
func (a *App) Err() error { return a.err }

// Ready reports whether the terminal size is known.
func (a *App) Ready() bool { return a.ready }

// SetDimensions resizes every view, not only the active one.
func (a *App) SetDimensions(width, height int) {
	a.width, a.height, a.ready = width, height, true
	a.menuView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
	a.instructionsView.SetDimensions(width, height)
	a.instructionView.SetDimensions(width, height)
}
