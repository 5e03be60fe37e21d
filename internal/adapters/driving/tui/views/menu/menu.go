// Package menu is the TUI start screen.
package menu

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/keymap"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/messages"
	"github.com/tetrivo/tetra/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Items with Quit set end the program.
type Item struct {
	Label string
	Desc  string
	View  messages.ViewType
	Quit  bool
}

// DefaultItems are the entries of the start screen.
func DefaultItems() []Item {
	return []Item{
		{Label: "Ask a question", Desc: "find the instructions that apply", View: messages.ViewAsk},
		{Label: "Browse instructions", Desc: "list every instruction of the organisation", View: messages.ViewInstructions},
		{Label: "Keys", Desc: "show key bindings", View: messages.ViewHelp},
		{Label: "Quit", Quit: true},
	}
}

// View is the start screen. Entries are chosen with the cursor or by
// their number.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	help   help.Model
	orgID  string
	items  []Item
	cursor int
	ready  bool
}

// NewView creates the start screen for orgID.
func NewView(s *styles.Styles, km *keymap.KeyMap, orgID string) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.Default()
	}
	h := help.New()
	h.Styles.ShortKey = s.HelpKey
	h.Styles.ShortDesc = s.Help
	return &View{styles: s, keys: km, help: h, orgID: orgID, items: DefaultItems()}
}

// Init implements tea.Model.
func (v *View) Init() tea.Cmd { return nil }

// Update moves the cursor and activates entries.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, v.keys.Up):
			v.cursor = max(v.cursor-1, 0)
		case key.Matches(msg, v.keys.Down):
			v.cursor = min(v.cursor+1, len(v.items)-1)
		case key.Matches(msg, v.keys.Open):
			return v, v.activate(v.cursor)
		case key.Matches(msg, v.keys.Help):
			return v, messages.Navigate(messages.ViewHelp)
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		default:
			if n, ok := shortcut(msg); ok && n < len(v.items) {
				v.cursor = n
				return v, v.activate(n)
			}
		}
	}
	return v, nil
}

// shortcut maps the keys 1-9 to an item index.
func shortcut(msg tea.KeyMsg) (int, bool) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

func (v *View) activate(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return messages.Navigate(item.View)
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Tetra") + "\n")
	b.WriteString(v.styles.Muted.Render("HSE instructions for "+v.orgID) + "\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%d. %s", i+1, item.Label)
		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render("> " + label))
		} else {
			b.WriteString("  " + v.styles.Normal.Render(label))
		}
		if item.Desc != "" {
			b.WriteString("  " + v.styles.Muted.Render(item.Desc))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n" + v.help.ShortHelpView(v.keys.Hints(messages.ViewMenu)))
	return b.String()
}

// SetDimensions records the terminal size and marks the view ready.
func (v *View) SetDimensions(width, _ int) {
	v.help.Width = width
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int { return v.cursor }
