// Package messages defines the bubbletea messages passed between the TUI
// views and the root model.
package messages

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// ViewType identifies a screen of the TUI.
type ViewType int

const (
	ViewMenu ViewType = iota
	ViewAsk
	ViewInstructions
	ViewInstruction
	ViewHelp
)

var viewNames = map[ViewType]string{
	ViewMenu:         "menu",
	ViewAsk:          "ask",
	ViewInstructions: "instructions",
	ViewInstruction:  "instruction",
	ViewHelp:         "help",
}

func (v ViewType) String() string {
	if name, ok := viewNames[v]; ok {
		return name
	}
	return "unknown"
}

// ViewChanged asks the root model to switch screens.
type ViewChanged struct {
	View ViewType
}

// Navigate returns a command that switches to view.
func Navigate(view ViewType) tea.Cmd {
	return func() tea.Msg { return ViewChanged{View: view} }
}

// AskCompleted carries a retrieval result for Question.
type AskCompleted struct {
	Question string
	Result   *domain.AskResult
	Err      error
}

// ErrorOccurred reports a failure from a background command.
type ErrorOccurred struct {
	Err error
}

// InstructionsLoaded carries an organisation's instruction listing.
type InstructionsLoaded struct {
	OrgID        string
	Instructions []domain.Instruction
	Err          error
}

// InstructionSelected opens an instruction. From is the view to return to.
type InstructionSelected struct {
	ID   string
	From ViewType
}

// InstructionLoaded carries an instruction together with its details.
type InstructionLoaded struct {
	Instruction *domain.Instruction
	Details     *driving.InstructionDetails
	Err         error
}
