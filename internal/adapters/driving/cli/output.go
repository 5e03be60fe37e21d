package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tetrivo/tetra/internal/core/domain"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	criticalStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	mediumStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FACC15"))
	lowStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ADE80"))
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printer renders styled text on terminals and plain text elsewhere.
type printer struct {
	styled bool
}

func newPrinter(cmd *cobra.Command) printer {
	return printer{styled: isTerminal(cmd.OutOrStdout())}
}

func (p printer) title(s string) string {
	if !p.styled {
		return s
	}
	return titleStyle.Render(s)
}

func (p printer) muted(s string) string {
	if !p.styled {
		return s
	}
	return mutedStyle.Render(s)
}

func (p printer) severity(sev domain.Severity) string {
	label := string(sev)
	if label == "" {
		label = string(domain.SeverityMedium)
	}
	if !p.styled {
		return label
	}
	switch sev {
	case domain.SeverityCritical:
		return criticalStyle.Render(label)
	case domain.SeverityLow:
		return lowStyle.Render(label)
	default:
		return mediumStyle.Render(label)
	}
}

// displayTitle prefixes the title with its folder when there is one.
func displayTitle(inst *domain.Instruction) string {
	if folder := inst.FolderName(); folder != "" {
		return "[" + folder + "] " + inst.Title
	}
	return inst.Title
}

// preview returns the first n runes of text with whitespace collapsed.
func preview(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}

func writeJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// readInput returns the text of the single argument, or of the named file
// when fromFile is set. A file name of "-" reads stdin.
func readInput(cmd *cobra.Command, arg string, fromFile bool) (string, error) {
	if !fromFile {
		return arg, nil
	}
	if arg == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(arg)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", arg, err)
	}
	return string(data), nil
}
