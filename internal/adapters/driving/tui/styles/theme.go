// Package styles holds the TUI palette and the lipgloss styles built on it.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// Palette is the set of colours the TUI draws with.
type Palette struct {
	Accent  lipgloss.Color
	Info    lipgloss.Color
	Text    lipgloss.Color
	Dim     lipgloss.Color
	Surface lipgloss.Color
	Bar     lipgloss.Color
	Line    lipgloss.Color

	// Severity colours, also used for success, warning and error text.
	Low      lipgloss.Color
	Medium   lipgloss.Color
	Critical lipgloss.Color
}

// SafetyPalette uses high-visibility orange as the accent.
func SafetyPalette() Palette {
	return Palette{
		Accent:   "#F97316",
		Info:     "#38BDF8",
		Text:     "#E5E7EB",
		Dim:      "#6B7280",
		Surface:  "#111827",
		Bar:      "#0B0F19",
		Line:     "#374151",
		Low:      "#4ADE80",
		Medium:   "#FACC15",
		Critical: "#EF4444",
	}
}

// Styles are the rendered styles of a palette.
type Styles struct {
	palette Palette

	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
	Help       lipgloss.Style
	HelpKey    lipgloss.Style
	Border     lipgloss.Style
	badge      lipgloss.Style
}

// New builds styles from p.
func New(p Palette) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	rounded := lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(p.Line)

	return &Styles{
		palette:    p,
		Title:      fg(p.Accent).Bold(true),
		Subtitle:   fg(p.Info).Bold(true),
		Normal:     fg(p.Text),
		Muted:      fg(p.Dim),
		Selected:   fg(p.Surface).Background(p.Accent).Bold(true),
		Error:      fg(p.Critical),
		Success:    fg(p.Low),
		Warning:    fg(p.Medium),
		InputField: rounded.Padding(0, 1),
		StatusBar:  fg(p.Dim).Background(p.Bar).Padding(0, 1),
		Help:       fg(p.Dim),
		HelpKey:    fg(p.Info),
		Border:     rounded,
		badge:      lipgloss.NewStyle().Bold(true).Padding(0, 1),
	}
}

// DefaultStyles returns styles for SafetyPalette.
func DefaultStyles() *Styles {
	return New(SafetyPalette())
}

// Palette returns the colours the styles were built from.
func (s *Styles) Palette() Palette {
	return s.palette
}

// SeverityColour returns the colour of sev. Unknown severities are dimmed.
func (s *Styles) SeverityColour(sev domain.Severity) lipgloss.Color {
	switch sev {
	case domain.SeverityCritical:
		return s.palette.Critical
	case domain.SeverityMedium:
		return s.palette.Medium
	case domain.SeverityLow:
		return s.palette.Low
	}
	return s.palette.Dim
}

// Severity renders a severity badge. An empty severity reads as medium.
func (s *Styles) Severity(sev domain.Severity) string {
	if sev == "" {
		sev = domain.SeverityMedium
	}
	return s.badge.Foreground(s.SeverityColour(sev)).Render(string(sev))
}
