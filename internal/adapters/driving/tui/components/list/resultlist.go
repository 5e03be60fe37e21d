// Package list renders ranked instructions as a selectable list.
package list

import (
	"fmt"
	"strings"

	"github.com/tetrivo/tetra/internal/adapters/driving/tui/styles"
	"github.com/tetrivo/tetra/internal/core/domain"
)

// linesPerEntry is the height of one rendered result.
const linesPerEntry = 3

// ResultList holds the ranked instructions of one question and a cursor.
type ResultList struct {
	styles  *styles.Styles
	results []domain.RankedInstruction
	cursor  int
	width   int
	height  int
}

// NewResultList creates an empty list.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ResultList{styles: s, width: 80, height: 10}
}

// SetResults replaces the results and moves the cursor to the top.
func (r *ResultList) SetResults(results []domain.RankedInstruction) {
	r.results = results
	r.cursor = 0
}

// Count returns the number of results.
func (r *ResultList) Count() int { return len(r.results) }

// Selected returns the cursor position.
func (r *ResultList) Selected() int { return r.cursor }

// SetSelected moves the cursor. Out of range positions are ignored.
func (r *ResultList) SetSelected(i int) {
	if i >= 0 && i < len(r.results) {
		r.cursor = i
	}
}

// SelectedResult returns the result under the cursor, or nil.
func (r *ResultList) SelectedResult() *domain.RankedInstruction {
	if r.cursor >= len(r.results) {
		return nil
	}
	return &r.results[r.cursor]
}

// MoveUp moves the cursor up one entry.
func (r *ResultList) MoveUp() { r.SetSelected(r.cursor - 1) }

// MoveDown moves the cursor down one entry.
func (r *ResultList) MoveDown() { r.SetSelected(r.cursor + 1) }

// SetDimensions sets the area the list renders into.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// View renders the entries that fit, scrolled to keep the cursor visible.
func (r *ResultList) View() string {
	if len(r.results) == 0 {
		return r.styles.Muted.Render("No instructions")
	}

	fits := max((r.height-4)/linesPerEntry, 1)
	first := max(r.cursor-fits+1, 0)
	last := min(first+fits, len(r.results))

	var b strings.Builder
	b.WriteString(r.styles.Subtitle.Render(fmt.Sprintf("Instructions (%d)", len(r.results))))
	b.WriteString("\n")
	for i := first; i < last; i++ {
		b.WriteString("\n" + r.entry(i))
	}
	return b.String()
}

// entry renders a title line with score and severity, then a one-line
// preview of the body.
func (r *ResultList) entry(i int) string {
	ranked := &r.results[i]
	inst := &ranked.Instruction

	titleWidth := max(r.width-30, 10)
	title := inst.Title
	if folder := inst.FolderName(); folder != "" {
		title = "[" + folder + "] " + title
	}
	title = fmt.Sprintf("%-*s", titleWidth, Truncate(title, titleWidth))
	score := fmt.Sprintf("%.2f", ranked.Score)

	var head string
	if i == r.cursor {
		head = r.styles.Selected.Render("> " + title + "  " + score)
	} else {
		head = r.styles.Normal.Render("  "+title+"  ") + r.styles.Muted.Render(score)
	}

	preview := Truncate(strings.Join(strings.Fields(inst.Text()), " "), max(r.width-6, 20))
	return head + " " + r.styles.Severity(inst.Severity) + "\n" + r.styles.Muted.Render("    "+preview)
}

// Truncate shortens s to at most n runes, marking the cut with "...".
func Truncate(s string, n int) string {
	runes := []rune(s)
	switch {
	case len(runes) <= n:
		return s
	case n <= 3:
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}
