package markdown

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/normalisers/meta"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown instructions with optional YAML front matter.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"text/markdown", "text/x-markdown"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// FrontMatter is the optional YAML header of an instruction file.
type FrontMatter struct {
	ID       string `yaml:"id"`
	OrgID    string `yaml:"org_id"`
	Title    string `yaml:"title"`
	Folder   string `yaml:"folder"`
	Severity string `yaml:"severity"`
	Status   string `yaml:"status"`
}

// Normalise converts Markdown to plain text, keeping paragraph breaks.
// Front matter fields fill in metadata the caller did not set.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawInstruction) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	content := strings.ReplaceAll(string(raw.Content), "\r\n", "\n")
	fm, body, err := SplitFrontMatter(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, raw.URI, err)
	}

	merged := *raw
	merged.Metadata = mergeMetadata(fm, raw.Metadata)

	draft, err := meta.Draft(&merged, extractTitle(body), Strip(body))
	if err != nil {
		return nil, err
	}
	return &driven.NormaliseResult{Draft: draft}, nil
}

const frontMatterDelim = "---"

// SplitFrontMatter separates a leading "---" YAML block from the body.
// Content without a closed front matter block is returned unchanged.
func SplitFrontMatter(content string) (FrontMatter, string, error) {
	var fm FrontMatter

	lines := strings.SplitAfter(strings.TrimPrefix(content, "\ufeff"), "\n")
	if strings.TrimSpace(lines[0]) != frontMatterDelim {
		return fm, content, nil
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) != frontMatterDelim {
			continue
		}
		header := strings.Join(lines[1:i], "")
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return FrontMatter{}, "", fmt.Errorf("front matter: %w", err)
		}
		return fm, strings.Join(lines[i+1:], ""), nil
	}
	return fm, content, nil
}

func mergeMetadata(fm FrontMatter, src map[string]any) map[string]any {
	out := map[string]any{
		meta.KeyID:       fm.ID,
		meta.KeyOrgID:    fm.OrgID,
		meta.KeyTitle:    fm.Title,
		meta.KeyFolder:   fm.Folder,
		meta.KeySeverity: fm.Severity,
		meta.KeyStatus:   fm.Status,
	}
	for k, v := range src {
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// extractTitle returns the first H1 heading, or "".
func extractTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "#"))
		}
	}
	return ""
}

var (
	fencedCode    = regexp.MustCompile("(?m)^[ \t]*(```|~~~).*\n?")
	inlineCode    = regexp.MustCompile("`([^`]+)`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings      = regexp.MustCompile(`(?m)^#{1,6}[ \t]+`)
	bold          = regexp.MustCompile(`(\*\*|__)(.+?)(\*\*|__)`)
	italicStar    = regexp.MustCompile(`\*([^*\n]+)\*`)
	italicUnder   = regexp.MustCompile(`(^|\s)_([^_\n]+)_`)
	blockquote    = regexp.MustCompile(`(?m)^>[ \t]?`)
	hr            = regexp.MustCompile(`(?m)^[ \t]*([-*_][ \t]*){3,}$`)
	tableDivider  = regexp.MustCompile(`(?m)^[ \t]*\|?[ \t]*:?-{3,}:?[ \t]*(\|[ \t]*:?-{3,}:?[ \t]*)*\|?[ \t]*$`)
	tablePipes    = regexp.MustCompile(`[ \t]*\|[ \t]*`)
	listMarkers   = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberedList  = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+`)
	trailingSpace = regexp.MustCompile(`(?m)[ \t]+$`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
)

// Strip removes Markdown syntax and keeps the text, including code.
func Strip(content string) string {
	content = fencedCode.ReplaceAllString(content, "")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = bold.ReplaceAllString(content, "$2")
	content = italicStar.ReplaceAllString(content, "$1")
	content = italicUnder.ReplaceAllString(content, "$1$2")
	content = blockquote.ReplaceAllString(content, "")
	content = hr.ReplaceAllString(content, "")
	content = tableDivider.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "")
	content = numberedList.ReplaceAllString(content, "")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if strings.Contains(line, "|") {
			lines[i] = strings.TrimSpace(tablePipes.ReplaceAllString(line, " "))
		}
	}
	content = strings.Join(lines, "\n")

	content = trailingSpace.ReplaceAllString(content, "")
	content = multiNewlines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}
