package domain

import (
	"fmt"
	"strings"
	"time"
)

// Severity classifies how critical an instruction is.
// It is carried through retrieval untouched and never used for scoring.
type Severity string

// Available severities.
const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityCritical Severity = "critical"
)

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityCritical:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// ParseSeverity converts a string to a Severity.
// An empty string yields SeverityMedium.
func ParseSeverity(s string) (Severity, error) {
	if strings.TrimSpace(s) == "" {
		return SeverityMedium, nil
	}
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if !sev.IsValid() {
		return "", fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, s)
	}
	return sev, nil
}

// Status is the publication state of an instruction.
type Status string

// Available statuses.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// IsValid returns true if the status is recognised.
func (s Status) IsValid() bool {
	return s == StatusDraft || s == StatusPublished
}

// Folder is a weak, name-only reference used to prefix context strings.
type Folder struct {
	// ID is the folder identifier.
	ID string

	// Name is the display name.
	Name string
}

// KeywordSet is the cached list of salient terms computed at write time.
// Version records which extractor produced Terms so stale sets can be
// detected and refreshed by a re-index.
type KeywordSet struct {
	// Terms are unique, frequency-ranked tokens.
	Terms []string

	// Version is the extractor version that produced Terms.
	Version int
}

// Stale reports whether the set was produced by a different extractor version.
func (k KeywordSet) Stale(current int) bool {
	return k.Version != current
}

// Check returns ErrStaleKeywords when the set is stale for the given version.
func (k KeywordSet) Check(current int) error {
	if k.Stale(current) {
		return fmt.Errorf("%w: version %d, current %d", ErrStaleKeywords, k.Version, current)
	}
	return nil
}

// Contains reports whether term is one of the keywords.
func (k KeywordSet) Contains(term string) bool {
	for _, t := range k.Terms {
		if t == term {
			return true
		}
	}
	return false
}

// Instruction is a compliance document published by an organisation.
// It is the read-side projection consumed by ranking and chunking.
type Instruction struct {
	// ID is the unique identifier.
	ID string

	// OrgID is the owning organisation (tenant).
	OrgID string

	// Title is the human-readable, non-empty name.
	Title string

	// Content is the plain text body.
	// Nil for file-only instructions, which never take part in ranking.
	Content *string

	// Severity is carried through for display only.
	Severity Severity

	// Status is draft or published.
	Status Status

	// Keywords is regenerated whenever Title or Content changes.
	Keywords KeywordSet

	// Folder is optional.
	Folder *Folder

	// FileURI references an optional attachment.
	FileURI string

	// CreatedAt is when the instruction was created.
	CreatedAt time.Time

	// UpdatedAt is when the instruction was last modified.
	UpdatedAt time.Time
}

// Text returns the content body, or an empty string for file-only instructions.
func (i *Instruction) Text() string {
	if i.Content == nil {
		return ""
	}
	return *i.Content
}

// HasText reports whether the instruction has a non-blank body.
func (i *Instruction) HasText() bool {
	return strings.TrimSpace(i.Text()) != ""
}

// FolderName returns the folder name or an empty string.
func (i *Instruction) FolderName() string {
	if i.Folder == nil {
		return ""
	}
	return i.Folder.Name
}

// InstructionDraft is the write-side input for creating or updating an instruction.
type InstructionDraft struct {
	// ID is empty for new instructions.
	ID string

	OrgID    string
	Title    string
	Content  *string
	Severity Severity
	Status   Status
	Folder   *Folder
	FileURI  string
}

// Validate checks the required fields of a draft.
func (d *InstructionDraft) Validate() error {
	if strings.TrimSpace(d.OrgID) == "" {
		return fmt.Errorf("%w: org id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if d.Severity != "" && !d.Severity.IsValid() {
		return fmt.Errorf("%w: unknown severity %q", ErrInvalidInput, d.Severity)
	}
	if d.Status != "" && !d.Status.IsValid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, d.Status)
	}
	return nil
}

// Chunk is a bounded slice of an instruction body, the unit of embedding search.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// InstructionID links to the parent Instruction.
	InstructionID string

	// Index is the contiguous position within the instruction, starting at 0.
	Index int

	// Content is the text of this chunk.
	Content string

	// Embedding is the vector representation, if one was generated.
	Embedding []float32
}

// RawInstruction is an instruction source file before normalisation.
type RawInstruction struct {
	// URI is the original location (file path).
	URI string

	// MIMEType is the content type (e.g., "text/markdown").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// Metadata contains loader-specific key-value pairs (e.g., "title", "folder").
	Metadata map[string]any
}
