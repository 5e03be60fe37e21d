// Package meta builds instruction drafts from raw source metadata.
// It is shared by the format-specific normalisers.
package meta

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// Metadata keys understood on domain.RawInstruction.Metadata.
const (
	KeyTitle    = "title"
	KeyOrgID    = "org_id"
	KeyFolder   = "folder"
	KeySeverity = "severity"
	KeyStatus   = "status"
	KeyID       = "id"
)

// String returns the trimmed string value of key, or "".
func String(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

// TitleFromURI derives a human-readable title from a file path.
func TitleFromURI(uri string) string {
	filename := filepath.Base(uri)
	if ext := filepath.Ext(filename); ext != "" {
		filename = strings.TrimSuffix(filename, ext)
	}
	filename = strings.ReplaceAll(filename, "_", " ")
	filename = strings.ReplaceAll(filename, "-", " ")
	return strings.TrimSpace(filename)
}

// FolderID derives a stable folder ID from its name.
func FolderID(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}

// Draft assembles a draft from extracted title and body plus raw metadata.
// A metadata title wins over the extracted one; the URI is the last resort.
// Blank bodies produce a file-only draft.
func Draft(raw *domain.RawInstruction, extractedTitle, body string) (domain.InstructionDraft, error) {
	title := String(raw.Metadata, KeyTitle)
	if title == "" {
		title = strings.TrimSpace(extractedTitle)
	}
	if title == "" {
		title = TitleFromURI(raw.URI)
	}

	draft := domain.InstructionDraft{
		ID:      String(raw.Metadata, KeyID),
		OrgID:   String(raw.Metadata, KeyOrgID),
		Title:   title,
		FileURI: raw.URI,
	}

	if body = strings.TrimSpace(body); body != "" {
		draft.Content = &body
	}

	if folder := String(raw.Metadata, KeyFolder); folder != "" {
		draft.Folder = &domain.Folder{ID: FolderID(folder), Name: folder}
	}

	if s := String(raw.Metadata, KeySeverity); s != "" {
		sev, err := domain.ParseSeverity(s)
		if err != nil {
			return domain.InstructionDraft{}, err
		}
		draft.Severity = sev
	}

	if s := String(raw.Metadata, KeyStatus); s != "" {
		status := domain.Status(strings.ToLower(s))
		if !status.IsValid() {
			return domain.InstructionDraft{}, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, s)
		}
		draft.Status = status
	}

	return draft, nil
}
