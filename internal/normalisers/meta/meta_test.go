package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/core/domain"
)

func TestTitleFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"/docs/brann_vern.md", "brann vern"},
		{"rutiner-for-verneutstyr.txt", "rutiner for verneutstyr"},
		{"/plain/README", "README"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TitleFromURI(tt.uri), tt.uri)
	}
}

func TestFolderID(t *testing.T) {
	assert.Equal(t, "hms-og-sikkerhet", FolderID("  HMS og   Sikkerhet "))
}

func TestDraft_TitlePrecedence(t *testing.T) {
	raw := &domain.RawInstruction{URI: "/x/file_name.md", Metadata: map[string]any{"title": "Fra metadata"}}
	d, err := Draft(raw, "Fra innhold", "tekst")
	require.NoError(t, err)
	assert.Equal(t, "Fra metadata", d.Title)

	raw.Metadata = nil
	d, err = Draft(raw, "Fra innhold", "tekst")
	require.NoError(t, err)
	assert.Equal(t, "Fra innhold", d.Title)

	d, err = Draft(raw, "  ", "tekst")
	require.NoError(t, err)
	assert.Equal(t, "file name", d.Title)
	assert.Equal(t, "/x/file_name.md", d.FileURI)
}

func TestDraft_Metadata(t *testing.T) {
	raw := &domain.RawInstruction{
		URI: "brann.md",
		Metadata: map[string]any{
			"id":       "inst-1",
			"org_id":   "org",
			"folder":   "HMS",
			"severity": "Critical",
			"status":   "published",
		},
	}

	d, err := Draft(raw, "Brann", "  Ring 110.  ")

	require.NoError(t, err)
	assert.Equal(t, "inst-1", d.ID)
	assert.Equal(t, "org", d.OrgID)
	require.NotNil(t, d.Folder)
	assert.Equal(t, domain.Folder{ID: "hms", Name: "HMS"}, *d.Folder)
	assert.Equal(t, domain.SeverityCritical, d.Severity)
	assert.Equal(t, domain.StatusPublished, d.Status)
	require.NotNil(t, d.Content)
	assert.Equal(t, "Ring 110.", *d.Content)
}

func TestDraft_BlankBodyIsFileOnly(t *testing.T) {
	d, err := Draft(&domain.RawInstruction{URI: "skjema.txt"}, "", " \n ")
	require.NoError(t, err)
	assert.Nil(t, d.Content)
}

func TestDraft_InvalidMetadata(t *testing.T) {
	_, err := Draft(&domain.RawInstruction{Metadata: map[string]any{"severity": "extreme"}}, "T", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = Draft(&domain.RawInstruction{Metadata: map[string]any{"status": "archived"}}, "T", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
