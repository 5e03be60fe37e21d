package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/adapters/driven/storage/memory"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

func newInstructionFixture(t *testing.T) (*InstructionService, *IndexService, *memory.InstructionStore) {
	t.Helper()
	store := memory.NewInstructionStore()
	return NewInstructionService(store), NewIndexService(store, newTestPipeline(t), nil, nil), store
}

func TestInstructionService_List(t *testing.T) {
	svc, index, _ := newInstructionFixture(t)
	ctx := context.Background()

	_, err := index.Save(ctx, domain.InstructionDraft{OrgID: "org", Title: "Utkast", Content: strPtr("tekst")})
	require.NoError(t, err)
	_, err = index.Save(ctx, domain.InstructionDraft{
		OrgID: "org", Title: "Publisert", Content: strPtr("tekst"), Status: domain.StatusPublished,
	})
	require.NoError(t, err)
	_, err = index.Save(ctx, domain.InstructionDraft{OrgID: "other", Title: "Annen", Content: strPtr("tekst")})
	require.NoError(t, err)

	all, err := svc.List(ctx, "org", driving.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	published, err := svc.List(ctx, "org", driving.ListOptions{Status: domain.StatusPublished})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Publisert", published[0].Title)

	everyone, err := svc.List(ctx, "", driving.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, everyone, 3)
}

func TestInstructionService_Get(t *testing.T) {
	svc, index, _ := newInstructionFixture(t)
	ctx := context.Background()

	saved, err := index.Save(ctx, domain.InstructionDraft{OrgID: "org", Title: "Brannvern", Content: strPtr("Ring 110.")})
	require.NoError(t, err)

	got, err := svc.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Brannvern", got.Title)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInstructionService_Chunks(t *testing.T) {
	svc, index, _ := newInstructionFixture(t)
	ctx := context.Background()

	saved, err := index.Save(ctx, domain.InstructionDraft{OrgID: "org", Title: "Lang", Content: strPtr(longBody(4))})
	require.NoError(t, err)

	chunks, err := svc.Chunks(ctx, saved.ID)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	for i, c := range chunks {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, saved.ID, c.InstructionID)
	}

	_, err = svc.Chunks(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInstructionService_GetDetails(t *testing.T) {
	svc, index, store := newInstructionFixture(t)
	ctx := context.Background()

	saved, err := index.Save(ctx, domain.InstructionDraft{
		OrgID:    "org",
		Title:    "Høyde",
		Content:  strPtr("Sikring på stillas."),
		Severity: domain.SeverityCritical,
		Folder:   &domain.Folder{ID: "hms", Name: "HMS"},
	})
	require.NoError(t, err)

	details, err := svc.GetDetails(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, "Høyde", details.Title)
	assert.Equal(t, "HMS", details.Folder)
	assert.Equal(t, domain.SeverityCritical, details.Severity)
	assert.Equal(t, domain.StatusDraft, details.Status)
	assert.Equal(t, 1, details.ChunkCount)
	assert.Equal(t, 19, details.ContentLength)
	assert.Contains(t, details.Keywords, "stillas")
	assert.False(t, details.KeywordsStale)

	stale := *saved
	stale.Keywords.Version = textanalysis.ExtractorVersion - 1
	require.NoError(t, store.SaveInstruction(ctx, &stale))

	details, err = svc.GetDetails(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, details.KeywordsStale)

	_, err = svc.GetDetails(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
