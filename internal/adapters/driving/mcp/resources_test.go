package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleInstructionResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns formatted block", func(t *testing.T) {
		svc := &mockInstructionService{instruction: &domain.Instruction{
			ID:       "inst-1",
			Title:    "Hjelm",
			Content:  strPtr("Bruk alltid hjelm."),
			Severity: domain.SeverityCritical,
			Folder:   &domain.Folder{Name: "Verneutstyr"},
		}}
		server := newTestServer(t, &Ports{Instruction: svc})

		result, err := server.handleInstructionResource(ctx, makeReadResourceRequest("instruction://inst-1"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, "DOKUMENT: [Verneutstyr] Hjelm")
		assert.Contains(t, result.Contents[0].Text, "ALVORLIGHET: critical")
		assert.Contains(t, result.Contents[0].Text, "Bruk alltid hjelm.")
	})

	t.Run("missing instruction is not found", func(t *testing.T) {
		svc := &mockInstructionService{err: domain.ErrNotFound}
		server := newTestServer(t, &Ports{Instruction: svc})

		_, err := server.handleInstructionResource(ctx, makeReadResourceRequest("instruction://nope"))

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Instruction: &mockInstructionService{}})

		_, err := server.handleInstructionResource(ctx, makeReadResourceRequest("org://x/instructions"))

		require.Error(t, err)
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		svc := &mockInstructionService{err: errors.New("disk")}
		server := newTestServer(t, &Ports{Instruction: svc})

		_, err := server.handleInstructionResource(ctx, makeReadResourceRequest("instruction://inst-1"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting instruction")
	})
}

func TestServer_handleDetailsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns metadata json", func(t *testing.T) {
		svc := &mockInstructionService{details: &driving.InstructionDetails{
			ID:            "inst-1",
			OrgID:         "org-1",
			Title:         "Hjelm",
			Severity:      domain.SeverityMedium,
			Status:        domain.StatusPublished,
			Keywords:      []string{"hjelm"},
			ChunkCount:    2,
			ContentLength: 40,
			UpdatedAt:     time.Now(),
		}}
		server := newTestServer(t, &Ports{Instruction: svc})

		result, err := server.handleDetailsResource(ctx, makeReadResourceRequest("instruction://inst-1/details"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"org_id": "org-1"`)
		assert.Contains(t, result.Contents[0].Text, `"chunk_count": 2`)
		assert.Contains(t, result.Contents[0].Text, `"status": "published"`)
	})

	t.Run("missing suffix is not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Instruction: &mockInstructionService{}})

		_, err := server.handleDetailsResource(ctx, makeReadResourceRequest("instruction://inst-1"))

		require.Error(t, err)
	})
}

func TestServer_handleOrgInstructionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("lists published instructions", func(t *testing.T) {
		svc := &mockInstructionService{instructions: []domain.Instruction{
			{ID: "inst-1", Title: "Hjelm", Severity: domain.SeverityLow},
			{ID: "inst-2", Title: "Brann", Severity: domain.SeverityCritical},
		}}
		server := newTestServer(t, &Ports{Instruction: svc})

		result, err := server.handleOrgInstructionsResource(ctx, makeReadResourceRequest("org://org-1/instructions"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Contains(t, result.Contents[0].Text, "inst-2")
		assert.Contains(t, result.Contents[0].Text, "instruction://inst-1")
		assert.Equal(t, "org-1", svc.lastOrg)
		assert.Equal(t, domain.StatusPublished, svc.lastOpts.Status)
	})

	t.Run("empty org lists as empty array", func(t *testing.T) {
		server := newTestServer(t, &Ports{Instruction: &mockInstructionService{}})

		result, err := server.handleOrgInstructionsResource(ctx, makeReadResourceRequest("org://org-1/instructions"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server := newTestServer(t, &Ports{Instruction: &mockInstructionService{}})

		_, err := server.handleOrgInstructionsResource(ctx, makeReadResourceRequest("org://org-1/other"))

		require.Error(t, err)
	})
}

func TestExtractOrgID(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"org://org-1/instructions", "org-1"},
		{"org:///instructions", ""},
		{"org://a/b/instructions", ""},
		{"instruction://org-1/instructions", ""},
	}
	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			assert.Equal(t, tt.want, extractOrgID(tt.uri))
		})
	}
}
