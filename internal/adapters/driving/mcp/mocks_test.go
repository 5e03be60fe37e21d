package mcp

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result  *domain.AskResult
	err     error
	lastReq domain.AskRequest
}

func (m *mockRetrievalService) Ask(_ context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	m.lastReq = req
	return m.result, m.err
}

// mockTextService is a mock implementation of driving.TextService.
type mockTextService struct {
	keywords []string
	chunks   []domain.Chunk
	lastMax  int
	lastOpts driving.ChunkOptions
}

func (m *mockTextService) ExtractKeywords(_ string, maxCount int) []string {
	m.lastMax = maxCount
	return m.keywords
}

func (m *mockTextService) QueryTokens(_ string) []string {
	return m.keywords
}

func (m *mockTextService) Chunk(_ string, opts driving.ChunkOptions) []domain.Chunk {
	m.lastOpts = opts
	return m.chunks
}

func (m *mockTextService) Rank(_ string, _ []domain.Instruction, _ int) []domain.RankedInstruction {
	return nil
}

func (m *mockTextService) PrepareForEmbedding(title string, chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i := range chunks {
		out[i] = title + "\n\n" + chunks[i].Content
	}
	return out
}

// mockInstructionService is a mock implementation of driving.InstructionService.
type mockInstructionService struct {
	instructions []domain.Instruction
	instruction  *domain.Instruction
	details      *driving.InstructionDetails
	chunks       []domain.Chunk
	err          error
	lastOrg      string
	lastOpts     driving.ListOptions
}

func (m *mockInstructionService) List(_ context.Context, orgID string, opts driving.ListOptions) ([]domain.Instruction, error) {
	m.lastOrg = orgID
	m.lastOpts = opts
	return m.instructions, m.err
}

func (m *mockInstructionService) Get(_ context.Context, _ string) (*domain.Instruction, error) {
	return m.instruction, m.err
}

func (m *mockInstructionService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockInstructionService) GetDetails(_ context.Context, _ string) (*driving.InstructionDetails, error) {
	return m.details, m.err
}

func strPtr(s string) *string { return &s }
