package tui

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

type mockRetrievalService struct {
	result *domain.AskResult
	err    error
}

func (m *mockRetrievalService) Ask(_ context.Context, _ domain.AskRequest) (*domain.AskResult, error) {
	return m.result, m.err
}

type mockInstructionService struct {
	instructions []domain.Instruction
	instruction  *domain.Instruction
	details      *driving.InstructionDetails
	err          error
}

func (m *mockInstructionService) List(_ context.Context, _ string, _ driving.ListOptions) ([]domain.Instruction, error) {
	return m.instructions, m.err
}

func (m *mockInstructionService) Get(_ context.Context, _ string) (*domain.Instruction, error) {
	return m.instruction, m.err
}

func (m *mockInstructionService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockInstructionService) GetDetails(_ context.Context, _ string) (*driving.InstructionDetails, error) {
	return m.details, m.err
}

func strPtr(s string) *string { return &s }
