package driven

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// InstructionFilter narrows a ListInstructions call.
type InstructionFilter struct {
	// OrgID restricts results to one organisation. Empty means all.
	OrgID string

	// Status restricts results to one status. Empty means all.
	Status domain.Status
}

// InstructionStore persists instructions, folders and chunks.
// Backed by SQLite for metadata storage.
type InstructionStore interface {
	// SaveInstruction stores or updates an instruction.
	// The referenced folder, if any, is upserted as well.
	SaveInstruction(ctx context.Context, inst *domain.Instruction) error

	// GetInstruction retrieves an instruction by ID.
	GetInstruction(ctx context.Context, id string) (*domain.Instruction, error)

	// ListInstructions returns instructions matching the filter,
	// most recently updated first.
	ListInstructions(ctx context.Context, filter InstructionFilter) ([]domain.Instruction, error)

	// DeleteInstruction removes an instruction and its chunks.
	DeleteInstruction(ctx context.Context, id string) error

	// ReplaceChunks atomically swaps all chunks of an instruction.
	ReplaceChunks(ctx context.Context, instructionID string, chunks []domain.Chunk) error

	// GetChunks retrieves all chunks for an instruction ordered by index.
	GetChunks(ctx context.Context, instructionID string) ([]domain.Chunk, error)

	// GetChunk retrieves a specific chunk by ID.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// CountChunks returns the number of chunks stored for an instruction.
	CountChunks(ctx context.Context, instructionID string) (int, error)
}
