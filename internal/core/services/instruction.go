package services

import (
	"context"
	"unicode/utf8"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

// Ensure InstructionService implements the interface.
var _ driving.InstructionService = (*InstructionService)(nil)

// InstructionService provides read access to stored instructions.
type InstructionService struct {
	store driven.InstructionStore
}

// NewInstructionService creates a new instruction service.
func NewInstructionService(store driven.InstructionStore) *InstructionService {
	return &InstructionService{store: store}
}

// List returns instructions of an organisation, most recently updated first.
func (s *InstructionService) List(
	ctx context.Context, orgID string, opts driving.ListOptions,
) ([]domain.Instruction, error) {
	return s.store.ListInstructions(ctx, driven.InstructionFilter{
		OrgID:  orgID,
		Status: opts.Status,
	})
}

// Get retrieves an instruction by ID.
func (s *InstructionService) Get(ctx context.Context, id string) (*domain.Instruction, error) {
	return s.store.GetInstruction(ctx, id)
}

// Chunks returns the stored chunks of an instruction ordered by index.
func (s *InstructionService) Chunks(ctx context.Context, id string) ([]domain.Chunk, error) {
	if _, err := s.store.GetInstruction(ctx, id); err != nil {
		return nil, err
	}
	return s.store.GetChunks(ctx, id)
}

// GetDetails returns a display-oriented view of an instruction.
func (s *InstructionService) GetDetails(ctx context.Context, id string) (*driving.InstructionDetails, error) {
	inst, err := s.store.GetInstruction(ctx, id)
	if err != nil {
		return nil, err
	}

	chunkCount, err := s.store.CountChunks(ctx, id)
	if err != nil {
		chunkCount = 0
	}

	return &driving.InstructionDetails{
		ID:            inst.ID,
		OrgID:         inst.OrgID,
		Title:         inst.Title,
		Folder:        inst.FolderName(),
		Severity:      inst.Severity,
		Status:        inst.Status,
		Keywords:      inst.Keywords.Terms,
		KeywordsStale: inst.Keywords.Stale(textanalysis.ExtractorVersion),
		ChunkCount:    chunkCount,
		ContentLength: utf8.RuneCountInString(inst.Text()),
		FileURI:       inst.FileURI,
		CreatedAt:     inst.CreatedAt,
		UpdatedAt:     inst.UpdatedAt,
	}, nil
}
