package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

// Ensure InstructionStore implements the interface.
var _ driven.InstructionStore = (*InstructionStore)(nil)

// InstructionStore is an in-memory implementation of driven.InstructionStore.
// Values are copied on the way in and out so callers cannot mutate stored state.
type InstructionStore struct {
	mu           sync.RWMutex
	instructions map[string]domain.Instruction
	chunks       map[string][]domain.Chunk
}

// NewInstructionStore creates a new in-memory instruction store.
func NewInstructionStore() *InstructionStore {
	return &InstructionStore{
		instructions: make(map[string]domain.Instruction),
		chunks:       make(map[string][]domain.Chunk),
	}
}

// SaveInstruction stores or updates an instruction.
func (s *InstructionStore) SaveInstruction(ctx context.Context, inst *domain.Instruction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.instructions[inst.ID] = copyInstruction(*inst)
	return nil
}

// GetInstruction retrieves an instruction by ID.
func (s *InstructionStore) GetInstruction(ctx context.Context, id string) (*domain.Instruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	inst, ok := s.instructions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := copyInstruction(inst)
	return &out, nil
}

// ListInstructions returns instructions matching the filter, most recently updated first.
// Ties are ordered by ID.
func (s *InstructionStore) ListInstructions(
	ctx context.Context, filter driven.InstructionFilter,
) ([]domain.Instruction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Instruction, 0, len(s.instructions))
	for _, inst := range s.instructions {
		if filter.OrgID != "" && inst.OrgID != filter.OrgID {
			continue
		}
		if filter.Status != "" && inst.Status != filter.Status {
			continue
		}
		result = append(result, copyInstruction(inst))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].UpdatedAt.Equal(result[j].UpdatedAt) {
			return result[i].UpdatedAt.After(result[j].UpdatedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// DeleteInstruction removes an instruction and its chunks.
func (s *InstructionStore) DeleteInstruction(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.instructions, id)
	delete(s.chunks, id)
	return nil
}

// ReplaceChunks swaps all chunks of an instruction.
func (s *InstructionStore) ReplaceChunks(ctx context.Context, instructionID string, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(chunks) == 0 {
		delete(s.chunks, instructionID)
		return nil
	}
	s.chunks[instructionID] = copyChunks(chunks)
	return nil
}

// GetChunks retrieves all chunks for an instruction ordered by index.
func (s *InstructionStore) GetChunks(ctx context.Context, instructionID string) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks, ok := s.chunks[instructionID]
	if !ok {
		return nil, nil
	}
	out := copyChunks(chunks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out, nil
}

// GetChunk retrieves a specific chunk by ID.
func (s *InstructionStore) GetChunk(ctx context.Context, id string) (*domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, chunks := range s.chunks {
		for _, chunk := range chunks {
			if chunk.ID == id {
				out := copyChunks([]domain.Chunk{chunk})[0]
				return &out, nil
			}
		}
	}
	return nil, domain.ErrNotFound
}

// CountChunks returns the number of chunks stored for an instruction.
func (s *InstructionStore) CountChunks(ctx context.Context, instructionID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks[instructionID]), nil
}

func copyInstruction(inst domain.Instruction) domain.Instruction {
	if inst.Content != nil {
		c := *inst.Content
		inst.Content = &c
	}
	if inst.Folder != nil {
		f := *inst.Folder
		inst.Folder = &f
	}
	if inst.Keywords.Terms != nil {
		inst.Keywords.Terms = append([]string(nil), inst.Keywords.Terms...)
	}
	return inst
}

func copyChunks(chunks []domain.Chunk) []domain.Chunk {
	out := make([]domain.Chunk, len(chunks))
	for i, c := range chunks {
		if c.Embedding != nil {
			c.Embedding = append([]float32(nil), c.Embedding...)
		}
		out[i] = c
	}
	return out
}
