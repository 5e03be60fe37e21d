package chunker

import (
	"context"

	"github.com/google/uuid"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

// Ensure Chunker implements the PostProcessor interface.
var _ driven.PostProcessor = (*Chunker)(nil)

// Name is the processor name used in pipeline configuration.
const Name = "chunker"

// Name returns the processor name.
func (c *Chunker) Name() string {
	return Name
}

// Process replaces any input chunks with fresh chunks of the instruction body.
// File-only instructions produce no chunks.
func (c *Chunker) Process(_ context.Context, inst *domain.Instruction, _ []domain.Chunk) ([]domain.Chunk, error) {
	if !inst.HasText() {
		return nil, nil
	}

	chunks := c.Chunk(inst.Text())
	for i := range chunks {
		chunks[i].ID = uuid.New().String()
		chunks[i].InstructionID = inst.ID
	}
	return chunks, nil
}
