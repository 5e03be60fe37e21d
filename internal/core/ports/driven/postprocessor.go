package driven

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// PostProcessor is one step of the write path. A step may set derived
// fields on inst, such as its keywords, and returns the chunks handed to
// the next step.
type PostProcessor interface {
	Name() string
	Process(ctx context.Context, inst *domain.Instruction, chunks []domain.Chunk) ([]domain.Chunk, error)
}

// PostProcessorPipeline runs every configured step in order, starting
// from no chunks.
type PostProcessorPipeline interface {
	Process(ctx context.Context, inst *domain.Instruction) ([]domain.Chunk, error)
}
