package driving

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// IndexService is the write path: it stores instructions together with
// their keywords, chunks and (optionally) chunk embeddings.
type IndexService interface {
	// Save creates or updates an instruction. Keywords and chunks are
	// regenerated on every call.
	Save(ctx context.Context, draft domain.InstructionDraft) (*domain.Instruction, error)

	// Delete removes an instruction, its chunks and their vectors.
	Delete(ctx context.Context, id string) error

	// Reindex refreshes instructions with stale keywords or missing chunks.
	Reindex(ctx context.Context, opts domain.ReindexOptions) (domain.ReindexReport, error)
}
