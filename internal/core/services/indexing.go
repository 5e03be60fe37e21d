package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
	"github.com/tetrivo/tetra/internal/postprocessors/chunker"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

// Ensure IndexService implements the interface.
var _ driving.IndexService = (*IndexService)(nil)

// IndexService is the write path. Every save regenerates keywords and
// chunks through the post-processor pipeline; embeddings are best effort.
type IndexService struct {
	store            driven.InstructionStore
	pipeline         driven.PostProcessorPipeline
	embeddingService driven.EmbeddingService
	vectorIndex      driven.VectorIndex
	now              func() time.Time
}

// NewIndexService creates a new index service.
// The embeddingService and vectorIndex parameters are optional (can be nil).
func NewIndexService(
	store driven.InstructionStore,
	pipeline driven.PostProcessorPipeline,
	embeddingService driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
) *IndexService {
	return &IndexService{
		store:            store,
		pipeline:         pipeline,
		embeddingService: embeddingService,
		vectorIndex:      vectorIndex,
		now:              func() time.Time { return time.Now().UTC() },
	}
}

// Save creates or updates an instruction.
func (s *IndexService) Save(ctx context.Context, draft domain.InstructionDraft) (*domain.Instruction, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	now := s.now()
	inst := &domain.Instruction{
		ID:        draft.ID,
		OrgID:     strings.TrimSpace(draft.OrgID),
		Title:     strings.TrimSpace(draft.Title),
		Content:   draft.Content,
		Severity:  draft.Severity,
		Status:    draft.Status,
		Folder:    draft.Folder,
		FileURI:   draft.FileURI,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if inst.Severity == "" {
		inst.Severity = domain.SeverityMedium
	}
	if inst.Status == "" {
		inst.Status = domain.StatusDraft
	}

	if inst.ID == "" {
		inst.ID = uuid.New().String()
	} else {
		existing, err := s.store.GetInstruction(ctx, inst.ID)
		switch {
		case err == nil:
			inst.CreatedAt = existing.CreatedAt
		case errors.Is(err, domain.ErrNotFound):
		default:
			return nil, fmt.Errorf("load instruction: %w", err)
		}
	}

	logger.Section("Index Instruction")
	logger.Debug("Instruction %s: %q (org %s, %s)", inst.ID, inst.Title, inst.OrgID, inst.Status)

	if err := s.index(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// Delete removes an instruction, its chunks and their vectors.
func (s *IndexService) Delete(ctx context.Context, id string) error {
	if _, err := s.store.GetInstruction(ctx, id); err != nil {
		return err
	}
	if err := s.dropVectors(ctx, id); err != nil {
		logger.Warn("Failed to drop vectors for %s: %v", id, err)
	}
	if err := s.store.DeleteInstruction(ctx, id); err != nil {
		return fmt.Errorf("delete instruction: %w", err)
	}
	logger.Info("Deleted instruction %s", id)
	return nil
}

// Reindex refreshes instructions whose keywords were produced by an older
// extractor or whose chunks are missing. Force refreshes everything.
// A failure on one instruction is counted and the run continues.
func (s *IndexService) Reindex(ctx context.Context, opts domain.ReindexOptions) (domain.ReindexReport, error) {
	var report domain.ReindexReport

	instructions, err := s.store.ListInstructions(ctx, driven.InstructionFilter{OrgID: opts.OrgID})
	if err != nil {
		return report, fmt.Errorf("list instructions: %w", err)
	}

	logger.Section("Reindex")
	logger.Debug("Checking %d instructions (force=%t)", len(instructions), opts.Force)

	for i := range instructions {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		inst := &instructions[i]
		report.Checked++

		if !opts.Force {
			stale, err := s.needsRefresh(ctx, inst)
			if err != nil {
				logger.Warn("Reindex check failed for %s: %v", inst.ID, err)
				report.Failed++
				continue
			}
			if !stale {
				report.Skipped++
				continue
			}
		}

		if err := s.index(ctx, inst); err != nil {
			logger.Warn("Reindex failed for %s: %v", inst.ID, err)
			report.Failed++
			continue
		}
		report.Refreshed++
	}

	logger.Info("Reindex: checked=%d refreshed=%d skipped=%d failed=%d",
		report.Checked, report.Refreshed, report.Skipped, report.Failed)
	return report, nil
}

// LoadVectors pushes stored chunk embeddings into the vector index.
// Returns the number of vectors loaded.
func (s *IndexService) LoadVectors(ctx context.Context) (int, error) {
	if s.vectorIndex == nil {
		return 0, nil
	}

	instructions, err := s.store.ListInstructions(ctx, driven.InstructionFilter{})
	if err != nil {
		return 0, fmt.Errorf("list instructions: %w", err)
	}

	loaded := 0
	for i := range instructions {
		chunks, err := s.store.GetChunks(ctx, instructions[i].ID)
		if err != nil {
			return loaded, fmt.Errorf("get chunks: %w", err)
		}
		for _, c := range chunks {
			if len(c.Embedding) == 0 {
				continue
			}
			if err := s.vectorIndex.Add(ctx, c.ID, c.Embedding); err != nil {
				logger.Warn("Skipping vector for chunk %s: %v", c.ID, err)
				continue
			}
			loaded++
		}
	}
	logger.Debug("Loaded %d vectors", loaded)
	return loaded, nil
}

func (s *IndexService) needsRefresh(ctx context.Context, inst *domain.Instruction) (bool, error) {
	if inst.Keywords.Stale(textanalysis.ExtractorVersion) {
		return true, nil
	}
	if !inst.HasText() {
		return false, nil
	}
	n, err := s.store.CountChunks(ctx, inst.ID)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}

// index runs the pipeline and persists the instruction with fresh chunks.
func (s *IndexService) index(ctx context.Context, inst *domain.Instruction) error {
	chunks, err := s.pipeline.Process(ctx, inst)
	if err != nil {
		return fmt.Errorf("process instruction: %w", err)
	}
	logger.Debug("Keywords: %v", inst.Keywords.Terms)
	logger.Debug("Chunks: %d", len(chunks))

	if err := s.store.SaveInstruction(ctx, inst); err != nil {
		return fmt.Errorf("save instruction: %w", err)
	}

	if err := s.dropVectors(ctx, inst.ID); err != nil {
		logger.Warn("Failed to drop old vectors for %s: %v", inst.ID, err)
	}

	s.embed(ctx, inst.Title, chunks)

	if err := s.store.ReplaceChunks(ctx, inst.ID, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}

	if s.vectorIndex != nil {
		for _, c := range chunks {
			if len(c.Embedding) == 0 {
				continue
			}
			if err := s.vectorIndex.Add(ctx, c.ID, c.Embedding); err != nil {
				logger.Warn("Failed to index vector for chunk %s: %v", c.ID, err)
			}
		}
	}
	return nil
}

// embed fills chunk embeddings in place. Failures leave chunks without
// vectors; the instruction is still stored and keyword ranking still works.
func (s *IndexService) embed(ctx context.Context, title string, chunks []domain.Chunk) {
	if s.embeddingService == nil || len(chunks) == 0 {
		return
	}

	texts := chunker.PrepareChunksForEmbedding(title, chunks)
	vectors, err := s.embeddingService.EmbedBatch(ctx, texts)
	if err != nil {
		logger.Warn("Embedding failed, storing chunks without vectors: %v", err)
		return
	}
	if len(vectors) != len(chunks) {
		logger.Warn("Embedding returned %d vectors for %d chunks, ignoring", len(vectors), len(chunks))
		return
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}
}

func (s *IndexService) dropVectors(ctx context.Context, instructionID string) error {
	if s.vectorIndex == nil {
		return nil
	}
	chunks, err := s.store.GetChunks(ctx, instructionID)
	if err != nil {
		return err
	}
	for _, c := range chunks {
		if err := s.vectorIndex.Delete(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}
