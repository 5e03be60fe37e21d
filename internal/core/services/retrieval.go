package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/logger"
	"github.com/tetrivo/tetra/internal/ranking"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// Retrieval modes reported in AskResult.Mode.
const (
	ModeKeyword = "keyword"
	ModeHybrid  = "hybrid"
)

// rrfK is the reciprocal rank fusion constant.
const rrfK = 60

// vectorOversample widens the vector search so enough distinct
// instructions survive chunk de-duplication.
const vectorOversample = 4

// RetrievalService is the query path.
type RetrievalService struct {
	store            driven.InstructionStore
	ranker           *ranking.Ranker
	settings         domain.RankingSettings
	vectorIndex      driven.VectorIndex
	embeddingService driven.EmbeddingService
}

// NewRetrievalService creates a new retrieval service.
// The vectorIndex and embeddingService parameters are optional (can be nil);
// without them hybrid requests use keyword ranking only.
func NewRetrievalService(
	store driven.InstructionStore,
	ranker *ranking.Ranker,
	settings domain.RankingSettings,
	vectorIndex driven.VectorIndex,
	embeddingService driven.EmbeddingService,
) *RetrievalService {
	if ranker == nil {
		ranker = ranking.NewRanker(ranking.WithWeights(ranking.WeightsFrom(settings)))
	}
	return &RetrievalService{
		store:            store,
		ranker:           ranker,
		settings:         settings,
		vectorIndex:      vectorIndex,
		embeddingService: embeddingService,
	}
}

// Ask ranks the published instructions of an organisation for a question.
//
// When nothing scores above zero the first TopN candidates are used and
// the result is flagged as a fallback, so the answering step always
// receives some context.
func (s *RetrievalService) Ask(ctx context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	logger.Section("Ask")

	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(req.OrgID) == "" {
		return nil, fmt.Errorf("%w: org id is required", domain.ErrInvalidInput)
	}

	topN := s.effectiveTopN(req.TopN)
	logger.Debug("Question: %q, org: %s, topN: %d", question, req.OrgID, topN)

	published, err := s.store.ListInstructions(ctx, driven.InstructionFilter{
		OrgID:  req.OrgID,
		Status: domain.StatusPublished,
	})
	if err != nil {
		return nil, fmt.Errorf("list instructions: %w", err)
	}

	candidates := make([]domain.Instruction, 0, len(published))
	for i := range published {
		if published[i].HasText() {
			candidates = append(candidates, published[i])
		}
	}
	logger.Debug("Candidates: %d of %d published", len(candidates), len(published))

	if len(candidates) == 0 {
		return nil, domain.ErrNoInstructions
	}

	result := &domain.AskResult{
		Candidates: len(candidates),
		Mode:       ModeKeyword,
	}

	ranked := s.ranker.RankScored(question, candidates, len(candidates))
	logger.Debug("Keyword ranking: %d relevant", len(ranked))

	if req.Hybrid {
		if merged, ok := s.hybrid(ctx, question, candidates, ranked, topN); ok {
			ranked = merged
			result.Mode = ModeHybrid
		}
	}

	if len(ranked) > topN {
		ranked = ranked[:topN]
	}

	if len(ranked) == 0 {
		logger.Info("No relevant instructions, using first %d candidates", topN)
		result.Fallback = true
		n := min(topN, len(candidates))
		ranked = make([]domain.RankedInstruction, n)
		for i := 0; i < n; i++ {
			ranked[i] = domain.RankedInstruction{Instruction: candidates[i]}
		}
	}

	result.Ranked = ranked

	selected := make([]domain.Instruction, len(ranked))
	for i := range ranked {
		selected[i] = ranked[i].Instruction
	}
	result.Context = ranking.BuildContext(selected, s.settings.MaxContextChars)

	if len(ranked) > 0 {
		src := ranked[0].Instruction
		result.Source = &src
		logger.Info("Source: %s (%q)", src.ID, src.Title)
	}

	return result, nil
}

func (s *RetrievalService) effectiveTopN(requested int) int {
	topN := requested
	if topN <= 0 {
		topN = s.settings.DefaultTopN
	}
	if topN <= 0 {
		topN = domain.DefaultAppSettings().Ranking.DefaultTopN
	}
	if s.settings.MaxTopN > 0 && topN > s.settings.MaxTopN {
		topN = s.settings.MaxTopN
	}
	return topN
}

// hybrid merges keyword ranking with vector similarity using reciprocal
// rank fusion. It reports false when vector retrieval is unavailable or
// fails, in which case the keyword ranking is used unchanged.
func (s *RetrievalService) hybrid(
	ctx context.Context,
	question string,
	candidates []domain.Instruction,
	keyword []domain.RankedInstruction,
	topN int,
) ([]domain.RankedInstruction, bool) {
	if s.vectorIndex == nil || s.embeddingService == nil {
		logger.Warn("Hybrid requested but vector retrieval unavailable, using keyword ranking")
		return nil, false
	}

	vectorIDs, err := s.vectorRanking(ctx, question, candidates, topN)
	if err != nil {
		logger.Warn("Vector retrieval failed, using keyword ranking: %v", err)
		return nil, false
	}

	keywordIDs := make([]string, len(keyword))
	for i := range keyword {
		keywordIDs[i] = keyword[i].Instruction.ID
	}

	logger.Debug("Hybrid: merging %d keyword + %d vector results with RRF", len(keywordIDs), len(vectorIDs))
	fused := reciprocalRankFusion([][]string{keywordIDs, vectorIDs}, rrfK)

	byID := make(map[string]domain.Instruction, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = candidates[i]
	}

	merged := make([]domain.RankedInstruction, 0, len(fused))
	for _, f := range fused {
		inst, ok := byID[f.id]
		if !ok {
			continue
		}
		merged = append(merged, domain.RankedInstruction{Instruction: inst, Score: f.score})
	}
	return merged, true
}

// vectorRanking returns candidate instruction IDs ordered by their best chunk
// similarity. The index is shared across organisations, so the search widens
// until want candidates are found or the index is exhausted.
func (s *RetrievalService) vectorRanking(
	ctx context.Context, question string, candidates []domain.Instruction, want int,
) ([]string, error) {
	embedding, err := s.embeddingService.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	allowed := make(map[string]bool, len(candidates))
	for i := range candidates {
		allowed[candidates[i].ID] = true
	}
	want = min(want, len(candidates))

	for k := max(want*vectorOversample, 1); ; k *= 2 {
		hits, err := s.vectorIndex.Search(ctx, embedding, k)
		if err != nil {
			return nil, fmt.Errorf("vector search: %w", err)
		}
		ids := s.allowedInstructions(ctx, hits, allowed)
		if len(ids) >= want || len(hits) < k {
			return ids, nil
		}
		logger.Debug("Vector search: %d of %d candidates in top %d, widening", len(ids), want, k)
	}
}

// allowedInstructions maps hits to distinct instruction IDs in allowed,
// keeping hit order.
func (s *RetrievalService) allowedInstructions(ctx context.Context, hits []driven.VectorHit, allowed map[string]bool) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(hits))
	for _, hit := range hits {
		chunk, err := s.store.GetChunk(ctx, hit.ChunkID)
		if err != nil {
			logger.Debug("Skipping vector hit %s: %v", hit.ChunkID, err)
			continue
		}
		if !allowed[chunk.InstructionID] || seen[chunk.InstructionID] {
			continue
		}
		seen[chunk.InstructionID] = true
		ids = append(ids, chunk.InstructionID)
	}
	return ids
}

type fusedID struct {
	id    string
	score float64
}

// reciprocalRankFusion merges ranked ID lists. k dampens the weight of top ranks.
// Ties keep first-seen order across the lists.
func reciprocalRankFusion(lists [][]string, k int) []fusedID {
	scores := make(map[string]float64)
	var order []string

	for _, list := range lists {
		for rank, id := range list {
			if _, ok := scores[id]; !ok {
				order = append(order, id)
			}
			scores[id] += 1.0 / float64(k+rank+1)
		}
	}

	results := make([]fusedID, len(order))
	for i, id := range order {
		results[i] = fusedID{id: id, score: scores[id]}
	}
	slices.SortStableFunc(results, func(a, b fusedID) int {
		return cmp.Compare(b.score, a.score)
	})
	return results
}
