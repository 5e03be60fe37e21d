package services

import (
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
	"github.com/tetrivo/tetra/internal/postprocessors/chunker"
	"github.com/tetrivo/tetra/internal/ranking"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

// Ensure TextService implements the interface.
var _ driving.TextService = (*TextService)(nil)

// TextService exposes keyword extraction and chunking with configured defaults.
type TextService struct {
	analyzer *textanalysis.Analyzer
	ranker   *ranking.Ranker
	ranking  domain.RankingSettings
	keywords domain.KeywordSettings
	chunking domain.ChunkingSettings
}

// NewAnalyzer builds the analyzer shared by keyword extraction and
// query tokenisation.
func NewAnalyzer(k domain.KeywordSettings) *textanalysis.Analyzer {
	return textanalysis.NewAnalyzer(textanalysis.WithMinTokenLength(k.MinTokenLength))
}

// NewRanker scores with the configured weights and tokenises questions
// exactly as keywords are extracted on the write path.
func NewRanker(settings domain.AppSettings) *ranking.Ranker {
	return ranking.NewRanker(
		ranking.WithAnalyzer(NewAnalyzer(settings.Keywords)),
		ranking.WithWeights(ranking.WeightsFrom(settings.Ranking)),
	)
}

// NewTextService creates a text service from application settings.
func NewTextService(settings domain.AppSettings) *TextService {
	ranker := NewRanker(settings)
	return &TextService{
		analyzer: ranker.Analyzer(),
		ranker:   ranker,
		ranking:  settings.Ranking,
		keywords: settings.Keywords,
		chunking: settings.Chunking,
	}
}

// Analyzer returns the configured analyzer.
func (s *TextService) Analyzer() *textanalysis.Analyzer {
	return s.analyzer
}

// ExtractKeywords returns up to maxCount keywords of text.
func (s *TextService) ExtractKeywords(text string, maxCount int) []string {
	if maxCount <= 0 {
		maxCount = s.keywords.MaxKeywords
	}
	return s.analyzer.ExtractKeywords(text, maxCount)
}

// QueryTokens returns the distinct qualifying tokens of a question.
func (s *TextService) QueryTokens(query string) []string {
	return s.analyzer.QueryTokens(query)
}

// Chunk splits text into chunks. Unset options use the configured values.
func (s *TextService) Chunk(text string, opts driving.ChunkOptions) []domain.Chunk {
	maxChars := s.chunking.MaxChunkChars
	if opts.MaxChunkChars > 0 {
		maxChars = opts.MaxChunkChars
	}
	overlap := s.chunking.OverlapChars
	if opts.OverlapChars != nil && *opts.OverlapChars >= 0 {
		overlap = *opts.OverlapChars
	}
	c := chunker.New(chunker.WithMaxChunkChars(maxChars), chunker.WithOverlapChars(overlap))
	return c.Chunk(text)
}

// PrepareForEmbedding prefixes chunks with the instruction title.
func (s *TextService) PrepareForEmbedding(title string, chunks []domain.Chunk) []string {
	return chunker.PrepareChunksForEmbedding(title, chunks)
}

// Rank scores caller-supplied instructions against a query.
// A non-positive topN uses the configured default; larger values are capped.
func (s *TextService) Rank(query string, instructions []domain.Instruction, topN int) []domain.RankedInstruction {
	if topN <= 0 {
		topN = s.ranking.DefaultTopN
	}
	if s.ranking.MaxTopN > 0 && topN > s.ranking.MaxTopN {
		topN = s.ranking.MaxTopN
	}
	return s.ranker.RankScored(query, instructions, topN)
}
