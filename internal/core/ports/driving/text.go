package driving

import "github.com/tetrivo/tetra/internal/core/domain"

// ChunkOptions overrides the configured chunking parameters.
// A zero MaxChunkChars or nil OverlapChars means the configured value.
type ChunkOptions struct {
	MaxChunkChars int
	OverlapChars  *int
}

// TextService exposes the stateless text operations used by the write path.
type TextService interface {
	// ExtractKeywords returns up to maxCount keywords of text.
	// A non-positive maxCount uses the configured default.
	ExtractKeywords(text string, maxCount int) []string

	// QueryTokens returns the distinct qualifying tokens of a question.
	QueryTokens(query string) []string

	// Chunk splits text into chunks.
	Chunk(text string, opts ChunkOptions) []domain.Chunk

	// Rank orders caller-supplied instructions by relevance to query.
	// Zero-score instructions are excluded.
	Rank(query string, instructions []domain.Instruction, topN int) []domain.RankedInstruction

	// PrepareForEmbedding prefixes chunks with the instruction title.
	PrepareForEmbedding(title string, chunks []domain.Chunk) []string
}
