package chunker

import "github.com/tetrivo/tetra/internal/core/domain"

// PrepareChunksForEmbedding prefixes each chunk with the instruction title so
// the embedding carries document-level context.
func PrepareChunksForEmbedding(title string, chunks []domain.Chunk) []string {
	out := make([]string, len(chunks))
	for i := range chunks {
		out[i] = title + "\n\n" + chunks[i].Content
	}
	return out
}
