package driven

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// EmbeddingService turns chunk text into vectors.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch returns one vector per text, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions is the vector size a VectorIndex must accept.
	Dimensions() int
	ModelName() string

	// Ping reaches the provider without embedding anything.
	Ping(ctx context.Context) error
	Close() error
}

// EmbeddingValidator checks embedding settings against the provider.
// Settings with no provider are valid.
type EmbeddingValidator interface {
	ValidateEmbedding(settings *domain.EmbeddingSettings) error
}

// VectorIndex keeps one vector per chunk ID and finds the chunks nearest a
// query by cosine similarity.
type VectorIndex interface {
	// Add replaces any vector already stored for chunkID.
	Add(ctx context.Context, chunkID string, vec []float32) error
	Delete(ctx context.Context, chunkID string) error

	// Search returns at most k hits, most similar first.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)
	Close() error
}

// VectorHit scores one chunk in [-1, 1].
type VectorHit struct {
	ChunkID    string
	Similarity float64
}
