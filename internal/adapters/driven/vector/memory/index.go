// Package memory provides an in-process brute-force cosine similarity index.
// It implements the driven.VectorIndex interface.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index holds normalised vectors keyed by chunk ID.
type Index struct {
	mu        sync.RWMutex
	vectors   map[string][]float32
	dimension int
	closed    bool
}

// NewIndex creates an empty index. A dimension of zero accepts
// whatever length the first vector has.
func NewIndex(dimension int) *Index {
	return &Index{
		vectors:   make(map[string][]float32),
		dimension: dimension,
	}
}

// Len returns the number of stored vectors.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.vectors)
}

// Add inserts or replaces the vector for the given chunk ID.
func (idx *Index) Add(_ context.Context, chunkID string, embedding []float32) error {
	if chunkID == "" {
		return fmt.Errorf("%w: chunk id is required", domain.ErrInvalidInput)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return domain.ErrVectorIndexUnavailable
	}
	if idx.dimension == 0 {
		idx.dimension = len(embedding)
	}
	if len(embedding) != idx.dimension {
		return fmt.Errorf("%w: vector has %d dimensions, index has %d",
			domain.ErrInvalidInput, len(embedding), idx.dimension)
	}

	normalised, ok := normalise(embedding)
	if !ok {
		return fmt.Errorf("%w: zero vector", domain.ErrInvalidInput)
	}
	idx.vectors[chunkID] = normalised
	return nil
}

// Delete removes a vector from the index. Unknown IDs are ignored.
func (idx *Index) Delete(_ context.Context, chunkID string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return domain.ErrVectorIndexUnavailable
	}
	delete(idx.vectors, chunkID)
	return nil
}

// Search returns the k most similar chunks, best first.
// Ties are broken by chunk ID so results are deterministic.
func (idx *Index) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, domain.ErrVectorIndexUnavailable
	}
	if k <= 0 || len(idx.vectors) == 0 {
		return []driven.VectorHit{}, nil
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, index has %d",
			domain.ErrInvalidInput, len(query), idx.dimension)
	}

	q, ok := normalise(query)
	if !ok {
		return []driven.VectorHit{}, nil
	}

	hits := make([]driven.VectorHit, 0, len(idx.vectors))
	for id, v := range idx.vectors {
		hits = append(hits, driven.VectorHit{ChunkID: id, Similarity: dot(q, v)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ChunkID < hits[j].ChunkID
	})

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Close drops all vectors. Further calls fail with ErrVectorIndexUnavailable.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.closed = true
	idx.vectors = nil
	return nil
}

func normalise(v []float32) ([]float32, bool) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return nil, false
	}
	norm := math.Sqrt(sum)
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out, true
}

func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
