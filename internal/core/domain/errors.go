package domain

import "errors"

// Sentinel errors. Adapters wrap them with context and map them to exit
// codes and HTTP statuses with errors.Is.
var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoInstructions means the organisation has no published
	// instruction with text, so there is nothing to rank.
	ErrNoInstructions = errors.New("no published instructions available")

	// ErrStaleKeywords means a keyword set was built by an older extractor.
	ErrStaleKeywords = errors.New("stale keywords")

	// Hybrid retrieval falls back to keyword ranking on these two.
	ErrEmbeddingUnavailable   = errors.New("embedding service unavailable")
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	ErrRateLimited = errors.New("rate limited")
)
