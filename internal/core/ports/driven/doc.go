// Package driven holds the ports the core services call out through:
// persistence, write-time processing, normalisation of source files,
// configuration and the optional embedding backend.
//
// Only InstructionStore is mandatory for retrieval. A nil EmbeddingService
// or VectorIndex turns hybrid retrieval off and ranking falls back to
// keyword scoring alone. Implementations live under internal/adapters and
// internal/normalisers; this package imports nothing but domain.
package driven
