// Package file stores configuration in ~/.tetra/config.toml.
//
// Every key can be overridden by a TETRA_* environment variable, for
// example TETRA_RANKING_MAX_TOP_N or TETRA_EMBEDDING_API_KEY.
package file
