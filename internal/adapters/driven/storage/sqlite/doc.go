// Package sqlite provides a SQLite-based implementation of the driven storage ports.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database connection backs:
//
//   - InstructionStore: instructions, folders and chunks (with embeddings)
//   - TaskStore: scheduled task state and run history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files;
// applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.tetra/data/tetra.db
//
// # Thread Safety
//
// All operations are safe for concurrent use. The store relies on SQLite in WAL mode
// with a busy timeout.
package sqlite
