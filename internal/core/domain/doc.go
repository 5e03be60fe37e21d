// Package domain holds the entities shared by every layer: instructions
// and their folders, chunks, ranked results, settings and scheduled tasks.
//
// It imports only the standard library. Services and adapters depend on
// it, never the other way round.
package domain
