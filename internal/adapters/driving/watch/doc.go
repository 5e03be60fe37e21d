// Package watch keeps the instruction index in sync with a directory of
// instruction files. Files matching a doublestar pattern are ingested on
// create or write and removed from the index when deleted. Bursts of
// events are debounced into one pass.
package watch
