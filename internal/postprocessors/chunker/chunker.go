// Package chunker splits instruction text into overlapping, boundary-aware
// chunks sized for embedding generation.
package chunker

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// DefaultMaxChunkChars is the default maximum number of runes per chunk.
const DefaultMaxChunkChars = 800

// DefaultOverlapChars is the default number of runes repeated between chunks.
const DefaultOverlapChars = 100

// Chunker packs boundary units greedily into chunks.
// Sizes are measured in runes. A Chunker is immutable once built.
type Chunker struct {
	maxChunkChars int
	overlapChars  int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxChunkChars sets the maximum chunk size in runes.
func WithMaxChunkChars(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxChunkChars = n
		}
	}
}

// WithOverlapChars sets the overlap between consecutive chunks in runes.
func WithOverlapChars(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlapChars = n
		}
	}
}

// New creates a new chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxChunkChars: DefaultMaxChunkChars,
		overlapChars:  DefaultOverlapChars,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Ensure overlap doesn't reach chunk size
	if c.overlapChars >= c.maxChunkChars {
		c.overlapChars = c.maxChunkChars / 4
	}

	return c
}

// MaxChunkChars returns the configured maximum chunk size.
func (c *Chunker) MaxChunkChars() int {
	return c.maxChunkChars
}

// OverlapChars returns the configured overlap.
func (c *Chunker) OverlapChars() int {
	return c.overlapChars
}

// Chunk splits text into chunks indexed from 0.
// Whitespace-only text yields an empty slice. A single word longer than the
// maximum is emitted whole as its own chunk.
func (c *Chunker) Chunk(text string) []domain.Chunk {
	if strings.TrimSpace(text) == "" {
		return []domain.Chunk{}
	}

	units := splitUnits(text, c.maxChunkChars)
	chunks := make([]domain.Chunk, 0, utf8.RuneCountInString(text)/c.maxChunkChars+1)

	emit := func(packed string) {
		content := strings.TrimSpace(packed)
		if content == "" {
			return
		}
		chunks = append(chunks, domain.Chunk{
			Index:   len(chunks),
			Content: content,
		})
	}

	var cur strings.Builder
	curLen := 0
	for i := 0; i < len(units); i++ {
		u := units[i]
		if curLen+u.runes > c.maxChunkChars && curLen > 0 {
			packed := cur.String()
			emit(packed)

			overlap, n := overlapSuffix(packed, c.overlapChars)
			// Split the unit rather than give up the overlap.
			for n+u.runes > c.maxChunkChars {
				parts := u.finer()
				if len(parts) == 0 {
					overlap, n = overlapSuffix(packed, min(c.overlapChars, c.maxChunkChars-u.runes))
					break
				}
				units = slices.Replace(units, i, i+1, parts...)
				u = units[i]
			}
			cur.Reset()
			cur.WriteString(overlap)
			curLen = n
		}
		cur.WriteString(u.text)
		curLen += u.runes
	}
	emit(cur.String())

	return chunks
}

// overlapSuffix returns the longest run of whole words at the end of packed
// whose length is at most budget, together with its rune count.
// packed ends with the separator of its last unit, which is kept so the
// overlap stays apart from the next unit.
func overlapSuffix(packed string, budget int) (string, int) {
	if budget <= 0 {
		return "", 0
	}

	words := splitAfter(packed, wordLevel)
	total := 0
	start := len(words)
	for i := len(words) - 1; i >= 0; i-- {
		if total+words[i].runes > budget {
			break
		}
		total += words[i].runes
		start = i
	}
	if start == len(words) {
		return "", 0
	}

	var b strings.Builder
	for _, w := range words[start:] {
		b.WriteString(w.text)
	}
	return b.String(), total
}
