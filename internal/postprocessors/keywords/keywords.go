// Package keywords provides the keyword extraction post-processor.
// It refreshes an instruction's cached KeywordSet from its title and body
// so the query path can score against it without re-reading the text.
package keywords

import (
	"context"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

// Ensure Processor implements the PostProcessor interface.
var _ driven.PostProcessor = (*Processor)(nil)

// Name is the processor name used in pipeline configuration.
const Name = "keywords"

// DefaultMaxKeywords is the number of keywords kept per instruction.
const DefaultMaxKeywords = 10

// Processor computes keyword sets.
type Processor struct {
	analyzer    *textanalysis.Analyzer
	maxKeywords int
}

// Option configures a Processor.
type Option func(*Processor)

// WithAnalyzer sets the analyzer used for extraction.
func WithAnalyzer(a *textanalysis.Analyzer) Option {
	return func(p *Processor) {
		if a != nil {
			p.analyzer = a
		}
	}
}

// WithMaxKeywords sets how many keywords are kept. Negative values are ignored.
func WithMaxKeywords(n int) Option {
	return func(p *Processor) {
		if n >= 0 {
			p.maxKeywords = n
		}
	}
}

// New creates a keyword processor.
func New(opts ...Option) *Processor {
	p := &Processor{
		analyzer:    textanalysis.DefaultAnalyzer(),
		maxKeywords: DefaultMaxKeywords,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// MaxKeywords returns the configured keyword cap.
func (p *Processor) MaxKeywords() int {
	return p.maxKeywords
}

// Process sets inst.Keywords and passes chunks through unchanged.
func (p *Processor) Process(_ context.Context, inst *domain.Instruction, chunks []domain.Chunk) ([]domain.Chunk, error) {
	inst.Keywords = p.analyzer.KeywordSet(inst.Title, inst.Text(), p.maxKeywords)
	return chunks, nil
}
