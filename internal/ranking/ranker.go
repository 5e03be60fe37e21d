package ranking

import (
	"slices"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

// Ranker orders candidate instructions for a query.
// A Ranker holds no mutable state and is safe for concurrent use.
type Ranker struct {
	analyzer *textanalysis.Analyzer
	scorer   *Scorer
}

// Option configures a Ranker.
type Option func(*rankerConfig)

type rankerConfig struct {
	analyzer *textanalysis.Analyzer
	weights  Weights
}

// WithAnalyzer sets the analyzer used to tokenise queries.
func WithAnalyzer(a *textanalysis.Analyzer) Option {
	return func(c *rankerConfig) {
		if a != nil {
			c.analyzer = a
		}
	}
}

// WithWeights sets the scoring weights.
func WithWeights(w Weights) Option {
	return func(c *rankerConfig) {
		c.weights = w
	}
}

// NewRanker creates a Ranker with the given options.
func NewRanker(opts ...Option) *Ranker {
	cfg := &rankerConfig{
		analyzer: textanalysis.DefaultAnalyzer(),
		weights:  DefaultWeights(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Ranker{
		analyzer: cfg.analyzer,
		scorer:   NewScorer(cfg.analyzer, cfg.weights),
	}
}

// Analyzer returns the analyzer used to tokenise queries.
func (r *Ranker) Analyzer() *textanalysis.Analyzer {
	return r.analyzer
}

// Scorer returns the scorer used by the ranker.
func (r *Ranker) Scorer() *Scorer {
	return r.scorer
}

// Rank returns the topN most relevant instructions, best first.
// Instructions scoring zero are never returned. Callers are expected to
// exclude instructions without text beforehand.
func (r *Ranker) Rank(query string, instructions []domain.Instruction, topN int) []domain.Instruction {
	scored := r.RankScored(query, instructions, topN)
	out := make([]domain.Instruction, len(scored))
	for i := range scored {
		out[i] = scored[i].Instruction
	}
	return out
}

// RankScored is Rank with the score of each returned instruction.
func (r *Ranker) RankScored(query string, instructions []domain.Instruction, topN int) []domain.RankedInstruction {
	if topN <= 0 || len(instructions) == 0 {
		return []domain.RankedInstruction{}
	}
	tokens := r.analyzer.QueryTokens(query)
	if len(tokens) == 0 {
		return []domain.RankedInstruction{}
	}

	scored := make([]domain.RankedInstruction, 0, len(instructions))
	for i := range instructions {
		score := r.scorer.ScoreTokens(tokens, &instructions[i])
		if score <= 0 {
			continue
		}
		scored = append(scored, domain.RankedInstruction{
			Instruction: instructions[i],
			Score:       score,
		})
	}

	// Stable so equal scores keep the caller's order.
	slices.SortStableFunc(scored, func(a, b domain.RankedInstruction) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored
}
