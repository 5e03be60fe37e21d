package ranking

import (
	"strings"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

// Weights are the per-token score contributions.
type Weights struct {
	// Keyword is added when a token is one of the stored keywords.
	Keyword float64

	// Title is added when a token occurs in the title.
	Title float64

	// Content is added per occurrence of a token in the content.
	Content float64

	// ContentCap bounds the counted content occurrences per token.
	ContentCap int
}

// DefaultWeights returns the default scoring weights.
func DefaultWeights() Weights {
	return Weights{
		Keyword:    3,
		Title:      2,
		Content:    1,
		ContentCap: 3,
	}
}

// WeightsFrom converts ranking settings into scoring weights.
func WeightsFrom(s domain.RankingSettings) Weights {
	return Weights{
		Keyword:    s.KeywordWeight,
		Title:      s.TitleWeight,
		Content:    s.ContentWeight,
		ContentCap: s.ContentCap,
	}
}

// Scorer computes the relevance of one instruction to a query.
type Scorer struct {
	analyzer *textanalysis.Analyzer
	weights  Weights
}

// NewScorer creates a Scorer. A nil analyzer uses the default analyzer.
// Negative weights are clamped to zero so scores stay non-negative.
func NewScorer(analyzer *textanalysis.Analyzer, w Weights) *Scorer {
	if analyzer == nil {
		analyzer = textanalysis.DefaultAnalyzer()
	}
	w.Keyword = max(w.Keyword, 0)
	w.Title = max(w.Title, 0)
	w.Content = max(w.Content, 0)
	w.ContentCap = max(w.ContentCap, 0)
	return &Scorer{analyzer: analyzer, weights: w}
}

// Weights returns the weights in use.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Score returns the relevance of inst to query.
func (s *Scorer) Score(query string, inst *domain.Instruction) float64 {
	return s.ScoreTokens(s.analyzer.QueryTokens(query), inst)
}

// ScoreTokens scores inst against already extracted query tokens.
// Tokens are expected to be distinct and lower-cased.
func (s *Scorer) ScoreTokens(tokens []string, inst *domain.Instruction) float64 {
	if len(tokens) == 0 || inst == nil {
		return 0
	}

	title := strings.ToLower(inst.Title)
	content := strings.ToLower(inst.Text())

	var score float64
	for _, tok := range tokens {
		if inst.Keywords.Contains(tok) {
			score += s.weights.Keyword
		}
		if strings.Contains(title, tok) {
			score += s.weights.Title
		}
		if content != "" && s.weights.ContentCap > 0 {
			n := min(strings.Count(content, tok), s.weights.ContentCap)
			score += float64(n) * s.weights.Content
		}
	}
	return score
}
