package textanalysis

import (
	"slices"
	"unicode/utf8"

	"github.com/tetrivo/tetra/internal/core/domain"
)

// ExtractorVersion identifies the keyword extraction algorithm.
// Bump it whenever Normalize, the default stop words or the ranking rule
// change, so stored keyword sets are refreshed by a re-index.
const ExtractorVersion = 1

// DefaultMinTokenLength drops tokens shorter than this many runes.
const DefaultMinTokenLength = 3

// Analyzer filters and ranks tokens.
type Analyzer struct {
	stopWords      StopWords
	minTokenLength int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithStopWords replaces the default Norwegian stop words.
func WithStopWords(sw StopWords) Option {
	return func(a *Analyzer) {
		a.stopWords = sw
	}
}

// WithMinTokenLength sets the minimum token length in runes.
func WithMinTokenLength(n int) Option {
	return func(a *Analyzer) {
		if n >= 0 {
			a.minTokenLength = n
		}
	}
}

// NewAnalyzer creates an Analyzer with the given options.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		stopWords:      NorwegianStopWords(),
		minTokenLength: DefaultMinTokenLength,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// DefaultAnalyzer returns a new Analyzer with Norwegian stop words.
func DefaultAnalyzer() *Analyzer {
	return NewAnalyzer()
}

// MinTokenLength returns the configured minimum token length.
func (a *Analyzer) MinTokenLength() int {
	return a.minTokenLength
}

// qualifies reports whether a normalised token carries signal.
func (a *Analyzer) qualifies(tok string) bool {
	if utf8.RuneCountInString(tok) < a.minTokenLength {
		return false
	}
	return !a.stopWords.Contains(tok)
}

// RemoveStopwords drops stop words and short tokens, preserving order.
func (a *Analyzer) RemoveStopwords(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if a.qualifies(tok) {
			out = append(out, tok)
		}
	}
	return out
}

// ExtractKeywords returns up to maxCount distinct tokens from text ranked by
// frequency, ties broken by first occurrence.
func (a *Analyzer) ExtractKeywords(text string, maxCount int) []string {
	if maxCount <= 0 {
		return []string{}
	}
	tokens := a.RemoveStopwords(Normalize(text))
	if len(tokens) == 0 {
		return []string{}
	}

	freq := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if freq[tok] == 0 {
			order = append(order, tok)
		}
		freq[tok]++
	}

	// order is first-occurrence order, so a stable sort on frequency
	// keeps the earlier token ahead on ties.
	slices.SortStableFunc(order, func(x, y string) int {
		return freq[y] - freq[x]
	})

	if len(order) > maxCount {
		order = order[:maxCount]
	}
	return order
}

// KeywordSet extracts the cached keywords of an instruction from its title
// and content, tagged with the current extractor version.
func (a *Analyzer) KeywordSet(title, content string, maxCount int) domain.KeywordSet {
	return domain.KeywordSet{
		Terms:   a.ExtractKeywords(title+" "+content, maxCount),
		Version: ExtractorVersion,
	}
}

// QueryTokens returns the distinct qualifying tokens of a query in
// first-occurrence order.
func (a *Analyzer) QueryTokens(query string) []string {
	tokens := a.RemoveStopwords(Normalize(query))
	seen := make(map[string]struct{}, len(tokens))
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
