package textanalysis

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzer_RemoveStopwords(t *testing.T) {
	a := DefaultAnalyzer()

	got := a.RemoveStopwords([]string{"hva", "gjør", "jeg", "ved", "brann", "i", "kantina", "ok"})

	assert.Equal(t, []string{"brann", "kantina"}, got)
}

func TestAnalyzer_RemoveStopwords_MinLengthCountsRunes(t *testing.T) {
	a := NewAnalyzer(WithStopWords(NewStopWords()))

	// "øye" is three runes but five bytes.
	got := a.RemoveStopwords([]string{"øye", "ål", "ab", "abc"})

	assert.Equal(t, []string{"øye", "abc"}, got)
}

func TestAnalyzer_WithMinTokenLength(t *testing.T) {
	a := NewAnalyzer(WithStopWords(NewStopWords()), WithMinTokenLength(1))

	assert.Equal(t, 1, a.MinTokenLength())
	assert.Equal(t, []string{"a", "bc"}, a.RemoveStopwords([]string{"a", "bc"}))

	// Negative values are ignored.
	b := NewAnalyzer(WithMinTokenLength(-4))
	assert.Equal(t, DefaultMinTokenLength, b.MinTokenLength())
}

func TestAnalyzer_ExtractKeywords_Example(t *testing.T) {
	a := DefaultAnalyzer()

	got := a.ExtractKeywords("Brannvern og evakuering. Brannslukking er viktig.", 3)

	assert.Equal(t, []string{"brannvern", "evakuering", "brannslukking"}, got)
	assert.NotContains(t, got, "og")
	assert.NotContains(t, got, "er")
}

func TestAnalyzer_ExtractKeywords_FrequencyThenFirstOccurrence(t *testing.T) {
	a := DefaultAnalyzer()

	text := "verneutstyr hjelm brann hjelm brann brann verneutstyr sko"
	got := a.ExtractKeywords(text, 10)

	assert.Equal(t, []string{"brann", "verneutstyr", "hjelm", "sko"}, got)
}

func TestAnalyzer_ExtractKeywords_Cap(t *testing.T) {
	a := DefaultAnalyzer()
	text := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima"

	for k := -1; k <= 15; k++ {
		t.Run(fmt.Sprintf("k=%d", k), func(t *testing.T) {
			got := a.ExtractKeywords(text, k)
			if k <= 0 {
				assert.Empty(t, got)
				return
			}
			assert.LessOrEqual(t, len(got), k)
		})
	}
}

func TestAnalyzer_ExtractKeywords_NoPaddingNoDuplicates(t *testing.T) {
	a := DefaultAnalyzer()

	got := a.ExtractKeywords("Brann brann BRANN! røyk", 10)

	assert.Equal(t, []string{"brann", "røyk"}, got)
}

func TestAnalyzer_ExtractKeywords_Deterministic(t *testing.T) {
	a := DefaultAnalyzer()
	text := "Ved brann skal alle forlate bygget. Brannalarm, brannslukker og rømningsvei. Rømningsvei merkes."

	first := a.ExtractKeywords(text, 5)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, a.ExtractKeywords(text, 5))
	}

	seen := make(map[string]bool)
	for _, kw := range first {
		assert.False(t, seen[kw], "duplicate keyword %q", kw)
		seen[kw] = true
	}
}

func TestAnalyzer_ExtractKeywords_EmptyInput(t *testing.T) {
	a := DefaultAnalyzer()

	assert.Empty(t, a.ExtractKeywords("", 10))
	assert.Empty(t, a.ExtractKeywords("og i på er", 10))
}

func TestAnalyzer_KeywordSet(t *testing.T) {
	a := DefaultAnalyzer()

	ks := a.KeywordSet("Brannvern", "Evakuering ved brann. Brann i kantina.", 10)

	assert.Equal(t, ExtractorVersion, ks.Version)
	require.NotEmpty(t, ks.Terms)
	assert.Equal(t, "brann", ks.Terms[0])
	assert.Contains(t, ks.Terms, "brannvern")
	assert.False(t, ks.Stale(ExtractorVersion))
}

func TestAnalyzer_QueryTokens(t *testing.T) {
	a := DefaultAnalyzer()

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "question", query: "Hva gjør jeg ved brann?", expected: []string{"brann"}},
		{name: "distinct", query: "brann brann røyk", expected: []string{"brann", "røyk"}},
		{name: "only stop words", query: "hva er det", expected: []string{}},
		{name: "empty", query: "", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, a.QueryTokens(tt.query))
		})
	}
}

func TestAnalyzer_InjectedLanguage(t *testing.T) {
	a := NewAnalyzer(WithStopWords(NewStopWords("the", "and", "what")))

	got := a.ExtractKeywords("What the fire and the smoke", 5)

	assert.Equal(t, []string{"fire", "smoke"}, got)
}

func TestAnalyzer_ConcurrentUse(t *testing.T) {
	a := DefaultAnalyzer()
	text := "Brannvern og evakuering. Brannslukking er viktig."
	want := a.ExtractKeywords(text, 3)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, want, a.ExtractKeywords(text, 3))
		}()
	}
	wg.Wait()
}
