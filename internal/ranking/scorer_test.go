package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

func strPtr(s string) *string { return &s }

func newInstruction(id, title, content string, keywords ...string) domain.Instruction {
	return domain.Instruction{
		ID:       id,
		OrgID:    "org-1",
		Title:    title,
		Content:  strPtr(content),
		Severity: domain.SeverityMedium,
		Status:   domain.StatusPublished,
		Keywords: domain.KeywordSet{Terms: keywords, Version: textanalysis.ExtractorVersion},
	}
}

func TestScorer_Contributions(t *testing.T) {
	s := NewScorer(nil, DefaultWeights())

	tests := []struct {
		name     string
		query    string
		inst     domain.Instruction
		expected float64
	}{
		{
			name:     "keyword hit only",
			query:    "brann",
			inst:     newInstruction("a", "Rutiner", "Ingen treff her.", "brann"),
			expected: 3,
		},
		{
			name:     "title substring only",
			query:    "brann",
			inst:     newInstruction("a", "Brannvern", "Ingen treff her."),
			expected: 2,
		},
		{
			name:     "content occurrences",
			query:    "brann",
			inst:     newInstruction("a", "Rutiner", "Ved brann ring 110. Brann i kantina."),
			expected: 2,
		},
		{
			name:     "content occurrences are capped",
			query:    "brann",
			inst:     newInstruction("a", "Rutiner", "brann brann brann brann brann brann"),
			expected: 3,
		},
		{
			name:     "all contributions",
			query:    "brann",
			inst:     newInstruction("a", "Brannvern", "Ved brann ring 110.", "brann"),
			expected: 3 + 2 + 1,
		},
		{
			name:     "no qualifying tokens",
			query:    "hva er det",
			inst:     newInstruction("a", "Brannvern", "brann", "brann"),
			expected: 0,
		},
		{
			name:     "no overlap",
			query:    "ferie",
			inst:     newInstruction("a", "Brannvern", "brann", "brann"),
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, s.Score(tt.query, &tt.inst), 0.0001)
		})
	}
}

func TestScorer_WordOrderAndDuplicatesIgnored(t *testing.T) {
	s := NewScorer(nil, DefaultWeights())
	inst := newInstruction("a", "Brannvern og evakuering", "Evakuering ved brann.", "brann", "evakuering")

	a := s.Score("brann evakuering", &inst)
	b := s.Score("evakuering brann", &inst)
	c := s.Score("brann brann evakuering", &inst)

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
	assert.Greater(t, a, 0.0)
}

func TestScorer_KeywordHitIsMonotonic(t *testing.T) {
	s := NewScorer(nil, DefaultWeights())
	without := newInstruction("a", "Rutiner", "Rutiner for verneutstyr.", "rutiner")
	with := newInstruction("b", "Rutiner", "Rutiner for verneutstyr.", "rutiner", "verneutstyr")

	assert.GreaterOrEqual(t, s.Score("verneutstyr", &with), s.Score("verneutstyr", &without))
}

func TestScorer_CustomWeights(t *testing.T) {
	s := NewScorer(nil, Weights{Keyword: 10, Title: 0, Content: 0.5, ContentCap: 1})
	inst := newInstruction("a", "Brann", "brann brann", "brann")

	assert.InDelta(t, 10.5, s.Score("brann", &inst), 0.0001)
}

func TestScorer_NegativeWeightsClamped(t *testing.T) {
	s := NewScorer(nil, Weights{Keyword: -3, Title: -2, Content: -1, ContentCap: -1})
	inst := newInstruction("a", "Brann", "brann", "brann")

	assert.Equal(t, Weights{}, s.Weights())
	assert.InDelta(t, 0.0, s.Score("brann", &inst), 0.0001)
}

func TestScorer_NilContent(t *testing.T) {
	s := NewScorer(nil, DefaultWeights())
	inst := domain.Instruction{ID: "a", Title: "Brannvern"}

	assert.InDelta(t, 2.0, s.Score("brann", &inst), 0.0001)
	assert.InDelta(t, 0.0, s.ScoreTokens([]string{"brann"}, nil), 0.0001)
}

func TestWeightsFrom(t *testing.T) {
	w := WeightsFrom(domain.DefaultAppSettings().Ranking)

	assert.Equal(t, DefaultWeights(), w)
}
