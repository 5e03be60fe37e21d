package keywords

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/textanalysis"
)

func strPtr(s string) *string { return &s }

func TestProcessor_Name(t *testing.T) {
	assert.Equal(t, "keywords", New().Name())
}

func TestProcessor_Process_SetsKeywords(t *testing.T) {
	inst := &domain.Instruction{
		Title:   "Brannvern",
		Content: strPtr("Ved brann skal brannslukker brukes. Brann meldes straks."),
	}
	in := []domain.Chunk{{Content: "existing"}}

	out, err := New().Process(context.Background(), inst, in)

	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Equal(t, textanalysis.ExtractorVersion, inst.Keywords.Version)
	require.NotEmpty(t, inst.Keywords.Terms)
	assert.Equal(t, "brann", inst.Keywords.Terms[0])
	assert.True(t, inst.Keywords.Contains("brannvern"))
}

func TestProcessor_Process_RespectsMax(t *testing.T) {
	inst := &domain.Instruction{
		Title:   "alpha beta gamma delta",
		Content: strPtr("epsilon zeta theta iota kappa"),
	}

	_, err := New(WithMaxKeywords(3)).Process(context.Background(), inst, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "beta", "gamma"}, inst.Keywords.Terms)
}

func TestProcessor_Process_FileOnlyUsesTitle(t *testing.T) {
	inst := &domain.Instruction{Title: "Verneutstyr sveising"}

	_, err := New().Process(context.Background(), inst, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"verneutstyr", "sveising"}, inst.Keywords.Terms)
}

func TestOptions(t *testing.T) {
	p := New(WithMaxKeywords(-1), WithAnalyzer(nil))
	assert.Equal(t, DefaultMaxKeywords, p.MaxKeywords())
	assert.NotNil(t, p.analyzer)

	p = New(WithMaxKeywords(0))
	inst := &domain.Instruction{Title: "brann", Content: strPtr("brann")}
	_, err := p.Process(context.Background(), inst, nil)
	require.NoError(t, err)
	assert.Empty(t, inst.Keywords.Terms)
}
