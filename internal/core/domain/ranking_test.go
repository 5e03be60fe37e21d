package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestRankedInstruction_Fields tests RankedInstruction structure fields
func TestRankedInstruction_Fields(t *testing.T) {
	ri := RankedInstruction{
		Instruction: Instruction{ID: "inst-1", Title: "Brannvern"},
		Score:       7,
	}

	assert.Equal(t, "inst-1", ri.Instruction.ID)
	assert.Equal(t, "Brannvern", ri.Instruction.Title)
	assert.InDelta(t, 7.0, ri.Score, 0.0001)
}

// TestAskResult_ZeroValue tests that an empty result has no source
func TestAskResult_ZeroValue(t *testing.T) {
	var res AskResult

	assert.Nil(t, res.Source)
	assert.Empty(t, res.Ranked)
	assert.False(t, res.Fallback)
}

// TestReindexOptions_Defaults tests the zero value covers all organisations
func TestReindexOptions_Defaults(t *testing.T) {
	var opts ReindexOptions

	assert.Empty(t, opts.OrgID)
	assert.False(t, opts.Force)
}
