package messages

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewType_String(t *testing.T) {
	tests := []struct {
		view ViewType
		want string
	}{
		{ViewMenu, "menu"},
		{ViewAsk, "ask"},
		{ViewInstructions, "instructions"},
		{ViewInstruction, "instruction"},
		{ViewHelp, "help"},
		{ViewType(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.view.String())
		})
	}
}

func TestViewType_Distinct(t *testing.T) {
	seen := map[ViewType]bool{}
	for _, v := range []ViewType{ViewMenu, ViewAsk, ViewInstructions, ViewInstruction, ViewHelp} {
		assert.False(t, seen[v], "duplicate view type %s", v)
		seen[v] = true
	}
}

func TestNavigate(t *testing.T) {
	cmd := Navigate(ViewHelp)

	assert.Equal(t, ViewChanged{View: ViewHelp}, cmd())
}
