package postprocessors

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/adapters/driven/config"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/postprocessors/chunker"
	"github.com/tetrivo/tetra/internal/postprocessors/keywords"
)

func TestRegistry_BuildPassesConfig(t *testing.T) {
	r := NewRegistry()
	var got config.Values
	r.Register("custom", func(cfg config.Values) (driven.PostProcessor, error) {
		got = cfg
		return &step{name: cfg.String("name")}, nil
	})

	proc, err := r.Build("custom", map[string]any{"name": "renamed"})

	require.NoError(t, err)
	assert.Equal(t, "renamed", proc.Name())
	assert.Equal(t, config.Values{"name": "renamed"}, got)
	assert.Equal(t, []string{"custom"}, r.Names())
}

func TestRegistry_UnknownProcessor(t *testing.T) {
	r := NewDefaultRegistry()

	_, err := r.Build("summariser", nil)
	require.ErrorIs(t, err, domain.ErrUnsupportedType)
	assert.Contains(t, err.Error(), "chunker")

	_, err = r.BuildPipeline(domain.PipelineConfig{Processors: []string{"keywords", "summariser"}})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestRegistry_DuplicateProcessor(t *testing.T) {
	_, err := NewDefaultRegistry().BuildPipeline(domain.PipelineConfig{Processors: []string{"chunker", "chunker"}})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewDefaultRegistry(t *testing.T) {
	assert.Equal(t, []string{"chunker", "keywords"}, NewDefaultRegistry().Names())
}

func TestBuildChunker(t *testing.T) {
	tests := []struct {
		name        string
		cfg         map[string]any
		wantMax     int
		wantOverlap int
	}{
		{"toml ints", map[string]any{"max_chunk_chars": int64(500), "overlap_chars": int64(50)}, 500, 50},
		{"json floats", map[string]any{"max_chunk_chars": 400.0, "overlap_chars": 0.0}, 400, 0},
		{"env strings", map[string]any{"max_chunk_chars": "300", "overlap_chars": "30"}, 300, 30},
		{"nil", nil, chunker.New().MaxChunkChars(), chunker.New().OverlapChars()},
		{"zero size keeps default", map[string]any{"max_chunk_chars": 0}, chunker.New().MaxChunkChars(), chunker.New().OverlapChars()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			proc, err := NewDefaultRegistry().Build(chunker.Name, tt.cfg)
			require.NoError(t, err)

			c, ok := proc.(*chunker.Chunker)
			require.True(t, ok)
			assert.Equal(t, tt.wantMax, c.MaxChunkChars())
			assert.Equal(t, tt.wantOverlap, c.OverlapChars())
		})
	}
}

func TestBuildKeywords(t *testing.T) {
	proc, err := NewDefaultRegistry().Build(keywords.Name, map[string]any{"max_keywords": 2.0, "min_token_length": 4})
	require.NoError(t, err)

	kp, ok := proc.(*keywords.Processor)
	require.True(t, ok)
	assert.Equal(t, 2, kp.MaxKeywords())

	body := "øks øks hjelm hjelm hjelm vernesko"
	inst := &domain.Instruction{Title: "Utstyr", Content: &body}
	_, err = proc.Process(context.Background(), inst, nil)
	require.NoError(t, err)

	// "øks" is shorter than four runes.
	assert.Equal(t, []string{"hjelm", "utstyr"}, inst.Keywords.Terms)
}

func TestBuildPipeline_Defaults(t *testing.T) {
	p, err := NewDefaultRegistry().BuildPipeline(domain.DefaultPipelineConfig())
	require.NoError(t, err)
	assert.Equal(t, []string{"keywords", "chunker"}, p.Names())

	body := "Bruk hjelm.\n\nBruk vernesko."
	inst := &domain.Instruction{ID: "i1", Title: "Verneutstyr", Content: &body}
	chunks, err := p.Process(context.Background(), inst)

	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "i1", chunks[0].InstructionID)
	assert.True(t, inst.Keywords.Contains("verneutstyr"))
}
