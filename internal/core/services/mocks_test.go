package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/postprocessors"
)

// mockEmbeddingService embeds text as term counts over a fixed vocabulary.
type mockEmbeddingService struct {
	mu       sync.Mutex
	vocab    []string
	err      error
	batches  int
	lastText []string
}

func newMockEmbedding(vocab ...string) *mockEmbeddingService {
	return &mockEmbeddingService{vocab: vocab}
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	lower := strings.ToLower(text)
	v := make([]float32, len(m.vocab)+1)
	for i, term := range m.vocab {
		v[i] = float32(strings.Count(lower, term))
	}
	// Bias term keeps vectors non-zero.
	v[len(m.vocab)] = 0.01
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.batches++
	m.lastText = texts
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int            { return len(m.vocab) + 1 }
func (m *mockEmbeddingService) ModelName() string          { return "mock" }
func (m *mockEmbeddingService) Ping(context.Context) error { return nil }
func (m *mockEmbeddingService) Close() error               { return nil }

// failingVectorIndex fails every search.
type failingVectorIndex struct{}

func (failingVectorIndex) Add(context.Context, string, []float32) error { return nil }
func (failingVectorIndex) Delete(context.Context, string) error         { return nil }
func (failingVectorIndex) Search(context.Context, []float32, int) ([]driven.VectorHit, error) {
	return nil, errors.New("index offline")
}
func (failingVectorIndex) Close() error { return nil }

// mockEmbeddingValidator records validation calls.
type mockEmbeddingValidator struct {
	embedErr error
	calls    int
}

func (m *mockEmbeddingValidator) ValidateEmbedding(_ *domain.EmbeddingSettings) error {
	m.calls++
	return m.embedErr
}

func newTestPipeline(t *testing.T) driven.PostProcessorPipeline {
	t.Helper()
	return newSettingsPipeline(t, domain.DefaultAppSettings())
}

func newSettingsPipeline(t *testing.T, settings domain.AppSettings) driven.PostProcessorPipeline {
	t.Helper()
	r := postprocessors.NewDefaultRegistry()
	p, err := r.BuildPipeline(domain.PipelineConfigFrom(settings))
	require.NoError(t, err)
	return p
}

func strPtr(s string) *string { return &s }
