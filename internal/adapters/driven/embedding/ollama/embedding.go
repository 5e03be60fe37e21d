// Package ollama embeds text with a local Ollama server.
package ollama

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/tetrivo/tetra/internal/adapters/driven/embedding"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL    = "http://localhost:11434"
	DefaultModel      = "nomic-embed-text"
	DefaultTimeout    = 30 * time.Second
	DefaultDimensions = 768
	DefaultBatchSize  = 32
)

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions is the vector size of Model.
	Dimensions int

	// BatchSize caps the inputs sent per /api/embed request.
	BatchSize int

	// RequestsPerSecond paces requests. Zero means unlimited.
	RequestsPerSecond float64
}

// EmbeddingService embeds chunk texts for hybrid retrieval.
type EmbeddingService struct {
	client     *embedding.Client
	model      string
	dimensions int
	batchSize  int
}

// embedRequest and embedResponse are the /api/embed wire format.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
}

// NewEmbeddingService fills unset Config fields with the package defaults.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = DefaultBatchSize
	}
	return &EmbeddingService{
		client: embedding.NewClient("ollama",
			cmp.Or(cfg.BaseURL, DefaultBaseURL),
			cmp.Or(cfg.Timeout, DefaultTimeout),
			cfg.RequestsPerSecond),
		model:      cmp.Or(cfg.Model, DefaultModel),
		dimensions: cmp.Or(cfg.Dimensions, DefaultDimensions),
		batchSize:  batch,
	}
}

func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch returns one vector per text, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, 0, len(texts))
	for _, batch := range embedding.Batches(texts, s.batchSize) {
		var resp embedResponse
		if err := s.client.PostJSON(ctx, "/api/embed", embedRequest{s.model, batch}, &resp); err != nil {
			return nil, err
		}
		if len(resp.Embeddings) != len(batch) {
			return nil, fmt.Errorf("ollama: got %d embeddings for %d inputs", len(resp.Embeddings), len(batch))
		}
		for _, e := range resp.Embeddings {
			if len(e) == 0 {
				return nil, fmt.Errorf("ollama: empty embedding for input %d", len(out))
			}
			out = append(out, embedding.Float32s(e))
		}
	}
	return out, nil
}

func (s *EmbeddingService) Dimensions() int { return s.dimensions }

func (s *EmbeddingService) ModelName() string { return s.model }

// Ping lists local models without loading one.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.client.Get(ctx, "/api/tags")
}

func (s *EmbeddingService) Close() error { return nil }
