// Package ai builds the embedding provider and vector index from the
// embedding settings.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/tetrivo/tetra/internal/adapters/driven/embedding/ollama"
	"github.com/tetrivo/tetra/internal/adapters/driven/embedding/openai"
	"github.com/tetrivo/tetra/internal/adapters/driven/vector/memory"
	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/logger"
)

// pingTimeout bounds the reachability check made before a provider is used.
const pingTimeout = 5 * time.Second

// fixHint is appended to provider errors shown to the user.
const fixHint = "run 'tetra settings embedding' to fix"

// InitResult is the outcome of Init. Both services are nil when retrieval
// is keyword-only.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	VectorIndex      driven.VectorIndex

	// Warnings explain why a configured provider was not used.
	Warnings []string
	FellBack bool
}

// Close releases the services, if any.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		_ = r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		_ = r.VectorIndex.Close()
	}
}

// Init connects the configured provider and creates an empty vector index
// sized for it. An unreachable provider is a warning, not an error:
// retrieval falls back to keywords.
func Init(settings *domain.EmbeddingSettings) *InitResult {
	result := &InitResult{}

	svc, err := Connect(settings)
	switch {
	case err != nil:
		logger.Warn("embedding disabled: %v", err)
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
	case svc != nil:
		result.EmbeddingService = svc
		result.VectorIndex = memory.NewIndex(svc.Dimensions())
		logger.Debug("Embedding with %s (%d dimensions)", svc.ModelName(), svc.Dimensions())
	}
	return result
}

// Connect creates the provider and pings it. It returns nil, nil when
// no provider is configured.
func Connect(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := NewEmbeddingService(settings)
	if err != nil || svc == nil {
		if err != nil {
			err = fmt.Errorf("%w: %w; %s", domain.ErrEmbeddingUnavailable, err, fixHint)
		}
		return nil, err
	}

	if err := ping(svc); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: provider unreachable (%w); %s", domain.ErrEmbeddingUnavailable, err, fixHint)
	}
	return svc, nil
}

// NewEmbeddingService creates the provider named by settings without
// contacting it. It returns nil, nil when no provider is configured.
func NewEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerSecond: settings.RequestsPerSecond,
		}), nil
	case domain.AIProviderOpenAI:
		return openai.NewEmbeddingService(openai.Config{
			APIKey:            settings.APIKey,
			BaseURL:           settings.BaseURL,
			Model:             settings.Model,
			RequestsPerSecond: settings.RequestsPerSecond,
		})
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", settings.Provider)
	}
}

// Validator checks embedding settings by pinging the provider.
type Validator struct{}

var _ driven.EmbeddingValidator = Validator{}

func NewConfigValidator() Validator { return Validator{} }

func (Validator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	svc, err := NewEmbeddingService(settings)
	if err != nil || svc == nil {
		return err
	}
	defer svc.Close()
	return ping(svc)
}

func ping(svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}
