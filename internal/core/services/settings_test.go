package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/adapters/driven/storage/memory"
	"github.com/tetrivo/tetra/internal/core/domain"
)

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultAppSettings(), *settings)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("ranking.keyword_weight", 5.0)
	_ = store.Set("ranking.content_cap", int64(2))
	_ = store.Set("chunking.overlap_chars", 0)
	_ = store.Set("embedding.provider", "openai")
	_ = store.Set("embedding.model", "text-embedding-3-large")
	_ = store.Set("embedding.requests_per_second", 2)

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.InDelta(t, 5.0, settings.Ranking.KeywordWeight, 0.0001)
	assert.InDelta(t, 2.0, settings.Ranking.TitleWeight, 0.0001)
	assert.Equal(t, 2, settings.Ranking.ContentCap)
	assert.Equal(t, 0, settings.Chunking.OverlapChars)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
	assert.InDelta(t, 2.0, settings.Embedding.RequestsPerSecond, 0.0001)
}

func TestSettingsService_Get_InvalidProviderReturnsDefault(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.provider", "invalid_provider")

	settings, err := NewSettingsService(store, nil).Get()

	require.NoError(t, err)
	assert.Equal(t, domain.AIProvider(""), settings.Embedding.Provider)
}

func TestSettingsService_Save(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	settings.Ranking.TitleWeight = 4
	settings.Chunking.MaxChunkChars = 600
	settings.Embedding = domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
		Model:    "text-embedding-3-small",
		APIKey:   "sk-test",
	}

	require.NoError(t, service.Save(&settings))

	assert.InDelta(t, 4.0, store.GetFloat("ranking.title_weight"), 0.0001)
	assert.Equal(t, 600, store.GetInt("chunking.max_chunk_chars"))
	assert.Equal(t, "openai", store.GetString("embedding.provider"))
	assert.Equal(t, "sk-test", store.GetString("embedding.api_key"))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings, *got)
}

func TestSettingsService_Save_KeepsAPIKeyWhenEmpty(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("embedding.api_key", "existing")
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "existing", store.GetString("embedding.api_key"))
}

func TestSettingsService_Save_RejectsInvalid(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	settings.Ranking.KeywordWeight = -1

	err := service.Save(&settings)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, exists := store.Get("ranking.keyword_weight")
	assert.False(t, exists)
}

func TestSettingsService_SetEmbeddingProvider(t *testing.T) {
	t.Run("ollama gets default model and base url", func(t *testing.T) {
		store := memory.NewConfigStore()
		service := NewSettingsService(store, nil)

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOllama, "", ""))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
		assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
		assert.Equal(t, "http://localhost:11434", settings.Embedding.BaseURL)
	})

	t.Run("openai requires api key", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)

		err := service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("openai clears base url", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("embedding.base_url", "http://localhost:11434")
		service := NewSettingsService(store, nil)

		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "text-embedding-3-large", "sk"))

		settings, err := service.Get()
		require.NoError(t, err)
		assert.Empty(t, settings.Embedding.BaseURL)
		assert.Equal(t, "text-embedding-3-large", settings.Embedding.Model)
		assert.Equal(t, "sk", settings.Embedding.APIKey)
	})

	t.Run("unknown provider", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)

		err := service.SetEmbeddingProvider("anthropic", "", "key")

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestSettingsService_Validate(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)
	require.NoError(t, service.Validate())

	_ = store.Set("ranking.default_top_n", 50)
	assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_Reset(t *testing.T) {
	t.Run("one section", func(t *testing.T) {
		store := memory.NewConfigStore()
		service := NewSettingsService(store, nil)
		settings := domain.DefaultAppSettings()
		settings.Ranking.TitleWeight = 7
		settings.Chunking.MaxChunkChars = 400
		require.NoError(t, service.Save(&settings))

		require.NoError(t, service.Reset("ranking"))

		got, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultAppSettings().Ranking, got.Ranking)
		assert.Equal(t, 400, got.Chunking.MaxChunkChars)
	})

	t.Run("embedding clears the key", func(t *testing.T) {
		store := memory.NewConfigStore()
		service := NewSettingsService(store, nil)
		require.NoError(t, service.SetEmbeddingProvider(domain.AIProviderOpenAI, "", "sk-test"))

		require.NoError(t, service.Reset("embedding"))

		got, err := service.Get()
		require.NoError(t, err)
		assert.False(t, got.Embedding.IsConfigured())
		assert.Empty(t, store.GetString("embedding.api_key"))
	})

	t.Run("everything", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		settings := domain.DefaultAppSettings()
		settings.Keywords.MaxKeywords = 4
		require.NoError(t, service.Save(&settings))

		require.NoError(t, service.Reset(""))

		got, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultAppSettings(), *got)
	})

	t.Run("unknown section", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.ErrorIs(t, service.Reset("ui"), domain.ErrInvalidInput)
	})
}

func TestSettingsService_ValidateEmbeddingConfig(t *testing.T) {
	t.Run("nil validator", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.NoError(t, service.ValidateEmbeddingConfig())
	})

	t.Run("validator success", func(t *testing.T) {
		validator := &mockEmbeddingValidator{}
		service := NewSettingsService(memory.NewConfigStore(), validator)
		assert.NoError(t, service.ValidateEmbeddingConfig())
		assert.Equal(t, 1, validator.calls)
	})

	t.Run("validator error", func(t *testing.T) {
		validator := &mockEmbeddingValidator{embedErr: assert.AnError}
		service := NewSettingsService(memory.NewConfigStore(), validator)
		assert.ErrorIs(t, service.ValidateEmbeddingConfig(), assert.AnError)
	})
}

func TestSettingsService_GetPipelineConfig(t *testing.T) {
	t.Run("follows settings", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("chunking.max_chunk_chars", 500)
		_ = store.Set("keywords.max_keywords", 7)

		cfg := NewSettingsService(store, nil).GetPipelineConfig()

		assert.Equal(t, []string{"keywords", "chunker"}, cfg.Processors)
		assert.Equal(t, 500, cfg.GetProcessorConfig("chunker")["max_chunk_chars"])
		assert.Equal(t, 7, cfg.GetProcessorConfig("keywords")["max_keywords"])
	})

	t.Run("pipeline overrides", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("pipeline.processors", []string{"chunker"})
		_ = store.Set("pipeline.chunker.overlap_chars", int64(20))

		cfg := NewSettingsService(store, nil).GetPipelineConfig()

		assert.Equal(t, []string{"chunker"}, cfg.Processors)
		assert.Equal(t, int64(20), cfg.GetProcessorConfig("chunker")["overlap_chars"])
		assert.Equal(t, 800, cfg.GetProcessorConfig("chunker")["max_chunk_chars"])
	})

	t.Run("min token length follows keywords setting", func(t *testing.T) {
		store := memory.NewConfigStore()
		_ = store.Set("keywords.min_token_length", int64(2))
		_ = store.Set("pipeline.keywords.min_token_length", int64(5))

		cfg := NewSettingsService(store, nil).GetPipelineConfig()

		assert.Equal(t, 2, cfg.GetProcessorConfig("keywords")["min_token_length"])
	})
}
