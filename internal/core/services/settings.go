package services

import (
	"fmt"
	"strings"

	"github.com/tetrivo/tetra/internal/core/domain"
	"github.com/tetrivo/tetra/internal/core/ports/driven"
	"github.com/tetrivo/tetra/internal/core/ports/driving"
)

var _ driving.SettingsService = (*SettingsService)(nil)

//nolint:gosec // config key names, not credentials
const (
	keyAPIKey        = "embedding.api_key"
	keyPipelineSteps = "pipeline.processors"
	pipelinePrefix   = "pipeline."
	defaultOllamaURL = "http://localhost:11434"
)

// field binds one dot key of the config store to one settings field.
// Exactly one of the accessors is set.
type field struct {
	key      string
	floatPtr func(*domain.AppSettings) *float64
	intPtr   func(*domain.AppSettings) *int
	strPtr   func(*domain.AppSettings) *string
}

func floatField(key string, f func(*domain.AppSettings) *float64) field {
	return field{key: key, floatPtr: f}
}

func intField(key string, f func(*domain.AppSettings) *int) field {
	return field{key: key, intPtr: f}
}

func stringField(key string, f func(*domain.AppSettings) *string) field {
	return field{key: key, strPtr: f}
}

// fields lists every persisted setting except the provider and API key,
// which have their own rules.
var fields = []field{
	floatField("ranking.keyword_weight", func(s *domain.AppSettings) *float64 { return &s.Ranking.KeywordWeight }),
	floatField("ranking.title_weight", func(s *domain.AppSettings) *float64 { return &s.Ranking.TitleWeight }),
	floatField("ranking.content_weight", func(s *domain.AppSettings) *float64 { return &s.Ranking.ContentWeight }),
	intField("ranking.content_cap", func(s *domain.AppSettings) *int { return &s.Ranking.ContentCap }),
	intField("ranking.default_top_n", func(s *domain.AppSettings) *int { return &s.Ranking.DefaultTopN }),
	intField("ranking.max_top_n", func(s *domain.AppSettings) *int { return &s.Ranking.MaxTopN }),
	intField("ranking.max_context_chars", func(s *domain.AppSettings) *int { return &s.Ranking.MaxContextChars }),
	intField("chunking.max_chunk_chars", func(s *domain.AppSettings) *int { return &s.Chunking.MaxChunkChars }),
	intField("chunking.overlap_chars", func(s *domain.AppSettings) *int { return &s.Chunking.OverlapChars }),
	intField("keywords.max_keywords", func(s *domain.AppSettings) *int { return &s.Keywords.MaxKeywords }),
	intField("keywords.min_token_length", func(s *domain.AppSettings) *int { return &s.Keywords.MinTokenLength }),
	stringField("embedding.model", func(s *domain.AppSettings) *string { return &s.Embedding.Model }),
	stringField("embedding.base_url", func(s *domain.AppSettings) *string { return &s.Embedding.BaseURL }),
	floatField("embedding.requests_per_second", func(s *domain.AppSettings) *float64 { return &s.Embedding.RequestsPerSecond }),
}

// load copies the stored value over the default. Empty strings keep the
// default.
func (f field) load(store driven.ConfigStore, s *domain.AppSettings) {
	if _, ok := store.Get(f.key); !ok {
		return
	}
	switch {
	case f.floatPtr != nil:
		*f.floatPtr(s) = store.GetFloat(f.key)
	case f.intPtr != nil:
		*f.intPtr(s) = store.GetInt(f.key)
	case f.strPtr != nil:
		if v := store.GetString(f.key); v != "" {
			*f.strPtr(s) = v
		}
	}
}

func (f field) value(s *domain.AppSettings) any {
	switch {
	case f.floatPtr != nil:
		return *f.floatPtr(s)
	case f.intPtr != nil:
		return *f.intPtr(s)
	default:
		return *f.strPtr(s)
	}
}

// SettingsService reads settings from a ConfigStore layered over the
// defaults, and writes them back.
type SettingsService struct {
	store     driven.ConfigStore
	validator driven.EmbeddingValidator
}

// NewSettingsService accepts a nil validator, which skips provider checks.
func NewSettingsService(store driven.ConfigStore, validator driven.EmbeddingValidator) *SettingsService {
	return &SettingsService{store: store, validator: validator}
}

func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	for _, f := range fields {
		f.load(s.store, &settings)
	}
	// Unknown providers read as unset.
	if p := domain.AIProvider(s.store.GetString("embedding.provider")); p.IsValid() {
		settings.Embedding.Provider = p
	}
	settings.Embedding.APIKey = s.store.GetString(keyAPIKey)
	return &settings, nil
}

// Save writes nothing unless settings validate. An empty API key leaves the
// stored one in place.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	for _, f := range fields {
		if err := s.store.Set(f.key, f.value(settings)); err != nil {
			return fmt.Errorf("saving %s: %w", f.key, err)
		}
	}
	if err := s.store.Set("embedding.provider", settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("saving embedding.provider: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.store.Set(keyAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("saving %s: %w", keyAPIKey, err)
		}
	}
	return nil
}

func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	switch {
	case !provider.IsValid():
		return fmt.Errorf("%w: invalid embedding provider: %s", domain.ErrInvalidInput, provider)
	case provider.RequiresAPIKey() && apiKey == "":
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	e := &settings.Embedding
	e.Provider = provider
	e.APIKey = apiKey
	e.Model = model
	if e.Model == "" {
		e.Model = domain.DefaultEmbeddingModels()[provider]
	}
	switch {
	case provider.RequiresAPIKey():
		e.BaseURL = ""
	case e.BaseURL == "":
		e.BaseURL = defaultOllamaURL
	}
	return s.Save(settings)
}

func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

func (s *SettingsService) Reset(section string) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	defaults := domain.DefaultAppSettings()

	switch section {
	case "":
		*settings = defaults
	case "ranking":
		settings.Ranking = defaults.Ranking
	case "chunking":
		settings.Chunking = defaults.Chunking
	case "keywords":
		settings.Keywords = defaults.Keywords
	case "embedding":
		settings.Embedding = defaults.Embedding
	default:
		return fmt.Errorf("%w: unknown settings section %q", domain.ErrInvalidInput, section)
	}

	if section == "" || section == "embedding" {
		// Save never clears the key on its own.
		if err := s.store.Set(keyAPIKey, ""); err != nil {
			return fmt.Errorf("clearing %s: %w", keyAPIKey, err)
		}
	}
	return s.Save(settings)
}

// ValidateEmbeddingConfig asks the validator to reach the configured
// provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateEmbedding(&settings.Embedding)
}

// GetPipelineConfig derives processor options from the keyword and
// chunking settings. "pipeline.processors" replaces the processor order
// and "pipeline.<name>.<option>" overrides a single option.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	settings, err := s.Get()
	if err != nil {
		return domain.DefaultPipelineConfig()
	}
	cfg := domain.PipelineConfigFrom(*settings)

	if steps := s.store.GetStringSlice(keyPipelineSteps); len(steps) > 0 {
		cfg.Processors = steps
	}
	for _, name := range cfg.Processors {
		for option, value := range s.processorOverrides(name) {
			if cfg.ProcessorConfigs[name] == nil {
				cfg.ProcessorConfigs[name] = make(map[string]any)
			}
			cfg.ProcessorConfigs[name][option] = value
		}
	}
	return cfg
}

// min_token_length is not overridable per processor: the query side reads
// keywords.min_token_length and both sides must tokenise alike.
var processorOptions = []string{"max_keywords", "max_chunk_chars", "overlap_chars"}

func (s *SettingsService) processorOverrides(name string) map[string]any {
	prefix := pipelinePrefix + strings.ToLower(name) + "."
	out := make(map[string]any)
	for _, option := range processorOptions {
		if v, ok := s.store.Get(prefix + option); ok {
			out[option] = v
		}
	}
	return out
}
