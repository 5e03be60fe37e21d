package domain

import (
	"errors"
	"fmt"
)

// AIProvider names an embedding backend.
type AIProvider string

const (
	AIProviderOllama AIProvider = "ollama"
	AIProviderOpenAI AIProvider = "openai"
)

type providerInfo struct {
	description  string
	needsKey     bool
	defaultModel string
}

var providers = map[AIProvider]providerInfo{
	AIProviderOllama: {"Ollama (local)", false, "nomic-embed-text"},
	AIProviderOpenAI: {"OpenAI (cloud)", true, "text-embedding-3-small"},
}

func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

func (p AIProvider) RequiresAPIKey() bool { return providers[p].needsKey }

func (p AIProvider) String() string { return string(p) }

// Description is the label shown in menus, "Unknown" for unrecognised values.
func (p AIProvider) Description() string {
	if info, ok := providers[p]; ok {
		return info.description
	}
	return "Unknown"
}

// AllEmbeddingProviders lists providers in menu order.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// DefaultEmbeddingModels maps each provider to the model used when none
// is configured.
func DefaultEmbeddingModels() map[AIProvider]string {
	out := make(map[AIProvider]string, len(providers))
	for p, info := range providers {
		out[p] = info.defaultModel
	}
	return out
}

// RankingSettings weights the keyword score and bounds the query path.
// The weights are tuned values, not invariants.
type RankingSettings struct {
	KeywordWeight float64 // per query token among the stored keywords
	TitleWeight   float64 // per query token in the title
	ContentWeight float64 // per occurrence in the content
	ContentCap    int     // occurrences counted per token

	DefaultTopN     int
	MaxTopN         int
	MaxContextChars int
}

// ChunkingSettings sizes chunks in runes.
type ChunkingSettings struct {
	MaxChunkChars int
	OverlapChars  int
}

// KeywordSettings bounds keyword extraction. MinTokenLength is in runes.
type KeywordSettings struct {
	MaxKeywords    int
	MinTokenLength int
}

// EmbeddingSettings selects the embedding backend. A zero value means
// keyword-only retrieval.
type EmbeddingSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string

	// RequestsPerSecond paces calls to the provider; zero means unpaced.
	RequestsPerSecond float64
}

// IsConfigured reports whether the provider is known and has the
// credentials it needs.
func (e EmbeddingSettings) IsConfigured() bool {
	return e.Provider.IsValid() && (!e.Provider.RequiresAPIKey() || e.APIKey != "")
}

type AppSettings struct {
	Ranking   RankingSettings
	Chunking  ChunkingSettings
	Keywords  KeywordSettings
	Embedding EmbeddingSettings
}

func DefaultAppSettings() AppSettings {
	return AppSettings{
		Ranking: RankingSettings{
			KeywordWeight:   3,
			TitleWeight:     2,
			ContentWeight:   1,
			ContentCap:      3,
			DefaultTopN:     5,
			MaxTopN:         20,
			MaxContextChars: 12000,
		},
		Chunking: ChunkingSettings{MaxChunkChars: 800, OverlapChars: 100},
		Keywords: KeywordSettings{MaxKeywords: 10, MinTokenLength: 3},
	}
}

// Validate returns every problem found, each wrapping ErrInvalidInput.
func (s AppSettings) Validate() error {
	r := s.Ranking
	checks := []struct {
		bad bool
		msg string
	}{
		{r.KeywordWeight < 0 || r.TitleWeight < 0 || r.ContentWeight < 0, "ranking weights must be non-negative"},
		{r.ContentCap < 0, "ranking.content_cap must be non-negative"},
		{r.DefaultTopN <= 0 || r.MaxTopN <= 0, "ranking top-n limits must be positive"},
		{r.DefaultTopN > r.MaxTopN, "ranking.default_top_n exceeds ranking.max_top_n"},
		{r.MaxContextChars <= 0, "ranking.max_context_chars must be positive"},
		{s.Chunking.MaxChunkChars <= 0, "chunking.max_chunk_chars must be positive"},
		{s.Chunking.OverlapChars < 0, "chunking.overlap_chars must be non-negative"},
		{s.Keywords.MaxKeywords < 0 || s.Keywords.MinTokenLength < 0, "keyword limits must be non-negative"},
		{s.Embedding.Provider != "" && !s.Embedding.Provider.IsValid(), fmt.Sprintf("unknown embedding provider %q", s.Embedding.Provider)},
	}

	var errs []error
	for _, c := range checks {
		if c.bad {
			errs = append(errs, fmt.Errorf("%w: %s", ErrInvalidInput, c.msg))
		}
	}
	return errors.Join(errs...)
}

// PipelineConfig names the write-time processors in run order, with a
// free-form option map per processor.
type PipelineConfig struct {
	Processors       []string
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns nil for a processor without options.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	return c.ProcessorConfigs[name]
}

// PipelineConfigFrom runs keyword extraction before chunking.
func PipelineConfigFrom(s AppSettings) PipelineConfig {
	return PipelineConfig{
		Processors: []string{"keywords", "chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"keywords": {
				"max_keywords":     s.Keywords.MaxKeywords,
				"min_token_length": s.Keywords.MinTokenLength,
			},
			"chunker": {
				"max_chunk_chars": s.Chunking.MaxChunkChars,
				"overlap_chars":   s.Chunking.OverlapChars,
			},
		},
	}
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfigFrom(DefaultAppSettings())
}
