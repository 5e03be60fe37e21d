package file

import (
	"github.com/caarlos0/env/v11"

	"github.com/tetrivo/tetra/internal/adapters/driven/config"
)

// envPrefix is prepended to every overlay variable name.
const envPrefix = "TETRA_"

// envOverlay lists the settings that can be overridden from the environment.
// Unset variables leave their field nil.
type envOverlay struct {
	KeywordWeight   *float64 `env:"RANKING_KEYWORD_WEIGHT"`
	TitleWeight     *float64 `env:"RANKING_TITLE_WEIGHT"`
	ContentWeight   *float64 `env:"RANKING_CONTENT_WEIGHT"`
	ContentCap      *int     `env:"RANKING_CONTENT_CAP"`
	DefaultTopN     *int     `env:"RANKING_DEFAULT_TOP_N"`
	MaxTopN         *int     `env:"RANKING_MAX_TOP_N"`
	MaxContextChars *int     `env:"RANKING_MAX_CONTEXT_CHARS"`

	MaxChunkChars *int `env:"CHUNKING_MAX_CHUNK_CHARS"`
	OverlapChars  *int `env:"CHUNKING_OVERLAP_CHARS"`

	MaxKeywords    *int `env:"KEYWORDS_MAX_KEYWORDS"`
	MinTokenLength *int `env:"KEYWORDS_MIN_TOKEN_LENGTH"`

	EmbeddingProvider *string  `env:"EMBEDDING_PROVIDER"`
	EmbeddingModel    *string  `env:"EMBEDDING_MODEL"`
	EmbeddingBaseURL  *string  `env:"EMBEDDING_BASE_URL"`
	EmbeddingAPIKey   *string  `env:"EMBEDDING_API_KEY"`
	EmbeddingRPS      *float64 `env:"EMBEDDING_REQUESTS_PER_SECOND"`

	DataDir         *string `env:"STORAGE_DATA_DIR"`
	ServerAddr      *string `env:"SERVER_ADDR"`
	Org             *string `env:"ORG"`
	ReindexInterval *string `env:"SCHEDULER_REINDEX_INTERVAL"`
	Processors      *string `env:"PIPELINE_PROCESSORS"`
}

// loadEnvOverrides reads TETRA_* variables into dot-notation keys.
func loadEnvOverrides() (config.Values, error) {
	var o envOverlay
	if err := env.ParseWithOptions(&o, env.Options{Prefix: envPrefix}); err != nil {
		return nil, err
	}

	out := make(config.Values)
	setFloat := func(key string, v *float64) {
		if v != nil {
			out[key] = *v
		}
	}
	setInt := func(key string, v *int) {
		if v != nil {
			out[key] = int64(*v)
		}
	}
	setString := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}

	setFloat("ranking.keyword_weight", o.KeywordWeight)
	setFloat("ranking.title_weight", o.TitleWeight)
	setFloat("ranking.content_weight", o.ContentWeight)
	setInt("ranking.content_cap", o.ContentCap)
	setInt("ranking.default_top_n", o.DefaultTopN)
	setInt("ranking.max_top_n", o.MaxTopN)
	setInt("ranking.max_context_chars", o.MaxContextChars)
	setInt("chunking.max_chunk_chars", o.MaxChunkChars)
	setInt("chunking.overlap_chars", o.OverlapChars)
	setInt("keywords.max_keywords", o.MaxKeywords)
	setInt("keywords.min_token_length", o.MinTokenLength)
	setString("embedding.provider", o.EmbeddingProvider)
	setString("embedding.model", o.EmbeddingModel)
	setString("embedding.base_url", o.EmbeddingBaseURL)
	setString("embedding.api_key", o.EmbeddingAPIKey)
	setFloat("embedding.requests_per_second", o.EmbeddingRPS)
	setString("storage.data_dir", o.DataDir)
	setString("server.addr", o.ServerAddr)
	setString("org.default", o.Org)
	setString("scheduler.reindex_interval", o.ReindexInterval)
	setString("pipeline.processors", o.Processors)

	return out, nil
}
