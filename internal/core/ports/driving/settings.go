package driving

import "github.com/tetrivo/tetra/internal/core/domain"

// SettingsService reads and changes the ranking, chunking, keyword and
// embedding settings. Missing values read as their defaults.
type SettingsService interface {
	Get() (*domain.AppSettings, error)

	// Save validates settings and persists them. Nothing is written when
	// they are invalid.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider switches provider, filling in the default model
	// and base URL when they are empty.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// Reset restores one section ("ranking", "chunking", "keywords",
	// "embedding") to its defaults, or every section when section is "".
	Reset(section string) error

	Validate() error

	// ValidateEmbeddingConfig pings the configured provider.
	ValidateEmbeddingConfig() error
}
