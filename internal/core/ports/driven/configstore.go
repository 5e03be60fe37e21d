package driven

// ConfigStore is a persisted set of dot-keyed values ("ranking.title_weight").
// The typed getters coerce numbers and yield zero values for missing keys.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	// GetStringSlice splits a plain string on commas.
	GetStringSlice(key string) []string

	// Set stores and persists one value.
	Set(key string, value any) error
	Save() error
	// Path is where values are written, or a label for memory stores.
	Path() string
}
