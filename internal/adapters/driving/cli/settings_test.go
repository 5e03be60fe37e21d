package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tetrivo/tetra/internal/core/domain"
)

func TestMaskAPIKey(t *testing.T) {
	for in, want := range map[string]string{
		"":                     "****",
		"abc123":               "****",
		"12345678":             "****",
		"sk-1234567890abcdef":  "sk-1...cdef",
		"sk-proj-abcdefghijkl": "sk-p...ijkl",
	} {
		assert.Equal(t, want, maskAPIKey(in), "key %q", in)
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"", 2},
		{"   ", 2},
		{"1", 1},
		{" 3 ", 3},
		{"4", 4},
		{"0", 2},
		{"5", 2},
		{"-1", 2},
		{"two", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseChoice(tt.input, 4, 2), "input %q", tt.input)
	}
}

func TestApplySetting(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		check   func(t *testing.T, s *domain.AppSettings)
		wantErr bool
	}{
		{
			name:  "float weight",
			key:   "ranking.keyword_weight",
			value: "4.5",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 4.5, s.Ranking.KeywordWeight) },
		},
		{
			name:  "int setting with spaces",
			key:   " Chunking.Max_Chunk_Chars ",
			value: " 600 ",
			check: func(t *testing.T, s *domain.AppSettings) { assert.Equal(t, 600, s.Chunking.MaxChunkChars) },
		},
		{name: "unknown key", key: "ranking.magic", value: "1", wantErr: true},
		{name: "not a number", key: "ranking.title_weight", value: "high", wantErr: true},
		{name: "not an integer", key: "keywords.max_keywords", value: "2.5", wantErr: true},
		{name: "fails validation", key: "ranking.default_top_n", value: "50", wantErr: true},
		{name: "negative weight", key: "ranking.content_weight", value: "-1", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := domain.DefaultAppSettings()
			err := applySetting(&settings, tt.key, tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			tt.check(t, &settings)
		})
	}
}

func TestSettingKeys_Sorted(t *testing.T) {
	keys := settingKeys()
	assert.Len(t, keys, len(settingSetters))
	assert.IsIncreasing(t, keys)
	assert.Contains(t, settingsSetCmd.Long, "ranking.max_context_chars")
}

func TestSettingsCmd_ShowDefaults(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := runCLI(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "[Ranking]")
	assert.Contains(t, out, "Keyword weight: 3")
	assert.Contains(t, out, "Top N: 5 (max 20)")
	assert.Contains(t, out, "Max chunk: 800 characters")
	assert.Contains(t, out, "Provider: (none, keyword retrieval only)")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_SetPersists(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := runCLI(t, "settings", "set", "chunking.max_chunk_chars", "500")
	require.NoError(t, err)
	assert.Contains(t, out, "Set chunking.max_chunk_chars = 500")
	assert.Contains(t, out, "tetra reindex --force")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 500, settings.Chunking.MaxChunkChars)
}

func TestSettingsCmd_SetRejectsInvalid(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := runCLI(t, "settings", "set", "ranking.max_top_n", "0")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsCmd_EmbeddingWizard(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	out, err := runCLIWithInput(t, "1\n\n", "settings", "embedding")
	require.NoError(t, err)
	assert.Contains(t, out, "Validating configuration... OK")
	assert.Contains(t, out, "Embedding provider configured: Ollama (local) (nomic-embed-text)")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", settings.Embedding.Model)
}

func TestSettingsCmd_Reset(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := runCLI(t, "settings", "set", "ranking.title_weight", "6")
	require.NoError(t, err)
	_, err = runCLI(t, "settings", "set", "keywords.max_keywords", "4")
	require.NoError(t, err)

	out, err := runCLI(t, "settings", "reset", "Ranking")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings section [ranking] restored to defaults.")
	assert.NotContains(t, out, "reindex")

	settings, err := settingsService.Get()
	require.NoError(t, err)
	assert.InDelta(t, 2.0, settings.Ranking.TitleWeight, 0.0001)
	assert.Equal(t, 4, settings.Keywords.MaxKeywords)

	out, err = runCLI(t, "settings", "reset")
	require.NoError(t, err)
	assert.Contains(t, out, "All settings restored to defaults.")
	assert.Contains(t, out, "tetra reindex --force")

	settings, err = settingsService.Get()
	require.NoError(t, err)
	assert.Equal(t, 10, settings.Keywords.MaxKeywords)
}

func TestSettingsCmd_ResetUnknownSection(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()

	_, err := runCLI(t, "settings", "reset", "colours")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsCmd_NoService(t *testing.T) {
	_, cleanup := setupTestServices(t)
	defer cleanup()
	settingsService = nil

	_, err := runCLI(t, "settings", "show")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings service not configured")
}
