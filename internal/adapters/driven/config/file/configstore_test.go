package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Success(t *testing.T) {
	tmpDir := t.TempDir()

	store, err := NewConfigStore(tmpDir)

	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Equal(t, filepath.Join(tmpDir, "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesNestedDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	_, err = os.Stat(dir)
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("ranking.keyword_weight", 2.5))
	require.NoError(t, store.Set("ranking.default_top_n", 7))
	require.NoError(t, store.Set("embedding.provider", "ollama"))
	require.NoError(t, store.Set("list", []string{"a", "b"}))

	assert.InDelta(t, 2.5, store.GetFloat("ranking.keyword_weight"), 0.0001)
	assert.Equal(t, 7, store.GetInt("ranking.default_top_n"))
	assert.InDelta(t, 7.0, store.GetFloat("ranking.default_top_n"), 0.0001)
	assert.Equal(t, "ollama", store.GetString("embedding.provider"))
	assert.Equal(t, []string{"a", "b"}, store.GetStringSlice("list"))

	// Wrong types and missing keys return zero values.
	assert.Equal(t, 0, store.GetInt("embedding.provider"))
	assert.Empty(t, store.GetString("ranking.default_top_n"))
	assert.Nil(t, store.GetStringSlice("missing"))
	assert.InDelta(t, 0.0, store.GetFloat("embedding.provider"), 0.0001)
}

func TestConfigStore_Persistence_WritesTables(t *testing.T) {
	tmpDir := t.TempDir()

	store1, err := NewConfigStore(tmpDir)
	require.NoError(t, err)
	require.NoError(t, store1.Set("ranking.keyword_weight", 4.0))
	require.NoError(t, store1.Set("ranking.max_top_n", 12))
	require.NoError(t, store1.Set("chunking.max_chunk_chars", 600))
	require.NoError(t, store1.Set("top_level", "yes"))

	raw, err := os.ReadFile(store1.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[ranking]")
	assert.Contains(t, string(raw), "[chunking]")

	store2, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, store2.GetFloat("ranking.keyword_weight"), 0.0001)
	assert.Equal(t, 12, store2.GetInt("ranking.max_top_n"))
	assert.Equal(t, 600, store2.GetInt("chunking.max_chunk_chars"))
	assert.Equal(t, "yes", store2.GetString("top_level"))
}

func TestConfigStore_LoadsHandWrittenFile(t *testing.T) {
	tmpDir := t.TempDir()
	content := []byte(`
[ranking]
keyword_weight = 5
content_cap = 2

[embedding]
provider = "openai"
model = "text-embedding-3-small"
`)
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), content, 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.InDelta(t, 5.0, store.GetFloat("ranking.keyword_weight"), 0.0001)
	assert.Equal(t, 2, store.GetInt("ranking.content_cap"))
	assert.Equal(t, "openai", store.GetString("embedding.provider"))
}

func TestConfigStore_EmptyFile(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("# nothing\n"), 0600))

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	val, ok := store.Get("any_key")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"), []byte("[[[ not toml"), 0600))

	_, err := NewConfigStore(tmpDir)

	assert.Error(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set("test", "value"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_EnvOverlay(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"),
		[]byte("[embedding]\nprovider = \"ollama\"\n[ranking]\nmax_top_n = 10\n"), 0600))

	t.Setenv("TETRA_EMBEDDING_PROVIDER", "openai")
	t.Setenv("TETRA_EMBEDDING_API_KEY", "sk-test")
	t.Setenv("TETRA_RANKING_MAX_TOP_N", "15")
	t.Setenv("TETRA_RANKING_TITLE_WEIGHT", "1.5")

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	assert.Equal(t, "openai", store.GetString("embedding.provider"))
	assert.Equal(t, "sk-test", store.GetString("embedding.api_key"))
	assert.Equal(t, 15, store.GetInt("ranking.max_top_n"))
	assert.InDelta(t, 1.5, store.GetFloat("ranking.title_weight"), 0.0001)

	// Overrides are not written back.
	require.NoError(t, store.Save())
	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-test")
	assert.Contains(t, string(raw), "ollama")
}

func TestConfigStore_EnvOverlay_InvalidNumber(t *testing.T) {
	t.Setenv("TETRA_RANKING_MAX_TOP_N", "many")

	_, err := NewConfigStore(t.TempDir())

	assert.Error(t, err)
}

func TestConfigStore_Concurrency(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := "key" + string(rune('0'+id))
			_ = store.Set(key, id)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()
}

func TestConfigStore_EnvPipelineProcessors(t *testing.T) {
	t.Setenv("TETRA_PIPELINE_PROCESSORS", "keywords, chunker")
	t.Setenv("TETRA_SCHEDULER_REINDEX_INTERVAL", "30m")

	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, []string{"keywords", "chunker"}, store.GetStringSlice("pipeline.processors"))
	assert.Equal(t, "30m", store.GetString("scheduler.reindex_interval"))
}

func TestConfigStore_OverrideReadsAsNumber(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "config.toml"),
		[]byte("[ranking]\ncontent_cap = 3\n"), 0600))
	t.Setenv("TETRA_RANKING_CONTENT_CAP", "5")

	store, err := NewConfigStore(tmpDir)
	require.NoError(t, err)

	v, ok := store.Get("ranking.content_cap")
	require.True(t, ok)
	assert.Equal(t, int64(5), v)
	assert.Equal(t, 5, store.GetInt("ranking.content_cap"))
}
