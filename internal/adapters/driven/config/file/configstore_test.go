package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[paths]
data_dir = "corpus"

[retrieval]
top_k = 3
similarity_threshold = 0.5
enforce_citations = false

[server]
cors_origins = ["http://a.test", "http://b.test"]

[resilience]
rate_limit = 2
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestNewConfigStore_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	store, err := NewConfigStore(path)

	require.NoError(t, err)
	assert.Equal(t, path, store.Path())
	_, ok := store.Get("paths.data_dir")
	assert.False(t, ok)
}

func TestNewConfigStore_DefaultPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Cannot determine home directory")
	}

	store, err := NewConfigStore("")
	if err != nil {
		t.Skipf("existing user config is unreadable: %v", err)
	}

	assert.Equal(t, filepath.Join(home, ".risk-copilot", FileName), store.Path())
}

func TestConfigStore_FlattensTables(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "corpus", store.GetString("paths.data_dir"))
	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
	assert.InDelta(t, 0.5, store.GetFloat("retrieval.similarity_threshold"), 1e-9)
	assert.False(t, store.GetBool("retrieval.enforce_citations"))
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, store.GetStringSlice("server.cors_origins"))
}

func TestConfigStore_GetFloat_WidensIntegers(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.InDelta(t, 2.0, store.GetFloat("resilience.rate_limit"), 1e-9)
}

func TestConfigStore_WrongTypes(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "", store.GetString("retrieval.top_k"))
	assert.Equal(t, 0, store.GetInt("paths.data_dir"))
	assert.Equal(t, 0.0, store.GetFloat("paths.data_dir"))
	assert.False(t, store.GetBool("paths.data_dir"))
	assert.Nil(t, store.GetStringSlice("paths.data_dir"))
}

func TestConfigStore_MissingKeys(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, "", store.GetString("nope"))
	assert.Equal(t, 0, store.GetInt("nope"))
	assert.Nil(t, store.GetStringSlice("nope"))
}

func TestNewConfigStore_InvalidTOML(t *testing.T) {
	_, err := NewConfigStore(writeConfig(t, "[[broken"))

	assert.Error(t, err)
}

func TestNewConfigStore_EmptyFile(t *testing.T) {
	store, err := NewConfigStore(writeConfig(t, ""))

	require.NoError(t, err)
	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_Load_PicksUpChanges(t *testing.T) {
	path := writeConfig(t, "[retrieval]\ntop_k = 1\n")
	store, err := NewConfigStore(path)
	require.NoError(t, err)
	assert.Equal(t, 1, store.GetInt("retrieval.top_k"))

	require.NoError(t, os.WriteFile(path, []byte("[retrieval]\ntop_k = 9\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, 9, store.GetInt("retrieval.top_k"))
}

func TestConfigStore_Load_ReadError(t *testing.T) {
	store, err := NewConfigStore(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	store.filePath = t.TempDir()

	assert.Error(t, store.Load())
}

func TestConfigStore_Concurrency(t *testing.T) {
	path := writeConfig(t, sampleConfig)
	store, err := NewConfigStore(path)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.GetInt("retrieval.top_k")
		}()
		go func() {
			defer wg.Done()
			_ = store.Load()
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, store.GetInt("retrieval.top_k"))
}
