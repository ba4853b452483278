package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestNewConfigStore_MissingFileIsEmpty(t *testing.T) {
	store, dir := newStore(t)

	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
	assert.Empty(t, store.values)
	assert.NoFileExists(t, store.Path(), "nothing is written until the first change")
}

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "docchat")

	_, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.DirExists(t, dir)
}

func TestResolveConfigDir(t *testing.T) {
	dir, err := ResolveConfigDir("/srv/docchat")
	require.NoError(t, err)
	assert.Equal(t, "/srv/docchat", dir)

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	dir, err = ResolveConfigDir("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docchat"), dir)
}

func TestConfigStore_SetPersistsTables(t *testing.T) {
	store, dir := newStore(t)

	require.NoError(t, store.Set("llm.provider", "gemini"))
	require.NoError(t, store.Set("llm.model", "gemini-1.5-flash"))

	data, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "[llm]")
	assert.Contains(t, string(data), "provider = 'gemini'")

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "gemini-1.5-flash", reopened.GetString("llm.model"))
}

func TestConfigStore_GetString_WrongType(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Set("limits.pages", int64(40)))

	v, ok := store.Get("limits.pages")
	assert.True(t, ok)
	assert.EqualValues(t, 40, v)
	assert.Empty(t, store.GetString("limits.pages"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_Apply(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.Set("llm.base_url", "http://localhost:11434"))

	require.NoError(t, store.Apply(map[string]any{
		"llm.provider":    "openai",
		"llm.api_key":     "sk-test",
		"llm.base_url":    nil,
		"session.storage": "memory",
	}))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "openai", reopened.GetString("llm.provider"))
	assert.Equal(t, "sk-test", reopened.GetString("llm.api_key"))
	assert.Equal(t, "memory", reopened.GetString("session.storage"))
	_, ok := reopened.Get("llm.base_url")
	assert.False(t, ok)
}

func TestConfigStore_ApplyFailureKeepsState(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.Set("llm.provider", "gemini"))

	// Replacing the file with a directory makes the rename fail.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))
	defer os.Remove(store.Path())

	err := store.Set("llm.provider", "ollama")

	require.Error(t, err)
	assert.Equal(t, "gemini", store.GetString("llm.provider"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}

func TestConfigStore_Delete(t *testing.T) {
	store, dir := newStore(t)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	require.NoError(t, store.Delete("llm.api_key"))
	require.NoError(t, store.Delete("never.set"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	_, ok := reopened.Get("llm.api_key")
	assert.False(t, ok)
}

func TestConfigStore_LoadReplacesMemory(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Set("llm.model", "a"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("[llm]\nmodel = \"b\"\n"), 0600))
	require.NoError(t, store.Load())

	assert.Equal(t, "b", store.GetString("llm.model"))
}

func TestConfigStore_LoadHandWrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := "[llm]\nprovider = \"ollama\"\nbase_url = \"http://localhost:11434\"\n\n[session]\nstorage = \"sqlite\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"llm.provider":    "ollama",
		"llm.base_url":    "http://localhost:11434",
		"session.storage": "sqlite",
	}, store.values)
}

func TestConfigStore_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), nil, 0600))

	store, err := NewConfigStore(dir)

	require.NoError(t, err)
	assert.Empty(t, store.values)
}

func TestNewConfigStore_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[llm"), 0600))

	store, err := NewConfigStore(dir)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "config.toml")
	assert.Nil(t, store)
}

func TestConfigStore_FileIsPrivate(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Set("llm.api_key", "secret"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_ConcurrentWrites(t *testing.T) {
	store, dir := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set("llm.model", "m")
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("llm.model")
		}()
	}
	wg.Wait()

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "m", reopened.GetString("llm.model"))
}

func TestNestAndFlatten(t *testing.T) {
	flat := map[string]any{
		"llm.provider":    "gemini",
		"llm.model":       "gemini-1.5-flash",
		"session.storage": "sqlite",
		"debug":           true,
	}

	tables := nest(flat)
	assert.Equal(t, map[string]any{
		"llm":     map[string]any{"provider": "gemini", "model": "gemini-1.5-flash"},
		"session": map[string]any{"storage": "sqlite"},
		"debug":   true,
	}, tables)

	back := make(map[string]any)
	flatten(back, "", tables)
	assert.Equal(t, flat, back)
}

func TestNest_TableWinsOverScalar(t *testing.T) {
	tables := nest(map[string]any{"llm": "gemini", "llm.model": "x"})

	assert.Equal(t, map[string]any{"llm": map[string]any{"model": "x"}}, tables)
}
