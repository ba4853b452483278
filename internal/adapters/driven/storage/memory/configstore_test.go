package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	store := NewConfigStore("llm.provider", "ollama", "llm.model", "mistral")

	assert.Equal(t, "ollama", store.GetString("llm.provider"))
	assert.Equal(t, "mistral", store.GetString("llm.model"))
	assert.Equal(t, ":memory:", store.Path())
	assert.Zero(t, store.Writes())
}

func TestNewConfigStore_OddPairsPanics(t *testing.T) {
	assert.Panics(t, func() { NewConfigStore("llm.provider") })
}

func TestConfigStore_GetString_NonString(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("count", 3))

	v, ok := store.Get("count")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
	assert.Empty(t, store.GetString("count"))
	assert.Empty(t, store.GetString("missing"))
}

func TestConfigStore_ApplyIsOneWrite(t *testing.T) {
	store := NewConfigStore("llm.api_key", "old", "llm.base_url", "http://x")

	require.NoError(t, store.Apply(map[string]any{
		"llm.provider": "openai",
		"llm.api_key":  "sk-new",
		"llm.base_url": nil,
	}))

	assert.Equal(t, 1, store.Writes())
	assert.Equal(t, "openai", store.GetString("llm.provider"))
	assert.Equal(t, "sk-new", store.GetString("llm.api_key"))
	_, ok := store.Get("llm.base_url")
	assert.False(t, ok)
}

func TestConfigStore_Delete(t *testing.T) {
	store := NewConfigStore("llm.api_key", "secret")

	require.NoError(t, store.Delete("llm.api_key"))
	require.NoError(t, store.Delete("never.set"))

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok)
	assert.Equal(t, 2, store.Writes())
}

func TestConfigStore_LoadKeepsValues(t *testing.T) {
	store := NewConfigStore("k", "v")

	require.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
}

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	const rounds = 50
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := range rounds {
		wg.Add(3)
		go func() {
			defer wg.Done()
			_ = store.Set("key", i)
		}()
		go func() {
			defer wg.Done()
			_ = store.GetString("key")
		}()
		go func() {
			defer wg.Done()
			_ = store.Apply(map[string]any{"key": nil, "other": "x"})
		}()
	}
	wg.Wait()

	// One write per Set and per Apply; reads never write.
	assert.Equal(t, 2*rounds, store.Writes())
}
