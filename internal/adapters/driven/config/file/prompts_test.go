package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

const qaFile = driven.PromptDocumentQA + ".txt"

// promptDir returns a temp directory holding files, and a store over it.
func promptDir(t *testing.T, files map[string]string) (string, *PromptStore) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
	}
	store, err := NewPromptStore(dir)
	require.NoError(t, err)
	return dir, store
}

func loadQA(t *testing.T, store *PromptStore) string {
	t.Helper()
	prompt, err := store.Load(driven.PromptDocumentQA)
	require.NoError(t, err)
	return prompt
}

func TestNewPromptStore_Dir(t *testing.T) {
	dir, store := promptDir(t, nil)
	assert.Equal(t, dir, store.Dir())

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	store, err = NewPromptStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".docchat", "prompts"), store.Dir())
}

func TestPromptStore_FirstLoadSeedsDirectory(t *testing.T) {
	dir, store := promptDir(t, nil)

	_, err := os.Stat(filepath.Join(dir, qaFile))
	require.ErrorIs(t, err, os.ErrNotExist, "nothing is written before the first Load")

	prompt := loadQA(t, store)

	seeded, err := os.ReadFile(filepath.Join(dir, qaFile))
	require.NoError(t, err)
	assert.Equal(t, prompt, strings.TrimSpace(string(seeded)))

	readme, err := os.ReadFile(filepath.Join(dir, "README.md"))
	require.NoError(t, err)
	assert.Contains(t, string(readme), qaFile)
	assert.Contains(t, string(readme), "[p. N]")
}

func TestPromptStore_BuiltInTemplate(t *testing.T) {
	_, store := promptDir(t, nil)

	prompt := loadQA(t, store)
	builtin, ok := DefaultPrompt(driven.PromptDocumentQA)

	require.True(t, ok)
	assert.Equal(t, builtin, prompt)
	assert.Contains(t, prompt, "[p. N]")

	// Document text comes before the question.
	filled := fmt.Sprintf(prompt, "DOC TEXT", "QUESTION")
	assert.Less(t, strings.Index(filled, "DOC TEXT"), strings.Index(filled, "QUESTION"))
}

func TestPromptStore_EditedTemplates(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"custom", "Custom: %s / %s", "Custom: %s / %s"},
		{"surrounding whitespace", "\n  body %s %s  \n\n", "body %s %s"},
		{"blank", "   \n", driven.DefaultDocumentQAPrompt},
		{"one placeholder", "Only the question: %s", driven.DefaultDocumentQAPrompt},
		{"three placeholders", "%s %s %s", driven.DefaultDocumentQAPrompt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, store := promptDir(t, map[string]string{qaFile: tt.content})

			assert.Equal(t, tt.want, loadQA(t, store))

			kept, err := os.ReadFile(filepath.Join(dir, qaFile))
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(kept), "user files are never rewritten")
		})
	}
}

func TestPromptStore_UnknownName(t *testing.T) {
	_, store := promptDir(t, nil)

	_, err := store.Load("summary")

	assert.ErrorContains(t, err, `unknown prompt "summary"`)
}

func TestPromptStore_ReloadPicksUpEdits(t *testing.T) {
	dir, store := promptDir(t, nil)
	path := filepath.Join(dir, qaFile)
	builtin := loadQA(t, store)

	require.NoError(t, os.WriteFile(path, []byte("edited %s %s"), 0600))
	assert.Equal(t, builtin, loadQA(t, store), "cached until Reload")

	store.Reload()
	assert.Equal(t, "edited %s %s", loadQA(t, store))

	require.NoError(t, os.Remove(path))
	store.Reload()
	assert.Equal(t, builtin, loadQA(t, store), "deleted file falls back")
}

func TestPromptStore_UnwritableDirUsesBuiltIn(t *testing.T) {
	parent, _ := promptDir(t, map[string]string{"file": "x"})

	store, err := NewPromptStore(filepath.Join(parent, "file", "prompts"))
	require.NoError(t, err)

	assert.Equal(t, driven.DefaultDocumentQAPrompt, loadQA(t, store))
}

func TestPromptStore_ConcurrentLoadAndReload(t *testing.T) {
	_, store := promptDir(t, map[string]string{qaFile: "shared %s %s"})

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			prompt, err := store.Load(driven.PromptDocumentQA)
			assert.NoError(t, err)
			assert.Equal(t, "shared %s %s", prompt)
			store.Reload()
		}()
	}
	wg.Wait()
}
