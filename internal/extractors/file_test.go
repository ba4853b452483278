package extractors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFile_SniffsMediaType(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name     string
		file     string
		content  string
		wantType string
	}{
		{"pdf header", "renamed.bin", "%PDF-1.4\n%âãÏÓ\n1 0 obj\n<<>>\nendobj\n", "application/pdf"},
		{"plain text", "notes.pdf", "just some notes\n", "text/plain; charset=utf-8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			raw, err := ReadFile(path)

			require.NoError(t, err)
			assert.Equal(t, tt.file, raw.Name)
			assert.Equal(t, tt.wantType, raw.MediaType)
			assert.Equal(t, []byte(tt.content), raw.Content)
		})
	}
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.pdf"))
	assert.Error(t, err)
}
