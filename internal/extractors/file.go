package extractors

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ReadFile loads a file from disk as a RawDocument. The media type is
// sniffed from the content, not taken from the extension.
func ReadFile(path string) (*domain.RawDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return &domain.RawDocument{
		Name:      filepath.Base(path),
		MediaType: mimetype.Detect(content).String(),
		Content:   content,
	}, nil
}
