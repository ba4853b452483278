package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Extractor turns an uploaded file into plain text.
// Each extractor handles specific formats (e.g., PDF).
type Extractor interface {
	// SupportedMIMETypes returns the media types this extractor handles.
	SupportedMIMETypes() []string

	// SupportedExtensions returns lower-case file extensions, dot included.
	SupportedExtensions() []string

	// Extract parses the raw bytes. Unparseable input fails with
	// domain.ErrExtraction.
	Extract(ctx context.Context, raw *domain.RawDocument) (*ExtractResult, error)
}

// ExtractResult contains the output of extraction.
type ExtractResult struct {
	// Text is the full text, each page followed by a "[Page i]" marker.
	Text string

	// PageCount is the number of pages read.
	PageCount int
}
