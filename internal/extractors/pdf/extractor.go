// Package pdf extracts page-ordered text from PDF files using the pure Go
// ledongthuc/pdf reader.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Extractor implements the interface.
var _ driven.Extractor = (*Extractor)(nil)

// MIMEType is the media type handled by this extractor.
const MIMEType = "application/pdf"

// Extractor reads PDF text page by page.
type Extractor struct{}

// New creates a new PDF extractor.
func New() *Extractor {
	return &Extractor{}
}

// SupportedMIMETypes returns the media types this extractor handles.
func (e *Extractor) SupportedMIMETypes() []string {
	return []string{MIMEType}
}

// SupportedExtensions returns the file extensions this extractor handles.
func (e *Extractor) SupportedExtensions() []string {
	return []string{".pdf"}
}

// Extract returns the text of every page in order. Each page's text
// items are joined with single spaces and followed by "\n\n[Page i]\n\n".
func (e *Extractor) Extract(ctx context.Context, raw *domain.RawDocument) (result *driven.ExtractResult, err error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: nil document", domain.ErrInvalidInput)
	}

	// The reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("%w: %s: %v", domain.ErrExtraction, raw.Name, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrExtraction, raw.Name, err)
	}

	pages := reader.NumPage()
	logger.Debug("extracting %s: %d pages", raw.Name, pages)

	var b strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		items := pageItems(reader.Page(i))
		b.WriteString(strings.Join(items, " "))
		fmt.Fprintf(&b, "\n\n[Page %d]\n\n", i)
	}

	return &driven.ExtractResult{
		Text:      b.String(),
		PageCount: pages,
	}, nil
}

// gapRatio is the horizontal gap, as a fraction of the font size, that
// separates two text items on the same baseline.
const gapRatio = 0.2

// pageItems groups the glyphs of a page into text items. An item ends when
// the baseline changes, when the pen moves back, or when it jumps forward
// past a gap. A page without a content object has no items.
func pageItems(page pdf.Page) []string {
	if page.V.IsNull() {
		return nil
	}

	var (
		items []string
		run   strings.Builder
		prev  pdf.Text
	)
	flush := func() {
		if run.Len() > 0 {
			items = append(items, run.String())
			run.Reset()
		}
	}

	for i, glyph := range page.Content().Text {
		if i > 0 && startsItem(prev, glyph) {
			flush()
		}
		run.WriteString(glyph.S)
		prev = glyph
	}
	flush()
	return items
}

func startsItem(prev, next pdf.Text) bool {
	const eps = 0.01
	end := prev.X + prev.W
	switch {
	case math.Abs(next.Y-prev.Y) > eps:
		return true
	case next.X < prev.X-eps:
		return true
	default:
		return next.X > end+gapRatio*next.FontSize
	}
}
