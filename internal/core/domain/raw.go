package domain

import (
	"path/filepath"
	"strings"
)

// RawDocument represents opaque bytes selected by the user for upload.
// It is the extractor's input before any parsing happens.
type RawDocument struct {
	// Name is the file name as chosen by the user.
	Name string

	// MediaType is the declared content type (e.g., "application/pdf").
	// May be empty when the caller could not determine it.
	MediaType string

	// Content is the raw bytes.
	Content []byte
}

// Extension returns the lower-cased file name extension including the dot.
func (r *RawDocument) Extension() string {
	return strings.ToLower(filepath.Ext(r.Name))
}

// BaseMediaType returns the media type without parameters,
// so "application/pdf; charset=binary" becomes "application/pdf".
func (r *RawDocument) BaseMediaType() string {
	mt, _, _ := strings.Cut(r.MediaType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}
