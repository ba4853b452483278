package domain

import (
	"path/filepath"
	"strings"
	"time"
)

// Document represents an uploaded document after text extraction.
// Documents are immutable once created and are only removed when the
// whole session is reset.
type Document struct {
	// ID is the unique identifier for the document.
	ID string `json:"id"`

	// Name is the original file name.
	Name string `json:"name"`

	// Text is the extracted full text with embedded page markers.
	Text string `json:"text"`

	// UploadedAt is when the document was added to the session.
	UploadedAt time.Time `json:"uploadedAt"`
}

// BaseName returns the document name with its final extension stripped.
func (d Document) BaseName() string {
	return StripExtension(d.Name)
}

// StripExtension removes the final extension from a file name.
// "report.final.pdf" becomes "report.final". Names without an
// extension are returned unchanged.
func StripExtension(name string) string {
	ext := filepath.Ext(name)
	if ext == "" || ext == name {
		return name
	}
	return strings.TrimSuffix(name, ext)
}
