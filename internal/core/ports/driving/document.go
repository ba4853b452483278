package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentService manages the documents of the current session.
type DocumentService interface {
	// AddDocument stores already-extracted text as a new document and makes
	// it active. The first document of a session clears the conversation log
	// and names the session after the file.
	AddDocument(ctx context.Context, name, text string) (*domain.Document, error)

	// SetActive makes the document with the given id active.
	// An unknown id is ignored and nil is returned.
	SetActive(ctx context.Context, id string) error

	// Upload checks the file type, extracts the text and adds the document.
	// Fails with domain.ErrInvalidFileType or domain.ErrExtraction, leaving
	// the session unchanged.
	Upload(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error)

	// List returns the session documents in upload order.
	List(ctx context.Context) ([]domain.Document, error)

	// Active returns the active document.
	// Returns domain.ErrNoActiveDocument when the session has no documents.
	Active(ctx context.Context) (*domain.Document, error)
}
