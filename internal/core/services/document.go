package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages the documents of the session.
type DocumentService struct {
	state     *StateManager
	extractor driven.Extractor
	now       func() time.Time
	newID     func() string
}

// NewDocumentService creates a new document service.
func NewDocumentService(state *StateManager, extractor driven.Extractor) *DocumentService {
	return &DocumentService{
		state:     state,
		extractor: extractor,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     uuid.NewString,
	}
}

// AddDocument stores extracted text as a new active document.
func (s *DocumentService) AddDocument(_ context.Context, name, text string) (*domain.Document, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: document name is required", domain.ErrInvalidInput)
	}

	doc := domain.Document{
		ID:         s.newID(),
		Name:       name,
		Text:       text,
		UploadedAt: s.now(),
	}

	s.state.Update(func(sess *domain.Session) bool {
		sess.AddDocument(doc)
		return true
	})

	logger.Info("added document %s (%s, %d chars)", doc.ID, doc.Name, len(doc.Text))
	return &doc, nil
}

// SetActive makes the document with the given id active.
// Unknown ids are ignored.
func (s *DocumentService) SetActive(_ context.Context, id string) error {
	s.state.Update(func(sess *domain.Session) bool {
		return sess.SetActive(id)
	})
	return nil
}

// Upload checks the file type, extracts the text and adds the document.
func (s *DocumentService) Upload(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: no file", domain.ErrInvalidInput)
	}
	if s.extractor == nil {
		return nil, fmt.Errorf("%w: no extractor configured", domain.ErrExtraction)
	}
	if !s.accepts(raw) {
		logger.Debug("rejected upload %q (media type %q)", raw.Name, raw.MediaType)
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidFileType, raw.Name)
	}

	start := time.Now()
	result, err := s.extractor.Extract(ctx, raw)
	if err != nil {
		if errors.Is(err, domain.ErrExtraction) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrExtraction, err)
	}
	logger.Debug("extracted %d pages from %s in %v", result.PageCount, raw.Name, time.Since(start))

	return s.AddDocument(ctx, raw.Name, result.Text)
}

// accepts reports whether the declared media type or the file extension
// names a format the extractor handles.
func (s *DocumentService) accepts(raw *domain.RawDocument) bool {
	if mt := raw.BaseMediaType(); mt != "" && slices.Contains(s.extractor.SupportedMIMETypes(), mt) {
		return true
	}
	ext := raw.Extension()
	return ext != "" && slices.Contains(s.extractor.SupportedExtensions(), ext)
}

// List returns the session documents in upload order.
func (s *DocumentService) List(_ context.Context) ([]domain.Document, error) {
	var docs []domain.Document
	s.state.Read(func(sess *domain.Session) {
		docs = append([]domain.Document{}, sess.Documents...)
	})
	return docs, nil
}

// Active returns the active document.
func (s *DocumentService) Active(_ context.Context) (*domain.Document, error) {
	var (
		doc domain.Document
		ok  bool
	)
	s.state.Read(func(sess *domain.Session) {
		doc, ok = sess.ActiveDocument()
	})
	if !ok {
		return nil, domain.ErrNoActiveDocument
	}
	return &doc, nil
}
