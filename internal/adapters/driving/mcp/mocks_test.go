package mcp

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	activeID  string
	uploaded  *domain.RawDocument
	err       error
}

func (m *mockDocumentService) AddDocument(_ context.Context, name, text string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc := domain.Document{ID: "doc-" + name, Name: name, Text: text}
	m.documents = append(m.documents, doc)
	m.activeID = doc.ID
	return &doc, nil
}

func (m *mockDocumentService) SetActive(_ context.Context, id string) error {
	for _, d := range m.documents {
		if d.ID == id {
			m.activeID = id
		}
	}
	return m.err
}

func (m *mockDocumentService) Upload(ctx context.Context, raw *domain.RawDocument) (*domain.Document, error) {
	m.uploaded = raw
	return m.AddDocument(ctx, raw.Name, "extracted\n\n[Page 1]\n\n")
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Active(_ context.Context) (*domain.Document, error) {
	for i := range m.documents {
		if m.documents[i].ID == m.activeID {
			return &m.documents[i], nil
		}
	}
	return nil, domain.ErrNoActiveDocument
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply    *domain.ChatMessage
	history  []domain.ChatMessage
	err      error
	question string
}

func (m *mockChatService) Send(_ context.Context, input string) (*domain.ChatMessage, error) {
	m.question = input
	return m.reply, m.err
}

func (m *mockChatService) History(_ context.Context) ([]domain.ChatMessage, error) {
	return m.history, m.err
}

func (m *mockChatService) InFlight() bool { return false }

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	session *domain.Session
	resets  int
	err     error
}

func (m *mockSessionService) Restore(_ context.Context) error { return m.err }

func (m *mockSessionService) Reset(_ context.Context) error {
	m.resets++
	return m.err
}

func (m *mockSessionService) Snapshot(_ context.Context) (*domain.Session, error) {
	if m.session != nil {
		return m.session, m.err
	}
	return domain.NewSession(), m.err
}

func (m *mockSessionService) Subscribe(_ func(domain.Session)) func() { return func() {} }

func newTestPorts() (*Ports, *mockDocumentService, *mockChatService, *mockSessionService) {
	docs := &mockDocumentService{}
	chat := &mockChatService{}
	session := &mockSessionService{}
	return &Ports{Document: docs, Chat: chat, Session: session}, docs, chat, session
}
