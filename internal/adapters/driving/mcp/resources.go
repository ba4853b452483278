package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Resource URIs.
const (
	sessionURI     = "docchat://session"
	historyURI     = "docchat://history"
	documentPrefix = "docchat://documents/"

	// activeAlias stands for the active document in a document URI.
	activeAlias = "active"
)

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         sessionURI,
		Name:        "session",
		Description: "Session name, documents (without their text) and the active document",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	s.server.AddResource(&mcp.Resource{
		URI:         historyURI,
		Name:        "history",
		Description: "Conversation log of the current session",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentPrefix + "{documentId}",
		Name:        "document-text",
		Description: "Extracted text of a session document with [Page N] markers. Use \"active\" as the id for the active document.",
		MIMEType:    "text/plain",
	}, s.handleDocumentTextResource)
}

// sessionSummary is the session resource body.
type sessionSummary struct {
	Name      string            `json:"name"`
	ActiveID  string            `json:"activeDocumentId,omitempty"`
	Documents []documentSummary `json:"documents"`
	Messages  int               `json:"messageCount"`
}

type documentSummary struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploadedAt"`
	Pages      int       `json:"pages"`
	Characters int       `json:"characters"`
}

func (s *Server) handleSessionResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	session, err := s.ports.Session.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading session: %w", err)
	}

	summary := sessionSummary{
		Name:      session.Name,
		ActiveID:  session.ActiveID,
		Documents: make([]documentSummary, 0, len(session.Documents)),
		Messages:  len(session.ConversationLog),
	}
	for _, d := range session.Documents {
		summary.Documents = append(summary.Documents, documentSummary{
			ID:         d.ID,
			Name:       d.Name,
			UploadedAt: d.UploadedAt,
			Pages:      strings.Count(d.Text, "[Page "),
			Characters: len([]rune(d.Text)),
		})
	}
	return jsonResource(req.Params.URI, summary)
}

func (s *Server) handleHistoryResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	messages, err := s.ports.Chat.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return jsonResource(req.Params.URI, messages)
}

func (s *Server) handleDocumentTextResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	id, ok := documentID(uri)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}

	doc, err := s.lookupDocument(ctx, id)
	if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrNoActiveDocument) {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "text/plain", Text: doc.Text}},
	}, nil
}

// lookupDocument resolves an id, or the active alias, to a document.
func (s *Server) lookupDocument(ctx context.Context, id string) (*domain.Document, error) {
	if id == activeAlias {
		return s.ports.Document.Active(ctx)
	}
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	for i := range docs {
		if docs[i].ID == id {
			return &docs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// documentID returns the id in docchat://documents/{id}.
func documentID(uri string) (string, bool) {
	id, ok := strings.CutPrefix(uri, documentPrefix)
	if !ok || id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: "application/json", Text: string(data)}},
	}, nil
}
