package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/extractors"
)

// UploadInput is the input schema for the upload_document tool.
type UploadInput struct {
	Path string `json:"path" jsonschema:"absolute path of the PDF file to upload"`
}

// UploadOutput is the output schema for the upload_document tool.
type UploadOutput struct {
	DocumentID string `json:"document_id"`
	Name       string `json:"name"`
	Characters int    `json:"characters"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"question about the active document"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer     string   `json:"answer"`
	Citations  []string `json:"citations,omitempty"`
	DocumentID string   `json:"document_id,omitempty"`
}

// ListInput is the input schema for the list_documents tool.
type ListInput struct{}

// ListOutput is the output schema for the list_documents tool.
type ListOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single session document.
type DocumentOutput struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	UploadedAt time.Time `json:"uploaded_at"`
	Active     bool      `json:"active"`
}

// SetActiveInput is the input schema for the set_active_document tool.
type SetActiveInput struct {
	ID string `json:"id" jsonschema:"id of the document to make active"`
}

// SetActiveOutput is the output schema for the set_active_document tool.
type SetActiveOutput struct {
	ActiveID string `json:"active_id"`
	Switched bool   `json:"switched"`
}

// ResetInput is the input schema for the reset_session tool.
type ResetInput struct{}

// ResetOutput is the output schema for the reset_session tool.
type ResetOutput struct {
	Reset bool `json:"reset"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "upload_document",
		Description: "Extract the text of a local PDF and make it the active document",
	}, s.handleUpload)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Ask a question about the active document; answers cite pages as [p. N]",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the documents in the session",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "set_active_document",
		Description: "Switch the document that questions are asked about",
	}, s.handleSetActive)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "reset_session",
		Description: "Discard all documents and the conversation",
	}, s.handleReset)
}

func (s *Server) handleUpload(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input UploadInput,
) (*mcp.CallToolResult, UploadOutput, error) {
	if strings.TrimSpace(input.Path) == "" {
		return nil, UploadOutput{}, fmt.Errorf("%w: path is required", domain.ErrInvalidInput)
	}

	raw, err := extractors.ReadFile(input.Path)
	if err != nil {
		return nil, UploadOutput{}, err
	}

	doc, err := s.ports.Document.Upload(ctx, raw)
	if err != nil {
		return nil, UploadOutput{}, toolError(err)
	}

	return nil, UploadOutput{
		DocumentID: doc.ID,
		Name:       doc.Name,
		Characters: len(doc.Text),
	}, nil
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	reply, err := s.ports.Chat.Send(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}
	if reply == nil {
		return nil, AskOutput{}, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	out := AskOutput{
		Answer:    reply.Text,
		Citations: reply.Citations,
	}
	if len(reply.ReferencedDocumentIDs) > 0 {
		out.DocumentID = reply.ReferencedDocumentIDs[0]
	}
	return nil, out, nil
}

func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, ListOutput, error) {
	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListOutput{}, err
	}

	activeID := ""
	if active, err := s.ports.Document.Active(ctx); err == nil {
		activeID = active.ID
	}

	output := ListOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:         docs[i].ID,
			Name:       docs[i].Name,
			UploadedAt: docs[i].UploadedAt,
			Active:     docs[i].ID == activeID,
		}
	}
	return nil, output, nil
}

func (s *Server) handleSetActive(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SetActiveInput,
) (*mcp.CallToolResult, SetActiveOutput, error) {
	if err := s.ports.Document.SetActive(ctx, input.ID); err != nil {
		return nil, SetActiveOutput{}, err
	}

	active, err := s.ports.Document.Active(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoActiveDocument) {
		return nil, SetActiveOutput{}, err
	}

	out := SetActiveOutput{}
	if active != nil {
		out.ActiveID = active.ID
		out.Switched = active.ID == input.ID
	}
	return nil, out, nil
}

func (s *Server) handleReset(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ResetInput,
) (*mcp.CallToolResult, ResetOutput, error) {
	if err := s.ports.Session.Reset(ctx); err != nil {
		return nil, ResetOutput{}, err
	}
	return nil, ResetOutput{Reset: true}, nil
}

// toolError prefixes known domain errors with their user-facing message.
func toolError(err error) error {
	msg := domain.UserMessage(err)
	if msg == domain.MsgGeneric {
		return err
	}
	return fmt.Errorf("%s: %w", msg, err)
}
