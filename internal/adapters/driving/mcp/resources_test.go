package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestDocumentID(t *testing.T) {
	tests := []struct {
		uri    string
		want   string
		wantOK bool
	}{
		{"docchat://documents/doc-456", "doc-456", true},
		{"docchat://documents/active", "active", true},
		{"docchat://documents/", "", false},
		{"docchat://documents/a/b", "", false},
		{"file://documents/doc-456", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			id, ok := documentID(tt.uri)
			assert.Equal(t, tt.want, id)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestServer_handleSessionResource(t *testing.T) {
	server, _, _, session := newTestServer(t)
	uploaded := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	session.session = &domain.Session{
		Name: "report",
		Documents: []domain.Document{
			{ID: "d1", Name: "report.pdf", Text: "One\n\n[Page 1]\n\nTwo\n\n[Page 2]\n\n", UploadedAt: uploaded},
		},
		ConversationLog: []domain.ChatMessage{domain.NewUserMessage("q")},
		ActiveID:        "d1",
	}

	result, err := server.handleSessionResource(context.Background(), readRequest(sessionURI))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.NotContains(t, result.Contents[0].Text, "[Page 1]", "document text is left out")

	var got sessionSummary
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.Equal(t, "report", got.Name)
	assert.Equal(t, "d1", got.ActiveID)
	assert.Equal(t, 1, got.Messages)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, 2, got.Documents[0].Pages)
	assert.True(t, uploaded.Equal(got.Documents[0].UploadedAt))
}

func TestServer_handleSessionResource_Error(t *testing.T) {
	server, _, _, session := newTestServer(t)
	session.err = errors.New("store offline")

	_, err := server.handleSessionResource(context.Background(), readRequest(sessionURI))

	assert.ErrorContains(t, err, "store offline")
}

func TestServer_handleHistoryResource(t *testing.T) {
	server, _, chat, _ := newTestServer(t)
	chat.history = []domain.ChatMessage{
		domain.NewUserMessage("q"),
		domain.NewModelMessage("a [p. 1]", "doc-1"),
	}

	result, err := server.handleHistoryResource(context.Background(), readRequest(historyURI))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	text := result.Contents[0].Text
	assert.Contains(t, text, `"role": "model"`)
	assert.Contains(t, text, `"citations": [`)
	assert.Contains(t, text, `"referencedDocumentIds": [`)
}

func TestServer_handleHistoryResource_EmptyIsArray(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	result, err := server.handleHistoryResource(context.Background(), readRequest(historyURI))

	require.NoError(t, err)
	assert.Equal(t, "[]", result.Contents[0].Text)
}

func TestServer_handleDocumentTextResource(t *testing.T) {
	ctx := context.Background()
	server, docs, _, _ := newTestServer(t)
	_, _ = docs.AddDocument(ctx, "a.pdf", "Alpha\n\n[Page 1]\n\n")
	_, _ = docs.AddDocument(ctx, "b.pdf", "Beta\n\n[Page 1]\n\n")

	t.Run("by id", func(t *testing.T) {
		result, err := server.handleDocumentTextResource(ctx, readRequest("docchat://documents/doc-a.pdf"))

		require.NoError(t, err)
		assert.Equal(t, "Alpha\n\n[Page 1]\n\n", result.Contents[0].Text)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
	})

	t.Run("active alias", func(t *testing.T) {
		result, err := server.handleDocumentTextResource(ctx, readRequest("docchat://documents/active"))

		require.NoError(t, err)
		assert.Equal(t, "Beta\n\n[Page 1]\n\n", result.Contents[0].Text)
	})

	for _, uri := range []string{"docchat://documents/missing", "docchat://other"} {
		t.Run(uri, func(t *testing.T) {
			_, err := server.handleDocumentTextResource(ctx, readRequest(uri))
			assert.Error(t, err)
		})
	}
}

func TestServer_handleDocumentTextResource_NoActiveDocument(t *testing.T) {
	server, _, _, _ := newTestServer(t)

	_, err := server.handleDocumentTextResource(context.Background(), readRequest("docchat://documents/active"))

	assert.Error(t, err)
}
