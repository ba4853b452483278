package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func newTestServer(t *testing.T) (*Server, *mockDocumentService, *mockChatService, *mockSessionService) {
	t.Helper()
	ports, docs, chat, session := newTestPorts()
	server, err := NewServer(ports, "test")
	require.NoError(t, err)
	return server, docs, chat, session
}

func TestServer_handleUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("uploads file with sniffed media type", func(t *testing.T) {
		server, docs, _, _ := newTestServer(t)
		path := filepath.Join(t.TempDir(), "memo.pdf")
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o600))

		_, out, err := server.handleUpload(ctx, nil, UploadInput{Path: path})

		require.NoError(t, err)
		assert.Equal(t, "doc-memo.pdf", out.DocumentID)
		assert.Equal(t, "memo.pdf", out.Name)
		assert.Positive(t, out.Characters)
		require.NotNil(t, docs.uploaded)
		assert.Equal(t, "application/pdf", docs.uploaded.MediaType)
	})

	t.Run("empty path", func(t *testing.T) {
		server, _, _, _ := newTestServer(t)

		_, _, err := server.handleUpload(ctx, nil, UploadInput{Path: " "})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("missing file", func(t *testing.T) {
		server, _, _, _ := newTestServer(t)

		_, _, err := server.handleUpload(ctx, nil, UploadInput{Path: filepath.Join(t.TempDir(), "x.pdf")})

		assert.Error(t, err)
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer and citations", func(t *testing.T) {
		server, _, chat, _ := newTestServer(t)
		reply := domain.NewModelMessage("Costs fell [p. 4].", "doc-1")
		chat.reply = &reply

		_, out, err := server.handleAsk(ctx, nil, AskInput{Question: "What about costs?"})

		require.NoError(t, err)
		assert.Equal(t, "What about costs?", chat.question)
		assert.Equal(t, "Costs fell [p. 4].", out.Answer)
		assert.Equal(t, []string{"[p. 4]"}, out.Citations)
		assert.Equal(t, "doc-1", out.DocumentID)
	})

	t.Run("completion failure carries user message", func(t *testing.T) {
		server, _, chat, _ := newTestServer(t)
		chat.err = errors.Join(domain.ErrCompletion, errors.New("quota"))

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: "q"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCompletion)
		assert.Contains(t, err.Error(), domain.FallbackReply)
	})

	t.Run("blank question", func(t *testing.T) {
		server, _, _, _ := newTestServer(t)

		_, _, err := server.handleAsk(ctx, nil, AskInput{Question: ""})

		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestServer_handleListAndSetActive(t *testing.T) {
	ctx := context.Background()
	server, docs, _, _ := newTestServer(t)
	_, _ = docs.AddDocument(ctx, "a.pdf", "A")
	_, _ = docs.AddDocument(ctx, "b.pdf", "B")

	_, list, err := server.handleList(ctx, nil, ListInput{})
	require.NoError(t, err)
	require.Equal(t, 2, list.Count)
	assert.False(t, list.Documents[0].Active)
	assert.True(t, list.Documents[1].Active)

	_, out, err := server.handleSetActive(ctx, nil, SetActiveInput{ID: "doc-a.pdf"})
	require.NoError(t, err)
	assert.True(t, out.Switched)
	assert.Equal(t, "doc-a.pdf", out.ActiveID)

	_, out, err = server.handleSetActive(ctx, nil, SetActiveInput{ID: "unknown"})
	require.NoError(t, err)
	assert.False(t, out.Switched)
	assert.Equal(t, "doc-a.pdf", out.ActiveID)
}

func TestServer_handleReset(t *testing.T) {
	server, _, _, session := newTestServer(t)

	_, out, err := server.handleReset(context.Background(), nil, ResetInput{})

	require.NoError(t, err)
	assert.True(t, out.Reset)
	assert.Equal(t, 1, session.resets)
}
