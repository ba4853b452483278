package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// mockLLM records prompts and returns a canned answer or error.
type mockLLM struct {
	mu      sync.Mutex
	answer  string
	err     error
	prompts []string
	block   chan struct{}
	started chan struct{}
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	block, started := m.block, m.started
	m.started = nil
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.answer, m.err
}

func (m *mockLLM) ModelName() string            { return "mock" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

func (m *mockLLM) lastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.prompts) == 0 {
		return ""
	}
	return m.prompts[len(m.prompts)-1]
}

// mockExtractor returns fixed text for any PDF.
type mockExtractor struct {
	text  string
	pages int
	err   error
	calls int
}

func (m *mockExtractor) SupportedMIMETypes() []string  { return []string{"application/pdf"} }
func (m *mockExtractor) SupportedExtensions() []string { return []string{".pdf"} }

func (m *mockExtractor) Extract(_ context.Context, _ *domain.RawDocument) (*driven.ExtractResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &driven.ExtractResult{Text: m.text, PageCount: m.pages}, nil
}

// mockPromptStore serves a single template.
type mockPromptStore struct {
	template string
	err      error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.template, m.err }
func (m *mockPromptStore) Reload()                       {}

// failingSessionStore fails every call.
type failingSessionStore struct {
	loadErr error
}

var errStoreDown = errors.New("store down")

func (f *failingSessionStore) Load(_ context.Context) (*domain.Snapshot, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return nil, errStoreDown
}
func (f *failingSessionStore) Save(_ context.Context, _ *domain.Snapshot) error { return errStoreDown }
func (f *failingSessionStore) LoadActive(_ context.Context) (string, error)     { return "", errStoreDown }
func (f *failingSessionStore) SaveActive(_ context.Context, _ string) error     { return errStoreDown }
func (f *failingSessionStore) Clear(_ context.Context) error                    { return errStoreDown }
func (f *failingSessionStore) Close() error                                     { return nil }
