package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure ChatService implements the interfaces.
var (
	_ driving.ChatService     = (*ChatService)(nil)
	_ driven.PromptStoreAware = (*ChatService)(nil)
)

// ChatService answers questions about the active document and keeps the
// conversation log.
type ChatService struct {
	state    *StateManager
	llm      driven.LLMService
	prompts  driven.PromptStore
	opts     driven.GenerateOptions
	inFlight atomic.Bool
}

// NewChatService creates a new chat service.
// llm may be nil, in which case every send fails with the fallback reply.
func NewChatService(state *StateManager, llm driven.LLMService) *ChatService {
	return &ChatService{
		state: state,
		llm:   llm,
	}
}

// SetPromptStore sets the prompt store for loading the document_qa template.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetGenerateOptions overrides the options passed to the completion provider.
func (s *ChatService) SetGenerateOptions(opts driven.GenerateOptions) {
	s.opts = opts
}

// InFlight reports whether a question is awaiting its answer.
func (s *ChatService) InFlight() bool {
	return s.inFlight.Load()
}

// Send asks a question about the active document.
func (s *ChatService) Send(ctx context.Context, input string) (*domain.ChatMessage, error) {
	question := strings.TrimSpace(input)
	if question == "" {
		return nil, nil
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, domain.ErrSendInProgress
	}
	defer s.inFlight.Store(false)

	// Resolve the active document and log the question in one step, so a
	// concurrent switch cannot separate the two.
	var (
		doc domain.Document
		ok  bool
	)
	s.state.Update(func(sess *domain.Session) bool {
		doc, ok = sess.ActiveDocument()
		if !ok {
			return false
		}
		sess.Append(domain.NewUserMessage(question))
		return true
	})
	if !ok {
		return nil, domain.ErrNoActiveDocument
	}

	answer, err := s.complete(ctx, doc, question)
	if err != nil {
		logger.Warn("completion failed for document %s: %v", doc.ID, err)
		s.state.Update(func(sess *domain.Session) bool {
			sess.Append(domain.NewModelMessage(domain.FallbackReply))
			return true
		})
		return nil, fmt.Errorf("%w: %w", domain.ErrCompletion, err)
	}

	reply := domain.NewModelMessage(answer, doc.ID)
	s.state.Update(func(sess *domain.Session) bool {
		sess.Append(reply)
		return true
	})
	return &reply, nil
}

func (s *ChatService) complete(ctx context.Context, doc domain.Document, question string) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	prompt := fmt.Sprintf(s.template(), doc.Text, question)

	start := time.Now()
	answer, err := s.llm.Generate(ctx, prompt, s.opts)
	if err != nil {
		return "", err
	}
	logger.Debug("%s answered in %v (%d chars)", s.llm.ModelName(), time.Since(start), len(answer))
	return answer, nil
}

// template returns the document_qa template, falling back to the built-in
// one when the store is unset, fails, or holds a template with the wrong
// number of placeholders.
func (s *ChatService) template() string {
	if s.prompts == nil {
		return driven.DefaultDocumentQAPrompt
	}
	tmpl, err := s.prompts.Load(driven.PromptDocumentQA)
	if err != nil {
		logger.Warn("load prompt %s: %v", driven.PromptDocumentQA, err)
		return driven.DefaultDocumentQAPrompt
	}
	if strings.Count(tmpl, "%s") != 2 {
		logger.Warn("prompt %s must contain exactly two %%s placeholders, using default", driven.PromptDocumentQA)
		return driven.DefaultDocumentQAPrompt
	}
	return tmpl
}

// History returns a copy of the conversation log.
func (s *ChatService) History(_ context.Context) ([]domain.ChatMessage, error) {
	sess := s.state.Snapshot()
	if sess.ConversationLog == nil {
		return []domain.ChatMessage{}, nil
	}
	return sess.ConversationLog, nil
}
