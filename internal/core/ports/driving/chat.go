package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService answers questions about the active document.
type ChatService interface {
	// Send asks a question about the active document and returns the
	// model reply that was logged.
	//
	// Blank input is ignored and returns nil, nil. A completion failure logs
	// the fallback reply and returns an error wrapping domain.ErrCompletion.
	Send(ctx context.Context, input string) (*domain.ChatMessage, error)

	// History returns a copy of the conversation log.
	History(ctx context.Context) ([]domain.ChatMessage, error)

	// InFlight reports whether a question is awaiting its answer.
	InFlight() bool
}
