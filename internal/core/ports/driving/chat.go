package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatService answers questions from the documentation corpus.
type ChatService interface {
	// Ask answers a question. Retrieval misses and model failures produce a
	// canonical fallback response rather than an error.
	Ask(ctx context.Context, message string) (*domain.ChatResponse, error)

	// History returns up to limit recorded exchanges, newest first.
	History(ctx context.Context, limit int) ([]domain.Exchange, error)
}
