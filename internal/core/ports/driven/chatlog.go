package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatLogStore records question and answer exchanges.
// It never stores vectors or chunks.
type ChatLogStore interface {
	// Append records an exchange.
	Append(ctx context.Context, exchange domain.Exchange) error

	// Recent returns up to limit exchanges, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Exchange, error)

	// Count returns the number of recorded exchanges.
	Count(ctx context.Context) (int, error)
}
