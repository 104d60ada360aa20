package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure ChatLogStore implements the interface.
var _ driven.ChatLogStore = (*ChatLogStore)(nil)

// DefaultChatLogCapacity bounds the in-memory chat log.
const DefaultChatLogCapacity = 1000

// ChatLogStore keeps the most recent exchanges in memory.
// Once capacity is reached the oldest exchange is evicted.
type ChatLogStore struct {
	mu        sync.RWMutex
	exchanges []domain.Exchange
	capacity  int
}

// NewChatLogStore creates a chat log holding at most capacity exchanges.
// A non-positive capacity uses DefaultChatLogCapacity.
func NewChatLogStore(capacity int) *ChatLogStore {
	if capacity <= 0 {
		capacity = DefaultChatLogCapacity
	}
	return &ChatLogStore{capacity: capacity}
}

// Append records an exchange, assigning an ID and timestamp when missing.
func (s *ChatLogStore) Append(ctx context.Context, exchange domain.Exchange) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if exchange.ID == "" {
		exchange.ID = uuid.New().String()
	}
	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now().UTC()
	}
	exchange.Sources = append([]string(nil), exchange.Sources...)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.exchanges = append(s.exchanges, exchange)
	if over := len(s.exchanges) - s.capacity; over > 0 {
		s.exchanges = append([]domain.Exchange(nil), s.exchanges[over:]...)
	}
	return nil
}

// Recent returns up to limit exchanges, newest first.
func (s *ChatLogStore) Recent(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.exchanges) {
		limit = len(s.exchanges)
	}

	out := make([]domain.Exchange, 0, limit)
	for i := len(s.exchanges) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.exchanges[i])
	}
	return out, nil
}

// Count returns the number of recorded exchanges.
func (s *ChatLogStore) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exchanges), nil
}
