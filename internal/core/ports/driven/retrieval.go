package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// RetrievalStore owns the chunk collection and answers similarity queries.
//
// The store moves through three states: Empty, Populated (chunks present but
// not embedded under the current vocabulary) and Ready. AddChunks always
// leaves it Populated; EmbedAll moves a non-empty store to Ready.
type RetrievalStore interface {
	// AddChunks appends chunks in order. Duplicate IDs are not detected.
	AddChunks(ctx context.Context, chunks []domain.Chunk) error

	// EmbedAll recomputes the vocabulary over every stored chunk and
	// re-embeds all of them.
	EmbedAll(ctx context.Context) error

	// Query embeds text against the current vocabulary and ranks all chunks.
	// An Empty store returns an empty result. A Populated store fails with
	// domain.ErrStoreNotReady.
	Query(ctx context.Context, text string, maxResults int, threshold float64) (*domain.QueryResult, error)

	// State returns the current lifecycle state.
	State() domain.StoreState

	// Vocabulary returns the vocabulary of the last embedding pass.
	Vocabulary() domain.Vocabulary

	// Stats summarises the stored corpus.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Chunks returns a copy of the stored chunks in insertion order.
	Chunks(ctx context.Context) ([]domain.Chunk, error)

	// Reset drops every chunk and returns the store to Empty.
	Reset(ctx context.Context) error
}
