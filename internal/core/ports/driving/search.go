package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// RetrievalService exposes the retrieval corpus to external actors.
type RetrievalService interface {
	// Search returns the chunks most similar to query with their scores.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (*domain.QueryResult, error)

	// Stats summarises the corpus.
	Stats(ctx context.Context) (*domain.Stats, error)

	// Documents lists the ingested documents in ingestion order.
	Documents(ctx context.Context) ([]domain.DocumentSummary, error)

	// Ready reports whether every chunk is embedded under the current vocabulary.
	Ready() bool
}
