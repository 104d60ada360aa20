package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

// RetrievalService exposes raw similarity search and corpus statistics.
type RetrievalService struct {
	store    driven.RetrievalStore
	settings domain.RetrievalSettings
	chatLog  driven.ChatLogStore
}

// NewRetrievalService creates a retrieval service.
func NewRetrievalService(store driven.RetrievalStore, settings domain.RetrievalSettings) *RetrievalService {
	return &RetrievalService{
		store:    store,
		settings: settings,
	}
}

// SetChatLogStore lets Stats report the number of recorded exchanges.
func (s *RetrievalService) SetChatLogStore(store driven.ChatLogStore) {
	s.chatLog = store
}

// Search returns the chunks most similar to query with their scores.
// A blank query returns an empty result.
func (s *RetrievalService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) (*domain.QueryResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &domain.QueryResult{}, nil
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.settings.MaxRelevantChunks
	}
	threshold := s.settings.SimilarityThreshold
	if opts.Threshold != nil {
		threshold = *opts.Threshold
	}

	logger.Debug("Search: query=%q, limit=%d, threshold=%.3f", query, limit, threshold)

	result, err := s.store.Query(ctx, query, limit, threshold)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return result, nil
}

// Stats summarises the corpus and, when a chat log is set, the exchange count.
func (s *RetrievalService) Stats(ctx context.Context) (*domain.Stats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats: %w", err)
	}

	if s.chatLog != nil {
		n, err := s.chatLog.Count(ctx)
		if err != nil {
			logger.Warn("Count exchanges: %v", err)
		} else {
			stats.Exchanges = n
		}
	}
	return stats, nil
}

// Documents lists the ingested documents in ingestion order.
func (s *RetrievalService) Documents(ctx context.Context) ([]domain.DocumentSummary, error) {
	chunks, err := s.store.Chunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("documents: %w", err)
	}

	index := make(map[string]int)
	docs := []domain.DocumentSummary{}
	for i := range chunks {
		id := chunks[i].DocumentID
		pos, ok := index[id]
		if !ok {
			pos = len(docs)
			index[id] = pos
			docs = append(docs, domain.DocumentSummary{
				ID:       id,
				Filename: chunks[i].Metadata.Filename,
			})
		}
		docs[pos].Chunks++
	}
	return docs, nil
}

// Ready reports whether queries can run: the store is Ready, or Empty
// (which answers every query with an empty result).
func (s *RetrievalService) Ready() bool {
	return s.store.State() != domain.StorePopulated
}
