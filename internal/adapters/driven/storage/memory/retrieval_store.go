package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/retrieval"
)

// Ensure RetrievalStore implements the interface.
var _ driven.RetrievalStore = (*RetrievalStore)(nil)

// RetrievalStore is the in-memory chunk collection that backs similarity search.
// Queries take a read lock; AddChunks, EmbedAll and Reset take the write lock,
// so a query never observes a half-built vocabulary.
type RetrievalStore struct {
	mu         sync.RWMutex
	chunks     []domain.Chunk
	vocab      domain.Vocabulary
	generation uint64
	state      domain.StoreState
}

// NewRetrievalStore creates an empty retrieval store.
func NewRetrievalStore() *RetrievalStore {
	return &RetrievalStore{
		state: domain.StoreEmpty,
	}
}

// AddChunks appends chunks and invalidates every existing embedding.
func (s *RetrievalStore) AddChunks(ctx context.Context, chunks []domain.Chunk) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range chunks {
		c := chunks[i]
		c.Vector = nil
		s.chunks = append(s.chunks, c)
	}

	s.generation++
	if len(s.chunks) > 0 {
		s.state = domain.StorePopulated
	}
	return nil
}

// EmbedAll rebuilds the vocabulary from scratch and re-embeds every chunk.
func (s *RetrievalStore) EmbedAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.chunks) == 0 {
		s.vocab = domain.Vocabulary{Generation: s.generation}
		s.state = domain.StoreEmpty
		return nil
	}

	vocab := domain.Vocabulary{
		Terms:      retrieval.ComputeVocabulary(s.chunks),
		Generation: s.generation,
	}

	for i := range s.chunks {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return fmt.Errorf("embedding chunks: %w", err)
			}
		}
		v := retrieval.Embed(s.chunks[i].Content, vocab)
		s.chunks[i].Vector = &v
	}

	s.vocab = vocab
	s.state = domain.StoreReady
	return nil
}

// Query ranks every stored chunk against text.
func (s *RetrievalStore) Query(
	ctx context.Context,
	text string,
	maxResults int,
	threshold float64,
) (*domain.QueryResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	switch s.state {
	case domain.StoreEmpty:
		return &domain.QueryResult{}, nil
	case domain.StorePopulated:
		return nil, fmt.Errorf("query: %w", domain.ErrStoreNotReady)
	}

	query := retrieval.Embed(text, s.vocab)
	result, err := retrieval.Rank(query, s.chunks, maxResults, threshold)
	if err != nil {
		return nil, fmt.Errorf("ranking chunks: %w", err)
	}
	return &result, nil
}

// State returns the current lifecycle state.
func (s *RetrievalStore) State() domain.StoreState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Vocabulary returns the vocabulary of the last embedding pass.
func (s *RetrievalStore) Vocabulary() domain.Vocabulary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.vocab
}

// Stats summarises the stored corpus.
func (s *RetrievalStore) Stats(ctx context.Context) (*domain.Stats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make(map[string]struct{})
	for i := range s.chunks {
		docs[s.chunks[i].DocumentID] = struct{}{}
	}

	return &domain.Stats{
		DocumentsProcessed: len(docs),
		ChunksStored:       len(s.chunks),
		VocabularySize:     s.vocab.Size(),
		State:              s.state,
	}, nil
}

// Chunks returns a copy of the stored chunks in insertion order.
func (s *RetrievalStore) Chunks(ctx context.Context) ([]domain.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out, nil
}

// Reset drops every chunk and returns the store to Empty.
func (s *RetrievalStore) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.chunks = nil
	s.vocab = domain.Vocabulary{}
	s.generation++
	s.state = domain.StoreEmpty
	return nil
}
