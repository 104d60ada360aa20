package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func testChunk(filename string, pos int, content string) domain.Chunk {
	docID := domain.DocumentID(filename)
	return domain.Chunk{
		ID:         domain.ChunkID(docID, pos),
		DocumentID: docID,
		Content:    content,
		Position:   pos,
		Metadata: domain.ChunkMetadata{
			Filename: filename,
			Section:  domain.SectionLabel(pos),
		},
	}
}

func supportCorpus() []domain.Chunk {
	return []domain.Chunk{
		testChunk("account.md", 0, "To reset your password, go to Settings and click Reset Password."),
		testChunk("billing.md", 0, "Billing information can be found in the Account section."),
	}
}

func readyStore(t *testing.T, chunks []domain.Chunk) *RetrievalStore {
	t.Helper()
	ctx := context.Background()
	store := NewRetrievalStore()
	require.NoError(t, store.AddChunks(ctx, chunks))
	require.NoError(t, store.EmbedAll(ctx))
	require.Equal(t, domain.StoreReady, store.State())
	return store
}

func TestNewRetrievalStore(t *testing.T) {
	store := NewRetrievalStore()
	require.NotNil(t, store)
	assert.Equal(t, domain.StoreEmpty, store.State())
}

func TestRetrievalStore_QueryEmpty(t *testing.T) {
	store := NewRetrievalStore()

	result, err := store.Query(context.Background(), "anything at all", 5, 0.1)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsEmpty())
	assert.Empty(t, result.Sources)
}

func TestRetrievalStore_QueryBeforeEmbed(t *testing.T) {
	store := NewRetrievalStore()
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, supportCorpus()))
	assert.Equal(t, domain.StorePopulated, store.State())

	_, err := store.Query(ctx, "reset password", 5, 0.1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStoreNotReady)
}

func TestRetrievalStore_PasswordQuery(t *testing.T) {
	store := readyStore(t, supportCorpus())

	result, err := store.Query(context.Background(), "How do I reset my password?", 5, 0.1)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 1)
	assert.Contains(t, result.Chunks[0].Content, "reset your password")
	assert.Equal(t, []string{"account.md"}, result.Sources)
	require.Len(t, result.Scores, 1)
	assert.Greater(t, result.Scores[0], 0.1)
}

func TestRetrievalStore_UnrelatedQuery(t *testing.T) {
	store := readyStore(t, supportCorpus())

	result, err := store.Query(context.Background(), "What is quantum physics?", 5, 0.1)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	assert.Empty(t, result.Sources)
}

func TestRetrievalStore_ZeroMaxResults(t *testing.T) {
	store := readyStore(t, supportCorpus())

	result, err := store.Query(context.Background(), "reset password", 0, 0.1)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestRetrievalStore_EmbedAllWithoutChunks(t *testing.T) {
	store := NewRetrievalStore()

	require.NoError(t, store.EmbedAll(context.Background()))
	assert.Equal(t, domain.StoreEmpty, store.State())
}

func TestRetrievalStore_AddAfterReadyRequiresEmbed(t *testing.T) {
	ctx := context.Background()
	store := readyStore(t, supportCorpus())

	before, err := store.Stats(ctx)
	require.NoError(t, err)

	more := []domain.Chunk{testChunk("quantum.md", 0, "Quantum physics studies entanglement and superposition.")}
	require.NoError(t, store.AddChunks(ctx, more))
	assert.Equal(t, domain.StorePopulated, store.State())

	_, err = store.Query(ctx, "quantum physics", 5, 0.1)
	assert.ErrorIs(t, err, domain.ErrStoreNotReady)

	require.NoError(t, store.EmbedAll(ctx))

	after, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Greater(t, after.VocabularySize, before.VocabularySize)

	result, err := store.Query(ctx, "quantum physics", 5, 0.1)
	require.NoError(t, err)
	require.Len(t, result.Chunks, 1)
	assert.Equal(t, []string{"quantum.md"}, result.Sources)

	vocab := store.Vocabulary()
	assert.Equal(t, after.VocabularySize, vocab.Size())
	assert.Contains(t, vocab.Terms, "quantum")

	chunks, err := store.Chunks(ctx)
	require.NoError(t, err)
	for _, c := range chunks {
		require.NotNil(t, c.Vector)
		assert.Equal(t, vocab.Generation, c.Vector.Generation)
		assert.Equal(t, after.VocabularySize, c.Vector.Dimensions())
	}
}

func TestRetrievalStore_AddChunksDropsIncomingVectors(t *testing.T) {
	ctx := context.Background()
	store := NewRetrievalStore()

	c := testChunk("a.md", 0, "alpha beta gamma")
	c.Vector = &domain.Vector{Values: []float64{1}, Generation: 99}
	require.NoError(t, store.AddChunks(ctx, []domain.Chunk{c}))

	chunks, err := store.Chunks(ctx)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Nil(t, chunks[0].Vector)
}

func TestRetrievalStore_Stats(t *testing.T) {
	ctx := context.Background()
	chunks := append(supportCorpus(), testChunk("account.md", 1, "Passwords must contain twelve characters."))
	store := readyStore(t, chunks)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.DocumentsProcessed)
	assert.Equal(t, 3, stats.ChunksStored)
	assert.Positive(t, stats.VocabularySize)
	assert.Equal(t, domain.StoreReady, stats.State)
}

func TestRetrievalStore_ChunksReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := readyStore(t, supportCorpus())

	chunks, err := store.Chunks(ctx)
	require.NoError(t, err)
	chunks[0].Content = "mutated"

	again, err := store.Chunks(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again[0].Content)
}

func TestRetrievalStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := readyStore(t, supportCorpus())

	require.NoError(t, store.Reset(ctx))
	assert.Equal(t, domain.StoreEmpty, store.State())

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.ChunksStored)
	assert.Zero(t, stats.VocabularySize)

	result, err := store.Query(ctx, "reset password", 5, 0.1)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
}

func TestRetrievalStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := NewRetrievalStore()
	assert.ErrorIs(t, store.AddChunks(ctx, supportCorpus()), context.Canceled)
	assert.ErrorIs(t, store.EmbedAll(ctx), context.Canceled)

	_, err := store.Query(ctx, "reset", 5, 0.1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetrievalStore_ConcurrentQueries(t *testing.T) {
	ctx := context.Background()
	store := readyStore(t, supportCorpus())

	var wg sync.WaitGroup
	errs := make(chan error, 64)

	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := store.Query(ctx, "reset password", 5, 0.1)
			if err != nil {
				errs <- err
				return
			}
			if len(result.Chunks) != 1 {
				errs <- assert.AnError
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("concurrent query failed: %v", err)
	}
}

func TestRetrievalStore_ConcurrentAddAndQuery(t *testing.T) {
	ctx := context.Background()
	store := readyStore(t, supportCorpus())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c := testChunk("extra.md", i, "Extra notes about password rotation policy.")
			_ = store.AddChunks(ctx, []domain.Chunk{c})
			_ = store.EmbedAll(ctx)
		}(i)
		go func() {
			defer wg.Done()
			_, err := store.Query(ctx, "password", 5, 0.1)
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrStoreNotReady)
			}
		}()
	}
	wg.Wait()

	require.NoError(t, store.EmbedAll(ctx))
	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, stats.ChunksStored)
}
