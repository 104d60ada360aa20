package retrieval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func embedAll(chunks []domain.Chunk, generation uint64) domain.Vocabulary {
	vocab := domain.Vocabulary{Terms: ComputeVocabulary(chunks), Generation: generation}
	for i := range chunks {
		v := Embed(chunks[i].Content, vocab)
		chunks[i].Vector = &v
	}
	return vocab
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float64
		expected float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"zero norm", []float64{0, 0}, []float64{1, 1}, 0},
		{"both empty", nil, nil, 0},
		{"partial overlap", []float64{1, 1, 0}, []float64{1, 0, 0}, 1 / math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	vectors := [][]float64{
		{0.1, 0.2, 0, 0.7},
		{0, 0, 0.5, 0.5},
		{0.25, 0.25, 0.25, 0.25},
		{0, 0, 0, 0},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			assert.InDelta(t, CosineSimilarity(a, b), CosineSimilarity(b, a), 1e-12)
		}
	}
}

func TestRank_ThresholdIsStrict(t *testing.T) {
	chunks := chunksOf("reset password", "reset billing")
	vocab := embedAll(chunks, 1)
	query := Embed("reset", vocab)

	// Both chunks score the same, about 0.707.
	score := CosineSimilarity(query.Values, chunks[0].Vector.Values)
	require.InDelta(t, 1/math.Sqrt2, score, 1e-9)

	result, err := Rank(query, chunks, 10, score)
	require.NoError(t, err)
	assert.Empty(t, result.Chunks)

	result, err = Rank(query, chunks, 10, score-1e-9)
	require.NoError(t, err)
	assert.Len(t, result.Chunks, 2)
}

func TestRank_DescendingAndStableOnTies(t *testing.T) {
	chunks := chunksOf(
		"billing invoices",
		"reset password reset",
		"reset password",
		"password reset",
		"reset",
	)
	vocab := embedAll(chunks, 1)
	query := Embed("reset password", vocab)

	result, err := Rank(query, chunks, 10, 0)
	require.NoError(t, err)

	require.Len(t, result.Chunks, 4)
	require.Len(t, result.Scores, 4)
	for i := 1; i < len(result.Scores); i++ {
		assert.GreaterOrEqual(t, result.Scores[i-1], result.Scores[i])
	}
	for _, s := range result.Scores {
		assert.Greater(t, s, 0.0)
	}

	// chunks 2 and 3 tie at 1.0 and keep insertion order.
	assert.Equal(t, "doc_chunk_2", result.Chunks[0].ID)
	assert.Equal(t, "doc_chunk_3", result.Chunks[1].ID)
	assert.InDelta(t, 1.0, result.Scores[0], 1e-9)
	assert.InDelta(t, 1.0, result.Scores[1], 1e-9)
}

func TestRank_Truncates(t *testing.T) {
	chunks := chunksOf("reset one", "reset two", "reset three", "reset four")
	vocab := embedAll(chunks, 1)
	query := Embed("reset", vocab)

	result, err := Rank(query, chunks, 2, 0.1)
	require.NoError(t, err)
	assert.Len(t, result.Chunks, 2)

	result, err = Rank(query, chunks, 0, 0.1)
	require.NoError(t, err)
	assert.Empty(t, result.Chunks)
}

func TestRank_SelfRetrieval(t *testing.T) {
	chunks := chunksOf(
		"Passwords expire every ninety days",
		"Contact support to change the billing address",
		"Two factor authentication protects the account",
	)
	vocab := embedAll(chunks, 1)

	for _, c := range chunks {
		result, err := Rank(Embed(c.Content, vocab), chunks, 1, 0.1)
		require.NoError(t, err)
		require.Len(t, result.Chunks, 1)
		assert.Equal(t, c.ID, result.Chunks[0].ID)
		assert.InDelta(t, 1.0, result.Scores[0], 1e-9)
	}
}

func TestRank_RejectsStaleVectors(t *testing.T) {
	chunks := chunksOf("reset password", "billing invoices")
	embedAll(chunks, 1)

	vocab := domain.Vocabulary{Terms: ComputeVocabulary(chunks), Generation: 2}
	_, err := Rank(Embed("reset", vocab), chunks, 5, 0.1)
	assert.ErrorIs(t, err, domain.ErrStaleVector)

	chunks[0].Vector = nil
	_, err = Rank(Embed("reset", domain.Vocabulary{Generation: 1}), chunks, 5, 0.1)
	assert.ErrorIs(t, err, domain.ErrStaleVector)
}

func TestSources_FirstSeenOrder(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "1", Metadata: domain.ChunkMetadata{Filename: "b.txt"}},
		{ID: "2", Metadata: domain.ChunkMetadata{Filename: "a.txt"}},
		{ID: "3", Metadata: domain.ChunkMetadata{Filename: "b.txt"}},
		{ID: "4", Metadata: domain.ChunkMetadata{Filename: "c.pdf"}},
	}
	assert.Equal(t, []string{"b.txt", "a.txt", "c.pdf"}, Sources(chunks))
	assert.Empty(t, Sources(nil))
}
