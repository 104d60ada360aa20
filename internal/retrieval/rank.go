package retrieval

import (
	"fmt"
	"math"
	"sort"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// CosineSimilarity returns the cosine of the angle between a and b.
// It is 0 when the lengths differ or either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

type scored struct {
	chunk domain.Chunk
	score float64
}

// Rank scores every chunk against query and returns those scoring strictly
// above threshold, best first, capped at maxResults. Equal scores keep
// insertion order.
//
// Every chunk must carry a vector from the same vocabulary generation as the
// query. A missing or older vector fails with domain.ErrStaleVector.
func Rank(query domain.Vector, chunks []domain.Chunk, maxResults int, threshold float64) (domain.QueryResult, error) {
	candidates := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		if c.Vector == nil {
			return domain.QueryResult{}, fmt.Errorf("chunk %s: %w", c.ID, domain.ErrStaleVector)
		}
		if c.Vector.Generation != query.Generation {
			return domain.QueryResult{}, fmt.Errorf("chunk %s at generation %d, query at %d: %w",
				c.ID, c.Vector.Generation, query.Generation, domain.ErrStaleVector)
		}

		score := CosineSimilarity(query.Values, c.Vector.Values)
		if score > threshold {
			candidates = append(candidates, scored{chunk: c, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if maxResults < 0 {
		maxResults = 0
	}
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	result := domain.QueryResult{
		Chunks: make([]domain.Chunk, 0, len(candidates)),
		Scores: make([]float64, 0, len(candidates)),
	}
	for _, c := range candidates {
		result.Chunks = append(result.Chunks, c.chunk)
		result.Scores = append(result.Scores, c.score)
	}
	result.Sources = Sources(result.Chunks)
	return result, nil
}

// Sources returns the distinct source filenames of chunks in first-seen order.
func Sources(chunks []domain.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, c := range chunks {
		name := c.Metadata.Filename
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		sources = append(sources, name)
	}
	return sources
}
