package list

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

func chunk(filename string, pos int, content string) domain.Chunk {
	return domain.Chunk{
		DocumentID: filename,
		Content:    content,
		Position:   pos,
		Metadata: domain.ChunkMetadata{
			Filename: filename,
			Section:  domain.SectionLabel(pos),
		},
	}
}

func sampleMatches() []Match {
	return []Match{
		{Chunk: chunk("account.md", 0, "To reset your password, go to Settings."), Score: 0.61},
		{Chunk: chunk("billing.md", 0, "Billing information is in the Account section."), Score: 0.32},
		{Chunk: chunk("account.md", 1, "Passwords must contain twelve characters."), Score: 0.15},
	}
}

func TestMatchesFrom(t *testing.T) {
	result := &domain.QueryResult{
		Chunks: []domain.Chunk{chunk("a.md", 0, "alpha"), chunk("b.md", 0, "beta")},
		Scores: []float64{0.9, 0.4},
	}

	matches := MatchesFrom(result)

	require.Len(t, matches, 2)
	assert.Equal(t, "a.md", matches[0].Chunk.Metadata.Filename)
	assert.InDelta(t, 0.9, matches[0].Score, 0)
	assert.InDelta(t, 0.4, matches[1].Score, 0)
}

func TestMatchesFrom_Empty(t *testing.T) {
	assert.Nil(t, MatchesFrom(nil))
	assert.Nil(t, MatchesFrom(&domain.QueryResult{}))
}

func TestNewResultList(t *testing.T) {
	l := NewResultList(styles.DefaultStyles())

	require.NotNil(t, l)
	assert.Equal(t, 0, l.Selected())
	assert.True(t, l.IsEmpty())
	assert.Nil(t, l.SelectedMatch())
}

func TestNewResultList_NilStyles(t *testing.T) {
	l := NewResultList(nil)

	assert.NotNil(t, l.styles)
}

func TestResultList_Navigation(t *testing.T) {
	l := NewResultList(nil)
	l.SetMatches(sampleMatches())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, 2, l.Selected())
	assert.Equal(t, "account.md", l.SelectedMatch().Chunk.Metadata.Filename)

	l.SetMatches(sampleMatches()[:1])
	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, 1, l.Count())
}

func TestResultList_ViewEmpty(t *testing.T) {
	l := NewResultList(nil)

	assert.Contains(t, l.View(), "No matching chunks")
}

func TestResultList_ViewShowsScoresAndSections(t *testing.T) {
	l := NewResultList(nil)
	l.SetDimensions(100, 30)
	l.SetMatches(sampleMatches())

	view := l.View()

	assert.Contains(t, view, "Matches (3)")
	assert.Contains(t, view, "account.md chunk_0")
	assert.Contains(t, view, "0.6100")
	assert.Contains(t, view, "To reset your password")
}

func TestResultList_ViewScrollsToSelection(t *testing.T) {
	matches := make([]Match, 10)
	for i := range matches {
		matches[i] = Match{Chunk: chunk(fmt.Sprintf("doc%d.md", i), 0, "text"), Score: 0.5}
	}
	l := NewResultList(nil)
	l.SetDimensions(80, 10)
	l.SetMatches(matches)

	for i := 0; i < 9; i++ {
		l.MoveDown()
	}

	view := l.View()
	assert.Contains(t, view, "doc9.md")
	assert.NotContains(t, view, "doc0.md")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
	assert.Equal(t, "héllo w...", truncate(strings.Repeat("héllo world ", 3), 10))
}
