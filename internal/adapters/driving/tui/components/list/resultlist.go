// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Match is one ranked chunk with its similarity score.
type Match struct {
	Chunk domain.Chunk
	Score float64
}

// MatchesFrom pairs the chunks of a query result with their scores.
func MatchesFrom(result *domain.QueryResult) []Match {
	if result.IsEmpty() {
		return nil
	}
	out := make([]Match, len(result.Chunks))
	for i := range result.Chunks {
		out[i].Chunk = result.Chunks[i]
		if i < len(result.Scores) {
			out[i].Score = result.Scores[i]
		}
	}
	return out
}

// ResultList displays ranked chunks in a navigable list.
type ResultList struct {
	matches  []Match
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		styles: s,
		width:  80,
		height: 10,
	}
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.matches) == 0 {
		return r.styles.Muted.Render("No matching chunks")
	}

	lines := make([]string, 0, len(r.matches)*2+2)
	lines = append(lines, r.styles.Title.Render(fmt.Sprintf("Matches (%d)", len(r.matches))), "")

	// Each match takes two lines plus spacing.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.matches) {
		end = len(r.matches)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderMatch(i, &r.matches[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ResultList) renderMatch(index int, m *Match) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	label := m.Chunk.Metadata.Filename + " " + m.Chunk.Metadata.Section
	maxLabel := r.width - 16
	if maxLabel < 10 {
		maxLabel = 10
	}
	label = truncate(label, maxLabel)

	score := fmt.Sprintf("%.4f", m.Score)

	var head string
	if index == r.selected {
		head = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxLabel, label, score))
	} else {
		head = r.styles.Source.Render(fmt.Sprintf("%s%-*s  ", indicator, maxLabel, label)) +
			r.styles.Muted.Render(score)
	}

	maxPreview := r.width - 6
	if maxPreview < 20 {
		maxPreview = 20
	}
	preview := strings.Join(strings.Fields(m.Chunk.Content), " ")
	return head + "\n" + r.styles.Muted.Render("    "+truncate(preview, maxPreview))
}

// truncate shortens s to max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// SetMatches replaces the list contents and resets the selection.
func (r *ResultList) SetMatches(matches []Match) {
	r.matches = matches
	r.selected = 0
}

// Matches returns the current matches.
func (r *ResultList) Matches() []Match {
	return r.matches
}

// Selected returns the index of the selected match.
func (r *ResultList) Selected() int {
	return r.selected
}

// SelectedMatch returns the currently selected match, or nil if none.
func (r *ResultList) SelectedMatch() *Match {
	if r.selected < 0 || r.selected >= len(r.matches) {
		return nil
	}
	return &r.matches[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.matches)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Count returns the number of matches.
func (r *ResultList) Count() int {
	return len(r.matches)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.matches) == 0
}
