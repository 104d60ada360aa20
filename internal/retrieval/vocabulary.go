package retrieval

import (
	"regexp"
	"sort"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// MinTokenLength is the shortest token kept. Shorter tokens are discarded.
const MinTokenLength = 3

var nonWord = regexp.MustCompile(`\W+`)

// Tokenize lowercases text, splits it on runs of non-word characters and
// drops tokens of length two or less.
func Tokenize(text string) []string {
	parts := nonWord.Split(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) >= MinTokenLength {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// ComputeVocabulary returns the sorted distinct terms across all chunks.
// The result does not depend on chunk order.
func ComputeVocabulary(chunks []domain.Chunk) []string {
	seen := make(map[string]struct{})
	for _, c := range chunks {
		for _, tok := range Tokenize(c.Content) {
			seen[tok] = struct{}{}
		}
	}

	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}
