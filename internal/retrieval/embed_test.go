package retrieval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestEmbed_TermFrequency(t *testing.T) {
	vocab := domain.Vocabulary{Terms: []string{"billing", "password", "reset"}, Generation: 3}

	vec := Embed("Reset password, then reset it again", vocab)

	// tokens: reset, password, then, reset, again
	require.Len(t, vec.Values, 3)
	assert.Equal(t, uint64(3), vec.Generation)
	assert.InDelta(t, 0.0, vec.Values[0], 1e-12)
	assert.InDelta(t, 1.0/5.0, vec.Values[1], 1e-12)
	assert.InDelta(t, 2.0/5.0, vec.Values[2], 1e-12)
}

func TestEmbed_LengthMatchesVocabulary(t *testing.T) {
	vocabs := [][]string{
		nil,
		{"one"},
		{"alpha", "beta", "gamma", "delta"},
	}
	texts := []string{"", "alpha beta", "unrelated words entirely", "!!!"}

	for _, terms := range vocabs {
		for _, text := range texts {
			vec := Embed(text, domain.Vocabulary{Terms: terms})
			assert.Len(t, vec.Values, len(terms))
		}
	}
}

func TestEmbed_NoTokensIsZero(t *testing.T) {
	vocab := domain.Vocabulary{Terms: []string{"billing", "reset"}}

	for _, text := range []string{"", "   ", "a an to", "?!."} {
		vec := Embed(text, vocab)
		assert.True(t, vec.IsZero(), "text %q", text)
	}
}

func TestEmbed_Deterministic(t *testing.T) {
	vocab := domain.Vocabulary{Terms: []string{"account", "billing", "monthly"}}
	a := Embed("Billing runs monthly for every account", vocab)
	b := Embed("Billing runs monthly for every account", vocab)
	assert.Equal(t, a, b)
}
