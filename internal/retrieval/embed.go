package retrieval

import "github.com/custodia-labs/docchat/internal/core/domain"

// Embed maps text to a term-frequency vector over vocab.
// Component i is the count of vocab.Terms[i] in text divided by the number of
// tokens in text. Text without tokens yields the zero vector.
func Embed(text string, vocab domain.Vocabulary) domain.Vector {
	values := make([]float64, len(vocab.Terms))
	vec := domain.Vector{Values: values, Generation: vocab.Generation}

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return vec
	}

	freq := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		freq[tok]++
	}

	total := float64(len(tokens))
	for i, term := range vocab.Terms {
		if n, ok := freq[term]; ok {
			values[i] = float64(n) / total
		}
	}
	return vec
}
