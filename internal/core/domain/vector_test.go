package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVocabulary_Size(t *testing.T) {
	assert.Equal(t, 0, Vocabulary{}.Size())
	assert.Equal(t, 2, Vocabulary{Terms: []string{"billing", "reset"}}.Size())
}

func TestVector_IsZero(t *testing.T) {
	assert.True(t, Vector{}.IsZero())
	assert.True(t, Vector{Values: []float64{0, 0, 0}}.IsZero())
	assert.False(t, Vector{Values: []float64{0, 0.25, 0}}.IsZero())
	assert.Equal(t, 3, Vector{Values: []float64{0, 0.25, 0}}.Dimensions())
}

func TestStoreState_String(t *testing.T) {
	tests := []struct {
		state    StoreState
		expected string
	}{
		{StoreEmpty, "empty"},
		{StorePopulated, "populated"},
		{StoreReady, "ready"},
		{StoreState(42), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.state.String())
		})
	}
}

func TestQueryResult_IsEmpty(t *testing.T) {
	var nilResult *QueryResult
	assert.True(t, nilResult.IsEmpty())
	assert.True(t, (&QueryResult{}).IsEmpty())
	assert.False(t, (&QueryResult{Chunks: []Chunk{{ID: "x"}}}).IsEmpty())
}
