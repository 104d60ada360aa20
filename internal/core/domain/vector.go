package domain

// Vocabulary is the sorted set of distinct terms across every chunk in the store.
// Its length defines the dimensionality of every vector computed against it.
type Vocabulary struct {
	// Terms are sorted ascending and contain no duplicates.
	Terms []string

	// Generation identifies the chunk set the vocabulary was computed from.
	Generation uint64
}

// Size returns the number of terms.
func (v Vocabulary) Size() int {
	return len(v.Terms)
}

// Vector is a term-frequency embedding over a Vocabulary.
type Vector struct {
	// Values holds one non-negative component per vocabulary term.
	Values []float64

	// Generation is the vocabulary generation the vector was computed under.
	Generation uint64
}

// Dimensions returns the vector length.
func (v Vector) Dimensions() int {
	return len(v.Values)
}

// IsZero reports whether every component is zero.
func (v Vector) IsZero() bool {
	for _, x := range v.Values {
		if x != 0 {
			return false
		}
	}
	return true
}

// StoreState is the lifecycle state of a retrieval store.
type StoreState int

const (
	// StoreEmpty holds no chunks.
	StoreEmpty StoreState = iota

	// StorePopulated holds chunks whose vectors are missing or stale.
	StorePopulated

	// StoreReady holds chunks embedded against the current vocabulary.
	StoreReady
)

// String returns the string representation.
func (s StoreState) String() string {
	switch s {
	case StoreEmpty:
		return "empty"
	case StorePopulated:
		return "populated"
	case StoreReady:
		return "ready"
	default:
		return "unknown"
	}
}
