package domain

// QueryResult is the outcome of a retrieval query.
type QueryResult struct {
	// Chunks are ordered by descending similarity.
	Chunks []Chunk

	// Scores holds the similarity of each chunk, aligned with Chunks.
	Scores []float64

	// Sources are the distinct filenames of Chunks in first-seen order.
	Sources []string
}

// IsEmpty reports whether no chunk cleared the threshold.
func (r *QueryResult) IsEmpty() bool {
	return r == nil || len(r.Chunks) == 0
}

// SearchOptions configures a retrieval query.
// Zero values fall back to the configured retrieval settings.
type SearchOptions struct {
	// Limit is the maximum number of chunks.
	Limit int

	// Threshold is the minimum similarity a chunk must strictly exceed.
	// Nil uses the configured threshold.
	Threshold *float64
}

// Stats summarises the retrieval corpus.
type Stats struct {
	// DocumentsProcessed counts documents ingested successfully.
	DocumentsProcessed int

	// ChunksStored counts chunks held by the store.
	ChunksStored int

	// VocabularySize is the number of distinct terms.
	VocabularySize int

	// State is the store lifecycle state.
	State StoreState

	// Exchanges counts recorded chat exchanges. Zero when no chat log is configured.
	Exchanges int
}

// DocumentSummary describes one ingested document by its chunks.
type DocumentSummary struct {
	// ID is the document ID.
	ID string

	// Filename is the source file name.
	Filename string

	// Chunks is the number of chunks stored for the document.
	Chunks int
}
