package domain

import "time"

// IngestStatus is the outcome of ingesting a single file.
type IngestStatus string

// Ingest outcomes.
const (
	// IngestOK means the document was chunked and handed to the store.
	IngestOK IngestStatus = "ingested"

	// IngestSkipped means the file type is not supported.
	IngestSkipped IngestStatus = "skipped"

	// IngestFailed means reading, normalising or chunking failed.
	IngestFailed IngestStatus = "failed"
)

// IngestResult records what happened to one file.
// Failures are values, never panics or aborted batches.
type IngestResult struct {
	// Filename is the base name of the file.
	Filename string

	// DocumentID is set when the file produced a document.
	DocumentID string

	// Chunks is the number of chunks produced.
	Chunks int

	// Status is the outcome.
	Status IngestStatus

	// Err is the cause of a skip or failure.
	Err error
}

// Reason returns a human-readable cause for skipped or failed results.
func (r IngestResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// IngestReport aggregates the results of one ingestion run.
type IngestReport struct {
	// RunID identifies the run in logs.
	RunID string

	// Dir is the directory that was ingested.
	Dir string

	// Results holds one entry per file, in directory order.
	Results []IngestResult

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed.
	FinishedAt time.Time
}

// Ingested returns the number of documents ingested.
func (r *IngestReport) Ingested() int {
	return r.count(IngestOK)
}

// Skipped returns the number of unsupported files.
func (r *IngestReport) Skipped() int {
	return r.count(IngestSkipped)
}

// Failed returns the number of files that failed.
func (r *IngestReport) Failed() int {
	return r.count(IngestFailed)
}

// ChunkCount returns the total number of chunks produced.
func (r *IngestReport) ChunkCount() int {
	total := 0
	for _, res := range r.Results {
		total += res.Chunks
	}
	return total
}

// Duration returns how long the run took.
func (r *IngestReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

func (r *IngestReport) count(status IngestStatus) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}
