package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentLoader reads source files for ingestion.
type DocumentLoader interface {
	// Load reads every regular file directly inside dir, in name order.
	// A file that cannot be read is reported in its LoadResult and does not
	// stop the scan. The error return is reserved for an unreadable directory.
	Load(ctx context.Context, dir string) ([]LoadResult, error)
}

// LoadResult is the outcome of reading one file.
type LoadResult struct {
	// Filename is the base name of the file.
	Filename string

	// Raw is set when the file was read.
	Raw *domain.RawDocument

	// Err is set when the file could not be read.
	Err error
}
