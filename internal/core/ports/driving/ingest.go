package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// IngestService loads a docs directory into the retrieval store.
type IngestService interface {
	// Ingest reads, normalises and chunks every file in dir, adds the chunks
	// to the store and embeds the whole corpus. Per-file failures are recorded
	// in the report and never abort the run.
	Ingest(ctx context.Context, dir string) (*domain.IngestReport, error)

	// LastReport returns the most recent report, or nil before the first run.
	LastReport() *domain.IngestReport
}
