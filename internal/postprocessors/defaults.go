package postprocessors

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/postprocessors/chunker"
)

// DefaultProcessors is the pipeline used for ingestion.
var DefaultProcessors = []string{"chunker"}

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
}

// NewDefaultPipeline builds the ingestion pipeline from the retrieval settings.
func NewDefaultPipeline(settings domain.RetrievalSettings) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)
	return r.BuildPipeline(DefaultProcessors, settings)
}

// buildChunker creates a chunker processor from the retrieval settings.
// Non-positive sizes and negative overlaps fall back to the chunker defaults.
func buildChunker(settings domain.RetrievalSettings) (driven.PostProcessor, error) {
	return chunker.New(
		chunker.WithChunkSize(settings.MaxChunkSize),
		chunker.WithOverlap(settings.ChunkOverlap),
	), nil
}
