package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/metrics"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads a docs directory into the retrieval store.
// Chunks are appended; ingesting the same directory twice duplicates them.
type IngestService struct {
	loader   driven.DocumentLoader
	registry driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	store    driven.RetrievalStore
	metrics  *metrics.Metrics
	now      func() time.Time

	mu   sync.RWMutex
	last *domain.IngestReport
}

// NewIngestService creates an ingestion service.
func NewIngestService(
	loader driven.DocumentLoader,
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	store driven.RetrievalStore,
) *IngestService {
	return &IngestService{
		loader:   loader,
		registry: registry,
		pipeline: pipeline,
		store:    store,
		now:      time.Now,
	}
}

// SetMetrics enables ingestion metrics.
func (s *IngestService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Ingest reads, normalises and chunks every file in dir, then embeds the corpus.
// Per-file failures are recorded in the report and never abort the run.
func (s *IngestService) Ingest(ctx context.Context, dir string) (*domain.IngestReport, error) {
	report := &domain.IngestReport{
		RunID:     uuid.New().String(),
		Dir:       dir,
		StartedAt: s.now(),
	}

	logger.Section("Ingestion")
	logger.Info("Ingesting %s (run %s)", dir, report.RunID)

	loaded, err := s.loader.Load(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}

	for _, lr := range loaded {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := s.ingestOne(ctx, lr)
		report.Results = append(report.Results, result)
		s.metrics.RecordIngestedFile(string(result.Status))

		switch result.Status {
		case domain.IngestOK:
			logger.Debug("Processed %s: %d chunks", result.Filename, result.Chunks)
		case domain.IngestSkipped:
			logger.Warn("Unsupported file type: %s", result.Filename)
		case domain.IngestFailed:
			logger.Warn("Error processing file %s: %s", result.Filename, result.Reason())
		}
	}

	if err := s.store.EmbedAll(ctx); err != nil {
		return nil, fmt.Errorf("embed chunks: %w", err)
	}

	if stats, err := s.store.Stats(ctx); err == nil {
		s.metrics.UpdateStore(stats.ChunksStored, stats.VocabularySize)
		logger.Info("Vocabulary size: %d, chunks stored: %d", stats.VocabularySize, stats.ChunksStored)
	}

	report.FinishedAt = s.now()
	logger.Info("Ingestion complete: %d ingested, %d skipped, %d failed in %s",
		report.Ingested(), report.Skipped(), report.Failed(), report.Duration())

	s.mu.Lock()
	s.last = report
	s.mu.Unlock()

	return report, nil
}

// LastReport returns the most recent report, or nil before the first run.
func (s *IngestService) LastReport() *domain.IngestReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// ingestOne normalises and chunks a single file and hands its chunks to the store.
func (s *IngestService) ingestOne(ctx context.Context, lr driven.LoadResult) domain.IngestResult {
	result := domain.IngestResult{Filename: lr.Filename}

	if lr.Err != nil {
		return failed(result, fmt.Errorf("read: %w", lr.Err))
	}
	if lr.Raw == nil {
		return failed(result, fmt.Errorf("read: %w", domain.ErrInvalidInput))
	}

	normalised, err := s.registry.Normalise(ctx, lr.Raw)
	if err != nil {
		if errors.Is(err, domain.ErrUnsupportedType) {
			result.Status = domain.IngestSkipped
			result.Err = err
			return result
		}
		return failed(result, fmt.Errorf("normalise: %w", err))
	}

	doc := normalised.Document
	result.DocumentID = doc.ID
	if strings.TrimSpace(doc.Content) == "" {
		result.Status = domain.IngestSkipped
		result.Err = domain.ErrEmptyDocument
		return result
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return failed(result, fmt.Errorf("chunk: %w", err))
	}
	if len(chunks) == 0 {
		result.Status = domain.IngestSkipped
		result.Err = domain.ErrEmptyDocument
		return result
	}

	if err := s.store.AddChunks(ctx, chunks); err != nil {
		return failed(result, fmt.Errorf("store chunks: %w", err))
	}

	result.Chunks = len(chunks)
	result.Status = domain.IngestOK
	return result
}

func failed(result domain.IngestResult, err error) domain.IngestResult {
	result.Status = domain.IngestFailed
	result.Err = err
	return result
}
