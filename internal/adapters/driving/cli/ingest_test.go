package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [dir]", ingestCmd.Use)
}

func TestIngestCmd_ExplicitDir(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute("ingest", "handbook")

	require.NoError(t, err)
	assert.Equal(t, []string{"handbook"}, mocks.ingest.dirs)
	assert.Contains(t, out, "Ingesting handbook...")
	assert.Contains(t, out, "account.md (2 chunks)")
	assert.Contains(t, out, "logo.png: unsupported file type")
	assert.Contains(t, out, "Ingested 1 documents (2 chunks), 1 skipped, 0 failed in 42ms")
}

func TestIngestCmd_DefaultsToSettingsDir(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute("ingest")

	require.NoError(t, err)
	assert.Equal(t, []string{"testdata/docs"}, mocks.ingest.dirs)
}

func TestIngestCmd_ReportsFailures(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.ingest.IngestFunc = func(_ context.Context, dir string) (*domain.IngestReport, error) {
		return &domain.IngestReport{
			Dir: dir,
			Results: []domain.IngestResult{
				{Filename: "empty.txt", Status: domain.IngestFailed, Err: domain.ErrEmptyDocument},
			},
		}, nil
	}

	out, err := execute("ingest", "docs")

	require.NoError(t, err, "per-file failures never fail the command")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "empty.txt: empty document")
	assert.Contains(t, out, "0 skipped, 1 failed")
}

func TestIngestCmd_Error(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.ingest.IngestFunc = func(context.Context, string) (*domain.IngestReport, error) {
		return nil, errServiceFailed
	}

	_, err := execute("ingest", "missing")

	assert.ErrorIs(t, err, errServiceFailed)
	assert.Contains(t, err.Error(), "ingest failed")
}

func TestIngestCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	ingestService = nil

	_, err := execute("ingest", "docs")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestIngestCmd_TooManyArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("ingest", "a", "b")

	assert.Error(t, err)
}
