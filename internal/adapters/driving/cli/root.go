// Package cli implements the docchat command line using cobra.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/metrics"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by main.
var (
	chatService      driving.ChatService
	retrievalService driving.RetrievalService
	ingestService    driving.IngestService
	settingsService  driving.SettingsService
	appMetrics       *metrics.Metrics
	llmValidator     func(context.Context, *domain.LLMSettings) error
)

var (
	verbose bool
	docsDir string
)

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Answer questions from your documentation",
	Long: `docchat ingests a directory of documents, indexes it for similarity
search and answers questions grounded in what it finds.

Run 'docchat serve' for the HTTP API, 'docchat ask' for a quick answer
on the command line, or 'docchat tui' for the interactive terminal UI.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&docsDir, "docs", "", "documentation directory (overrides docs_dir)")
}

// Services bundles the core services the commands drive.
type Services struct {
	Chat      driving.ChatService
	Retrieval driving.RetrievalService
	Ingest    driving.IngestService
	Settings  driving.SettingsService
	Metrics   *metrics.Metrics

	// ValidateLLM pings the configured model for 'settings check'. Optional.
	ValidateLLM func(context.Context, *domain.LLMSettings) error
}

// SetServices configures the services used by every command.
func SetServices(s Services) {
	chatService = s.Chat
	retrievalService = s.Retrieval
	ingestService = s.Ingest
	settingsService = s.Settings
	appMetrics = s.Metrics
	llmValidator = s.ValidateLLM
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// resolveDocsDir returns the --docs flag, falling back to settings.
func resolveDocsDir() (string, error) {
	if docsDir != "" {
		return docsDir, nil
	}
	if settingsService == nil {
		return "", errors.New("settings service not configured")
	}
	settings, err := settingsService.Get()
	if err != nil {
		return "", fmt.Errorf("failed to get settings: %w", err)
	}
	return settings.DocsDir, nil
}

// ensureIngested loads the docs directory once per process.
// Commands that only read the corpus call it before touching the store.
func ensureIngested(cmd *cobra.Command) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if ingestService.LastReport() != nil {
		return nil
	}

	dir, err := resolveDocsDir()
	if err != nil {
		return err
	}

	report, err := ingestService.Ingest(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}
	logger.Info("Loaded %d documents (%d chunks) from %s", report.Ingested(), report.ChunkCount(), dir)
	return nil
}

// validateSettings fails when the answering commands cannot run, most often
// because the provider's API key is missing.
func validateSettings() error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}
