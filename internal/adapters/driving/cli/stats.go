package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show index statistics",
	Long:  `Ingests the documentation directory and prints corpus statistics and the ingested documents.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if err := ensureIngested(cmd); err != nil {
		return err
	}

	stats, err := retrievalService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	cmd.Println("Index")
	cmd.Println("=====")
	cmd.Printf("  State:      %s\n", stats.State)
	cmd.Printf("  Documents:  %d\n", stats.DocumentsProcessed)
	cmd.Printf("  Chunks:     %d\n", stats.ChunksStored)
	cmd.Printf("  Vocabulary: %d\n", stats.VocabularySize)
	cmd.Printf("  Exchanges:  %d\n", stats.Exchanges)

	docs, err := retrievalService.Documents(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}
	if len(docs) == 0 {
		return nil
	}

	cmd.Println()
	cmd.Println("Documents")
	cmd.Println("=========")
	for _, d := range docs {
		cmd.Printf("  %-40s %d chunks\n", d.Filename, d.Chunks)
	}
	return nil
}
