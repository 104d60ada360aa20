package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [dir]",
	Short: "Ingest a documentation directory",
	Long: `Reads every supported file in the directory (.txt, .md, .pdf, .docx),
splits it into chunks and builds the similarity index. Prints a report of
the files that were ingested, skipped or failed.

The directory defaults to --docs or the docs_dir setting.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	var dir string
	if len(args) > 0 {
		dir = args[0]
	} else {
		resolved, err := resolveDocsDir()
		if err != nil {
			return err
		}
		dir = resolved
	}

	cmd.Printf("Ingesting %s...\n", dir)

	report, err := ingestService.Ingest(cmd.Context(), dir)
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	printReport(cmd, report)
	return nil
}

func printReport(cmd *cobra.Command, report *domain.IngestReport) {
	for _, res := range report.Results {
		switch res.Status {
		case domain.IngestOK:
			cmd.Printf("  %-8s %s (%d chunks)\n", "ok", res.Filename, res.Chunks)
		case domain.IngestSkipped:
			cmd.Printf("  %-8s %s: %s\n", "skipped", res.Filename, res.Reason())
		case domain.IngestFailed:
			cmd.Printf("  %-8s %s: %s\n", "failed", res.Filename, res.Reason())
		}
	}

	cmd.Println()
	cmd.Printf("Ingested %d documents (%d chunks), %d skipped, %d failed in %s\n",
		report.Ingested(), report.ChunkCount(), report.Skipped(), report.Failed(),
		report.Duration().Round(time.Millisecond))
}
