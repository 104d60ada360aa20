package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

const snippetLength = 160

var (
	searchLimit     int
	searchThreshold float64
	searchJSON      bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the documentation index",
	Long: `Ranks documentation chunks against the query by cosine similarity over
term-frequency vectors and prints the matches with their scores.

Useful for checking what context a question would retrieve before asking it.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 = max_relevant_chunks)")
	searchCmd.Flags().Float64VarP(&searchThreshold, "threshold", "t", 0, "minimum similarity score (default similarity_threshold)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if retrievalService == nil {
		return errors.New("retrieval service not configured")
	}
	if err := ensureIngested(cmd); err != nil {
		return err
	}

	opts := domain.SearchOptions{
		Limit: searchLimit,
	}
	if cmd.Flags().Changed("threshold") {
		threshold := searchThreshold
		opts.Threshold = &threshold
	}

	result, err := retrievalService.Search(cmd.Context(), query, opts)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, result)
	}

	return outputSearchTable(cmd, result)
}

type searchHit struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Section    string  `json:"section"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

func searchHits(result *domain.QueryResult) []searchHit {
	hits := []searchHit{}
	if result.IsEmpty() {
		return hits
	}
	for i := range result.Chunks {
		c := result.Chunks[i]
		hits = append(hits, searchHit{
			DocumentID: c.DocumentID,
			Filename:   c.Metadata.Filename,
			Section:    c.Metadata.Section,
			Score:      result.Scores[i],
			Content:    c.Content,
		})
	}
	return hits
}

func outputSearchJSON(cmd *cobra.Command, result *domain.QueryResult) error {
	data, err := json.MarshalIndent(searchHits(result), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, result *domain.QueryResult) error {
	hits := searchHits(result)
	if len(hits) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	name := color.New(color.FgCyan, color.Bold).SprintFunc()
	score := color.New(color.FgGreen).SprintfFunc()

	cmd.Println("Results:")
	cmd.Println()
	for i, hit := range hits {
		cmd.Printf("  [%d] %s %s (%s)\n", i+1, name(hit.Filename), hit.Section, score("%.4f", hit.Score))
		cmd.Printf("      %s\n", snippet(hit.Content, snippetLength))
		cmd.Println()
	}

	return nil
}

// snippet flattens whitespace and cuts s to at most n runes.
func snippet(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
