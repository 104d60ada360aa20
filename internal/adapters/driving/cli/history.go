package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent questions and answers",
	Long: `Lists recorded chat exchanges, newest first.

Exchanges survive restarts only with the sqlite chat log backend
(chat_log.backend = "sqlite").`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of exchanges")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}

	exchanges, err := chatService.History(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to get history: %w", err)
	}

	if len(exchanges) == 0 {
		cmd.Println("No exchanges recorded.")
		return nil
	}

	for _, ex := range exchanges {
		cmd.Printf("[%s] Q: %s\n", ex.CreatedAt.Local().Format(time.DateTime), ex.Question)
		cmd.Printf("  A: %s\n", snippet(ex.Response, snippetLength))
		if len(ex.Sources) > 0 {
			cmd.Printf("  Sources: %s\n", strings.Join(ex.Sources, ", "))
		}
		if ex.Fallback != "" {
			cmd.Printf("  Fallback: %s\n", ex.Fallback)
		}
		cmd.Println()
	}
	return nil
}
