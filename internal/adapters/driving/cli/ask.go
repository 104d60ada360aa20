package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the documentation",
	Long: `Answers a question using only the ingested documentation.

With no argument, reads questions from standard input one per line until
EOF or "exit". When the answer is not in the documentation, docchat says
"I don't know" instead of guessing.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return errors.New("chat service not configured")
	}
	if err := validateSettings(); err != nil {
		return err
	}
	if err := ensureIngested(cmd); err != nil {
		return err
	}

	if len(args) > 0 {
		return askOnce(cmd, args[0])
	}

	return askLoop(cmd, cmd.InOrStdin(), isInteractive(cmd.InOrStdin()))
}

func askOnce(cmd *cobra.Command, question string) error {
	resp, err := chatService.Ask(cmd.Context(), question)
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotReady) {
			return errors.New("documentation index is not ready, run 'docchat ingest' first")
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	printAnswer(cmd, resp)
	return nil
}

func askLoop(cmd *cobra.Command, in io.Reader, interactive bool) error {
	if interactive {
		cmd.Println("Ask a question about the documentation. Type 'exit' or press Ctrl+D to quit.")
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			cmd.Print("> ")
		}
		if !scanner.Scan() {
			break
		}

		question := strings.TrimSpace(scanner.Text())
		switch question {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := askOnce(cmd, question); err != nil {
			// A failed question does not end the session.
			cmd.PrintErrf("Error: %v\n", err)
		}
		cmd.Println()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read question: %w", err)
	}
	return nil
}

func printAnswer(cmd *cobra.Command, resp *domain.ChatResponse) {
	if resp.IsFallback() {
		cmd.Println(color.New(color.FgYellow).Sprint(resp.Response))
	} else {
		cmd.Println(resp.Response)
	}

	if len(resp.Sources) > 0 {
		cmd.Println()
		cmd.Printf("%s %s\n", color.New(color.Faint).Sprint("Sources:"),
			color.New(color.FgCyan).Sprint(strings.Join(resp.Sources, ", ")))
	}
}

// isInteractive reports whether r is a terminal.
func isInteractive(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
