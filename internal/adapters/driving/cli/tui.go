package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for docchat.

The TUI has a chat screen for asking questions and a search screen for
inspecting which chunks a query retrieves.

Controls:
  Enter    - Ask / Search
  Tab      - Switch between chat and search
  ↑/↓      - Scroll / Navigate results
  Ctrl+L   - Clear
  Esc      - Back
  F1       - Toggle help
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ports := tui.NewPorts(chatService, retrievalService)
	if err := ports.Validate(); err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if err := validateSettings(); err != nil {
		return err
	}
	if err := ensureIngested(cmd); err != nil {
		return err
	}

	// Log lines would draw over the alternate screen.
	if !verbose {
		logger.SetOutput(io.Discard)
		defer logger.SetOutput(os.Stderr)
	}

	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
