package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docchat/internal/logger"
)

var (
	servePort     int
	serveJSONLogs bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP chat server",
	Long: `Ingests the documentation directory and serves the chat API.

Endpoints:
  POST /api/chat    {"message": "..."} -> {"response", "sources", "timestamp"}
  GET  /api/stats   index statistics
  GET  /api/health  liveness and index readiness
  GET  /metrics     Prometheus metrics

Static files from server.static_dir are served at / when the directory exists.
The server shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "listen port (0 = server.port setting)")
	serveCmd.Flags().BoolVar(&serveJSONLogs, "json-logs", false, "write logs as JSON")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if chatService == nil || retrievalService == nil {
		return errors.New("chat service not configured")
	}
	if err := validateSettings(); err != nil {
		return err
	}

	logger.SetLevel("info")
	logger.SetJSON(serveJSONLogs)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if err := ensureIngested(cmd); err != nil {
		return err
	}

	cfg := httpapi.Config{
		Port:          settings.Server.Port,
		StaticDir:     settings.Server.StaticDir,
		ChatRateLimit: settings.Server.ChatRateLimit,
		ChatBurst:     settings.Server.ChatBurst,
	}
	if servePort > 0 {
		cfg.Port = servePort
	}

	server := httpapi.New(cfg, chatService, retrievalService, appMetrics)
	if err := server.Run(cmd.Context()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
