package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure retrieval, LLM and server settings.

API keys are never written to the config file. Set ANTHROPIC_API_KEY or
OPENAI_API_KEY in the environment or in a .env file.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Interactively select the LLM provider and model used to answer questions.`,
	RunE:  runSettingsLLM,
}

var settingsRetrievalCmd = &cobra.Command{
	Use:   "retrieval",
	Short: "Configure chunking and ranking",
	Long: `Update chunking and ranking settings. Only the flags given are changed.

Changes take effect on the next ingestion.`,
	RunE: runSettingsRetrieval,
}

var settingsCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate settings and ping the LLM provider",
	RunE:  runSettingsCheck,
}

var (
	retrievalChunkSize int
	retrievalOverlap   int
	retrievalMaxChunks int
	retrievalThreshold float64
)

func init() {
	settingsRetrievalCmd.Flags().IntVar(&retrievalChunkSize, "chunk-size", 0, "maximum chunk size in characters")
	settingsRetrievalCmd.Flags().IntVar(&retrievalOverlap, "overlap", 0, "chunk overlap budget")
	settingsRetrievalCmd.Flags().IntVar(&retrievalMaxChunks, "max-chunks", 0, "maximum chunks retrieved per question")
	settingsRetrievalCmd.Flags().Float64Var(&retrievalThreshold, "threshold", 0, "similarity threshold in [0, 1)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsRetrievalCmd)
	settingsCmd.AddCommand(settingsCheckCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	cmd.Printf("Docs directory: %s\n", settings.DocsDir)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Max chunk size: %d\n", settings.Retrieval.MaxChunkSize)
	cmd.Printf("  Chunk overlap: %d\n", settings.Retrieval.ChunkOverlap)
	cmd.Printf("  Max relevant chunks: %d\n", settings.Retrieval.MaxRelevantChunks)
	cmd.Printf("  Similarity threshold: %g\n", settings.Retrieval.SimilarityThreshold)
	cmd.Println()

	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.Model)
	if settings.LLM.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		if settings.LLM.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		} else {
			cmd.Printf("  API Key: (not set, export %s)\n", settings.LLM.Provider.APIKeyEnv())
		}
	}
	cmd.Printf("  Max tokens: %d\n", settings.LLM.MaxTokens)
	cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Port: %d\n", settings.Server.Port)
	cmd.Printf("  Static directory: %s\n", settings.Server.StaticDir)
	cmd.Printf("  Chat rate limit: %g/s (burst %d)\n", settings.Server.ChatRateLimit, settings.Server.ChatBurst)
	cmd.Println()

	cmd.Println("[Chat Log]")
	cmd.Printf("  Backend: %s\n", settings.ChatLog.Backend)
	if settings.ChatLog.Backend == domain.ChatLogSQLite {
		cmd.Printf("  Data directory: %s\n", settings.ChatLog.DataDir)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'docchat settings llm' or set the API key to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaults := domain.DefaultLLMModels()
	defaultModel := defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	cmd.Printf("LLM provider configured: %s (%s)\n", selectedProvider.Description(), model)
	if selectedProvider.RequiresAPIKey() {
		cmd.Printf("Set %s in the environment or .env before asking questions.\n", selectedProvider.APIKeyEnv())
	}
	return nil
}

func runSettingsRetrieval(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	r := settings.Retrieval
	flags := cmd.Flags()
	if flags.Changed("chunk-size") {
		r.MaxChunkSize = retrievalChunkSize
	}
	if flags.Changed("overlap") {
		r.ChunkOverlap = retrievalOverlap
	}
	if flags.Changed("max-chunks") {
		r.MaxRelevantChunks = retrievalMaxChunks
	}
	if flags.Changed("threshold") {
		r.SimilarityThreshold = retrievalThreshold
	}

	if err := settingsService.SetRetrieval(r); err != nil {
		return fmt.Errorf("failed to save retrieval settings: %w", err)
	}

	cmd.Printf("Retrieval settings saved: chunk size %d, overlap %d, max chunks %d, threshold %g\n",
		r.MaxChunkSize, r.ChunkOverlap, r.MaxRelevantChunks, r.SimilarityThreshold)
	return nil
}

func runSettingsCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	cmd.Println("Settings: OK")

	if llmValidator == nil {
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Pinging %s (%s)... ", settings.LLM.Provider.Description(), settings.LLM.Model)
	if err := llmValidator(cmd.Context(), &settings.LLM); err != nil {
		cmd.Println("FAILED")
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
