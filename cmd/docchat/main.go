// Command docchat answers questions from a directory of documentation.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/docchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/docchat/internal/connectors/filesystem"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/metrics"
	"github.com/custodia-labs/docchat/internal/normalisers"
	"github.com/custodia-labs/docchat/internal/postprocessors"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	configStore, err := file.NewConfigStore(os.Getenv("DOCCHAT_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore)

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	m := metrics.New()
	store := memory.NewRetrievalStore()

	chatLog, closeChatLog, err := openChatLog(settings.ChatLog)
	if err != nil {
		return err
	}
	defer closeChatLog()

	// A missing credential is reported by the commands that need the model.
	llm, err := ai.CreateLLMService(&settings.LLM)
	if err != nil && !errors.Is(err, domain.ErrMissingCredential) {
		return fmt.Errorf("create LLM service: %w", err)
	}
	if llm != nil {
		defer llm.Close()
	}

	pipeline, err := postprocessors.NewDefaultPipeline(settings.Retrieval)
	if err != nil {
		return fmt.Errorf("build chunking pipeline: %w", err)
	}

	ingestService := services.NewIngestService(
		filesystem.New(),
		normalisers.NewDefaultRegistry(),
		pipeline,
		store,
	)
	ingestService.SetMetrics(m)

	chatService := services.NewChatService(store, llm, *settings)
	chatService.SetMetrics(m)
	if chatLog != nil {
		chatService.SetChatLogStore(chatLog)
	}
	if prompts, err := file.NewPromptStore(""); err != nil {
		logger.Warn("Prompt templates unavailable, using built-in prompt: %v", err)
	} else {
		chatService.SetPromptStore(prompts)
	}

	retrievalService := services.NewRetrievalService(store, settings.Retrieval)
	if chatLog != nil {
		retrievalService.SetChatLogStore(chatLog)
	}

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Chat:        chatService,
		Retrieval:   retrievalService,
		Ingest:      ingestService,
		Settings:    settingsService,
		Metrics:     m,
		ValidateLLM: ai.ValidateLLMConfig,
	})

	return cli.Execute(ctx)
}

// openChatLog selects the chat log backend. A nil store disables recording.
func openChatLog(cfg domain.ChatLogSettings) (driven.ChatLogStore, func(), error) {
	switch cfg.Backend {
	case domain.ChatLogOff:
		return nil, func() {}, nil
	case domain.ChatLogSQLite:
		db, err := sqlite.NewStore(cfg.DataDir)
		if err != nil {
			return nil, nil, fmt.Errorf("open chat log: %w", err)
		}
		return db, func() {
			if err := db.Close(); err != nil {
				logger.Warn("Close chat log: %v", err)
			}
		}, nil
	default:
		return memory.NewChatLogStore(memory.DefaultChatLogCapacity), func() {}, nil
	}
}
