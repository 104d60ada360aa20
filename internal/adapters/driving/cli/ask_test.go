package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_AnswersQuestion(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()

	out, err := execute("ask", "How do I reset my password?")

	require.NoError(t, err)
	assert.Contains(t, out, "Go to Settings and click Reset Password.")
	assert.Contains(t, out, "Sources:")
	assert.Contains(t, out, "account.md")
	assert.Equal(t, []string{"How do I reset my password?"}, mocks.chat.questions)
	assert.Len(t, mocks.ingest.dirs, 1)
}

func TestAskCmd_FallbackWithoutSources(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.chat.AskFunc = func(context.Context, string) (*domain.ChatResponse, error) {
		return &domain.ChatResponse{
			Response:  domain.FallbackNoContextText,
			Sources:   []string{},
			Timestamp: time.Now(),
			Fallback:  domain.FallbackNoContext,
		}, nil
	}

	out, err := execute("ask", "What is quantum physics?")

	require.NoError(t, err)
	assert.Contains(t, out, domain.FallbackNoContextText)
	assert.NotContains(t, out, "Sources:")
}

func TestAskCmd_StoreNotReady(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.chat.AskFunc = func(context.Context, string) (*domain.ChatResponse, error) {
		return nil, fmt.Errorf("ask: %w", domain.ErrStoreNotReady)
	}

	_, err := execute("ask", "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not ready")
}

func TestAskCmd_ServiceError(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.chat.AskFunc = func(context.Context, string) (*domain.ChatResponse, error) {
		return nil, errServiceFailed
	}

	_, err := execute("ask", "anything")

	assert.ErrorIs(t, err, errServiceFailed)
	assert.Contains(t, err.Error(), "ask failed")
}

func TestAskCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	chatService = nil

	_, err := execute("ask", "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat service not configured")
}

func TestAskCmd_ReadsQuestionsFromStdin(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()

	input := strings.Join([]string{"first question", "", "  second question  ", "exit", "never asked"}, "\n")
	out, err := executeWithInput(input, "ask")

	require.NoError(t, err)
	assert.Equal(t, []string{"first question", "second question"}, mocks.chat.questions)
	assert.Equal(t, 2, strings.Count(out, "Go to Settings"))
	assert.NotContains(t, out, "> ", "no prompt when stdin is not a terminal")
}

func TestAskCmd_StdinErrorsDoNotEndSession(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.chat.AskFunc = func(_ context.Context, q string) (*domain.ChatResponse, error) {
		if q == "bad" {
			return nil, errServiceFailed
		}
		return &domain.ChatResponse{Response: "fine", Timestamp: time.Now()}, nil
	}

	out, err := executeWithInput("bad\ngood\n", "ask")

	require.NoError(t, err)
	assert.Contains(t, out, "Error: ask failed: service failed")
	assert.Contains(t, out, "fine")
	assert.Equal(t, []string{"bad", "good"}, mocks.chat.questions)
}

func TestAskCmd_IngestsOnce(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()

	_, err := execute("ask", "one")
	require.NoError(t, err)
	_, err = execute("ask", "two")
	require.NoError(t, err)

	assert.Len(t, mocks.ingest.dirs, 1, "a completed ingestion is reused")
}

func TestIsInteractive_NonFile(t *testing.T) {
	assert.False(t, isInteractive(strings.NewReader("")))
}

func TestAskCmd_MissingCredentialIsFatal(t *testing.T) {
	cleanup, mocks := setupTestServicesWithMocks()
	defer cleanup()
	mocks.settings.validateErr = fmt.Errorf("%w: ANTHROPIC_API_KEY is not set", domain.ErrMissingCredential)

	_, err := execute("ask", "anything")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
	assert.Empty(t, mocks.chat.questions)
	assert.Empty(t, mocks.ingest.dirs)
}
