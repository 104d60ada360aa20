package services

import (
	"context"
	"errors"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// mockLLM implements driven.LLMService with testify/mock.
type mockLLM struct {
	mock.Mock
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	args := m.Called(ctx, prompt, opts)
	return args.String(0), args.Error(1)
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompt string
	err    error
}

func (m *mockPromptStore) Load(_ string) (string, error) { return m.prompt, m.err }

func (m *mockPromptStore) Reload() {}

// failingChatLog implements driven.ChatLogStore and fails every call.
type failingChatLog struct{}

var errChatLog = errors.New("chat log unavailable")

func (failingChatLog) Append(_ context.Context, _ domain.Exchange) error { return errChatLog }

func (failingChatLog) Recent(_ context.Context, _ int) ([]domain.Exchange, error) {
	return nil, errChatLog
}

func (failingChatLog) Count(_ context.Context) (int, error) { return 0, errChatLog }

// stubLoader implements driven.DocumentLoader with canned results.
type stubLoader struct {
	results []driven.LoadResult
	err     error
}

func (s *stubLoader) Load(_ context.Context, _ string) ([]driven.LoadResult, error) {
	return s.results, s.err
}

// failingPipeline implements driven.PostProcessorPipeline and always fails.
type failingPipeline struct{}

func (failingPipeline) Process(_ context.Context, _ *domain.Document) ([]domain.Chunk, error) {
	return nil, errors.New("chunker exploded")
}
