package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
	"github.com/custodia-labs/docchat/internal/metrics"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Chunk separators used when building the model context.
const (
	contextChunkPrefix = "\nContent: "
	contextSeparator   = "\n\n---\n\n"
)

// outcomeAnswered labels answers produced by the model.
const outcomeAnswered = "answered"

// ChatService answers questions by retrieving relevant chunks and asking
// the generative model to answer from them.
type ChatService struct {
	store     driven.RetrievalStore
	llm       driven.LLMService
	retrieval domain.RetrievalSettings
	maxTokens int
	timeout   time.Duration

	prompts driven.PromptStore
	chatLog driven.ChatLogStore
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewChatService creates a chat service.
// The llm parameter is optional; without it every grounded answer is a model-error fallback.
func NewChatService(store driven.RetrievalStore, llm driven.LLMService, settings domain.Settings) *ChatService {
	return &ChatService{
		store:     store,
		llm:       llm,
		retrieval: settings.Retrieval,
		maxTokens: settings.LLM.MaxTokens,
		timeout:   settings.LLM.Timeout,
		now:       time.Now,
	}
}

// SetPromptStore sets the store the answer prompt is loaded from.
func (s *ChatService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// SetChatLogStore sets the store every exchange is recorded in.
func (s *ChatService) SetChatLogStore(store driven.ChatLogStore) {
	s.chatLog = store
}

// SetMetrics enables answer and model call metrics.
func (s *ChatService) SetMetrics(m *metrics.Metrics) {
	s.metrics = m
}

// Ask answers a question from the documentation corpus.
func (s *ChatService) Ask(ctx context.Context, message string) (*domain.ChatResponse, error) {
	question := strings.TrimSpace(message)
	if question == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}

	logger.Section("Answer")
	logger.Debug("Question: %q", question)

	result, err := s.store.Query(ctx, question, s.retrieval.MaxRelevantChunks, s.retrieval.SimilarityThreshold)
	if err != nil {
		s.metrics.RecordQuery("error")
		return nil, fmt.Errorf("retrieve context: %w", err)
	}

	var resp *domain.ChatResponse
	if result.IsEmpty() {
		s.metrics.RecordQuery("miss")
		logger.Debug("No chunk above threshold %.3f", s.retrieval.SimilarityThreshold)
		resp = s.fallback(domain.FallbackNoContext, nil)
	} else {
		s.metrics.RecordQuery("hit")
		logger.Debug("Retrieved %d chunks from %v", len(result.Chunks), result.Sources)
		resp = s.generate(ctx, question, result)
	}

	s.record(ctx, question, resp)
	return resp, nil
}

// History returns up to limit recorded exchanges, newest first.
func (s *ChatService) History(ctx context.Context, limit int) ([]domain.Exchange, error) {
	if s.chatLog == nil {
		return []domain.Exchange{}, nil
	}
	exchanges, err := s.chatLog.Recent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	return exchanges, nil
}

// generate asks the model to answer from the retrieved chunks.
// Model failures become fallback answers that still carry the sources.
func (s *ChatService) generate(ctx context.Context, question string, result *domain.QueryResult) *domain.ChatResponse {
	if s.llm == nil {
		logger.Warn("No LLM service configured, returning fallback")
		return s.fallback(domain.FallbackModelError, result.Sources)
	}

	prompt := fmt.Sprintf(s.answerTemplate(), buildContext(result.Chunks), question)

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := s.llm.Generate(callCtx, prompt, driven.GenerateOptions{MaxTokens: s.maxTokens})
	s.metrics.RecordLLMRequest(s.llm.ModelName(), err, time.Since(start))

	switch {
	case errors.Is(err, domain.ErrNonTextResponse):
		logger.Warn("Model returned no text: %v", err)
		return s.fallback(domain.FallbackUnreadable, result.Sources)
	case err != nil:
		logger.Error("Error generating response: %v", err)
		return s.fallback(domain.FallbackModelError, result.Sources)
	}

	s.metrics.RecordAnswer(outcomeAnswered)
	return &domain.ChatResponse{
		Response:  text,
		Sources:   result.Sources,
		Timestamp: s.now().UTC(),
	}
}

func (s *ChatService) fallback(reason domain.FallbackReason, sources []string) *domain.ChatResponse {
	s.metrics.RecordAnswer(string(reason))
	if sources == nil {
		sources = []string{}
	}
	return &domain.ChatResponse{
		Response:  reason.Text(),
		Sources:   sources,
		Timestamp: s.now().UTC(),
		Fallback:  reason,
	}
}

// answerTemplate loads the answer prompt, falling back to the built-in one
// when the store is missing, fails, or returns a template without both placeholders.
func (s *ChatService) answerTemplate() string {
	if s.prompts == nil {
		return domain.AnswerPromptTemplate
	}
	tmpl, err := s.prompts.Load(driven.PromptAnswer)
	if err != nil {
		logger.Warn("Load answer prompt: %v", err)
		return domain.AnswerPromptTemplate
	}
	if strings.Count(tmpl, "%s") != 2 {
		logger.Warn("Answer prompt needs exactly two %%s placeholders, using built-in prompt")
		return domain.AnswerPromptTemplate
	}
	return tmpl
}

func (s *ChatService) record(ctx context.Context, question string, resp *domain.ChatResponse) {
	if s.chatLog == nil {
		return
	}
	err := s.chatLog.Append(ctx, domain.Exchange{
		Question:  question,
		Response:  resp.Response,
		Sources:   resp.Sources,
		Fallback:  resp.Fallback,
		CreatedAt: resp.Timestamp,
	})
	if err != nil {
		logger.Warn("Record exchange: %v", err)
	}
}

// buildContext renders chunks as the model's grounding context.
func buildContext(chunks []domain.Chunk) string {
	parts := make([]string, len(chunks))
	for i := range chunks {
		parts[i] = contextChunkPrefix + chunks[i].Content
	}
	return strings.Join(parts, contextSeparator)
}
