package mcp

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var (
	_ driving.RetrievalService = (*mockRetrievalService)(nil)
	_ driving.ChatService      = (*mockChatService)(nil)
)

// mockRetrievalService is a mock implementation of driving.RetrievalService.
type mockRetrievalService struct {
	result   *domain.QueryResult
	stats    *domain.Stats
	docs     []domain.DocumentSummary
	ready    bool
	err      error
	lastOpts domain.SearchOptions
}

func (m *mockRetrievalService) Search(
	_ context.Context,
	_ string,
	opts domain.SearchOptions,
) (*domain.QueryResult, error) {
	m.lastOpts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.result == nil {
		return &domain.QueryResult{}, nil
	}
	return m.result, nil
}

func (m *mockRetrievalService) Stats(_ context.Context) (*domain.Stats, error) {
	return m.stats, m.err
}

func (m *mockRetrievalService) Documents(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.docs, m.err
}

func (m *mockRetrievalService) Ready() bool {
	return m.ready
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	response *domain.ChatResponse
	err      error
	asked    []string
}

func (m *mockChatService) Ask(_ context.Context, message string) (*domain.ChatResponse, error) {
	m.asked = append(m.asked, message)
	return m.response, m.err
}

func (m *mockChatService) History(_ context.Context, _ int) ([]domain.Exchange, error) {
	return nil, m.err
}
