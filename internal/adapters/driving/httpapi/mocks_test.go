package httpapi

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var (
	_ driving.ChatService      = (*mockChatService)(nil)
	_ driving.RetrievalService = (*mockRetrievalService)(nil)
)

type mockChatService struct {
	mock.Mock
}

func (m *mockChatService) Ask(ctx context.Context, message string) (*domain.ChatResponse, error) {
	args := m.Called(ctx, message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatResponse), args.Error(1)
}

func (m *mockChatService) History(ctx context.Context, limit int) ([]domain.Exchange, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Exchange), args.Error(1)
}

type mockRetrievalService struct {
	mock.Mock
}

func (m *mockRetrievalService) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) (*domain.QueryResult, error) {
	args := m.Called(ctx, query, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QueryResult), args.Error(1)
}

func (m *mockRetrievalService) Stats(ctx context.Context) (*domain.Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stats), args.Error(1)
}

func (m *mockRetrievalService) Documents(ctx context.Context) ([]domain.DocumentSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DocumentSummary), args.Error(1)
}

func (m *mockRetrievalService) Ready() bool {
	return m.Called().Bool(0)
}
