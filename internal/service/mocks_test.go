package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/souravdas/ragchat/internal/domain"
)

// MockContentFetcher mocks the ContentFetcher interface
type MockContentFetcher struct {
	mock.Mock
}

func (m *MockContentFetcher) FetchJSON(ctx context.Context, apiURL string) (any, error) {
	args := m.Called(ctx, apiURL)
	return args.Get(0), args.Error(1)
}

// MockVectorStore mocks the VectorStore interface
type MockVectorStore struct {
	mock.Mock
}

func (m *MockVectorStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVectorStore) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockVectorStore) EnsureCollection(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

func (m *MockVectorStore) Insert(ctx context.Context, collection string, records []domain.ChunkRecord) error {
	args := m.Called(ctx, collection, records)
	return args.Error(0)
}

// MockSessionStore mocks the SessionStore interface
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Append(ctx context.Context, sessionID, userMsg, assistantMsg string) error {
	args := m.Called(ctx, sessionID, userMsg, assistantMsg)
	return args.Error(0)
}

func (m *MockSessionStore) Window(ctx context.Context, sessionID string) ([]domain.SessionTurn, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SessionTurn), args.Error(1)
}
