package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockDraftStore is a mock implementation of port.DraftStore.
type MockDraftStore struct {
	mock.Mock
}

func (m *MockDraftStore) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDraftStore) Save(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

func (m *MockDraftStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
