package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"nr6/internal/domain"
)

// MockContactRepo is a mock implementation of port.ContactRepository.
type MockContactRepo struct {
	mock.Mock
}

func (m *MockContactRepo) Create(ctx context.Context, contact *domain.ContactSubmission) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ContactSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactSubmission), args.Error(1)
}

func (m *MockContactRepo) ListAll(ctx context.Context) ([]domain.ContactSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactSubmission), args.Error(1)
}

func (m *MockContactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus, replied bool) error {
	args := m.Called(ctx, id, status, replied)
	return args.Error(0)
}

func (m *MockContactRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}
