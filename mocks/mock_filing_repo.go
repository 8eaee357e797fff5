package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"nr6/internal/domain"
)

// MockFilingRepo is a mock implementation of port.FilingRepository.
type MockFilingRepo struct {
	mock.Mock
}

func (m *MockFilingRepo) Create(ctx context.Context, filing *domain.Filing) error {
	args := m.Called(ctx, filing)
	return args.Error(0)
}

func (m *MockFilingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Filing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Filing), args.Error(1)
}

func (m *MockFilingRepo) ListAll(ctx context.Context) ([]domain.Filing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Filing), args.Error(1)
}

func (m *MockFilingRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.FilingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockFilingRepo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}

func (m *MockFilingRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) error {
	args := m.Called(ctx, id, paymentRef)
	return args.Error(0)
}
