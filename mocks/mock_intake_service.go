package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"nr6/internal/service"
)

// MockIntakeService is a mock implementation of service.IntakeService.
type MockIntakeService struct {
	mock.Mock
}

func (m *MockIntakeService) Submit(ctx context.Context, sessionID string) (*service.SubmitResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockIntakeService) Checkout(ctx context.Context, filingID uuid.UUID) (*service.SubmitResult, error) {
	args := m.Called(ctx, filingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockIntakeService) Order(ctx context.Context, reference string) (*service.OrderInfo, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrderInfo), args.Error(1)
}
