package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nr6/internal/domain"
	"nr6/internal/service"
)

// MockContactService is a mock implementation of service.ContactService.
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, input service.ContactInput) (*domain.ContactSubmission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactSubmission), args.Error(1)
}
