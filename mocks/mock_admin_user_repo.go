package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"nr6/internal/domain"
)

// MockAdminUserRepo is a mock implementation of port.AdminUserRepository.
type MockAdminUserRepo struct {
	mock.Mock
}

func (m *MockAdminUserRepo) Create(ctx context.Context, user *domain.AdminUser) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockAdminUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.AdminUser, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}

func (m *MockAdminUserRepo) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AdminUser), args.Error(1)
}
