package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"nr6/internal/domain"
	"nr6/internal/service"
)

// MockAdminService is a mock implementation of service.AdminService.
type MockAdminService struct {
	mock.Mock
}

func (m *MockAdminService) ListFilings(ctx context.Context) ([]domain.Filing, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Filing), args.Error(1)
}

func (m *MockAdminService) ListContacts(ctx context.Context) ([]domain.ContactSubmission, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ContactSubmission), args.Error(1)
}

func (m *MockAdminService) GetFiling(ctx context.Context, id uuid.UUID) (*domain.Filing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Filing), args.Error(1)
}

func (m *MockAdminService) GetContact(ctx context.Context, id uuid.UUID) (*domain.ContactSubmission, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ContactSubmission), args.Error(1)
}

func (m *MockAdminService) UpdateFilingStatus(ctx context.Context, id uuid.UUID, status domain.FilingStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAdminService) UpdateFilingNotes(ctx context.Context, id uuid.UUID, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}

func (m *MockAdminService) UpdateContactStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockAdminService) UpdateContactNotes(ctx context.Context, id uuid.UUID, notes string) error {
	args := m.Called(ctx, id, notes)
	return args.Error(0)
}

func (m *MockAdminService) AttachmentURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

func (m *MockAdminService) Stats(ctx context.Context) (*service.DashboardStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DashboardStats), args.Error(1)
}
