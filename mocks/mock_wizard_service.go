package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nr6/internal/service"
	"nr6/internal/wizard"
)

// MockWizardService is a mock implementation of service.WizardService.
type MockWizardService struct {
	mock.Mock
}

func (m *MockWizardService) state(args mock.Arguments) (*service.WizardState, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.WizardState), args.Error(1)
}

func (m *MockWizardService) Start(ctx context.Context) (*service.WizardState, error) {
	return m.state(m.Called(ctx))
}

func (m *MockWizardService) Resume(ctx context.Context, sessionID string) (*service.WizardState, error) {
	return m.state(m.Called(ctx, sessionID))
}

func (m *MockWizardService) State(ctx context.Context, sessionID string) (*service.WizardState, error) {
	return m.state(m.Called(ctx, sessionID))
}

func (m *MockWizardService) Next(ctx context.Context, sessionID string, raw []byte) (*service.WizardState, error) {
	return m.state(m.Called(ctx, sessionID, raw))
}

func (m *MockWizardService) Prev(ctx context.Context, sessionID string) (*service.WizardState, error) {
	return m.state(m.Called(ctx, sessionID))
}

func (m *MockWizardService) Attach(ctx context.Context, sessionID string, input service.AttachInput) (*service.WizardState, error) {
	return m.state(m.Called(ctx, sessionID, input))
}

func (m *MockWizardService) Detach(ctx context.Context, sessionID string) (*service.WizardState, error) {
	return m.state(m.Called(ctx, sessionID))
}

func (m *MockWizardService) Reset(ctx context.Context, sessionID string) (*service.WizardState, error) {
	return m.state(m.Called(ctx, sessionID))
}

func (m *MockWizardService) With(ctx context.Context, sessionID string, fn func(w *wizard.Wizard) error) error {
	args := m.Called(ctx, sessionID, fn)
	return args.Error(0)
}

func (m *MockWizardService) Drop(sessionID string) {
	m.Called(sessionID)
}
