package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"nr6/internal/port"
)

// MockPaymentProvider is a mock implementation of port.PaymentProvider.
type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) Live() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockPaymentProvider) CreateCheckoutSession(ctx context.Context, req port.CheckoutRequest) (*port.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CheckoutSession), args.Error(1)
}

func (m *MockPaymentProvider) ParseWebhook(payload []byte, signature string) (*port.PaymentEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.PaymentEvent), args.Error(1)
}
