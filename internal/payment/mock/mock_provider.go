// Package mock is the payment provider used when no Stripe key is configured.
// Checkout always succeeds and redirects straight to the success page.
package mock

import (
	"context"
	"net/url"

	"nr6/internal/port"
)

type mockProvider struct {
	frontendURL string
}

// NewMockProvider creates a PaymentProvider that never contacts a processor.
func NewMockProvider(frontendURL string) port.PaymentProvider {
	return &mockProvider{frontendURL: frontendURL}
}

func (p *mockProvider) Live() bool { return false }

func (p *mockProvider) CreateCheckoutSession(_ context.Context, req port.CheckoutRequest) (*port.CheckoutSession, error) {
	id := req.FilingID.String()
	return &port.CheckoutSession{
		ID:  id,
		URL: p.frontendURL + "/success?session_id=" + url.QueryEscape(id),
	}, nil
}

// ParseWebhook accepts and ignores every callback.
func (p *mockProvider) ParseWebhook([]byte, string) (*port.PaymentEvent, error) {
	return nil, nil
}
