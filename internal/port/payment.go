package port

import (
	"context"

	"github.com/google/uuid"
)

// CheckoutRequest summarises a completed intake record for the payment provider.
type CheckoutRequest struct {
	FilingID           uuid.UUID
	PropertyAddress    string
	FullName           string
	Email              string
	Phone              string
	CountryOfResidence string
	Gross              float64
	ExpensesTotal      float64
	EstimatedSavings   float64
}

// CheckoutSession is the provider's answer to a checkout request.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentEvent is a verified provider callback that completed a checkout.
type PaymentEvent struct {
	Type       string
	SessionID  string
	PaymentRef string
	FilingID   uuid.UUID
	Metadata   map[string]string
}

// PaymentProvider abstracts hosted checkout and its signed webhook callbacks.
type PaymentProvider interface {
	// Live reports whether a real provider is configured. A mock provider
	// never sends webhooks.
	Live() bool
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature and returns the event, or nil for
	// event types that carry nothing to act on.
	ParseWebhook(payload []byte, signature string) (*PaymentEvent, error)
}
