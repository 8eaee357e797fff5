package stripe

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	stripeapi "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"

	"nr6/internal/config"
	"nr6/internal/domain"
	"nr6/internal/port"
)

type stripeProvider struct {
	api           *client.API
	webhookSecret string
	currency      string
	amountCents   int64
	productName   string
	frontendURL   string
}

// NewStripeProvider creates a PaymentProvider backed by Stripe Checkout.
func NewStripeProvider(cfg *config.PaymentConfig) port.PaymentProvider {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &stripeProvider{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		currency:      cfg.Currency,
		amountCents:   cfg.ServiceFeeCents,
		productName:   cfg.ProductName,
		frontendURL:   cfg.FrontendURL,
	}
}

func (p *stripeProvider) Live() bool { return true }

func (p *stripeProvider) CreateCheckoutSession(ctx context.Context, req port.CheckoutRequest) (*port.CheckoutSession, error) {
	params := &stripeapi.CheckoutSessionParams{
		Mode:               stripeapi.String(string(stripeapi.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripeapi.StringSlice([]string{"card"}),
		LineItems: []*stripeapi.CheckoutSessionLineItemParams{
			{
				PriceData: &stripeapi.CheckoutSessionLineItemPriceDataParams{
					Currency: stripeapi.String(p.currency),
					ProductData: &stripeapi.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripeapi.String(p.productName),
						Description: stripeapi.String("NR6 filing for " + req.PropertyAddress),
					},
					UnitAmount: stripeapi.Int64(p.amountCents),
				},
				Quantity: stripeapi.Int64(1),
			},
		},
		CustomerEmail:     stripeapi.String(req.Email),
		ClientReferenceID: stripeapi.String(req.FilingID.String()),
		SuccessURL:        stripeapi.String(p.frontendURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripeapi.String(p.frontendURL + "/start"),
	}
	params.Context = ctx
	for k, v := range Metadata(req) {
		params.AddMetadata(k, v)
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrPaymentUnavailable, err)
	}
	return &port.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseWebhook verifies a Stripe-Signature header. Without a webhook secret
// nothing is verified and nil is returned.
func (p *stripeProvider) ParseWebhook(payload []byte, signature string) (*port.PaymentEvent, error) {
	if p.webhookSecret == "" {
		return nil, nil
	}
	if signature == "" {
		return nil, domain.ErrWebhookSignatureMissing
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrWebhookSignature, err)
	}

	if event.Type != stripeapi.EventTypeCheckoutSessionCompleted {
		return nil, nil
	}

	var sess stripeapi.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("decoding checkout session: %w", err)
	}

	ref := sess.Metadata["filing_id"]
	if ref == "" {
		ref = sess.ClientReferenceID
	}
	filingID, err := uuid.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("checkout session %s has no filing reference: %w", sess.ID, err)
	}

	paymentRef := sess.ID
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		paymentRef = sess.PaymentIntent.ID
	}

	return &port.PaymentEvent{
		Type:       string(event.Type),
		SessionID:  sess.ID,
		PaymentRef: paymentRef,
		FilingID:   filingID,
		Metadata:   sess.Metadata,
	}, nil
}

// Metadata is the key/value summary attached to a checkout session.
func Metadata(req port.CheckoutRequest) map[string]string {
	return map[string]string{
		"filing_id":         req.FilingID.String(),
		"property_address":  req.PropertyAddress,
		"full_name":         req.FullName,
		"email":             req.Email,
		"phone":             req.Phone,
		"country":           req.CountryOfResidence,
		"gross":             formatAmount(req.Gross),
		"expenses_total":    formatAmount(req.ExpensesTotal),
		"estimated_savings": formatAmount(req.EstimatedSavings),
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
