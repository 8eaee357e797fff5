package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/feed"
	"nr6/internal/port"
	"nr6/internal/service"
	"nr6/mocks"
)

func TestPaymentService_HandleWebhook_MarksPaid(t *testing.T) {
	provider := new(mocks.MockPaymentProvider)
	filings := new(mocks.MockFilingRepo)
	notifier := new(mocks.MockNotifier)
	hub := feed.NewHub()
	svc := service.NewPaymentService(provider, filings, notifier, hub, "office@nr6.ca", zap.NewNop())
	events, dispose, _ := hub.Subscribe(domain.TopicFilings)
	defer dispose()

	id := uuid.New()
	payload := []byte(`{"type":"checkout.session.completed"}`)
	provider.On("ParseWebhook", payload, "t=1,v1=abc").Return(&port.PaymentEvent{
		Type: "checkout.session.completed", SessionID: "cs_test_0123456789abcdef", PaymentRef: "pi_1", FilingID: id,
	}, nil)
	filings.On("GetByID", mock.Anything, id).Return(&domain.Filing{
		ID:         id,
		FilingData: domain.FilingData{FullName: "Jane", Email: "jane@example.com"},
		Savings:    domain.Savings{EstimatedSavings: 3900},
	}, nil)
	filings.On("MarkPaid", mock.Anything, id, "pi_1").Return(nil)
	notifier.On("Send", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Data.OrderID == "CS_TEST_01234567"
	})).Return(nil).Twice()

	require.NoError(t, svc.HandleWebhook(context.Background(), payload, "t=1,v1=abc"))

	assert.Equal(t, id, (<-events).ID)
	filings.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestPaymentService_HandleWebhook_Redelivery(t *testing.T) {
	provider := new(mocks.MockPaymentProvider)
	filings := new(mocks.MockFilingRepo)
	notifier := new(mocks.MockNotifier)
	svc := service.NewPaymentService(provider, filings, notifier, nil, "office@nr6.ca", zap.NewNop())
	id := uuid.New()

	provider.On("ParseWebhook", mock.Anything, mock.Anything).Return(&port.PaymentEvent{FilingID: id, PaymentRef: "pi_1"}, nil)
	filings.On("GetByID", mock.Anything, id).Return(&domain.Filing{ID: id, Paid: true}, nil)

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte(`{}`), "sig"))
	filings.AssertNotCalled(t, "MarkPaid", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestPaymentService_HandleWebhook_Errors(t *testing.T) {
	provider := new(mocks.MockPaymentProvider)
	filings := new(mocks.MockFilingRepo)
	svc := service.NewPaymentService(provider, filings, nil, nil, "", zap.NewNop())

	provider.On("ParseWebhook", []byte("bad"), "").Return(nil, domain.ErrWebhookSignatureMissing)
	provider.On("ParseWebhook", []byte("ignored"), "sig").Return(nil, nil)

	assert.ErrorIs(t, svc.HandleWebhook(context.Background(), []byte("bad"), ""), domain.ErrWebhookSignatureMissing)
	assert.NoError(t, svc.HandleWebhook(context.Background(), []byte("ignored"), "sig"))
	filings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}
