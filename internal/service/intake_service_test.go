package service_test

import (
	"context"
	"errors"
	"strings"
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
	"nr6/internal/wizard"
	"nr6/mocks"
)

type intakeFixture struct {
	wizards  service.WizardService
	filings  *mocks.MockFilingRepo
	storage  *mocks.MockObjectStorage
	payments *mocks.MockPaymentProvider
	notifier *mocks.MockNotifier
	hub      *feed.Hub
	svc      service.IntakeService
}

func newIntakeFixture() *intakeFixture {
	f := &intakeFixture{
		wizards:  newWizardService(),
		filings:  new(mocks.MockFilingRepo),
		storage:  new(mocks.MockObjectStorage),
		payments: new(mocks.MockPaymentProvider),
		notifier: new(mocks.MockNotifier),
		hub:      feed.NewHub(),
	}
	f.svc = service.NewIntakeService(f.wizards, f.filings, f.storage, f.payments, f.notifier, f.hub, "office@nr6.ca", zap.NewNop())
	return f
}

// assignID mimics the repository assigning the primary key.
func assignID(id uuid.UUID) func(mock.Arguments) {
	return func(args mock.Arguments) {
		args.Get(1).(*domain.Filing).ID = id
	}
}

func TestIntakeService_Submit_Success(t *testing.T) {
	f := newIntakeFixture()
	session := completeWizard(t, f.wizards)
	filingID := uuid.New()
	events, dispose, err := f.hub.Subscribe(domain.TopicFilings)
	require.NoError(t, err)
	defer dispose()

	f.filings.On("Create", mock.Anything, mock.MatchedBy(func(fl *domain.Filing) bool {
		return fl.Status == domain.FilingStatusNew && !fl.Paid && fl.Notes == "" &&
			fl.EstimatedSavings == 3900 && fl.FileURL == nil && fl.ID == uuid.Nil
	})).Run(assignID(filingID)).Return(nil)
	f.payments.On("CreateCheckoutSession", mock.Anything, mock.MatchedBy(func(r port.CheckoutRequest) bool {
		return r.FilingID == filingID && r.Email == "jane@example.com" && r.Gross == 30000
	})).Return(&port.CheckoutSession{ID: "cs_test_a1b2c3d4e5f6g7h8i9", URL: "https://checkout.stripe.com/c/pay/cs_test"}, nil)
	f.payments.On("Live").Return(true)

	res, err := f.svc.Submit(context.Background(), session)

	require.NoError(t, err)
	assert.Equal(t, filingID, res.FilingID)
	assert.Equal(t, "CS_TEST_A1B2C3D4", res.OrderNumber)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test", res.CheckoutURL)
	assert.Equal(t, 3900.0, res.Savings.EstimatedSavings)

	select {
	case ev := <-events:
		assert.Equal(t, filingID, ev.ID)
	default:
		t.Fatal("expected a filings change event")
	}

	// The session is gone and its draft cleared.
	_, err = f.wizards.State(context.Background(), session)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	st, err := f.wizards.Resume(context.Background(), session)
	require.NoError(t, err)
	assert.Empty(t, st.Record.PropertyAddress)

	f.filings.AssertExpectations(t)
	f.payments.AssertExpectations(t)
	f.notifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestIntakeService_Submit_MockProviderNotifiesImmediately(t *testing.T) {
	f := newIntakeFixture()
	session := completeWizard(t, f.wizards)
	filingID := uuid.New()

	f.filings.On("Create", mock.Anything, mock.Anything).Run(assignID(filingID)).Return(nil)
	f.payments.On("CreateCheckoutSession", mock.Anything, mock.Anything).
		Return(&port.CheckoutSession{ID: filingID.String(), URL: "http://localhost:3000/success?session_id=" + filingID.String()}, nil)
	f.payments.On("Live").Return(false)
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Kind == domain.NotificationCustomerConfirmation && n.To == "jane@example.com"
	})).Return(nil).Once()
	f.notifier.On("Send", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.Kind == domain.NotificationAdminNotification && n.To == "office@nr6.ca" &&
			n.Data.EstimatedSavings != nil && *n.Data.EstimatedSavings == 3900
	})).Return(errors.New("smtp down")).Once()

	res, err := f.svc.Submit(context.Background(), session)

	require.NoError(t, err)
	assert.Equal(t, strings.ToUpper(filingID.String()[:16]), res.OrderNumber)
	f.notifier.AssertExpectations(t)
}

func TestIntakeService_Submit_WithAttachment(t *testing.T) {
	f := newIntakeFixture()
	st, err := f.wizards.Start(context.Background())
	require.NoError(t, err)
	for step := wizard.StepProperty; step < wizard.StepContact; step++ {
		_, err = f.wizards.Next(context.Background(), st.SessionID, []byte(stepBodies[step]))
		require.NoError(t, err)
	}
	pdf := append([]byte("%PDF-1.7\n"), make([]byte, 32)...)
	_, err = f.wizards.Attach(context.Background(), st.SessionID, service.AttachInput{Filename: "t776.pdf", ContentType: "application/pdf", Data: pdf})
	require.NoError(t, err)
	_, err = f.wizards.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepContact]))
	require.NoError(t, err)

	f.storage.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "filings/") && strings.HasSuffix(key, "/t776.pdf")
	}), "application/pdf", mock.Anything).Return(&port.StoredObject{Key: "filings/x/t776.pdf", URL: "https://bucket.s3/filings/x/t776.pdf"}, nil)
	f.filings.On("Create", mock.Anything, mock.MatchedBy(func(fl *domain.Filing) bool {
		return fl.FileURL != nil && *fl.FileURL == "https://bucket.s3/filings/x/t776.pdf" &&
			fl.FileKey != nil && *fl.FileKey == "filings/x/t776.pdf"
	})).Run(assignID(uuid.New())).Return(nil)
	f.payments.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(nil, domain.ErrPaymentUnavailable)
	f.payments.On("Live").Return(true)

	res, err := f.svc.Submit(context.Background(), st.SessionID)

	require.NoError(t, err)
	assert.Empty(t, res.CheckoutURL)
	f.storage.AssertExpectations(t)
	f.filings.AssertExpectations(t)
}

func TestIntakeService_Submit_StoreFailureKeepsWizard(t *testing.T) {
	f := newIntakeFixture()
	session := completeWizard(t, f.wizards)

	f.filings.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	res, err := f.svc.Submit(context.Background(), session)

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)

	st, err := f.wizards.State(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepPayment, st.Step)
	assert.Equal(t, "123 Main St, Toronto", st.Record.PropertyAddress)
	f.payments.AssertNotCalled(t, "CreateCheckoutSession", mock.Anything, mock.Anything)
}

func TestIntakeService_Submit_UploadFailure(t *testing.T) {
	f := newIntakeFixture()
	st, _ := f.wizards.Start(context.Background())
	for step := wizard.StepProperty; step < wizard.StepContact; step++ {
		_, _ = f.wizards.Next(context.Background(), st.SessionID, []byte(stepBodies[step]))
	}
	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	_, err := f.wizards.Attach(context.Background(), st.SessionID, service.AttachInput{Filename: "scan.png", ContentType: "image/png", Data: png})
	require.NoError(t, err)
	_, err = f.wizards.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepContact]))
	require.NoError(t, err)

	f.storage.On("Upload", mock.Anything, mock.Anything, "image/png", mock.Anything).Return(nil, errors.New("access denied"))

	_, err = f.svc.Submit(context.Background(), st.SessionID)

	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	f.filings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIntakeService_Submit_RemovesAttachmentWhenStoreFails(t *testing.T) {
	f := newIntakeFixture()
	st, _ := f.wizards.Start(context.Background())
	for step := wizard.StepProperty; step < wizard.StepContact; step++ {
		_, _ = f.wizards.Next(context.Background(), st.SessionID, []byte(stepBodies[step]))
	}
	pdf := append([]byte("%PDF-1.4\n"), make([]byte, 16)...)
	_, _ = f.wizards.Attach(context.Background(), st.SessionID, service.AttachInput{Filename: "a.pdf", ContentType: "application/pdf", Data: pdf})
	_, _ = f.wizards.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepContact]))

	f.storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(&port.StoredObject{Key: "filings/k/a.pdf", URL: "u"}, nil)
	f.filings.On("Create", mock.Anything, mock.Anything).Return(errors.New("disk full"))
	f.storage.On("Delete", mock.Anything, "filings/k/a.pdf").Return(nil)

	_, err := f.svc.Submit(context.Background(), st.SessionID)

	assert.ErrorIs(t, err, domain.ErrSubmissionFailed)
	f.storage.AssertExpectations(t)
}

func TestIntakeService_Submit_Incomplete(t *testing.T) {
	f := newIntakeFixture()
	st, err := f.wizards.Start(context.Background())
	require.NoError(t, err)

	_, err = f.svc.Submit(context.Background(), st.SessionID)

	assert.ErrorIs(t, err, domain.ErrWizardIncomplete)
	f.filings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestIntakeService_Checkout(t *testing.T) {
	f := newIntakeFixture()
	id := uuid.New()
	unpaid := &domain.Filing{ID: id, FilingData: domain.FilingData{Email: "jane@example.com"}}

	f.filings.On("GetByID", mock.Anything, id).Return(unpaid, nil)
	f.payments.On("CreateCheckoutSession", mock.Anything, mock.Anything).Return(&port.CheckoutSession{ID: "cs_2", URL: "https://pay"}, nil)

	res, err := f.svc.Checkout(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "https://pay", res.CheckoutURL)
	assert.Equal(t, "CS_2", res.OrderNumber)
}

func TestIntakeService_Checkout_AlreadyPaid(t *testing.T) {
	f := newIntakeFixture()
	id := uuid.New()
	f.filings.On("GetByID", mock.Anything, id).Return(&domain.Filing{ID: id, Paid: true}, nil)

	_, err := f.svc.Checkout(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrFilingAlreadyPaid)
}

func TestIntakeService_Order(t *testing.T) {
	f := newIntakeFixture()

	info, err := f.svc.Order(context.Background(), "cs_live_abcdefghijklmnop")
	require.NoError(t, err)
	assert.Equal(t, "CS_LIVE_ABCDEFGH", info.OrderNumber)

	info, err = f.svc.Order(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "N/A", info.OrderNumber)

	id := uuid.New()
	f.filings.On("GetByID", mock.Anything, id).Return(&domain.Filing{ID: id, Status: domain.FilingStatusPaid, Paid: true}, nil)
	info, err = f.svc.Order(context.Background(), id.String())
	require.NoError(t, err)
	assert.True(t, info.Paid)
	assert.Equal(t, domain.FilingStatusPaid, info.Status)
}
