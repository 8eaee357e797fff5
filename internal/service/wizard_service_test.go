package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/draft"
	"nr6/internal/service"
	"nr6/internal/wizard"
	"nr6/mocks"
)

var stepBodies = map[wizard.Step]string{
	wizard.StepProperty: `{"property_address":"123 Main St, Toronto","ownership_percentage":100,"rental_type":"long_term","first_rental_year":2020}`,
	wizard.StepIncome:   `{"monthly_rent":2500,"months_rented":12,"property_manager_fee":600}`,
	wizard.StepExpenses: `{"mortgage_interest":12000,"property_tax":3000}`,
	wizard.StepContact:  `{"full_name":"Jane Doe","email":"jane@example.com","phone":"4165550100","country_of_residence":"United Kingdom","checkbox_confirm":true}`,
}

func newWizardService() service.WizardService {
	return service.NewWizardService(draft.NewMemoryStore(time.Hour), time.Hour, zap.NewNop())
}

// completeWizard drives a fresh session to the payment step.
func completeWizard(t *testing.T, svc service.WizardService) string {
	t.Helper()
	st, err := svc.Start(context.Background())
	require.NoError(t, err)
	for step := wizard.StepProperty; step < wizard.StepPayment; step++ {
		st, err = svc.Next(context.Background(), st.SessionID, []byte(stepBodies[step]))
		require.NoError(t, err, "step %d", step)
	}
	require.Equal(t, wizard.StepPayment, st.Step)
	return st.SessionID
}

func TestWizardService_StartDefaults(t *testing.T) {
	svc := newWizardService()

	st, err := svc.Start(context.Background())

	require.NoError(t, err)
	_, err = uuid.Parse(st.SessionID)
	assert.NoError(t, err)
	assert.Equal(t, wizard.StepProperty, st.Step)
	assert.Equal(t, wizard.TotalSteps, st.TotalSteps)
	assert.Equal(t, 100, st.Record.OwnershipPercentage)
	assert.Equal(t, domain.RentalTypeLongTerm, st.Record.RentalType)
	assert.Equal(t, 12, st.Record.MonthsRented)
	assert.Nil(t, st.Summary)
}

func TestWizardService_NextThroughPayment(t *testing.T) {
	svc := newWizardService()
	id := completeWizard(t, svc)

	st, err := svc.State(context.Background(), id)

	require.NoError(t, err)
	require.NotNil(t, st.Summary)
	assert.Equal(t, "Long-term", st.Summary.RentalType)
	assert.Equal(t, 30000.0, st.Savings.Gross)
	assert.Equal(t, 15600.0, st.Savings.ExpensesTotal)
	assert.Equal(t, 3900.0, st.Savings.EstimatedSavings)
}

func TestWizardService_NextValidationError(t *testing.T) {
	svc := newWizardService()
	st, err := svc.Start(context.Background())
	require.NoError(t, err)

	_, err = svc.Next(context.Background(), st.SessionID, []byte(`{"property_address":"x","ownership_percentage":100,"rental_type":"long_term","first_rental_year":2020}`))

	var ve *wizard.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, wizard.StepProperty, ve.Step)
	assert.Contains(t, ve.Messages(), "property_address")

	st, err = svc.Resume(context.Background(), st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepProperty, st.Step)
}

func TestWizardService_NextScrollsToTop(t *testing.T) {
	svc := newWizardService()
	st, err := svc.Start(context.Background())
	require.NoError(t, err)

	st, err = svc.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepProperty]))

	require.NoError(t, err)
	assert.True(t, st.ScrollToTop)
	assert.Equal(t, wizard.StepIncome, st.Step)
}

func TestWizardService_PrevKeepsData(t *testing.T) {
	svc := newWizardService()
	st, _ := svc.Start(context.Background())
	st, _ = svc.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepProperty]))

	st, err := svc.Prev(context.Background(), st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepProperty, st.Step)
	assert.Equal(t, "123 Main St, Toronto", st.Record.PropertyAddress)

	st, err = svc.Prev(context.Background(), st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepProperty, st.Step)
}

func TestWizardService_ResumeRestoresDraftAfterEviction(t *testing.T) {
	svc := newWizardService()
	st, _ := svc.Start(context.Background())
	st, _ = svc.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepProperty]))
	st, _ = svc.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepIncome]))

	svc.Drop(st.SessionID)
	_, err := svc.State(context.Background(), st.SessionID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	restored, err := svc.Resume(context.Background(), st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepProperty, restored.Step)
	assert.Equal(t, "123 Main St, Toronto", restored.Record.PropertyAddress)
	assert.Equal(t, 2500.0, restored.Record.MonthlyRent)
}

func TestWizardService_DraftFailureDoesNotBlock(t *testing.T) {
	store := new(mocks.MockDraftStore)
	store.On("Load", mock.Anything, mock.Anything).Return(nil, domain.ErrDraftNotFound)
	store.On("Save", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))
	svc := service.NewWizardService(store, time.Hour, zap.NewNop())

	st, err := svc.Start(context.Background())
	require.NoError(t, err)
	st, err = svc.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepProperty]))

	require.NoError(t, err)
	assert.Equal(t, wizard.StepIncome, st.Step)
	store.AssertExpectations(t)
}

func TestWizardService_MalformedSessionID(t *testing.T) {
	svc := newWizardService()
	_, err := svc.Resume(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestWizardService_AttachOnContactStep(t *testing.T) {
	svc := newWizardService()
	st, _ := svc.Start(context.Background())
	pdf := append([]byte("%PDF-1.4\n"), make([]byte, 64)...)

	_, err := svc.Attach(context.Background(), st.SessionID, service.AttachInput{Filename: "lease.pdf", ContentType: "application/pdf", Data: pdf})
	assert.ErrorIs(t, err, domain.ErrStepMismatch)

	for step := wizard.StepProperty; step < wizard.StepContact; step++ {
		st, err = svc.Next(context.Background(), st.SessionID, []byte(stepBodies[step]))
		require.NoError(t, err)
	}

	st, err = svc.Attach(context.Background(), st.SessionID, service.AttachInput{Filename: "lease.pdf", ContentType: "application/pdf", Data: pdf})
	require.NoError(t, err)
	require.NotNil(t, st.Attachment)
	assert.Equal(t, "lease.pdf", st.Attachment.Filename)

	_, err = svc.Attach(context.Background(), st.SessionID, service.AttachInput{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)

	st, err = svc.Detach(context.Background(), st.SessionID)
	require.NoError(t, err)
	assert.Nil(t, st.Attachment)
}

func TestWizardService_Reset(t *testing.T) {
	svc := newWizardService()
	st, _ := svc.Start(context.Background())
	st, _ = svc.Next(context.Background(), st.SessionID, []byte(stepBodies[wizard.StepProperty]))

	st, err := svc.Reset(context.Background(), st.SessionID)
	require.NoError(t, err)
	assert.Equal(t, wizard.StepProperty, st.Step)
	assert.Empty(t, st.Record.PropertyAddress)

	svc.Drop(st.SessionID)
	st, err = svc.Resume(context.Background(), st.SessionID)
	require.NoError(t, err)
	assert.Empty(t, st.Record.PropertyAddress)
}
