package calculator

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nr6/internal/domain"
)

func TestCalculate_TypicalLandlord(t *testing.T) {
	s := Calculate(domain.FilingData{
		MonthlyRent:      2500,
		MonthsRented:     12,
		MortgageInterest: 8000,
		PropertyTax:      4000,
		OtherExpenses:    3000,
	})

	assert.Equal(t, 30000.0, s.Gross)
	assert.Equal(t, 15000.0, s.ExpensesTotal)
	assert.Equal(t, 15000.0, s.Net)
	assert.Equal(t, 7500.0, s.WithholdingDefault)
	assert.Equal(t, 3750.0, s.WithholdingReduced)
	assert.Equal(t, 3750.0, s.EstimatedSavings)
}

func TestCalculate_NoExpenses(t *testing.T) {
	s := Calculate(domain.FilingData{MonthlyRent: 3000, MonthsRented: 12})

	assert.Equal(t, 36000.0, s.Gross)
	assert.Equal(t, 36000.0, s.Net)
	assert.Equal(t, 9000.0, s.WithholdingDefault)
	assert.Equal(t, 9000.0, s.WithholdingReduced)
	assert.Equal(t, 0.0, s.EstimatedSavings)
}

func TestCalculate_ExpensesExceedGross(t *testing.T) {
	s := Calculate(domain.FilingData{
		MonthlyRent:      1000,
		MonthsRented:     6,
		MortgageInterest: 6000,
		Repairs:          2500,
		Insurance:        1500,
	})

	assert.Equal(t, 6000.0, s.Gross)
	assert.Equal(t, 10000.0, s.ExpensesTotal)
	assert.Equal(t, -4000.0, s.Net)
	assert.Equal(t, 0.0, s.WithholdingReduced)
	assert.Equal(t, s.WithholdingDefault, s.EstimatedSavings)
	assert.Equal(t, 1500.0, s.EstimatedSavings)
}

func TestCalculate_ManagerFeeCountsAsExpense(t *testing.T) {
	s := Calculate(domain.FilingData{MonthlyRent: 1000, MonthsRented: 12, PropertyManagerFee: 1200})

	assert.Equal(t, 1200.0, s.ExpensesTotal)
	assert.Equal(t, 10800.0, s.Net)
}

func TestCalculate_ZeroRecord(t *testing.T) {
	s := Calculate(domain.FilingData{})
	assert.Equal(t, domain.Savings{}, s)
}

func randomRecord(r *rand.Rand) domain.FilingData {
	amount := func() float64 { return float64(r.Intn(5_000_000)) / 100 }
	return domain.FilingData{
		MonthlyRent:        amount(),
		MonthsRented:       1 + r.Intn(12),
		PropertyManagerFee: amount(),
		MortgageInterest:   amount(),
		PropertyTax:        amount(),
		CondoFees:          amount(),
		Repairs:            amount(),
		Insurance:          amount(),
		OtherExpenses:      amount(),
	}
}

func TestCalculate_Properties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		d := randomRecord(r)
		s := Calculate(d)

		require.Equal(t, d.MonthlyRent*float64(d.MonthsRented), s.Gross)
		require.Equal(t,
			d.MortgageInterest+d.PropertyTax+d.CondoFees+d.Repairs+d.Insurance+d.OtherExpenses+d.PropertyManagerFee,
			s.ExpensesTotal)
		require.GreaterOrEqual(t, s.ExpensesTotal, 0.0)
		require.Equal(t, s.Gross-s.ExpensesTotal, s.Net)
		require.GreaterOrEqual(t, s.WithholdingReduced, 0.0)
		require.GreaterOrEqual(t, s.WithholdingDefault, s.WithholdingReduced)
		require.NoError(t, CheckInvariant(s))

		// Same input, same output.
		require.Equal(t, s, Calculate(d))
	}
}

func TestCheckInvariant_Violation(t *testing.T) {
	err := CheckInvariant(domain.Savings{WithholdingDefault: 10, WithholdingReduced: 20})
	assert.ErrorIs(t, err, domain.ErrInvariantViolated)

	err = CheckInvariant(domain.Savings{WithholdingReduced: -1})
	assert.ErrorIs(t, err, domain.ErrInvariantViolated)
}

func TestNewQuote(t *testing.T) {
	q := NewQuote(QuoteInput{
		MonthlyRent:      2500,
		MonthsRented:     12,
		MortgageInterest: 8000,
		PropertyTax:      4000,
		OtherExpenses:    3000,
	}, 999)

	assert.Equal(t, 3750.0, q.EstimatedSavings)
	assert.Equal(t, 50.0, q.SavingsPercent)
	assert.Equal(t, 3.8, q.FeeMultiple)
	assert.True(t, q.PaysForItself)
	assert.Equal(t, 999.0, q.ServiceFee)
}

func TestNewQuote_NoRent(t *testing.T) {
	q := NewQuote(QuoteInput{MonthsRented: 12}, 999)

	assert.Equal(t, 0.0, q.SavingsPercent)
	assert.Equal(t, 0.0, q.FeeMultiple)
	assert.False(t, q.PaysForItself)
}
