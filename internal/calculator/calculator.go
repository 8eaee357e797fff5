// Package calculator derives the withholding comparison shown by the intake
// wizard, the public calculator page and the payment review screen.
package calculator

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"nr6/internal/domain"
)

// WithholdingRate is the flat non-resident withholding rate applied to rent.
const WithholdingRate = 0.25

// Calculate returns the derived values for data. It has no side effects and
// never fails; the formulas are applied as-is without rounding.
func Calculate(data domain.FilingData) domain.Savings {
	gross := data.MonthlyRent * float64(data.MonthsRented)
	expensesTotal := data.MortgageInterest +
		data.PropertyTax +
		data.CondoFees +
		data.Repairs +
		data.Insurance +
		data.OtherExpenses +
		data.PropertyManagerFee
	net := gross - expensesTotal
	withholdingDefault := gross * WithholdingRate
	withholdingReduced := math.Max(net, 0) * WithholdingRate

	return domain.Savings{
		Gross:              gross,
		ExpensesTotal:      expensesTotal,
		Net:                net,
		WithholdingDefault: withholdingDefault,
		WithholdingReduced: withholdingReduced,
		EstimatedSavings:   withholdingDefault - withholdingReduced,
	}
}

// CheckInvariant verifies the withholding ordering that holds for any
// non-negative input. A failure indicates corrupted input, not a user error.
func CheckInvariant(s domain.Savings) error {
	if s.WithholdingReduced < 0 {
		return fmt.Errorf("%w: reduced withholding %v is negative", domain.ErrInvariantViolated, s.WithholdingReduced)
	}
	if s.WithholdingDefault < s.WithholdingReduced {
		return fmt.Errorf("%w: default withholding %v below reduced %v",
			domain.ErrInvariantViolated, s.WithholdingDefault, s.WithholdingReduced)
	}
	return nil
}

// QuoteInput is the subset of a filing the public calculator asks for.
type QuoteInput struct {
	MonthlyRent        float64 `json:"monthly_rent" binding:"gte=0"`
	MonthsRented       int     `json:"months_rented" binding:"gte=0,lte=12"`
	MortgageInterest   float64 `json:"mortgage_interest" binding:"gte=0"`
	PropertyTax        float64 `json:"property_tax" binding:"gte=0"`
	CondoFees          float64 `json:"condo_fees" binding:"gte=0"`
	Repairs            float64 `json:"repairs" binding:"gte=0"`
	Insurance          float64 `json:"insurance" binding:"gte=0"`
	OtherExpenses      float64 `json:"other_expenses" binding:"gte=0"`
	PropertyManagerFee float64 `json:"property_manager_fee" binding:"gte=0"`
}

// Quote is the calculator result plus the display figures of the pricing pitch.
type Quote struct {
	domain.Savings
	SavingsPercent float64 `json:"savings_percent"`
	ServiceFee     float64 `json:"service_fee"`
	FeeMultiple    float64 `json:"fee_multiple"`
	PaysForItself  bool    `json:"pays_for_itself"`
}

// NewQuote runs Calculate over in and compares the savings against serviceFee.
func NewQuote(in QuoteInput, serviceFee float64) Quote {
	s := Calculate(domain.FilingData{
		MonthlyRent:        in.MonthlyRent,
		MonthsRented:       in.MonthsRented,
		MortgageInterest:   in.MortgageInterest,
		PropertyTax:        in.PropertyTax,
		CondoFees:          in.CondoFees,
		Repairs:            in.Repairs,
		Insurance:          in.Insurance,
		OtherExpenses:      in.OtherExpenses,
		PropertyManagerFee: in.PropertyManagerFee,
	})

	q := Quote{Savings: s, ServiceFee: serviceFee}
	if s.WithholdingDefault > 0 {
		pct := decimal.NewFromFloat(s.EstimatedSavings).
			Div(decimal.NewFromFloat(s.WithholdingDefault)).
			Mul(decimal.NewFromInt(100)).
			Round(0)
		q.SavingsPercent = pct.InexactFloat64()
	}
	if serviceFee > 0 {
		q.FeeMultiple = decimal.NewFromFloat(s.EstimatedSavings).
			Div(decimal.NewFromFloat(serviceFee)).
			Round(1).
			InexactFloat64()
		q.PaysForItself = s.EstimatedSavings > serviceFee
	}
	return q
}
