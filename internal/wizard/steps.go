package wizard

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"nr6/internal/domain"
)

// Step is a wizard position, 1 through TotalSteps.
type Step int

const (
	StepProperty Step = iota + 1
	StepIncome
	StepExpenses
	StepContact
	StepPayment
)

// TotalSteps is the number of wizard steps.
const TotalSteps = 5

// MinFirstRentalYear is the earliest first-rental year the property step accepts.
const MinFirstRentalYear = 1990

var stepTitles = map[Step]string{
	StepProperty: "Property",
	StepIncome:   "Income",
	StepExpenses: "Expenses",
	StepContact:  "Contact",
	StepPayment:  "Payment",
}

// Title returns the display name of the step.
func (s Step) Title() string {
	if t, ok := stepTitles[s]; ok {
		return t
	}
	return fmt.Sprintf("Step %d", int(s))
}

// StepInput is the validated output of one wizard step. Each step owns an
// independent schema; merging never touches fields owned by another step.
type StepInput interface {
	Step() Step
	Validate(now time.Time) error
	apply(rec *domain.FilingData)
}

// PropertyInput is the step 1 form.
type PropertyInput struct {
	PropertyAddress     string            `json:"property_address" validate:"min=5"`
	OwnershipPercentage int               `json:"ownership_percentage" validate:"min=1,max=100"`
	RentalType          domain.RentalType `json:"rental_type" validate:"oneof=long_term short_term"`
	FirstRentalYear     int               `json:"first_rental_year" validate:"min=1990"`
}

func (PropertyInput) Step() Step { return StepProperty }

func (in PropertyInput) Validate(now time.Time) error {
	ve := check(in)
	if in.FirstRentalYear > now.Year()+1 {
		ve = ve.add("first_rental_year", fmt.Sprintf("First rental year cannot be after %d", now.Year()+1))
	}
	return ve.orNil()
}

func (in PropertyInput) apply(rec *domain.FilingData) {
	rec.PropertyAddress = strings.TrimSpace(in.PropertyAddress)
	rec.OwnershipPercentage = in.OwnershipPercentage
	rec.RentalType = in.RentalType
	rec.FirstRentalYear = in.FirstRentalYear
}

// IncomeInput is the step 2 form. The manager fee is optional.
type IncomeInput struct {
	MonthlyRent        float64 `json:"monthly_rent" validate:"gt=0"`
	MonthsRented       int     `json:"months_rented" validate:"min=1,max=12"`
	PropertyManagerFee float64 `json:"property_manager_fee" validate:"gte=0"`
}

func (IncomeInput) Step() Step { return StepIncome }

func (in IncomeInput) Validate(time.Time) error { return check(in).orNil() }

func (in IncomeInput) apply(rec *domain.FilingData) {
	rec.MonthlyRent = in.MonthlyRent
	rec.MonthsRented = in.MonthsRented
	rec.PropertyManagerFee = in.PropertyManagerFee
}

// ExpensesInput is the step 3 form. Every field is optional and defaults to 0.
type ExpensesInput struct {
	MortgageInterest float64 `json:"mortgage_interest" validate:"gte=0"`
	PropertyTax      float64 `json:"property_tax" validate:"gte=0"`
	CondoFees        float64 `json:"condo_fees" validate:"gte=0"`
	Repairs          float64 `json:"repairs" validate:"gte=0"`
	Insurance        float64 `json:"insurance" validate:"gte=0"`
	OtherExpenses    float64 `json:"other_expenses" validate:"gte=0"`
}

func (ExpensesInput) Step() Step { return StepExpenses }

func (in ExpensesInput) Validate(time.Time) error { return check(in).orNil() }

func (in ExpensesInput) apply(rec *domain.FilingData) {
	rec.MortgageInterest = in.MortgageInterest
	rec.PropertyTax = in.PropertyTax
	rec.CondoFees = in.CondoFees
	rec.Repairs = in.Repairs
	rec.Insurance = in.Insurance
	rec.OtherExpenses = in.OtherExpenses
}

// ContactInput is the step 4 form. The acknowledgement must be literally true.
type ContactInput struct {
	FullName           string `json:"full_name" validate:"min=2"`
	Email              string `json:"email" validate:"email"`
	Phone              string `json:"phone" validate:"min=10"`
	CountryOfResidence string `json:"country_of_residence" validate:"min=2"`
	CheckboxConfirm    bool   `json:"checkbox_confirm" validate:"eq=true"`
}

func (ContactInput) Step() Step { return StepContact }

func (in ContactInput) Validate(time.Time) error { return check(in).orNil() }

func (in ContactInput) apply(rec *domain.FilingData) {
	rec.FullName = strings.TrimSpace(in.FullName)
	rec.Email = strings.TrimSpace(in.Email)
	rec.Phone = strings.TrimSpace(in.Phone)
	rec.CountryOfResidence = strings.TrimSpace(in.CountryOfResidence)
	rec.CheckboxConfirm = in.CheckboxConfirm
}

// messages maps "field.tag" to the inline error shown next to the field.
var messages = map[string]string{
	"property_address.min":     "Please enter a valid property address",
	"ownership_percentage.min": "Minimum 1%",
	"ownership_percentage.max": "Maximum 100%",
	"rental_type.oneof":        "Please choose a rental type",
	"first_rental_year.min":    fmt.Sprintf("First rental year cannot be before %d", MinFirstRentalYear),
	"monthly_rent.gt":          "Please enter your monthly rent",
	"months_rented.min":        "Minimum 1 month",
	"months_rented.max":        "Maximum 12 months",
	"full_name.min":            "Please enter your full name",
	"email.email":              "Please enter a valid email address",
	"phone.min":                "Please enter a valid phone number",
	"country_of_residence.min": "Please enter your country of residence",
	"checkbox_confirm.eq":      "You must confirm the information is accurate",
	"property_manager_fee.gte": "Must be 0 or more",
	"mortgage_interest.gte":    "Must be 0 or more",
	"property_tax.gte":         "Must be 0 or more",
	"condo_fees.gte":           "Must be 0 or more",
	"repairs.gte":              "Must be 0 or more",
	"insurance.gte":            "Must be 0 or more",
	"other_expenses.gte":       "Must be 0 or more",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// check runs the struct tags and translates failures into field messages.
func check(in any) *ValidationError {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve *ValidationError
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return ve.add("_", err.Error())
	}
	for _, fe := range errs {
		msg, found := messages[fe.Field()+"."+fe.Tag()]
		if !found {
			msg = fmt.Sprintf("failed %s validation", fe.Tag())
		}
		ve = ve.add(fe.Field(), msg)
	}
	return ve
}
