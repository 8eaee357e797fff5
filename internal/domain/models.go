package domain

import (
	"time"

	"github.com/google/uuid"
)

// FilingData is the record collected by the intake wizard. Every numeric field
// carries a zero default, so consumers never have to guard against unset values.
type FilingData struct {
	// Step 1 - property
	PropertyAddress     string     `db:"property_address" json:"property_address"`
	OwnershipPercentage int        `db:"ownership_percentage" json:"ownership_percentage"`
	RentalType          RentalType `db:"rental_type" json:"rental_type"`
	FirstRentalYear     int        `db:"first_rental_year" json:"first_rental_year"`

	// Step 2 - income
	MonthlyRent        float64 `db:"monthly_rent" json:"monthly_rent"`
	MonthsRented       int     `db:"months_rented" json:"months_rented"`
	PropertyManagerFee float64 `db:"property_manager_fee" json:"property_manager_fee"`

	// Step 3 - expenses
	MortgageInterest float64 `db:"mortgage_interest" json:"mortgage_interest"`
	PropertyTax      float64 `db:"property_tax" json:"property_tax"`
	CondoFees        float64 `db:"condo_fees" json:"condo_fees"`
	Repairs          float64 `db:"repairs" json:"repairs"`
	Insurance        float64 `db:"insurance" json:"insurance"`
	OtherExpenses    float64 `db:"other_expenses" json:"other_expenses"`

	// Step 4 - contact
	FullName           string `db:"full_name" json:"full_name"`
	Email              string `db:"email" json:"email"`
	Phone              string `db:"phone" json:"phone"`
	CountryOfResidence string `db:"country_of_residence" json:"country_of_residence"`
	CheckboxConfirm    bool   `db:"checkbox_confirm" json:"checkbox_confirm"`
}

// NewFilingData returns a record with the wizard defaults applied.
func NewFilingData(now time.Time) FilingData {
	return FilingData{
		OwnershipPercentage: 100,
		RentalType:          RentalTypeLongTerm,
		FirstRentalYear:     now.Year(),
		MonthsRented:        12,
	}
}

// Savings holds the values derived from a FilingData. They are never user-entered.
type Savings struct {
	Gross              float64 `db:"gross" json:"gross"`
	ExpensesTotal      float64 `db:"expenses_total" json:"expenses_total"`
	Net                float64 `db:"net" json:"net"`
	WithholdingDefault float64 `db:"withholding_default" json:"withholding_default"`
	WithholdingReduced float64 `db:"withholding_reduced" json:"withholding_reduced"`
	EstimatedSavings   float64 `db:"estimated_savings" json:"estimated_savings"`
}

// Filing is a finalized, persisted intake record.
type Filing struct {
	ID uuid.UUID `db:"id" json:"id"`
	FilingData
	Savings
	Status          FilingStatus `db:"status" json:"status"`
	StripePaymentID string       `db:"stripe_payment_id" json:"stripe_payment_id"`
	Paid            bool         `db:"paid" json:"paid"`
	Notes           string       `db:"notes" json:"notes"`
	FileURL         *string      `db:"file_url" json:"file_url"`
	FileKey         *string      `db:"file_key" json:"-"`
	CreatedAt       time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time    `db:"updated_at" json:"updated_at"`
}

// ContactSubmission is a message sent through the public contact form.
type ContactSubmission struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Name      string        `db:"name" json:"name"`
	Email     string        `db:"email" json:"email"`
	Subject   string        `db:"subject" json:"subject"`
	Message   string        `db:"message" json:"message"`
	Status    ContactStatus `db:"status" json:"status"`
	Replied   bool          `db:"replied" json:"replied"`
	Notes     string        `db:"notes" json:"notes"`
	CreatedAt time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// AdminUser is a back-office account allowed to open the admin view.
type AdminUser struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// NotificationData is the structured payload rendered into a notification.
type NotificationData struct {
	OrderID          string   `json:"order_id"`
	CustomerName     string   `json:"customer_name"`
	PropertyAddress  string   `json:"property_address"`
	EstimatedSavings *float64 `json:"estimated_savings,omitempty"`
	Status           string   `json:"status,omitempty"`
	Email            string   `json:"email,omitempty"`
	Subject          string   `json:"subject,omitempty"`
	Message          string   `json:"message,omitempty"`
}

// Notification is one outbound message to a single recipient.
type Notification struct {
	Kind NotificationKind `json:"kind"`
	To   string           `json:"to"`
	Data NotificationData `json:"data"`
}

// Event announces that a live-subscription collection changed.
type Event struct {
	Topic Topic     `json:"topic"`
	ID    uuid.UUID `json:"id"`
}
