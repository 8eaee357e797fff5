package domain

// FileType represents the allowed attachment types.
type FileType string

const (
	FileTypePDF FileType = "pdf"
	FileTypeJPG FileType = "jpg"
	FileTypePNG FileType = "png"
)

// AllowedFileTypes maps FileType to its canonical MIME content type.
var AllowedFileTypes = map[FileType]string{
	FileTypePDF: "application/pdf",
	FileTypeJPG: "image/jpeg",
	FileTypePNG: "image/png",
}

// AllowedContentTypes maps MIME content types back to FileType.
// image/jpg is a non-standard alias some browsers still send.
var AllowedContentTypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"image/jpeg":      FileTypeJPG,
	"image/jpg":       FileTypeJPG,
	"image/png":       FileTypePNG,
}

// MaxAttachmentBytes is the largest supporting document accepted by the wizard.
const MaxAttachmentBytes int64 = 10 * 1024 * 1024

// RentalType is the rental category of a property.
type RentalType string

const (
	RentalTypeLongTerm  RentalType = "long_term"
	RentalTypeShortTerm RentalType = "short_term"
)

// Label returns the human-readable rental category.
func (r RentalType) Label() string {
	if r == RentalTypeShortTerm {
		return "Short-term / Airbnb"
	}
	return "Long-term"
}

// FilingStatus is the back-office workflow status of a filing.
type FilingStatus string

const (
	FilingStatusNew        FilingStatus = "new"
	FilingStatusPaid       FilingStatus = "paid"
	FilingStatusInProgress FilingStatus = "in_progress"
	FilingStatusSubmitted  FilingStatus = "submitted"
	FilingStatusDone       FilingStatus = "done"
)

// ValidFilingStatuses lists every workflow status in lifecycle order.
var ValidFilingStatuses = []FilingStatus{
	FilingStatusNew,
	FilingStatusPaid,
	FilingStatusInProgress,
	FilingStatusSubmitted,
	FilingStatusDone,
}

// IsValid reports whether s is a known workflow status.
func (s FilingStatus) IsValid() bool {
	for _, v := range ValidFilingStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ContactStatus is the triage status of a contact-form submission.
type ContactStatus string

const (
	ContactStatusNew      ContactStatus = "new"
	ContactStatusReplied  ContactStatus = "replied"
	ContactStatusResolved ContactStatus = "resolved"
)

// IsValid reports whether s is a known contact status.
func (s ContactStatus) IsValid() bool {
	switch s {
	case ContactStatusNew, ContactStatusReplied, ContactStatusResolved:
		return true
	}
	return false
}

// NotificationKind identifies an outbound notification template.
type NotificationKind string

const (
	NotificationCustomerConfirmation NotificationKind = "customer_confirmation"
	NotificationAdminNotification    NotificationKind = "admin_notification"
	NotificationStatusUpdate         NotificationKind = "status_update"
	NotificationContactReceived      NotificationKind = "contact_received"
)

// Topic names a live-subscription collection.
type Topic string

const (
	TopicFilings  Topic = "filings"
	TopicContacts Topic = "contacts"
)
