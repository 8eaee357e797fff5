package domain

import "errors"

var (
	ErrNotFound                = errors.New("resource not found")
	ErrUnauthorized            = errors.New("unauthorized")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrUserInactive            = errors.New("user is inactive")
	ErrUnsupportedFileType     = errors.New("unsupported file type")
	ErrFileTooLarge            = errors.New("file exceeds maximum allowed size")
	ErrUploadFailed            = errors.New("file upload to storage failed")
	ErrDuplicateEmail          = errors.New("email already exists")
	ErrFilingNotFound          = errors.New("filing not found")
	ErrContactNotFound         = errors.New("contact submission not found")
	ErrInvalidStatus           = errors.New("invalid status")
	ErrInvalidInput            = errors.New("invalid input")
	ErrSessionNotFound         = errors.New("wizard session not found")
	ErrStepMismatch            = errors.New("input does not belong to the current wizard step")
	ErrWizardIncomplete        = errors.New("wizard has not reached the payment step")
	ErrAcknowledgementRequired = errors.New("acknowledgement must be confirmed before submission")
	ErrSubmissionFailed        = errors.New("unable to process your submission, please try again")
	ErrDraftNotFound           = errors.New("draft not found")
	ErrPaymentUnavailable      = errors.New("payment provider unavailable")
	ErrFilingAlreadyPaid       = errors.New("filing has already been paid")
	ErrWebhookSignature        = errors.New("invalid webhook signature")
	ErrWebhookSignatureMissing = errors.New("missing webhook signature")
	ErrInvariantViolated       = errors.New("savings invariant violated")
)
