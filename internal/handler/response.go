package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nr6/internal/domain"
	"nr6/internal/wizard"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response. Details carries per-field
// messages for validation failures.
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrFilingNotFound):
		return http.StatusNotFound, "FILING_NOT_FOUND", "filing not found"
	case errors.Is(err, domain.ErrContactNotFound):
		return http.StatusNotFound, "CONTACT_NOT_FOUND", "contact submission not found"
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, "SESSION_NOT_FOUND", "wizard session not found; start a new one"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUserInactive):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid credentials"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size of 10 MB"
	case errors.Is(err, domain.ErrStepMismatch):
		return http.StatusConflict, "STEP_MISMATCH", "input does not belong to the current wizard step"
	case errors.Is(err, domain.ErrWizardIncomplete):
		return http.StatusConflict, "WIZARD_INCOMPLETE", "complete all steps before submitting"
	case errors.Is(err, domain.ErrAcknowledgementRequired):
		return http.StatusBadRequest, "ACKNOWLEDGEMENT_REQUIRED", "please confirm the information is accurate"
	case errors.Is(err, domain.ErrFilingAlreadyPaid):
		return http.StatusConflict, "ALREADY_PAID", "this filing has already been paid"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "INVALID_STATUS", "invalid status value"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", "required fields are missing or empty"
	case errors.Is(err, domain.ErrWebhookSignatureMissing):
		return http.StatusBadRequest, "MISSING_SIGNATURE", "Missing signature"
	case errors.Is(err, domain.ErrWebhookSignature):
		return http.StatusBadRequest, "INVALID_SIGNATURE", "Invalid signature"
	case errors.Is(err, domain.ErrPaymentUnavailable):
		return http.StatusBadGateway, "PAYMENT_UNAVAILABLE", "payment provider is unavailable, please try again"
	case errors.Is(err, domain.ErrSubmissionFailed):
		return http.StatusServiceUnavailable, "SUBMISSION_FAILED", domain.ErrSubmissionFailed.Error()
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Step validation failures are reported as 422 with one message per field.
func HandleError(c *gin.Context, err error) {
	var ve *wizard.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, APIResponse{
			Success: false,
			Error: &APIError{
				Code:    "VALIDATION_ERROR",
				Message: "please correct the highlighted fields",
				Details: ve.Messages(),
			},
		})
		return
	}

	status, code, msg := MapDomainError(err)
	if status >= 500 {
		zap.L().Error("internal error",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	RespondError(c, status, code, msg)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// page slices a loaded list for a paginated response.
func page[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
