package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"nr6/internal/domain"
	"nr6/internal/metrics"
	"nr6/internal/service"
)

const (
	// SessionCookie carries the wizard session id for browser clients.
	SessionCookie = "nr6_session"
	// SessionHeader carries the wizard session id for API clients.
	SessionHeader = "X-Wizard-Session"

	multipartOverhead = 1 << 20
	maxStepBodyBytes  = 64 << 10
)

// WizardHandler drives the five-step intake wizard.
type WizardHandler struct {
	wizards      service.WizardService
	intake       service.IntakeService
	cookieTTL    time.Duration
	secureCookie bool
}

// NewWizardHandler creates a new WizardHandler.
func NewWizardHandler(wizards service.WizardService, intake service.IntakeService, cookieTTL time.Duration, secureCookie bool) *WizardHandler {
	return &WizardHandler{wizards: wizards, intake: intake, cookieTTL: cookieTTL, secureCookie: secureCookie}
}

// sessionID reads the wizard session from the header, falling back to the cookie.
func sessionID(c *gin.Context) string {
	if id := c.GetHeader(SessionHeader); id != "" {
		return id
	}
	id, _ := c.Cookie(SessionCookie)
	return id
}

func (h *WizardHandler) bindSession(c *gin.Context, id string) {
	c.Header(SessionHeader, id)
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, id, int(h.cookieTTL.Seconds()), "/", "", h.secureCookie, true)
}

func (h *WizardHandler) respondState(c *gin.Context, st *service.WizardState, err error) {
	if err != nil {
		HandleError(c, err)
		return
	}
	h.bindSession(c, st.SessionID)
	RespondOK(c, st)
}

// Start handles POST /api/v1/wizard. An existing session is resumed with its
// draft; otherwise a fresh one is created.
// @Summary Start or resume the wizard
// @Tags wizard
// @Produce json
// @Param X-Wizard-Session header string false "Existing session ID"
// @Success 200 {object} APIResponse{data=service.WizardState} "Resumed"
// @Success 201 {object} APIResponse{data=service.WizardState} "Started"
// @Router /wizard [post]
func (h *WizardHandler) Start(c *gin.Context) {
	if id := sessionID(c); id != "" {
		st, err := h.wizards.Resume(c.Request.Context(), id)
		if err == nil {
			h.respondState(c, st, nil)
			return
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			HandleError(c, err)
			return
		}
	}

	st, err := h.wizards.Start(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	h.bindSession(c, st.SessionID)
	RespondCreated(c, st)
}

// Get handles GET /api/v1/wizard
// @Summary Current wizard state
// @Tags wizard
// @Produce json
// @Param X-Wizard-Session header string false "Session ID"
// @Success 200 {object} APIResponse{data=service.WizardState}
// @Failure 404 {object} APIResponse "Session not found"
// @Router /wizard [get]
func (h *WizardHandler) Get(c *gin.Context) {
	st, err := h.wizards.Resume(c.Request.Context(), sessionID(c))
	h.respondState(c, st, err)
}

// Next handles POST /api/v1/wizard/next. The body is the current step's fields.
// @Summary Validate step and advance
// @Tags wizard
// @Accept json
// @Produce json
// @Param X-Wizard-Session header string false "Session ID"
// @Param request body object true "Fields of the current step"
// @Success 200 {object} APIResponse{data=service.WizardState}
// @Failure 404 {object} APIResponse "Session not found"
// @Failure 413 {object} APIResponse "Body too large"
// @Failure 422 {object} APIResponse "Validation errors per field"
// @Router /wizard/next [post]
func (h *WizardHandler) Next(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxStepBodyBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body too large")
			return
		}
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read request body")
		return
	}
	st, err := h.wizards.Next(c.Request.Context(), sessionID(c), raw)
	h.respondState(c, st, err)
}

// Prev handles POST /api/v1/wizard/prev
// @Summary Go back one step
// @Tags wizard
// @Produce json
// @Param X-Wizard-Session header string false "Session ID"
// @Success 200 {object} APIResponse{data=service.WizardState}
// @Failure 404 {object} APIResponse "Session not found"
// @Router /wizard/prev [post]
func (h *WizardHandler) Prev(c *gin.Context) {
	st, err := h.wizards.Prev(c.Request.Context(), sessionID(c))
	h.respondState(c, st, err)
}

// Attach handles POST /api/v1/wizard/attachment (multipart field "file").
// @Summary Attach a supporting document
// @Tags wizard
// @Accept multipart/form-data
// @Produce json
// @Param X-Wizard-Session header string false "Session ID"
// @Param file formData file true "PDF, JPEG or PNG"
// @Success 200 {object} APIResponse{data=service.WizardState}
// @Failure 400 {object} APIResponse "Unsupported file type"
// @Failure 413 {object} APIResponse "File too large"
// @Router /wizard/attachment [post]
func (h *WizardHandler) Attach(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, domain.MaxAttachmentBytes+multipartOverhead)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file is required in 'file' field")
		return
	}
	if fh.Size > domain.MaxAttachmentBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "FILE_READ_ERROR", "failed to read uploaded file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxAttachmentBytes+1))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "FILE_READ_ERROR", "failed to read uploaded file")
		return
	}

	st, err := h.wizards.Attach(c.Request.Context(), sessionID(c), service.AttachInput{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	})
	h.respondState(c, st, err)
}

// Detach handles DELETE /api/v1/wizard/attachment
// @Summary Remove the attachment
// @Tags wizard
// @Produce json
// @Param X-Wizard-Session header string false "Session ID"
// @Success 200 {object} APIResponse{data=service.WizardState}
// @Failure 404 {object} APIResponse "Session not found"
// @Router /wizard/attachment [delete]
func (h *WizardHandler) Detach(c *gin.Context) {
	st, err := h.wizards.Detach(c.Request.Context(), sessionID(c))
	h.respondState(c, st, err)
}

// Reset handles DELETE /api/v1/wizard
// @Summary Discard the wizard session
// @Tags wizard
// @Param X-Wizard-Session header string false "Session ID"
// @Success 200 {object} APIResponse
// @Router /wizard [delete]
func (h *WizardHandler) Reset(c *gin.Context) {
	st, err := h.wizards.Reset(c.Request.Context(), sessionID(c))
	h.respondState(c, st, err)
}

// Submit handles POST /api/v1/wizard/submit. The response carries the
// checkout URL the client redirects to.
// @Summary Submit the filing
// @Description Stores the filing and returns the checkout URL
// @Tags wizard
// @Produce json
// @Param X-Wizard-Session header string false "Session ID"
// @Success 201 {object} APIResponse{data=service.SubmitResult}
// @Failure 400 {object} APIResponse "Acknowledgement required"
// @Failure 409 {object} APIResponse "Wizard incomplete"
// @Failure 429 {object} APIResponse "Rate limited"
// @Failure 503 {object} APIResponse "Submission failed"
// @Router /wizard/submit [post]
func (h *WizardHandler) Submit(c *gin.Context) {
	result, err := h.intake.Submit(c.Request.Context(), sessionID(c))
	if err != nil {
		if errors.Is(err, domain.ErrSubmissionFailed) {
			metrics.Submissions.WithLabelValues("failed").Inc()
		} else {
			metrics.Submissions.WithLabelValues("rejected").Inc()
		}
		HandleError(c, err)
		return
	}
	metrics.Submissions.WithLabelValues("stored").Inc()
	RespondCreated(c, result)
}
