package handler

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nr6/internal/csvexport"
	"nr6/internal/domain"
	"nr6/internal/service"
	"nr6/internal/xlsxexport"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminHandler serves the back-office tables, edits and exports.
type AdminHandler struct {
	admin service.AdminService
	now   func() time.Time
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(admin service.AdminService) *AdminHandler {
	return &AdminHandler{admin: admin, now: time.Now}
}

func parseID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// ListFilings handles GET /api/v1/admin/filings. Optional ?status= filters.
// @Summary List filings
// @Description Lists intake filings newest first, optionally filtered by status
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status (new, paid, in_progress, submitted, done)"
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(50)
// @Success 200 {object} APIResponse{data=[]domain.Filing,meta=PagMeta}
// @Failure 400 {object} APIResponse "Invalid status"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /admin/filings [get]
func (h *AdminHandler) ListFilings(c *gin.Context) {
	filings, err := h.admin.ListFilings(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	if status := c.Query("status"); status != "" {
		kept := filings[:0:0]
		for i := range filings {
			if string(filings[i].Status) == status {
				kept = append(kept, filings[i])
			}
		}
		filings = kept
	}

	offset, limit := parsePagination(c)
	RespondPaginated(c, page(filings, offset, limit), PagMeta{Total: len(filings), Offset: offset, Limit: limit})
}

// GetFiling handles GET /api/v1/admin/filings/:id
// @Summary Get a filing
// @Tags admin
// @Produce json
// @Param id path string true "Filing ID"
// @Success 200 {object} APIResponse{data=domain.Filing}
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Filing not found"
// @Security BearerAuth
// @Router /admin/filings/{id} [get]
func (h *AdminHandler) GetFiling(c *gin.Context) {
	id, ok := parseID(c, "filing")
	if !ok {
		return
	}
	filing, err := h.admin.GetFiling(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, filing)
}

// UpdateFilingStatus handles PATCH /api/v1/admin/filings/:id/status
// @Summary Update filing status
// @Description Changes the workflow status and emails the customer when it changes
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Filing ID"
// @Param request body service.StatusInput true "New status"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid status"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Filing not found"
// @Security BearerAuth
// @Router /admin/filings/{id}/status [patch]
func (h *AdminHandler) UpdateFilingStatus(c *gin.Context) {
	id, ok := parseID(c, "filing")
	if !ok {
		return
	}
	var input service.StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.admin.UpdateFilingStatus(c.Request.Context(), id, domain.FilingStatus(input.Status)); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id, "status": input.Status})
}

// UpdateFilingNotes handles PATCH /api/v1/admin/filings/:id/notes
// @Summary Update filing notes
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Filing ID"
// @Param request body service.NotesInput true "Internal notes"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Filing not found"
// @Security BearerAuth
// @Router /admin/filings/{id}/notes [patch]
func (h *AdminHandler) UpdateFilingNotes(c *gin.Context) {
	id, ok := parseID(c, "filing")
	if !ok {
		return
	}
	var input service.NotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.admin.UpdateFilingNotes(c.Request.Context(), id, input.Notes); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id})
}

// Attachment handles GET /api/v1/admin/filings/:id/attachment. It returns a
// short-lived download URL.
// @Summary Get attachment download URL
// @Tags admin
// @Produce json
// @Param id path string true "Filing ID"
// @Success 200 {object} APIResponse{data=map[string]string}
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Filing or attachment not found"
// @Security BearerAuth
// @Router /admin/filings/{id}/attachment [get]
func (h *AdminHandler) Attachment(c *gin.Context) {
	id, ok := parseID(c, "filing")
	if !ok {
		return
	}
	url, err := h.admin.AttachmentURL(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"url": url})
}

// ListContacts handles GET /api/v1/admin/contacts
// @Summary List contact submissions
// @Tags admin
// @Produce json
// @Param offset query int false "Pagination offset" default(0)
// @Param limit query int false "Pagination limit" default(50)
// @Success 200 {object} APIResponse{data=[]domain.ContactSubmission,meta=PagMeta}
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /admin/contacts [get]
func (h *AdminHandler) ListContacts(c *gin.Context) {
	contacts, err := h.admin.ListContacts(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	offset, limit := parsePagination(c)
	RespondPaginated(c, page(contacts, offset, limit), PagMeta{Total: len(contacts), Offset: offset, Limit: limit})
}

// GetContact handles GET /api/v1/admin/contacts/:id
// @Summary Get a contact submission
// @Tags admin
// @Produce json
// @Param id path string true "Contact submission ID"
// @Success 200 {object} APIResponse{data=domain.ContactSubmission}
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Contact not found"
// @Security BearerAuth
// @Router /admin/contacts/{id} [get]
func (h *AdminHandler) GetContact(c *gin.Context) {
	id, ok := parseID(c, "contact")
	if !ok {
		return
	}
	contact, err := h.admin.GetContact(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, contact)
}

// UpdateContactStatus handles PATCH /api/v1/admin/contacts/:id/status
// @Summary Update contact status
// @Description Setting replied or resolved marks the submission as replied
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Contact submission ID"
// @Param request body service.StatusInput true "New status"
// @Success 200 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid status"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Contact not found"
// @Security BearerAuth
// @Router /admin/contacts/{id}/status [patch]
func (h *AdminHandler) UpdateContactStatus(c *gin.Context) {
	id, ok := parseID(c, "contact")
	if !ok {
		return
	}
	var input service.StatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.admin.UpdateContactStatus(c.Request.Context(), id, domain.ContactStatus(input.Status)); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id, "status": input.Status})
}

// UpdateContactNotes handles PATCH /api/v1/admin/contacts/:id/notes
// @Summary Update contact notes
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Contact submission ID"
// @Param request body service.NotesInput true "Internal notes"
// @Success 200 {object} APIResponse
// @Failure 401 {object} APIResponse "Unauthorized"
// @Failure 404 {object} APIResponse "Contact not found"
// @Security BearerAuth
// @Router /admin/contacts/{id}/notes [patch]
func (h *AdminHandler) UpdateContactNotes(c *gin.Context) {
	id, ok := parseID(c, "contact")
	if !ok {
		return
	}
	var input service.NotesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	if err := h.admin.UpdateContactNotes(c.Request.Context(), id, input.Notes); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"id": id})
}

// Stats handles GET /api/v1/admin/stats
// @Summary Dashboard counters
// @Tags admin
// @Produce json
// @Success 200 {object} APIResponse{data=service.DashboardStats}
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.admin.Stats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// ExportCSV handles GET /api/v1/admin/filings/export.csv
// @Summary Export filings as CSV
// @Tags admin
// @Produce text/csv
// @Success 200 {file} file "CSV download"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /admin/filings/export.csv [get]
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	h.export(c, "text/csv; charset=utf-8", csvexport.BuildFilename(h.now()), csvexport.Export)
}

// ExportXLSX handles GET /api/v1/admin/filings/export.xlsx
// @Summary Export filings as XLSX
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file "Workbook download"
// @Failure 401 {object} APIResponse "Unauthorized"
// @Security BearerAuth
// @Router /admin/filings/export.xlsx [get]
func (h *AdminHandler) ExportXLSX(c *gin.Context) {
	h.export(c, xlsxContentType, xlsxexport.BuildFilename(h.now()), xlsxexport.Write)
}

// export renders the whole document before writing so a failure can still
// be reported with an error status.
func (h *AdminHandler) export(c *gin.Context, contentType, filename string, render func(io.Writer, []domain.Filing) error) {
	filings, err := h.admin.ListFilings(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := render(&buf, filings); err != nil {
		HandleError(c, fmt.Errorf("rendering export: %w", err))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
