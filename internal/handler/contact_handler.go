package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nr6/internal/service"
)

// ContactHandler accepts the public contact form.
type ContactHandler struct {
	contacts service.ContactService
}

// NewContactHandler creates a new ContactHandler.
func NewContactHandler(contacts service.ContactService) *ContactHandler {
	return &ContactHandler{contacts: contacts}
}

// Submit handles POST /api/v1/contact
// @Summary Send a contact message
// @Tags contact
// @Accept json
// @Produce json
// @Param request body service.ContactInput true "Contact form"
// @Success 201 {object} APIResponse
// @Failure 400 {object} APIResponse "Invalid request"
// @Failure 429 {object} APIResponse "Rate limited"
// @Router /contact [post]
func (h *ContactHandler) Submit(c *gin.Context) {
	var input service.ContactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	submission, err := h.contacts.Submit(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, gin.H{"id": submission.ID, "message": "Thanks, we will get back to you shortly."})
}
