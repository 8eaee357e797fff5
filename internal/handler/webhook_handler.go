package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"nr6/internal/domain"
	"nr6/internal/metrics"
	"nr6/internal/service"
)

const maxWebhookBytes = 64 << 10

// WebhookHandler receives payment provider callbacks.
type WebhookHandler struct {
	payments service.PaymentService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(payments service.PaymentService) *WebhookHandler {
	return &WebhookHandler{payments: payments}
}

// Stripe handles POST /api/v1/webhooks/stripe. The raw body is needed for the
// signature check, so it is read before any binding.
// @Summary Stripe webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Stripe signature"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} APIResponse "Missing or invalid signature"
// @Router /webhooks/stripe [post]
func (h *WebhookHandler) Stripe(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBytes))
	if err != nil {
		metrics.Webhooks.WithLabelValues("rejected").Inc()
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "failed to read request body")
		return
	}

	if err := h.payments.HandleWebhook(c.Request.Context(), payload, c.GetHeader("Stripe-Signature")); err != nil {
		if errors.Is(err, domain.ErrWebhookSignature) || errors.Is(err, domain.ErrWebhookSignatureMissing) {
			metrics.Webhooks.WithLabelValues("rejected").Inc()
		} else {
			metrics.Webhooks.WithLabelValues("failed").Inc()
		}
		HandleError(c, err)
		return
	}

	metrics.Webhooks.WithLabelValues("handled").Inc()
	c.JSON(http.StatusOK, gin.H{"received": true})
}
