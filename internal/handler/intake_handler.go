package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"nr6/internal/service"
)

// OrderHandler serves checkout retries and the success page lookup.
type OrderHandler struct {
	intake service.IntakeService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(intake service.IntakeService) *OrderHandler {
	return &OrderHandler{intake: intake}
}

// Checkout handles POST /api/v1/filings/:id/checkout
// @Summary Retry checkout
// @Description Creates a new checkout session for an unpaid filing
// @Tags orders
// @Produce json
// @Param id path string true "Filing ID"
// @Success 200 {object} APIResponse{data=map[string]string}
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Filing not found"
// @Failure 409 {object} APIResponse "Already paid"
// @Failure 502 {object} APIResponse "Payment provider unavailable"
// @Router /filings/{id}/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid filing ID")
		return
	}

	result, err := h.intake.Checkout(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// Order handles GET /api/v1/orders/:reference
// @Summary Order confirmation
// @Tags orders
// @Produce json
// @Param reference path string true "Checkout reference"
// @Success 200 {object} APIResponse{data=service.OrderInfo}
// @Failure 404 {object} APIResponse "Order not found"
// @Router /orders/{reference} [get]
func (h *OrderHandler) Order(c *gin.Context) {
	info, err := h.intake.Order(c.Request.Context(), c.Param("reference"))
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, info)
}
