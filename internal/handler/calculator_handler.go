package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nr6/internal/calculator"
)

// CalculatorHandler serves the public savings estimate.
type CalculatorHandler struct {
	serviceFee float64
}

// NewCalculatorHandler creates a new CalculatorHandler.
func NewCalculatorHandler(serviceFee float64) *CalculatorHandler {
	return &CalculatorHandler{serviceFee: serviceFee}
}

// Quote handles POST /api/v1/calculator
// @Summary Savings quote
// @Description Computes withholding on gross and net rent and the savings from filing
// @Tags calculator
// @Accept json
// @Produce json
// @Param request body calculator.QuoteInput true "Rent and expenses"
// @Success 200 {object} APIResponse{data=calculator.Quote}
// @Failure 400 {object} APIResponse "Invalid request"
// @Router /calculator [post]
func (h *CalculatorHandler) Quote(c *gin.Context) {
	var input calculator.QuoteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	RespondOK(c, calculator.NewQuote(input, h.serviceFee))
}
