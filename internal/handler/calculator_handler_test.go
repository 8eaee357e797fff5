package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nr6/internal/handler"
)

func TestCalculatorHandler_Quote(t *testing.T) {
	h := handler.NewCalculatorHandler(399)
	body := []byte(`{"monthly_rent":2500,"months_rented":12,"mortgage_interest":12000,"property_tax":3000,"property_manager_fee":600}`)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/calculator", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Quote(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 30000.0, resp.Data["gross"])
	assert.Equal(t, 3900.0, resp.Data["estimated_savings"])
	assert.Equal(t, 399.0, resp.Data["service_fee"])
	assert.Equal(t, true, resp.Data["pays_for_itself"])
}

func TestCalculatorHandler_RejectsNegative(t *testing.T) {
	h := handler.NewCalculatorHandler(399)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/calculator", bytes.NewReader([]byte(`{"monthly_rent":-5}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Quote(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
