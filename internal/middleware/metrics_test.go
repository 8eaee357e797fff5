package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"nr6/internal/metrics"
	"nr6/internal/middleware"
)

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Metrics())
	r.GET("/orders/:reference", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, _ := http.NewRequest(http.MethodGet, "/orders/ABC123", http.NoBody)
	r.ServeHTTP(httptest.NewRecorder(), req)

	scrape := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	body := scrape.Body.String()
	assert.Contains(t, body, `path="/orders/:reference"`)
	assert.NotContains(t, body, "ABC123")
}
