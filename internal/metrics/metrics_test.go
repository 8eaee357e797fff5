package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/orders/:reference", "200"))

	ObserveRequest("GET", "/api/v1/orders/:reference", http.StatusOK, 5*time.Millisecond)

	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/v1/orders/:reference", "200"))
	assert.Equal(t, before+1, after)
}

func TestObserveRequest_Unmatched(t *testing.T) {
	ObserveRequest("GET", "", http.StatusNotFound, time.Millisecond)
	assert.Equal(t, 1.0, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))
}

func TestHandler(t *testing.T) {
	Submissions.WithLabelValues("stored").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `nr6_submissions_total{result="stored"}`)
}
