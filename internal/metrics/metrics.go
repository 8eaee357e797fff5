// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nr6_http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nr6_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Submissions counts intake submissions by result: stored, failed, rejected.
	Submissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nr6_submissions_total",
			Help: "Intake submissions by result.",
		},
		[]string{"result"},
	)

	// Webhooks counts payment callbacks by result: handled, rejected, failed.
	Webhooks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nr6_payment_webhooks_total",
			Help: "Payment provider callbacks by result.",
		},
		[]string{"result"},
	)

	// LiveViews is the number of open admin event streams.
	LiveViews = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nr6_admin_live_views",
		Help: "Open admin event streams.",
	})
)

// ObserveRequest records one finished HTTP request. path is the route
// template, never the raw URL, to keep label cardinality bounded.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	if path == "" {
		path = "unmatched"
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
