package obs

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	countRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catcount_requests_total",
			Help: "Count requests by final state",
		},
		[]string{"outcome"},
	)

	countDispatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "catcount_dispatch_duration_seconds",
			Help:    "Time from dispatch to backend completion",
			Buckets: prometheus.DefBuckets,
		},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catcount_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "catcount_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// RecordCount counts one finished count request
func RecordCount(outcome string) {
	countRequestsTotal.WithLabelValues(outcome).Inc()
}

// ObserveDispatch records how long a dispatch took
func ObserveDispatch(d time.Duration) {
	countDispatchDuration.Observe(d.Seconds())
}

// RecordHTTPRequest records one served HTTP request
func RecordHTTPRequest(method, route, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
