package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gashawk_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	HTTPLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gashawk_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
	}, []string{"method", "endpoint"})

	Screens = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gashawk_frame_screens_total",
		Help: "Screens emitted by the interaction flow, by state",
	}, []string{"state"})

	upstreamLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "gashawk_upstream_duration_seconds",
		Help:    "Latency of calls to external services",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"upstream", "outcome"})
)

// ObserveUpstream records one external call. Use it with defer and a
// pointer to the named error result.
func ObserveUpstream(upstream string, start time.Time, err *error) {
	outcome := "ok"
	if err != nil && *err != nil {
		outcome = "error"
	}
	upstreamLatency.WithLabelValues(upstream, outcome).Observe(time.Since(start).Seconds())
}

// CountRequest increments the request counter for one response.
func CountRequest(method, endpoint string, code int) {
	HTTPRequests.WithLabelValues(method, endpoint, strconv.Itoa(code)).Inc()
}
