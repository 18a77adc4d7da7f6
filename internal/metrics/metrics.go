// Package metrics provides Prometheus metrics for the marketplace client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds the client collectors; it is served on the callback listener.
var Registry = prometheus.NewRegistry()

var (
	// APIRequests counts REST calls by route template and outcome.
	APIRequests = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "naafe_api_requests_total",
			Help: "Total number of REST requests issued",
		},
		[]string{"route", "outcome"},
	)

	// APIRequestDuration tracks REST call latency.
	APIRequestDuration = promauto.With(Registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "naafe_api_request_duration_seconds",
			Help:    "Duration of REST requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// SocketEvents counts inbound socket frames by event name.
	SocketEvents = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "naafe_socket_events_total",
			Help: "Total number of socket events received",
		},
		[]string{"event"},
	)

	// SocketConnected is 1 while the realtime channel is up.
	SocketConnected = promauto.With(Registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "naafe_socket_connected",
			Help: "Whether the realtime channel is connected",
		},
	)

	// StatusChecks counts service/payment status reconciliations.
	StatusChecks = promauto.With(Registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "naafe_status_checks_total",
			Help: "Total number of offer status checks by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordAPIRequest records one REST call.
func RecordAPIRequest(route, outcome string, seconds float64) {
	APIRequests.WithLabelValues(route, outcome).Inc()
	APIRequestDuration.WithLabelValues(route).Observe(seconds)
}

// RecordStatusCheck records one status reconciliation.
func RecordStatusCheck(outcome string) {
	StatusChecks.WithLabelValues(outcome).Inc()
}
