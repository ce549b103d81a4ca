// Package metrics holds the Prometheus collectors for booking, payment and
// notification activity. All collectors register on the default registry.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AppointmentsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointments_created_total",
			Help: "Appointments submitted, by appointment mode.",
		},
		[]string{"mode"},
	)

	// outcome is one of transitioned, unchanged, conflict, not_found, ignored, error
	WebhookReconciliations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhook_reconciliations_total",
			Help: "Payment webhook deliveries by reconciliation outcome.",
		},
		[]string{"outcome"},
	)

	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification dispatch attempts by kind and result.",
		},
		[]string{"kind", "result"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, AppointmentsCreated, WebhookReconciliations, NotificationsSent)
}
