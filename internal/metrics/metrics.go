// Package metrics declares the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	DocumentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_documents_total",
			Help: "Documents posted to the ledger by doc type.",
		},
		[]string{"doc_type"},
	)

	PaymentsAppliedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_payments_applied_total",
		Help: "Payment applications against receivable entries.",
	})

	PaymentAmountTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_payment_amount_total",
		Help: "Sum of money applied to receivable entries.",
	})

	VoidsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_voids_total",
		Help: "Entries reversed by void.",
	})

	EventPublishFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_events_publish_failures_total",
			Help: "Domain events that could not be published.",
		},
		[]string{"topic"},
	)
)
