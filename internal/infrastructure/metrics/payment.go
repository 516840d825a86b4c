package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels
const (
	OutcomeSuccess          = "success"
	OutcomeProviderRejected = "provider_rejected"
	OutcomeTransportFailed  = "transport_failed"
	OutcomeIntegrityError   = "integrity_violation"
	OutcomeInProgress       = "in_progress"
	OutcomeError            = "error"
)

// PaymentMetrics groups the payment collectors
type PaymentMetrics struct {
	paymentsInitiated *prometheus.CounterVec
	refunds           *prometheus.CounterVec
	queries           *prometheus.CounterVec
	integrityErrors   *prometheus.CounterVec
	gatewayDuration   *prometheus.HistogramVec
}

// NewPaymentMetrics registers the collectors on reg.
// Pass prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	factory := promauto.With(reg)

	return &PaymentMetrics{
		paymentsInitiated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "payment",
				Subsystem: "gateway",
				Name:      "payments_initiated_total",
				Help:      "Total number of payment initiations",
			},
			[]string{"method", "outcome"},
		),
		refunds: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "payment",
				Subsystem: "gateway",
				Name:      "refunds_total",
				Help:      "Total number of refund requests by outcome",
			},
			[]string{"method", "outcome"},
		),
		queries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "payment",
				Subsystem: "gateway",
				Name:      "transaction_queries_total",
				Help:      "Total number of transaction status queries by outcome",
			},
			[]string{"method", "outcome"},
		),
		integrityErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "payment",
				Subsystem: "gateway",
				Name:      "integrity_violations_total",
				Help:      "Provider responses whose signature did not verify",
			},
			[]string{"method"},
		),
		gatewayDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "payment",
				Subsystem: "gateway",
				Name:      "call_duration_seconds",
				Help:      "Gateway call duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "operation"},
		),
	}
}

func (m *PaymentMetrics) PaymentInitiated(method, outcome string) {
	m.paymentsInitiated.WithLabelValues(method, outcome).Inc()
}

func (m *PaymentMetrics) Refund(method, outcome string) {
	m.refunds.WithLabelValues(method, outcome).Inc()
	if outcome == OutcomeIntegrityError {
		m.integrityErrors.WithLabelValues(method).Inc()
	}
}

func (m *PaymentMetrics) Query(method, outcome string) {
	m.queries.WithLabelValues(method, outcome).Inc()
	if outcome == OutcomeIntegrityError {
		m.integrityErrors.WithLabelValues(method).Inc()
	}
}

func (m *PaymentMetrics) ObserveDuration(method, operation string, seconds float64) {
	m.gatewayDuration.WithLabelValues(method, operation).Observe(seconds)
}
