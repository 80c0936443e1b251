package tx

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	metricsNamespace = "conveyor"
	metricsSubsystem = "tx"

	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Metrics counts broadcasts and retries and times confirmations.
type Metrics struct {
	broadcasts    *prometheus.CounterVec
	retries       *prometheus.CounterVec
	confirmations *prometheus.HistogramVec
}

// NewMetrics registers the pipeline metrics with registerer. A nil registerer keeps them unregistered.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)

	return &Metrics{
		broadcasts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "broadcasts_total",
			Help:      "Broadcast attempts by outcome.",
		}, []string{"chain_id", "outcome"}),
		retries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "retries_total",
			Help:      "Rebuilds triggered by a retry strategy.",
		}, []string{"chain_id", "strategy"}),
		confirmations: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: metricsSubsystem,
			Name:      "confirmation_seconds",
			Help:      "Time from the first inclusion poll until the transaction was found.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 8),
		}, []string{"chain_id"}),
	}
}

// NopMetrics returns metrics that are recorded nowhere.
func NopMetrics() *Metrics {
	return NewMetrics(nil)
}

func (m *Metrics) observeBroadcast(chainID, outcome string) {
	m.broadcasts.WithLabelValues(chainID, outcome).Inc()
}

func (m *Metrics) observeRetry(chainID, strategy string) {
	m.retries.WithLabelValues(chainID, strategy).Inc()
}

func (m *Metrics) observeConfirmation(chainID string, elapsed time.Duration) {
	m.confirmations.WithLabelValues(chainID).Observe(elapsed.Seconds())
}
