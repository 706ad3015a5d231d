package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for approval operations.
type Metrics struct {
	RequestsSubmitted   *prometheus.CounterVec
	RequestOutcomes     *prometheus.CounterVec
	DuplicateOverwrites prometheus.Counter
	StoredCredentials   prometheus.Gauge
	DecisionLatency     prometheus.Histogram
}

// New registers and returns approval metrics collectors.
func New() *Metrics {
	return &Metrics{
		RequestsSubmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "didwallet_approval_requests_submitted_total",
			Help: "Total number of approval requests submitted, labeled by kind",
		}, []string{"kind"}),
		RequestOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "didwallet_approval_outcomes_total",
			Help: "Total number of terminal approval outcomes, labeled by kind and outcome",
		}, []string{"kind", "outcome"}),
		DuplicateOverwrites: promauto.NewCounter(prometheus.CounterOpts{
			Name: "didwallet_credential_overwrites_total",
			Help: "Total number of approved credentials that overwrote a stored duplicate",
		}),
		StoredCredentials: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "didwallet_stored_credentials_total",
			Help: "Current number of credentials in the wallet store",
		}),
		DecisionLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "didwallet_approval_decision_latency_seconds",
			Help:    "Time from request submission to terminal outcome in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 30},
		}),
	}
}

func (m *Metrics) IncrementSubmitted(kind string) {
	m.RequestsSubmitted.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementOutcome(kind, outcome string) {
	m.RequestOutcomes.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) ObserveDecisionLatency(seconds float64) {
	m.DecisionLatency.Observe(seconds)
}

func (m *Metrics) SetStoredCredentials(n int) {
	m.StoredCredentials.Set(float64(n))
}
