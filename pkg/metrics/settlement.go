package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SettlementMetrics records settlement run and transfer outcomes.
type SettlementMetrics struct {
	duration  *prometheus.HistogramVec
	runs      *prometheus.CounterVec
	transfers *prometheus.CounterVec
}

// NewSettlementMetrics registers the settlement metrics on the provided registerer.
func NewSettlementMetrics(reg prometheus.Registerer) *SettlementMetrics {
	if reg == nil {
		return &SettlementMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "settlement_duration_seconds",
		Help:    "Duration of contest settlement runs in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_runs_total",
		Help: "Contest settlement runs by outcome.",
	}, []string{"outcome"})
	transfers := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_transfers_total",
		Help: "Per-winner transfer attempts by status.",
	}, []string{"status"})
	reg.MustRegister(duration, runs, transfers)
	return &SettlementMetrics{
		duration:  duration,
		runs:      runs,
		transfers: transfers,
	}
}

// ObserveRun records the duration and outcome for one settlement run.
func (s *SettlementMetrics) ObserveRun(outcome string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	label := normalizeLabel(outcome)
	s.duration.WithLabelValues(label).Observe(duration.Seconds())
	s.runs.WithLabelValues(label).Inc()
}

// IncTransfer counts one per-winner transfer attempt.
func (s *SettlementMetrics) IncTransfer(status string) {
	if s == nil || s.transfers == nil {
		return
	}
	s.transfers.WithLabelValues(normalizeLabel(status)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
