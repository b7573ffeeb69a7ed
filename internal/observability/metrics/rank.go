package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RankMetrics records rank-module operation outcomes.
type RankMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordPeakUpdate(ctx context.Context, source string)
}

type rankMetrics struct {
	attempts    *prometheus.CounterVec
	successes   *prometheus.CounterVec
	failures    *prometheus.CounterVec
	durations   *prometheus.HistogramVec
	peakUpdates *prometheus.CounterVec
}

// NewRankMetrics registers and returns the rank-module metric set.
func NewRankMetrics(registry *prometheus.Registry) RankMetrics {
	m := &rankMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rank_operation_attempts_total",
			Help: "Rank operations attempted.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rank_operation_successes_total",
			Help: "Rank operations completed successfully.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rank_operation_failures_total",
			Help: "Rank operations that failed.",
		}, []string{"operation"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rank_operation_duration_seconds",
			Help:    "Rank operation latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		peakUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rank_peak_updates_total",
			Help: "Peak record writes by update source.",
		}, []string{"source"}),
	}
	registry.MustRegister(m.attempts, m.successes, m.failures, m.durations, m.peakUpdates)
	return m
}

func (m *rankMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *rankMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *rankMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.failures.WithLabelValues(operation).Inc()
}

func (m *rankMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.durations.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *rankMetrics) RecordPeakUpdate(_ context.Context, source string) {
	m.peakUpdates.WithLabelValues(source).Inc()
}

// NoOpRankMetrics satisfies RankMetrics without recording anything.
type NoOpRankMetrics struct{}

func (NoOpRankMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpRankMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpRankMetrics) RecordOperationFailure(context.Context, string)                 {}
func (NoOpRankMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpRankMetrics) RecordPeakUpdate(context.Context, string)                       {}
