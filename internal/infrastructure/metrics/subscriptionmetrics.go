package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"learnhub/internal/domain/subscription"
)

// SubscriptionMetrics implements services.MetricsRecorder on a Prometheus registry.
type SubscriptionMetrics struct {
	transitions   *prometheus.CounterVec
	sweepExpired  prometheus.Counter
	sweepNotified prometheus.Counter
	sweepFailed   prometheus.Counter
	sweepDuration prometheus.Histogram
	seatClamped   prometheus.Counter
}

func NewSubscriptionMetrics(registry prometheus.Registerer) *SubscriptionMetrics {
	factory := promauto.With(registry)

	return &SubscriptionMetrics{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "learnhub_subscription_transitions_total",
				Help: "Committed subscription lifecycle changes by kind",
			},
			[]string{"transition"},
		),
		sweepExpired: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnhub_subscription_sweep_expired_total",
			Help: "Subscriptions expired by the reconciliation sweep",
		}),
		sweepNotified: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnhub_subscription_sweep_notified_total",
			Help: "Expiring-soon notices delivered by the reconciliation sweep",
		}),
		sweepFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnhub_subscription_sweep_failed_total",
			Help: "Items the reconciliation sweep could not process",
		}),
		sweepDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "learnhub_subscription_sweep_duration_seconds",
			Help:    "Wall time of reconciliation sweeps",
			Buckets: prometheus.ExponentialBuckets(0.05, 4, 8),
		}),
		seatClamped: factory.NewCounter(prometheus.CounterOpts{
			Name: "learnhub_course_seat_release_clamped_total",
			Help: "Seat releases skipped because the course counter was already zero",
		}),
	}
}

func (m *SubscriptionMetrics) RecordTransition(change subscription.ChangeType) {
	m.transitions.WithLabelValues(string(change)).Inc()
}

func (m *SubscriptionMetrics) RecordSweep(expired, notified, failed int, duration time.Duration) {
	m.sweepExpired.Add(float64(expired))
	m.sweepNotified.Add(float64(notified))
	m.sweepFailed.Add(float64(failed))
	m.sweepDuration.Observe(duration.Seconds())
}

func (m *SubscriptionMetrics) RecordSeatReleaseClamped() {
	m.seatClamped.Inc()
}
