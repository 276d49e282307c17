package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
)

var _ services.MetricsRecorder = (*SubscriptionMetrics)(nil)

func TestSubscriptionMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := NewSubscriptionMetrics(registry)

	m.RecordTransition(subscription.ChangeCancelled)
	m.RecordTransition(subscription.ChangeCancelled)
	m.RecordTransition(subscription.ChangeExpired)
	m.RecordSweep(3, 2, 1, 1500*time.Millisecond)
	m.RecordSeatReleaseClamped()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("cancelled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("expired")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sweepExpired))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sweepNotified))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sweepFailed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.seatClamped))

	count, err := testutil.GatherAndCount(registry, "learnhub_subscription_sweep_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewSubscriptionMetrics_DuplicateRegistrationPanics(t *testing.T) {
	registry := prometheus.NewRegistry()
	NewSubscriptionMetrics(registry)
	assert.Panics(t, func() { NewSubscriptionMetrics(registry) })
}
