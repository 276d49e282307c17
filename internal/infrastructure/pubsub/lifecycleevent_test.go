package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/logger"
)

func TestRedisLifecycleEventBus_PublishSubscribe(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	bus := NewRedisLifecycleEventBus(client, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan subscription.LifecycleEvent, 1)
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- bus.Subscribe(ctx, ready, func(_ context.Context, e subscription.LifecycleEvent) {
			received <- e
		})
	}()

	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber not ready")
	}

	courseID := uint(100)
	require.NoError(t, bus.Publish(context.Background(), subscription.LifecycleEvent{
		SubscriptionSID: "sub_abc",
		UserID:          7,
		CourseID:        &courseID,
		Status:          "cancelled",
		ChangeType:      subscription.ChangeCancelled,
		Timestamp:       1700000000,
	}))

	select {
	case e := <-received:
		assert.Equal(t, "sub_abc", e.SubscriptionSID)
		assert.EqualValues(t, 7, e.UserID)
		require.NotNil(t, e.CourseID)
		assert.EqualValues(t, 100, *e.CourseID)
		assert.Equal(t, subscription.ChangeCancelled, e.ChangeType)
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestRedisLifecycleEventBus_PublishError(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	mr.Close()

	err := NewRedisLifecycleEventBus(client, logger.NewNop()).Publish(context.Background(), subscription.LifecycleEvent{SubscriptionSID: "sub_x"})
	assert.Error(t, err)
}
