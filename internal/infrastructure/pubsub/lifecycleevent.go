package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/goroutine"
	"learnhub/internal/shared/logger"
)

// LifecycleEventHandler is a callback function for handling lifecycle events
type LifecycleEventHandler func(ctx context.Context, event subscription.LifecycleEvent)

// RedisLifecycleEventBus distributes committed lifecycle changes to every
// instance over Redis Pub/Sub.
type RedisLifecycleEventBus struct {
	client  *redis.Client
	channel string
	logger  logger.Interface
}

func NewRedisLifecycleEventBus(client *redis.Client, logger logger.Interface) *RedisLifecycleEventBus {
	return &RedisLifecycleEventBus{
		client:  client,
		channel: constants.RedisSubscriptionEventTopic,
		logger:  logger,
	}
}

func (b *RedisLifecycleEventBus) Publish(ctx context.Context, event subscription.LifecycleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Publish(ctx, b.channel, data).Err(); err != nil {
		b.logger.Errorw("failed to publish lifecycle event",
			"subscription_sid", event.SubscriptionSID,
			"change_type", event.ChangeType,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("lifecycle event published",
		"subscription_sid", event.SubscriptionSID,
		"change_type", event.ChangeType,
	)
	return nil
}

// Subscribe blocks until ctx is done, calling handler for every event. ready,
// if non-nil, is closed once the subscription is confirmed.
func (b *RedisLifecycleEventBus) Subscribe(ctx context.Context, ready chan<- struct{}, handler LifecycleEventHandler) error {
	ps := b.client.Subscribe(ctx, b.channel)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}
	if ready != nil {
		close(ready)
	}

	b.logger.Infow("subscribed to lifecycle events", "channel", b.channel)

	ch := ps.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("lifecycle event subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("lifecycle event channel closed")
				return nil
			}

			var event subscription.LifecycleEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.logger.Warnw("failed to unmarshal lifecycle event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			// Handlers outlive the receive loop iteration; give them their own context.
			goroutine.SafeGo(b.logger, "lifecycle-event-handler", func() {
				handler(context.Background(), event)
			})
		}
	}
}
