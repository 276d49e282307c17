package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/biztime"
	apperrors "learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

// lifecycleHooks holds the optional collaborators shared by the use cases
// that change subscription state.
type lifecycleHooks struct {
	publisher LifecycleEventPublisher
	metrics   services.MetricsRecorder
	now       func() time.Time
}

func newLifecycleHooks() lifecycleHooks {
	return lifecycleHooks{
		metrics: services.NopMetrics(),
		now:     biztime.NowUTC,
	}
}

// SetEventPublisher sets the lifecycle event publisher (optional).
func (h *lifecycleHooks) SetEventPublisher(p LifecycleEventPublisher) {
	h.publisher = p
}

// SetMetrics sets the metrics recorder (optional).
func (h *lifecycleHooks) SetMetrics(m services.MetricsRecorder) {
	if m != nil {
		h.metrics = m
	}
}

// SetClock overrides the time source.
func (h *lifecycleHooks) SetClock(now func() time.Time) {
	if now != nil {
		h.now = now
	}
}

// committed records metrics and publishes the event for a change that has
// already been persisted. Publishing failures are logged only.
func (h *lifecycleHooks) committed(ctx context.Context, log logger.Interface, sub *subscription.Subscription, change subscription.ChangeType) {
	h.metrics.RecordTransition(change)
	if h.publisher == nil {
		return
	}
	if err := h.publisher.Publish(ctx, subscription.NewLifecycleEvent(sub, change, h.now())); err != nil {
		log.Warnw("failed to publish lifecycle event",
			"error", err,
			"change_type", change,
			"subscription_sid", sub.SID(),
		)
	}
}

// toAppError maps domain failures onto the application error taxonomy.
func toAppError(err error, action string) error {
	if err == nil {
		return nil
	}
	if apperrors.IsAppError(err) {
		return err
	}
	switch {
	case errors.Is(err, subscription.ErrInvalidSubscription):
		return apperrors.NewBadRequestError(err.Error())
	case errors.Is(err, subscription.ErrSubscriptionCancelled):
		return apperrors.NewConflictError("subscription is already cancelled")
	case errors.Is(err, subscription.ErrInvalidStatusTransition):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, subscription.ErrNotYetEnded):
		return apperrors.NewConflictError(err.Error())
	case errors.Is(err, subscription.ErrConcurrentModification):
		return apperrors.NewConflictError("subscription was modified concurrently, please retry")
	}
	return fmt.Errorf("failed to %s: %w", action, err)
}

// Actor identifies the caller of a use case.
type Actor struct {
	UserID  uint
	IsAdmin bool
}

func authorize(actor Actor, sub *subscription.Subscription) error {
	if actor.IsAdmin || sub.IsOwnedBy(actor.UserID) {
		return nil
	}
	return apperrors.NewForbiddenError("access to this subscription is not allowed")
}

func loadBySID(ctx context.Context, repo subscription.SubscriptionRepository, log logger.Interface, sid string) (*subscription.Subscription, error) {
	sub, err := repo.GetBySID(ctx, sid)
	if err != nil {
		log.Errorw("failed to get subscription", "error", err, "subscription_sid", sid)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return nil, apperrors.NewNotFoundError("subscription not found")
	}
	return sub, nil
}
