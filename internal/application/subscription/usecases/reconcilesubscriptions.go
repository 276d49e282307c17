package usecases

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/logger"
)

// SweepOptions bounds a reconciliation run.
type SweepOptions struct {
	PageSize    int
	PassTimeout time.Duration
}

type SweepResult struct {
	ExpiredCount int
	// NotifiedCount counts expiring-soon warnings actually delivered.
	NotifiedCount int
	Failed        int
	Duration      time.Duration
	// Skipped is set when another instance holds the sweep lock.
	Skipped bool
}

// ToDTO renders the result; runErr is the error returned alongside it.
func (r *SweepResult) ToDTO(runErr error) *dto.SweepResultDTO {
	out := &dto.SweepResultDTO{
		ExpiredCount:  r.ExpiredCount,
		NotifiedCount: r.NotifiedCount,
		Failed:        r.Failed,
		DurationMs:    r.Duration.Milliseconds(),
		Skipped:       r.Skipped,
	}
	if runErr != nil {
		msg := runErr.Error()
		out.Errors = &msg
	}
	return out
}

// ReconcileSubscriptionsUseCase expires active subscriptions past their end
// date and warns subscribers whose access ends within the warning window.
// Both passes page through candidates by ID and are safe to re-run.
type ReconcileSubscriptionsUseCase struct {
	lifecycleHooks
	subscriptionRepo subscription.SubscriptionRepository
	capacity         *services.CapacityCoordinator
	dispatcher       *services.NotificationDispatcher
	txRunner         TransactionRunner
	lock             SweepLock
	opts             SweepOptions
	logger           logger.Interface
}

func NewReconcileSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	capacity *services.CapacityCoordinator,
	dispatcher *services.NotificationDispatcher,
	txRunner TransactionRunner,
	opts SweepOptions,
	logger logger.Interface,
) *ReconcileSubscriptionsUseCase {
	if opts.PageSize <= 0 {
		opts.PageSize = 200
	}
	if opts.PassTimeout <= 0 {
		opts.PassTimeout = 5 * time.Minute
	}
	return &ReconcileSubscriptionsUseCase{
		lifecycleHooks:   newLifecycleHooks(),
		subscriptionRepo: subscriptionRepo,
		capacity:         capacity,
		dispatcher:       dispatcher,
		txRunner:         txRunner,
		opts:             opts,
		logger:           logger,
	}
}

// SetLock enables cross-process exclusion (optional).
func (uc *ReconcileSubscriptionsUseCase) SetLock(lock SweepLock) {
	uc.lock = lock
}

func (uc *ReconcileSubscriptionsUseCase) Execute(ctx context.Context) (*SweepResult, error) {
	started := time.Now()

	if uc.lock != nil {
		acquired, release, err := uc.lock.TryAcquire(ctx, 2*uc.opts.PassTimeout)
		switch {
		case err != nil:
			uc.logger.Warnw("failed to acquire sweep lock, running unlocked", "error", err)
		case !acquired:
			uc.logger.Infow("subscription sweep skipped, another instance holds the lock")
			return &SweepResult{Skipped: true}, nil
		default:
			defer release()
		}
	}

	now := uc.now()
	result := &SweepResult{}

	var errs []error
	if err := uc.runPass(ctx, func(passCtx context.Context) error {
		return uc.expirePass(passCtx, now, result)
	}); err != nil {
		uc.logger.Errorw("expire pass aborted", "error", err, "expired", result.ExpiredCount)
		errs = append(errs, fmt.Errorf("expire pass: %w", err))
	}
	if err := uc.runPass(ctx, func(passCtx context.Context) error {
		return uc.expiringSoonPass(passCtx, now, result)
	}); err != nil {
		uc.logger.Errorw("expiring-soon pass aborted", "error", err, "notified", result.NotifiedCount)
		errs = append(errs, fmt.Errorf("expiring-soon pass: %w", err))
	}

	result.Duration = time.Since(started)
	uc.metrics.RecordSweep(result.ExpiredCount, result.NotifiedCount, result.Failed, result.Duration)

	uc.logger.Infow("subscription sweep completed",
		"expired", result.ExpiredCount,
		"notified", result.NotifiedCount,
		"failed", result.Failed,
		"duration", result.Duration,
	)

	return result, errors.Join(errs...)
}

func (uc *ReconcileSubscriptionsUseCase) runPass(ctx context.Context, pass func(context.Context) error) error {
	passCtx, cancel := context.WithTimeout(ctx, uc.opts.PassTimeout)
	defer cancel()
	return pass(passCtx)
}

func (uc *ReconcileSubscriptionsUseCase) expirePass(ctx context.Context, now time.Time, result *SweepResult) error {
	var cursor uint
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := uc.subscriptionRepo.FindExpiredActive(ctx, now, cursor, uc.opts.PageSize)
		if err != nil {
			return fmt.Errorf("failed to find expired subscriptions: %w", err)
		}
		if len(page) == 0 {
			return nil
		}

		for _, sub := range page {
			cursor = sub.ID()
			if err := uc.expireOne(ctx, sub, now); err != nil {
				result.Failed++
				uc.logger.Warnw("failed to expire subscription",
					"error", err,
					"subscription_sid", sub.SID(),
					"end_date", sub.EndDate(),
				)
				continue
			}
			result.ExpiredCount++
		}

		if len(page) < uc.opts.PageSize {
			return nil
		}
	}
}

func (uc *ReconcileSubscriptionsUseCase) expireOne(ctx context.Context, sub *subscription.Subscription, now time.Time) error {
	expired, err := sub.Expire(now)
	if err != nil {
		return err
	}

	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.Update(txCtx, expired); err != nil {
			return err
		}
		if sub.HoldsSeat() {
			return uc.capacity.Release(txCtx, *sub.CourseID())
		}
		return nil
	})
	if err != nil {
		return err
	}

	uc.dispatcher.NotifyExpired(ctx, expired)
	uc.committed(ctx, uc.logger, expired, subscription.ChangeExpired)

	uc.logger.Debugw("subscription expired",
		"subscription_sid", sub.SID(),
		"user_id", sub.UserID(),
		"end_date", sub.EndDate(),
	)
	return nil
}

func (uc *ReconcileSubscriptionsUseCase) expiringSoonPass(ctx context.Context, now time.Time, result *SweepResult) error {
	var cursor uint
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		page, err := uc.subscriptionRepo.FindExpiringSoon(ctx, now, subscription.ExpiryWarningWindow, cursor, uc.opts.PageSize)
		if err != nil {
			return fmt.Errorf("failed to find expiring subscriptions: %w", err)
		}
		if len(page) == 0 {
			return nil
		}

		for _, sub := range page {
			cursor = sub.ID()
			if !sub.NeedsExpiryWarning(now) {
				continue
			}
			if !uc.dispatcher.NotifyExpiringSoon(ctx, sub) {
				result.Failed++
				continue
			}
			result.NotifiedCount++

			// A lost stamp only means the warning may be sent again next run.
			if err := uc.subscriptionRepo.Update(ctx, sub.MarkExpiryWarned(now)); err != nil {
				uc.logger.Warnw("failed to record expiry warning",
					"error", err,
					"subscription_sid", sub.SID(),
				)
			}
		}

		if len(page) < uc.opts.PageSize {
			return nil
		}
	}
}
