package usecases

import (
	"context"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/logger"
)

// UpdateSubscriptionCommand changes non-lifecycle fields. Nil fields are left as they are.
type UpdateSubscriptionCommand struct {
	SID                string
	Actor              Actor
	AutoRenewal        *bool
	EmailNotifications *bool
	CompletedLessons   *int
	Accessed           bool
}

type UpdateSubscriptionUseCase struct {
	lifecycleHooks
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewUpdateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *UpdateSubscriptionUseCase {
	return &UpdateSubscriptionUseCase{
		lifecycleHooks:   newLifecycleHooks(),
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *UpdateSubscriptionUseCase) Execute(ctx context.Context, cmd UpdateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	current, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}
	if err := authorize(cmd.Actor, current); err != nil {
		return nil, err
	}

	now := uc.now()
	updated, err := current.UpdatePreferences(subscription.PreferenceChanges{
		AutoRenewal:        cmd.AutoRenewal,
		EmailNotifications: cmd.EmailNotifications,
	}, now)
	if err != nil {
		return nil, toAppError(err, "update subscription")
	}
	if cmd.CompletedLessons != nil || cmd.Accessed {
		updated = updated.RecordProgress(cmd.CompletedLessons, cmd.Accessed, now)
	}

	if err := uc.subscriptionRepo.Update(ctx, updated); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_sid", cmd.SID)
		return nil, toAppError(err, "update subscription")
	}

	uc.committed(ctx, uc.logger, updated, subscription.ChangeUpdated)

	uc.logger.Debugw("subscription updated",
		"subscription_sid", cmd.SID,
		"progress_percentage", updated.ProgressPercentage(),
		"auto_renewal", updated.AutoRenewal(),
	)

	return dto.ToSubscriptionDTO(updated, now), nil
}
