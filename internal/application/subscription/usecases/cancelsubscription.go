package usecases

import (
	"context"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/logger"
)

type CancelSubscriptionCommand struct {
	SID       string
	Reason    string
	Actor     Actor
	Immediate bool
}

type CancelSubscriptionUseCase struct {
	lifecycleHooks
	subscriptionRepo subscription.SubscriptionRepository
	capacity         *services.CapacityCoordinator
	dispatcher       *services.NotificationDispatcher
	txRunner         TransactionRunner
	logger           logger.Interface
}

func NewCancelSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	capacity *services.CapacityCoordinator,
	dispatcher *services.NotificationDispatcher,
	txRunner TransactionRunner,
	logger logger.Interface,
) *CancelSubscriptionUseCase {
	return &CancelSubscriptionUseCase{
		lifecycleHooks:   newLifecycleHooks(),
		subscriptionRepo: subscriptionRepo,
		capacity:         capacity,
		dispatcher:       dispatcher,
		txRunner:         txRunner,
		logger:           logger,
	}
}

func (uc *CancelSubscriptionUseCase) Execute(ctx context.Context, cmd CancelSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	current, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}
	if err := authorize(cmd.Actor, current); err != nil {
		return nil, err
	}

	now := uc.now()
	cancelled, err := current.Cancel(subscription.CancellationDetails{
		Reason:    cmd.Reason,
		ActorID:   cmd.Actor.UserID,
		Immediate: cmd.Immediate,
	}, now)
	if err != nil {
		uc.logger.Warnw("failed to cancel subscription", "error", err, "subscription_sid", cmd.SID)
		return nil, toAppError(err, "cancel subscription")
	}

	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.Update(txCtx, cancelled); err != nil {
			return err
		}
		if current.HoldsSeat() {
			return uc.capacity.Release(txCtx, *current.CourseID())
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_sid", cmd.SID)
		return nil, toAppError(err, "cancel subscription")
	}

	uc.dispatcher.NotifyCancelled(ctx, cancelled, cmd.Immediate)
	uc.committed(ctx, uc.logger, cancelled, subscription.ChangeCancelled)

	uc.logger.Infow("subscription cancelled successfully",
		"subscription_sid", cmd.SID,
		"reason", cmd.Reason,
		"immediate", cmd.Immediate,
		"cancelled_by", cmd.Actor.UserID,
	)

	return dto.ToSubscriptionDTO(cancelled, now), nil
}
