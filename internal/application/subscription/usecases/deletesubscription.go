package usecases

import (
	"context"
	"fmt"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/logger"
)

type DeleteSubscriptionCommand struct {
	SID string
}

// DeleteSubscriptionUseCase hard-removes a subscription. Admin only.
type DeleteSubscriptionUseCase struct {
	lifecycleHooks
	subscriptionRepo subscription.SubscriptionRepository
	capacity         *services.CapacityCoordinator
	txRunner         TransactionRunner
	logger           logger.Interface
}

func NewDeleteSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	capacity *services.CapacityCoordinator,
	txRunner TransactionRunner,
	logger logger.Interface,
) *DeleteSubscriptionUseCase {
	return &DeleteSubscriptionUseCase{
		lifecycleHooks:   newLifecycleHooks(),
		subscriptionRepo: subscriptionRepo,
		capacity:         capacity,
		txRunner:         txRunner,
		logger:           logger,
	}
}

func (uc *DeleteSubscriptionUseCase) Execute(ctx context.Context, cmd DeleteSubscriptionCommand) error {
	sub, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return err
	}

	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.subscriptionRepo.Delete(txCtx, sub.ID()); err != nil {
			return err
		}
		if sub.HoldsSeat() {
			return uc.capacity.Release(txCtx, *sub.CourseID())
		}
		return nil
	})
	if err != nil {
		uc.logger.Errorw("failed to delete subscription", "error", err, "subscription_sid", cmd.SID)
		return fmt.Errorf("failed to delete subscription: %w", err)
	}

	uc.committed(ctx, uc.logger, sub, subscription.ChangeDeleted)

	uc.logger.Infow("subscription deleted successfully",
		"subscription_sid", cmd.SID,
		"user_id", sub.UserID(),
		"released_seat", sub.HoldsSeat(),
	)

	return nil
}
