package usecases

import (
	"context"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/logger"
)

type RenewSubscriptionCommand struct {
	SID         string
	PeriodType  vo.PeriodType
	AutoRenewal bool
	Actor       Actor
}

type RenewSubscriptionUseCase struct {
	lifecycleHooks
	subscriptionRepo subscription.SubscriptionRepository
	capacity         *services.CapacityCoordinator
	txRunner         TransactionRunner
	logger           logger.Interface
}

func NewRenewSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	capacity *services.CapacityCoordinator,
	txRunner TransactionRunner,
	logger logger.Interface,
) *RenewSubscriptionUseCase {
	return &RenewSubscriptionUseCase{
		lifecycleHooks:   newLifecycleHooks(),
		subscriptionRepo: subscriptionRepo,
		capacity:         capacity,
		txRunner:         txRunner,
		logger:           logger,
	}
}

func (uc *RenewSubscriptionUseCase) Execute(ctx context.Context, cmd RenewSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	current, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}
	if err := authorize(cmd.Actor, current); err != nil {
		return nil, err
	}

	now := uc.now()
	renewed, err := current.Renew(subscription.RenewalDetails{
		PeriodType:  cmd.PeriodType,
		AutoRenewal: cmd.AutoRenewal,
	}, now)
	if err != nil {
		uc.logger.Warnw("failed to renew subscription", "error", err, "subscription_sid", cmd.SID)
		return nil, toAppError(err, "renew subscription")
	}

	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		// An expired course subscription gave its seat back when it expired.
		if renewed.HoldsSeat() && !current.HoldsSeat() {
			if err := uc.capacity.Reserve(txCtx, *renewed.CourseID()); err != nil {
				return err
			}
		}
		return uc.subscriptionRepo.Update(txCtx, renewed)
	})
	if err != nil {
		uc.logger.Errorw("failed to renew subscription", "error", err, "subscription_sid", cmd.SID)
		return nil, toAppError(err, "renew subscription")
	}

	uc.committed(ctx, uc.logger, renewed, subscription.ChangeRenewed)

	uc.logger.Infow("subscription renewed successfully",
		"subscription_sid", cmd.SID,
		"period_type", cmd.PeriodType,
		"previous_end_date", current.EndDate(),
		"new_end_date", renewed.EndDate(),
		"auto_renewal", cmd.AutoRenewal,
	)

	return dto.ToSubscriptionDTO(renewed, now), nil
}
