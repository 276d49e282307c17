package usecases

import (
	"context"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/logger"
)

// ActivateSubscriptionCommand is issued once the payment gateway confirms a charge.
type ActivateSubscriptionCommand struct {
	SID           string
	TransactionID string
	PaymentMethod *string
	Metadata      map[string]interface{}
}

type ActivateSubscriptionUseCase struct {
	lifecycleHooks
	subscriptionRepo subscription.SubscriptionRepository
	dispatcher       *services.NotificationDispatcher
	logger           logger.Interface
}

func NewActivateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	dispatcher *services.NotificationDispatcher,
	logger logger.Interface,
) *ActivateSubscriptionUseCase {
	return &ActivateSubscriptionUseCase{
		lifecycleHooks:   newLifecycleHooks(),
		subscriptionRepo: subscriptionRepo,
		dispatcher:       dispatcher,
		logger:           logger,
	}
}

func (uc *ActivateSubscriptionUseCase) Execute(ctx context.Context, cmd ActivateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	current, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, cmd.SID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	activated, err := current.Activate(subscription.ActivationDetails{
		TransactionID: cmd.TransactionID,
		PaymentMethod: cmd.PaymentMethod,
		Metadata:      cmd.Metadata,
	}, now)
	if err != nil {
		uc.logger.Warnw("failed to activate subscription", "error", err, "subscription_sid", cmd.SID)
		return nil, toAppError(err, "activate subscription")
	}

	if err := uc.subscriptionRepo.Update(ctx, activated); err != nil {
		uc.logger.Errorw("failed to update subscription", "error", err, "subscription_sid", cmd.SID)
		return nil, toAppError(err, "update subscription")
	}

	uc.dispatcher.NotifyActivated(ctx, activated)
	uc.committed(ctx, uc.logger, activated, subscription.ChangeActivated)

	uc.logger.Infow("subscription activated successfully",
		"subscription_sid", cmd.SID,
		"previous_status", current.Status(),
		"transaction_id", cmd.TransactionID,
	)

	return dto.ToSubscriptionDTO(activated, now), nil
}
