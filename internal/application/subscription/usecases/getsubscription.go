package usecases

import (
	"context"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/biztime"
	"learnhub/internal/shared/logger"
)

type GetSubscriptionQuery struct {
	SID   string
	Actor Actor
}

type GetSubscriptionUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewGetSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *GetSubscriptionUseCase {
	return &GetSubscriptionUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetSubscriptionUseCase) Execute(ctx context.Context, query GetSubscriptionQuery) (*dto.SubscriptionDTO, error) {
	sub, err := loadBySID(ctx, uc.subscriptionRepo, uc.logger, query.SID)
	if err != nil {
		return nil, err
	}
	if err := authorize(query.Actor, sub); err != nil {
		return nil, err
	}

	uc.logger.Debugw("subscription retrieved successfully",
		"subscription_sid", query.SID,
		"user_id", sub.UserID(),
		"status", sub.Status(),
	)

	return dto.ToSubscriptionDTO(sub, biztime.NowUTC()), nil
}
