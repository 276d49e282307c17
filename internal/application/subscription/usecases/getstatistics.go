package usecases

import (
	"context"
	"fmt"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/logger"
)

type GetStatisticsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewGetStatisticsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *GetStatisticsUseCase {
	return &GetStatisticsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *GetStatisticsUseCase) Execute(ctx context.Context) (*dto.StatisticsDTO, error) {
	stats, err := uc.subscriptionRepo.Statistics(ctx)
	if err != nil {
		uc.logger.Errorw("failed to get subscription statistics", "error", err)
		return nil, fmt.Errorf("failed to get subscription statistics: %w", err)
	}
	return dto.ToStatisticsDTO(stats), nil
}
