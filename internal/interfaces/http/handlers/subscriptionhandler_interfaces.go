package handlers

import (
	"context"

	subdto "learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/usecases"
)

// Use case interfaces for SubscriptionHandler

type createSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CreateSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

type getSubscriptionUseCase interface {
	Execute(ctx context.Context, query usecases.GetSubscriptionQuery) (*subdto.SubscriptionDTO, error)
}

type updateSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.UpdateSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

type cancelSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

type renewSubscriptionUseCase interface {
	Execute(ctx context.Context, cmd usecases.RenewSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

type listUserSubscriptionsUseCase interface {
	Execute(ctx context.Context, query usecases.ListUserSubscriptionsQuery) (*subdto.ListSubscriptionsResult, error)
}

type checkAccessUseCase interface {
	Execute(ctx context.Context, query usecases.CheckAccessQuery) (*subdto.AccessDTO, error)
}
