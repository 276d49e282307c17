package http

import (
	subscriptionUsecases "learnhub/internal/application/subscription/usecases"
)

// allUseCases holds the use case instances shared by handlers, the scheduler
// and the CLI.
type allUseCases struct {
	createSubscriptionUC     *subscriptionUsecases.CreateSubscriptionUseCase
	activateSubscriptionUC   *subscriptionUsecases.ActivateSubscriptionUseCase
	cancelSubscriptionUC     *subscriptionUsecases.CancelSubscriptionUseCase
	renewSubscriptionUC      *subscriptionUsecases.RenewSubscriptionUseCase
	updateSubscriptionUC     *subscriptionUsecases.UpdateSubscriptionUseCase
	deleteSubscriptionUC     *subscriptionUsecases.DeleteSubscriptionUseCase
	getSubscriptionUC        *subscriptionUsecases.GetSubscriptionUseCase
	listUserSubscriptionsUC  *subscriptionUsecases.ListUserSubscriptionsUseCase
	listCourseSubscriptionUC *subscriptionUsecases.ListCourseSubscriptionsUseCase
	getStatisticsUC          *subscriptionUsecases.GetStatisticsUseCase
	checkAccessUC            *subscriptionUsecases.CheckAccessUseCase
	reconcileUC              *subscriptionUsecases.ReconcileSubscriptionsUseCase
	recountSeatsUC           *subscriptionUsecases.RecountSeatsUseCase
}

// ReconcileUseCase returns the sweep use case for one-off runs.
func (c *Container) ReconcileUseCase() *subscriptionUsecases.ReconcileSubscriptionsUseCase {
	return c.ucs.reconcileUC
}

// RecountSeatsUseCase returns the seat recount use case.
func (c *Container) RecountSeatsUseCase() *subscriptionUsecases.RecountSeatsUseCase {
	return c.ucs.recountSeatsUC
}
