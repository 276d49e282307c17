package http

import (
	"learnhub/internal/interfaces/http/handlers"
	adminSubscriptionHandlers "learnhub/internal/interfaces/http/handlers/admin/subscription"
)

// allHandlers holds the HTTP handler instances used by the router.
type allHandlers struct {
	healthHandler            *handlers.HealthHandler
	subscriptionHandler      *handlers.SubscriptionHandler
	adminSubscriptionHandler *adminSubscriptionHandlers.Handler
}
