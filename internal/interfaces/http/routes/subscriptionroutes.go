// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"learnhub/internal/interfaces/http/handlers"
	"learnhub/internal/interfaces/http/middleware"
)

// SubscriptionRouteConfig contains dependencies for subscriber-facing routes.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	AuthMiddleware      *middleware.AuthMiddleware
	RateLimiter         *middleware.RateLimiter
}

// SetupSubscriptionRoutes configures subscription routes under api.
// :sid is a subscription SID (sub_xxx format). Ownership is enforced by the
// use cases so that admins pass through the same routes.
func SetupSubscriptionRoutes(api *gin.RouterGroup, cfg *SubscriptionRouteConfig) {
	h := cfg.SubscriptionHandler
	writeLimit := cfg.RateLimiter.Limit("subscription_write")

	subscriptions := api.Group("/subscriptions")
	subscriptions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		subscriptions.POST("", writeLimit, h.CreateSubscription)
		subscriptions.GET("/:sid", h.GetSubscription)
		subscriptions.PATCH("/:sid", h.UpdateSubscription)
		subscriptions.POST("/:sid/cancel", h.CancelSubscription)
		subscriptions.POST("/:sid/renew", writeLimit, h.RenewSubscription)
	}

	api.GET("/users/:userId/subscriptions", cfg.AuthMiddleware.RequireAuth(), h.ListUserSubscriptions)
	api.GET("/courses/:courseId/access", cfg.AuthMiddleware.RequireAuth(), h.CheckCourseAccess)
}
