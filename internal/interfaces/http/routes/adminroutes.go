package routes

import (
	"github.com/gin-gonic/gin"

	adminSubscriptionHandlers "learnhub/internal/interfaces/http/handlers/admin/subscription"
	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/shared/authorization"
)

// AdminRouteConfig contains dependencies for admin routes.
type AdminRouteConfig struct {
	SubscriptionHandler *adminSubscriptionHandlers.Handler
	AuthMiddleware      *middleware.AuthMiddleware
}

// SetupAdminRoutes configures admin-only routes under api.
func SetupAdminRoutes(api *gin.RouterGroup, cfg *AdminRouteConfig) {
	h := cfg.SubscriptionHandler

	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth(), authorization.RequireAdmin())
	{
		// Static paths before /:sid
		admin.GET("/subscriptions/statistics", h.GetStatistics)
		admin.POST("/subscriptions/sweep", h.RunSweep)

		admin.POST("/subscriptions/:sid/activate", h.ActivateSubscription)
		admin.DELETE("/subscriptions/:sid", h.DeleteSubscription)

		admin.GET("/courses/:courseId/subscriptions", h.ListCourseSubscriptions)
		admin.POST("/courses/:courseId/seats/recount", h.RecountSeats)
	}
}
