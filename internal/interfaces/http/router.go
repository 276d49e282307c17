package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/interfaces/http/routes"
	"learnhub/internal/interfaces/http/validators"
)

// SetupRoutes configures global middleware and mounts every route group.
// Calling it more than once is a no-op.
func (c *Container) SetupRoutes() {
	if c.routesDone {
		return
	}
	c.routesDone = true

	validators.Register()

	httpLog := c.log.Named("http")
	c.engine.Use(
		middleware.RequestID(),
		middleware.Recovery(httpLog),
		middleware.Logger(httpLog),
		middleware.CORS(c.cfg.Server.AllowedOrigins),
		middleware.SecurityHeaders(),
	)

	c.engine.GET("/health", c.hdlrs.healthHandler.HealthCheck)
	c.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})))

	rateLimit := c.cfg.Server.RateLimit
	limiter := middleware.NewRateLimiter(c.redis, rateLimit.Limit, rateLimit.Window, c.log.Named("middleware.ratelimit"))

	api := c.engine.Group("/api/v1")

	routes.SetupSubscriptionRoutes(api, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: c.hdlrs.subscriptionHandler,
		AuthMiddleware:      c.authMiddleware,
		RateLimiter:         limiter,
	})

	routes.SetupAdminRoutes(api, &routes.AdminRouteConfig{
		SubscriptionHandler: c.hdlrs.adminSubscriptionHandler,
		AuthMiddleware:      c.authMiddleware,
	})
}
