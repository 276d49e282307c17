package http

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/infrastructure/auth"
	"learnhub/internal/infrastructure/cache"
	"learnhub/internal/infrastructure/config"
	"learnhub/internal/infrastructure/metrics"
	"learnhub/internal/infrastructure/pubsub"
	"learnhub/internal/infrastructure/scheduler"
	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases,
// handlers and background services. It wires everything together and owns
// their shutdown.
type Container struct {
	// Core infrastructure
	engine   *gin.Engine
	db       *gorm.DB
	cfg      *config.Config
	log      logger.Interface
	redis    *redis.Client
	registry *prometheus.Registry

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	jwtSvc         *auth.JWTService
	authMiddleware *middleware.AuthMiddleware

	// Subscription services
	metrics    *metrics.SubscriptionMetrics
	capacity   *services.CapacityCoordinator
	dispatcher *services.NotificationDispatcher

	// Redis-backed collaborators, nil when Redis is unavailable
	sweepLock   *cache.RedisSweepLock
	accessCache *cache.RedisAccessCache
	eventBus    *pubsub.RedisLifecycleEventBus

	schedulerManager *scheduler.SchedulerManager

	bgMu       sync.Mutex
	bgCancel   context.CancelFunc
	bgDone     []<-chan struct{}
	routesDone bool
}

// NewContainer creates a Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) (*Container, error) {
	if db == nil {
		return nil, errors.New("database connection is required")
	}

	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	// Section 1: Infrastructure - Redis, metrics, repositories, auth
	c.initInfrastructure()

	// Section 2: Subscription - services, use cases, handlers, scheduler
	if err := c.initSubscription(); err != nil {
		c.closeRedis()
		return nil, err
	}

	return c, nil
}

// Engine returns the gin engine. SetupRoutes must be called first.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// Registry exposes the Prometheus registry backing /metrics.
func (c *Container) Registry() *prometheus.Registry {
	return c.registry
}

// StartBackground launches the lifecycle event subscriber and, when
// withScheduler is set and the sweep is enabled, the periodic sweep.
func (c *Container) StartBackground(withScheduler bool) {
	c.bgMu.Lock()
	defer c.bgMu.Unlock()

	if c.bgCancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.bgCancel = cancel

	if c.eventBus != nil && c.accessCache != nil {
		ready := make(chan struct{})
		c.bgDone = append(c.bgDone, c.startAccessInvalidation(ctx, ready))
		select {
		case <-ready:
		case <-time.After(5 * time.Second):
			c.log.Warnw("lifecycle event subscriber not ready, access cache may serve stale entries")
		}
	}

	if withScheduler && c.schedulerManager != nil {
		c.schedulerManager.Start()
	}
}

// Shutdown stops background work and releases Redis. The database is owned
// by the caller.
func (c *Container) Shutdown(ctx context.Context) error {
	var errs []error

	if c.schedulerManager != nil && c.schedulerManager.IsStarted() {
		if err := c.schedulerManager.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	c.bgMu.Lock()
	cancel := c.bgCancel
	done := c.bgDone
	c.bgCancel = nil
	c.bgDone = nil
	c.bgMu.Unlock()

	if cancel != nil {
		cancel()
		for _, ch := range done {
			select {
			case <-ch:
			case <-ctx.Done():
				errs = append(errs, ctx.Err())
			}
		}
	}

	if err := c.closeRedis(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (c *Container) closeRedis() error {
	if c.redis == nil {
		return nil
	}
	err := c.redis.Close()
	c.redis = nil
	return err
}
