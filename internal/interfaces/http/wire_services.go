package http

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	subscriptionServices "learnhub/internal/application/subscription/services"
	subscriptionUsecases "learnhub/internal/application/subscription/usecases"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/infrastructure/auth"
	"learnhub/internal/infrastructure/cache"
	"learnhub/internal/infrastructure/config"
	"learnhub/internal/infrastructure/email"
	"learnhub/internal/infrastructure/metrics"
	"learnhub/internal/infrastructure/pubsub"
	"learnhub/internal/infrastructure/scheduler"
	"learnhub/internal/infrastructure/template"
	"learnhub/internal/interfaces/http/handlers"
	adminSubscriptionHandlers "learnhub/internal/interfaces/http/handlers/admin/subscription"
	"learnhub/internal/interfaces/http/middleware"
	"learnhub/internal/shared/goroutine"
	"learnhub/internal/shared/logger"
)

// ============================================================
// Section 1: Infrastructure - Redis, metrics, repositories, auth
// ============================================================

func (c *Container) initInfrastructure() {
	cfg := c.cfg
	log := c.log

	c.redis = initRedis(cfg, log)

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.metrics = metrics.NewSubscriptionMetrics(c.registry)

	c.repos = newRepositories(c.db, log)

	c.jwtSvc = auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer)
	c.authMiddleware = middleware.NewAuthMiddleware(c.jwtSvc, log.Named("middleware.auth"))

	if c.redis != nil {
		c.sweepLock = cache.NewRedisSweepLock(c.redis, log.Named("cache.sweeplock"))
		c.accessCache = cache.NewRedisAccessCache(c.redis, log.Named("cache.access"))
		c.eventBus = pubsub.NewRedisLifecycleEventBus(c.redis, log.Named("pubsub.lifecycle"))
	}
}

// initRedis connects to Redis. An unreachable server leaves the client nil;
// the sweep lock, access cache and event bus are then disabled.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("redis unavailable, running without sweep lock, access cache and event bus",
			"addr", cfg.Redis.GetAddr(),
			"error", err,
		)
		_ = client.Close()
		return nil
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())
	return client
}

// ============================================================
// Section 2: Subscription - services, use cases, handlers, scheduler
// ============================================================

func (c *Container) initSubscription() error {
	cfg := c.cfg
	log := c.log
	repos := c.repos

	templates := template.NewEmailTemplateLoader(cfg.Email.TemplatePath, log.Named("template"))
	if err := templates.Load(); err != nil {
		return fmt.Errorf("failed to load email templates: %w", err)
	}
	notifier := email.NewNotificationService(cfg.Email, templates, log.Named("email"))

	c.capacity = subscriptionServices.NewCapacityCoordinator(repos.courseRepo, repos.subscriptionRepo, log.Named("capacity"))
	c.capacity.SetMetrics(c.metrics)
	c.dispatcher = subscriptionServices.NewNotificationDispatcher(repos.userRepo, repos.courseRepo, notifier, log.Named("notification"))

	c.initSubscriptionUseCases()
	c.initSubscriptionHandlers()

	if cfg.Subscription.Sweep.Enabled {
		if err := c.initScheduler(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Container) initSubscriptionUseCases() {
	repos := c.repos
	log := c.log.Named("subscription")
	sweep := c.cfg.Subscription.Sweep

	ucs := &allUseCases{
		createSubscriptionUC: subscriptionUsecases.NewCreateSubscriptionUseCase(
			repos.subscriptionRepo, repos.userRepo, repos.courseRepo, c.capacity, repos.txManager, log,
		),
		activateSubscriptionUC: subscriptionUsecases.NewActivateSubscriptionUseCase(
			repos.subscriptionRepo, c.dispatcher, log,
		),
		cancelSubscriptionUC: subscriptionUsecases.NewCancelSubscriptionUseCase(
			repos.subscriptionRepo, c.capacity, c.dispatcher, repos.txManager, log,
		),
		renewSubscriptionUC: subscriptionUsecases.NewRenewSubscriptionUseCase(
			repos.subscriptionRepo, c.capacity, repos.txManager, log,
		),
		updateSubscriptionUC: subscriptionUsecases.NewUpdateSubscriptionUseCase(repos.subscriptionRepo, log),
		deleteSubscriptionUC: subscriptionUsecases.NewDeleteSubscriptionUseCase(
			repos.subscriptionRepo, c.capacity, repos.txManager, log,
		),
		getSubscriptionUC:        subscriptionUsecases.NewGetSubscriptionUseCase(repos.subscriptionRepo, log),
		listUserSubscriptionsUC:  subscriptionUsecases.NewListUserSubscriptionsUseCase(repos.subscriptionRepo, log),
		listCourseSubscriptionUC: subscriptionUsecases.NewListCourseSubscriptionsUseCase(repos.subscriptionRepo, repos.courseRepo, log),
		getStatisticsUC:          subscriptionUsecases.NewGetStatisticsUseCase(repos.subscriptionRepo, log),
		checkAccessUC:            subscriptionUsecases.NewCheckAccessUseCase(repos.subscriptionRepo, log),
		reconcileUC: subscriptionUsecases.NewReconcileSubscriptionsUseCase(
			repos.subscriptionRepo, c.capacity, c.dispatcher, repos.txManager,
			subscriptionUsecases.SweepOptions{PageSize: sweep.PageSize, PassTimeout: sweep.PassTimeout},
			log.Named("sweep"),
		),
		recountSeatsUC: subscriptionUsecases.NewRecountSeatsUseCase(c.capacity, repos.txManager, log),
	}

	type hooked interface {
		SetEventPublisher(subscriptionUsecases.LifecycleEventPublisher)
		SetMetrics(subscriptionServices.MetricsRecorder)
	}
	for _, uc := range []hooked{
		ucs.createSubscriptionUC,
		ucs.activateSubscriptionUC,
		ucs.cancelSubscriptionUC,
		ucs.renewSubscriptionUC,
		ucs.updateSubscriptionUC,
		ucs.deleteSubscriptionUC,
		ucs.reconcileUC,
	} {
		uc.SetMetrics(c.metrics)
		if c.eventBus != nil {
			uc.SetEventPublisher(c.eventBus)
		}
	}

	if c.sweepLock != nil && sweep.LockEnabled {
		ucs.reconcileUC.SetLock(c.sweepLock)
	}
	if c.accessCache != nil {
		ucs.checkAccessUC.SetCache(c.accessCache)
	}

	c.ucs = ucs
}

func (c *Container) initSubscriptionHandlers() {
	ucs := c.ucs
	log := c.log.Named("handler")

	checks := map[string]handlers.HealthCheck{
		"database": func(ctx context.Context) error {
			sqlDB, err := c.db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
	}
	if c.redis != nil {
		client := c.redis
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
	}

	c.hdlrs = &allHandlers{
		healthHandler: handlers.NewHealthHandler(checks),
		subscriptionHandler: handlers.NewSubscriptionHandler(
			ucs.createSubscriptionUC,
			ucs.getSubscriptionUC,
			ucs.updateSubscriptionUC,
			ucs.cancelSubscriptionUC,
			ucs.renewSubscriptionUC,
			ucs.listUserSubscriptionsUC,
			ucs.checkAccessUC,
			log,
		),
		adminSubscriptionHandler: adminSubscriptionHandlers.NewHandler(
			ucs.activateSubscriptionUC,
			ucs.deleteSubscriptionUC,
			ucs.listCourseSubscriptionUC,
			ucs.getStatisticsUC,
			ucs.reconcileUC,
			ucs.recountSeatsUC,
			log.Named("admin"),
		),
	}
}

func (c *Container) initScheduler() error {
	manager, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	sweep := c.cfg.Subscription.Sweep
	// Two passes, each bounded by PassTimeout.
	if err := manager.RegisterSweepJob(c.ucs.reconcileUC, sweep.Interval, 2*sweep.PassTimeout); err != nil {
		return fmt.Errorf("failed to register sweep job: %w", err)
	}
	c.schedulerManager = manager
	return nil
}

// startAccessInvalidation drops cached access decisions for the user of every
// lifecycle event, including those published by other instances.
func (c *Container) startAccessInvalidation(ctx context.Context, ready chan<- struct{}) <-chan struct{} {
	log := c.log.Named("access.invalidation")
	bus := c.eventBus
	accessCache := c.accessCache

	return goroutine.SafeGo(log, "access-cache-invalidation", func() {
		err := bus.Subscribe(ctx, ready, func(ctx context.Context, event subscription.LifecycleEvent) {
			if err := accessCache.InvalidateUser(ctx, event.UserID); err != nil {
				log.Warnw("failed to invalidate access cache",
					"user_id", event.UserID,
					"subscription_sid", event.SubscriptionSID,
					"error", err,
				)
			}
		})
		if err != nil && ctx.Err() == nil {
			log.Errorw("lifecycle event subscription ended", "error", err)
		}
	})
}
