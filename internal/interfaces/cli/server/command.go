package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"learnhub/internal/infrastructure/migration"
	"learnhub/internal/interfaces/cli/bootstrap"
	httpRouter "learnhub/internal/interfaces/http"
	"learnhub/internal/shared/version"
)

var (
	env         string
	autoMigrate bool
	noScheduler bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the LearnHub subscription API. The reconciliation sweep runs in-process unless --no-scheduler is set.`,
		Args:  cobra.NoArgs,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Apply database migrations on startup")
	cmd.Flags().BoolVar(&noScheduler, "no-scheduler", false, "Do not run the periodic sweep in this process")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg := rt.Config
	log := rt.Logger

	log.Infow("starting server",
		"mode", cfg.Server.Mode,
		"version", version.Get().Version,
		"auto_migrate", autoMigrate,
	)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if autoMigrate {
		if cfg.Server.Mode == gin.ReleaseMode {
			log.Warnw("auto-migration is enabled in release mode")
		}
		manager, err := migration.NewManager(cfg.Database.Driver, cfg.Server.IsDebug(), log)
		if err != nil {
			return err
		}
		if err := manager.Migrate(rt.DB); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	container, err := httpRouter.NewContainer(rt.DB, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	container.SetupRoutes()
	container.StartBackground(!noScheduler)

	srv := &http.Server{
		Addr:              cfg.Server.GetAddr(),
		Handler:           container.Engine(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Infow("server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	var runErr error
	select {
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	case err, ok := <-serveErr:
		if ok {
			log.Errorw("server failed", "error", err)
			runErr = err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		runErr = errors.Join(runErr, err)
	}
	if err := container.Shutdown(ctx); err != nil {
		log.Errorw("background services did not stop cleanly", "error", err)
		runErr = errors.Join(runErr, err)
	}

	log.Infow("server exited")
	return runErr
}
