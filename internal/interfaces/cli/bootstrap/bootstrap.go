// Package bootstrap loads configuration, logging and the database for the
// CLI commands.
package bootstrap

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"learnhub/internal/infrastructure/config"
	"learnhub/internal/infrastructure/database"
	"learnhub/internal/shared/biztime"
	"learnhub/internal/shared/logger"
)

// Runtime is the process state shared by every command.
type Runtime struct {
	Config *config.Config
	Logger logger.Interface
	DB     *gorm.DB
}

// Init loads the configuration for env, falling back to $ENV, and opens the
// database.
func Init(env string) (*Runtime, error) {
	if env == "" {
		env = os.Getenv("ENV")
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(&cfg.Logger, cfg.Server.IsDebug()); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	if err := biztime.Init(cfg.App.Timezone); err != nil {
		return nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}

	if err := database.Init(&cfg.Database, log); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Runtime{
		Config: cfg,
		Logger: log,
		DB:     database.Get(),
	}, nil
}

// Close releases the database connection.
func (r *Runtime) Close() {
	if err := database.Close(); err != nil {
		r.Logger.Warnw("failed to close database", "error", err)
	}
}
