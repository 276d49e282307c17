package migration

import (
	"fmt"
	"io"

	"gorm.io/gorm"

	"learnhub/internal/shared/logger"
)

// Manager handles database migrations with different strategies
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager picks goose scripts for release builds and gorm AutoMigrate in
// debug mode.
func NewManager(driver string, debug bool, log logger.Interface) (*Manager, error) {
	if debug {
		return NewManagerWithStrategy(NewAutoMigrateStrategy(log), log), nil
	}
	strategy, err := NewGooseStrategy(driver, log)
	if err != nil {
		return nil, err
	}
	return NewManagerWithStrategy(strategy, log), nil
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.Named("migration.manager"),
	}
}

// Migrate executes the configured migration strategy
func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.Name())

	if err := m.strategy.Migrate(db); err != nil {
		m.logger.Errorw("migration failed", "strategy", m.strategy.Name(), "error", err)
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.Name(), err)
	}
	return nil
}

func (m *Manager) Down(db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be at least 1")
	}
	m.logger.Infow("rolling back migrations", "strategy", m.strategy.Name(), "steps", steps)
	return m.strategy.Down(db, steps)
}

func (m *Manager) Status(db *gorm.DB, w io.Writer) error {
	return m.strategy.Status(db, w)
}

func (m *Manager) Strategy() Strategy {
	return m.strategy
}
