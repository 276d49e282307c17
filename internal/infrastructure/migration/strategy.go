package migration

import (
	"embed"
	"fmt"
	"io"

	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"learnhub/internal/shared/logger"
)

//go:embed scripts
var scriptsFS embed.FS

// Strategy defines the interface for different migration strategies
type Strategy interface {
	Migrate(db *gorm.DB) error
	Down(db *gorm.DB, steps int) error
	Status(db *gorm.DB, w io.Writer) error
	Name() string
}

// GooseStrategy applies the embedded SQL scripts for one dialect.
type GooseStrategy struct {
	dialect string
	dir     string
	logger  logger.Interface
}

// NewGooseStrategy selects the script directory matching the database driver.
func NewGooseStrategy(driver string, log logger.Interface) (Strategy, error) {
	var dialect string
	switch driver {
	case "mysql":
		dialect = "mysql"
	case "sqlite":
		dialect = "sqlite3"
	default:
		return nil, fmt.Errorf("no migration scripts for driver %q", driver)
	}
	return &GooseStrategy{
		dialect: dialect,
		dir:     "scripts/" + driver,
		logger:  log.Named("migration.goose"),
	}, nil
}

func (s *GooseStrategy) Name() string {
	return "goose"
}

func (s *GooseStrategy) prepare() error {
	goose.SetBaseFS(scriptsFS)
	goose.SetLogger(gooseLogger{log: s.logger})
	if err := goose.SetDialect(s.dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

func (s *GooseStrategy) Migrate(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := s.prepare(); err != nil {
		return err
	}

	currentVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		s.logger.Errorw("failed to get current version", "error", err)
		return fmt.Errorf("failed to get current version: %w", err)
	}

	if err := goose.Up(sqlDB, s.dir); err != nil {
		s.logger.Errorw("migration failed", "error", err)
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	finalVersion, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get final version: %w", err)
	}

	s.logger.Infow("migration completed successfully",
		"from_version", currentVersion,
		"to_version", finalVersion)
	return nil
}

func (s *GooseStrategy) Down(db *gorm.DB, steps int) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := s.prepare(); err != nil {
		return err
	}

	for i := 0; i < steps; i++ {
		if err := goose.Down(sqlDB, s.dir); err != nil {
			s.logger.Errorw("down migration failed", "step", i+1, "error", err)
			return fmt.Errorf("failed to run down migration: %w", err)
		}
	}
	return nil
}

func (s *GooseStrategy) Status(db *gorm.DB, w io.Writer) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if err := s.prepare(); err != nil {
		return err
	}

	version, err := goose.GetDBVersion(sqlDB)
	if err != nil {
		return fmt.Errorf("failed to get version: %w", err)
	}
	migrations, err := goose.CollectMigrations(s.dir, 0, goose.MaxVersion)
	if err != nil {
		return fmt.Errorf("failed to collect migrations: %w", err)
	}

	fmt.Fprintf(w, "dialect: %s\ncurrent version: %d\n", s.dialect, version)
	for _, m := range migrations {
		state := "pending"
		if m.Version <= version {
			state = "applied"
		}
		fmt.Fprintf(w, "  %05d  %-8s %s\n", m.Version, state, m.Source)
	}
	return nil
}

// AutoMigrateStrategy lets gorm create the tables from the models. It is used
// by local development and tests.
type AutoMigrateStrategy struct {
	logger logger.Interface
}

func NewAutoMigrateStrategy(log logger.Interface) Strategy {
	return &AutoMigrateStrategy{logger: log.Named("migration.automigrate")}
}

func (s *AutoMigrateStrategy) Name() string {
	return "automigrate"
}

func (s *AutoMigrateStrategy) Migrate(db *gorm.DB) error {
	models := AutoMigrateModels()
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}
	s.logger.Infow("auto-migration completed", "models", len(models))
	return nil
}

func (s *AutoMigrateStrategy) Down(*gorm.DB, int) error {
	return fmt.Errorf("automigrate strategy does not support down migrations")
}

func (s *AutoMigrateStrategy) Status(_ *gorm.DB, w io.Writer) error {
	_, err := fmt.Fprintf(w, "automigrate: %d models, no version table\n", len(AutoMigrateModels()))
	return err
}

type gooseLogger struct {
	log logger.Interface
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Infow(fmt.Sprintf(format, v...))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Errorw(fmt.Sprintf(format, v...))
}
