package migrate

import (
	"fmt"

	"github.com/spf13/cobra"

	"learnhub/internal/infrastructure/migration"
	"learnhub/internal/interfaces/cli/bootstrap"
)

var (
	env   string
	steps int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration tools",
		Long:  `Apply, roll back and inspect the embedded SQL migrations for the configured database driver.`,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (development, test, production)")

	cmd.AddCommand(
		newUpCommand(),
		newDownCommand(),
		newStatusCommand(),
	)

	return cmd
}

func newUpCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Run all pending migrations",
		Args:  cobra.NoArgs,
		RunE:  runUp,
	}
}

func newDownCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		Args:  cobra.NoArgs,
		RunE:  runDown,
	}

	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	return cmd
}

func newStatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		Args:  cobra.NoArgs,
		RunE:  runStatus,
	}
}

// newManager always uses the versioned scripts; AutoMigrate is reserved for
// the server's debug mode.
func newManager(rt *bootstrap.Runtime) (*migration.Manager, error) {
	strategy, err := migration.NewGooseStrategy(rt.Config.Database.Driver, rt.Logger)
	if err != nil {
		return nil, err
	}
	return migration.NewManagerWithStrategy(strategy, rt.Logger), nil
}

func runUp(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	manager, err := newManager(rt)
	if err != nil {
		return err
	}
	if err := manager.Migrate(rt.DB); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	manager, err := newManager(rt)
	if err != nil {
		return err
	}
	if err := manager.Down(rt.DB, steps); err != nil {
		return fmt.Errorf("down migration failed: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "rolled back %d migration(s)\n", steps)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	manager, err := newManager(rt)
	if err != nil {
		return err
	}
	return manager.Status(rt.DB, cmd.OutOrStdout())
}
