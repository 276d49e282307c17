// Package sweep runs one reconciliation pass on demand.
package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"learnhub/internal/interfaces/cli/bootstrap"
	httpRouter "learnhub/internal/interfaces/http"
)

var (
	env     string
	timeout time.Duration
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Subscription reconciliation",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (development, test, production)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Expire overdue subscriptions and send expiring-soon notices once",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	runCmd.Flags().DurationVar(&timeout, "timeout", 15*time.Minute, "Upper bound for the whole run")

	cmd.AddCommand(runCmd)
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	container, err := httpRouter.NewContainer(rt.DB, rt.Config, rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer container.Shutdown(context.Background())

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, runErr := container.ReconcileUseCase().Execute(ctx)
	if result == nil {
		return runErr
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result.ToDTO(runErr)); err != nil {
		return err
	}
	return runErr
}
