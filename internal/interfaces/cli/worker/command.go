// Package worker runs the reconciliation scheduler without the HTTP API.
package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"learnhub/internal/interfaces/cli/bootstrap"
	httpRouter "learnhub/internal/interfaces/http"
	"learnhub/internal/shared/version"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the periodic subscription sweep",
		Args:  cobra.NoArgs,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "", "Environment (development, test, production)")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	rt, err := bootstrap.Init(env)
	if err != nil {
		return err
	}
	defer rt.Close()

	if !rt.Config.Subscription.Sweep.Enabled {
		return errors.New("subscription.sweep.enabled is false, nothing to run")
	}

	container, err := httpRouter.NewContainer(rt.DB, rt.Config, rt.Logger)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}

	rt.Logger.Infow("starting worker",
		"version", version.Get().Version,
		"interval", rt.Config.Subscription.Sweep.Interval,
	)
	container.StartBackground(true)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	sig := <-quit

	rt.Logger.Infow("stopping worker", "signal", sig.String())

	// A sweep in flight gets up to two pass timeouts to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 2*rt.Config.Subscription.Sweep.PassTimeout+10*time.Second)
	defer cancel()
	return container.Shutdown(ctx)
}
