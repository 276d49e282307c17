package main

import (
	"os"

	"github.com/spf13/cobra"

	"learnhub/internal/interfaces/cli/migrate"
	"learnhub/internal/interfaces/cli/seats"
	"learnhub/internal/interfaces/cli/server"
	"learnhub/internal/interfaces/cli/sweep"
	"learnhub/internal/interfaces/cli/worker"
	"learnhub/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "learnhub",
		Short:        "LearnHub subscription service",
		Long:         `LearnHub manages course and period subscriptions: enrollment, payment activation, cancellation, renewal and the periodic expiry sweep.`,
		Version:      version.Get().Version,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		worker.NewCommand(),
		migrate.NewCommand(),
		sweep.NewCommand(),
		seats.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
