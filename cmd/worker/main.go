// Command worker runs only the periodic subscription sweep.
package main

import (
	"os"

	"learnhub/internal/interfaces/cli/worker"
)

func main() {
	cmd := worker.NewCommand()
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
