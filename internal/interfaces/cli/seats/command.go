// Package seats repairs course seat counters.
package seats

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"learnhub/internal/application/subscription/usecases"
	"learnhub/internal/interfaces/cli/bootstrap"
	httpRouter "learnhub/internal/interfaces/http"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seats",
		Short: "Course seat accounting",
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (development, test, production)")

	cmd.AddCommand(&cobra.Command{
		Use:   "recount <course-id>",
		Short: "Recompute a course's seat counter from its pending and active subscriptions",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecount,
	})
	return cmd
}

func runRecount(cmd *cobra.Command, args []string) error {
	courseID, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || courseID == 0 {
		return fmt.Errorf("invalid course id %q", args[0])
	}

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

	result, err := container.RecountSeatsUseCase().Execute(cmd.Context(), usecases.RecountSeatsCommand{CourseID: uint(courseID)})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "course %d: %d seat(s) held\n", result.CourseID, result.CurrentStudents)
	return nil
}
