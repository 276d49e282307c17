package usecases

import (
	"context"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/shared/logger"
)

type RecountSeatsCommand struct {
	CourseID uint
}

// RecountSeatsUseCase rebuilds a course's seat counter from its subscriptions.
type RecountSeatsUseCase struct {
	capacity *services.CapacityCoordinator
	txRunner TransactionRunner
	logger   logger.Interface
}

func NewRecountSeatsUseCase(
	capacity *services.CapacityCoordinator,
	txRunner TransactionRunner,
	logger logger.Interface,
) *RecountSeatsUseCase {
	return &RecountSeatsUseCase{
		capacity: capacity,
		txRunner: txRunner,
		logger:   logger,
	}
}

func (uc *RecountSeatsUseCase) Execute(ctx context.Context, cmd RecountSeatsCommand) (*dto.SeatRecountDTO, error) {
	var count int64
	err := uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		count, err = uc.capacity.Recount(txCtx, cmd.CourseID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("course seats recounted", "course_id", cmd.CourseID, "current_students", count)
	return &dto.SeatRecountDTO{CourseID: cmd.CourseID, CurrentStudents: count}, nil
}
