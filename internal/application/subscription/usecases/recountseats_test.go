package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "learnhub/internal/domain/subscription/valueobjects"
	apperrors "learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

func TestRecountSeats_CorrectsDrift(t *testing.T) {
	f := newFixture(t)
	f.put(t, f.courseSeed(vo.StatusActive, fixedNow.AddDate(0, 1, 0)))
	f.put(t, f.courseSeed(vo.StatusPending, fixedNow.AddDate(0, 1, 0)))
	f.put(t, f.courseSeed(vo.StatusCancelled, fixedNow.AddDate(0, 1, 0)))
	f.setSeats(9)

	uc := NewRecountSeatsUseCase(f.capacity, f.store.TxRunner(), logger.NewNop())
	out, err := uc.Execute(context.Background(), RecountSeatsCommand{CourseID: courseID})
	require.NoError(t, err)

	assert.Equal(t, int64(2), out.CurrentStudents)
	assert.Equal(t, 2, f.seats())
}

func TestRecountSeats_UnknownCourse(t *testing.T) {
	f := newFixture(t)
	uc := NewRecountSeatsUseCase(f.capacity, f.store.TxRunner(), logger.NewNop())

	_, err := uc.Execute(context.Background(), RecountSeatsCommand{CourseID: 12345})

	assert.True(t, apperrors.IsNotFoundError(err))
}
