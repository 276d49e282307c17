package usecases

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/logger"
)

func TestGetStatistics(t *testing.T) {
	f := newFixture(t)
	f.put(t, f.courseSeed(vo.StatusActive, fixedNow.AddDate(0, 1, 0)))
	f.put(t, f.courseSeed(vo.StatusPending, fixedNow.AddDate(0, 1, 0)))
	f.put(t, f.periodSeed(vo.StatusExpired, fixedNow.AddDate(0, -1, 0)))

	out, err := NewGetStatisticsUseCase(f.repo, logger.NewNop()).Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, int64(1), out.ByStatus["active"])
	assert.Equal(t, int64(1), out.ByStatus["pending"])
	assert.Equal(t, int64(0), out.ByStatus["cancelled"])
	assert.Equal(t, int64(2), out.ByType["course"])
	assert.Equal(t, int64(2), out.Paid)
	assert.Equal(t, int64(2), out.SeatsHeld)
	assert.True(t, out.Revenue["USD"].Equal(decimal.NewFromInt(98)))
}
