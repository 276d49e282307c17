package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
)

func TestToSubscriptionDTO_GraceAccess(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	period := vo.Period3Months
	sub, err := subscription.ReconstructSubscription(subscription.ReconstructParams{
		ID: 9, SID: "sub_dto", UserID: 3, Type: vo.TypePeriod, PeriodType: &period,
		Status: vo.StatusCancelled, StartDate: now.AddDate(0, -1, 0), EndDate: now.AddDate(0, 2, 0),
		Price: decimal.NewFromInt(90), Currency: "EUR", IsPaid: true, Version: 2,
	})
	require.NoError(t, err)

	out := ToSubscriptionDTO(sub, now)

	assert.Equal(t, "sub_dto", out.SID)
	assert.Equal(t, "grace", out.Access)
	require.NotNil(t, out.PeriodType)
	assert.Equal(t, "3_months", *out.PeriodType)
	assert.Nil(t, out.Metadata)
	assert.True(t, out.NetAmount.Equal(decimal.NewFromInt(90)))
}

func TestToStatisticsDTO_FillsMissingStatuses(t *testing.T) {
	stats := subscription.NewStatistics()
	stats.Total = 1
	stats.ByStatus[vo.StatusActive] = 1
	stats.ByType[vo.TypeCourse] = 1

	out := ToStatisticsDTO(stats)

	assert.Equal(t, int64(1), out.ByStatus["active"])
	assert.Equal(t, int64(0), out.ByStatus["expired"])
	assert.Len(t, out.ByStatus, 4)
	assert.Equal(t, int64(1), out.ByType["course"])
}
