package subscription

import (
	"time"

	vo "learnhub/internal/domain/subscription/valueobjects"
)

// ExpiryWarningWindow is both the lead time of nextBillingDate before the end
// of a period and the look-ahead of the expiring-soon warning.
const ExpiryWarningWindow = 7 * 24 * time.Hour

// AddMonths adds n calendar months to t. When the day of month does not exist
// in the target month it is clamped to the month's last day, so
// 2024-01-31 + 1 month is 2024-02-29. Time of day and location are kept.
func AddMonths(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	first := time.Date(year, month+time.Month(n), 1, 0, 0, 0, 0, t.Location())
	if last := daysIn(first.Year(), first.Month(), t.Location()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}

// EndDateFor returns the end of a period of the given type starting at start.
func EndDateFor(start time.Time, period vo.PeriodType) time.Time {
	return AddMonths(start, period.Months())
}

// NextBillingDate is the instant the next auto-renewal charge is due.
func NextBillingDate(endDate time.Time) time.Time {
	return endDate.Add(-ExpiryWarningWindow)
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}
