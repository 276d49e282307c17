package valueobjects

import (
	"fmt"
	"strings"
)

type PeriodType string

const (
	Period1Month   PeriodType = "1_month"
	Period3Months  PeriodType = "3_months"
	Period6Months  PeriodType = "6_months"
	Period12Months PeriodType = "12_months"
)

var periodMonths = map[PeriodType]int{
	Period1Month:   1,
	Period3Months:  3,
	Period6Months:  6,
	Period12Months: 12,
}

// PeriodTypes returns the accepted values in ascending length.
func PeriodTypes() []PeriodType {
	return []PeriodType{Period1Month, Period3Months, Period6Months, Period12Months}
}

func ParsePeriodType(value string) (PeriodType, error) {
	p := PeriodType(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := periodMonths[p]; !ok {
		return "", fmt.Errorf("invalid period type: %s", value)
	}
	return p, nil
}

func (p PeriodType) String() string {
	return string(p)
}

func (p PeriodType) IsValid() bool {
	_, ok := periodMonths[p]
	return ok
}

// Months returns the calendar months the period covers, or 0 when invalid.
func (p PeriodType) Months() int {
	return periodMonths[p]
}
