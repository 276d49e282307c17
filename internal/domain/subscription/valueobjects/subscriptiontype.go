package valueobjects

import (
	"fmt"
	"strings"
)

type SubscriptionType string

const (
	TypeCourse SubscriptionType = "course"
	TypePeriod SubscriptionType = "period"
)

func ParseSubscriptionType(value string) (SubscriptionType, error) {
	t := SubscriptionType(strings.ToLower(strings.TrimSpace(value)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid subscription type: %s", value)
	}
	return t, nil
}

func (t SubscriptionType) String() string {
	return string(t)
}

func (t SubscriptionType) IsValid() bool {
	return t == TypeCourse || t == TypePeriod
}
