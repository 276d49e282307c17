package valueobjects

import (
	"fmt"
	"strings"
)

type SubscriptionStatus string

const (
	StatusPending   SubscriptionStatus = "pending"
	StatusActive    SubscriptionStatus = "active"
	StatusCancelled SubscriptionStatus = "cancelled"
	StatusExpired   SubscriptionStatus = "expired"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusPending:   true,
	StatusActive:    true,
	StatusCancelled: true,
	StatusExpired:   true,
}

// transitions lists every edge of the lifecycle. Re-activating an active
// subscription is allowed and overwrites its payment details.
var transitions = map[SubscriptionStatus][]SubscriptionStatus{
	StatusPending:   {StatusActive, StatusCancelled},
	StatusActive:    {StatusActive, StatusCancelled, StatusExpired},
	StatusExpired:   {StatusActive, StatusCancelled},
	StatusCancelled: {},
}

func ParseStatus(value string) (SubscriptionStatus, error) {
	s := SubscriptionStatus(strings.ToLower(strings.TrimSpace(value)))
	if !ValidStatuses[s] {
		return "", fmt.Errorf("invalid subscription status: %s", value)
	}
	return s, nil
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// HoldsSeat reports whether a course subscription in this status occupies a seat.
func (s SubscriptionStatus) HoldsSeat() bool {
	return s == StatusPending || s == StatusActive
}

func (s SubscriptionStatus) IsTerminal() bool {
	return len(transitions[s]) == 0
}
