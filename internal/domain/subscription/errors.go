package subscription

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidSubscription     = errors.New("invalid subscription")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrSubscriptionCancelled   = errors.New("subscription cancelled")
	ErrNotYetEnded             = errors.New("subscription has not reached its end date")
	ErrConcurrentModification  = errors.New("subscription was modified concurrently")
)

func ErrInvalidTransition(from, to string) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidStatusTransition, from, to)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSubscription, fmt.Sprintf(format, args...))
}
