package subscription

import (
	"time"

	vo "learnhub/internal/domain/subscription/valueobjects"
)

type AccessLevel string

const (
	AccessNone    AccessLevel = "none"
	AccessGranted AccessLevel = "granted"
	// AccessGrace is a soft-cancelled subscription still inside its paid period.
	AccessGrace AccessLevel = "grace"
)

func (a AccessLevel) Allows() bool {
	return a == AccessGranted || a == AccessGrace
}

// AccessAt evaluates content access at the given instant.
func (s *Subscription) AccessAt(now time.Time) AccessLevel {
	if !s.endDate.After(now) {
		return AccessNone
	}
	switch s.status {
	case vo.StatusActive:
		return AccessGranted
	case vo.StatusCancelled:
		return AccessGrace
	default:
		return AccessNone
	}
}

// CoversCourse reports whether the subscription can give access to courseID:
// a course subscription for that course, or any period subscription.
func (s *Subscription) CoversCourse(courseID uint) bool {
	if s.subscriptionType == vo.TypePeriod {
		return true
	}
	return s.courseID != nil && *s.courseID == courseID
}
