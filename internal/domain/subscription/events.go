package subscription

import "time"

type ChangeType string

const (
	ChangeCreated   ChangeType = "created"
	ChangeActivated ChangeType = "activated"
	ChangeCancelled ChangeType = "cancelled"
	ChangeRenewed   ChangeType = "renewed"
	ChangeExpired   ChangeType = "expired"
	ChangeDeleted   ChangeType = "deleted"
	ChangeUpdated   ChangeType = "updated"
)

// LifecycleEvent is broadcast after a committed state change so that
// course-access caches elsewhere can invalidate.
type LifecycleEvent struct {
	SubscriptionSID string     `json:"subscription_sid"`
	UserID          uint       `json:"user_id"`
	CourseID        *uint      `json:"course_id,omitempty"`
	Status          string     `json:"status"`
	ChangeType      ChangeType `json:"change_type"`
	EndDate         time.Time  `json:"end_date"`
	Timestamp       int64      `json:"timestamp"`
}

func NewLifecycleEvent(s *Subscription, change ChangeType, now time.Time) LifecycleEvent {
	return LifecycleEvent{
		SubscriptionSID: s.SID(),
		UserID:          s.UserID(),
		CourseID:        s.CourseID(),
		Status:          s.Status().String(),
		ChangeType:      change,
		EndDate:         s.EndDate(),
		Timestamp:       now.Unix(),
	}
}
