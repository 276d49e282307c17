package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"learnhub/internal/domain/subscription"
)

// User is the subset of the platform's user record the lifecycle needs.
type User struct {
	ID    uint
	Email string
	Name  string
}

// UserDirectory resolves users owned by the platform's identity store.
type UserDirectory interface {
	// FindByID returns nil, nil when the user does not exist.
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindByEmail returns nil, nil when no user has the address. It is part
	// of the directory contract offered to the platform; lifecycle operations
	// look users up by id only.
	FindByEmail(ctx context.Context, email string) (*User, error)
}

// Course is the catalog view of a course relevant to enrollment.
type Course struct {
	ID              uint
	Title           string
	IsPublished     bool
	IsActive        bool
	MaxStudents     int
	CurrentStudents int
	LessonsCount    int
}

// AcceptsEnrollment reports whether new subscriptions may be created.
func (c *Course) AcceptsEnrollment() bool {
	return c.IsPublished && c.IsActive
}

// IsFull reports whether the seat limit is reached. Zero means unlimited.
func (c *Course) IsFull() bool {
	return c.MaxStudents > 0 && c.CurrentStudents >= c.MaxStudents
}

// CourseCatalog reads courses and maintains their seat counters.
type CourseCatalog interface {
	// FindByID returns nil, nil when the course does not exist.
	FindByID(ctx context.Context, id uint) (*Course, error)
	// AdjustSeatCount changes current_students by delta in a single guarded
	// update. applied is false when the guard rejected the change: a
	// decrement below zero, or an increment on a full course.
	AdjustSeatCount(ctx context.Context, courseID uint, delta int) (applied bool, err error)
	// SetSeatCount overwrites current_students.
	SetSeatCount(ctx context.Context, courseID uint, count int64) error
}

// Notice carries the data lifecycle emails are rendered from.
type Notice struct {
	Email           string
	Name            string
	SubscriptionSID string
	Subject         string
	EndDate         time.Time
	Amount          decimal.Decimal
	Currency        string
	Reason          string
	Immediate       bool
}

// NotificationService delivers lifecycle emails.
type NotificationService interface {
	SendActivation(ctx context.Context, n Notice) error
	SendCancellation(ctx context.Context, n Notice) error
	SendExpiration(ctx context.Context, n Notice) error
	SendExpiringSoon(ctx context.Context, n Notice) error
}

// MetricsRecorder receives lifecycle counters.
type MetricsRecorder interface {
	RecordTransition(change subscription.ChangeType)
	RecordSweep(expired, notified, failed int, duration time.Duration)
	RecordSeatReleaseClamped()
}

type nopMetrics struct{}

// NopMetrics discards all measurements.
func NopMetrics() MetricsRecorder {
	return nopMetrics{}
}

func (nopMetrics) RecordTransition(subscription.ChangeType) {}

func (nopMetrics) RecordSweep(int, int, int, time.Duration) {}

func (nopMetrics) RecordSeatReleaseClamped() {}
