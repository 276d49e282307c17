package services

import (
	"context"
	"fmt"

	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

// CapacityCoordinator is the only writer of a course's seat counter. Every
// change goes through a guarded single-statement update so the counter can
// neither exceed the course limit nor drop below zero. Callers run it inside
// the same transaction as the subscription write.
type CapacityCoordinator struct {
	catalog          CourseCatalog
	subscriptionRepo subscription.SubscriptionRepository
	metrics          MetricsRecorder
	logger           logger.Interface
}

func NewCapacityCoordinator(
	catalog CourseCatalog,
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *CapacityCoordinator {
	return &CapacityCoordinator{
		catalog:          catalog,
		subscriptionRepo: subscriptionRepo,
		metrics:          NopMetrics(),
		logger:           logger,
	}
}

func (c *CapacityCoordinator) SetMetrics(m MetricsRecorder) {
	if m != nil {
		c.metrics = m
	}
}

// Reserve takes one seat, failing with a bad request when the course is full.
func (c *CapacityCoordinator) Reserve(ctx context.Context, courseID uint) error {
	applied, err := c.catalog.AdjustSeatCount(ctx, courseID, 1)
	if err != nil {
		c.logger.Errorw("failed to reserve seat", "error", err, "course_id", courseID)
		return fmt.Errorf("failed to reserve seat: %w", err)
	}
	if !applied {
		c.logger.Infow("seat reservation rejected, course is full", "course_id", courseID)
		return errors.NewBadRequestError("course capacity exceeded")
	}
	return nil
}

// Release gives one seat back. Releasing on an empty counter is a no-op.
func (c *CapacityCoordinator) Release(ctx context.Context, courseID uint) error {
	applied, err := c.catalog.AdjustSeatCount(ctx, courseID, -1)
	if err != nil {
		c.logger.Errorw("failed to release seat", "error", err, "course_id", courseID)
		return fmt.Errorf("failed to release seat: %w", err)
	}
	if !applied {
		c.metrics.RecordSeatReleaseClamped()
		c.logger.Warnw("seat release skipped, counter already at zero", "course_id", courseID)
	}
	return nil
}

// Recount rebuilds the counter from the pending and active course
// subscriptions and returns the new value.
func (c *CapacityCoordinator) Recount(ctx context.Context, courseID uint) (int64, error) {
	course, err := c.catalog.FindByID(ctx, courseID)
	if err != nil {
		return 0, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return 0, errors.NewNotFoundError("course not found")
	}

	holders, err := c.subscriptionRepo.CountSeatHolders(ctx, courseID)
	if err != nil {
		c.logger.Errorw("failed to count seat holders", "error", err, "course_id", courseID)
		return 0, fmt.Errorf("failed to count seat holders: %w", err)
	}

	if int64(course.CurrentStudents) == holders {
		return holders, nil
	}
	if err := c.catalog.SetSeatCount(ctx, courseID, holders); err != nil {
		c.logger.Errorw("failed to set seat count", "error", err, "course_id", courseID)
		return 0, fmt.Errorf("failed to set seat count: %w", err)
	}

	c.logger.Warnw("seat counter drift corrected",
		"course_id", courseID,
		"previous", course.CurrentStudents,
		"recounted", holders,
	)
	return holders, nil
}
