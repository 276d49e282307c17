package usecases

import (
	"context"
	"time"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/domain/subscription"
)

// TransactionRunner runs fn in a single database transaction carried by ctx.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// LifecycleEventPublisher broadcasts committed lifecycle changes.
type LifecycleEventPublisher interface {
	Publish(ctx context.Context, event subscription.LifecycleEvent) error
}

// SweepLock keeps concurrent reconciliation runs from overlapping across
// processes. release is non-nil whenever acquired is true.
type SweepLock interface {
	TryAcquire(ctx context.Context, ttl time.Duration) (acquired bool, release func(), err error)
}

// AccessCache memoises access decisions per user and course. Entries are
// dropped when a lifecycle event for the user arrives.
type AccessCache interface {
	Get(ctx context.Context, userID, courseID uint) (*dto.AccessDTO, bool, error)
	Set(ctx context.Context, userID uint, access *dto.AccessDTO, ttl time.Duration) error
}
