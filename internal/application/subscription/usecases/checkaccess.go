package usecases

import (
	"context"
	"fmt"
	"time"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/domain/subscription"
	"learnhub/internal/shared/biztime"
	"learnhub/internal/shared/logger"
)

const (
	maxAccessCacheTTL  = 5 * time.Minute
	denyAccessCacheTTL = 30 * time.Second
)

type CheckAccessQuery struct {
	UserID   uint
	CourseID uint
}

// CheckAccessUseCase decides whether a user may open a course right now,
// through either a course subscription or any period plan.
type CheckAccessUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	cache            AccessCache
	logger           logger.Interface
	now              func() time.Time
}

func NewCheckAccessUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *CheckAccessUseCase {
	return &CheckAccessUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
		now:              biztime.NowUTC,
	}
}

func (uc *CheckAccessUseCase) SetClock(now func() time.Time) {
	uc.now = now
}

// SetCache enables read-through caching of decisions.
func (uc *CheckAccessUseCase) SetCache(cache AccessCache) {
	uc.cache = cache
}

func (uc *CheckAccessUseCase) Execute(ctx context.Context, query CheckAccessQuery) (*dto.AccessDTO, error) {
	if uc.cache != nil {
		cached, ok, err := uc.cache.Get(ctx, query.UserID, query.CourseID)
		if err != nil {
			uc.logger.Warnw("access cache read failed", "error", err, "user_id", query.UserID)
		} else if ok {
			return cached, nil
		}
	}

	result, err := uc.decide(ctx, query)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, query.UserID, result, uc.cacheTTL(result)); err != nil {
			uc.logger.Warnw("access cache write failed", "error", err, "user_id", query.UserID)
		}
	}
	return result, nil
}

// cacheTTL never lets an entry outlive the end date it was derived from.
// Denials are kept only briefly.
func (uc *CheckAccessUseCase) cacheTTL(access *dto.AccessDTO) time.Duration {
	if !access.HasAccess {
		return denyAccessCacheTTL
	}
	ttl := maxAccessCacheTTL
	if access.ExpiresAt != nil {
		if until := access.ExpiresAt.Sub(uc.now()); until < ttl {
			ttl = until
		}
	}
	return ttl
}

func (uc *CheckAccessUseCase) decide(ctx context.Context, query CheckAccessQuery) (*dto.AccessDTO, error) {
	now := uc.now()
	subs, err := uc.subscriptionRepo.ListAccessibleByUser(ctx, query.UserID, now)
	if err != nil {
		uc.logger.Errorw("failed to list accessible subscriptions", "error", err, "user_id", query.UserID)
		return nil, fmt.Errorf("failed to check access: %w", err)
	}

	result := &dto.AccessDTO{
		CourseID: query.CourseID,
		Access:   string(subscription.AccessNone),
	}

	var best *subscription.Subscription
	bestLevel := subscription.AccessNone
	for _, sub := range subs {
		if !sub.CoversCourse(query.CourseID) {
			continue
		}
		level := sub.AccessAt(now)
		if !level.Allows() {
			continue
		}
		// Granted beats grace; among equals the later end date wins.
		if best == nil ||
			(level == subscription.AccessGranted && bestLevel != subscription.AccessGranted) ||
			(level == bestLevel && sub.EndDate().After(best.EndDate())) {
			best, bestLevel = sub, level
		}
	}

	if best != nil {
		end := best.EndDate()
		result.HasAccess = true
		result.Access = string(bestLevel)
		result.SubscriptionSID = best.SID()
		result.ExpiresAt = &end
	}
	return result, nil
}
