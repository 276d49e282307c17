package services

import (
	"context"
	"fmt"

	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/logger"
)

// NotificationDispatcher turns lifecycle changes into emails. Delivery is
// best effort: failures are logged and reported only through the returned
// bool, never as errors that could undo a committed transition.
type NotificationDispatcher struct {
	users    UserDirectory
	courses  CourseCatalog
	notifier NotificationService
	logger   logger.Interface
}

func NewNotificationDispatcher(
	users UserDirectory,
	courses CourseCatalog,
	notifier NotificationService,
	logger logger.Interface,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		users:    users,
		courses:  courses,
		notifier: notifier,
		logger:   logger,
	}
}

func (d *NotificationDispatcher) NotifyActivated(ctx context.Context, sub *subscription.Subscription) bool {
	return d.dispatch(ctx, sub, "activation", nil, d.notifier.SendActivation)
}

func (d *NotificationDispatcher) NotifyCancelled(ctx context.Context, sub *subscription.Subscription, immediate bool) bool {
	return d.dispatch(ctx, sub, "cancellation", func(n *Notice) {
		if r := sub.CancellationReason(); r != nil {
			n.Reason = *r
		}
		n.Immediate = immediate
	}, d.notifier.SendCancellation)
}

func (d *NotificationDispatcher) NotifyExpired(ctx context.Context, sub *subscription.Subscription) bool {
	return d.dispatch(ctx, sub, "expiration", nil, d.notifier.SendExpiration)
}

func (d *NotificationDispatcher) NotifyExpiringSoon(ctx context.Context, sub *subscription.Subscription) bool {
	return d.dispatch(ctx, sub, "expiring_soon", nil, d.notifier.SendExpiringSoon)
}

func (d *NotificationDispatcher) dispatch(
	ctx context.Context,
	sub *subscription.Subscription,
	kind string,
	decorate func(*Notice),
	send func(context.Context, Notice) error,
) bool {
	if !sub.EmailNotifications() {
		d.logger.Debugw("lifecycle email skipped, user opted out",
			"kind", kind,
			"subscription_sid", sub.SID(),
		)
		return false
	}

	notice, err := d.buildNotice(ctx, sub)
	if err != nil {
		d.logger.Warnw("failed to prepare lifecycle email",
			"error", err,
			"kind", kind,
			"subscription_sid", sub.SID(),
		)
		return false
	}
	if decorate != nil {
		decorate(notice)
	}

	if err := send(ctx, *notice); err != nil {
		d.logger.Warnw("failed to send lifecycle email",
			"error", err,
			"kind", kind,
			"subscription_sid", sub.SID(),
			"user_id", sub.UserID(),
		)
		return false
	}

	d.logger.Debugw("lifecycle email sent", "kind", kind, "subscription_sid", sub.SID())
	return true
}

func (d *NotificationDispatcher) buildNotice(ctx context.Context, sub *subscription.Subscription) (*Notice, error) {
	user, err := d.users.FindByID(ctx, sub.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %d not found", sub.UserID())
	}

	notice := &Notice{
		Email:           user.Email,
		Name:            user.Name,
		SubscriptionSID: sub.SID(),
		EndDate:         sub.EndDate(),
		Amount:          sub.NetAmount(),
		Currency:        sub.Currency(),
	}

	switch sub.Type() {
	case vo.TypeCourse:
		notice.Subject = "your course"
		if courseID := sub.CourseID(); courseID != nil {
			course, err := d.courses.FindByID(ctx, *courseID)
			if err != nil {
				return nil, fmt.Errorf("failed to get course: %w", err)
			}
			if course != nil {
				notice.Subject = course.Title
			}
		}
	case vo.TypePeriod:
		notice.Subject = "your learning plan"
		if p := sub.PeriodType(); p != nil {
			notice.Subject = fmt.Sprintf("your %d-month learning plan", p.Months())
		}
	}
	return notice, nil
}
