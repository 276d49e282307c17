package subscription

import (
	"math"
	"strings"
	"time"

	vo "learnhub/internal/domain/subscription/valueobjects"
)

// Transitions are pure: they validate against the receiver and return a
// modified copy, leaving the receiver untouched. The version is not bumped
// here; the repository compares it on write and increments the stored row.

type ActivationDetails struct {
	TransactionID string
	PaymentMethod *string
	Metadata      map[string]interface{}
}

// Activate records a confirmed payment. Calling it again on an active
// subscription overwrites the payment fields.
func (s *Subscription) Activate(d ActivationDetails, now time.Time) (*Subscription, error) {
	if err := s.checkTransition(vo.StatusActive); err != nil {
		return nil, err
	}
	if s.status == vo.StatusExpired {
		return nil, ErrInvalidTransition(s.status.String(), vo.StatusActive.String())
	}
	txID := strings.TrimSpace(d.TransactionID)
	if txID == "" {
		return nil, invalid("payment transaction ID is required")
	}

	next := s.clone(now)
	next.status = vo.StatusActive
	next.isPaid = true
	next.paymentTransactionID = &txID
	if method := normalizeOptional(d.PaymentMethod); method != nil {
		next.paymentMethod = method
	}
	next.paymentDate = &now
	for k, v := range d.Metadata {
		next.metadata[k] = v
	}
	return next, nil
}

type CancellationDetails struct {
	Reason    string
	ActorID   uint
	Immediate bool
}

// Cancel moves the subscription to the terminal cancelled state. A soft
// cancel keeps the end date so access continues until then; an immediate
// cancel ends the period now.
func (s *Subscription) Cancel(d CancellationDetails, now time.Time) (*Subscription, error) {
	if err := s.checkTransition(vo.StatusCancelled); err != nil {
		return nil, err
	}

	next := s.clone(now)
	next.status = vo.StatusCancelled
	next.cancelledAt = &now
	actor := d.ActorID
	next.cancelledBy = &actor
	reason := d.Reason
	next.cancellationReason = normalizeOptional(&reason)
	next.autoRenewal = false
	next.nextBillingDate = nil

	if d.Immediate && now.Before(next.endDate) {
		next.endDate = now
		if !next.endDate.After(next.startDate) {
			next.endDate = next.startDate.Add(time.Second)
		}
	}
	return next, nil
}

type RenewalDetails struct {
	PeriodType  vo.PeriodType
	AutoRenewal bool
}

// Renew extends the end date by the period's months counted from the stored
// end date, even when that date is already in the past.
func (s *Subscription) Renew(d RenewalDetails, now time.Time) (*Subscription, error) {
	if !d.PeriodType.IsValid() {
		return nil, invalid("invalid period type: %s", d.PeriodType)
	}
	if err := s.checkTransition(vo.StatusActive); err != nil {
		return nil, err
	}

	next := s.clone(now)
	next.endDate = EndDateFor(s.endDate, d.PeriodType)
	next.status = vo.StatusActive
	next.autoRenewal = d.AutoRenewal
	next.nextBillingDate = nil
	if d.AutoRenewal {
		billing := NextBillingDate(next.endDate)
		next.nextBillingDate = &billing
	}
	if next.subscriptionType == vo.TypePeriod {
		period := d.PeriodType
		next.periodType = &period
	}
	next.expiryWarnedAt = nil
	return next, nil
}

// Expire ends an active subscription whose end date has passed.
func (s *Subscription) Expire(now time.Time) (*Subscription, error) {
	if err := s.checkTransition(vo.StatusExpired); err != nil {
		return nil, err
	}
	if !s.endDate.Before(now) {
		return nil, ErrNotYetEnded
	}

	next := s.clone(now)
	next.status = vo.StatusExpired
	next.nextBillingDate = nil
	return next, nil
}

// MarkExpiryWarned records that the expiring-soon notice for the current end
// date has been delivered.
func (s *Subscription) MarkExpiryWarned(now time.Time) *Subscription {
	next := s.clone(now)
	next.expiryWarnedAt = &now
	return next
}

// NeedsExpiryWarning reports whether an expiring-soon notice is due at now.
// One notice is sent per end date; renewing re-arms it.
func (s *Subscription) NeedsExpiryWarning(now time.Time) bool {
	if s.status != vo.StatusActive || !s.emailNotifications {
		return false
	}
	if s.endDate.Before(now) || s.endDate.After(now.Add(ExpiryWarningWindow)) {
		return false
	}
	return s.expiryWarnedAt == nil || s.expiryWarnedAt.Before(s.endDate.Add(-ExpiryWarningWindow))
}

type PreferenceChanges struct {
	AutoRenewal        *bool
	EmailNotifications *bool
}

func (s *Subscription) UpdatePreferences(c PreferenceChanges, now time.Time) (*Subscription, error) {
	next := s.clone(now)
	if c.AutoRenewal != nil {
		if *c.AutoRenewal && s.status == vo.StatusCancelled {
			return nil, ErrSubscriptionCancelled
		}
		next.autoRenewal = *c.AutoRenewal
		next.nextBillingDate = nil
		if next.autoRenewal {
			billing := NextBillingDate(next.endDate)
			next.nextBillingDate = &billing
		}
	}
	if c.EmailNotifications != nil {
		next.emailNotifications = *c.EmailNotifications
	}
	return next, nil
}

// RecordProgress clamps completed lessons to [0, totalLessons] and derives
// the percentage rounded to two decimals.
func (s *Subscription) RecordProgress(completedLessons *int, accessed bool, now time.Time) *Subscription {
	next := s.clone(now)
	if completedLessons != nil {
		completed := *completedLessons
		if completed < 0 {
			completed = 0
		}
		if completed > next.totalLessons {
			completed = next.totalLessons
		}
		next.completedLessons = completed
		next.progressPercentage = 0
		if next.totalLessons > 0 {
			pct := float64(completed) / float64(next.totalLessons) * 100
			next.progressPercentage = math.Round(pct*100) / 100
		}
	}
	if accessed {
		next.lastAccessed = &now
	}
	return next
}

func (s *Subscription) checkTransition(target vo.SubscriptionStatus) error {
	if s.status == vo.StatusCancelled {
		return ErrSubscriptionCancelled
	}
	if !s.status.CanTransitionTo(target) {
		return ErrInvalidTransition(s.status.String(), target.String())
	}
	return nil
}

func (s *Subscription) clone(now time.Time) *Subscription {
	next := *s
	next.metadata = s.Metadata()
	next.updatedAt = now
	return &next
}
