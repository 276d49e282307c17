package dto

import (
	"time"

	"github.com/samber/lo"

	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
)

// ToSubscriptionDTO converts the aggregate, evaluating access at now.
func ToSubscriptionDTO(sub *subscription.Subscription, now time.Time) *SubscriptionDTO {
	if sub == nil {
		return nil
	}

	var period *string
	if p := sub.PeriodType(); p != nil {
		period = lo.ToPtr(p.String())
	}

	return &SubscriptionDTO{
		SID:                  sub.SID(),
		UserID:               sub.UserID(),
		Type:                 sub.Type().String(),
		CourseID:             sub.CourseID(),
		PeriodType:           period,
		Status:               sub.Status().String(),
		Access:               string(sub.AccessAt(now)),
		StartDate:            sub.StartDate(),
		EndDate:              sub.EndDate(),
		Price:                sub.Price(),
		Currency:             sub.Currency(),
		DiscountAmount:       sub.DiscountAmount(),
		DiscountCode:         sub.DiscountCode(),
		NetAmount:            sub.NetAmount(),
		IsPaid:               sub.IsPaid(),
		PaymentMethod:        sub.PaymentMethod(),
		PaymentTransactionID: sub.PaymentTransactionID(),
		PaymentDate:          sub.PaymentDate(),
		AutoRenewal:          sub.AutoRenewal(),
		NextBillingDate:      sub.NextBillingDate(),
		ProgressPercentage:   sub.ProgressPercentage(),
		CompletedLessons:     sub.CompletedLessons(),
		TotalLessons:         sub.TotalLessons(),
		LastAccessed:         sub.LastAccessed(),
		CancellationReason:   sub.CancellationReason(),
		CancelledAt:          sub.CancelledAt(),
		EmailNotifications:   sub.EmailNotifications(),
		Metadata:             lo.Ternary(len(sub.Metadata()) > 0, sub.Metadata(), nil),
		CreatedAt:            sub.CreatedAt(),
		UpdatedAt:            sub.UpdatedAt(),
	}
}

func ToSubscriptionDTOList(subs []*subscription.Subscription, now time.Time) []*SubscriptionDTO {
	return lo.Map(subs, func(s *subscription.Subscription, _ int) *SubscriptionDTO {
		return ToSubscriptionDTO(s, now)
	})
}

func ToStatisticsDTO(stats *subscription.Statistics) *StatisticsDTO {
	out := &StatisticsDTO{
		Total:     stats.Total,
		Paid:      stats.Paid,
		SeatsHeld: stats.SeatsHeld,
		ByStatus:  lo.MapKeys(stats.ByStatus, func(_ int64, k vo.SubscriptionStatus) string { return k.String() }),
		ByType:    lo.MapKeys(stats.ByType, func(_ int64, k vo.SubscriptionType) string { return k.String() }),
		Revenue:   stats.Revenue,
	}
	for _, s := range lo.Keys(vo.ValidStatuses) {
		if _, ok := out.ByStatus[s.String()]; !ok {
			out.ByStatus[s.String()] = 0
		}
	}
	return out
}
