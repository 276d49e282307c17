package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubscriptionDTO struct {
	SID                  string                 `json:"id"`
	UserID               uint                   `json:"user_id"`
	Type                 string                 `json:"subscription_type"`
	CourseID             *uint                  `json:"course_id,omitempty"`
	PeriodType           *string                `json:"period_type,omitempty"`
	Status               string                 `json:"status"`
	Access               string                 `json:"access"`
	StartDate            time.Time              `json:"start_date"`
	EndDate              time.Time              `json:"end_date"`
	Price                decimal.Decimal        `json:"price"`
	Currency             string                 `json:"currency"`
	DiscountAmount       *decimal.Decimal       `json:"discount_amount,omitempty"`
	DiscountCode         *string                `json:"discount_code,omitempty"`
	NetAmount            decimal.Decimal        `json:"net_amount"`
	IsPaid               bool                   `json:"is_paid"`
	PaymentMethod        *string                `json:"payment_method,omitempty"`
	PaymentTransactionID *string                `json:"payment_transaction_id,omitempty"`
	PaymentDate          *time.Time             `json:"payment_date,omitempty"`
	AutoRenewal          bool                   `json:"auto_renewal"`
	NextBillingDate      *time.Time             `json:"next_billing_date,omitempty"`
	ProgressPercentage   float64                `json:"progress_percentage"`
	CompletedLessons     int                    `json:"completed_lessons"`
	TotalLessons         int                    `json:"total_lessons"`
	LastAccessed         *time.Time             `json:"last_accessed,omitempty"`
	CancellationReason   *string                `json:"cancellation_reason,omitempty"`
	CancelledAt          *time.Time             `json:"cancelled_at,omitempty"`
	EmailNotifications   bool                   `json:"email_notifications"`
	Metadata             map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt            time.Time              `json:"created_at"`
	UpdatedAt            time.Time              `json:"updated_at"`
}

type ListSubscriptionsResult struct {
	Subscriptions []*SubscriptionDTO `json:"subscriptions"`
	Total         int64              `json:"total"`
	Page          int                `json:"page"`
	PageSize      int                `json:"page_size"`
}

type StatisticsDTO struct {
	Total     int64                      `json:"total"`
	ByStatus  map[string]int64           `json:"by_status"`
	ByType    map[string]int64           `json:"by_type"`
	Paid      int64                      `json:"paid"`
	SeatsHeld int64                      `json:"seats_held"`
	Revenue   map[string]decimal.Decimal `json:"revenue"`
}

// AccessDTO answers whether a user may open a course right now.
type AccessDTO struct {
	CourseID        uint       `json:"course_id"`
	HasAccess       bool       `json:"has_access"`
	Access          string     `json:"access"`
	SubscriptionSID string     `json:"subscription_id,omitempty"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type SweepResultDTO struct {
	ExpiredCount  int     `json:"expired_count"`
	NotifiedCount int     `json:"notified_count"`
	Failed        int     `json:"failed"`
	DurationMs    int64   `json:"duration_ms"`
	Skipped       bool    `json:"skipped"`
	Errors        *string `json:"errors,omitempty"`
}

type SeatRecountDTO struct {
	CourseID        uint  `json:"course_id"`
	CurrentStudents int64 `json:"current_students"`
}
