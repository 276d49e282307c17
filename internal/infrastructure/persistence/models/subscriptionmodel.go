package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"learnhub/internal/shared/constants"
)

// SubscriptionModel represents the database persistence model for subscriptions
type SubscriptionModel struct {
	ID                   uint             `gorm:"primarykey"`
	SID                  string           `gorm:"column:sid;uniqueIndex;not null;size:50"`
	UserID               uint             `gorm:"not null;index:idx_subscription_user"`
	SubscriptionType     string           `gorm:"not null;size:20"`
	CourseID             *uint            `gorm:"index:idx_subscription_course"`
	PeriodType           *string          `gorm:"size:20"`
	StartDate            time.Time        `gorm:"not null"`
	EndDate              time.Time        `gorm:"not null;index:idx_subscription_status_end,priority:2"`
	Status               string           `gorm:"not null;size:20;index:idx_subscription_status_end,priority:1"`
	Price                decimal.Decimal  `gorm:"type:decimal(10,2);not null"`
	Currency             string           `gorm:"not null;size:3"`
	DiscountAmount       *decimal.Decimal `gorm:"type:decimal(10,2)"`
	DiscountCode         *string          `gorm:"size:50"`
	IsPaid               bool             `gorm:"not null"`
	PaymentMethod        *string          `gorm:"size:50"`
	PaymentTransactionID *string          `gorm:"size:255;index"`
	PaymentDate          *time.Time
	AutoRenewal          bool `gorm:"not null"`
	NextBillingDate      *time.Time
	ProgressPercentage   float64 `gorm:"type:decimal(5,2);not null"`
	CompletedLessons     int     `gorm:"not null"`
	TotalLessons         int     `gorm:"not null"`
	LastAccessed         *time.Time
	CancellationReason   *string `gorm:"size:500"`
	CancelledAt          *time.Time
	CancelledBy          *uint
	EmailNotifications   bool `gorm:"not null"`
	ExpiryWarnedAt       *time.Time
	Metadata             datatypes.JSON
	Version              int `gorm:"not null;default:1"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// TableName specifies the table name for GORM
func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}

// BeforeCreate hook for GORM
func (s *SubscriptionModel) BeforeCreate(tx *gorm.DB) error {
	if s.Version == 0 {
		s.Version = 1
	}
	return nil
}
