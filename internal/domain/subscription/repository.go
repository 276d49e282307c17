package subscription

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	vo "learnhub/internal/domain/subscription/valueobjects"
)

// SubscriptionRepository persists the aggregate. Implementations join the
// transaction carried by ctx, if any.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *Subscription) error
	// GetByID and GetBySID return nil, nil when no row matches.
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	// Update writes the subscription if the stored version still equals
	// subscription.Version(), and fails with ErrConcurrentModification otherwise.
	Update(ctx context.Context, subscription *Subscription) error
	Delete(ctx context.Context, id uint) error

	List(ctx context.Context, filter SubscriptionFilter) ([]*Subscription, int64, error)
	ListAccessibleByUser(ctx context.Context, userID uint, now time.Time) ([]*Subscription, error)

	ExistsSeatHolder(ctx context.Context, userID, courseID uint) (bool, error)
	CountSeatHolders(ctx context.Context, courseID uint) (int64, error)

	// FindExpiredActive pages through active subscriptions whose end date is
	// before now, ordered by ID and starting after afterID.
	FindExpiredActive(ctx context.Context, now time.Time, afterID uint, limit int) ([]*Subscription, error)
	// FindExpiringSoon pages through active, notification-enabled
	// subscriptions ending within window of now that have not been warned
	// for their current end date.
	FindExpiringSoon(ctx context.Context, now time.Time, window time.Duration, afterID uint, limit int) ([]*Subscription, error)

	Statistics(ctx context.Context) (*Statistics, error)
}

type SubscriptionFilter struct {
	UserID   *uint
	CourseID *uint
	Status   *vo.SubscriptionStatus
	Type     *vo.SubscriptionType
	Page     int
	PageSize int
	SortBy   string
	SortDesc bool
}

type Statistics struct {
	Total     int64
	ByStatus  map[vo.SubscriptionStatus]int64
	ByType    map[vo.SubscriptionType]int64
	Paid      int64
	SeatsHeld int64
	// Revenue is the paid net amount (price minus discount) per currency.
	Revenue map[string]decimal.Decimal
}

func NewStatistics() *Statistics {
	return &Statistics{
		ByStatus: make(map[vo.SubscriptionStatus]int64),
		ByType:   make(map[vo.SubscriptionType]int64),
		Revenue:  make(map[string]decimal.Decimal),
	}
}
