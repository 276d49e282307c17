package subscription

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/id"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Subscription is the aggregate root for a user's paid access to either a
// single course or a time-bounded plan. Lifecycle changes never mutate the
// receiver; they return a new value (see transitions.go).
type Subscription struct {
	id                   uint
	sid                  string
	userID               uint
	subscriptionType     vo.SubscriptionType
	courseID             *uint
	periodType           *vo.PeriodType
	startDate            time.Time
	endDate              time.Time
	status               vo.SubscriptionStatus
	price                decimal.Decimal
	currency             string
	discountAmount       *decimal.Decimal
	discountCode         *string
	isPaid               bool
	paymentMethod        *string
	paymentTransactionID *string
	paymentDate          *time.Time
	autoRenewal          bool
	nextBillingDate      *time.Time
	progressPercentage   float64
	completedLessons     int
	totalLessons         int
	lastAccessed         *time.Time
	cancellationReason   *string
	cancelledAt          *time.Time
	cancelledBy          *uint
	emailNotifications   bool
	expiryWarnedAt       *time.Time
	metadata             map[string]interface{}
	version              int
	createdAt            time.Time
	updatedAt            time.Time
}

// NewSubscriptionParams describes a subscription to be created. A zero
// StartDate means now; a zero EndDate is derived from PeriodType.
type NewSubscriptionParams struct {
	UserID             uint
	Type               vo.SubscriptionType
	CourseID           *uint
	PeriodType         *vo.PeriodType
	StartDate          time.Time
	EndDate            time.Time
	Price              decimal.Decimal
	Currency           string
	DiscountAmount     *decimal.Decimal
	DiscountCode       *string
	AutoRenewal        bool
	EmailNotifications bool
	TotalLessons       int
	Metadata           map[string]interface{}
}

// NewSubscription validates p and returns a pending, unpaid subscription.
func NewSubscription(p NewSubscriptionParams, now time.Time) (*Subscription, error) {
	if p.UserID == 0 {
		return nil, invalid("user ID is required")
	}
	if !p.Type.IsValid() {
		return nil, invalid("invalid subscription type: %s", p.Type)
	}

	switch p.Type {
	case vo.TypeCourse:
		if p.CourseID == nil || *p.CourseID == 0 {
			return nil, invalid("course ID is required for course subscriptions")
		}
		if p.PeriodType != nil {
			return nil, invalid("period type is not allowed for course subscriptions")
		}
	case vo.TypePeriod:
		if p.PeriodType == nil {
			return nil, invalid("period type is required for period subscriptions")
		}
		if !p.PeriodType.IsValid() {
			return nil, invalid("invalid period type: %s", *p.PeriodType)
		}
		if p.CourseID != nil {
			return nil, invalid("course ID is not allowed for period subscriptions")
		}
	}

	start := p.StartDate
	if start.IsZero() {
		start = now
	}
	end := p.EndDate
	if end.IsZero() {
		if p.PeriodType == nil {
			return nil, invalid("end date is required")
		}
		end = EndDateFor(start, *p.PeriodType)
	}
	if !end.After(start) {
		return nil, invalid("end date must be after start date")
	}

	currency := strings.ToUpper(strings.TrimSpace(p.Currency))
	if !currencyPattern.MatchString(currency) {
		return nil, invalid("currency must be a three-letter ISO code, got %q", p.Currency)
	}
	if p.Price.IsNegative() {
		return nil, invalid("price must not be negative")
	}
	if p.DiscountAmount != nil {
		if p.DiscountAmount.IsNegative() {
			return nil, invalid("discount amount must not be negative")
		}
		if p.DiscountAmount.GreaterThan(p.Price) {
			return nil, invalid("discount amount must not exceed price")
		}
	}
	if p.TotalLessons < 0 {
		return nil, invalid("total lessons must not be negative")
	}

	sid, err := id.NewSubscriptionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate subscription ID: %w", err)
	}

	metadata := make(map[string]interface{}, len(p.Metadata))
	for k, v := range p.Metadata {
		metadata[k] = v
	}

	s := &Subscription{
		sid:                sid,
		userID:             p.UserID,
		subscriptionType:   p.Type,
		courseID:           p.CourseID,
		periodType:         p.PeriodType,
		startDate:          start,
		endDate:            end,
		status:             vo.StatusPending,
		price:              p.Price,
		currency:           currency,
		discountAmount:     p.DiscountAmount,
		discountCode:       normalizeOptional(p.DiscountCode),
		autoRenewal:        p.AutoRenewal,
		totalLessons:       p.TotalLessons,
		emailNotifications: p.EmailNotifications,
		metadata:           metadata,
		version:            1,
		createdAt:          now,
		updatedAt:          now,
	}
	if p.AutoRenewal {
		next := NextBillingDate(end)
		s.nextBillingDate = &next
	}
	return s, nil
}

// ReconstructParams carries persisted state back into the aggregate.
type ReconstructParams struct {
	ID                   uint
	SID                  string
	UserID               uint
	Type                 vo.SubscriptionType
	CourseID             *uint
	PeriodType           *vo.PeriodType
	StartDate            time.Time
	EndDate              time.Time
	Status               vo.SubscriptionStatus
	Price                decimal.Decimal
	Currency             string
	DiscountAmount       *decimal.Decimal
	DiscountCode         *string
	IsPaid               bool
	PaymentMethod        *string
	PaymentTransactionID *string
	PaymentDate          *time.Time
	AutoRenewal          bool
	NextBillingDate      *time.Time
	ProgressPercentage   float64
	CompletedLessons     int
	TotalLessons         int
	LastAccessed         *time.Time
	CancellationReason   *string
	CancelledAt          *time.Time
	CancelledBy          *uint
	EmailNotifications   bool
	ExpiryWarnedAt       *time.Time
	Metadata             map[string]interface{}
	Version              int
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func ReconstructSubscription(p ReconstructParams) (*Subscription, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("subscription ID cannot be zero")
	}
	if p.SID == "" {
		return nil, fmt.Errorf("subscription SID is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid subscription status: %s", p.Status)
	}
	if !p.Type.IsValid() {
		return nil, fmt.Errorf("invalid subscription type: %s", p.Type)
	}
	if p.Metadata == nil {
		p.Metadata = make(map[string]interface{})
	}

	return &Subscription{
		id:                   p.ID,
		sid:                  p.SID,
		userID:               p.UserID,
		subscriptionType:     p.Type,
		courseID:             p.CourseID,
		periodType:           p.PeriodType,
		startDate:            p.StartDate,
		endDate:              p.EndDate,
		status:               p.Status,
		price:                p.Price,
		currency:             p.Currency,
		discountAmount:       p.DiscountAmount,
		discountCode:         p.DiscountCode,
		isPaid:               p.IsPaid,
		paymentMethod:        p.PaymentMethod,
		paymentTransactionID: p.PaymentTransactionID,
		paymentDate:          p.PaymentDate,
		autoRenewal:          p.AutoRenewal,
		nextBillingDate:      p.NextBillingDate,
		progressPercentage:   p.ProgressPercentage,
		completedLessons:     p.CompletedLessons,
		totalLessons:         p.TotalLessons,
		lastAccessed:         p.LastAccessed,
		cancellationReason:   p.CancellationReason,
		cancelledAt:          p.CancelledAt,
		cancelledBy:          p.CancelledBy,
		emailNotifications:   p.EmailNotifications,
		expiryWarnedAt:       p.ExpiryWarnedAt,
		metadata:             p.Metadata,
		version:              p.Version,
		createdAt:            p.CreatedAt,
		updatedAt:            p.UpdatedAt,
	}, nil
}

func (s *Subscription) ID() uint {
	return s.id
}

func (s *Subscription) SID() string {
	return s.sid
}

func (s *Subscription) UserID() uint {
	return s.userID
}

func (s *Subscription) Type() vo.SubscriptionType {
	return s.subscriptionType
}

func (s *Subscription) CourseID() *uint {
	return s.courseID
}

func (s *Subscription) PeriodType() *vo.PeriodType {
	return s.periodType
}

func (s *Subscription) StartDate() time.Time {
	return s.startDate
}

func (s *Subscription) EndDate() time.Time {
	return s.endDate
}

func (s *Subscription) Status() vo.SubscriptionStatus {
	return s.status
}

func (s *Subscription) Price() decimal.Decimal {
	return s.price
}

func (s *Subscription) Currency() string {
	return s.currency
}

func (s *Subscription) DiscountAmount() *decimal.Decimal {
	return s.discountAmount
}

func (s *Subscription) DiscountCode() *string {
	return s.discountCode
}

func (s *Subscription) IsPaid() bool {
	return s.isPaid
}

func (s *Subscription) PaymentMethod() *string {
	return s.paymentMethod
}

func (s *Subscription) PaymentTransactionID() *string {
	return s.paymentTransactionID
}

func (s *Subscription) PaymentDate() *time.Time {
	return s.paymentDate
}

func (s *Subscription) AutoRenewal() bool {
	return s.autoRenewal
}

func (s *Subscription) NextBillingDate() *time.Time {
	return s.nextBillingDate
}

func (s *Subscription) ProgressPercentage() float64 {
	return s.progressPercentage
}

func (s *Subscription) CompletedLessons() int {
	return s.completedLessons
}

func (s *Subscription) TotalLessons() int {
	return s.totalLessons
}

func (s *Subscription) LastAccessed() *time.Time {
	return s.lastAccessed
}

func (s *Subscription) CancellationReason() *string {
	return s.cancellationReason
}

func (s *Subscription) CancelledAt() *time.Time {
	return s.cancelledAt
}

func (s *Subscription) CancelledBy() *uint {
	return s.cancelledBy
}

func (s *Subscription) EmailNotifications() bool {
	return s.emailNotifications
}

func (s *Subscription) ExpiryWarnedAt() *time.Time {
	return s.expiryWarnedAt
}

func (s *Subscription) Version() int {
	return s.version
}

func (s *Subscription) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Subscription) UpdatedAt() time.Time {
	return s.updatedAt
}

// Metadata returns a copy of the free-form gateway metadata.
func (s *Subscription) Metadata() map[string]interface{} {
	out := make(map[string]interface{}, len(s.metadata))
	for k, v := range s.metadata {
		out[k] = v
	}
	return out
}

// NetAmount is the price after discount.
func (s *Subscription) NetAmount() decimal.Decimal {
	if s.discountAmount == nil {
		return s.price
	}
	return s.price.Sub(*s.discountAmount)
}

// HoldsSeat reports whether this subscription currently occupies a seat on its course.
func (s *Subscription) HoldsSeat() bool {
	return s.subscriptionType == vo.TypeCourse && s.status.HoldsSeat()
}

// IsOwnedBy reports whether userID is the subscriber.
func (s *Subscription) IsOwnedBy(userID uint) bool {
	return s.userID == userID
}

// SetID is called by the repository after insert.
func (s *Subscription) SetID(id uint) error {
	if s.id != 0 {
		return fmt.Errorf("subscription ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("subscription ID cannot be zero")
	}
	s.id = id
	return nil
}

func normalizeOptional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
