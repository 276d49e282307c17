// Package subscriptiontest provides in-memory implementations of the
// subscription ports for use-case and service tests.
package subscriptiontest

import (
	"context"
	"sort"
	"sync"
	"time"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
)

// Store backs a Repository, a Catalog and a TxRunner with shared state so a
// failed transaction rolls back subscriptions and seat counters together.
type Store struct {
	mu      sync.Mutex
	nextID  uint
	subs    map[uint]*subscription.Subscription
	courses map[uint]services.Course

	// Fail* inject errors for the next matching call when non-nil.
	FailUpdate    error
	FailCreate    error
	FailAdjust    error
	UpdateCalls   int
	AdjustHistory []int
}

func NewStore() *Store {
	return &Store{
		nextID:  1,
		subs:    make(map[uint]*subscription.Subscription),
		courses: make(map[uint]services.Course),
	}
}

func (s *Store) Repository() *Repository { return &Repository{store: s} }

func (s *Store) Catalog() *Catalog { return &Catalog{store: s} }

func (s *Store) TxRunner() *TxRunner { return &TxRunner{store: s} }

// PutCourse inserts or replaces a course.
func (s *Store) PutCourse(c services.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c
}

func (s *Store) Course(id uint) services.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.courses[id]
}

// Put stores sub as-is, assigning an ID when it has none.
func (s *Store) Put(sub *subscription.Subscription) *subscription.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sub.ID() == 0 {
		_ = sub.SetID(s.nextID)
		s.nextID++
	} else if sub.ID() >= s.nextID {
		s.nextID = sub.ID() + 1
	}
	s.subs[sub.ID()] = sub
	return sub
}

func (s *Store) Get(id uint) *subscription.Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.subs[id]
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

type snapshot struct {
	nextID  uint
	subs    map[uint]*subscription.Subscription
	courses map[uint]services.Course
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		nextID:  s.nextID,
		subs:    make(map[uint]*subscription.Subscription, len(s.subs)),
		courses: make(map[uint]services.Course, len(s.courses)),
	}
	for k, v := range s.subs {
		snap.subs[k] = v
	}
	for k, v := range s.courses {
		snap.courses[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID = snap.nextID
	s.subs = snap.subs
	s.courses = snap.courses
}

// TxRunner snapshots the store and restores it when fn fails.
type TxRunner struct {
	store *Store
}

func (t *TxRunner) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	snap := t.store.snapshot()
	if err := fn(ctx); err != nil {
		t.store.restore(snap)
		return err
	}
	return nil
}

// Catalog is an in-memory CourseCatalog.
type Catalog struct {
	store *Store
}

func (c *Catalog) FindByID(_ context.Context, id uint) (*services.Course, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	course, ok := c.store.courses[id]
	if !ok {
		return nil, nil
	}
	return &course, nil
}

func (c *Catalog) AdjustSeatCount(_ context.Context, courseID uint, delta int) (bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.AdjustHistory = append(c.store.AdjustHistory, delta)
	if err := c.store.FailAdjust; err != nil {
		c.store.FailAdjust = nil
		return false, err
	}
	course, ok := c.store.courses[courseID]
	if !ok {
		return false, nil
	}
	next := course.CurrentStudents + delta
	if next < 0 {
		return false, nil
	}
	if delta > 0 && course.MaxStudents > 0 && next > course.MaxStudents {
		return false, nil
	}
	course.CurrentStudents = next
	c.store.courses[courseID] = course
	return true, nil
}

func (c *Catalog) SetSeatCount(_ context.Context, courseID uint, count int64) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	course := c.store.courses[courseID]
	course.CurrentStudents = int(count)
	c.store.courses[courseID] = course
	return nil
}

// Repository is an in-memory SubscriptionRepository with optimistic locking.
type Repository struct {
	store *Store
}

func (r *Repository) Create(_ context.Context, sub *subscription.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.FailCreate; err != nil {
		r.store.FailCreate = nil
		return err
	}
	if err := sub.SetID(r.store.nextID); err != nil {
		return err
	}
	r.store.nextID++
	r.store.subs[sub.ID()] = sub
	return nil
}

func (r *Repository) GetByID(_ context.Context, id uint) (*subscription.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.subs[id], nil
}

func (r *Repository) GetBySID(_ context.Context, sid string) (*subscription.Subscription, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, sub := range r.store.subs {
		if sub.SID() == sid {
			return sub, nil
		}
	}
	return nil, nil
}

func (r *Repository) Update(_ context.Context, sub *subscription.Subscription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.UpdateCalls++
	if err := r.store.FailUpdate; err != nil {
		r.store.FailUpdate = nil
		return err
	}
	current, ok := r.store.subs[sub.ID()]
	if !ok || current.Version() != sub.Version() {
		return subscription.ErrConcurrentModification
	}
	r.store.subs[sub.ID()] = withVersion(sub, sub.Version()+1)
	return nil
}

func (r *Repository) Delete(_ context.Context, id uint) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.subs, id)
	return nil
}

func (r *Repository) List(_ context.Context, f subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	matched := r.filter(func(s *subscription.Subscription) bool {
		if f.UserID != nil && s.UserID() != *f.UserID {
			return false
		}
		if f.CourseID != nil && (s.CourseID() == nil || *s.CourseID() != *f.CourseID) {
			return false
		}
		if f.Status != nil && s.Status() != *f.Status {
			return false
		}
		if f.Type != nil && s.Type() != *f.Type {
			return false
		}
		return true
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID() > matched[j].ID() })

	total := int64(len(matched))
	if f.PageSize > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * f.PageSize
		if start > len(matched) {
			start = len(matched)
		}
		end := start + f.PageSize
		if end > len(matched) {
			end = len(matched)
		}
		matched = matched[start:end]
	}
	return matched, total, nil
}

func (r *Repository) ListAccessibleByUser(_ context.Context, userID uint, now time.Time) ([]*subscription.Subscription, error) {
	return r.filter(func(s *subscription.Subscription) bool {
		return s.UserID() == userID && s.AccessAt(now).Allows()
	}), nil
}

func (r *Repository) ExistsSeatHolder(_ context.Context, userID, courseID uint) (bool, error) {
	found := r.filter(func(s *subscription.Subscription) bool {
		return s.UserID() == userID && s.CourseID() != nil && *s.CourseID() == courseID && s.HoldsSeat()
	})
	return len(found) > 0, nil
}

func (r *Repository) CountSeatHolders(_ context.Context, courseID uint) (int64, error) {
	found := r.filter(func(s *subscription.Subscription) bool {
		return s.CourseID() != nil && *s.CourseID() == courseID && s.HoldsSeat()
	})
	return int64(len(found)), nil
}

func (r *Repository) FindExpiredActive(_ context.Context, now time.Time, afterID uint, limit int) ([]*subscription.Subscription, error) {
	return r.page(afterID, limit, func(s *subscription.Subscription) bool {
		return s.Status() == vo.StatusActive && s.EndDate().Before(now)
	}), nil
}

func (r *Repository) FindExpiringSoon(_ context.Context, now time.Time, window time.Duration, afterID uint, limit int) ([]*subscription.Subscription, error) {
	return r.page(afterID, limit, func(s *subscription.Subscription) bool {
		if s.Status() != vo.StatusActive || !s.EmailNotifications() {
			return false
		}
		if s.EndDate().Before(now) || s.EndDate().After(now.Add(window)) {
			return false
		}
		warned := s.ExpiryWarnedAt()
		return warned == nil || warned.Before(s.EndDate().Add(-window))
	}), nil
}

func (r *Repository) Statistics(_ context.Context) (*subscription.Statistics, error) {
	stats := subscription.NewStatistics()
	for _, s := range r.filter(func(*subscription.Subscription) bool { return true }) {
		stats.Total++
		stats.ByStatus[s.Status()]++
		stats.ByType[s.Type()]++
		if s.HoldsSeat() {
			stats.SeatsHeld++
		}
		if s.IsPaid() {
			stats.Paid++
			stats.Revenue[s.Currency()] = stats.Revenue[s.Currency()].Add(s.NetAmount())
		}
	}
	return stats, nil
}

func (r *Repository) filter(keep func(*subscription.Subscription) bool) []*subscription.Subscription {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*subscription.Subscription
	for _, s := range r.store.subs {
		if keep(s) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Repository) page(afterID uint, limit int, keep func(*subscription.Subscription) bool) []*subscription.Subscription {
	matched := r.filter(func(s *subscription.Subscription) bool {
		return s.ID() > afterID && keep(s)
	})
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID() < matched[j].ID() })
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched
}

func withVersion(s *subscription.Subscription, version int) *subscription.Subscription {
	out, err := subscription.ReconstructSubscription(subscription.ReconstructParams{
		ID:                   s.ID(),
		SID:                  s.SID(),
		UserID:               s.UserID(),
		Type:                 s.Type(),
		CourseID:             s.CourseID(),
		PeriodType:           s.PeriodType(),
		StartDate:            s.StartDate(),
		EndDate:              s.EndDate(),
		Status:               s.Status(),
		Price:                s.Price(),
		Currency:             s.Currency(),
		DiscountAmount:       s.DiscountAmount(),
		DiscountCode:         s.DiscountCode(),
		IsPaid:               s.IsPaid(),
		PaymentMethod:        s.PaymentMethod(),
		PaymentTransactionID: s.PaymentTransactionID(),
		PaymentDate:          s.PaymentDate(),
		AutoRenewal:          s.AutoRenewal(),
		NextBillingDate:      s.NextBillingDate(),
		ProgressPercentage:   s.ProgressPercentage(),
		CompletedLessons:     s.CompletedLessons(),
		TotalLessons:         s.TotalLessons(),
		LastAccessed:         s.LastAccessed(),
		CancellationReason:   s.CancellationReason(),
		CancelledAt:          s.CancelledAt(),
		CancelledBy:          s.CancelledBy(),
		EmailNotifications:   s.EmailNotifications(),
		ExpiryWarnedAt:       s.ExpiryWarnedAt(),
		Metadata:             s.Metadata(),
		Version:              version,
		CreatedAt:            s.CreatedAt(),
		UpdatedAt:            s.UpdatedAt(),
	})
	if err != nil {
		panic(err)
	}
	return out
}
