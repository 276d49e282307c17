package usecases

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/application/subscription/subscriptiontest"
	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/logger"
)

const (
	ownerID    uint = 7
	strangerID uint = 8
	adminID    uint = 1
	courseID   uint = 100
)

var fixedNow = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) SendActivation(ctx context.Context, n services.Notice) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifier) SendCancellation(ctx context.Context, n services.Notice) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifier) SendExpiration(ctx context.Context, n services.Notice) error {
	return m.Called(ctx, n).Error(0)
}

func (m *mockNotifier) SendExpiringSoon(ctx context.Context, n services.Notice) error {
	return m.Called(ctx, n).Error(0)
}

type stubUsers map[uint]*services.User

func (s stubUsers) FindByID(_ context.Context, id uint) (*services.User, error) {
	return s[id], nil
}

func (s stubUsers) FindByEmail(_ context.Context, email string) (*services.User, error) {
	for _, u := range s {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []subscription.LifecycleEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e subscription.LifecycleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) changes() []subscription.ChangeType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]subscription.ChangeType, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.ChangeType)
	}
	return out
}

type fixture struct {
	store      *subscriptiontest.Store
	repo       *subscriptiontest.Repository
	users      stubUsers
	notifier   *mockNotifier
	events     *recordingPublisher
	capacity   *services.CapacityCoordinator
	dispatcher *services.NotificationDispatcher
	now        time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := subscriptiontest.NewStore()
	store.PutCourse(services.Course{
		ID: courseID, Title: "Go in Practice", IsPublished: true, IsActive: true,
		MaxStudents: 10, CurrentStudents: 0, LessonsCount: 24,
	})
	users := stubUsers{
		ownerID:    {ID: ownerID, Email: "owner@example.com", Name: "Owner"},
		strangerID: {ID: strangerID, Email: "stranger@example.com", Name: "Stranger"},
		adminID:    {ID: adminID, Email: "admin@example.com", Name: "Admin"},
	}
	notifier := new(mockNotifier)
	for _, method := range []string{"SendActivation", "SendCancellation", "SendExpiration", "SendExpiringSoon"} {
		notifier.On(method, mock.Anything, mock.Anything).Return(nil).Maybe()
	}

	log := logger.NewNop()
	return &fixture{
		store:      store,
		repo:       store.Repository(),
		users:      users,
		notifier:   notifier,
		events:     &recordingPublisher{},
		capacity:   services.NewCapacityCoordinator(store.Catalog(), store.Repository(), log),
		dispatcher: services.NewNotificationDispatcher(users, store.Catalog(), notifier, log),
		now:        fixedNow,
	}
}

func (f *fixture) clock() time.Time {
	return f.now
}

func (f *fixture) hook(h *lifecycleHooks) {
	h.SetClock(f.clock)
	h.SetEventPublisher(f.events)
}

func (f *fixture) seats() int {
	return f.store.Course(courseID).CurrentStudents
}

func (f *fixture) createUseCase() *CreateSubscriptionUseCase {
	uc := NewCreateSubscriptionUseCase(f.repo, f.users, f.store.Catalog(), f.capacity, f.store.TxRunner(), logger.NewNop())
	f.hook(&uc.lifecycleHooks)
	return uc
}

func (f *fixture) activateUseCase() *ActivateSubscriptionUseCase {
	uc := NewActivateSubscriptionUseCase(f.repo, f.dispatcher, logger.NewNop())
	f.hook(&uc.lifecycleHooks)
	return uc
}

func (f *fixture) cancelUseCase() *CancelSubscriptionUseCase {
	uc := NewCancelSubscriptionUseCase(f.repo, f.capacity, f.dispatcher, f.store.TxRunner(), logger.NewNop())
	f.hook(&uc.lifecycleHooks)
	return uc
}

func (f *fixture) renewUseCase() *RenewSubscriptionUseCase {
	uc := NewRenewSubscriptionUseCase(f.repo, f.capacity, f.store.TxRunner(), logger.NewNop())
	f.hook(&uc.lifecycleHooks)
	return uc
}

func (f *fixture) deleteUseCase() *DeleteSubscriptionUseCase {
	uc := NewDeleteSubscriptionUseCase(f.repo, f.capacity, f.store.TxRunner(), logger.NewNop())
	f.hook(&uc.lifecycleHooks)
	return uc
}

func (f *fixture) updateUseCase() *UpdateSubscriptionUseCase {
	uc := NewUpdateSubscriptionUseCase(f.repo, logger.NewNop())
	f.hook(&uc.lifecycleHooks)
	return uc
}

func (f *fixture) reconcileUseCase() *ReconcileSubscriptionsUseCase {
	uc := NewReconcileSubscriptionsUseCase(f.repo, f.capacity, f.dispatcher, f.store.TxRunner(),
		SweepOptions{PageSize: 2, PassTimeout: time.Minute}, logger.NewNop())
	f.hook(&uc.lifecycleHooks)
	return uc
}

type seed struct {
	userID    uint
	typ       vo.SubscriptionType
	status    vo.SubscriptionStatus
	start     time.Time
	end       time.Time
	emails    bool
	autoRenew bool
	lessons   int
}

func (f *fixture) courseSeed(status vo.SubscriptionStatus, end time.Time) seed {
	return seed{userID: ownerID, typ: vo.TypeCourse, status: status, start: end.AddDate(0, -1, 0), end: end, emails: true, lessons: 10}
}

func (f *fixture) periodSeed(status vo.SubscriptionStatus, end time.Time) seed {
	return seed{userID: ownerID, typ: vo.TypePeriod, status: status, start: end.AddDate(0, -1, 0), end: end, emails: true}
}

var seedCounter int

// put stores a subscription directly, bypassing the seat counter. Callers
// adjust the course counter themselves when the seed holds a seat.
func (f *fixture) put(t *testing.T, s seed) *subscription.Subscription {
	t.Helper()
	seedCounter++
	p := subscription.ReconstructParams{
		ID:                 uint(1000 + seedCounter),
		SID:                fmt.Sprintf("sub_seed%04d", seedCounter),
		UserID:             s.userID,
		Type:               s.typ,
		Status:             s.status,
		StartDate:          s.start,
		EndDate:            s.end,
		Price:              decimal.NewFromInt(49),
		Currency:           "USD",
		AutoRenewal:        s.autoRenew,
		EmailNotifications: s.emails,
		TotalLessons:       s.lessons,
		IsPaid:             s.status != vo.StatusPending,
		Version:            1,
		CreatedAt:          s.start,
		UpdatedAt:          s.start,
	}
	if s.typ == vo.TypeCourse {
		id := courseID
		p.CourseID = &id
	} else {
		period := vo.Period1Month
		p.PeriodType = &period
	}
	sub, err := subscription.ReconstructSubscription(p)
	require.NoError(t, err)
	return f.store.Put(sub)
}

func (f *fixture) setSeats(n int) {
	c := f.store.Course(courseID)
	c.CurrentStudents = n
	f.store.PutCourse(c)
}

func owner() Actor {
	return Actor{UserID: ownerID}
}

func stranger() Actor {
	return Actor{UserID: strangerID}
}

func admin() Actor {
	return Actor{UserID: adminID, IsAdmin: true}
}

func ptr[T any](v T) *T {
	return &v
}
