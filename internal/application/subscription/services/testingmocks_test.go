package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
)

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

type countingMetrics struct {
	clamped int
}

func (c *countingMetrics) RecordTransition(subscription.ChangeType) {}

func (c *countingMetrics) RecordSweep(int, int, int, time.Duration) {}

func (c *countingMetrics) RecordSeatReleaseClamped() {
	c.clamped++
}
