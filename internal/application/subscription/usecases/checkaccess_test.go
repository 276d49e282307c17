package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/internal/application/subscription/dto"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/logger"
)

func newCheckAccess(f *fixture) *CheckAccessUseCase {
	uc := NewCheckAccessUseCase(f.repo, logger.NewNop())
	uc.SetClock(f.clock)
	return uc
}

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		name       string
		seeds      func(f *fixture) []seed
		wantAccess string
	}{
		{
			name:       "no subscriptions",
			seeds:      func(*fixture) []seed { return nil },
			wantAccess: "none",
		},
		{
			name: "active course subscription",
			seeds: func(f *fixture) []seed {
				return []seed{f.courseSeed(vo.StatusActive, fixedNow.AddDate(0, 0, 3))}
			},
			wantAccess: "granted",
		},
		{
			name: "soft cancelled inside paid period",
			seeds: func(f *fixture) []seed {
				return []seed{f.courseSeed(vo.StatusCancelled, fixedNow.AddDate(0, 0, 3))}
			},
			wantAccess: "grace",
		},
		{
			name: "period plan covers any course",
			seeds: func(f *fixture) []seed {
				return []seed{f.periodSeed(vo.StatusActive, fixedNow.AddDate(0, 0, 3))}
			},
			wantAccess: "granted",
		},
		{
			name: "granted wins over grace",
			seeds: func(f *fixture) []seed {
				return []seed{
					f.courseSeed(vo.StatusCancelled, fixedNow.AddDate(0, 2, 0)),
					f.periodSeed(vo.StatusActive, fixedNow.AddDate(0, 0, 1)),
				}
			},
			wantAccess: "granted",
		},
		{
			name: "pending and expired give nothing",
			seeds: func(f *fixture) []seed {
				return []seed{
					f.courseSeed(vo.StatusPending, fixedNow.AddDate(0, 1, 0)),
					f.periodSeed(vo.StatusExpired, fixedNow.AddDate(0, 0, -1)),
				}
			},
			wantAccess: "none",
		},
		{
			name: "active but past end date",
			seeds: func(f *fixture) []seed {
				return []seed{f.courseSeed(vo.StatusActive, fixedNow.AddDate(0, 0, -1))}
			},
			wantAccess: "none",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			for _, s := range tt.seeds(f) {
				f.put(t, s)
			}

			out, err := newCheckAccess(f).Execute(context.Background(), CheckAccessQuery{UserID: ownerID, CourseID: courseID})
			require.NoError(t, err)

			assert.Equal(t, tt.wantAccess, out.Access)
			assert.Equal(t, tt.wantAccess != "none", out.HasAccess)
			if out.HasAccess {
				assert.NotEmpty(t, out.SubscriptionSID)
				assert.NotNil(t, out.ExpiresAt)
			}
		})
	}
}

func TestCheckAccess_OtherCourseNotCovered(t *testing.T) {
	f := newFixture(t)
	f.put(t, f.courseSeed(vo.StatusActive, fixedNow.AddDate(0, 1, 0)))

	out, err := newCheckAccess(f).Execute(context.Background(), CheckAccessQuery{UserID: ownerID, CourseID: courseID + 1})
	require.NoError(t, err)

	assert.False(t, out.HasAccess)
}

type mapAccessCache struct {
	entries map[string]*dto.AccessDTO
	ttls    map[string]time.Duration
}

func newMapAccessCache() *mapAccessCache {
	return &mapAccessCache{entries: map[string]*dto.AccessDTO{}, ttls: map[string]time.Duration{}}
}

func (c *mapAccessCache) key(userID, courseID uint) string {
	return fmt.Sprintf("%d:%d", userID, courseID)
}

func (c *mapAccessCache) Get(_ context.Context, userID, courseID uint) (*dto.AccessDTO, bool, error) {
	v, ok := c.entries[c.key(userID, courseID)]
	return v, ok, nil
}

func (c *mapAccessCache) Set(_ context.Context, userID uint, access *dto.AccessDTO, ttl time.Duration) error {
	k := c.key(userID, access.CourseID)
	c.entries[k] = access
	c.ttls[k] = ttl
	return nil
}

func TestCheckAccess_ReadThroughCache(t *testing.T) {
	f := newFixture(t)
	sub := f.put(t, f.courseSeed(vo.StatusActive, fixedNow.Add(90*time.Second)))

	cache := newMapAccessCache()
	uc := newCheckAccess(f)
	uc.SetCache(cache)

	out, err := uc.Execute(context.Background(), CheckAccessQuery{UserID: ownerID, CourseID: courseID})
	require.NoError(t, err)
	assert.True(t, out.HasAccess)
	assert.Equal(t, 90*time.Second, cache.ttls[cache.key(ownerID, courseID)])

	// served from cache even though the store no longer has the row
	require.NoError(t, f.repo.Delete(context.Background(), sub.ID()))
	again, err := uc.Execute(context.Background(), CheckAccessQuery{UserID: ownerID, CourseID: courseID})
	require.NoError(t, err)
	assert.Same(t, out, again)
}

func TestCheckAccess_DenialIsCachedBriefly(t *testing.T) {
	f := newFixture(t)
	cache := newMapAccessCache()
	uc := newCheckAccess(f)
	uc.SetCache(cache)

	out, err := uc.Execute(context.Background(), CheckAccessQuery{UserID: ownerID, CourseID: courseID})
	require.NoError(t, err)
	assert.False(t, out.HasAccess)
	assert.Equal(t, denyAccessCacheTTL, cache.ttls[cache.key(ownerID, courseID)])
}

func TestCheckAccess_DistantEndDateUsesMaxTTL(t *testing.T) {
	f := newFixture(t)
	f.put(t, f.courseSeed(vo.StatusActive, fixedNow.AddDate(0, 1, 0)))

	cache := newMapAccessCache()
	uc := newCheckAccess(f)
	uc.SetCache(cache)

	out, err := uc.Execute(context.Background(), CheckAccessQuery{UserID: ownerID, CourseID: courseID})
	require.NoError(t, err)
	assert.True(t, out.HasAccess)
	assert.Equal(t, maxAccessCacheTTL, cache.ttls[cache.key(ownerID, courseID)])
}
