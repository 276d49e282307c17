package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	subdto "learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/usecases"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/interfaces/http/handlers/testutil"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

const testSID = "sub_4fZk9QbX2mLp"

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateUC struct {
	got    usecases.CreateSubscriptionCommand
	result *subdto.SubscriptionDTO
	err    error
}

func (m *mockCreateUC) Execute(ctx context.Context, cmd usecases.CreateSubscriptionCommand) (*subdto.SubscriptionDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetUC struct {
	got    usecases.GetSubscriptionQuery
	result *subdto.SubscriptionDTO
	err    error
}

func (m *mockGetUC) Execute(ctx context.Context, query usecases.GetSubscriptionQuery) (*subdto.SubscriptionDTO, error) {
	m.got = query
	return m.result, m.err
}

type mockUpdateUC struct {
	got    usecases.UpdateSubscriptionCommand
	result *subdto.SubscriptionDTO
	err    error
}

func (m *mockUpdateUC) Execute(ctx context.Context, cmd usecases.UpdateSubscriptionCommand) (*subdto.SubscriptionDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockCancelUC struct {
	got    usecases.CancelSubscriptionCommand
	result *subdto.SubscriptionDTO
	err    error
}

func (m *mockCancelUC) Execute(ctx context.Context, cmd usecases.CancelSubscriptionCommand) (*subdto.SubscriptionDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockRenewUC struct {
	got    usecases.RenewSubscriptionCommand
	result *subdto.SubscriptionDTO
	err    error
}

func (m *mockRenewUC) Execute(ctx context.Context, cmd usecases.RenewSubscriptionCommand) (*subdto.SubscriptionDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockListUserUC struct {
	got    usecases.ListUserSubscriptionsQuery
	result *subdto.ListSubscriptionsResult
	err    error
}

func (m *mockListUserUC) Execute(ctx context.Context, query usecases.ListUserSubscriptionsQuery) (*subdto.ListSubscriptionsResult, error) {
	m.got = query
	return m.result, m.err
}

type mockAccessUC struct {
	got    usecases.CheckAccessQuery
	result *subdto.AccessDTO
	err    error
}

func (m *mockAccessUC) Execute(ctx context.Context, query usecases.CheckAccessQuery) (*subdto.AccessDTO, error) {
	m.got = query
	return m.result, m.err
}

// =====================================================================
// Test helpers
// =====================================================================

type handlerMocks struct {
	create *mockCreateUC
	get    *mockGetUC
	update *mockUpdateUC
	cancel *mockCancelUC
	renew  *mockRenewUC
	list   *mockListUserUC
	access *mockAccessUC
}

func newTestHandler() (*SubscriptionHandler, *handlerMocks) {
	m := &handlerMocks{
		create: &mockCreateUC{},
		get:    &mockGetUC{},
		update: &mockUpdateUC{},
		cancel: &mockCancelUC{},
		renew:  &mockRenewUC{},
		list:   &mockListUserUC{},
		access: &mockAccessUC{},
	}
	h := NewSubscriptionHandler(m.create, m.get, m.update, m.cancel, m.renew, m.list, m.access, logger.NewNop())
	return h, m
}

func testSubscriptionDTO() *subdto.SubscriptionDTO {
	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	courseID := uint(5)
	return &subdto.SubscriptionDTO{
		SID:       testSID,
		UserID:    10,
		Type:      vo.TypeCourse.String(),
		CourseID:  &courseID,
		Status:    vo.StatusPending.String(),
		StartDate: now,
		EndDate:   now.AddDate(1, 0, 0),
		Price:     decimal.RequireFromString("49.99"),
		Currency:  "USD",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func decodeResponse(t *testing.T, body []byte) testutil.APIResponse {
	t.Helper()
	var resp testutil.APIResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

// =====================================================================
// CreateSubscription
// =====================================================================

func TestSubscriptionHandler_CreateSubscription_Success(t *testing.T) {
	h, m := newTestHandler()
	m.create.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions", map[string]interface{}{
		"subscription_type": "course",
		"course_id":         5,
		"price":             "49.99",
		"currency":          "usd",
	})
	testutil.SetAuthContext(c, 10, constants.RoleUser)

	h.CreateSubscription(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decodeResponse(t, w.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, uint(10), m.create.got.UserID)
	assert.Equal(t, vo.TypeCourse, m.create.got.Type)
	require.NotNil(t, m.create.got.CourseID)
	assert.Equal(t, uint(5), *m.create.got.CourseID)
	assert.True(t, m.create.got.Price.Equal(decimal.RequireFromString("49.99")))
	assert.Nil(t, m.create.got.PeriodType)
}

func TestSubscriptionHandler_CreateSubscription_PeriodPlan(t *testing.T) {
	h, m := newTestHandler()
	m.create.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions", map[string]interface{}{
		"subscription_type": "period",
		"period_type":       "3_months",
		"price":             "120",
		"currency":          "EUR",
	})
	testutil.SetAuthContext(c, 10, constants.RoleUser)

	h.CreateSubscription(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, m.create.got.PeriodType)
	assert.Equal(t, vo.Period3Months, *m.create.got.PeriodType)
}

func TestSubscriptionHandler_CreateSubscription_NormalisesEnums(t *testing.T) {
	h, m := newTestHandler()
	m.create.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions", map[string]interface{}{
		"subscription_type": " Period ",
		"period_type":       "3_MONTHS",
		"price":             "120",
		"currency":          "EUR",
	})
	testutil.SetAuthContext(c, 10, constants.RoleUser)

	h.CreateSubscription(c)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, vo.TypePeriod, m.create.got.Type)
	require.NotNil(t, m.create.got.PeriodType)
	assert.Equal(t, vo.Period3Months, *m.create.got.PeriodType)
}

func TestSubscriptionHandler_CreateSubscription_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing type", map[string]interface{}{"currency": "USD"}},
		{"unknown type", map[string]interface{}{"subscription_type": "lifetime", "currency": "USD"}},
		{"bad period", map[string]interface{}{"subscription_type": "period", "period_type": "2_months", "currency": "USD"}},
		{"bad currency", map[string]interface{}{"subscription_type": "course", "course_id": 5, "currency": "dollars"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestHandler()
			c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions", tt.body)
			testutil.SetAuthContext(c, 10, constants.RoleUser)

			h.CreateSubscription(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			resp := decodeResponse(t, w.Body.Bytes())
			require.NotNil(t, resp.Error)
			assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
		})
	}
}

func TestSubscriptionHandler_CreateSubscription_ForAnotherUser(t *testing.T) {
	body := map[string]interface{}{
		"user_id":           99,
		"subscription_type": "course",
		"course_id":         5,
		"currency":          "USD",
	}

	t.Run("user is forbidden", func(t *testing.T) {
		h, _ := newTestHandler()
		c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions", body)
		testutil.SetAuthContext(c, 10, constants.RoleUser)

		h.CreateSubscription(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("admin may", func(t *testing.T) {
		h, m := newTestHandler()
		m.create.result = testSubscriptionDTO()
		c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions", body)
		testutil.SetAuthContext(c, 1, constants.RoleAdmin)

		h.CreateSubscription(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, uint(99), m.create.got.UserID)
	})
}

func TestSubscriptionHandler_CreateSubscription_Unauthenticated(t *testing.T) {
	h, _ := newTestHandler()
	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions", map[string]interface{}{})

	h.CreateSubscription(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSubscriptionHandler_CreateSubscription_UseCaseErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"conflict", errors.NewConflictError("user already holds a subscription for this course"), http.StatusConflict},
		{"not found", errors.NewNotFoundError("course not found"), http.StatusNotFound},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestHandler()
			m.create.err = tt.err
			c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions", map[string]interface{}{
				"subscription_type": "course",
				"course_id":         5,
				"currency":          "USD",
			})
			testutil.SetAuthContext(c, 10, constants.RoleUser)

			h.CreateSubscription(c)

			assert.Equal(t, tt.code, w.Code)
			if tt.code == http.StatusInternalServerError {
				assert.NotContains(t, w.Body.String(), "deadline")
			}
		})
	}
}

// =====================================================================
// Single-subscription endpoints
// =====================================================================

func TestSubscriptionHandler_GetSubscription(t *testing.T) {
	h, m := newTestHandler()
	m.get.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodGet, "/subscriptions/"+testSID, nil)
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.GetSubscription(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testSID, m.get.got.SID)
	assert.Equal(t, usecases.Actor{UserID: 10}, m.get.got.Actor)

	var got subdto.SubscriptionDTO
	require.NoError(t, json.Unmarshal(decodeResponse(t, w.Body.Bytes()).Data, &got))
	assert.Equal(t, testSID, got.SID)
}

func TestSubscriptionHandler_GetSubscription_InvalidSID(t *testing.T) {
	h, _ := newTestHandler()

	c, w := testutil.NewTestContext(http.MethodGet, "/subscriptions/plan_123", nil)
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", "plan_123")

	h.GetSubscription(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_GetSubscription_Forbidden(t *testing.T) {
	h, m := newTestHandler()
	m.get.err = errors.NewForbiddenError("access to this subscription is not allowed")

	c, w := testutil.NewTestContext(http.MethodGet, "/subscriptions/"+testSID, nil)
	testutil.SetAuthContext(c, 11, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.GetSubscription(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSubscriptionHandler_UpdateSubscription(t *testing.T) {
	h, m := newTestHandler()
	m.update.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodPatch, "/subscriptions/"+testSID, map[string]interface{}{
		"email_notifications": false,
		"completed_lessons":   4,
		"accessed":            true,
	})
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.UpdateSubscription(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, m.update.got.EmailNotifications)
	assert.False(t, *m.update.got.EmailNotifications)
	assert.Nil(t, m.update.got.AutoRenewal)
	require.NotNil(t, m.update.got.CompletedLessons)
	assert.Equal(t, 4, *m.update.got.CompletedLessons)
	assert.True(t, m.update.got.Accessed)
}

func TestSubscriptionHandler_UpdateSubscription_NegativeLessons(t *testing.T) {
	h, _ := newTestHandler()

	c, w := testutil.NewTestContext(http.MethodPatch, "/subscriptions/"+testSID, map[string]interface{}{
		"completed_lessons": -1,
	})
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.UpdateSubscription(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscriptionHandler_CancelSubscription(t *testing.T) {
	h, m := newTestHandler()
	m.cancel.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions/"+testSID+"/cancel", map[string]interface{}{
		"reason":    "too busy",
		"immediate": true,
	})
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.CancelSubscription(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "too busy", m.cancel.got.Reason)
	assert.True(t, m.cancel.got.Immediate)
	assert.Equal(t, uint(10), m.cancel.got.Actor.UserID)
}

func TestSubscriptionHandler_CancelSubscription_EmptyBody(t *testing.T) {
	h, m := newTestHandler()
	m.cancel.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions/"+testSID+"/cancel", nil)
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.CancelSubscription(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, m.cancel.got.Immediate)
}

func TestSubscriptionHandler_CancelSubscription_AlreadyCancelled(t *testing.T) {
	h, m := newTestHandler()
	m.cancel.err = errors.NewConflictError("subscription is already cancelled")

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions/"+testSID+"/cancel", nil)
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.CancelSubscription(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSubscriptionHandler_RenewSubscription(t *testing.T) {
	h, m := newTestHandler()
	m.renew.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions/"+testSID+"/renew", map[string]interface{}{
		"period_type":  "12_months",
		"auto_renewal": true,
	})
	testutil.SetAuthContext(c, 1, constants.RoleAdmin)
	testutil.SetURLParam(c, "sid", testSID)

	h.RenewSubscription(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, vo.Period12Months, m.renew.got.PeriodType)
	assert.True(t, m.renew.got.AutoRenewal)
	assert.True(t, m.renew.got.Actor.IsAdmin)
}

func TestSubscriptionHandler_RenewSubscription_UpperCasePeriod(t *testing.T) {
	h, m := newTestHandler()
	m.renew.result = testSubscriptionDTO()

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions/"+testSID+"/renew", map[string]interface{}{
		"period_type": "6_MONTHS",
	})
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.RenewSubscription(c)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, vo.Period6Months, m.renew.got.PeriodType)
}

func TestSubscriptionHandler_RenewSubscription_MissingPeriod(t *testing.T) {
	h, _ := newTestHandler()

	c, w := testutil.NewTestContext(http.MethodPost, "/subscriptions/"+testSID+"/renew", map[string]interface{}{})
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "sid", testSID)

	h.RenewSubscription(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// Listing and access
// =====================================================================

func TestSubscriptionHandler_ListUserSubscriptions(t *testing.T) {
	h, m := newTestHandler()
	m.list.result = &subdto.ListSubscriptionsResult{
		Subscriptions: []*subdto.SubscriptionDTO{testSubscriptionDTO()},
		Total:         21,
		Page:          2,
		PageSize:      10,
	}

	c, w := testutil.NewTestContext(http.MethodGet, "/users/10/subscriptions", nil)
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "userId", "10")
	testutil.SetQueryParams(c, map[string]string{"page": "2", "page_size": "10", "status": "active"})

	h.ListUserSubscriptions(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(10), m.list.got.UserID)
	assert.Equal(t, 2, m.list.got.Page)
	assert.Equal(t, 10, m.list.got.PageSize)
	require.NotNil(t, m.list.got.Status)
	assert.Equal(t, vo.StatusActive, *m.list.got.Status)

	var page struct {
		Total      int64 `json:"total"`
		TotalPages int   `json:"total_pages"`
	}
	require.NoError(t, json.Unmarshal(decodeResponse(t, w.Body.Bytes()).Data, &page))
	assert.Equal(t, int64(21), page.Total)
	assert.Equal(t, 3, page.TotalPages)
}

func TestSubscriptionHandler_ListUserSubscriptions_BadInput(t *testing.T) {
	t.Run("non numeric user", func(t *testing.T) {
		h, _ := newTestHandler()
		c, w := testutil.NewTestContext(http.MethodGet, "/users/abc/subscriptions", nil)
		testutil.SetAuthContext(c, 10, constants.RoleUser)
		testutil.SetURLParam(c, "userId", "abc")

		h.ListUserSubscriptions(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		h, _ := newTestHandler()
		c, w := testutil.NewTestContext(http.MethodGet, "/users/10/subscriptions", nil)
		testutil.SetAuthContext(c, 10, constants.RoleUser)
		testutil.SetURLParam(c, "userId", "10")
		testutil.SetQueryParams(c, map[string]string{"status": "paused"})

		h.ListUserSubscriptions(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestSubscriptionHandler_CheckCourseAccess(t *testing.T) {
	h, m := newTestHandler()
	m.access.result = &subdto.AccessDTO{CourseID: 5, HasAccess: true, Access: "granted", SubscriptionSID: testSID}

	c, w := testutil.NewTestContext(http.MethodGet, "/courses/5/access", nil)
	testutil.SetAuthContext(c, 10, constants.RoleUser)
	testutil.SetURLParam(c, "courseId", "5")

	h.CheckCourseAccess(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, usecases.CheckAccessQuery{UserID: 10, CourseID: 5}, m.access.got)

	var got subdto.AccessDTO
	require.NoError(t, json.Unmarshal(decodeResponse(t, w.Body.Bytes()).Data, &got))
	assert.True(t, got.HasAccess)
}
