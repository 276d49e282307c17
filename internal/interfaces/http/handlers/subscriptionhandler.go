package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"learnhub/internal/application/subscription/usecases"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/id"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

// SubscriptionHandler serves subscriber-facing subscription endpoints.
type SubscriptionHandler struct {
	createUseCase   createSubscriptionUseCase
	getUseCase      getSubscriptionUseCase
	updateUseCase   updateSubscriptionUseCase
	cancelUseCase   cancelSubscriptionUseCase
	renewUseCase    renewSubscriptionUseCase
	listUserUseCase listUserSubscriptionsUseCase
	accessUseCase   checkAccessUseCase
	logger          logger.Interface
}

func NewSubscriptionHandler(
	createUC createSubscriptionUseCase,
	getUC getSubscriptionUseCase,
	updateUC updateSubscriptionUseCase,
	cancelUC cancelSubscriptionUseCase,
	renewUC renewSubscriptionUseCase,
	listUserUC listUserSubscriptionsUseCase,
	accessUC checkAccessUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		createUseCase:   createUC,
		getUseCase:      getUC,
		updateUseCase:   updateUC,
		cancelUseCase:   cancelUC,
		renewUseCase:    renewUC,
		listUserUseCase: listUserUC,
		accessUseCase:   accessUC,
		logger:          logger,
	}
}

// CreateSubscriptionRequest creates a pending subscription. UserID may only
// differ from the caller when the caller is an admin.
type CreateSubscriptionRequest struct {
	UserID             *uint                  `json:"user_id"`
	Type               string                 `json:"subscription_type" binding:"required,subscription_type"`
	CourseID           *uint                  `json:"course_id"`
	PeriodType         *string                `json:"period_type" binding:"omitempty,period_type"`
	StartDate          *time.Time             `json:"start_date"`
	EndDate            *time.Time             `json:"end_date"`
	Price              decimal.Decimal        `json:"price"`
	Currency           string                 `json:"currency" binding:"required,currency"`
	DiscountAmount     *decimal.Decimal       `json:"discount_amount"`
	DiscountCode       *string                `json:"discount_code" binding:"omitempty,max=50"`
	AutoRenewal        bool                   `json:"auto_renewal"`
	EmailNotifications *bool                  `json:"email_notifications"`
	Metadata           map[string]interface{} `json:"metadata"`
}

type UpdateSubscriptionRequest struct {
	AutoRenewal        *bool `json:"auto_renewal"`
	EmailNotifications *bool `json:"email_notifications"`
	CompletedLessons   *int  `json:"completed_lessons" binding:"omitempty,min=0"`
	Accessed           bool  `json:"accessed"`
}

type CancelSubscriptionRequest struct {
	Reason    string `json:"reason" binding:"max=500"`
	Immediate bool   `json:"immediate"`
}

type RenewSubscriptionRequest struct {
	PeriodType  string `json:"period_type" binding:"required,period_type"`
	AutoRenewal bool   `json:"auto_renewal"`
}

func (h *SubscriptionHandler) CreateSubscription(c *gin.Context) {
	actor, ok := ActorFromContext(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	subType, err := vo.ParseSubscriptionType(req.Type)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid subscription type", req.Type))
		return
	}

	userID := actor.UserID
	if req.UserID != nil && *req.UserID != actor.UserID {
		if !actor.IsAdmin {
			utils.ErrorResponseWithError(c, errors.NewForbiddenError("cannot create a subscription for another user"))
			return
		}
		userID = *req.UserID
	}

	cmd := usecases.CreateSubscriptionCommand{
		UserID:             userID,
		Type:               subType,
		CourseID:           req.CourseID,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		Price:              req.Price,
		Currency:           req.Currency,
		DiscountAmount:     req.DiscountAmount,
		DiscountCode:       req.DiscountCode,
		AutoRenewal:        req.AutoRenewal,
		EmailNotifications: req.EmailNotifications,
		Metadata:           req.Metadata,
	}
	if req.PeriodType != nil {
		pt, err := vo.ParsePeriodType(*req.PeriodType)
		if err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid period type", *req.PeriodType))
			return
		}
		cmd.PeriodType = &pt
	}

	result, err := h.createUseCase.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, result, "Subscription created successfully")
}

func (h *SubscriptionHandler) GetSubscription(c *gin.Context) {
	actor, sid, ok := h.actorAndSID(c)
	if !ok {
		return
	}

	result, err := h.getUseCase.Execute(c.Request.Context(), usecases.GetSubscriptionQuery{SID: sid, Actor: actor})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) UpdateSubscription(c *gin.Context) {
	actor, sid, ok := h.actorAndSID(c)
	if !ok {
		return
	}

	var req UpdateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	result, err := h.updateUseCase.Execute(c.Request.Context(), usecases.UpdateSubscriptionCommand{
		SID:                sid,
		Actor:              actor,
		AutoRenewal:        req.AutoRenewal,
		EmailNotifications: req.EmailNotifications,
		CompletedLessons:   req.CompletedLessons,
		Accessed:           req.Accessed,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription updated successfully", result)
}

func (h *SubscriptionHandler) CancelSubscription(c *gin.Context) {
	actor, sid, ok := h.actorAndSID(c)
	if !ok {
		return
	}

	var req CancelSubscriptionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
			return
		}
	}

	result, err := h.cancelUseCase.Execute(c.Request.Context(), usecases.CancelSubscriptionCommand{
		SID:       sid,
		Reason:    req.Reason,
		Actor:     actor,
		Immediate: req.Immediate,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription cancelled successfully", result)
}

func (h *SubscriptionHandler) RenewSubscription(c *gin.Context) {
	actor, sid, ok := h.actorAndSID(c)
	if !ok {
		return
	}

	var req RenewSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid request body", err.Error()))
		return
	}

	periodType, err := vo.ParsePeriodType(req.PeriodType)
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid period type", req.PeriodType))
		return
	}

	result, err := h.renewUseCase.Execute(c.Request.Context(), usecases.RenewSubscriptionCommand{
		SID:         sid,
		PeriodType:  periodType,
		AutoRenewal: req.AutoRenewal,
		Actor:       actor,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Subscription renewed successfully", result)
}

func (h *SubscriptionHandler) ListUserSubscriptions(c *gin.Context) {
	actor, ok := ActorFromContext(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	userID, err := utils.ParseUintParam(c, "userId")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status, err := ParseStatusQuery(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pagination := utils.ParsePagination(c)
	result, err := h.listUserUseCase.Execute(c.Request.Context(), usecases.ListUserSubscriptionsQuery{
		UserID:   userID,
		Actor:    actor,
		Status:   status,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, result.Subscriptions, result.Total, result.Page, result.PageSize)
}

// CheckCourseAccess answers for the calling user.
func (h *SubscriptionHandler) CheckCourseAccess(c *gin.Context) {
	actor, ok := ActorFromContext(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return
	}

	courseID, err := utils.ParseUintParam(c, "courseId")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.accessUseCase.Execute(c.Request.Context(), usecases.CheckAccessQuery{
		UserID:   actor.UserID,
		CourseID: courseID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

func (h *SubscriptionHandler) actorAndSID(c *gin.Context) (usecases.Actor, string, bool) {
	actor, ok := ActorFromContext(c)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("user not authenticated"))
		return usecases.Actor{}, "", false
	}

	sid, err := utils.ParseSIDParam(c, "sid", id.PrefixSubscription)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return usecases.Actor{}, "", false
	}
	return actor, sid, true
}

// ParseStatusQuery reads the optional ?status= filter.
func ParseStatusQuery(c *gin.Context) (*vo.SubscriptionStatus, error) {
	raw := c.Query("status")
	if raw == "" {
		return nil, nil
	}
	status, err := vo.ParseStatus(raw)
	if err != nil {
		return nil, errors.NewValidationError("invalid status filter", raw)
	}
	return &status, nil
}
