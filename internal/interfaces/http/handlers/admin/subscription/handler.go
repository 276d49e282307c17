// Package subscription provides HTTP handlers for admin subscription operations.
package subscription

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	subdto "learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/usecases"
	"learnhub/internal/interfaces/http/handlers"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/utils"
)

type activateUseCase interface {
	Execute(ctx context.Context, cmd usecases.ActivateSubscriptionCommand) (*subdto.SubscriptionDTO, error)
}

type deleteUseCase interface {
	Execute(ctx context.Context, cmd usecases.DeleteSubscriptionCommand) error
}

type listCourseUseCase interface {
	Execute(ctx context.Context, query usecases.ListCourseSubscriptionsQuery) (*subdto.ListSubscriptionsResult, error)
}

type statisticsUseCase interface {
	Execute(ctx context.Context) (*subdto.StatisticsDTO, error)
}

type sweepUseCase interface {
	Execute(ctx context.Context) (*usecases.SweepResult, error)
}

type recountUseCase interface {
	Execute(ctx context.Context, cmd usecases.RecountSeatsCommand) (*subdto.SeatRecountDTO, error)
}

// Handler handles admin subscription operations. Routes are mounted behind
// authorization.RequireAdmin.
type Handler struct {
	activateUseCase   activateUseCase
	deleteUseCase     deleteUseCase
	listCourseUseCase listCourseUseCase
	statsUseCase      statisticsUseCase
	sweepUseCase      sweepUseCase
	recountUseCase    recountUseCase
	logger            logger.Interface
}

func NewHandler(
	activateUC activateUseCase,
	deleteUC deleteUseCase,
	listCourseUC listCourseUseCase,
	statsUC statisticsUseCase,
	sweepUC sweepUseCase,
	recountUC recountUseCase,
	logger logger.Interface,
) *Handler {
	return &Handler{
		activateUseCase:   activateUC,
		deleteUseCase:     deleteUC,
		listCourseUseCase: listCourseUC,
		statsUseCase:      statsUC,
		sweepUseCase:      sweepUC,
		recountUseCase:    recountUC,
		logger:            logger,
	}
}

func (h *Handler) ListCourseSubscriptions(c *gin.Context) {
	courseID, err := utils.ParseUintParam(c, "courseId")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	status, err := handlers.ParseStatusQuery(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	pagination := utils.ParsePagination(c)
	result, err := h.listCourseUseCase.Execute(c.Request.Context(), usecases.ListCourseSubscriptionsQuery{
		CourseID: courseID,
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

func (h *Handler) GetStatistics(c *gin.Context) {
	result, err := h.statsUseCase.Execute(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
