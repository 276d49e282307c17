package usecases

import (
	"context"
	"fmt"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/biztime"
	"learnhub/internal/shared/constants"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

type ListUserSubscriptionsQuery struct {
	UserID   uint
	Actor    Actor
	Status   *vo.SubscriptionStatus
	Page     int
	PageSize int
}

type ListUserSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	logger           logger.Interface
}

func NewListUserSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	logger logger.Interface,
) *ListUserSubscriptionsUseCase {
	return &ListUserSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		logger:           logger,
	}
}

func (uc *ListUserSubscriptionsUseCase) Execute(ctx context.Context, query ListUserSubscriptionsQuery) (*dto.ListSubscriptionsResult, error) {
	if !query.Actor.IsAdmin && query.Actor.UserID != query.UserID {
		return nil, errors.NewForbiddenError("cannot list another user's subscriptions")
	}

	userID := query.UserID
	return listSubscriptions(ctx, uc.subscriptionRepo, uc.logger, subscription.SubscriptionFilter{
		UserID:   &userID,
		Status:   query.Status,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

type ListCourseSubscriptionsQuery struct {
	CourseID uint
	Status   *vo.SubscriptionStatus
	Page     int
	PageSize int
}

// ListCourseSubscriptionsUseCase lists a course's subscribers. Admin only.
type ListCourseSubscriptionsUseCase struct {
	subscriptionRepo subscription.SubscriptionRepository
	courses          services.CourseCatalog
	logger           logger.Interface
}

func NewListCourseSubscriptionsUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	courses services.CourseCatalog,
	logger logger.Interface,
) *ListCourseSubscriptionsUseCase {
	return &ListCourseSubscriptionsUseCase{
		subscriptionRepo: subscriptionRepo,
		courses:          courses,
		logger:           logger,
	}
}

func (uc *ListCourseSubscriptionsUseCase) Execute(ctx context.Context, query ListCourseSubscriptionsQuery) (*dto.ListSubscriptionsResult, error) {
	course, err := uc.courses.FindByID(ctx, query.CourseID)
	if err != nil {
		uc.logger.Errorw("failed to get course", "error", err, "course_id", query.CourseID)
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	if course == nil {
		return nil, errors.NewNotFoundError("course not found")
	}

	courseID := query.CourseID
	return listSubscriptions(ctx, uc.subscriptionRepo, uc.logger, subscription.SubscriptionFilter{
		CourseID: &courseID,
		Status:   query.Status,
		Page:     query.Page,
		PageSize: query.PageSize,
	})
}

func listSubscriptions(
	ctx context.Context,
	repo subscription.SubscriptionRepository,
	log logger.Interface,
	filter subscription.SubscriptionFilter,
) (*dto.ListSubscriptionsResult, error) {
	if filter.Page < 1 {
		filter.Page = constants.DefaultPage
	}
	if filter.PageSize < 1 {
		filter.PageSize = constants.DefaultPageSize
	}
	if filter.PageSize > constants.MaxPageSize {
		filter.PageSize = constants.MaxPageSize
	}
	filter.SortBy = "created_at"
	filter.SortDesc = true

	subs, total, err := repo.List(ctx, filter)
	if err != nil {
		log.Errorw("failed to list subscriptions", "error", err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	return &dto.ListSubscriptionsResult{
		Subscriptions: dto.ToSubscriptionDTOList(subs, biztime.NowUTC()),
		Total:         total,
		Page:          filter.Page,
		PageSize:      filter.PageSize,
	}, nil
}
