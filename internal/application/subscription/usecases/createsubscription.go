package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"learnhub/internal/application/subscription/dto"
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/shared/errors"
	"learnhub/internal/shared/logger"
)

type CreateSubscriptionCommand struct {
	UserID             uint
	Type               vo.SubscriptionType
	CourseID           *uint
	PeriodType         *vo.PeriodType
	StartDate          *time.Time
	EndDate            *time.Time
	Price              decimal.Decimal
	Currency           string
	DiscountAmount     *decimal.Decimal
	DiscountCode       *string
	AutoRenewal        bool
	EmailNotifications *bool // nil means enabled
	Metadata           map[string]interface{}
}

type CreateSubscriptionUseCase struct {
	lifecycleHooks
	subscriptionRepo subscription.SubscriptionRepository
	users            services.UserDirectory
	courses          services.CourseCatalog
	capacity         *services.CapacityCoordinator
	txRunner         TransactionRunner
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	subscriptionRepo subscription.SubscriptionRepository,
	users services.UserDirectory,
	courses services.CourseCatalog,
	capacity *services.CapacityCoordinator,
	txRunner TransactionRunner,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		lifecycleHooks:   newLifecycleHooks(),
		subscriptionRepo: subscriptionRepo,
		users:            users,
		courses:          courses,
		capacity:         capacity,
		txRunner:         txRunner,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*dto.SubscriptionDTO, error) {
	user, err := uc.users.FindByID(ctx, cmd.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get user", "error", err, "user_id", cmd.UserID)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	totalLessons := 0
	if cmd.Type == vo.TypeCourse {
		if cmd.CourseID == nil || *cmd.CourseID == 0 {
			return nil, errors.NewBadRequestError("course ID is required for course subscriptions")
		}
		course, err := uc.courses.FindByID(ctx, *cmd.CourseID)
		if err != nil {
			uc.logger.Errorw("failed to get course", "error", err, "course_id", *cmd.CourseID)
			return nil, fmt.Errorf("failed to get course: %w", err)
		}
		if course == nil {
			return nil, errors.NewNotFoundError("course not found")
		}
		if !course.AcceptsEnrollment() {
			return nil, errors.NewBadRequestError("course is not available for enrollment")
		}
		// A duplicate is reported as such even when it is the holder that
		// filled the course.
		if err := uc.ensureNoSeatHolder(ctx, cmd.UserID, course.ID); err != nil {
			return nil, err
		}
		if course.IsFull() {
			return nil, errors.NewBadRequestError("course capacity exceeded")
		}
		totalLessons = course.LessonsCount
	}

	now := uc.now()
	params := subscription.NewSubscriptionParams{
		UserID:             cmd.UserID,
		Type:               cmd.Type,
		CourseID:           cmd.CourseID,
		PeriodType:         cmd.PeriodType,
		Price:              cmd.Price,
		Currency:           cmd.Currency,
		DiscountAmount:     cmd.DiscountAmount,
		DiscountCode:       cmd.DiscountCode,
		AutoRenewal:        cmd.AutoRenewal,
		EmailNotifications: cmd.EmailNotifications == nil || *cmd.EmailNotifications,
		TotalLessons:       totalLessons,
		Metadata:           cmd.Metadata,
	}
	if cmd.StartDate != nil {
		params.StartDate = cmd.StartDate.UTC()
	}
	if cmd.EndDate != nil {
		params.EndDate = cmd.EndDate.UTC()
	}

	sub, err := subscription.NewSubscription(params, now)
	if err != nil {
		uc.logger.Warnw("invalid subscription request", "error", err, "user_id", cmd.UserID)
		return nil, toAppError(err, "create subscription")
	}

	err = uc.txRunner.RunInTransaction(ctx, func(txCtx context.Context) error {
		if courseID := sub.CourseID(); courseID != nil {
			if err := uc.ensureNoSeatHolder(txCtx, sub.UserID(), *courseID); err != nil {
				return err
			}
			if err := uc.capacity.Reserve(txCtx, *courseID); err != nil {
				return err
			}
			// The guarded increment locks the course row; checking again
			// after it closes the window for a concurrent create.
			if err := uc.ensureNoSeatHolder(txCtx, sub.UserID(), *courseID); err != nil {
				return err
			}
		}
		return uc.subscriptionRepo.Create(txCtx, sub)
	})
	if err != nil {
		if errors.IsDuplicateError(err) {
			return nil, errors.NewConflictError("user already has a pending or active subscription for this course")
		}
		if !errors.IsAppError(err) {
			uc.logger.Errorw("failed to create subscription", "error", err, "user_id", cmd.UserID)
		}
		return nil, toAppError(err, "create subscription")
	}

	uc.committed(ctx, uc.logger, sub, subscription.ChangeCreated)

	uc.logger.Infow("subscription created successfully",
		"subscription_sid", sub.SID(),
		"user_id", sub.UserID(),
		"type", sub.Type(),
		"end_date", sub.EndDate(),
	)

	return dto.ToSubscriptionDTO(sub, now), nil
}

func (uc *CreateSubscriptionUseCase) ensureNoSeatHolder(ctx context.Context, userID, courseID uint) error {
	exists, err := uc.subscriptionRepo.ExistsSeatHolder(ctx, userID, courseID)
	if err != nil {
		return fmt.Errorf("failed to check existing subscription: %w", err)
	}
	if exists {
		return errors.NewConflictError("user already has a pending or active subscription for this course")
	}
	return nil
}
