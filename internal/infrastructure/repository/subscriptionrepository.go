package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/infrastructure/persistence/mappers"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/logger"
	"learnhub/internal/shared/query"
)

// allowedSubscriptionSortByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedSubscriptionSortByFields = map[string]string{
	"id":         "id",
	"status":     "status",
	"start_date": "start_date",
	"end_date":   "end_date",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

var seatHoldingStatuses = []string{vo.StatusPending.String(), vo.StatusActive.String()}

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SubscriptionMapper
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) *SubscriptionRepositoryImpl {
	return &SubscriptionRepositoryImpl{
		db:     db,
		mapper: mappers.NewSubscriptionMapper(),
		logger: logger,
	}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription in database", "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}

	if err := subscriptionEntity.SetID(model.ID); err != nil {
		r.logger.Errorw("failed to set subscription ID", "error", err)
		return fmt.Errorf("failed to set subscription ID: %w", err)
	}

	r.logger.Debugw("subscription row inserted", "id", model.ID, "sid", model.SID, "user_id", model.UserID)
	return nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	return r.getOne(ctx, "id = ?", id)
}

func (r *SubscriptionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	return r.getOne(ctx, "sid = ?", sid)
}

func (r *SubscriptionRepositoryImpl) getOne(ctx context.Context, cond string, arg interface{}) (*subscription.Subscription, error) {
	var model models.SubscriptionModel

	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get subscription", "condition", cond, "value", arg, "error", err)
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}

	entity, err := r.mapper.ToEntity(&model)
	if err != nil {
		r.logger.Errorw("failed to map subscription model to entity", "id", model.ID, "error", err)
		return nil, fmt.Errorf("failed to map subscription: %w", err)
	}
	return entity, nil
}

// Update writes every mutable column when the stored version still matches
// and bumps it by one.
func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, subscriptionEntity *subscription.Subscription) error {
	model, err := r.mapper.ToModel(subscriptionEntity)
	if err != nil {
		r.logger.Errorw("failed to map subscription entity to model", "id", subscriptionEntity.ID(), "error", err)
		return fmt.Errorf("failed to map subscription entity: %w", err)
	}

	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.SubscriptionModel{}).
		Where("id = ? AND version = ?", model.ID, model.Version).
		Updates(map[string]interface{}{
			"period_type":            model.PeriodType,
			"start_date":             model.StartDate,
			"end_date":               model.EndDate,
			"status":                 model.Status,
			"is_paid":                model.IsPaid,
			"payment_method":         model.PaymentMethod,
			"payment_transaction_id": model.PaymentTransactionID,
			"payment_date":           model.PaymentDate,
			"auto_renewal":           model.AutoRenewal,
			"next_billing_date":      model.NextBillingDate,
			"progress_percentage":    model.ProgressPercentage,
			"completed_lessons":      model.CompletedLessons,
			"last_accessed":          model.LastAccessed,
			"cancellation_reason":    model.CancellationReason,
			"cancelled_at":           model.CancelledAt,
			"cancelled_by":           model.CancelledBy,
			"email_notifications":    model.EmailNotifications,
			"expiry_warned_at":       model.ExpiryWarnedAt,
			"metadata":               model.Metadata,
			"version":                gorm.Expr("version + 1"),
			"updated_at":             model.UpdatedAt,
		})

	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		r.logger.Warnw("subscription update lost optimistic lock", "id", model.ID, "version", model.Version)
		return subscription.ErrConcurrentModification
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) Delete(ctx context.Context, id uint) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Delete(&models.SubscriptionModel{}, id).Error; err != nil {
		r.logger.Errorw("failed to delete subscription", "id", id, "error", err)
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) List(ctx context.Context, filter subscription.SubscriptionFilter) ([]*subscription.Subscription, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{})

	if filter.UserID != nil {
		tx = tx.Where("user_id = ?", *filter.UserID)
	}
	if filter.CourseID != nil {
		tx = tx.Where("course_id = ?", *filter.CourseID)
	}
	if filter.Status != nil {
		tx = tx.Where("status = ?", filter.Status.String())
	}
	if filter.Type != nil {
		tx = tx.Where("subscription_type = ?", filter.Type.String())
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	order := query.SortFilter{SortBy: filter.SortBy, SortDesc: filter.SortDesc}.
		OrderClause(allowedSubscriptionSortByFields, "created_at")

	var rows []*models.SubscriptionModel
	if err := tx.Order(order).Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&rows).Error; err != nil {
		r.logger.Errorw("failed to list subscriptions", "error", err)
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	entities, err := r.mapper.ToEntities(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map subscriptions: %w", err)
	}
	return entities, total, nil
}

func (r *SubscriptionRepositoryImpl) ListAccessibleByUser(ctx context.Context, userID uint, now time.Time) ([]*subscription.Subscription, error) {
	var rows []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("user_id = ? AND status IN ? AND end_date > ?",
			userID, []string{vo.StatusActive.String(), vo.StatusCancelled.String()}, now).
		Order("end_date DESC").
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to list accessible subscriptions", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list accessible subscriptions: %w", err)
	}
	return r.mapper.ToEntities(rows)
}

func (r *SubscriptionRepositoryImpl) ExistsSeatHolder(ctx context.Context, userID, courseID uint) (bool, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("user_id = ? AND course_id = ? AND subscription_type = ? AND status IN ?",
			userID, courseID, vo.TypeCourse.String(), seatHoldingStatuses).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check seat holder: %w", err)
	}
	return count > 0, nil
}

func (r *SubscriptionRepositoryImpl) CountSeatHolders(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := db.GetTxFromContext(ctx, r.db).Model(&models.SubscriptionModel{}).
		Where("course_id = ? AND subscription_type = ? AND status IN ?",
			courseID, vo.TypeCourse.String(), seatHoldingStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count seat holders: %w", err)
	}
	return count, nil
}

func (r *SubscriptionRepositoryImpl) FindExpiredActive(ctx context.Context, now time.Time, afterID uint, limit int) ([]*subscription.Subscription, error) {
	var rows []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND end_date < ?", vo.StatusActive.String(), now).
		Scopes(db.AfterID(afterID, limit)).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to find expired subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find expired subscriptions: %w", err)
	}
	return r.mapper.ToEntities(rows)
}

// FindExpiringSoon relies on renewals clearing expiry_warned_at, so a non-null
// stamp always belongs to the current end date.
func (r *SubscriptionRepositoryImpl) FindExpiringSoon(ctx context.Context, now time.Time, window time.Duration, afterID uint, limit int) ([]*subscription.Subscription, error) {
	var rows []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("status = ? AND email_notifications = ? AND end_date >= ? AND end_date <= ?",
			vo.StatusActive.String(), true, now, now.Add(window)).
		Where("expiry_warned_at IS NULL").
		Scopes(db.AfterID(afterID, limit)).
		Find(&rows).Error
	if err != nil {
		r.logger.Errorw("failed to find expiring subscriptions", "error", err)
		return nil, fmt.Errorf("failed to find expiring subscriptions: %w", err)
	}
	return r.mapper.ToEntities(rows)
}

type groupCount struct {
	Key   string
	Count int64
}

type paidRow struct {
	Currency       string
	Price          decimal.Decimal
	DiscountAmount *decimal.Decimal
}

func (r *SubscriptionRepositoryImpl) Statistics(ctx context.Context) (*subscription.Statistics, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	stats := subscription.NewStatistics()

	var byStatus []groupCount
	if err := tx.Model(&models.SubscriptionModel{}).
		Select("status AS `key`, COUNT(*) AS count").Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions by status: %w", err)
	}
	for _, g := range byStatus {
		stats.ByStatus[vo.SubscriptionStatus(g.Key)] = g.Count
		stats.Total += g.Count
	}

	var byType []groupCount
	if err := tx.Model(&models.SubscriptionModel{}).
		Select("subscription_type AS `key`, COUNT(*) AS count").Group("subscription_type").
		Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to count subscriptions by type: %w", err)
	}
	for _, g := range byType {
		stats.ByType[vo.SubscriptionType(g.Key)] = g.Count
	}

	if err := tx.Model(&models.SubscriptionModel{}).
		Where("subscription_type = ? AND status IN ?", vo.TypeCourse.String(), seatHoldingStatuses).
		Count(&stats.SeatsHeld).Error; err != nil {
		return nil, fmt.Errorf("failed to count held seats: %w", err)
	}

	// Revenue is summed here rather than in SQL so decimals stay exact on every driver.
	var paid []paidRow
	if err := tx.Model(&models.SubscriptionModel{}).
		Select("currency, price, discount_amount").
		Where("is_paid = ?", true).
		Scan(&paid).Error; err != nil {
		return nil, fmt.Errorf("failed to load paid subscriptions: %w", err)
	}
	for _, p := range paid {
		net := p.Price
		if p.DiscountAmount != nil {
			net = net.Sub(*p.DiscountAmount)
		}
		stats.Revenue[p.Currency] = stats.Revenue[p.Currency].Add(net)
		stats.Paid++
	}

	return stats, nil
}
