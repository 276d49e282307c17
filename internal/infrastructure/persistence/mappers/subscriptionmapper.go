package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"learnhub/internal/domain/subscription"
	vo "learnhub/internal/domain/subscription/valueobjects"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/mapper"
)

type SubscriptionMapper interface {
	ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error)
	ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error)
	ToEntities(models []*models.SubscriptionModel) ([]*subscription.Subscription, error)
}

type SubscriptionMapperImpl struct{}

func NewSubscriptionMapper() SubscriptionMapper {
	return &SubscriptionMapperImpl{}
}

func (m *SubscriptionMapperImpl) ToEntity(model *models.SubscriptionModel) (*subscription.Subscription, error) {
	if model == nil {
		return nil, nil
	}

	status, err := vo.ParseStatus(model.Status)
	if err != nil {
		return nil, err
	}
	subType, err := vo.ParseSubscriptionType(model.SubscriptionType)
	if err != nil {
		return nil, err
	}

	var periodType *vo.PeriodType
	if model.PeriodType != nil && *model.PeriodType != "" {
		p, err := vo.ParsePeriodType(*model.PeriodType)
		if err != nil {
			return nil, fmt.Errorf("failed to parse period type: %w", err)
		}
		periodType = &p
	}

	var metadata map[string]interface{}
	if len(model.Metadata) > 0 {
		if err := json.Unmarshal(model.Metadata, &metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}

	entity, err := subscription.ReconstructSubscription(subscription.ReconstructParams{
		ID:                   model.ID,
		SID:                  model.SID,
		UserID:               model.UserID,
		Type:                 subType,
		CourseID:             model.CourseID,
		PeriodType:           periodType,
		StartDate:            model.StartDate.UTC(),
		EndDate:              model.EndDate.UTC(),
		Status:               status,
		Price:                model.Price,
		Currency:             model.Currency,
		DiscountAmount:       model.DiscountAmount,
		DiscountCode:         model.DiscountCode,
		IsPaid:               model.IsPaid,
		PaymentMethod:        model.PaymentMethod,
		PaymentTransactionID: model.PaymentTransactionID,
		PaymentDate:          utcPtr(model.PaymentDate),
		AutoRenewal:          model.AutoRenewal,
		NextBillingDate:      utcPtr(model.NextBillingDate),
		ProgressPercentage:   model.ProgressPercentage,
		CompletedLessons:     model.CompletedLessons,
		TotalLessons:         model.TotalLessons,
		LastAccessed:         utcPtr(model.LastAccessed),
		CancellationReason:   model.CancellationReason,
		CancelledAt:          utcPtr(model.CancelledAt),
		CancelledBy:          model.CancelledBy,
		EmailNotifications:   model.EmailNotifications,
		ExpiryWarnedAt:       utcPtr(model.ExpiryWarnedAt),
		Metadata:             metadata,
		Version:              model.Version,
		CreatedAt:            model.CreatedAt,
		UpdatedAt:            model.UpdatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct subscription entity: %w", err)
	}

	return entity, nil
}

func (m *SubscriptionMapperImpl) ToModel(entity *subscription.Subscription) (*models.SubscriptionModel, error) {
	if entity == nil {
		return nil, nil
	}

	var metadataJSON datatypes.JSON
	if metadata := entity.Metadata(); len(metadata) > 0 {
		data, err := json.Marshal(metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadataJSON = data
	}

	var periodType *string
	if p := entity.PeriodType(); p != nil {
		s := p.String()
		periodType = &s
	}

	return &models.SubscriptionModel{
		ID:                   entity.ID(),
		SID:                  entity.SID(),
		UserID:               entity.UserID(),
		SubscriptionType:     entity.Type().String(),
		CourseID:             entity.CourseID(),
		PeriodType:           periodType,
		StartDate:            entity.StartDate().UTC(),
		EndDate:              entity.EndDate().UTC(),
		Status:               entity.Status().String(),
		Price:                entity.Price(),
		Currency:             entity.Currency(),
		DiscountAmount:       entity.DiscountAmount(),
		DiscountCode:         entity.DiscountCode(),
		IsPaid:               entity.IsPaid(),
		PaymentMethod:        entity.PaymentMethod(),
		PaymentTransactionID: entity.PaymentTransactionID(),
		PaymentDate:          utcPtr(entity.PaymentDate()),
		AutoRenewal:          entity.AutoRenewal(),
		NextBillingDate:      utcPtr(entity.NextBillingDate()),
		ProgressPercentage:   entity.ProgressPercentage(),
		CompletedLessons:     entity.CompletedLessons(),
		TotalLessons:         entity.TotalLessons(),
		LastAccessed:         utcPtr(entity.LastAccessed()),
		CancellationReason:   entity.CancellationReason(),
		CancelledAt:          utcPtr(entity.CancelledAt()),
		CancelledBy:          entity.CancelledBy(),
		EmailNotifications:   entity.EmailNotifications(),
		ExpiryWarnedAt:       utcPtr(entity.ExpiryWarnedAt()),
		Metadata:             metadataJSON,
		Version:              entity.Version(),
		CreatedAt:            entity.CreatedAt(),
		UpdatedAt:            entity.UpdatedAt(),
	}, nil
}

func (m *SubscriptionMapperImpl) ToEntities(modelList []*models.SubscriptionModel) ([]*subscription.Subscription, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.SubscriptionModel) uint { return model.ID })
}
