package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/infrastructure/persistence/mappers"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/logger"
)

// CourseCatalogRepository reads the courses table and owns writes to its
// current_students column.
type CourseCatalogRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCourseCatalogRepository(db *gorm.DB, logger logger.Interface) *CourseCatalogRepository {
	return &CourseCatalogRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CourseCatalogRepository) FindByID(ctx context.Context, id uint) (*services.Course, error) {
	var model models.CourseModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get course", "course_id", id, "error", err)
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return mappers.ToCourse(&model), nil
}

// AdjustSeatCount applies delta in one conditional UPDATE. The row lock taken
// by the update serialises concurrent enrollments on the same course.
func (r *CourseCatalogRepository) AdjustSeatCount(ctx context.Context, courseID uint, delta int) (bool, error) {
	if delta == 0 {
		return true, nil
	}

	tx := db.GetTxFromContext(ctx, r.db).Model(&models.CourseModel{}).Where("id = ?", courseID)
	if delta < 0 {
		tx = tx.Where("current_students + ? >= 0", delta)
	} else {
		tx = tx.Where("(max_students = 0 OR current_students + ? <= max_students)", delta)
	}

	result := tx.UpdateColumn("current_students", gorm.Expr("current_students + ?", delta))
	if result.Error != nil {
		r.logger.Errorw("failed to adjust seat count", "course_id", courseID, "delta", delta, "error", result.Error)
		return false, fmt.Errorf("failed to adjust seat count: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *CourseCatalogRepository) SetSeatCount(ctx context.Context, courseID uint, count int64) error {
	err := db.GetTxFromContext(ctx, r.db).Model(&models.CourseModel{}).
		Where("id = ?", courseID).
		UpdateColumn("current_students", count).Error
	if err != nil {
		r.logger.Errorw("failed to set seat count", "course_id", courseID, "count", count, "error", err)
		return fmt.Errorf("failed to set seat count: %w", err)
	}
	return nil
}
