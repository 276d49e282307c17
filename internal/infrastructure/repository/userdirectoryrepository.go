package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"learnhub/internal/application/subscription/services"
	"learnhub/internal/infrastructure/persistence/mappers"
	"learnhub/internal/infrastructure/persistence/models"
	"learnhub/internal/shared/db"
	"learnhub/internal/shared/logger"
)

// UserDirectoryRepository is a read-only adapter over the users table.
type UserDirectoryRepository struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserDirectoryRepository(db *gorm.DB, logger logger.Interface) *UserDirectoryRepository {
	return &UserDirectoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *UserDirectoryRepository) FindByID(ctx context.Context, id uint) (*services.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *UserDirectoryRepository) FindByEmail(ctx context.Context, email string) (*services.User, error) {
	return r.findOne(ctx, "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserDirectoryRepository) findOne(ctx context.Context, cond string, arg interface{}) (*services.User, error) {
	var model models.UserModel
	if err := db.GetTxFromContext(ctx, r.db).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user", "condition", cond, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return mappers.ToUser(&model), nil
}
