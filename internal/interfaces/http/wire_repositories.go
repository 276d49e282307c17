package http

import (
	"gorm.io/gorm"

	"learnhub/internal/infrastructure/repository"
	shareddb "learnhub/internal/shared/db"
	"learnhub/internal/shared/logger"
)

// repositories holds the repository instances used by the application.
type repositories struct {
	subscriptionRepo *repository.SubscriptionRepositoryImpl
	courseRepo       *repository.CourseCatalogRepository
	userRepo         *repository.UserDirectoryRepository
	txManager        *shareddb.TransactionManager
}

func newRepositories(db *gorm.DB, log logger.Interface) *repositories {
	return &repositories{
		subscriptionRepo: repository.NewSubscriptionRepository(db, log.Named("repository.subscription")),
		courseRepo:       repository.NewCourseCatalogRepository(db, log.Named("repository.course")),
		userRepo:         repository.NewUserDirectoryRepository(db, log.Named("repository.user")),
		txManager:        shareddb.NewTransactionManager(db),
	}
}
