package migration

import (
	"learnhub/internal/infrastructure/persistence/models"
)

func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.UserModel{},
		&models.CourseModel{},
		&models.SubscriptionModel{},
	}
}
