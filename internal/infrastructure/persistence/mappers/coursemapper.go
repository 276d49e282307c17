package mappers

import (
	"learnhub/internal/application/subscription/services"
	"learnhub/internal/infrastructure/persistence/models"
)

func ToCourse(model *models.CourseModel) *services.Course {
	if model == nil {
		return nil
	}
	return &services.Course{
		ID:              model.ID,
		Title:           model.Title,
		IsPublished:     model.IsPublished,
		IsActive:        model.IsActive,
		MaxStudents:     model.MaxStudents,
		CurrentStudents: model.CurrentStudents,
		LessonsCount:    model.LessonsCount,
	}
}

func ToUser(model *models.UserModel) *services.User {
	if model == nil {
		return nil
	}
	return &services.User{
		ID:    model.ID,
		Email: model.Email,
		Name:  model.Name,
	}
}
