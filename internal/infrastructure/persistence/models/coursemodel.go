package models

import (
	"time"

	"learnhub/internal/shared/constants"
)

// CourseModel maps the columns of the platform's courses table that
// enrollment depends on. The table is owned by the course catalog.
type CourseModel struct {
	ID              uint   `gorm:"primarykey"`
	Title           string `gorm:"not null;size:255"`
	IsPublished     bool   `gorm:"not null"`
	IsActive        bool   `gorm:"not null"`
	MaxStudents     int    `gorm:"not null;default:0"`
	CurrentStudents int    `gorm:"not null;default:0"`
	LessonsCount    int    `gorm:"not null;default:0"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (CourseModel) TableName() string {
	return constants.TableCourses
}
