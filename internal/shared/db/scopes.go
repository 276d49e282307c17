package db

import "gorm.io/gorm"

// Paginate applies LIMIT/OFFSET for a 1-based page.
func Paginate(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// AfterID applies keyset pagination ordered by primary key.
//
//	db.Scopes(db.AfterID(cursor, 200)).Find(&rows)
func AfterID(cursor uint, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id > ?", cursor).Order("id ASC").Limit(limit)
	}
}
