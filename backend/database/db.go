package database

import (
	"cypress/backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Init opens the sqlite database at path and migrates the schema.
// The handle is passed to handlers and middleware explicitly; there is
// no package-level singleton.
func Init(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.LogEntry{}); err != nil {
		return nil, err
	}
	return db, nil
}
