package mysql

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"NewsPortal/internal/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.User{},
		&model.Author{},
		&model.Category{},
		&model.Subscription{},
		&model.Post{},
		&model.ActivationToken{},
		&model.NotificationOutbox{},
		&model.DigestWatermark{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}
