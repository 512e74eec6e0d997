package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/linguaspark/linguaspark-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// EnsureLessonIndexes adds the postgres-only partial indexes the library
// listing relies on. sqlite runs without them.
func EnsureLessonIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != DriverPostgres {
		return nil
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lesson_public_published
		ON lesson(published_at DESC)
		WHERE is_public = true AND deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_lesson_public_published: %w", err)
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lesson_owner_created
		ON lesson(owner_id, created_at DESC)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_lesson_owner_created: %w", err)
	}
	return nil
}
