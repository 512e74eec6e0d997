package repos

import (
	"gorm.io/gorm"

	"github.com/linguaspark/linguaspark-backend/internal/data/repos/lessons"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

type LessonRepo = lessons.LessonRepo
type Page = lessons.Page
type LibraryFilter = lessons.LibraryFilter
type Visibility = lessons.Visibility

const (
	DefaultLimit = lessons.DefaultLimit
	MaxLimit     = lessons.MaxLimit
)

var (
	ErrNotFound  = lessons.ErrNotFound
	ErrConflict  = lessons.ErrConflict
	ErrRetryable = lessons.ErrRetryable
)

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return lessons.NewLessonRepo(db, baseLog)
}
