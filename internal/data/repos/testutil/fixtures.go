package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/linguaspark/linguaspark-backend/internal/domain"
)

type LessonOpt func(*types.Lesson)

func Public(slug, category string, at time.Time) LessonOpt {
	return func(l *types.Lesson) {
		l.IsPublic = true
		l.PublicSlug = &slug
		l.Category = category
		at = at.UTC()
		l.PublishedAt = &at
	}
}

func WithLevel(level string) LessonOpt {
	return func(l *types.Lesson) { l.StudentLevel = level }
}

func WithLanguage(lang string) LessonOpt {
	return func(l *types.Lesson) { l.TargetLanguage = lang }
}

func CreatedAt(at time.Time) LessonOpt {
	return func(l *types.Lesson) { l.CreatedAt = at.UTC() }
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, opts ...LessonOpt) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		Title:          "lesson",
		LessonType:     "conversation",
		StudentLevel:   "B1",
		TargetLanguage: "Spanish",
		SourceText:     "source",
		Sections:       datatypes.JSON([]byte("{}")),
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}
