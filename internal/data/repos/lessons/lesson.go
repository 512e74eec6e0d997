package lessons

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/linguaspark/linguaspark-backend/internal/domain"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type Page struct {
	Limit  int
	Offset int
}

func (p Page) normalized() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// LibraryFilter narrows the public listing. Empty fields match everything.
type LibraryFilter struct {
	StudentLevel   string
	LessonType     string
	TargetLanguage string
	Category       string
	Page
}

// Visibility is the publish state written by SetVisibility. Slug and
// PublishedAt are only used when IsPublic is true.
type Visibility struct {
	IsPublic    bool
	Category    string
	Slug        string
	PublishedAt time.Time
}

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) (*types.Lesson, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error)
	GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Lesson, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, page Page) ([]*types.Lesson, int64, error)
	ListPublic(ctx context.Context, tx *gorm.DB, filter LibraryFilter) ([]*types.Lesson, int64, error)
	SetVisibility(ctx context.Context, tx *gorm.DB, id uuid.UUID, vis Visibility) (*types.Lesson, error)
	SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	repoLog := baseLog.With("repo", "LessonRepo")
	return &lessonRepo{db: db, log: repoLog}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lesson *types.Lesson) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(lesson).Error; err != nil {
		return nil, mapError("lesson.create", err)
	}
	return lesson, nil
}

func (r *lessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var out types.Lesson
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&out).Error; err != nil {
		return nil, mapError("lesson.get", err)
	}
	return &out, nil
}

func (r *lessonRepo) GetBySlug(ctx context.Context, tx *gorm.DB, slug string) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var out types.Lesson
	if err := transaction.WithContext(ctx).
		Where("public_slug = ? AND is_public = ?", strings.TrimSpace(slug), true).
		First(&out).Error; err != nil {
		return nil, mapError("lesson.get_by_slug", err)
	}
	return &out, nil
}

func (r *lessonRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, page Page) ([]*types.Lesson, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	page = page.normalized()

	q := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("owner_id = ?", ownerID).
		Session(&gorm.Session{})
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError("lesson.list_by_owner", err)
	}
	results := []*types.Lesson{}
	if err := q.
		Order("created_at DESC, id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&results).Error; err != nil {
		return nil, 0, mapError("lesson.list_by_owner", err)
	}
	return results, total, nil
}

func (r *lessonRepo) ListPublic(ctx context.Context, tx *gorm.DB, filter LibraryFilter) ([]*types.Lesson, int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	page := filter.Page.normalized()

	q := transaction.WithContext(ctx).Model(&types.Lesson{}).Where("is_public = ?", true)
	if v := strings.TrimSpace(filter.StudentLevel); v != "" {
		q = q.Where("student_level = ?", strings.ToUpper(v))
	}
	if v := strings.TrimSpace(filter.LessonType); v != "" {
		q = q.Where("lesson_type = ?", v)
	}
	if v := strings.TrimSpace(filter.TargetLanguage); v != "" {
		q = q.Where("LOWER(target_language) = ?", strings.ToLower(v))
	}
	if v := strings.TrimSpace(filter.Category); v != "" {
		q = q.Where("category = ?", v)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, mapError("lesson.list_public", err)
	}
	results := []*types.Lesson{}
	if err := q.
		Order("published_at DESC, id ASC").
		Limit(page.Limit).
		Offset(page.Offset).
		Find(&results).Error; err != nil {
		return nil, 0, mapError("lesson.list_public", err)
	}
	return results, total, nil
}

func (r *lessonRepo) SetVisibility(ctx context.Context, tx *gorm.DB, id uuid.UUID, vis Visibility) (*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	updates := map[string]interface{}{
		"is_public":  vis.IsPublic,
		"category":   strings.TrimSpace(vis.Category),
		"updated_at": time.Now().UTC(),
	}
	if vis.IsPublic {
		updates["public_slug"] = vis.Slug
		updates["published_at"] = vis.PublishedAt.UTC()
	} else {
		updates["public_slug"] = nil
		updates["published_at"] = nil
	}

	res := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, mapError("lesson.set_visibility", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, mapError("lesson.set_visibility", ErrNotFound)
	}
	return r.GetByID(ctx, transaction, id)
}

func (r *lessonRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	res := transaction.WithContext(ctx).
		Where("id = ?", id).
		Delete(&types.Lesson{})
	if res.Error != nil {
		return mapError("lesson.delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
