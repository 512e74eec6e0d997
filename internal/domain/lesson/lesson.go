package lesson

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Lesson struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`

	Title          string `gorm:"column:title;not null" json:"title"`
	LessonType     string `gorm:"column:lesson_type;not null;index" json:"lessonType"`
	StudentLevel   string `gorm:"column:student_level;not null;index" json:"studentLevel"`
	TargetLanguage string `gorm:"column:target_language;not null;index" json:"targetLanguage"`
	SourceURL      string `gorm:"column:source_url" json:"sourceUrl,omitempty"`
	SourceText     string `gorm:"column:source_text;type:text;not null" json:"-"`

	Sections         datatypes.JSON `gorm:"column:sections;not null" json:"sections"`
	GenerationReport datatypes.JSON `gorm:"column:generation_report" json:"generationReport,omitempty"`

	// Public lessons appear in the library under a unique slug.
	IsPublic    bool       `gorm:"column:is_public;not null;default:false;index" json:"isPublic"`
	Category    string     `gorm:"column:category;index" json:"category,omitempty"`
	PublicSlug  *string    `gorm:"column:public_slug;uniqueIndex" json:"publicSlug,omitempty"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"publishedAt,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time      `gorm:"not null" json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Lesson) TableName() string { return "lesson" }

func (l *Lesson) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
