package domain

import "github.com/linguaspark/linguaspark-backend/internal/domain/lesson"

type (
	Lesson           = lesson.Lesson
	LessonPlan       = lesson.Plan
	LessonSections   = lesson.Sections
	VocabularyItem   = lesson.VocabularyItem
	Grammar          = lesson.Grammar
	Pronunciation    = lesson.Pronunciation
	DialogueTurn     = lesson.DialogueTurn
	DialoguePractice = lesson.DialoguePractice
	GapTurn          = lesson.GapTurn
	DialogueFillGap  = lesson.DialogueFillGap
)

const (
	SpeakerStudent = lesson.SpeakerStudent
	SpeakerTutor   = lesson.SpeakerTutor
)

// AllModels lists every gorm model for auto-migration.
func AllModels() []any {
	return []any{&Lesson{}}
}
