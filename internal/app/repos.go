package app

import (
	"gorm.io/gorm"

	"github.com/linguaspark/linguaspark-backend/internal/data/repos"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

type Repos struct {
	Lesson repos.LessonRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Lesson: repos.NewLessonRepo(db, log),
	}
}
