package app

import (
	"fmt"

	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/generation"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
	"github.com/linguaspark/linguaspark-backend/internal/services"
)

type Services struct {
	Auth        services.AuthService
	Lesson      services.LessonService
	Extractions services.ContentExtractionService
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	auth, err := services.NewAuthService(log, services.AuthConfig{
		JWTSecret:   cfg.JWTSecret,
		Audience:    cfg.JWTAudience,
		AdminEmails: cfg.AdminEmails,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init auth service: %w", err)
	}

	orchestrator, err := generation.NewOrchestrator(clients.AI, log, generation.WithTimeout(cfg.GenerationTimeout))
	if err != nil {
		return Services{}, fmt.Errorf("init lesson orchestrator: %w", err)
	}

	return Services{
		Auth:        auth,
		Lesson:      services.NewLessonService(log, orchestrator, reposet.Lesson, cfg.MaxConcurrentGenerations),
		Extractions: services.NewContentExtractionService(log, clients.Content),
	}, nil
}
