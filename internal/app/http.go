package app

import (
	"gorm.io/gorm"

	"github.com/linguaspark/linguaspark-backend/internal/http"
	httpH "github.com/linguaspark/linguaspark-backend/internal/http/handlers"
	httpMW "github.com/linguaspark/linguaspark-backend/internal/http/middleware"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health     *httpH.HealthHandler
	Content    *httpH.ContentHandler
	Library    *httpH.LibraryHandler
	Lesson     *httpH.LessonHandler
	Extraction *httpH.ExtractionHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	var pinger httpH.Pinger
	if sqlDB, err := db.DB(); err == nil {
		pinger = sqlDB
	}
	return Handlers{
		Health:     httpH.NewHealthHandler(pinger),
		Content:    httpH.NewContentHandler(log),
		Library:    httpH.NewLibraryHandler(log, services.Lesson),
		Lesson:     httpH.NewLessonHandler(log, services.Lesson),
		Extraction: httpH.NewExtractionHandler(log, services.Extractions),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:               log,
		ServiceName:       cfg.ServiceName,
		AllowedOrigins:    cfg.CORSOrigins,
		AuthMiddleware:    middleware.Auth,
		HealthHandler:     handlers.Health,
		ContentHandler:    handlers.Content,
		LibraryHandler:    handlers.Library,
		LessonHandler:     handlers.Lesson,
		ExtractionHandler: handlers.Extraction,
	})
}
