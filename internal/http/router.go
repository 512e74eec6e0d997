package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/linguaspark/linguaspark-backend/internal/http/handlers"
	httpMW "github.com/linguaspark/linguaspark-backend/internal/http/middleware"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler     *httpH.HealthHandler
	ContentHandler    *httpH.ContentHandler
	LibraryHandler    *httpH.LibraryHandler
	LessonHandler     *httpH.LessonHandler
	ExtractionHandler *httpH.ExtractionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Log
	if log == nil {
		log = logger.Nop()
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "linguaspark-api"
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(log.With("component", "http")))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Content checks (public)
	if cfg.ContentHandler != nil {
		api.POST("/content/validate", cfg.ContentHandler.Validate)
		api.POST("/words/score", cfg.ContentHandler.ScoreWords)
	}

	am := cfg.AuthMiddleware
	if am == nil {
		return r
	}

	// Library
	if cfg.LibraryHandler != nil {
		api.GET("/library", am.OptionalAuth(), cfg.LibraryHandler.List)
		api.GET("/library/:slug", am.OptionalAuth(), cfg.LibraryHandler.GetBySlug)
	}

	// Lessons
	if cfg.LessonHandler != nil {
		api.POST("/lessons/generate", am.RequireAuth(), cfg.LessonHandler.Generate)
		api.GET("/lessons", am.RequireAuth(), cfg.LessonHandler.List)
		api.GET("/lessons/:id", am.OptionalAuth(), cfg.LessonHandler.Get)
		api.DELETE("/lessons/:id", am.RequireAuth(), cfg.LessonHandler.Delete)
		api.PUT("/lessons/:id/visibility", am.RequireAdmin(), cfg.LessonHandler.SetVisibility)
	}

	// Extension hand-off
	if cfg.ExtractionHandler != nil {
		protected := api.Group("/extractions", am.RequireAuth())
		protected.POST("", cfg.ExtractionHandler.Submit)
		protected.GET("/:key", cfg.ExtractionHandler.Claim)
	}

	return r
}
