package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/linguaspark/linguaspark-backend/internal/data/repos"
	"github.com/linguaspark/linguaspark-backend/internal/http/response"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
	"github.com/linguaspark/linguaspark-backend/internal/services"
)

// LibraryHandler serves published lessons to anyone.
type LibraryHandler struct {
	log     *logger.Logger
	lessons services.LessonService
}

func NewLibraryHandler(log *logger.Logger, lessons services.LessonService) *LibraryHandler {
	return &LibraryHandler{log: log.With("handler", "LibraryHandler"), lessons: lessons}
}

// GET /api/library?level=&type=&language=&category=&limit=&offset=
func (h *LibraryHandler) List(c *gin.Context) {
	page, err := pageParams(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	filter := repos.LibraryFilter{
		StudentLevel:   strings.TrimSpace(c.Query("level")),
		LessonType:     strings.TrimSpace(c.Query("type")),
		TargetLanguage: strings.TrimSpace(c.Query("language")),
		Category:       strings.TrimSpace(c.Query("category")),
		Page:           page,
	}
	rows, total, err := h.lessons.ListPublic(c.Request.Context(), filter)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, lessonListResponse{Lessons: rows, pageMeta: newPageMeta(total, page)})
}

// GET /api/library/:slug
func (h *LibraryHandler) GetBySlug(c *gin.Context) {
	l, err := h.lessons.GetPublic(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": l})
}
