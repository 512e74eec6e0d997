package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	types "github.com/linguaspark/linguaspark-backend/internal/domain"
	"github.com/linguaspark/linguaspark-backend/internal/http/response"
	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
	"github.com/linguaspark/linguaspark-backend/internal/services"
)

type LessonHandler struct {
	log     *logger.Logger
	lessons services.LessonService
}

func NewLessonHandler(log *logger.Logger, lessons services.LessonService) *LessonHandler {
	return &LessonHandler{log: log.With("handler", "LessonHandler"), lessons: lessons}
}

type lessonListResponse struct {
	Lessons []*types.Lesson `json:"lessons"`
	pageMeta
}

// POST /api/lessons/generate
func (h *LessonHandler) Generate(c *gin.Context) {
	var in services.GenerateLessonInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondAPIError(c, apierr.Validation(errInvalidBody))
		return
	}
	out, err := h.lessons.Generate(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	status := http.StatusCreated
	if !out.Saved {
		status = http.StatusOK
	}
	c.JSON(status, out)
}

// GET /api/lessons
func (h *LessonHandler) List(c *gin.Context) {
	page, err := pageParams(c)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	rows, total, err := h.lessons.List(c.Request.Context(), page)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, lessonListResponse{Lessons: rows, pageMeta: newPageMeta(total, page)})
}

// GET /api/lessons/:id
func (h *LessonHandler) Get(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	l, err := h.lessons.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": l})
}

// DELETE /api/lessons/:id
func (h *LessonHandler) Delete(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.lessons.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PUT /api/lessons/:id/visibility
func (h *LessonHandler) SetVisibility(c *gin.Context) {
	id, err := pathUUID(c, "id")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var in services.VisibilityInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondAPIError(c, apierr.Validation(errInvalidBody))
		return
	}
	l, err := h.lessons.SetVisibility(c.Request.Context(), id, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": l})
}
