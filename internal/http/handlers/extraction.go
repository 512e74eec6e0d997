package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/linguaspark/linguaspark-backend/internal/http/response"
	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/contentstore"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
	"github.com/linguaspark/linguaspark-backend/internal/services"
)

type ExtractionHandler struct {
	log         *logger.Logger
	extractions services.ContentExtractionService
}

func NewExtractionHandler(log *logger.Logger, extractions services.ContentExtractionService) *ExtractionHandler {
	return &ExtractionHandler{log: log.With("handler", "ExtractionHandler"), extractions: extractions}
}

// POST /api/extractions
func (h *ExtractionHandler) Submit(c *gin.Context) {
	var in contentstore.Content
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondAPIError(c, apierr.Validation(errInvalidBody))
		return
	}
	entry, err := h.extractions.Submit(c.Request.Context(), in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"key": entry.Key, "createdAt": entry.CreatedAt})
}

// GET /api/extractions/:key
func (h *ExtractionHandler) Claim(c *gin.Context) {
	entry, err := h.extractions.Claim(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, entry)
}
