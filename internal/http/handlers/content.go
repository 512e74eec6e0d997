package handlers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/linguaspark/linguaspark-backend/internal/http/response"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/scoring"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/validation"
	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

const maxScoredWords = 500

// ContentHandler exposes the checks the extension runs before it offers
// lesson generation. Both endpoints are pure and need no identity.
type ContentHandler struct {
	log *logger.Logger
}

func NewContentHandler(log *logger.Logger) *ContentHandler {
	return &ContentHandler{log: log.With("handler", "ContentHandler")}
}

type validateContentRequest struct {
	Text string `json:"text"`
}

type validateContentResponse struct {
	Validation validation.Result  `json:"validation"`
	Quality    validation.Quality `json:"quality"`
}

// POST /api/content/validate
func (h *ContentHandler) Validate(c *gin.Context) {
	var req validateContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Validation(errInvalidBody))
		return
	}
	response.RespondOK(c, validateContentResponse{
		Validation: validation.ValidateContent(req.Text),
		Quality:    validation.CheckContentQuality(req.Text),
	})
}

type scoreWordsRequest struct {
	Words []string `json:"words"`
}

type scoreWordsResponse struct {
	Selected []scoring.ScoredWord `json:"selected"`
}

// POST /api/words/score
func (h *ContentHandler) ScoreWords(c *gin.Context) {
	var req scoreWordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, apierr.Validation(errInvalidBody))
		return
	}
	if len(req.Words) == 0 {
		response.RespondAPIError(c, apierr.Validation(errors.New("words is required")))
		return
	}
	if len(req.Words) > maxScoredWords {
		response.RespondAPIError(c, apierr.Validation(fmt.Errorf("at most %d words can be scored at once", maxScoredWords)))
		return
	}
	response.RespondOK(c, scoreWordsResponse{Selected: scoring.Select(req.Words)})
}
