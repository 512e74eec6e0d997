package handlers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/linguaspark/linguaspark-backend/internal/data/repos"
	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
)

var (
	errDatabaseDown = errors.New("database unavailable")
	errInvalidBody  = errors.New("request body must be valid JSON")
)

func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return uuid.Nil, apierr.Validation(fmt.Errorf("%s must be a valid id", name))
	}
	return id, nil
}

// pageParams reads limit/offset; the repository clamps out-of-range values.
func pageParams(c *gin.Context) (repos.Page, error) {
	var p repos.Page
	var err error
	if p.Limit, err = intQuery(c, "limit"); err != nil {
		return p, err
	}
	if p.Offset, err = intQuery(c, "offset"); err != nil {
		return p, err
	}
	return p, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apierr.Validation(fmt.Errorf("%s must be a non-negative integer", name))
	}
	return n, nil
}

type pageMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

func newPageMeta(total int64, p repos.Page) pageMeta {
	limit := p.Limit
	if limit <= 0 {
		limit = repos.DefaultLimit
	}
	if limit > repos.MaxLimit {
		limit = repos.MaxLimit
	}
	return pageMeta{Total: total, Limit: limit, Offset: p.Offset}
}
