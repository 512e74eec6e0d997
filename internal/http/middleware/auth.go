package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/linguaspark/linguaspark-backend/internal/http/response"
	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/ctxutil"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
	"github.com/linguaspark/linguaspark-backend/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{log: log.With("middleware", "AuthMiddleware"), authService: authService}
}

// OptionalAuth attaches the caller identity when a valid token is present.
// Anonymous and invalid-token requests continue without one.
func (am *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), token)
		if err != nil {
			am.log.Debug("ignoring invalid token on optional route", "path", c.FullPath(), "error", err.Error())
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.authenticate(c) {
			return
		}
		c.Next()
	}
}

// RequireAdmin implies RequireAuth.
func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !am.authenticate(c) {
			return
		}
		rd := ctxutil.GetRequestData(c.Request.Context())
		if !rd.IsAdmin {
			response.RespondError(c, http.StatusForbidden, apierr.CodePermissionDenied, errPermission)
			return
		}
		c.Next()
	}
}

func (am *AuthMiddleware) authenticate(c *gin.Context) bool {
	token := extractToken(c)
	if token == "" {
		response.RespondError(c, http.StatusUnauthorized, apierr.CodeAuthenticationRequired, errMissingToken)
		return false
	}
	ctx, err := am.authService.SetContextFromToken(c.Request.Context(), token)
	if err != nil {
		am.log.Debug("rejected token", "path", c.FullPath(), "error", err.Error())
		response.RespondError(c, http.StatusUnauthorized, apierr.CodeAuthenticationRequired, errInvalidToken)
		return false
	}
	if !ctxutil.GetRequestData(ctx).Authenticated() {
		response.RespondError(c, http.StatusUnauthorized, apierr.CodeAuthenticationRequired, errInvalidToken)
		return false
	}
	c.Request = c.Request.WithContext(ctx)
	return true
}

// extractToken reads a Bearer header, falling back to the token query
// parameter used by the browser extension.
func extractToken(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return strings.TrimSpace(c.Query("token"))
}
