package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/linguaspark/linguaspark-backend/internal/platform/ctxutil"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

// AuthService verifies access tokens minted by the external identity
// provider. It never issues tokens itself.
type AuthService interface {
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	IsAdmin(email string, claims *JWTClaims) bool
}

type AuthConfig struct {
	JWTSecret   string
	Audience    string
	AdminEmails []string
}

// JWTClaims is the Supabase access-token shape.
type JWTClaims struct {
	Email       string      `json:"email"`
	Role        string      `json:"role"`
	AppMetadata AppMetadata `json:"app_metadata"`
	jwt.RegisteredClaims
}

type AppMetadata struct {
	Role string `json:"role"`
}

type authService struct {
	log         *logger.Logger
	secret      []byte
	audience    string
	adminEmails map[string]bool
}

func NewAuthService(log *logger.Logger, cfg AuthConfig) (AuthService, error) {
	secret := strings.TrimSpace(cfg.JWTSecret)
	if secret == "" {
		return nil, fmt.Errorf("missing SUPABASE_JWT_SECRET")
	}
	admins := map[string]bool{}
	for _, e := range cfg.AdminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = true
		}
	}
	return &authService{
		log:         log.With("service", "AuthService"),
		secret:      []byte(secret),
		audience:    strings.TrimSpace(cfg.Audience),
		adminEmails: admins,
	}, nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if tokenString == "" {
		return ctx, nil
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
		jwt.WithExpirationRequired(),
	}
	if as.audience != "" {
		opts = append(opts, jwt.WithAudience(as.audience))
	}
	parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.secret, nil
	}, opts...)
	if err != nil {
		return ctx, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := parsedToken.Claims.(*JWTClaims)
	if !ok || !parsedToken.Valid {
		return ctx, fmt.Errorf("invalid or expired token")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, fmt.Errorf("invalid user id in token: %w", err)
	}
	email := strings.ToLower(strings.TrimSpace(claims.Email))
	rd := &ctxutil.RequestData{
		TokenString: tokenString,
		UserID:      userID,
		Email:       email,
		IsAdmin:     as.IsAdmin(email, claims),
	}
	return ctxutil.WithRequestData(ctx, rd), nil
}

func (as *authService) IsAdmin(email string, claims *JWTClaims) bool {
	if claims != nil && strings.EqualFold(claims.AppMetadata.Role, "admin") {
		return true
	}
	return as.adminEmails[strings.ToLower(strings.TrimSpace(email))]
}
