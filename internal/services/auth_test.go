package services

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaspark/linguaspark-backend/internal/platform/ctxutil"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

const testSecret = "test-secret-with-enough-entropy"

func mintToken(t *testing.T, secret string, claims JWTClaims) string {
	t.Helper()
	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(time.Hour))
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return tok
}

func newAuth(t *testing.T, admins ...string) AuthService {
	t.Helper()
	as, err := NewAuthService(logger.Nop(), AuthConfig{JWTSecret: testSecret, Audience: "authenticated", AdminEmails: admins})
	require.NoError(t, err)
	return as
}

func userClaims(id uuid.UUID, email string) JWTClaims {
	return JWTClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  id.String(),
			Audience: jwt.ClaimStrings{"authenticated"},
		},
	}
}

func TestAuthServiceAcceptsValidToken(t *testing.T) {
	as := newAuth(t)
	id := uuid.New()
	ctx, err := as.SetContextFromToken(context.Background(), mintToken(t, testSecret, userClaims(id, "Tutor@Example.com")))
	require.NoError(t, err)

	rd := ctxutil.GetRequestData(ctx)
	require.NotNil(t, rd)
	assert.Equal(t, id, rd.UserID)
	assert.Equal(t, "tutor@example.com", rd.Email)
	assert.False(t, rd.IsAdmin)
}

func TestAuthServiceAdminDetection(t *testing.T) {
	as := newAuth(t, "boss@example.com")

	ctx, err := as.SetContextFromToken(context.Background(), mintToken(t, testSecret, userClaims(uuid.New(), "boss@example.com")))
	require.NoError(t, err)
	assert.True(t, ctxutil.GetRequestData(ctx).IsAdmin, "admin by email")

	claims := userClaims(uuid.New(), "someone@example.com")
	claims.AppMetadata.Role = "admin"
	ctx, err = as.SetContextFromToken(context.Background(), mintToken(t, testSecret, claims))
	require.NoError(t, err)
	assert.True(t, ctxutil.GetRequestData(ctx).IsAdmin, "admin by app_metadata")
}

func TestAuthServiceRejectsBadTokens(t *testing.T) {
	as := newAuth(t)
	id := uuid.New()

	expired := userClaims(id, "a@example.com")
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Hour))

	wrongAud := userClaims(id, "a@example.com")
	wrongAud.Audience = jwt.ClaimStrings{"anon"}

	badSubject := userClaims(id, "a@example.com")
	badSubject.Subject = "not-a-uuid"

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, userClaims(id, "a@example.com")).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	cases := map[string]string{
		"wrong secret": mintToken(t, "other-secret", userClaims(id, "a@example.com")),
		"expired":      mintToken(t, testSecret, expired),
		"audience":     mintToken(t, testSecret, wrongAud),
		"subject":      mintToken(t, testSecret, badSubject),
		"alg none":     none,
		"garbage":      "abc.def.ghi",
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			ctx, err := as.SetContextFromToken(context.Background(), tok)
			require.Error(t, err)
			assert.Nil(t, ctxutil.GetRequestData(ctx))
		})
	}
}

func TestAuthServiceEmptyTokenIsAnonymous(t *testing.T) {
	ctx, err := newAuth(t).SetContextFromToken(context.Background(), "")
	require.NoError(t, err)
	assert.Nil(t, ctxutil.GetRequestData(ctx))
}

func TestNewAuthServiceRequiresSecret(t *testing.T) {
	_, err := NewAuthService(logger.Nop(), AuthConfig{})
	require.Error(t, err)
}
