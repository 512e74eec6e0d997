package services

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/contentstore"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

func newExtractionSvc() ContentExtractionService {
	return NewContentExtractionService(logger.Nop(), contentstore.NewMemory(contentstore.Options{}))
}

func TestExtractionSubmitAndClaimOnce(t *testing.T) {
	svc := newExtractionSvc()
	ctx := as(uuid.New(), false)

	entry, err := svc.Submit(ctx, contentstore.Content{Title: "Coffee", URL: "https://example.com/coffee", Text: " Coffee began in Ethiopia. "})
	require.NoError(t, err)
	require.NotEmpty(t, entry.Key)

	got, err := svc.Claim(ctx, entry.Key)
	require.NoError(t, err)
	assert.Equal(t, "Coffee began in Ethiopia.", got.Content.Text)
	assert.Equal(t, "Coffee", got.Content.Title)

	_, err = svc.Claim(ctx, entry.Key)
	assert.Equal(t, apierr.CodeNotFound, code(err))
}

func TestExtractionValidation(t *testing.T) {
	svc := newExtractionSvc()
	ctx := as(uuid.New(), false)

	_, err := svc.Submit(ctx, contentstore.Content{Text: "   "})
	assert.Equal(t, apierr.CodeValidation, code(err))

	_, err = svc.Submit(ctx, contentstore.Content{Text: strings.Repeat("a", MaxExtractedCharacters+1)})
	assert.Equal(t, apierr.CodeValidation, code(err))

	_, err = svc.Claim(ctx, " ")
	assert.Equal(t, apierr.CodeValidation, code(err))
}

func TestExtractionRequiresIdentity(t *testing.T) {
	svc := newExtractionSvc()
	_, err := svc.Submit(context.Background(), contentstore.Content{Text: "hello"})
	assert.Equal(t, apierr.CodeAuthenticationRequired, code(err))
	_, err = svc.Claim(context.Background(), "key")
	assert.Equal(t, apierr.CodeAuthenticationRequired, code(err))
}
