package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/contentstore"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

// MaxExtractedCharacters bounds one submitted page.
const MaxExtractedCharacters = 200_000

// ContentExtractionService hands page text captured by the browser
// extension over to the lesson workflow. Every key can be claimed once.
type ContentExtractionService interface {
	Submit(ctx context.Context, c contentstore.Content) (contentstore.Entry, error)
	Claim(ctx context.Context, key string) (contentstore.Entry, error)
}

type contentExtractionService struct {
	log   *logger.Logger
	store contentstore.Store
}

func NewContentExtractionService(log *logger.Logger, store contentstore.Store) ContentExtractionService {
	return &contentExtractionService{log: log.With("service", "ContentExtractionService"), store: store}
}

func (s *contentExtractionService) Submit(ctx context.Context, c contentstore.Content) (contentstore.Entry, error) {
	rd, err := requireIdentity(ctx)
	if err != nil {
		return contentstore.Entry{}, err
	}
	if n := len([]rune(c.Text)); n > MaxExtractedCharacters {
		return contentstore.Entry{}, apierr.Validation(fmt.Errorf("text must be at most %d characters (found %d)", MaxExtractedCharacters, n))
	}
	entry, err := s.store.Put(ctx, c)
	if errors.Is(err, contentstore.ErrEmpty) {
		return contentstore.Entry{}, apierr.Validation(err)
	}
	if err != nil {
		return contentstore.Entry{}, apierr.Internal(fmt.Errorf("store extracted content: %w", err))
	}
	s.log.Debug("content stored", "key", entry.Key, "user_id", rd.UserID.String(), "chars", len(entry.Content.Text))
	return entry, nil
}

func (s *contentExtractionService) Claim(ctx context.Context, key string) (contentstore.Entry, error) {
	if _, err := requireIdentity(ctx); err != nil {
		return contentstore.Entry{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return contentstore.Entry{}, apierr.Validation(errors.New("key is required"))
	}
	entry, err := s.store.Take(ctx, key)
	if errors.Is(err, contentstore.ErrNotFound) {
		return contentstore.Entry{}, apierr.NotFound(err.Error())
	}
	if err != nil {
		return contentstore.Entry{}, apierr.Internal(fmt.Errorf("claim extracted content: %w", err))
	}
	return entry, nil
}
