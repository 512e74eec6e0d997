package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
	"gorm.io/datatypes"

	"github.com/linguaspark/linguaspark-backend/internal/data/repos"
	types "github.com/linguaspark/linguaspark-backend/internal/domain"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/generation"
	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/ctxutil"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

// LessonGenerator is the pipeline the service drives.
type LessonGenerator interface {
	GenerateLesson(ctx context.Context, req generation.Request) (*types.LessonPlan, *generation.Report, error)
}

type LessonService interface {
	Generate(ctx context.Context, in GenerateLessonInput) (*GenerateLessonResult, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Lesson, error)
	List(ctx context.Context, page repos.Page) ([]*types.Lesson, int64, error)
	ListPublic(ctx context.Context, filter repos.LibraryFilter) ([]*types.Lesson, int64, error)
	GetPublic(ctx context.Context, slug string) (*types.Lesson, error)
	Delete(ctx context.Context, id uuid.UUID) error
	SetVisibility(ctx context.Context, id uuid.UUID, in VisibilityInput) (*types.Lesson, error)
}

type GenerateLessonInput struct {
	SourceText     string `json:"sourceText" validate:"required"`
	SourceURL      string `json:"sourceUrl" validate:"omitempty,url,max=2048"`
	Title          string `json:"title" validate:"max=200"`
	LessonType     string `json:"lessonType" validate:"required,max=64"`
	StudentLevel   string `json:"studentLevel" validate:"required,oneof=A1 A2 B1 B2 C1"`
	TargetLanguage string `json:"targetLanguage" validate:"required,max=64"`
}

type GenerateLessonResult struct {
	LessonID *uuid.UUID         `json:"lessonId,omitempty"`
	Title    string             `json:"title"`
	Lesson   *types.LessonPlan  `json:"lesson"`
	Report   *generation.Report `json:"generation"`
	Saved    bool               `json:"saved"`
	Warning  string             `json:"warning,omitempty"`
}

type VisibilityInput struct {
	IsPublic bool   `json:"isPublic"`
	Category string `json:"category" validate:"max=64"`
}

const (
	unsavedWarning   = "The lesson was generated but could not be saved. Copy it before leaving the page."
	maxSlugAttempts  = 3
	maxSlugBaseRunes = 60
)

type lessonService struct {
	log       *logger.Logger
	generator LessonGenerator
	repo      repos.LessonRepo
	validate  *validator.Validate
	limiter   *semaphore.Weighted
	now       func() time.Time
}

// NewLessonService bounds concurrent generations per process with
// maxConcurrent (at least one).
func NewLessonService(log *logger.Logger, generator LessonGenerator, repo repos.LessonRepo, maxConcurrent int) LessonService {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &lessonService{
		log:       log.With("service", "LessonService"),
		generator: generator,
		repo:      repo,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		limiter:   semaphore.NewWeighted(int64(maxConcurrent)),
		now:       time.Now,
	}
}

func requireIdentity(ctx context.Context) (*ctxutil.RequestData, error) {
	rd := ctxutil.GetRequestData(ctx)
	if !rd.Authenticated() {
		return nil, apierr.Unauthenticated("authentication required")
	}
	return rd, nil
}

func (s *lessonService) Generate(ctx context.Context, in GenerateLessonInput) (*GenerateLessonResult, error) {
	rd, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	in.StudentLevel = strings.ToUpper(strings.TrimSpace(in.StudentLevel))
	in.LessonType = strings.TrimSpace(in.LessonType)
	in.TargetLanguage = strings.TrimSpace(in.TargetLanguage)
	in.SourceURL = strings.TrimSpace(in.SourceURL)
	in.Title = strings.TrimSpace(in.Title)
	if err := s.validate.Struct(in); err != nil {
		return nil, apierr.Validation(describeValidation(err))
	}

	if err := s.limiter.Acquire(ctx, 1); err != nil {
		return nil, apierr.New(http.StatusGatewayTimeout, apierr.CodeNetworkTimeout, fmt.Errorf("gave up waiting for a generation slot: %w", err))
	}
	defer s.limiter.Release(1)

	plan, report, err := s.generator.GenerateLesson(ctx, generation.Request{
		SourceText:     in.SourceText,
		LessonType:     in.LessonType,
		StudentLevel:   generation.Level(in.StudentLevel),
		TargetLanguage: in.TargetLanguage,
	})
	if err != nil {
		return nil, err
	}

	title := in.Title
	if title == "" {
		title = report.LessonTitle
	}
	res := &GenerateLessonResult{Title: title, Lesson: plan, Report: report}

	// Persisting is best effort: the tutor keeps the lesson either way.
	saved, err := s.persist(ctx, rd.UserID, in, title, plan, report)
	if err != nil {
		s.log.Warn("lesson generated but not saved", "user_id", rd.UserID.String(), "error", err)
		res.Warning = unsavedWarning
		return res, nil
	}
	res.LessonID = &saved.ID
	res.Saved = true
	return res, nil
}

func (s *lessonService) persist(ctx context.Context, owner uuid.UUID, in GenerateLessonInput, title string, plan *types.LessonPlan, report *generation.Report) (*types.Lesson, error) {
	if s.repo == nil {
		return nil, errors.New("lesson store not configured")
	}
	sections, err := json.Marshal(plan.Sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	rep, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return s.repo.Create(ctx, nil, &types.Lesson{
		OwnerID:          owner,
		Title:            title,
		LessonType:       plan.LessonType,
		StudentLevel:     plan.StudentLevel,
		TargetLanguage:   plan.TargetLanguage,
		SourceURL:        in.SourceURL,
		SourceText:       in.SourceText,
		Sections:         datatypes.JSON(sections),
		GenerationReport: datatypes.JSON(rep),
	})
}

// Get returns a lesson to its owner, an admin or anyone when it is public.
// Private lessons are reported as missing to everyone else.
func (s *lessonService) Get(ctx context.Context, id uuid.UUID) (*types.Lesson, error) {
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.IsPublic {
		return l, nil
	}
	rd := ctxutil.GetRequestData(ctx)
	if !rd.Authenticated() {
		return nil, apierr.Unauthenticated("authentication required")
	}
	if rd.IsAdmin || rd.UserID == l.OwnerID {
		return l, nil
	}
	return nil, apierr.NotFound("lesson not found")
}

func (s *lessonService) load(ctx context.Context, id uuid.UUID) (*types.Lesson, error) {
	l, err := s.repo.GetByID(ctx, nil, id)
	if errors.Is(err, repos.ErrNotFound) {
		return nil, apierr.NotFound("lesson not found")
	}
	if err != nil {
		return nil, apierr.Internal(err)
	}
	return l, nil
}

func (s *lessonService) List(ctx context.Context, page repos.Page) ([]*types.Lesson, int64, error) {
	rd, err := requireIdentity(ctx)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.ListByOwner(ctx, nil, rd.UserID, page)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return rows, total, nil
}

func (s *lessonService) ListPublic(ctx context.Context, filter repos.LibraryFilter) ([]*types.Lesson, int64, error) {
	if filter.StudentLevel != "" {
		lvl, ok := generation.ParseLevel(filter.StudentLevel)
		if !ok {
			return nil, 0, apierr.Validation(fmt.Errorf("level must be one of A1, A2, B1, B2, C1"))
		}
		filter.StudentLevel = string(lvl)
	}
	rows, total, err := s.repo.ListPublic(ctx, nil, filter)
	if err != nil {
		return nil, 0, apierr.Internal(err)
	}
	return rows, total, nil
}

// GetPublic resolves a library slug. Unpublished lessons keep no slug.
func (s *lessonService) GetPublic(ctx context.Context, slug string) (*types.Lesson, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, apierr.Validation(errors.New("slug is required"))
	}
	l, err := s.repo.GetBySlug(ctx, nil, slug)
	if err != nil {
		return nil, toAPIError(err)
	}
	return l, nil
}

func (s *lessonService) Delete(ctx context.Context, id uuid.UUID) error {
	rd, err := requireIdentity(ctx)
	if err != nil {
		return err
	}
	l, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !rd.IsAdmin && rd.UserID != l.OwnerID {
		return apierr.PermissionDenied("only the owner or an admin can delete this lesson")
	}
	if err := s.repo.SoftDeleteByID(ctx, nil, id); err != nil {
		if errors.Is(err, repos.ErrNotFound) {
			return apierr.NotFound("lesson not found")
		}
		return apierr.Internal(err)
	}
	s.log.Info("lesson deleted", "lesson_id", id.String(), "user_id", rd.UserID.String())
	return nil
}

// SetVisibility publishes or unpublishes a lesson. Publishing assigns a slug
// from the title; a taken slug gets a random suffix and is retried.
func (s *lessonService) SetVisibility(ctx context.Context, id uuid.UUID, in VisibilityInput) (*types.Lesson, error) {
	rd, err := requireIdentity(ctx)
	if err != nil {
		return nil, err
	}
	if !rd.IsAdmin {
		return nil, apierr.PermissionDenied("admin access required")
	}
	in.Category = strings.TrimSpace(in.Category)
	if err := s.validate.Struct(in); err != nil {
		return nil, apierr.Validation(describeValidation(err))
	}
	l, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	vis := repos.Visibility{IsPublic: in.IsPublic, Category: in.Category}
	if !in.IsPublic {
		return s.applyVisibility(ctx, id, vis)
	}
	vis.PublishedAt = s.now().UTC()
	if l.PublishedAt != nil {
		vis.PublishedAt = *l.PublishedAt
	}
	base := Slugify(l.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		vis.Slug = base
		if attempt > 0 || base == "" {
			vis.Slug = strings.Trim(base+"-"+uuid.NewString()[:8], "-")
		}
		if l.PublicSlug != nil && attempt == 0 {
			vis.Slug = *l.PublicSlug
		}
		out, err := s.repo.SetVisibility(ctx, nil, id, vis)
		if errors.Is(err, repos.ErrConflict) {
			s.log.Debug("slug taken, retrying", "slug", vis.Slug, "attempt", attempt+1)
			continue
		}
		if err != nil {
			return nil, toAPIError(err)
		}
		s.log.Info("lesson published", "lesson_id", id.String(), "slug", vis.Slug)
		return out, nil
	}
	return nil, apierr.Internal(fmt.Errorf("could not find a free slug for %q", base))
}

func (s *lessonService) applyVisibility(ctx context.Context, id uuid.UUID, vis repos.Visibility) (*types.Lesson, error) {
	out, err := s.repo.SetVisibility(ctx, nil, id, vis)
	if err != nil {
		return nil, toAPIError(err)
	}
	s.log.Info("lesson unpublished", "lesson_id", id.String())
	return out, nil
}

func toAPIError(err error) error {
	if errors.Is(err, repos.ErrNotFound) {
		return apierr.NotFound("lesson not found")
	}
	return apierr.Internal(err)
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases title and joins its ASCII words with dashes.
func Slugify(title string) string {
	s := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if r := []rune(s); len(r) > maxSlugBaseRunes {
		s = strings.TrimRight(string(r[:maxSlugBaseRunes]), "-")
	}
	return s
}

// describeValidation turns validator errors into one readable sentence.
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := lowerFirst(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "url":
			msgs = append(msgs, field+" must be a valid URL")
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
