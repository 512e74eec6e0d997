// Package generation builds lesson plans section by section: one shared
// context call, then every section in dependency order with validation,
// a single stricter retry and static fallback content.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/linguaspark/linguaspark-backend/internal/domain"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/validation"
	"github.com/linguaspark/linguaspark-backend/internal/observability"
	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

const DefaultTimeout = 120 * time.Second

type Orchestrator struct {
	client     llm.Client
	log        *logger.Logger
	builder    *Builder
	order      []SectionTask
	generators map[SectionName]sectionGenerator
	timeout    time.Duration
}

type Option func(*orchestratorConfig)

type orchestratorConfig struct {
	tasks   []SectionTask
	timeout time.Duration
}

// WithTasks replaces the embedded section catalog.
func WithTasks(tasks []SectionTask) Option {
	return func(c *orchestratorConfig) { c.tasks = tasks }
}

func WithTimeout(d time.Duration) Option {
	return func(c *orchestratorConfig) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewOrchestrator validates the section graph up front; a bad catalog is a
// startup error, never a request error.
func NewOrchestrator(client llm.Client, log *logger.Logger, opts ...Option) (*Orchestrator, error) {
	if client == nil {
		return nil, fmt.Errorf("llm client required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg := orchestratorConfig{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.tasks == nil {
		tasks, err := DefaultTasks()
		if err != nil {
			return nil, err
		}
		cfg.tasks = tasks
	}
	order, err := OrderTasks(cfg.tasks)
	if err != nil {
		return nil, err
	}
	gens := defaultGenerators()
	declared := map[SectionName]bool{}
	for _, t := range order {
		if _, ok := gens[t.Name]; !ok {
			return nil, fmt.Errorf("no generator for section %q", t.Name)
		}
		declared[t.Name] = true
	}
	for name := range gens {
		if !declared[name] {
			return nil, fmt.Errorf("section catalog is missing %q", name)
		}
	}
	return &Orchestrator{
		client:     client,
		log:        log.With("service", "LessonOrchestrator"),
		builder:    NewBuilder(client, log),
		order:      order,
		generators: gens,
		timeout:    cfg.timeout,
	}, nil
}

// Sections returns the execution order.
func (o *Orchestrator) Sections() []SectionName {
	out := make([]SectionName, 0, len(o.order))
	for _, t := range o.order {
		out = append(out, t.Name)
	}
	return out
}

func (o *Orchestrator) validate(req *Request) error {
	res := validation.ValidateContent(req.SourceText)
	if !res.Valid {
		return apierr.Validation(errors.New(strings.Join(res.Errors, "; ")))
	}
	lvl, ok := ParseLevel(string(req.StudentLevel))
	if !ok {
		return apierr.Validation(fmt.Errorf("studentLevel must be one of A1, A2, B1, B2, C1"))
	}
	req.StudentLevel = lvl
	req.LessonType = strings.TrimSpace(req.LessonType)
	if req.LessonType == "" {
		return apierr.Validation(fmt.Errorf("lessonType is required"))
	}
	req.TargetLanguage = strings.TrimSpace(req.TargetLanguage)
	if req.TargetLanguage == "" {
		return apierr.Validation(fmt.Errorf("targetLanguage is required"))
	}
	return nil
}

// GenerateLesson runs the whole pipeline. The only errors returned are
// request validation failures (VALIDATION_ERROR) and catalog bugs; every
// section failure is absorbed by fallback content.
func (o *Orchestrator) GenerateLesson(ctx context.Context, req Request) (*domain.LessonPlan, *Report, error) {
	if err := o.validate(&req); err != nil {
		return nil, nil, err
	}
	started := time.Now()
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ctx, span := observability.Tracer().Start(ctx, "lesson.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("lesson.type", req.LessonType),
		attribute.String("lesson.level", string(req.StudentLevel)),
		attribute.String("llm.provider", o.client.Provider()),
	)

	report := &Report{}
	sc := o.buildContext(ctx, req, report)
	report.LessonTitle = sc.LessonTitle()

	results := Results{}
	for _, task := range o.order {
		for _, dep := range task.DependsOn {
			if !results.Has(dep) {
				err := fmt.Errorf("section %q ran before its dependency %q", task.Name, dep)
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, nil, apierr.Internal(err)
			}
		}
		res, took := o.runSection(ctx, task, sc, results)
		results[task.Name] = res
		report.add(res, took)
	}

	plan := assemble(req, results)
	report.DurationMS = time.Since(started).Milliseconds()
	report.TimedOut = errors.Is(ctx.Err(), context.DeadlineExceeded)
	fallbacks := report.FallbackSections()
	span.SetAttributes(
		attribute.Int("lesson.tokens", report.TotalTokens),
		attribute.Int("lesson.fallback_sections", len(fallbacks)),
	)
	o.log.Info("lesson generated",
		"lesson_type", req.LessonType,
		"level", string(req.StudentLevel),
		"context_strategy", string(report.Context.Strategy),
		"tokens", report.TotalTokens,
		"fallback_sections", fallbacks,
		"timed_out", report.TimedOut,
		"duration_ms", report.DurationMS,
	)
	return plan, report, nil
}

func (o *Orchestrator) buildContext(ctx context.Context, req Request, report *Report) *SharedContext {
	ctx, span := observability.Tracer().Start(ctx, "lesson.shared_context")
	defer span.End()
	sc, rep := o.builder.Build(ctx, req)
	report.Context = rep
	report.TotalTokens += rep.TokensUsed
	span.SetAttributes(attribute.String("strategy", string(rep.Strategy)))
	return sc
}

func (o *Orchestrator) runSection(ctx context.Context, task SectionTask, sc *SharedContext, prev Results) (SectionResult, time.Duration) {
	ctx, span := observability.Tracer().Start(ctx, "lesson.section."+string(task.Name))
	defer span.End()
	started := time.Now()

	env := &sectionEnv{client: o.client, log: o.log, task: task, sc: sc, prev: prev}
	res := o.generators[task.Name](ctx, env)
	if res.Error != nil {
		span.SetStatus(codes.Error, string(res.Error.Type))
	}
	span.SetAttributes(
		attribute.String("strategy", string(res.Strategy)),
		attribute.Int("attempts", res.Attempts),
		attribute.Int("tokens", res.TokensUsed),
	)
	return res, time.Since(started)
}

// assemble writes every section into the plan. Results always hold every
// section, so no key is ever left empty.
func assemble(req Request, results Results) *domain.LessonPlan {
	plan := &domain.LessonPlan{
		LessonType:     req.LessonType,
		StudentLevel:   string(req.StudentLevel),
		TargetLanguage: req.TargetLanguage,
	}
	s := &plan.Sections
	for name, r := range results {
		switch name {
		case SectionWarmup:
			s.Warmup, _ = r.Content.([]string)
		case SectionVocabulary:
			s.Vocabulary, _ = r.Content.([]domain.VocabularyItem)
		case SectionReading:
			s.Reading, _ = r.Content.(string)
		case SectionComprehension:
			s.Comprehension, _ = r.Content.([]string)
		case SectionDiscussion:
			s.Discussion, _ = r.Content.([]string)
		case SectionGrammar:
			s.Grammar, _ = r.Content.(domain.Grammar)
		case SectionPronunciation:
			s.Pronunciation, _ = r.Content.(domain.Pronunciation)
		case SectionDialoguePractice:
			s.DialoguePractice, _ = r.Content.(domain.DialoguePractice)
		case SectionDialogueFillGap:
			s.DialogueFillGap, _ = r.Content.(domain.DialogueFillGap)
		case SectionWrapup:
			s.Wrapup, _ = r.Content.([]string)
		}
	}
	return plan
}
