package generation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/aierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/apierr"
	"github.com/linguaspark/linguaspark-backend/internal/platform/ctxutil"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm/llmtest"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

func newOrchestrator(t *testing.T, client llm.Client, opts ...Option) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(client, logger.Nop(), opts...)
	require.NoError(t, err)
	return o
}

func sectionReport(t *testing.T, rep *Report, name SectionName) SectionReport {
	t.Helper()
	for _, s := range rep.Sections {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no report for section %s", name)
	return SectionReport{}
}

func TestGenerateLessonHappyPath(t *testing.T) {
	fake := happyFake(t)
	o := newOrchestrator(t, fake)

	plan, rep, err := o.GenerateLesson(context.Background(), coffeeRequest())
	require.NoError(t, err)
	require.NotNil(t, plan)

	assert.Len(t, fake.Calls, 11, "one context call plus one per section")
	assert.Equal(t, "conversation", plan.LessonType)
	assert.Equal(t, "B1", plan.StudentLevel)
	assert.Equal(t, "Spanish", plan.TargetLanguage)
	requireLessonShape(t, plan.Sections)

	assert.Equal(t, StrategyFull, rep.Context.Strategy)
	assert.Equal(t, "The story of coffee", rep.LessonTitle)
	require.Len(t, rep.Sections, 10)
	for _, s := range rep.Sections {
		assert.Equal(t, StrategyFull, s.Strategy, s.Name)
		assert.Equal(t, 1, s.Attempts, s.Name)
		assert.Nil(t, s.Error, s.Name)
	}
	assert.Empty(t, rep.FallbackSections())
	assert.False(t, rep.TimedOut)
	assert.Greater(t, rep.TotalTokens, 0)

	assert.Equal(t, "Past simple", plan.Sections.Grammar.Focus)
	assert.Equal(t, "beans", plan.Sections.Vocabulary[0].Word)
	assert.Contains(t, plan.Sections.Pronunciation.Words, "strength")
}

func TestGenerateLessonRunsSectionsInDependencyOrder(t *testing.T) {
	fake := happyFake(t)
	o := newOrchestrator(t, fake)
	_, _, err := o.GenerateLesson(context.Background(), coffeeRequest())
	require.NoError(t, err)

	markers := map[SectionName]string{
		SectionWarmup:           markWarmup,
		SectionVocabulary:       markVocabulary,
		SectionReading:          markReading,
		SectionComprehension:    markComprehension,
		SectionDiscussion:       markDiscussion,
		SectionGrammar:          markGrammar,
		SectionPronunciation:    markPronunciation,
		SectionDialoguePractice: markDialoguePractice,
		SectionDialogueFillGap:  markDialogueFillGap,
		SectionWrapup:           markWrapup,
	}
	require.Len(t, fake.Calls, 11)
	assert.Contains(t, fake.Calls[0], markContext)
	for i, name := range o.Sections() {
		assert.Contains(t, fake.Calls[i+1], markers[name], "call %d should be %s", i+1, name)
	}
}

func TestGenerateLessonRejectsShortContentWithoutCallingModel(t *testing.T) {
	fake := happyFake(t)
	o := newOrchestrator(t, fake)

	req := coffeeRequest()
	req.SourceText = "Coffee is nice. I like it."
	plan, rep, err := o.GenerateLesson(context.Background(), req)
	require.Error(t, err)
	assert.Nil(t, plan)
	assert.Nil(t, rep)
	assert.Equal(t, apierr.CodeValidation, apierr.As(err).Code)
	assert.Contains(t, err.Error(), "at least 50 words")
	assert.Empty(t, fake.Calls)
}

func TestGenerateLessonRejectsBadRequestFields(t *testing.T) {
	o := newOrchestrator(t, happyFake(t))
	cases := map[string]func(*Request){
		"level":    func(r *Request) { r.StudentLevel = "Z9" },
		"type":     func(r *Request) { r.LessonType = "  " },
		"language": func(r *Request) { r.TargetLanguage = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := coffeeRequest()
			mutate(&req)
			_, _, err := o.GenerateLesson(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, apierr.CodeValidation, apierr.As(err).Code)
		})
	}
}

func TestGenerateLessonAcceptsLowercaseLevel(t *testing.T) {
	o := newOrchestrator(t, happyFake(t))
	req := coffeeRequest()
	req.StudentLevel = "b2"
	plan, _, err := o.GenerateLesson(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "B2", plan.StudentLevel)
}

func TestGenerateLessonSurvivesTotalProviderFailure(t *testing.T) {
	fake := llmtest.New()
	fake.Default = llmtest.Reply{Err: errors.New("connection reset by peer")}
	o := newOrchestrator(t, fake)

	plan, rep, err := o.GenerateLesson(context.Background(), coffeeRequest())
	require.NoError(t, err)
	requireLessonShape(t, plan.Sections)

	assert.Equal(t, StrategyFallback, rep.Context.Strategy)
	require.NotNil(t, rep.Context.Error)
	assert.Len(t, rep.FallbackSections(), 10)
	for _, s := range rep.Sections {
		assert.Equal(t, 2, s.Attempts, s.Name)
		require.NotNil(t, s.Error, s.Name)
		assert.NotEmpty(t, s.Error.ErrorID)
	}
	assert.Len(t, fake.Calls, 21)
}

func TestGenerateLessonErrorsCarryRequestID(t *testing.T) {
	fake := llmtest.New()
	fake.Default = llmtest.Reply{Err: &llm.ProviderError{Provider: "fake", StatusCode: 504}}
	o := newOrchestrator(t, fake)
	ctx := ctxutil.WithTraceData(context.Background(), &ctxutil.TraceData{RequestID: "req-coffee", TraceID: "trace-coffee"})

	_, rep, err := o.GenerateLesson(ctx, coffeeRequest())
	require.NoError(t, err)

	require.NotNil(t, rep.Context.Error)
	assert.Equal(t, "req-coffee", rep.Context.Error.RequestID)
	for _, s := range rep.Sections {
		require.NotNil(t, s.Error, s.Name)
		assert.Equal(t, "req-coffee", s.Error.RequestID, s.Name)
		assert.Equal(t, apierr.CodeNetworkTimeout, s.Error.Code, s.Name)
	}
}

func TestGenerateLessonRetriesWithValidationErrors(t *testing.T) {
	// registered first so it wins over the happy route
	fake := llmtest.New().
		On(markDialogueFillGap, ok(fillGapJSON(t, false)), ok(fillGapJSON(t, true)))
	for _, r := range happyRoutes(t) {
		fake.On(r.marker, r.reply)
	}
	o := newOrchestrator(t, fake)

	plan, rep, err := o.GenerateLesson(context.Background(), coffeeRequest())
	require.NoError(t, err)

	fg := sectionReport(t, rep, SectionDialogueFillGap)
	assert.Equal(t, StrategyFull, fg.Strategy)
	assert.Equal(t, 2, fg.Attempts)
	assert.Equal(t, 2, fake.CallsContaining(markDialogueFillGap))
	require.Equal(t, 1, fake.CallsContaining(markRetry))
	for _, c := range fake.Calls {
		if strings.Contains(c, markRetry) {
			assert.Contains(t, c, "no gap lines")
			assert.Contains(t, c, markDialogueFillGap)
		}
	}
	assert.Len(t, plan.Sections.DialogueFillGap.Answers, 2)
}

func TestGenerateLessonFallsBackAfterSecondRejection(t *testing.T) {
	fake := llmtest.New().On(markDialogueFillGap, ok(fillGapJSON(t, false)))
	for _, r := range happyRoutes(t) {
		fake.On(r.marker, r.reply)
	}
	o := newOrchestrator(t, fake)

	plan, rep, err := o.GenerateLesson(context.Background(), coffeeRequest())
	require.NoError(t, err)

	fg := sectionReport(t, rep, SectionDialogueFillGap)
	assert.Equal(t, StrategyFallback, fg.Strategy)
	assert.Equal(t, 2, fg.Attempts)
	assert.NotEmpty(t, fg.Problems)
	assert.Nil(t, fg.Error, "validation failures are not provider errors")
	assert.Equal(t, []SectionName{SectionDialogueFillGap}, rep.FallbackSections())
	requireLessonShape(t, plan.Sections)
}

func TestGenerateLessonQuotaSkipsRetry(t *testing.T) {
	quota := &llm.ProviderError{Provider: "fake", StatusCode: 429, Code: "rate_limit_exceeded"}
	fake := llmtest.New().On(markVocabulary, llmtest.Reply{Err: quota})
	for _, r := range happyRoutes(t) {
		fake.On(r.marker, r.reply)
	}
	o := newOrchestrator(t, fake)

	plan, rep, err := o.GenerateLesson(context.Background(), coffeeRequest())
	require.NoError(t, err)

	v := sectionReport(t, rep, SectionVocabulary)
	assert.Equal(t, 1, v.Attempts)
	assert.Equal(t, StrategyFallback, v.Strategy)
	require.NotNil(t, v.Error)
	assert.Equal(t, aierr.KindQuotaExceeded, v.Error.Type)
	assert.Equal(t, 1, fake.CallsContaining(markVocabulary))

	// fallback vocabulary comes from the shared context's key words
	assert.Equal(t, "beans", plan.Sections.Vocabulary[0].Word)
	requireLessonShape(t, plan.Sections)
}

func TestGenerateLessonDeadlineFallsBackForRemainingSections(t *testing.T) {
	client := &blockingClient{Fake: happyFake(t), block: markReading}
	o := newOrchestrator(t, client, WithTimeout(50*time.Millisecond))

	started := time.Now()
	plan, rep, err := o.GenerateLesson(context.Background(), coffeeRequest())
	require.NoError(t, err)
	assert.Less(t, time.Since(started), 2*time.Second)

	assert.True(t, rep.TimedOut)
	requireLessonShape(t, plan.Sections)

	r := sectionReport(t, rep, SectionReading)
	assert.Equal(t, StrategyFallback, r.Strategy)
	require.NotNil(t, r.Error)
	assert.Equal(t, aierr.KindNetworkTimeout, r.Error.Type)

	for _, name := range []SectionName{SectionComprehension, SectionWrapup} {
		s := sectionReport(t, rep, name)
		assert.Equal(t, StrategyFallback, s.Strategy, name)
		assert.Equal(t, 0, s.Attempts, name)
	}
	assert.Equal(t, StrategyFull, sectionReport(t, rep, SectionWarmup).Strategy)
}

type happyRoute struct {
	marker string
	reply  llmtest.Reply
}

// happyRoutes returns the happy fixture one reply per marker so tests can
// register overrides ahead of it.
func happyRoutes(t *testing.T) []happyRoute {
	t.Helper()
	src := happyFake(t)
	out := make([]happyRoute, 0, 11)
	for _, m := range []string{
		markContext, markWarmup, markVocabulary, markReading, markComprehension, markDiscussion,
		markGrammar, markPronunciation, markDialoguePractice, markDialogueFillGap, markWrapup,
	} {
		c, err := src.Prompt(context.Background(), m, llm.Options{})
		require.NoError(t, err)
		out = append(out, happyRoute{marker: m, reply: ok(c.Text)})
	}
	return out
}
