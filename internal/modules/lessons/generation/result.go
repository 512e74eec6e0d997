package generation

import (
	"time"

	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/aierr"
)

// Strategy tags how a section's content was produced.
type Strategy string

const (
	StrategyFull     Strategy = "full"
	StrategyRepaired Strategy = "repaired"
	StrategyFallback Strategy = "fallback"
)

type ErrorInfo struct {
	ErrorID   string     `json:"errorId"`
	Type      aierr.Kind `json:"type"`
	Code      string     `json:"code"`
	Message   string     `json:"message"`
	RequestID string     `json:"requestId,omitempty"`
}

func errorInfo(ce aierr.ClassifiedError) *ErrorInfo {
	if ce == nil {
		return nil
	}
	return &ErrorInfo{
		ErrorID:   ce.ID(),
		Type:      ce.Kind(),
		Code:      ce.Kind().Code(),
		Message:   aierr.UserMessage(ce),
		RequestID: ce.Scope().RequestID,
	}
}

// SectionResult is the output of one section generator. Content holds the
// section's own shape ([]string, string, []domain.VocabularyItem, ...).
type SectionResult struct {
	Name       SectionName
	Content    any
	TokensUsed int
	Strategy   Strategy
	Attempts   int
	// Problems are the validation errors of the last rejected attempt.
	Problems []string
	Error    *ErrorInfo
}

// Results are the sections generated so far, keyed by name. Generators
// only read from it.
type Results map[SectionName]SectionResult

func (r Results) Has(name SectionName) bool {
	_, ok := r[name]
	return ok
}

type SectionReport struct {
	Name       SectionName `json:"name"`
	Strategy   Strategy    `json:"strategy"`
	Attempts   int         `json:"attempts"`
	TokensUsed int         `json:"tokensUsed"`
	DurationMS int64       `json:"durationMs"`
	Problems   []string    `json:"problems,omitempty"`
	Error      *ErrorInfo  `json:"error,omitempty"`
}

// Report summarises one GenerateLesson run for logging, persistence and the
// API response.
type Report struct {
	LessonTitle string          `json:"lessonTitle"`
	Context     ContextReport   `json:"context"`
	Sections    []SectionReport `json:"sections"`
	TotalTokens int             `json:"totalTokens"`
	DurationMS  int64           `json:"durationMs"`
	TimedOut    bool            `json:"timedOut"`
}

// FallbackSections lists sections that ended on static content.
func (r *Report) FallbackSections() []SectionName {
	var out []SectionName
	for _, s := range r.Sections {
		if s.Strategy == StrategyFallback {
			out = append(out, s.Name)
		}
	}
	return out
}

func (r *Report) add(res SectionResult, took time.Duration) {
	r.Sections = append(r.Sections, SectionReport{
		Name:       res.Name,
		Strategy:   res.Strategy,
		Attempts:   res.Attempts,
		TokensUsed: res.TokensUsed,
		DurationMS: took.Milliseconds(),
		Problems:   res.Problems,
		Error:      res.Error,
	})
	r.TotalTokens += res.TokensUsed
}
