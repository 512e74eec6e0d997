package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/aierr"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/prompts"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

const maxAttempts = 2

// sectionEnv is what every generator gets to work with.
type sectionEnv struct {
	client llm.Client
	log    *logger.Logger
	task   SectionTask
	sc     *SharedContext
	prev   Results
}

// policy is the generate, repair, validate, retry once, fall back loop
// shared by every section. repair may normalise output without a new call
// and reports whether it changed anything.
type policy[T any] struct {
	prompt   prompts.PromptName
	input    prompts.Input
	parse    func(text string) (T, error)
	repair   func(T) (T, bool)
	validate func(T) []string
	fallback func() T
}

func run[T any](ctx context.Context, env *sectionEnv, p policy[T]) SectionResult {
	res := SectionResult{Name: env.task.Name}
	log := env.log.With("section", string(env.task.Name))
	var problems []string

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if ctx.Err() != nil {
			if res.Error == nil {
				ce := aierr.Classify(ctx.Err(), sectionScope(ctx, env))
				res.Error = errorInfo(ce)
				log.Warn("section out of time", aierr.Support(ce).LogFields()...)
			}
			break
		}
		in := p.input
		in.MinItems = env.task.MinItems
		if len(problems) > 0 {
			in.ValidationErrors = "- " + strings.Join(problems, "\n- ")
		}
		built, err := prompts.Build(p.prompt, in)
		if err != nil {
			log.Error("section prompt build failed", "error", err)
			break
		}

		res.Attempts = attempt
		comp, err := env.client.Prompt(ctx, built.Text(), optionsFor(env.task, attempt))
		res.TokensUsed += comp.TokensUsed
		if err != nil {
			ce := aierr.Classify(err, sectionScope(ctx, env))
			res.Error = errorInfo(ce)
			log.Warn("section generation failed", append([]interface{}{"attempt", attempt}, aierr.Support(ce).LogFields()...)...)
			if ce.Kind() == aierr.KindQuotaExceeded {
				break
			}
			continue
		}

		value, err := p.parse(comp.Text)
		if err != nil {
			problems = []string{fmt.Sprintf("response was not the requested JSON shape: %v", err)}
			log.Warn("section response unparseable", "attempt", attempt, "error", err)
			continue
		}
		changed := false
		if p.repair != nil {
			value, changed = p.repair(value)
		}
		problems = p.validate(value)
		if len(problems) == 0 {
			res.Content = value
			res.Strategy = StrategyFull
			if changed {
				res.Strategy = StrategyRepaired
			}
			res.Problems = nil
			res.Error = nil
			return res
		}
		log.Warn("section failed validation", "attempt", attempt, "problems", strings.Join(problems, "; "))
	}

	res.Content = p.fallback()
	res.Strategy = StrategyFallback
	res.Problems = problems
	return res
}

func sectionScope(ctx context.Context, env *sectionEnv) aierr.Scope {
	s := aierr.NewScope(ctx, "section")
	s.Section = string(env.task.Name)
	s.Provider = env.client.Provider()
	return s
}

func optionsFor(task SectionTask, attempt int) llm.Options {
	opts := llm.Options{MaxTokens: task.MaxTokens, JSON: true}
	if task.Temperature > 0 {
		t := task.Temperature
		// the stricter retry runs cooler
		if attempt > 1 {
			t -= 0.2
			if t < 0 {
				t = 0
			}
		}
		opts.Temperature = llm.Temperature(t)
	}
	return opts
}

// decodeInto parses model output into out, tolerating code fences and prose
// around the JSON.
func decodeInto(text string, out any) error {
	cleaned := llm.CleanJSONText(text)
	if cleaned == "" {
		return fmt.Errorf("empty response")
	}
	return json.Unmarshal([]byte(cleaned), out)
}

// parseStringList accepts a bare JSON array or an object holding the list
// under one of keys.
func parseStringList(text string, keys ...string) ([]string, error) {
	cleaned := llm.CleanJSONText(text)
	if strings.HasPrefix(cleaned, "[") {
		var list []string
		if err := json.Unmarshal([]byte(cleaned), &list); err != nil {
			return nil, err
		}
		return list, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, err
	}
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		var list []string
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		return list, nil
	}
	return nil, fmt.Errorf("missing %s", strings.Join(keys, "/"))
}

// tidyList trims, drops blanks and case-insensitive duplicates.
func tidyList(in []string) ([]string, bool) {
	out := cleanList(in)
	return out, len(out) != len(in) || !sameStrings(out, in)
}

func sameStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func atLeast(what string, got, want int) []string {
	if got < want {
		return []string{fmt.Sprintf("%s: need at least %d, got %d", what, want, got)}
	}
	return nil
}
