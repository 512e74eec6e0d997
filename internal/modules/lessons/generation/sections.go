package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/linguaspark/linguaspark-backend/internal/domain"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/prompts"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/scoring"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/validation"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
)

type sectionGenerator func(ctx context.Context, env *sectionEnv) SectionResult

func defaultGenerators() map[SectionName]sectionGenerator {
	return map[SectionName]sectionGenerator{
		SectionWarmup:           generateWarmup,
		SectionVocabulary:       generateVocabulary,
		SectionReading:          generateReading,
		SectionComprehension:    listSection(prompts.PromptComprehension, withReading, fallbackComprehension, "questions", "comprehension"),
		SectionDiscussion:       listSection(prompts.PromptDiscussion, withReading, fallbackDiscussion, "questions", "discussion"),
		SectionGrammar:          generateGrammar,
		SectionPronunciation:    generatePronunciation,
		SectionDialoguePractice: generateDialoguePractice,
		SectionDialogueFillGap:  generateDialogueFillGap,
		SectionWrapup:           listSection(prompts.PromptWrapup, withVocabularyAndGrammar, fallbackWrapup, "items", "wrapup"),
	}
}

// Earlier-section lookups fall back to the shared context so every
// generator also works with no previous sections.

func vocabularyWords(env *sectionEnv) []string {
	if r, ok := env.prev[SectionVocabulary]; ok {
		if items, ok := r.Content.([]domain.VocabularyItem); ok && len(items) > 0 {
			words := make([]string, 0, len(items))
			for _, it := range items {
				words = append(words, it.Word)
			}
			return words
		}
	}
	if kv := env.sc.KeyVocabulary(); len(kv) > 0 {
		return kv
	}
	return append([]string(nil), defaultWords...)
}

func readingText(env *sectionEnv) string {
	if r, ok := env.prev[SectionReading]; ok {
		if s, ok := r.Content.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return env.sc.SourceText()
}

func grammarFocus(env *sectionEnv) string {
	if r, ok := env.prev[SectionGrammar]; ok {
		if g, ok := r.Content.(domain.Grammar); ok {
			return g.Focus
		}
	}
	return ""
}

func withReading(env *sectionEnv) prompts.Input {
	in := env.sc.promptInput()
	in.ReadingText = readingText(env)
	return in
}

func withVocabularyAndGrammar(env *sectionEnv) prompts.Input {
	in := env.sc.promptInput()
	in.VocabularyWordsCSV = strings.Join(vocabularyWords(env), ", ")
	in.GrammarFocus = grammarFocus(env)
	return in
}

// listSection builds a generator for sections that are a flat list of
// prompts with a minimum count.
func listSection(
	name prompts.PromptName,
	input func(*sectionEnv) prompts.Input,
	fallback func(*sectionEnv, int) []string,
	keys ...string,
) sectionGenerator {
	return func(ctx context.Context, env *sectionEnv) SectionResult {
		n := env.task.MinItems
		return run(ctx, env, policy[[]string]{
			prompt:   name,
			input:    input(env),
			parse:    func(text string) ([]string, error) { return parseStringList(text, keys...) },
			repair:   tidyList,
			validate: func(v []string) []string { return atLeast(string(env.task.Name)+" items", len(v), n) },
			fallback: func() []string { return fallback(env, n) },
		})
	}
}

func generateWarmup(ctx context.Context, env *sectionEnv) SectionResult {
	n := env.task.MinItems
	return run(ctx, env, policy[[]string]{
		prompt: prompts.PromptWarmup,
		input:  env.sc.promptInput(),
		parse:  func(text string) ([]string, error) { return parseStringList(text, "questions", "warmup") },
		repair: func(v []string) ([]string, bool) {
			out, changed := tidyList(v)
			if len(out) > n {
				out, changed = out[:n], true
			}
			return out, changed
		},
		validate: func(v []string) []string {
			if len(v) != n {
				return []string{fmt.Sprintf("warmup: need exactly %d questions, got %d", n, len(v))}
			}
			return nil
		},
		fallback: func() []string { return fallbackWarmup(env, n) },
	})
}

func generateVocabulary(ctx context.Context, env *sectionEnv) SectionResult {
	n := env.task.MinItems
	return run(ctx, env, policy[[]domain.VocabularyItem]{
		prompt:   prompts.PromptVocabulary,
		input:    env.sc.promptInput(),
		parse:    parseVocabulary,
		repair:   repairVocabulary,
		validate: func(v []domain.VocabularyItem) []string { return atLeast("vocabulary items with meaning and example", len(v), n) },
		fallback: func() []domain.VocabularyItem { return fallbackVocabulary(env, n) },
	})
}

func parseVocabulary(text string) ([]domain.VocabularyItem, error) {
	cleaned := llm.CleanJSONText(text)
	var items []domain.VocabularyItem
	if strings.HasPrefix(cleaned, "[") {
		err := json.Unmarshal([]byte(cleaned), &items)
		return items, err
	}
	var obj struct {
		Items      []domain.VocabularyItem `json:"items"`
		Vocabulary []domain.VocabularyItem `json:"vocabulary"`
	}
	if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
		return nil, err
	}
	if obj.Items == nil && obj.Vocabulary == nil {
		return nil, fmt.Errorf("missing items")
	}
	return append(obj.Items, obj.Vocabulary...), nil
}

// repairVocabulary drops incomplete or duplicate items.
func repairVocabulary(in []domain.VocabularyItem) ([]domain.VocabularyItem, bool) {
	seen := map[string]bool{}
	out := make([]domain.VocabularyItem, 0, len(in))
	changed := false
	for _, it := range in {
		fixed := domain.VocabularyItem{
			Word:    strings.TrimSpace(it.Word),
			Meaning: strings.TrimSpace(it.Meaning),
		}
		var exChanged bool
		fixed.Examples, exChanged = tidyList(it.Examples)
		key := strings.ToLower(fixed.Word)
		if fixed.Word == "" || fixed.Meaning == "" || len(fixed.Examples) == 0 || seen[key] {
			changed = true
			continue
		}
		seen[key] = true
		if exChanged || fixed.Word != it.Word || fixed.Meaning != it.Meaning {
			changed = true
		}
		out = append(out, fixed)
	}
	return out, changed
}

func generateReading(ctx context.Context, env *sectionEnv) SectionResult {
	n := env.task.MinItems
	in := env.sc.promptInput()
	in.VocabularyWordsCSV = strings.Join(vocabularyWords(env), ", ")
	return run(ctx, env, policy[string]{
		prompt: prompts.PromptReading,
		input:  in,
		parse:  parseReading,
		repair: func(s string) (string, bool) { t := strings.TrimSpace(s); return t, t != s },
		validate: func(s string) []string {
			return atLeast("reading words", len(validation.Words(s)), n)
		},
		fallback: func() string { return fallbackReading(env, n) },
	})
}

// parseReading takes {"text": ...} or plain prose.
func parseReading(text string) (string, error) {
	cleaned := llm.CleanJSONText(text)
	if strings.HasPrefix(cleaned, "{") {
		var obj struct {
			Text    string `json:"text"`
			Reading string `json:"reading"`
		}
		if err := json.Unmarshal([]byte(cleaned), &obj); err != nil {
			return "", err
		}
		if obj.Text != "" {
			return obj.Text, nil
		}
		if obj.Reading != "" {
			return obj.Reading, nil
		}
		return "", fmt.Errorf("missing text")
	}
	if strings.ContainsAny(cleaned, "[]{}") {
		return "", fmt.Errorf("unexpected structure")
	}
	return cleaned, nil
}

func generateGrammar(ctx context.Context, env *sectionEnv) SectionResult {
	n := env.task.MinItems
	return run(ctx, env, policy[domain.Grammar]{
		prompt: prompts.PromptGrammar,
		input:  withReading(env),
		parse: func(text string) (domain.Grammar, error) {
			var g domain.Grammar
			err := decodeInto(text, &g)
			return g, err
		},
		repair: func(g domain.Grammar) (domain.Grammar, bool) {
			focus := strings.TrimSpace(g.Focus)
			ex, c1 := tidyList(g.Examples)
			exercise, c2 := tidyList(g.Exercise)
			return domain.Grammar{Focus: focus, Examples: ex, Exercise: exercise}, c1 || c2 || focus != g.Focus
		},
		validate: func(g domain.Grammar) []string {
			var problems []string
			if g.Focus == "" {
				problems = append(problems, "grammar: focus is required")
			}
			problems = append(problems, atLeast("grammar examples", len(g.Examples), n)...)
			return append(problems, atLeast("grammar exercise items", len(g.Exercise), n)...)
		},
		fallback: func() domain.Grammar { return fallbackGrammar(env, n) },
	})
}

func generatePronunciation(ctx context.Context, env *sectionEnv) SectionResult {
	n := env.task.MinItems
	words := scoring.Words(append(vocabularyWords(env), env.sc.KeyVocabulary()...))
	in := env.sc.promptInput()
	in.PronunciationWordsCSV = strings.Join(words, ", ")
	return run(ctx, env, policy[domain.Pronunciation]{
		prompt: prompts.PromptPronunciation,
		input:  in,
		parse: func(text string) (domain.Pronunciation, error) {
			var p domain.Pronunciation
			err := decodeInto(text, &p)
			p.Words = words
			return p, err
		},
		repair: func(p domain.Pronunciation) (domain.Pronunciation, bool) {
			instr := strings.TrimSpace(p.Instruction)
			tw, changed := tidyList(p.TongueTwisters)
			return domain.Pronunciation{Instruction: instr, Words: words, TongueTwisters: tw}, changed || instr != p.Instruction || p.Word != ""
		},
		validate: func(p domain.Pronunciation) []string {
			var problems []string
			if p.Instruction == "" {
				problems = append(problems, "pronunciation: instruction is required")
			}
			if len(p.Words) == 0 {
				problems = append(problems, "pronunciation: no practice words")
			}
			return append(problems, atLeast("tongue twisters", len(p.TongueTwisters), n)...)
		},
		fallback: func() domain.Pronunciation { return fallbackPronunciation(words) },
	})
}

func generateDialoguePractice(ctx context.Context, env *sectionEnv) SectionResult {
	n := env.task.MinItems
	in := env.sc.promptInput()
	in.VocabularyWordsCSV = strings.Join(vocabularyWords(env), ", ")
	return run(ctx, env, policy[domain.DialoguePractice]{
		prompt: prompts.PromptDialoguePractice,
		input:  in,
		parse: func(text string) (domain.DialoguePractice, error) {
			var d domain.DialoguePractice
			err := decodeInto(text, &d)
			return d, err
		},
		repair: func(d domain.DialoguePractice) (domain.DialoguePractice, bool) {
			turns, c1 := normalizeTurns(fromPractice(d.Dialogue))
			fu, c2 := tidyList(d.FollowUpQuestions)
			return domain.DialoguePractice{Dialogue: toPractice(turns), FollowUpQuestions: fu}, c1 || c2
		},
		validate: func(d domain.DialoguePractice) []string {
			problems := checkTurns(fromPractice(d.Dialogue), n)
			return append(problems, atLeast("follow-up questions", len(d.FollowUpQuestions), minFollowUps)...)
		},
		fallback: func() domain.DialoguePractice { return fallbackDialoguePractice(env, n) },
	})
}

func generateDialogueFillGap(ctx context.Context, env *sectionEnv) SectionResult {
	n := env.task.MinItems
	in := env.sc.promptInput()
	in.VocabularyWordsCSV = strings.Join(vocabularyWords(env), ", ")
	return run(ctx, env, policy[domain.DialogueFillGap]{
		prompt: prompts.PromptDialogueFillGap,
		input:  in,
		parse: func(text string) (domain.DialogueFillGap, error) {
			var d domain.DialogueFillGap
			err := decodeInto(text, &d)
			return d, err
		},
		repair: func(d domain.DialogueFillGap) (domain.DialogueFillGap, bool) {
			turns, changed := normalizeTurns(fromGaps(d.Dialogue))
			answers := make([]string, 0, len(d.Answers))
			for _, a := range d.Answers {
				if a = strings.TrimSpace(a); a != "" {
					answers = append(answers, a)
				}
			}
			return domain.DialogueFillGap{Dialogue: toGaps(turns), Answers: answers}, changed || !sameStrings(answers, d.Answers)
		},
		validate: func(d domain.DialogueFillGap) []string {
			problems := checkTurns(fromGaps(d.Dialogue), n)
			gaps := 0
			for _, t := range d.Dialogue {
				if t.IsGap {
					gaps++
				}
			}
			if gaps == 0 {
				problems = append(problems, `dialogue has no gap lines; mark at least one turn with "isGap": true`)
			}
			if len(d.Answers) != gaps {
				problems = append(problems, fmt.Sprintf("answers must match gaps: %d gaps, %d answers", gaps, len(d.Answers)))
			}
			return problems
		},
		fallback: func() domain.DialogueFillGap { return fallbackDialogueFillGap(env, n) },
	})
}

const minFollowUps = 3

// turn is the speaker-agnostic view of both dialogue shapes.
type turn struct {
	speaker string
	line    string
	gap     bool
}

func fromPractice(in []domain.DialogueTurn) []turn {
	out := make([]turn, 0, len(in))
	for _, t := range in {
		out = append(out, turn{speaker: t.Character, line: t.Line})
	}
	return out
}

func toPractice(in []turn) []domain.DialogueTurn {
	out := make([]domain.DialogueTurn, 0, len(in))
	for _, t := range in {
		out = append(out, domain.DialogueTurn{Character: t.speaker, Line: t.line})
	}
	return out
}

func fromGaps(in []domain.GapTurn) []turn {
	out := make([]turn, 0, len(in))
	for _, t := range in {
		out = append(out, turn{speaker: t.Character, line: t.Line, gap: t.IsGap})
	}
	return out
}

func toGaps(in []turn) []domain.GapTurn {
	out := make([]domain.GapTurn, 0, len(in))
	for _, t := range in {
		out = append(out, domain.GapTurn{Character: t.speaker, Line: t.line, IsGap: t.gap})
	}
	return out
}

func canonicalSpeaker(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "student", "learner", "s":
		return domain.SpeakerStudent
	case "tutor", "teacher", "t":
		return domain.SpeakerTutor
	default:
		return ""
	}
}

// normalizeTurns canonicalises speaker names, drops empty or unknown turns,
// merges back-to-back turns by the same speaker and drops leading tutor
// turns so the dialogue opens with the student.
func normalizeTurns(in []turn) ([]turn, bool) {
	changed := false
	out := make([]turn, 0, len(in))
	for _, t := range in {
		sp := canonicalSpeaker(t.speaker)
		line := strings.TrimSpace(t.line)
		if sp == "" || line == "" {
			changed = true
			continue
		}
		if sp != t.speaker || line != t.line {
			changed = true
		}
		if len(out) == 0 && sp == domain.SpeakerTutor {
			changed = true
			continue
		}
		if last := len(out) - 1; last >= 0 && out[last].speaker == sp {
			out[last].line += " " + line
			out[last].gap = out[last].gap || t.gap
			changed = true
			continue
		}
		out = append(out, turn{speaker: sp, line: line, gap: t.gap})
	}
	return out, changed
}

func checkTurns(turns []turn, minTurns int) []string {
	problems := atLeast("dialogue turns", len(turns), minTurns)
	for i, t := range turns {
		want := domain.SpeakerStudent
		if i%2 == 1 {
			want = domain.SpeakerTutor
		}
		if t.speaker != want {
			problems = append(problems, fmt.Sprintf("turn %d must be %s (speakers alternate starting with Student)", i+1, want))
			break
		}
	}
	return problems
}
