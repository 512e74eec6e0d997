package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/aierr"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/prompts"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/validation"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
	"github.com/linguaspark/linguaspark-backend/internal/platform/logger"
)

// Request is one lesson generation call.
type Request struct {
	SourceText     string
	LessonType     string
	StudentLevel   Level
	TargetLanguage string
}

// SharedContext is built once per lesson and read by every section. It is
// immutable: slices are copied on the way in and on the way out.
type SharedContext struct {
	lessonTitle     string
	keyVocabulary   []string
	mainThemes      []string
	contentSummary  string
	difficultyLevel Level
	targetLanguage  string

	lessonType   string
	studentLevel Level
	sourceText   string
	strategy     Strategy
}

func (c *SharedContext) LessonTitle() string     { return c.lessonTitle }
func (c *SharedContext) KeyVocabulary() []string { return append([]string(nil), c.keyVocabulary...) }
func (c *SharedContext) MainThemes() []string    { return append([]string(nil), c.mainThemes...) }
func (c *SharedContext) ContentSummary() string  { return c.contentSummary }
func (c *SharedContext) DifficultyLevel() Level  { return c.difficultyLevel }
func (c *SharedContext) TargetLanguage() string  { return c.targetLanguage }
func (c *SharedContext) LessonType() string      { return c.lessonType }
func (c *SharedContext) StudentLevel() Level     { return c.studentLevel }
func (c *SharedContext) SourceText() string      { return c.sourceText }
func (c *SharedContext) Strategy() Strategy      { return c.strategy }

// topic is the short phrase fallback content talks about.
func (c *SharedContext) topic() string {
	if len(c.mainThemes) > 0 {
		return c.mainThemes[0]
	}
	if c.lessonTitle != "" {
		return c.lessonTitle
	}
	return "this topic"
}

func (c *SharedContext) promptInput() prompts.Input {
	return prompts.Input{
		SourceText:       c.sourceText,
		LessonType:       c.lessonType,
		StudentLevel:     string(c.studentLevel),
		TargetLanguage:   c.targetLanguage,
		LessonTitle:      c.lessonTitle,
		MainThemesCSV:    strings.Join(c.mainThemes, ", "),
		KeyVocabularyCSV: strings.Join(c.keyVocabulary, ", "),
		ContentSummary:   c.contentSummary,
		DifficultyLevel:  string(c.difficultyLevel),
	}
}

// ContextReport records how the shared context was obtained.
type ContextReport struct {
	Strategy   Strategy   `json:"strategy"`
	TokensUsed int        `json:"tokensUsed"`
	Error      *ErrorInfo `json:"error,omitempty"`
}

type Builder struct {
	client    llm.Client
	log       *logger.Logger
	maxTokens int
}

func NewBuilder(client llm.Client, log *logger.Logger) *Builder {
	return &Builder{client: client, log: log.With("service", "SharedContextBuilder"), maxTokens: 1200}
}

type contextPayload struct {
	Title         string   `json:"title"`
	Themes        []string `json:"themes"`
	KeyVocabulary []string `json:"keyVocabulary"`
	Summary       string   `json:"summary"`
	Difficulty    string   `json:"difficulty"`
}

// Build makes exactly one model call. It never fails: provider errors and
// unusable output fall back to deterministic extraction from the text.
func (b *Builder) Build(ctx context.Context, req Request) (*SharedContext, ContextReport) {
	extracted := Extract(req)
	rep := ContextReport{Strategy: StrategyFallback}

	in := prompts.Input{
		SourceText:     req.SourceText,
		LessonType:     req.LessonType,
		StudentLevel:   string(req.StudentLevel),
		TargetLanguage: req.TargetLanguage,
	}
	p, err := prompts.Build(prompts.PromptSharedContext, in)
	if err != nil {
		b.log.Error("shared context prompt build failed", "error", err)
		return extracted, rep
	}
	comp, err := b.client.Prompt(ctx, p.Text(), llm.Options{
		Temperature: llm.Temperature(0.3),
		MaxTokens:   b.maxTokens,
		JSON:        true,
	})
	rep.TokensUsed = comp.TokensUsed
	if err != nil {
		scope := aierr.NewScope(ctx, "shared_context")
		scope.Provider = b.client.Provider()
		ce := aierr.Classify(err, scope)
		rep.Error = errorInfo(ce)
		b.log.Warn("shared context generation failed; using extraction", aierr.Support(ce).LogFields()...)
		return extracted, rep
	}

	var payload contextPayload
	if err := json.Unmarshal([]byte(llm.CleanJSONText(comp.Text)), &payload); err != nil {
		b.log.Warn("shared context response malformed; using extraction", "error", err)
		return extracted, rep
	}

	sc := &SharedContext{
		lessonTitle:     strings.TrimSpace(payload.Title),
		keyVocabulary:   cleanList(payload.KeyVocabulary),
		mainThemes:      cleanList(payload.Themes),
		contentSummary:  strings.TrimSpace(payload.Summary),
		targetLanguage:  extracted.targetLanguage,
		lessonType:      extracted.lessonType,
		studentLevel:    extracted.studentLevel,
		sourceText:      extracted.sourceText,
		difficultyLevel: extracted.difficultyLevel,
		strategy:        StrategyFull,
	}
	if lvl, ok := ParseLevel(payload.Difficulty); ok {
		sc.difficultyLevel = lvl
	}
	if sc.lessonTitle == "" && len(sc.keyVocabulary) == 0 {
		b.log.Warn("shared context response empty; using extraction")
		return extracted, rep
	}
	if sc.lessonTitle == "" {
		sc.lessonTitle, sc.strategy = extracted.lessonTitle, StrategyRepaired
	}
	if len(sc.keyVocabulary) == 0 {
		sc.keyVocabulary, sc.strategy = extracted.keyVocabulary, StrategyRepaired
	}
	if len(sc.mainThemes) == 0 {
		sc.mainThemes, sc.strategy = extracted.mainThemes, StrategyRepaired
	}
	if sc.contentSummary == "" {
		sc.contentSummary, sc.strategy = extracted.contentSummary, StrategyRepaired
	}
	rep.Strategy = sc.strategy
	return sc, rep
}

const (
	extractVocabulary = 10
	extractThemes     = 3
	titleWords        = 8
	summarySentences  = 2
)

// Extract derives a context from the text alone: first sentence as title,
// most frequent content words as vocabulary and themes, opening sentences
// as summary and the requested level as difficulty.
func Extract(req Request) *SharedContext {
	level := req.StudentLevel
	if _, ok := ParseLevel(string(level)); !ok {
		level = LevelB1
	}
	text := strings.TrimSpace(req.SourceText)
	sentences := validation.Sentences(text)

	title := "Today's lesson"
	if len(sentences) > 0 {
		words := strings.Fields(sentences[0])
		if len(words) > titleWords {
			words = words[:titleWords]
		}
		title = strings.TrimRight(strings.Join(words, " "), ",;:")
	}

	vocab := frequentWords(text, extractVocabulary)
	themes := vocab
	if len(themes) > extractThemes {
		themes = themes[:extractThemes]
	}

	summary := text
	if len(sentences) > 0 {
		n := summarySentences
		if len(sentences) < n {
			n = len(sentences)
		}
		summary = strings.Join(sentences[:n], ". ") + "."
	}

	return &SharedContext{
		lessonTitle:     title,
		keyVocabulary:   append([]string(nil), vocab...),
		mainThemes:      append([]string(nil), themes...),
		contentSummary:  summary,
		difficultyLevel: level,
		targetLanguage:  strings.TrimSpace(req.TargetLanguage),
		lessonType:      strings.TrimSpace(req.LessonType),
		studentLevel:    level,
		sourceText:      text,
		strategy:        StrategyFallback,
	}
}

func frequentWords(text string, limit int) []string {
	counts := map[string]int{}
	first := map[string]int{}
	for i, w := range validation.Words(text) {
		w = strings.ToLower(strings.Trim(w, "'-"))
		if len([]rune(w)) < 4 || stopwords[w] || !allLetters(w) {
			continue
		}
		if _, ok := first[w]; !ok {
			first[w] = i
		}
		counts[w]++
	}
	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return first[words[i]] < first[words[j]]
	})
	if len(words) > limit {
		words = words[:limit]
	}
	return words
}

func allLetters(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) && r != '\'' && r != '-' {
			return false
		}
	}
	return true
}

func cleanList(in []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, s)
	}
	return out
}

func (c *SharedContext) String() string {
	return fmt.Sprintf("SharedContext{title=%q level=%s vocab=%d strategy=%s}", c.lessonTitle, c.difficultyLevel, len(c.keyVocabulary), c.strategy)
}

var stopwords = map[string]bool{}

func init() {
	for _, w := range strings.Fields(`
about above after again against also among another because been before being below
between both could does doing down during each even every from further have having
here into itself just like made make many more most much must only other ours over
same should some such than that their them then there these they this those through
under until very were what when where which while whom will with would your yours
said says also into upon onto still ever often really quite well than them
`) {
		stopwords[w] = true
	}
}
