package generation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linguaspark/linguaspark-backend/internal/domain"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/validation"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm"
	"github.com/linguaspark/linguaspark-backend/internal/platform/llm/llmtest"
)

const coffeeText = "Coffee began its journey in Ethiopia many centuries ago. " +
	"Traders carried the beans across the Red Sea to Yemen. " +
	"Monks there brewed a drink that kept them awake during prayers. " +
	"Soon coffee houses appeared in Cairo, Istanbul and Venice. " +
	"People gathered to talk about politics, business and art. " +
	"Today farmers in Brazil, Vietnam and Colombia grow most of the world's supply."

// Prompt markers: one phrase unique to each prompt template.
const (
	markContext          = "Return exactly this JSON object"
	markWarmup           = "warm-up questions"
	markVocabulary       = "vocabulary items, preferring KEY_VOCABULARY"
	markReading          = "Adapt SOURCE_TEXT into a reading passage"
	markComprehension    = "comprehension questions"
	markDiscussion       = "open discussion questions"
	markGrammar          = "Pick one grammar point"
	markPronunciation    = "PRACTICE_WORDS:"
	markDialoguePractice = "role-play dialogue"
	markDialogueFillGap  = "fill-in-the-gap dialogue"
	markWrapup           = "wrap-up prompts"
	markRetry            = "VALIDATION_ERRORS_TO_FIX"
)

func coffeeRequest() Request {
	return Request{SourceText: coffeeText, LessonType: "conversation", StudentLevel: LevelB1, TargetLanguage: "Spanish"}
}

func mustJSON(t testing.TB, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func ok(text string) llmtest.Reply { return llmtest.Reply{Text: text} }

func alternating(n int) []domain.DialogueTurn {
	turns := make([]domain.DialogueTurn, 0, n)
	for i := 0; i < n; i++ {
		who := domain.SpeakerStudent
		if i%2 == 1 {
			who = domain.SpeakerTutor
		}
		turns = append(turns, domain.DialogueTurn{Character: who, Line: fmt.Sprintf("line %d about coffee", i+1)})
	}
	return turns
}

func fillGapJSON(t testing.TB, gaps bool) string {
	d := domain.DialogueFillGap{Answers: []string{}}
	for i, tu := range alternating(12) {
		g := domain.GapTurn{Character: tu.Character, Line: tu.Line}
		if gaps && (i == 2 || i == 6) {
			g.IsGap = true
			g.Line = "I love the ___ of fresh coffee."
			d.Answers = append(d.Answers, "smell")
		}
		d.Dialogue = append(d.Dialogue, g)
	}
	return mustJSON(t, d)
}

// happyFake answers every prompt with valid content.
func happyFake(t testing.TB) *llmtest.Fake {
	reading := strings.TrimSpace(strings.Repeat("Coffee traders carried beans across the sea to new markets. ", 10))
	return llmtest.New().
		On(markContext, ok(`{"title":"The story of coffee","themes":["coffee history","trade"],`+
			`"keyVocabulary":["beans","traders","brewed","prayers","supply","centuries"],`+
			`"summary":"Coffee travelled from Ethiopia to the whole world.","difficulty":"B2"}`)).
		On(markWarmup, ok(`{"questions":["Do you drink coffee?","Where does your coffee come from?","Who drinks the most coffee in your family?"]}`)).
		On(markVocabulary, ok(mustJSON(t, map[string]any{"items": []domain.VocabularyItem{
			{Word: "beans", Meaning: "seeds of the coffee plant", Examples: []string{"The beans are roasted."}},
			{Word: "traders", Meaning: "people who buy and sell", Examples: []string{"Traders met at the port."}},
			{Word: "brewed", Meaning: "made a hot drink", Examples: []string{"She brewed fresh coffee."}},
			{Word: "through", Meaning: "from one side to the other", Examples: []string{"They walked through the market."}},
			{Word: "strength", Meaning: "how strong something is", Examples: []string{"I like the strength of espresso."}},
		}}))).
		On(markReading, ok(mustJSON(t, map[string]string{"text": reading}))).
		On(markComprehension, ok(`{"questions":["Where did coffee begin?","Who carried the beans?","Why did monks drink coffee?","Which cities had coffee houses?","Where is coffee grown today?"]}`)).
		On(markDiscussion, ok(`{"questions":["How do you take your coffee?","Why are cafes popular?","Is coffee culture changing?","Would you open a cafe?"]}`)).
		On(markGrammar, ok(`{"focus":"Past simple","examples":["Traders carried beans.","Monks brewed a drink.","People gathered."],"exercise":["They ___ (carry) beans.","Monks ___ (brew) coffee.","People ___ (talk) a lot."]}`)).
		On(markPronunciation, ok(`{"instruction":"Say each word slowly twice.","tongueTwisters":["Thirty thirsty traders brewed strong beans."]}`)).
		On(markDialoguePractice, ok(mustJSON(t, domain.DialoguePractice{
			Dialogue:          alternating(12),
			FollowUpQuestions: []string{"What did the student order?", "Why?", "What would you order?"},
		}))).
		On(markDialogueFillGap, ok(fillGapJSON(t, true))).
		On(markWrapup, ok(`{"items":["Use beans in a sentence.","Make two past simple sentences.","What surprised you today?"]}`))
}

// blockingClient waits for the context on prompts containing block.
type blockingClient struct {
	*llmtest.Fake
	block string
}

func (c *blockingClient) Prompt(ctx context.Context, prompt string, opts llm.Options) (llm.Completion, error) {
	if strings.Contains(prompt, c.block) {
		select {
		case <-ctx.Done():
			return llm.Completion{}, ctx.Err()
		case <-time.After(5 * time.Second):
		}
	}
	return c.Fake.Prompt(ctx, prompt, opts)
}

func countWords(s string) int { return len(validation.Words(s)) }

// requireLessonShape checks every section meets its structural minimum.
func requireLessonShape(t *testing.T, s domain.LessonSections) {
	t.Helper()
	assert.Len(t, s.Warmup, 3, "warmup")
	require.GreaterOrEqual(t, len(s.Vocabulary), 5, "vocabulary")
	for _, v := range s.Vocabulary {
		assert.NotEmpty(t, v.Word)
		assert.NotEmpty(t, v.Meaning)
		assert.NotEmpty(t, v.Examples)
	}
	assert.GreaterOrEqual(t, countWords(s.Reading), 80, "reading")
	assert.GreaterOrEqual(t, len(s.Comprehension), 5, "comprehension")
	assert.GreaterOrEqual(t, len(s.Discussion), 4, "discussion")
	assert.NotEmpty(t, s.Grammar.Focus)
	assert.GreaterOrEqual(t, len(s.Grammar.Examples), 3, "grammar examples")
	assert.GreaterOrEqual(t, len(s.Grammar.Exercise), 3, "grammar exercise")
	assert.True(t, s.Pronunciation.IsDrill())
	assert.NotEmpty(t, s.Pronunciation.Instruction)
	assert.NotEmpty(t, s.Pronunciation.TongueTwisters)
	assert.LessOrEqual(t, len(s.Pronunciation.Words), 5)

	requireAlternating(t, fromPractice(s.DialoguePractice.Dialogue))
	assert.GreaterOrEqual(t, len(s.DialoguePractice.FollowUpQuestions), 3)

	requireAlternating(t, fromGaps(s.DialogueFillGap.Dialogue))
	gaps := 0
	for _, g := range s.DialogueFillGap.Dialogue {
		if g.IsGap {
			gaps++
		}
	}
	assert.GreaterOrEqual(t, gaps, 1, "fill-gap needs a gap")
	assert.Len(t, s.DialogueFillGap.Answers, gaps, "one answer per gap")

	assert.GreaterOrEqual(t, len(s.Wrapup), 3, "wrapup")
}

func requireAlternating(t *testing.T, turns []turn) {
	t.Helper()
	require.GreaterOrEqual(t, len(turns), 12)
	for i, tu := range turns {
		want := domain.SpeakerStudent
		if i%2 == 1 {
			want = domain.SpeakerTutor
		}
		require.Equal(t, want, tu.speaker, "turn %d", i+1)
	}
}
