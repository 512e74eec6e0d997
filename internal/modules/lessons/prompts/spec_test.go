package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllPromptsRegistered(t *testing.T) {
	assert.ElementsMatch(t, []PromptName{
		PromptSharedContext, PromptWarmup, PromptVocabulary, PromptReading, PromptComprehension,
		PromptDiscussion, PromptGrammar, PromptPronunciation, PromptDialoguePractice,
		PromptDialogueFillGap, PromptWrapup,
	}, Names())
}

func TestBuildRendersInput(t *testing.T) {
	p, err := Build(PromptWarmup, Input{
		LessonType:     "conversation",
		StudentLevel:   "B1",
		TargetLanguage: "Spanish",
		LessonTitle:    "Coffee history",
		MinItems:       3,
	})
	require.NoError(t, err)
	assert.Equal(t, "warmup", p.Name)
	assert.Contains(t, p.System, "B1 (CEFR)")
	assert.Contains(t, p.System, "Spanish")
	assert.Contains(t, p.User, "LESSON_TITLE: Coffee history")
	assert.Contains(t, p.User, "exactly 3 warm-up questions")
	assert.NotContains(t, p.User, "VALIDATION_ERRORS_TO_FIX")
	assert.True(t, strings.HasPrefix(p.Text(), "You are an experienced English teacher"))
}

func TestBuildAppendsValidationErrors(t *testing.T) {
	p, err := Build(PromptDialogueFillGap, Input{
		VocabularyWordsCSV: "bean, roast",
		MinItems:           12,
		ValidationErrors:   "- dialogue has no gap lines",
	})
	require.NoError(t, err)
	assert.Contains(t, p.User, "VALIDATION_ERRORS_TO_FIX")
	assert.Contains(t, p.User, "- dialogue has no gap lines")
}

func TestBuildRunsValidators(t *testing.T) {
	_, err := Build(PromptComprehension, Input{MinItems: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ReadingText required")

	_, err = Build(PromptWarmup, Input{LessonTitle: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MinItems must be positive")
}

func TestBuildUnknownPrompt(t *testing.T) {
	_, err := Build(PromptName("nope"), Input{})
	assert.Error(t, err)
}

func TestMakeTemplateRejectsBadSpecs(t *testing.T) {
	_, err := MakeTemplate(Spec{Name: "x"})
	assert.Error(t, err)
	_, err = MakeTemplate(Spec{Name: "x", Version: 1, User: "{{.Broken"})
	assert.Error(t, err)
}
