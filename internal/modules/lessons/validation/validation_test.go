package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "word"
	}
	return strings.Join(parts, " ")
}

func TestMinimumWordCount(t *testing.T) {
	assert.Equal(t, 50, MinimumWordCount())
}

func TestValidateContentEmpty(t *testing.T) {
	res := ValidateContent("   \n")
	assert.False(t, res.Valid)
	assert.Equal(t, []string{"content is required"}, res.Errors)
}

func TestValidateContentBelowMinimum(t *testing.T) {
	res := ValidateContent(words(49))
	assert.False(t, res.Valid)
	assert.Equal(t, 49, res.WordCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "at least 50 words")
}

func TestValidateContentAtMinimum(t *testing.T) {
	res := ValidateContent(words(50))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
}

func TestValidateContentTooLong(t *testing.T) {
	res := ValidateContent(strings.Repeat("abcdefghi ", 2001))
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "at most 20000 characters")
}

func TestValidateContentPunctuationOnly(t *testing.T) {
	res := ValidateContent(strings.Repeat("- ' -- ", 20))
	assert.False(t, res.Valid)
	assert.Equal(t, 0, res.WordCount)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "at least 50 words")
}

func TestWordsSkipsTokensWithoutLetters(t *testing.T) {
	assert.Equal(t, []string{"rock-and-roll", "'90s"}, Words("-- rock-and-roll ' '90s --"))
	assert.Empty(t, Words("- ' -- ''"))
}

func TestWordsAndSentences(t *testing.T) {
	assert.Equal(t, []string{"It's", "a", "well-known", "fact", "42"}, Words("It's a well-known fact: 42!"))
	assert.Equal(t, []string{"One", "Two", "Three"}, Sentences("One. Two! Three?... 4."))
}

func TestCheckContentQualityEmpty(t *testing.T) {
	q := CheckContentQuality("")
	assert.Equal(t, 0, q.Score)
	assert.Equal(t, LevelPoor, q.Level)
	assert.NotEmpty(t, q.Warnings)
}

func TestCheckContentQualityRepetitive(t *testing.T) {
	q := CheckContentQuality(words(60))
	assert.Equal(t, 60, q.WordCount)
	assert.Equal(t, 1, q.SentenceCount)
	assert.Equal(t, LevelPoor, q.Level)
	assert.Contains(t, q.Warnings, "vocabulary is highly repetitive")
	assert.Contains(t, q.Warnings, "text has very few sentences")
	assert.Contains(t, q.Warnings, "sentences are very long for learners")
}

func TestCheckContentQualityRichText(t *testing.T) {
	text := "Coffee began its journey in Ethiopia many centuries ago. " +
		"Traders carried the beans across the Red Sea to Yemen. " +
		"Monks there brewed a drink that kept them awake during prayers. " +
		"Soon coffee houses appeared in Cairo, Istanbul and Venice. " +
		"People gathered to talk about politics, business and art. " +
		"Today farmers in Brazil, Vietnam and Colombia grow most of the world's supply."
	q := CheckContentQuality(text)
	assert.Equal(t, 6, q.SentenceCount)
	assert.Greater(t, q.LexicalDiversity, 0.6)
	assert.GreaterOrEqual(t, q.Score, 60)
	assert.NotContains(t, q.Warnings, "vocabulary is highly repetitive")
	assert.Equal(t, 61, q.WordCount)
	assert.Equal(t, LevelGood, q.Level)
	assert.Empty(t, q.Warnings)
}
