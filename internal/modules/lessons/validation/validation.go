// Package validation gates source text before any generation call is made
// and reports an informational quality score.
package validation

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

const (
	MinimumWords  = 50
	MaxCharacters = 20000
)

// MinimumWordCount is the smallest source text accepted for generation.
func MinimumWordCount() int { return MinimumWords }

type Result struct {
	Valid     bool     `json:"valid"`
	Errors    []string `json:"errors"`
	WordCount int      `json:"wordCount"`
}

type Level string

const (
	LevelExcellent Level = "excellent"
	LevelGood      Level = "good"
	LevelFair      Level = "fair"
	LevelPoor      Level = "poor"
)

type Quality struct {
	Score             int      `json:"score"`
	Level             Level    `json:"level"`
	WordCount         int      `json:"wordCount"`
	SentenceCount     int      `json:"sentenceCount"`
	LexicalDiversity  float64  `json:"lexicalDiversity"`
	AvgSentenceLength float64  `json:"avgSentenceLength"`
	Warnings          []string `json:"warnings"`
}

func ValidateContent(text string) Result {
	res := Result{Errors: []string{}}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		res.Errors = append(res.Errors, "content is required")
		return res
	}
	res.WordCount = len(Words(trimmed))
	if res.WordCount < MinimumWords {
		res.Errors = append(res.Errors, fmt.Sprintf("content must contain at least %d words (found %d)", MinimumWords, res.WordCount))
	}
	if n := len([]rune(trimmed)); n > MaxCharacters {
		res.Errors = append(res.Errors, fmt.Sprintf("content must be at most %d characters (found %d)", MaxCharacters, n))
	}
	res.Valid = len(res.Errors) == 0
	return res
}

// CheckContentQuality never rejects text; the score is advisory.
func CheckContentQuality(text string) Quality {
	words := Words(text)
	q := Quality{
		WordCount:     len(words),
		SentenceCount: countSentences(text),
		Warnings:      []string{},
	}
	if q.WordCount == 0 {
		q.Level = LevelPoor
		q.Warnings = append(q.Warnings, "no readable words found")
		return q
	}

	unique := map[string]struct{}{}
	for _, w := range words {
		unique[strings.ToLower(w)] = struct{}{}
	}
	q.LexicalDiversity = round2(float64(len(unique)) / float64(q.WordCount))
	if q.SentenceCount > 0 {
		q.AvgSentenceLength = round2(float64(q.WordCount) / float64(q.SentenceCount))
	}

	score := 30.0 * math.Min(1, float64(q.WordCount)/300)
	score += 30.0 * math.Min(1, q.LexicalDiversity/0.6)
	score += 4.0 * math.Min(5, float64(q.SentenceCount))
	switch {
	case q.AvgSentenceLength >= 8 && q.AvgSentenceLength <= 25:
		score += 20
	case q.SentenceCount > 0:
		score += 10
	}
	q.Score = int(math.Round(score))

	if q.WordCount < MinimumWords {
		q.Warnings = append(q.Warnings, fmt.Sprintf("text is shorter than the %d-word minimum", MinimumWords))
	}
	if q.LexicalDiversity < 0.4 {
		q.Warnings = append(q.Warnings, "vocabulary is highly repetitive")
	}
	if q.SentenceCount < 3 {
		q.Warnings = append(q.Warnings, "text has very few sentences")
	}
	if q.AvgSentenceLength > 30 {
		q.Warnings = append(q.Warnings, "sentences are very long for learners")
	}

	switch {
	case q.Score >= 80:
		q.Level = LevelExcellent
	case q.Score >= 60:
		q.Level = LevelGood
	case q.Score >= 40:
		q.Level = LevelFair
	default:
		q.Level = LevelPoor
	}
	return q
}

// Words splits text into word tokens; apostrophes and hyphens stay inside
// a word. Tokens without a letter or digit are not words.
func Words(text string) []string {
	toks := strings.FieldsFunc(text, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' || r == '-')
	})
	out := toks[:0]
	for _, tok := range toks {
		if strings.IndexFunc(tok, isWordRune) >= 0 {
			out = append(out, tok)
		}
	}
	return out
}

func isWordRune(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }

// Sentences splits on terminal punctuation and drops fragments without
// letters.
func Sentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool { return r == '.' || r == '!' || r == '?' })
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if strings.IndexFunc(p, unicode.IsLetter) >= 0 {
			out = append(out, p)
		}
	}
	return out
}

func countSentences(text string) int { return len(Sentences(text)) }

func round2(f float64) float64 { return math.Round(f*100) / 100 }
