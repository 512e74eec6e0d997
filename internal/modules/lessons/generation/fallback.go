package generation

import (
	"fmt"
	"strings"

	"github.com/linguaspark/linguaspark-backend/internal/domain"
	"github.com/linguaspark/linguaspark-backend/internal/modules/lessons/validation"
)

// Static content used when a section cannot be generated. Everything here
// satisfies the same structural minimums the generated content must meet.

var defaultWords = []string{"describe", "explain", "opinion", "experience", "compare"}

// fill repeats templates until n items exist.
func fill(n int, templates []string) []string {
	out := make([]string, 0, n)
	for i := 0; len(out) < n && len(templates) > 0; i++ {
		item := templates[i%len(templates)]
		if i >= len(templates) {
			item = fmt.Sprintf("%s (%d)", item, i/len(templates)+1)
		}
		out = append(out, item)
	}
	return out
}

// wordsAtLeast pads words with defaults until it has n distinct entries.
func wordsAtLeast(words []string, n int) []string {
	out := cleanList(words)
	seen := map[string]bool{}
	for _, w := range out {
		seen[strings.ToLower(w)] = true
	}
	for _, w := range defaultWords {
		if len(out) >= n {
			break
		}
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}

func fallbackWarmup(env *sectionEnv, n int) []string {
	topic := env.sc.topic()
	return fill(n, []string{
		fmt.Sprintf("What do you already know about %s?", topic),
		fmt.Sprintf("Have you ever read or talked about %s before? Tell me about it.", topic),
		fmt.Sprintf("Why do you think people are interested in %s?", topic),
		"What do you expect to learn from today's text?",
	})
}

func fallbackVocabulary(env *sectionEnv, n int) []domain.VocabularyItem {
	words := wordsAtLeast(env.sc.KeyVocabulary(), n)
	topic := env.sc.topic()
	items := make([]domain.VocabularyItem, 0, len(words))
	for _, w := range words {
		items = append(items, domain.VocabularyItem{
			Word:     w,
			Meaning:  fmt.Sprintf("A key word from the lesson %q. Find it in the text and guess its meaning.", env.sc.LessonTitle()),
			Examples: []string{fmt.Sprintf("Can you use %q in a sentence about %s?", w, topic)},
		})
	}
	return items
}

const readingStudyNote = "Before you continue, read the text again slowly. Underline the words you do not know " +
	"and try to guess their meaning from the sentences around them. Then find the main idea of each paragraph " +
	"and say it in your own words. Finally, write two questions you would like to ask about this topic."

const maxFallbackReadingWords = 400

func fallbackReading(env *sectionEnv, minWords int) string {
	text := strings.TrimSpace(env.sc.SourceText())
	if words := strings.Fields(text); len(words) > maxFallbackReadingWords {
		text = strings.Join(words[:maxFallbackReadingWords], " ") + "..."
	}
	for len(validation.Words(text)) < minWords {
		text = strings.TrimSpace(text + "\n\n" + readingStudyNote)
	}
	return text
}

func fallbackComprehension(env *sectionEnv, n int) []string {
	topic := env.sc.topic()
	return fill(n, []string{
		"What is the main idea of the text?",
		"Which details in the text support the main idea?",
		fmt.Sprintf("What does the text say about %s?", topic),
		"Which new words did you notice, and what do you think they mean?",
		"What do you think the author wants the reader to learn?",
	})
}

func fallbackDiscussion(env *sectionEnv, n int) []string {
	topic := env.sc.topic()
	return fill(n, []string{
		"Do you agree with the main idea of the text? Why or why not?",
		fmt.Sprintf("How does %s relate to your own life?", topic),
		fmt.Sprintf("What would you like to learn next about %s?", topic),
		"How do people in your country see this topic?",
	})
}

type grammarStub struct {
	focus    string
	examples []string
	exercise []string
}

var (
	grammarBeginner = grammarStub{
		focus: "Present simple for facts and habits",
		examples: []string{
			"She drinks coffee every morning.",
			"Water boils at 100 degrees.",
			"They live near the sea.",
		},
		exercise: []string{
			"He ___ (work) in a bank.",
			"We ___ (not / like) cold weather.",
			"___ you ___ (speak) English at work?",
		},
	}
	grammarIntermediate = grammarStub{
		focus: "Past simple vs present perfect",
		examples: []string{
			"I visited Paris in 2019.",
			"I have visited Paris twice.",
			"She has just finished her homework.",
		},
		exercise: []string{
			"I ___ (see) that film last week.",
			"They ___ (already / eat) lunch.",
			"___ you ever ___ (try) sushi?",
		},
	}
	grammarAdvanced = grammarStub{
		focus: "The passive voice for formal writing",
		examples: []string{
			"The results were published last year.",
			"The bridge is being repaired.",
			"Mistakes have been made.",
		},
		exercise: []string{
			"The report ___ (write) by the committee last month.",
			"A new policy ___ (introduce) next year.",
			"The data ___ (already / analyse).",
		},
	}
)

func fallbackGrammar(env *sectionEnv, n int) domain.Grammar {
	stub := grammarIntermediate
	switch lvl := env.sc.StudentLevel(); {
	case lvl.beginner():
		stub = grammarBeginner
	case lvl == LevelC1:
		stub = grammarAdvanced
	}
	return domain.Grammar{
		Focus:    stub.focus,
		Examples: fill(n, stub.examples),
		Exercise: fill(n, stub.exercise),
	}
}

var defaultTongueTwisters = []string{
	"Three thin thinkers thought thirty thoughtful thoughts.",
	"She sells seashells by the seashore.",
	"Red lorry, yellow lorry.",
}

func fallbackPronunciation(words []string) domain.Pronunciation {
	return domain.Pronunciation{
		Instruction:    "Listen and repeat each word slowly, then say it in a sentence of your own. Pay attention to the difficult sounds.",
		Words:          wordsAtLeast(words, 1),
		TongueTwisters: append([]string(nil), defaultTongueTwisters...),
	}
}

func fallbackDialoguePractice(env *sectionEnv, n int) domain.DialoguePractice {
	words := wordsAtLeast(vocabularyWords(env), 3)
	topic := env.sc.topic()
	pairs := [][2]string{
		{fmt.Sprintf("I read a text about %s today.", topic), "Great! What was it about?"},
		{fmt.Sprintf("It was mostly about %s.", topic), "What did you find most interesting?"},
		{fmt.Sprintf("I learned the word %q.", words[0]), "Can you use it in a sentence?"},
		{fmt.Sprintf("Yes. I think %q is a useful word.", words[0]), fmt.Sprintf("Good. What about %q?", words[1])},
		{fmt.Sprintf("%q was new for me too.", words[1]), "How would you explain it to a friend?"},
		{"I would give an example from my own life.", fmt.Sprintf("Nice idea. And %q?", words[2])},
		{fmt.Sprintf("I can say %q when I talk about %s.", words[2], topic), "Would you like to read more about this?"},
		{"Yes, I would like to learn more.", "Then let's practise these words again next time."},
	}
	var turns []domain.DialogueTurn
	for i := 0; len(turns) < n; i++ {
		p := pairs[i%len(pairs)]
		turns = append(turns,
			domain.DialogueTurn{Character: domain.SpeakerStudent, Line: p[0]},
			domain.DialogueTurn{Character: domain.SpeakerTutor, Line: p[1]},
		)
	}
	return domain.DialoguePractice{
		Dialogue: turns,
		FollowUpQuestions: []string{
			"What did the student learn from the text?",
			"Which new words did the student use?",
			fmt.Sprintf("What would you say about %s in this conversation?", topic),
		},
	}
}

func fallbackDialogueFillGap(env *sectionEnv, n int) domain.DialogueFillGap {
	words := wordsAtLeast(vocabularyWords(env), 3)
	topic := env.sc.topic()
	type line struct {
		text   string
		answer string
	}
	pairs := [][2]line{
		{{text: fmt.Sprintf("Today I read about %s.", topic)}, {text: "Which words did you learn?"}},
		{{text: "The first word was ___.", answer: words[0]}, {text: "Good. How do you use it?"}},
		{{text: "I use it when I talk about the text."}, {text: "And the next word?"}},
		{{text: "The next word was ___.", answer: words[1]}, {text: "Can you say it again slowly?"}},
		{{text: "Yes, I can."}, {text: "What was the last new word?"}},
		{{text: "The last word was ___.", answer: words[2]}, {text: "Excellent work today!"}},
	}
	out := domain.DialogueFillGap{}
	for i := 0; len(out.Dialogue) < n; i++ {
		for j, l := range pairs[i%len(pairs)] {
			speaker := domain.SpeakerStudent
			if j == 1 {
				speaker = domain.SpeakerTutor
			}
			gap := l.answer != ""
			out.Dialogue = append(out.Dialogue, domain.GapTurn{Character: speaker, Line: l.text, IsGap: gap})
			if gap {
				out.Answers = append(out.Answers, l.answer)
			}
		}
	}
	return out
}

func fallbackWrapup(env *sectionEnv, n int) []string {
	words := wordsAtLeast(vocabularyWords(env), 3)
	focus := grammarFocus(env)
	if focus == "" {
		focus = "today's grammar point"
	}
	return fill(n, []string{
		fmt.Sprintf("Use three new words from today in your own sentences: %s.", strings.Join(words[:3], ", ")),
		fmt.Sprintf("Write two sentences using %s.", strings.ToLower(focus)),
		fmt.Sprintf("What was the most useful thing you learned about %s today?", env.sc.topic()),
	})
}
