package prompts

const tutorSystem = `
You are an experienced English teacher preparing a one-to-one {{.LessonType}} lesson
for a {{.StudentLevel}} (CEFR) student whose native language is {{.TargetLanguage}}.
Keep language at {{.StudentLevel}} level. Stay grounded in the lesson material.
Return JSON only. No markdown, no commentary.`

const lessonContext = `
LESSON_TITLE: {{.LessonTitle}}
MAIN_THEMES: {{.MainThemesCSV}}
KEY_VOCABULARY: {{.KeyVocabularyCSV}}
SUMMARY: {{.ContentSummary}}`

func RegisterAll() {
	RegisterSpec(Spec{
		Name:    PromptSharedContext,
		Version: 1,
		System: `
You analyse source texts for English language lessons.
Return JSON only.`,
		User: `
Lesson type: {{.LessonType}}
Student level: {{.StudentLevel}}
Student native language: {{.TargetLanguage}}

SOURCE_TEXT:
{{.SourceText}}

Return exactly this JSON object:
{"title": "...", "themes": ["..."], "keyVocabulary": ["..."], "summary": "...", "difficulty": "A1|A2|B1|B2|C1"}

Rules:
- title: short lesson title grounded in the text.
- themes: 2-5 main topics, most important first.
- keyVocabulary: 8-15 single words or short phrases from the text, most useful first.
- summary: 2-4 sentences.
- difficulty: the CEFR level of the source text itself.`,
		Validators: []Validator{
			RequireNonEmpty("SourceText", func(in Input) string { return in.SourceText }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptWarmup,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

Write exactly {{.MinItems}} warm-up questions that get the student talking about the lesson topic
from personal experience before reading. Do not quote the text.

Return: {"questions": ["..."]}`,
		Validators: []Validator{
			RequireNonEmpty("LessonTitle", func(in Input) string { return in.LessonTitle }),
			RequirePositive("MinItems", func(in Input) int { return in.MinItems }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptVocabulary,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

Select at least {{.MinItems}} vocabulary items, preferring KEY_VOCABULARY.
Each item needs a learner-friendly meaning and 1-2 example sentences that are not copied from the text.

SOURCE_TEXT:
{{.SourceText}}

Return: {"items": [{"word": "...", "meaning": "...", "examples": ["..."]}]}`,
		Validators: []Validator{
			RequireNonEmpty("SourceText", func(in Input) string { return in.SourceText }),
			RequirePositive("MinItems", func(in Input) int { return in.MinItems }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptReading,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

Adapt SOURCE_TEXT into a reading passage of at least {{.MinItems}} words for a {{.StudentLevel}} student.
Keep the facts. Use the vocabulary: {{.VocabularyWordsCSV}}.

SOURCE_TEXT:
{{.SourceText}}

Return: {"text": "..."}`,
		Validators: []Validator{
			RequireNonEmpty("SourceText", func(in Input) string { return in.SourceText }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptComprehension,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

READING:
{{.ReadingText}}

Write at least {{.MinItems}} comprehension questions answerable from READING only.
Mix detail questions with one or two inference questions.

Return: {"questions": ["..."]}`,
		Validators: []Validator{
			RequireNonEmpty("ReadingText", func(in Input) string { return in.ReadingText }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptDiscussion,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

READING:
{{.ReadingText}}

Write at least {{.MinItems}} open discussion questions that connect READING to the student's
opinions and life. Avoid yes/no questions.

Return: {"questions": ["..."]}`,
		Validators: []Validator{
			RequireNonEmpty("ReadingText", func(in Input) string { return in.ReadingText }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptGrammar,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

READING:
{{.ReadingText}}

Pick one grammar point that appears in READING and suits {{.StudentLevel}}.
Give at least {{.MinItems}} example sentences (prefer ones from READING) and at least {{.MinItems}}
practice exercise items (gap fills or transformations with the gap shown as ___).

Return: {"focus": "...", "examples": ["..."], "exercise": ["..."]}`,
		Validators: []Validator{
			RequireNonEmpty("ReadingText", func(in Input) string { return in.ReadingText }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptPronunciation,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

PRACTICE_WORDS: {{.PronunciationWordsCSV}}

Write a short instruction telling the student how to practise PRACTICE_WORDS and at least
{{.MinItems}} tongue twisters that reuse their difficult sounds.

Return: {"instruction": "...", "tongueTwisters": ["..."]}`,
		Validators: []Validator{
			RequireNonEmpty("PronunciationWordsCSV", func(in Input) string { return in.PronunciationWordsCSV }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptDialoguePractice,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

VOCABULARY: {{.VocabularyWordsCSV}}

Write a role-play dialogue of at least {{.MinItems}} turns about the lesson topic.
Speakers alternate strictly: the first turn is "Student", the next is "Tutor", and so on.
Use several VOCABULARY words. Then add at least 3 follow-up questions about the dialogue.

Return: {"dialogue": [{"character": "Student", "line": "..."}, {"character": "Tutor", "line": "..."}], "followUpQuestions": ["..."]}`,
		Validators: []Validator{
			RequireNonEmpty("VocabularyWordsCSV", func(in Input) string { return in.VocabularyWordsCSV }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptDialogueFillGap,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

VOCABULARY: {{.VocabularyWordsCSV}}

Write a fill-in-the-gap dialogue of at least {{.MinItems}} turns about the lesson topic.
Speakers alternate strictly starting with "Student", then "Tutor".
Mark 3-5 turns with "isGap": true and replace one VOCABULARY word in each of those lines with ___.
List the missing words in "answers" in the same order as the gaps; one answer per gap.

Return: {"dialogue": [{"character": "Student", "line": "...", "isGap": false}], "answers": ["..."]}`,
		Validators: []Validator{
			RequireNonEmpty("VocabularyWordsCSV", func(in Input) string { return in.VocabularyWordsCSV }),
		},
	})

	RegisterSpec(Spec{
		Name:    PromptWrapup,
		Version: 1,
		System:  tutorSystem,
		User: lessonContext + `

VOCABULARY: {{.VocabularyWordsCSV}}
GRAMMAR_FOCUS: {{.GrammarFocus}}

Write at least {{.MinItems}} wrap-up prompts that review VOCABULARY and GRAMMAR_FOCUS and ask
the student to reflect on what they learned.

Return: {"items": ["..."]}`,
	})
}
