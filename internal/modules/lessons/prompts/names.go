package prompts

type PromptName string

const (
	PromptSharedContext PromptName = "shared_context"

	PromptWarmup           PromptName = "warmup"
	PromptVocabulary       PromptName = "vocabulary"
	PromptReading          PromptName = "reading"
	PromptComprehension    PromptName = "comprehension"
	PromptDiscussion       PromptName = "discussion"
	PromptGrammar          PromptName = "grammar"
	PromptPronunciation    PromptName = "pronunciation"
	PromptDialoguePractice PromptName = "dialogue_practice"
	PromptDialogueFillGap  PromptName = "dialogue_fill_gap"
	PromptWrapup           PromptName = "wrapup"
)
