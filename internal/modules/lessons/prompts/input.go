package prompts

// Input is a superset of all fields any lesson prompt might need.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Request
	SourceText     string
	LessonType     string
	StudentLevel   string
	TargetLanguage string
	// Shared context
	LessonTitle      string
	MainThemesCSV    string
	KeyVocabularyCSV string
	ContentSummary   string
	DifficultyLevel  string
	// Earlier sections
	ReadingText           string
	VocabularyWordsCSV    string
	GrammarFocus          string
	PronunciationWordsCSV string
	// Structural minimum the section must reach
	MinItems int
	// Set on the stricter retry; lists what the first attempt got wrong
	ValidationErrors string
}
