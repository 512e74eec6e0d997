package lesson

// Plan is the generated lesson as returned to clients and stored in
// Lesson.Sections.
type Plan struct {
	LessonType     string   `json:"lessonType"`
	StudentLevel   string   `json:"studentLevel"`
	TargetLanguage string   `json:"targetLanguage"`
	Sections       Sections `json:"sections"`
}

type Sections struct {
	Warmup           []string         `json:"warmup"`
	Vocabulary       []VocabularyItem `json:"vocabulary"`
	Reading          string           `json:"reading"`
	Comprehension    []string         `json:"comprehension"`
	Discussion       []string         `json:"discussion"`
	Grammar          Grammar          `json:"grammar"`
	Pronunciation    Pronunciation    `json:"pronunciation"`
	DialoguePractice DialoguePractice `json:"dialoguePractice"`
	DialogueFillGap  DialogueFillGap  `json:"dialogueFillGap"`
	Wrapup           []string         `json:"wrapup"`
}

type VocabularyItem struct {
	Word     string   `json:"word"`
	Meaning  string   `json:"meaning"`
	Examples []string `json:"examples"`
}

type Grammar struct {
	Focus    string   `json:"focus"`
	Examples []string `json:"examples"`
	Exercise []string `json:"exercise"`
}

// Pronunciation holds either a single-word entry (Word, IPA, Practice) or a
// drill (Instruction, Words, TongueTwisters). Generation always produces the
// drill; the single-word shape is accepted from older stored lessons.
type Pronunciation struct {
	Word     string `json:"word,omitempty"`
	IPA      string `json:"ipa,omitempty"`
	Practice string `json:"practice,omitempty"`

	Instruction    string   `json:"instruction,omitempty"`
	Words          []string `json:"words,omitempty"`
	TongueTwisters []string `json:"tongueTwisters,omitempty"`
}

func (p Pronunciation) IsDrill() bool { return len(p.Words) > 0 }

type DialogueTurn struct {
	Character string `json:"character"`
	Line      string `json:"line"`
}

type DialoguePractice struct {
	Dialogue          []DialogueTurn `json:"dialogue"`
	FollowUpQuestions []string       `json:"followUpQuestions"`
}

type GapTurn struct {
	Character string `json:"character"`
	Line      string `json:"line"`
	IsGap     bool   `json:"isGap"`
}

type DialogueFillGap struct {
	Dialogue []GapTurn `json:"dialogue"`
	Answers  []string  `json:"answers"`
}

const (
	SpeakerStudent = "Student"
	SpeakerTutor   = "Tutor"
)
