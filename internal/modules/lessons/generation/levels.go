package generation

import "strings"

// Level is a CEFR proficiency tier.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

var Levels = []Level{LevelA1, LevelA2, LevelB1, LevelB2, LevelC1}

func ParseLevel(s string) (Level, bool) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Levels {
		if l == known {
			return l, true
		}
	}
	return "", false
}

func (l Level) String() string { return string(l) }

func (l Level) beginner() bool { return l == LevelA1 || l == LevelA2 }
