// Package scoring ranks vocabulary words by how hard they are to pronounce
// for English learners and picks a phonetically diverse practice set.
package scoring

import (
	"regexp"
	"sort"
	"strings"
)

const (
	MaxSelected    = 5
	diversityFloor = 3
	lengthCap      = 12
)

type ScoredWord struct {
	Word              string   `json:"word"`
	Score             int      `json:"score"`
	ChallengingSounds []string `json:"challengingSounds"`
}

type pattern struct {
	re    *regexp.Regexp
	bonus int
	label string
	fixed bool // counted once per word, not per occurrence
}

var patterns = []pattern{
	{re: regexp.MustCompile(`th`), bonus: 5, label: "th sound"},
	{re: regexp.MustCompile(`ch`), bonus: 4, label: "ch sound"},
	{re: regexp.MustCompile(`sh`), bonus: 4, label: "sh sound"},
	{re: regexp.MustCompile(`ph`), bonus: 3, label: "ph as f"},
	{re: regexp.MustCompile(`gh`), bonus: 4, label: "gh spelling"},
	{re: regexp.MustCompile(`ng`), bonus: 3, label: "ng nasal"},
	{re: regexp.MustCompile(`wh`), bonus: 3, label: "wh sound"},
	{re: regexp.MustCompile(`[bcdfghjklmnpqstvwxz]r`), bonus: 4, label: "consonant + r blend"},

	{re: regexp.MustCompile(`ough|augh`), bonus: 5, label: "ough/augh vowel"},
	{re: regexp.MustCompile(`eau`), bonus: 4, label: "eau vowel"},
	{re: regexp.MustCompile(`ou`), bonus: 3, label: "ou vowel"},
	{re: regexp.MustCompile(`oo`), bonus: 3, label: "oo vowel"},
	{re: regexp.MustCompile(`ea`), bonus: 3, label: "ea vowel"},
	{re: regexp.MustCompile(`au|aw`), bonus: 3, label: "au/aw vowel"},
	{re: regexp.MustCompile(`oi|oy`), bonus: 3, label: "oi/oy diphthong"},

	{re: regexp.MustCompile(`^(kn|gn|wr)`), bonus: 5, label: "silent initial letter", fixed: true},
	{re: regexp.MustCompile(`(mb|lm|lk)$`), bonus: 4, label: "silent final letter", fixed: true},

	{re: regexp.MustCompile(`[bcdfghjklmnpqrstvwxz]{3,}`), bonus: 3, label: "consonant cluster"},
}

// Score rates a single word. The score starts at the word length (capped)
// and grows with every difficult spelling pattern found.
func Score(word string) ScoredWord {
	w := strings.TrimSpace(word)
	lower := strings.ToLower(w)
	n := len([]rune(lower))
	if n > lengthCap {
		n = lengthCap
	}
	out := ScoredWord{Word: w, Score: n, ChallengingSounds: []string{}}
	seen := map[string]bool{}
	for _, p := range patterns {
		hits := len(p.re.FindAllStringIndex(lower, -1))
		if hits == 0 {
			continue
		}
		if p.fixed {
			out.Score += p.bonus
		} else {
			out.Score += p.bonus * hits
		}
		if !seen[p.label] {
			seen[p.label] = true
			out.ChallengingSounds = append(out.ChallengingSounds, p.label)
		}
	}
	return out
}

// Rank scores every distinct non-blank word and orders them by score,
// highest first. Ties keep input order. Duplicates are matched
// case-insensitively and the first spelling wins.
func Rank(words []string) []ScoredWord {
	seen := map[string]bool{}
	ranked := make([]ScoredWord, 0, len(words))
	for _, w := range words {
		key := strings.ToLower(strings.TrimSpace(w))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		ranked = append(ranked, Score(w))
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	return ranked
}

// Select returns up to MaxSelected words, favouring words that add a sound
// not yet covered once the first few slots are filled. The result is in
// rank order.
func Select(words []string) []ScoredWord {
	ranked := Rank(words)
	if len(ranked) <= MaxSelected {
		return ranked
	}

	picked := make([]bool, len(ranked))
	count := 0
	covered := map[string]bool{}
	for i, sw := range ranked {
		if count == MaxSelected {
			break
		}
		if count >= diversityFloor && !addsNewSound(sw, covered) {
			continue
		}
		picked[i] = true
		count++
		for _, s := range sw.ChallengingSounds {
			covered[s] = true
		}
	}
	for i := range ranked {
		if count == MaxSelected {
			break
		}
		if !picked[i] {
			picked[i] = true
			count++
		}
	}

	out := make([]ScoredWord, 0, MaxSelected)
	for i, sw := range ranked {
		if picked[i] {
			out = append(out, sw)
		}
	}
	return out
}

// Words is a convenience returning just the selected spellings.
func Words(words []string) []string {
	sel := Select(words)
	out := make([]string, 0, len(sel))
	for _, sw := range sel {
		out = append(out, sw.Word)
	}
	return out
}

func addsNewSound(sw ScoredWord, covered map[string]bool) bool {
	for _, s := range sw.ChallengingSounds {
		if !covered[s] {
			return true
		}
	}
	return false
}
