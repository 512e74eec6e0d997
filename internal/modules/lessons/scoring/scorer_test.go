package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreKnownWords(t *testing.T) {
	cases := map[string]int{
		"cat":      3,
		"dog":      3,
		"knight":   18,
		"through":  31,
		"strength": 26,
	}
	for word, want := range cases {
		assert.Equal(t, want, Score(word).Score, word)
	}
}

func TestScoreLabels(t *testing.T) {
	knight := Score("Knight")
	assert.Equal(t, "Knight", knight.Word)
	assert.Contains(t, knight.ChallengingSounds, "silent initial letter")
	assert.Contains(t, knight.ChallengingSounds, "gh spelling")

	assert.Empty(t, Score("cat").ChallengingSounds)

	comb := Score("comb")
	assert.Equal(t, 4+4, comb.Score)
	assert.Equal(t, []string{"silent final letter"}, comb.ChallengingSounds)
}

func TestScoreCapsLength(t *testing.T) {
	long := Score("aaaaaaaaaaaaaaaaaaaa")
	assert.Equal(t, 12, long.Score)
}

func TestSelectScenario(t *testing.T) {
	got := Select([]string{"cat", "dog", "knight", "through", "strength"})
	require.Len(t, got, 5)
	assert.Equal(t, "through", got[0].Word)
	assert.Equal(t, "strength", got[1].Word)
	assert.Equal(t, "knight", got[2].Word)
	assert.ElementsMatch(t, []string{"cat", "dog"}, []string{got[3].Word, got[4].Word})
}

func TestSelectPrefersNewSounds(t *testing.T) {
	words := []string{"through", "thorough", "though", "thought", "throughout", "knee", "cat"}
	got := Select(words)
	require.Len(t, got, 5)

	names := make([]string, 0, len(got))
	for _, sw := range got {
		names = append(names, sw.Word)
	}
	assert.Equal(t, []string{"throughout", "through", "thought", "thorough", "knee"}, names)

	ranked := Rank(words)
	assert.Greater(t, coverage(got), coverage(ranked[:5]))
}

func TestSelectSmallInput(t *testing.T) {
	got := Select([]string{"dog", "ship"})
	require.Len(t, got, 2)
	assert.Equal(t, "ship", got[0].Word)
	assert.Equal(t, 8, got[0].Score)
	assert.Equal(t, []string{"sh sound"}, got[0].ChallengingSounds)
	assert.Equal(t, "dog", got[1].Word)
}

func TestSelectDropsBlanksAndDuplicates(t *testing.T) {
	got := Select([]string{"Ship", " ", "ship", "SHIP", ""})
	require.Len(t, got, 1)
	assert.Equal(t, "Ship", got[0].Word)
}

func TestSelectDeterministic(t *testing.T) {
	words := []string{"laugh", "phone", "beautiful", "wrist", "lamb", "chair", "shower", "boil", "moon", "sea"}
	first := Select(words)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Select(words))
	}
	seen := map[string]bool{}
	for _, sw := range first {
		assert.False(t, seen[sw.Word], "duplicate %s", sw.Word)
		seen[sw.Word] = true
	}
	assert.Len(t, first, 5)
}

func TestWords(t *testing.T) {
	assert.Equal(t, []string{"ship", "dog"}, Words([]string{"dog", "ship"}))
	assert.Empty(t, Words(nil))
}

func coverage(words []ScoredWord) int {
	set := map[string]bool{}
	for _, sw := range words {
		for _, s := range sw.ChallengingSounds {
			set[s] = true
		}
	}
	return len(set)
}
