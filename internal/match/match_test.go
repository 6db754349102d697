package match

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findt/internal/domain"
)

func entry(p string) domain.Entry {
	return domain.NewEntry(p, 0, time.Time{})
}

func TestExactIsCaseInsensitiveSubstring(t *testing.T) {
	var s Exact
	tests := []struct {
		query string
		path  string
		want  bool
	}{
		{"", "anything", true},
		{"src", "src/main.go", true},
		{"SRC", "src/main.go", true},
		{"main", "SRC/MAIN.GO", true},
		{"readme", "src/main.go", false},
		{"s/m", "src/main.go", false},
		{"c/m", "src/main.go", true},
	}
	for _, tt := range tests {
		t.Run(tt.query+"_"+tt.path, func(t *testing.T) {
			score, ok := s.Score(tt.query, entry(tt.path))
			assert.Equal(t, tt.want, ok)
			assert.Equal(t, 0, score)
		})
	}
}

func TestExactPositions(t *testing.T) {
	var s Exact
	assert.Equal(t, []int{4, 5, 6, 7}, s.Positions("MAIN", entry("src/main.go")))
	assert.Nil(t, s.Positions("zzz", entry("src/main.go")))
	assert.Nil(t, s.Positions("", entry("src/main.go")))
}

func TestForFallsBackToExactWithoutCapability(t *testing.T) {
	s := For(domain.ModeFuzzy, nil)
	assert.Equal(t, domain.ModeExact, s.Mode())

	s = For(domain.ModeFuzzy, Probe(true))
	assert.Equal(t, domain.ModeFuzzy, s.Mode())

	assert.Nil(t, Probe(false))
}

func TestSahilmFuzzySubsequence(t *testing.T) {
	capability := Probe(true)
	require.NotNil(t, capability)

	score, positions, ok := capability.ScoreFuzzy("smg", "src/main.go")
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, 0)
	assert.Len(t, positions, 3)

	_, _, ok = capability.ScoreFuzzy("xyz", "src/main.go")
	assert.False(t, ok)
}

func TestFuzzyIsDeterministic(t *testing.T) {
	s := For(domain.ModeFuzzy, Probe(true))
	a, okA := s.Score("mgo", entry("src/main.go"))
	b, okB := s.Score("mgo", entry("src/main.go"))
	assert.Equal(t, okA, okB)
	assert.Equal(t, a, b)
}

func TestFuzzyEmptyQueryMatchesAll(t *testing.T) {
	s := For(domain.ModeFuzzy, Probe(true))
	score, ok := s.Score("", entry("whatever"))
	assert.True(t, ok)
	assert.Equal(t, 0, score)
}

func TestFuzzyPrefersTighterMatches(t *testing.T) {
	s := For(domain.ModeFuzzy, Probe(true))
	tight, ok := s.Score("main", entry("main.go"))
	require.True(t, ok)
	loose, ok := s.Score("main", entry("mxaxixnx.go"))
	require.True(t, ok)
	assert.Greater(t, tight, loose)
}
