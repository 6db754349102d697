package filter

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"findt/internal/domain"
	"findt/internal/match"
	"findt/internal/store"
)

func newStore(paths ...string) *store.Store {
	s := store.New()
	for _, p := range paths {
		s.Append(domain.NewEntry(p, 0, time.Time{}))
	}
	return s
}

func paths(results []Result) []string {
	out := make([]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Entry.Path)
	}
	return out
}

type fixedScorer map[string]int

func (f fixedScorer) Mode() domain.Mode { return domain.ModeFuzzy }

func (f fixedScorer) Score(_ string, e domain.Entry) (int, bool) {
	s, ok := f[e.Path]
	return s, ok
}

func TestExactRecomputeKeepsInsertionOrder(t *testing.T) {
	s := newStore("src/main.go", "README.md", "src/util_test.go", "docs/SRC.txt")

	got := Recompute(s.Snapshot(), "src", match.Exact{})
	assert.Equal(t, []string{"src/main.go", "src/util_test.go", "docs/SRC.txt"}, paths(got))
	for i, r := range got {
		assert.Equal(t, i, r.Rank)
	}
	assert.Equal(t, 2, got[1].Index)
}

func TestExactRecomputeMatchesPredicate(t *testing.T) {
	var all []string
	for i := 0; i < 3000; i++ {
		all = append(all, fmt.Sprintf("dir%d/File%d.go", i%17, i))
	}
	s := newStore(all...)

	for _, q := range []string{"", "file1", "DIR3/", "zzz", ".GO"} {
		got := Recompute(s.Snapshot(), q, match.Exact{})
		var want []string
		for _, p := range all {
			if strings.Contains(strings.ToLower(p), strings.ToLower(q)) {
				want = append(want, p)
			}
		}
		if want == nil {
			want = []string{}
		}
		assert.Equal(t, want, paths(got), "query %q", q)
	}
}

func TestRecomputeSortsDescendingStable(t *testing.T) {
	s := newStore("a", "b", "c", "d", "e")
	scorer := fixedScorer{"a": 1, "b": 5, "c": 1, "e": 5}

	got := Recompute(s.Snapshot(), "x", scorer)
	assert.Equal(t, []string{"b", "e", "a", "c"}, paths(got))
}

func TestRecomputeSeesOnlySnapshot(t *testing.T) {
	s := newStore("a1", "a2")
	snap := s.Snapshot()
	s.Append(domain.NewEntry("a3", 0, time.Time{}))

	assert.Len(t, Recompute(snap, "a", match.Exact{}), 2)
	assert.Len(t, Recompute(s.Snapshot(), "a", match.Exact{}), 3)
}

func TestRecomputeEmptyStore(t *testing.T) {
	got := Recompute(store.New().Snapshot(), "", match.Exact{})
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMatchesChecksOnlyNewRange(t *testing.T) {
	s := newStore("src/a.go", "docs/b.md")
	snap := s.Snapshot()

	assert.True(t, Matches(snap, 0, "src", match.Exact{}))
	assert.False(t, Matches(snap, 1, "src", match.Exact{}))
	assert.False(t, Matches(snap, 2, "", match.Exact{}))
}

func BenchmarkExactRecompute(b *testing.B) {
	s := store.New()
	for i := 0; i < 50000; i++ {
		s.Append(domain.NewEntry(fmt.Sprintf("pkg%d/sub%d/file_%d.go", i%100, i%7, i), 0, time.Time{}))
	}
	snap := s.Snapshot()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Recompute(snap, "sub3/file_1", match.Exact{})
	}
}
