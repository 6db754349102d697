// Package filter computes the ranked subset of the store matching a query.
package filter

import (
	"sort"

	"findt/internal/domain"
	"findt/internal/match"
	"findt/internal/store"
)

// Result is one entry of the filtered view
type Result struct {
	Index int // position in the store
	Entry domain.Entry
	Score int
	Rank  int
}

// Recompute scores every entry of the snapshot and returns the matches
// ordered by descending score. Ties keep insertion order.
func Recompute(snap store.Snapshot, query string, scorer match.Scorer) []Result {
	results := make([]Result, 0, estimate(snap.Len(), query))
	uniform := true
	snap.Range(0, snap.Len(), func(i int, e domain.Entry) bool {
		score, ok := scorer.Score(query, e)
		if !ok {
			return true
		}
		if len(results) > 0 && score != results[0].Score {
			uniform = false
		}
		results = append(results, Result{Index: i, Entry: e, Score: score})
		return true
	})

	if !uniform {
		sort.SliceStable(results, func(a, b int) bool {
			return results[a].Score > results[b].Score
		})
	}
	for i := range results {
		results[i].Rank = i
	}
	return results
}

// Matches reports whether any entry in [from, snap.Len()) matches the query
func Matches(snap store.Snapshot, from int, query string, scorer match.Scorer) bool {
	found := false
	snap.Range(from, snap.Len(), func(_ int, e domain.Entry) bool {
		_, found = scorer.Score(query, e)
		return !found
	})
	return found
}

func estimate(n int, query string) int {
	if query == "" {
		return n
	}
	if n > 256 {
		return 256
	}
	return n
}
