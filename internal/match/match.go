// Package match decides whether an entry matches a query and how well.
package match

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"findt/internal/domain"
)

// Scorer scores a single entry against a query. ok is false when the entry
// does not match. Scores are comparable only within one scorer.
type Scorer interface {
	Score(query string, e domain.Entry) (score int, ok bool)
	Mode() domain.Mode
}

// Highlighter is implemented by scorers that can report which bytes of the
// path matched, for rendering.
type Highlighter interface {
	Positions(query string, e domain.Entry) []int
}

// FuzzyCapability is an optional subsequence scorer bound at startup.
// Implementations must be deterministic and return non-negative scores.
type FuzzyCapability interface {
	ScoreFuzzy(query, path string) (score int, positions []int, ok bool)
}

// Exact matches entries whose path contains the query, ignoring case.
// Every match scores 0; the empty query matches everything.
type Exact struct{}

func (Exact) Mode() domain.Mode { return domain.ModeExact }

func (Exact) Score(query string, e domain.Entry) (int, bool) {
	if query == "" {
		return 0, true
	}
	return 0, strings.Contains(e.Folded(), strings.ToLower(query))
}

// Positions returns the byte offsets of the first case-insensitive occurrence
func (Exact) Positions(query string, e domain.Entry) []int {
	if query == "" {
		return nil
	}
	// ToLower keeps byte offsets for ASCII paths; fall back to none otherwise
	folded := e.Folded()
	if len(folded) != len(e.Path) {
		return nil
	}
	at := strings.Index(folded, strings.ToLower(query))
	if at < 0 {
		return nil
	}
	q := strings.ToLower(query)
	out := make([]int, len(q))
	for i := range out {
		out[i] = at + i
	}
	return out
}

// Fuzzy adapts a FuzzyCapability to the Scorer interface
type Fuzzy struct {
	Capability FuzzyCapability
}

func (Fuzzy) Mode() domain.Mode { return domain.ModeFuzzy }

func (f Fuzzy) Score(query string, e domain.Entry) (int, bool) {
	if query == "" {
		return 0, true
	}
	score, _, ok := f.Capability.ScoreFuzzy(query, e.Path)
	return score, ok
}

func (f Fuzzy) Positions(query string, e domain.Entry) []int {
	if query == "" {
		return nil
	}
	_, positions, _ := f.Capability.ScoreFuzzy(query, e.Path)
	return positions
}

// For returns the scorer for mode. Fuzzy without a capability degrades to Exact.
func For(mode domain.Mode, capability FuzzyCapability) Scorer {
	if mode == domain.ModeFuzzy && capability != nil {
		return Fuzzy{Capability: capability}
	}
	return Exact{}
}

// Probe binds the fuzzy capability. It returns nil when fuzzy matching is disabled.
func Probe(enabled bool) FuzzyCapability {
	if !enabled {
		return nil
	}
	return SahilmFuzzy{}
}

// SahilmFuzzy scores with github.com/sahilm/fuzzy
type SahilmFuzzy struct{}

func (SahilmFuzzy) ScoreFuzzy(query, path string) (int, []int, bool) {
	matches := fuzzy.FindNoSort(query, []string{path})
	if len(matches) == 0 {
		return 0, nil, false
	}
	m := matches[0]
	score := m.Score
	if score < 0 {
		score = 0
	}
	return score, m.MatchedIndexes, true
}
