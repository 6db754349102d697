// Package session holds the interactive search state: query, mode, the
// filtered view and the selection/scroll window over it.
//
// A Session is owned by a single goroutine (the UI loop). Every transition
// leaves the selection valid for the current filtered view.
package session

import (
	"unicode/utf8"

	"findt/internal/domain"
	"findt/internal/filter"
	"findt/internal/match"
	"findt/internal/store"
)

const (
	defaultHeight     = 10
	DefaultFuzzyGuard = 20000
)

// Options configures a new session
type Options struct {
	Capability     match.FuzzyCapability // nil disables fuzzy mode
	StartFuzzy     bool
	Query          string
	Height         int
	PreviewVisible bool
	// FuzzyGuard is the store size above which fuzzy recomputation caused by
	// discovery is deferred to the next Tick.
	FuzzyGuard int
}

// Session is the interactive state machine
type Session struct {
	store      *store.Store
	capability match.FuzzyCapability
	fuzzyGuard int

	query          string
	mode           domain.Mode
	filtered       []filter.Result
	selected       int
	offset         int
	height         int
	previewVisible bool
	discoveryDone  bool

	indexed int  // store length reflected by filtered
	stale   bool // filtered is behind the store and awaits a Tick
}

// View is a read-only rendering of the session
type View struct {
	Rows           []filter.Result
	Selected       filter.Result
	HasSelection   bool
	SelectedIndex  int // -1 when nothing matches
	Offset         int
	Height         int
	Query          string
	Mode           domain.Mode
	FuzzyAvailable bool
	DiscoveryDone  bool
	PreviewVisible bool
	Matched        int
	Total          int
}

// New creates a session over st and computes the initial view
func New(st *store.Store, opts Options) *Session {
	s := &Session{
		store:          st,
		capability:     opts.Capability,
		fuzzyGuard:     opts.FuzzyGuard,
		query:          opts.Query,
		height:         opts.Height,
		previewVisible: opts.PreviewVisible,
	}
	if s.height < 1 {
		s.height = defaultHeight
	}
	if s.fuzzyGuard <= 0 {
		s.fuzzyGuard = DefaultFuzzyGuard
	}
	if opts.StartFuzzy && s.capability != nil {
		s.mode = domain.ModeFuzzy
	}
	s.recompute()
	s.resetSelection()
	return s
}

// Submit applies one event and returns the resulting view
func (s *Session) Submit(ev Event) View {
	switch ev := ev.(type) {
	case TypeText:
		if ev.Text == "" {
			break
		}
		s.query += ev.Text
		s.requery()

	case Backspace:
		if s.query == "" {
			break
		}
		_, size := utf8.DecodeLastRuneInString(s.query)
		s.query = s.query[:len(s.query)-size]
		s.requery()

	case ClearQuery:
		s.query = ""
		s.requery()

	case Navigate:
		s.navigate(ev.Direction)

	case ToggleMode:
		if s.capability == nil {
			break
		}
		if s.mode == domain.ModeFuzzy {
			s.mode = domain.ModeExact
		} else {
			s.mode = domain.ModeFuzzy
		}
		s.requery()

	case TogglePreview:
		s.previewVisible = !s.previewVisible

	case EntriesDiscovered:
		s.absorb()

	case DiscoveryDone:
		s.discoveryDone = true
		if s.stale || s.indexed < s.store.Len() {
			s.refreshPreserving()
		}

	case Resize:
		s.height = ev.Height
		if s.height < 1 {
			s.height = 1
		}
		s.clamp()

	case Tick:
		if s.stale {
			s.refreshPreserving()
		}
	}
	return s.View()
}

// View returns the current view without changing state
func (s *Session) View() View {
	v := View{
		SelectedIndex:  s.selected,
		Offset:         s.offset,
		Height:         s.height,
		Query:          s.query,
		Mode:           s.mode,
		FuzzyAvailable: s.capability != nil,
		DiscoveryDone:  s.discoveryDone,
		PreviewVisible: s.previewVisible,
		Matched:        len(s.filtered),
		Total:          s.store.Len(),
	}
	end := s.offset + s.height
	if end > len(s.filtered) {
		end = len(s.filtered)
	}
	if s.offset < end {
		v.Rows = s.filtered[s.offset:end]
	}
	if s.selected >= 0 {
		v.Selected = s.filtered[s.selected]
		v.HasSelection = true
	}
	return v
}

// Activate returns the selected entry, if any
func (s *Session) Activate() (domain.Entry, bool) {
	if s.selected < 0 {
		return domain.Entry{}, false
	}
	return s.filtered[s.selected].Entry, true
}

// Scorer returns the scorer for the current mode
func (s *Session) Scorer() match.Scorer {
	return match.For(s.mode, s.capability)
}

// requery recomputes from the full store and resets the window
func (s *Session) requery() {
	s.recompute()
	s.resetSelection()
}

func (s *Session) recompute() {
	snap := s.store.Snapshot()
	s.filtered = filter.Recompute(snap, s.query, s.Scorer())
	s.indexed = snap.Len()
	s.stale = false
}

// absorb brings the view up to date with entries appended since the last
// recompute. Exact results are in insertion order, so new matches are
// appended in place; fuzzy results are recomputed wholesale, or deferred to
// the next Tick when the store is large.
func (s *Session) absorb() {
	snap := s.store.Snapshot()
	if snap.Len() <= s.indexed || s.stale {
		return
	}
	scorer := s.Scorer()

	if s.mode == domain.ModeExact {
		empty := len(s.filtered) == 0
		snap.Range(s.indexed, snap.Len(), func(i int, e domain.Entry) bool {
			if score, ok := scorer.Score(s.query, e); ok {
				s.filtered = append(s.filtered, filter.Result{Index: i, Entry: e, Score: score, Rank: len(s.filtered)})
			}
			return true
		})
		s.indexed = snap.Len()
		if empty && len(s.filtered) > 0 {
			s.resetSelection()
		}
		return
	}

	if !filter.Matches(snap, s.indexed, s.query, scorer) {
		s.indexed = snap.Len()
		return
	}
	if snap.Len() > s.fuzzyGuard && !s.discoveryDone {
		s.stale = true
		return
	}
	s.refreshPreserving()
}

// refreshPreserving recomputes wholesale while keeping the selected entry
// selected and on the same screen row when it still matches.
func (s *Session) refreshPreserving() {
	anchor, row := -1, 0
	if s.selected >= 0 {
		anchor = s.filtered[s.selected].Index
		row = s.selected - s.offset
	}

	s.recompute()

	if anchor < 0 {
		s.resetSelection()
		return
	}
	for i, r := range s.filtered {
		if r.Index == anchor {
			s.selected = i
			s.offset = i - row
			if s.offset < 0 {
				s.offset = 0
			}
			s.clamp()
			return
		}
	}
	s.clamp()
}

func (s *Session) resetSelection() {
	s.offset = 0
	if len(s.filtered) == 0 {
		s.selected = -1
		return
	}
	s.selected = 0
}

func (s *Session) navigate(d Direction) {
	if len(s.filtered) == 0 {
		return
	}
	page := s.height - 1
	if page < 1 {
		page = 1
	}
	switch d {
	case DirectionUp:
		s.selected--
	case DirectionDown:
		s.selected++
	case DirectionPageUp:
		s.selected -= page
	case DirectionPageDown:
		s.selected += page
	case DirectionTop:
		s.selected = 0
	case DirectionBottom:
		s.selected = len(s.filtered) - 1
	}
	s.clamp()
}

// clamp restores the selection and scroll invariants
func (s *Session) clamp() {
	n := len(s.filtered)
	if n == 0 {
		s.selected = -1
		s.offset = 0
		return
	}
	if s.selected < 0 {
		s.selected = 0
	}
	if s.selected >= n {
		s.selected = n - 1
	}

	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+s.height {
		s.offset = s.selected - s.height + 1
	}
	if maxOffset := n - s.height; s.offset > maxOffset {
		s.offset = maxOffset
	}
	if s.offset < 0 {
		s.offset = 0
	}
}
