package domain

import (
	"path"
	"strings"
	"time"
)

// Entry represents a single discovered file
type Entry struct {
	Path    string // relative to the scan root, slash separated
	Size    int64
	ModTime time.Time

	folded string
}

// NewEntry creates an entry and precomputes its case-folded path
func NewEntry(p string, size int64, modTime time.Time) Entry {
	return Entry{
		Path:    p,
		Size:    size,
		ModTime: modTime,
		folded:  strings.ToLower(p),
	}
}

// Folded returns the lower-cased path used for case-insensitive matching
func (e Entry) Folded() string {
	if e.folded == "" && e.Path != "" {
		return strings.ToLower(e.Path)
	}
	return e.folded
}

// Name returns the base name of the entry
func (e Entry) Name() string {
	return path.Base(e.Path)
}

// Dir returns the parent directory of the entry, or "" for entries at the root
func (e Entry) Dir() string {
	d := path.Dir(e.Path)
	if d == "." {
		return ""
	}
	return d
}

// Ext returns the lower-cased extension including the dot
func (e Entry) Ext() string {
	return strings.ToLower(path.Ext(e.Path))
}

// Mode is the matching strategy used by the filter
type Mode int

const (
	ModeExact Mode = iota
	ModeFuzzy
)

func (m Mode) String() string {
	switch m {
	case ModeFuzzy:
		return "Fuzzy"
	default:
		return "Exact"
	}
}
