package ui

import (
	"time"

	"findt/internal/clipboard"
	"findt/internal/eventbus"
	"findt/internal/preview"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// EntriesArrivedMsg tells the UI that the store has grown
type EntriesArrivedMsg struct{}

// tickMsg is sent on a timer to flush deferred recomputation
type tickMsg time.Time

// previewMsg contains the result of loading a preview
type previewMsg struct {
	path    string
	preview preview.Preview
	err     error
}

type copyKind int

const (
	copyPath copyKind = iota
	copyContent
)

// copyMsg contains the result of a clipboard operation
type copyMsg struct {
	kind   copyKind
	path   string
	method clipboard.Method
	err    error
}

// pagerMsg contains the result of running the pager
type pagerMsg struct {
	err error
}

// statusClearMsg expires a status message
type statusClearMsg struct {
	seq int
}
