package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventEntriesDiscovered EventType = "EntriesDiscovered"
	EventScanStarted       EventType = "ScanStarted"
	EventScanCompleted     EventType = "ScanCompleted"
	EventError             EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// EntriesDiscoveredEvent carries a batch of files found by discovery
type EntriesDiscoveredEvent struct {
	Entries []Entry
}

func (e EntriesDiscoveredEvent) Type() EventType { return EventEntriesDiscovered }

// ScanStartedEvent is emitted when discovery begins
type ScanStartedEvent struct {
	Root   string
	Source string // "walk" or "git"
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// ScanCompletedEvent is emitted once discovery has published its last batch.
// Err is set when the scan stopped early for a reason other than cancellation.
type ScanCompletedEvent struct {
	Root       string
	FilesFound int
	Err        error
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }
