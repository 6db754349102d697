package session

// Event is an input to the session state machine
type Event interface {
	isEvent()
}

// Direction is a navigation direction
type Direction int

const (
	DirectionUp Direction = iota
	DirectionDown
	DirectionPageUp
	DirectionPageDown
	DirectionTop
	DirectionBottom
)

// TypeText appends text to the query
type TypeText struct {
	Text string
}

// Backspace removes the last character of the query
type Backspace struct{}

// ClearQuery empties the query
type ClearQuery struct{}

// Navigate moves the selection
type Navigate struct {
	Direction Direction
}

// ToggleMode flips between exact and fuzzy matching
type ToggleMode struct{}

// TogglePreview shows or hides the preview pane
type TogglePreview struct{}

// EntriesDiscovered signals that the store has grown
type EntriesDiscovered struct{}

// DiscoveryDone signals that no more entries will arrive
type DiscoveryDone struct{}

// Resize sets the number of visible result rows
type Resize struct {
	Height int
}

// Tick is a periodic event used to flush deferred recomputation
type Tick struct{}

func (TypeText) isEvent()          {}
func (Backspace) isEvent()         {}
func (ClearQuery) isEvent()        {}
func (Navigate) isEvent()          {}
func (ToggleMode) isEvent()        {}
func (TogglePreview) isEvent()     {}
func (EntriesDiscovered) isEvent() {}
func (DiscoveryDone) isEvent()     {}
func (Resize) isEvent()            {}
func (Tick) isEvent()              {}
