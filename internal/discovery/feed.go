package discovery

import (
	"findt/internal/domain"
	"findt/internal/eventbus"
	"findt/internal/store"
)

// Feed moves discovered batches into the store and tells the UI loop about
// it. Signals coalesce: any number of appends between two reads of
// Signals produce a single notification.
type Feed struct {
	store     *store.Store
	signal    chan struct{}
	completed chan domain.ScanCompletedEvent
	errs      chan domain.ErrorEvent
	unsub     []func()
}

// NewFeed subscribes a feed to the bus
func NewFeed(bus eventbus.EventBus, st *store.Store) *Feed {
	f := &Feed{
		store:     st,
		signal:    make(chan struct{}, 1),
		completed: make(chan domain.ScanCompletedEvent, 1),
		errs:      make(chan domain.ErrorEvent, 8),
	}

	f.unsub = append(f.unsub,
		bus.Subscribe(eventbus.EventEntriesDiscovered, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.EntriesDiscoveredEvent); ok {
				f.store.Append(event.Entries...)
				f.notify()
			}
		}),
		bus.Subscribe(eventbus.EventScanCompleted, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.ScanCompletedEvent); ok {
				select {
				case f.completed <- event:
				default:
				}
			}
		}),
		bus.Subscribe(eventbus.EventError, func(e eventbus.DomainEvent) {
			if event, ok := e.(eventbus.ErrorEvent); ok {
				select {
				case f.errs <- event:
				default:
				}
			}
		}),
	)
	return f
}

func (f *Feed) notify() {
	select {
	case f.signal <- struct{}{}:
	default:
	}
}

// Signals fires after entries were appended to the store
func (f *Feed) Signals() <-chan struct{} { return f.signal }

// Completed delivers the scan completion, after its final batch was appended
func (f *Feed) Completed() <-chan domain.ScanCompletedEvent { return f.completed }

// Errors delivers discovery errors
func (f *Feed) Errors() <-chan domain.ErrorEvent { return f.errs }

// Close unsubscribes the feed from the bus
func (f *Feed) Close() {
	for _, unsubscribe := range f.unsub {
		unsubscribe()
	}
	f.unsub = nil
}
