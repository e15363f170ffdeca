// Package events carries the stage-changed notifications the host
// application can hook for side effects (toasts, analytics). Events
// fire only after a transition has been confirmed by the backend,
// never for an optimistic update that later fails.
package events

import (
	"sync"
	"time"
)

// StageChanged announces a confirmed stage transition.
type StageChanged struct {
	DealID    string
	FromStage string
	ToStage   string
	At        time.Time
}

// Subscriber receives confirmed stage-change events. Subscribers run
// synchronously on the publishing goroutine and must not block.
type Subscriber func(StageChanged)

// Bus is a minimal in-process fan-out for stage-change events.
type Bus struct {
	mu   sync.Mutex
	subs []Subscriber
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a subscriber for all future events.
func (b *Bus) Subscribe(fn Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs = append(b.subs, fn)
}

// Publish delivers the event to every subscriber in registration order.
func (b *Bus) Publish(e StageChanged) {
	b.mu.Lock()
	subs := make([]Subscriber, len(b.subs))
	copy(subs, b.subs)
	b.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}
