package notify

import (
	"context"
	"sync"
)

// RingSink keeps the most recent unlock events in memory so the API can
// serve them to the presentation layer.
type RingSink struct {
	mu     sync.Mutex
	events []Event
	limit  int
}

// NewRingSink creates a sink retaining up to limit events.
func NewRingSink(limit int) *RingSink {
	if limit <= 0 {
		limit = 50
	}
	return &RingSink{limit: limit}
}

// Notify implements Sink.
func (r *RingSink) Notify(ctx context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
	if len(r.events) > r.limit {
		r.events = r.events[len(r.events)-r.limit:]
	}
}

// Recent returns the retained events, newest last.
func (r *RingSink) Recent() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}
