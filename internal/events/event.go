// Package events provides small typed pub/sub primitives used by the
// timer model to fan state changes out to views without coupling them.
package events

import "sync"

// Event is a broadcast primitive. Subscribers receive every value passed
// to Notify on their own buffered channel; sends never block, a subscriber
// that falls behind simply misses intermediate values.
// T is the type of the value delivered to subscribers.
type Event[T any] struct {
	mu          sync.Mutex
	subscribers map[uint64]chan T
	nextID      uint64
	replayLast  bool
	last        *T
	closed      bool
}

// NewEvent creates an Event. When replayLast is true, each new subscriber
// immediately receives the most recently notified value (if any), so late
// attaching views render current state without waiting for the next change.
func NewEvent[T any](replayLast bool) *Event[T] {
	return &Event[T]{
		subscribers: make(map[uint64]chan T),
		replayLast:  replayLast,
	}
}

// Subscribe registers a new subscriber and returns its receive channel
// together with an unsubscribe function. The channel is closed on
// unsubscribe and when the event itself is closed.
func (e *Event[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, 1)

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := e.nextID
	e.nextID++
	e.subscribers[id] = ch
	if e.replayLast && e.last != nil {
		// Buffer is empty at this point, the send cannot block.
		ch <- *e.last
	}
	e.mu.Unlock()

	return ch, func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		if sub, ok := e.subscribers[id]; ok {
			delete(e.subscribers, id)
			close(sub)
		}
	}
}

// Notify delivers value to every current subscriber without blocking.
// A full subscriber buffer is drained of its stale value first, so each
// subscriber always ends up holding the latest notification.
func (e *Event[T]) Notify(value T) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	if e.replayLast {
		if e.last == nil {
			e.last = new(T)
		}
		*e.last = value
	}
	for _, ch := range e.subscribers {
		select {
		case ch <- value:
		default:
			// Replace the stale buffered value with the current one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- value:
			default:
			}
		}
	}
}

// Close tears the event down: every subscriber channel is closed and
// further Notify and Subscribe calls become no-ops. Safe to call twice.
func (e *Event[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.closed = true
	for id, ch := range e.subscribers {
		delete(e.subscribers, id)
		close(ch)
	}
}

// SubscriberCount returns the number of active subscribers. Used by tests.
func (e *Event[T]) SubscriberCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.subscribers)
}
