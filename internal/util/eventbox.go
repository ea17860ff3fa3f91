package util

import "sync"

// EventType identifies a kind of event multiplexed through an EventBox.
type EventType int

// Events maps an EventType to its most recent payload. A later Set for the
// same type overwrites the previous payload — consumers only ever see the
// latest value, which is what gives query/cursor updates "latest wins"
// semantics without an unbounded queue.
type Events map[EventType]any

// EventBox coordinates a producer/consumer pair without an unbounded
// channel: producers call Set, and a single consumer blocks in Wait until
// at least one event is pending, then drains all pending events at once.
type EventBox struct {
	events Events
	cond   *sync.Cond
	ignore map[EventType]bool
}

// NewEventBox returns a ready-to-use, empty EventBox.
func NewEventBox() *EventBox {
	return &EventBox{
		events: make(Events),
		cond:   sync.NewCond(&sync.Mutex{}),
		ignore: make(map[EventType]bool),
	}
}

// Wait blocks until at least one event is pending, then invokes callback
// with the full event set under the lock. The callback is expected to call
// Clear on the events it has consumed.
func (b *EventBox) Wait(callback func(*Events)) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()

	if len(b.events) == 0 {
		b.cond.Wait()
	}
	callback(&b.events)
}

// Set records value under event and wakes any blocked Wait, unless event is
// currently on the ignore list (see Unwatch).
func (b *EventBox) Set(event EventType, value any) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()
	b.events[event] = value
	if !b.ignore[event] {
		b.cond.Broadcast()
	}
}

// Clear removes every pending event. Must be called from within a Wait
// callback; it is not safe to call on its own.
func (events *Events) Clear() {
	for event := range *events {
		delete(*events, event)
	}
}

// Peek reports whether event is currently pending, without consuming it.
func (b *EventBox) Peek(event EventType) bool {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()
	_, ok := b.events[event]
	return ok
}

// Watch re-enables wakeups for the given event types.
func (b *EventBox) Watch(events ...EventType) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()
	for _, e := range events {
		delete(b.ignore, e)
	}
}

// Unwatch suppresses wakeups for the given event types: Set will still
// record the value, but will not Broadcast for it.
func (b *EventBox) Unwatch(events ...EventType) {
	b.cond.L.Lock()
	defer b.cond.L.Unlock()
	for _, e := range events {
		b.ignore[e] = true
	}
}

// WaitFor blocks until the given event has been observed at least once.
func (b *EventBox) WaitFor(event EventType) {
	for {
		done := false
		b.Wait(func(events *Events) {
			if _, ok := (*events)[event]; ok {
				done = true
			}
		})
		if done {
			return
		}
	}
}
