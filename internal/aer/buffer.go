// Package aer carries spike traffic across the controller boundary as
// address events: grid coordinates plus a timestamp, queued in bounded
// circular buffers. Sensor frames encode into spike trains on the way
// in; actuator values decode from spike counts on the way out.
package aer

// Event is one address-event.
type Event struct {
	X, Y      uint8
	Timestamp uint16
}

// DefaultCapacity is the standard buffer allocation. One slot always
// stays empty to tell a full buffer from an empty one, so the usable
// depth is one less.
const DefaultCapacity = 56

// Buffer is a bounded FIFO of events.
type Buffer struct {
	events []Event
	head   int
	tail   int
}

// NewBuffer allocates a buffer; a non-positive capacity falls back to
// the default.
func NewBuffer(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{events: make([]Event, capacity)}
}

// Push appends an event, reporting false when the buffer is full.
func (b *Buffer) Push(e Event) bool {
	next := (b.head + 1) % len(b.events)
	if next == b.tail {
		return false
	}
	b.events[b.head] = e
	b.head = next
	return true
}

// Pop removes the oldest event.
func (b *Buffer) Pop() (Event, bool) {
	if b.tail == b.head {
		return Event{}, false
	}
	e := b.events[b.tail]
	b.tail = (b.tail + 1) % len(b.events)
	return e, true
}

// Len returns the number of queued events.
func (b *Buffer) Len() int {
	d := b.head - b.tail
	if d < 0 {
		d += len(b.events)
	}
	return d
}

// Cap returns the usable depth.
func (b *Buffer) Cap() int {
	return len(b.events) - 1
}

// Count tallies the queued events addressed to (x,y) without consuming
// them.
func (b *Buffer) Count(x, y uint8) int {
	n := 0
	for i := b.tail; i != b.head; i = (i + 1) % len(b.events) {
		if b.events[i].X == x && b.events[i].Y == y {
			n++
		}
	}
	return n
}

// Reset discards all queued events.
func (b *Buffer) Reset() {
	b.head, b.tail = 0, 0
}
