// Package logsink keeps the most recent log events in a bounded ring so
// a consumer can show run history without unbounded memory growth.
package logsink

import (
	"log/slog"
	"sync"
	"time"
)

// DefaultCapacity is the ring size when none is configured.
const DefaultCapacity = 200

// Entry is one retained log event.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   []slog.Attr
}

// Ring is a thread-safe bounded buffer of log entries; when full, the
// oldest entry is evicted first.
type Ring struct {
	mu        sync.Mutex
	buf       []Entry
	next      int
	full      bool
	listeners []func(Entry)
}

// NewRing returns a ring holding up to capacity entries; a
// non-positive capacity selects DefaultCapacity.
func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]Entry, capacity)}
}

// Append stores e, evicting the oldest entry when full, and notifies
// listeners outside the lock.
func (r *Ring) Append(e Entry) {
	r.mu.Lock()
	r.buf[r.next] = e
	r.next++
	if r.next == len(r.buf) {
		r.next = 0
		r.full = true
	}
	listeners := r.listeners
	r.mu.Unlock()

	for _, l := range listeners {
		l(e)
	}
}

// Entries returns the retained entries, oldest first.
func (r *Ring) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.full {
		out := make([]Entry, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]Entry, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}

// Len returns the number of retained entries.
func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full {
		return len(r.buf)
	}
	return r.next
}

// Capacity returns the maximum number of retained entries.
func (r *Ring) Capacity() int { return len(r.buf) }

// AddListener registers a callback invoked for every appended entry.
// Listener errors must not panic; they run on the appender's goroutine.
func (r *Ring) AddListener(fn func(Entry)) {
	r.mu.Lock()
	r.listeners = append(r.listeners, fn)
	r.mu.Unlock()
}
