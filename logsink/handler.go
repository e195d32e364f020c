package logsink

import (
	"context"
	"log/slog"
)

// Handler is an slog.Handler that appends every record to a Ring while
// optionally delegating to a wrapped handler, so engine code logs once
// and the ring retains the tail.
type Handler struct {
	ring  *Ring
	next  slog.Handler
	attrs []slog.Attr
}

// NewHandler wraps next (which may be nil) with ring retention.
func NewHandler(ring *Ring, next slog.Handler) *Handler {
	return &Handler{ring: ring, next: next}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.next != nil {
		return h.next.Enabled(ctx, level)
	}
	return true
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})
	h.ring.Append(Entry{Time: r.Time, Level: r.Level, Message: r.Message, Attrs: attrs})
	if h.next != nil {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)
	var next slog.Handler
	if h.next != nil {
		next = h.next.WithAttrs(attrs)
	}
	return &Handler{ring: h.ring, next: next, attrs: merged}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	var next slog.Handler
	if h.next != nil {
		next = h.next.WithGroup(name)
	}
	// Groups are flattened in the ring; only the delegate keeps them.
	return &Handler{ring: h.ring, next: next, attrs: h.attrs}
}
