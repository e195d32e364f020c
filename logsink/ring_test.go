package logsink

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
)

func entry(msg string) Entry { return Entry{Message: msg} }

func TestRing_EvictsOldestFirst(t *testing.T) {
	r := NewRing(3)
	for i := 0; i < 5; i++ {
		r.Append(entry(fmt.Sprintf("m%d", i)))
	}
	got := r.Entries()
	if len(got) != 3 {
		t.Fatalf("expected 3 retained entries, got %d", len(got))
	}
	for i, want := range []string{"m2", "m3", "m4"} {
		if got[i].Message != want {
			t.Fatalf("entry %d: expected %q, got %q", i, want, got[i].Message)
		}
	}
	if r.Len() != 3 || r.Capacity() != 3 {
		t.Fatalf("expected len=3 cap=3, got len=%d cap=%d", r.Len(), r.Capacity())
	}
}

func TestRing_PartialFillOrder(t *testing.T) {
	r := NewRing(10)
	r.Append(entry("a"))
	r.Append(entry("b"))
	got := r.Entries()
	if len(got) != 2 || got[0].Message != "a" || got[1].Message != "b" {
		t.Fatalf("expected [a b], got %v", got)
	}
}

func TestRing_DefaultCapacity(t *testing.T) {
	if NewRing(0).Capacity() != DefaultCapacity {
		t.Fatalf("non-positive capacity should select the default")
	}
}

func TestRing_ListenerNotified(t *testing.T) {
	r := NewRing(2)
	var seen []string
	r.AddListener(func(e Entry) { seen = append(seen, e.Message) })
	r.Append(entry("x"))
	r.Append(entry("y"))
	if len(seen) != 2 || seen[0] != "x" || seen[1] != "y" {
		t.Fatalf("expected listener to see [x y], got %v", seen)
	}
}

func TestHandler_AppendsRecords(t *testing.T) {
	r := NewRing(10)
	logger := slog.New(NewHandler(r, nil))

	logger.Info("hello", slog.Int("n", 7))
	logger.Warn("careful")

	got := r.Entries()
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Message != "hello" || got[0].Level != slog.LevelInfo {
		t.Fatalf("unexpected first entry: %+v", got[0])
	}
	if len(got[0].Attrs) != 1 || got[0].Attrs[0].Key != "n" {
		t.Fatalf("expected attr n on first entry, got %v", got[0].Attrs)
	}
	if got[1].Level != slog.LevelWarn {
		t.Fatalf("expected warn level, got %v", got[1].Level)
	}
}

func TestHandler_WithAttrsCarried(t *testing.T) {
	r := NewRing(10)
	logger := slog.New(NewHandler(r, nil)).With(slog.String("component", "engine"))

	logger.Info("msg", slog.Int("n", 1))

	got := r.Entries()
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	keys := map[string]bool{}
	for _, a := range got[0].Attrs {
		keys[a.Key] = true
	}
	if !keys["component"] || !keys["n"] {
		t.Fatalf("expected component and n attrs, got %v", got[0].Attrs)
	}
}

func TestHandler_EnabledWithoutDelegate(t *testing.T) {
	h := NewHandler(NewRing(1), nil)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("handler without delegate must accept all levels")
	}
}
