package engine

import (
	"testing"
	"time"
)

func TestRunTimer_BasicLifecycle(t *testing.T) {
	tm := NewRunTimer()
	base := time.Unix(0, 0)

	// Active at t0, read at 5s.
	tm.OnTick(true, base)
	current, total := tm.Values(base.Add(5 * time.Second))
	if current != 5*time.Second || total != 5*time.Second {
		t.Fatalf("expected 5s current & total; got current=%v total=%v", current, total)
	}

	// Deactivate at 5s; values persist.
	tm.OnTick(false, base.Add(5*time.Second))
	current, total = tm.Values(base.Add(7 * time.Second))
	if current != 5*time.Second || total != 5*time.Second {
		t.Fatalf("inactive time must not count; got current=%v total=%v", current, total)
	}

	// Second active segment 10s-13s within the same run.
	tm.OnTick(true, base.Add(10*time.Second))
	tm.OnTick(false, base.Add(13*time.Second))
	current, total = tm.Values(base.Add(13 * time.Second))
	if current != 8*time.Second || total != 8*time.Second {
		t.Fatalf("expected 8s after two segments; got current=%v total=%v", current, total)
	}
}

func TestRunTimer_ResetKeepsAccumulated(t *testing.T) {
	tm := NewRunTimer()
	base := time.Unix(0, 0)

	tm.OnTick(true, base)
	tm.OnTick(false, base.Add(4*time.Second))

	tm.Reset()
	current, total := tm.Values(base.Add(4 * time.Second))
	if current != 0 {
		t.Fatalf("reset must clear the current run, got %v", current)
	}
	if total != 4*time.Second {
		t.Fatalf("reset must keep the accumulated total, got %v", total)
	}

	// New run adds to both.
	tm.OnTick(true, base.Add(10*time.Second))
	tm.OnTick(false, base.Add(13*time.Second))
	current, total = tm.Values(base.Add(13 * time.Second))
	if current != 3*time.Second || total != 7*time.Second {
		t.Fatalf("expected current=3s total=7s; got current=%v total=%v", current, total)
	}
}

func TestRunTimer_RedundantTicks(t *testing.T) {
	tm := NewRunTimer()
	base := time.Unix(0, 0)

	// Repeated active ticks must not restart the segment.
	tm.OnTick(true, base)
	tm.OnTick(true, base.Add(2*time.Second))
	tm.OnTick(false, base.Add(5*time.Second))
	current, _ := tm.Values(base.Add(5 * time.Second))
	if current != 5*time.Second {
		t.Fatalf("expected 5s despite redundant ticks, got %v", current)
	}

	// Redundant inactive tick is a no-op.
	tm.OnTick(false, base.Add(9*time.Second))
	current, _ = tm.Values(base.Add(9 * time.Second))
	if current != 5*time.Second {
		t.Fatalf("inactive tick changed duration: %v", current)
	}
}
