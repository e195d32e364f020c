package engine

import (
	"time"

	"github.com/soocke/queue-send-go/domain/geom"
)

// RunState enumerates the finite states of a send run.
type RunState int

const (
	StateIdle RunState = iota
	StateCountdown
	StateSending
	StateCooling
	StateWaitingHold
	StatePaused
)

func (s RunState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCountdown:
		return "countdown"
	case StateSending:
		return "sending"
	case StateCooling:
		return "cooling"
	case StateWaitingHold:
		return "waiting-hold"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// InputInjector performs the two input operations of the send sequence.
// It must operate in the same absolute coordinate space as geom.Point.
// Paste transfers text through a clipboard-like channel preserving
// internal line breaks; its return value only reflects the transfer, not
// whether the target accepted it.
type InputInjector interface {
	Click(p geom.Point)
	Paste(text string) bool
}

// PermissionGate reports whether the process is authorized to capture
// the screen and inject input. A run refuses to start otherwise.
type PermissionGate interface {
	CheckPermissions() error
}

// BoundsProvider reports the absolute desktop coordinate space, used to
// validate points and the ROI before a run starts.
type BoundsProvider interface {
	Bounds() (geom.Bounds, error)
}

// Timing carries the pacing knobs of a run.
type Timing struct {
	Countdown        time.Duration // delay after Start before the first send
	Cooldown         time.Duration // wait after the send click before capturing the reference frame
	SampleInterval   time.Duration // spacing of detection samples
	SettleDelay      time.Duration // pause after the focus click and after paste
	HoldHitsRequired int           // consecutive positive samples to confirm a change
}

// DefaultTiming returns the standard pacing: 2s countdown, 1s cooldown,
// 1Hz sampling, two consecutive hits.
func DefaultTiming() Timing {
	return Timing{
		Countdown:        2 * time.Second,
		Cooldown:         time.Second,
		SampleInterval:   time.Second,
		SettleDelay:      100 * time.Millisecond,
		HoldHitsRequired: 2,
	}
}

// Status events emitted on the engine's outward channel. Consumers
// receive them one-way; the engine never blocks on a slow consumer.
type (
	// StateChange reports a state machine transition.
	StateChange struct{ From, To RunState }
	// CountdownTick reports the remaining countdown time.
	CountdownTick struct{ Remaining time.Duration }
	// Progress reports the 1-based message position.
	Progress struct{ Index, Total int }
	// MessageStart reports that a message's send sequence began.
	MessageStart struct {
		Index   int
		Preview string
	}
	// Sample reports one detection tick.
	Sample struct {
		Diff     float64
		HoldHits int
	}
	// RunError reports a fatal engine-level error; the run ends in Idle.
	RunError struct{ Err error }
	// QueueConflict reports that the message list changed while paused;
	// the run is force-stopped rather than resumed against a stale
	// reference frame.
	QueueConflict struct{}
	// Finished reports the end of a run. Completed is true only when
	// every message was confirmed sent.
	Finished struct{ Completed bool }
)
