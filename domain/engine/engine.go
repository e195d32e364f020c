// Package engine drives the send run: message queue, state machine,
// pause/resume/stop discipline, and the detection loop that gates
// progression on observed screen change.
package engine

import (
	"log/slog"
	"runtime/debug"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/queue-send-go/domain/capture"
	"github.com/soocke/queue-send-go/domain/diffkit"
)

const (
	countdownTick  = 100 * time.Millisecond
	pausePoll      = 50 * time.Millisecond
	stopSlice      = 50 * time.Millisecond
	previewRunes   = 100
	eventBufferLen = 256
)

// Engine owns the run lifecycle. It runs the full loop on a dedicated
// goroutine and communicates outward only through one-way status events;
// it never calls back into a presentation layer. Only one run may be
// active at a time.
type Engine struct {
	logger *slog.Logger
	timing Timing
	frames capture.FrameSource
	input  InputInjector
	gate   PermissionGate
	space  BoundsProvider

	running   atomic.Bool
	stopFlag  atomic.Bool
	pauseFlag atomic.Bool

	mu       sync.Mutex
	state    RunState
	messages []string
	snapshot []string // set only while paused
	liveList func() []string

	events  chan any
	dropped atomic.Uint64
	timer   *RunTimer
}

// New constructs an Engine. A zero Timing selects DefaultTiming.
func New(logger *slog.Logger, timing Timing, frames capture.FrameSource, input InputInjector, gate PermissionGate, space BoundsProvider) *Engine {
	if timing == (Timing{}) {
		timing = DefaultTiming()
	}
	if timing.HoldHitsRequired <= 0 {
		timing.HoldHitsRequired = DefaultTiming().HoldHitsRequired
	}
	if timing.SampleInterval <= 0 {
		timing.SampleInterval = DefaultTiming().SampleInterval
	}
	return &Engine{
		logger: logger,
		timing: timing,
		frames: frames,
		input:  input,
		gate:   gate,
		space:  space,
		state:  StateIdle,
		events: make(chan any, eventBufferLen),
		timer:  NewRunTimer(),
	}
}

// Events returns the outward status channel. Sends are non-blocking;
// events are dropped rather than stalling the run when the consumer
// falls behind.
func (e *Engine) Events() <-chan any { return e.events }

// DroppedEvents reports how many events were discarded on a full channel.
func (e *Engine) DroppedEvents() uint64 { return e.dropped.Load() }

// State returns the current run state.
func (e *Engine) State() RunState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Running reports whether a run is active (not yet fully back to idle).
func (e *Engine) Running() bool { return e.running.Load() }

// RunDurations returns the active time of the current run and the total
// accumulated across runs, both excluding paused time.
func (e *Engine) RunDurations() (current, total time.Duration) {
	return e.timer.Values(time.Now())
}

// SetQueueSource registers a callback returning the live message list,
// used to detect edits made while the run is paused. Without one, the
// locked list stands in and no conflict can be detected.
func (e *Engine) SetQueueSource(fn func() []string) {
	e.mu.Lock()
	e.liveList = fn
	e.mu.Unlock()
}

// LockMessages returns the run's message list: input order preserved,
// whitespace-only entries removed, surviving entries byte-for-byte
// unchanged. The list is fixed once a run starts and never re-filtered.
func LockMessages(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, m := range raw {
		if strings.TrimSpace(m) == "" {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Start validates the configuration and launches the run worker. It
// fails with ErrRunActive while a previous run has not reached idle,
// with a permission error when the gate refuses, and with a
// *ValidationError on bad geometry or threshold.
func (e *Engine) Start(raw []string, calib CalibrationConfig) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrRunActive
	}
	started := false
	defer func() {
		if !started {
			e.running.Store(false)
		}
	}()

	msgs := LockMessages(raw)
	if len(msgs) == 0 {
		return ErrNoMessages
	}
	if e.gate != nil {
		if err := e.gate.CheckPermissions(); err != nil {
			return err
		}
	}
	bounds, err := e.space.Bounds()
	if err != nil {
		return err
	}
	if err := calib.Validate(bounds); err != nil {
		return err
	}

	e.stopFlag.Store(false)
	e.pauseFlag.Store(false)
	e.mu.Lock()
	e.messages = msgs
	e.snapshot = nil
	e.mu.Unlock()
	e.timer.Reset()

	started = true
	go e.run(msgs, calib)
	return nil
}

// Pause freezes the run at its next checkpoint. The worker blocks in
// place, preserving the reference frame and hit counter exactly; the
// current message list is snapshotted for conflict detection at Resume.
// Pause is ignored while idle or counting down.
func (e *Engine) Pause() {
	if !e.running.Load() {
		return
	}
	e.mu.Lock()
	switch e.state {
	case StateIdle, StateCountdown, StatePaused:
		e.mu.Unlock()
		return
	}
	if e.liveList != nil {
		e.snapshot = slices.Clone(e.liveList())
	} else {
		e.snapshot = slices.Clone(e.messages)
	}
	e.mu.Unlock()
	e.pauseFlag.Store(true)
}

// Resume continues a paused run, reusing the frozen reference frame and
// hit counter. If the message list changed since Pause the run is
// force-stopped instead: detection against a stale reference with a
// different queue would silently corrupt the result.
func (e *Engine) Resume() {
	if !e.running.Load() || !e.pauseFlag.Load() {
		return
	}
	if e.queueChanged() {
		e.logger.Warn("message list changed while paused; stopping")
		e.emit(QueueConflict{})
		e.Stop()
		return
	}
	e.clearSnapshot()
	e.pauseFlag.Store(false)
}

// Stop signals cancellation. The worker observes it at the next
// checkpoint and exits to idle without any further click, paste, or
// capture.
func (e *Engine) Stop() {
	if !e.running.Load() {
		return
	}
	e.stopFlag.Store(true)
	e.pauseFlag.Store(false)
}

func (e *Engine) run(msgs []string, calib CalibrationConfig) {
	completed := false
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("run panic", "error", r, "stack", string(debug.Stack()))
		}
		e.clearSnapshot()
		e.setState(StateIdle)
		e.emit(Finished{Completed: completed})
		e.running.Store(false)
	}()
	completed = e.process(msgs, calib)
}

// process executes the full run; it returns true only when every message
// was confirmed sent.
func (e *Engine) process(msgs []string, calib CalibrationConfig) bool {
	n := len(msgs)
	e.logger.Info("run starting",
		"messages", n,
		"roi", calib.ROI.Rect.String(),
		"shape", calib.ROI.Shape.String(),
		"input_point", calib.InputPoint.String(),
		"send_point", calib.SendPoint.String(),
		"threshold", calib.ThHold,
	)

	e.setState(StateCountdown)
	if !e.countdown(e.timing.Countdown) {
		e.logger.Info("stopped during countdown")
		return false
	}

	th := calib.ThHold
	mask := calib.ROI.Mask()

	for idx := 0; idx < n; idx++ {
		if e.stopFlag.Load() {
			return false
		}
		e.emit(Progress{Index: idx + 1, Total: n})
		e.emit(MessageStart{Index: idx + 1, Preview: preview(msgs[idx])})
		e.logger.Info("message starting", "index", idx+1, "total", n, "length", len(msgs[idx]))

		// Send sequence: focus click, clipboard paste, send click.
		// Strict order, no interleaving, no success heuristic; the diff
		// detector below is the sole gate for progression.
		e.setState(StateSending)
		if !e.checkpoint() {
			return false
		}
		e.input.Click(calib.InputPoint)
		if !e.checkpoint() {
			return false
		}
		if !e.sleepStop(e.timing.SettleDelay) {
			return false
		}
		if !e.input.Paste(msgs[idx]) {
			e.logger.Warn("paste may have failed; continuing, detection is the only gate", "index", idx+1)
		}
		if !e.checkpoint() {
			return false
		}
		if !e.sleepStop(e.timing.SettleDelay) {
			return false
		}
		e.input.Click(calib.SendPoint)
		if !e.checkpoint() {
			return false
		}

		e.setState(StateCooling)
		if !e.sleepStop(e.timing.Cooldown) {
			return false
		}
		if !e.checkpoint() {
			return false
		}

		frameT0, err := e.frames.CaptureFrame(calib.ROI)
		if err != nil {
			e.fail(err)
			return false
		}
		holdHits := 0

		e.setState(StateWaitingHold)
		confirmed := false
		for !confirmed {
			if e.stopFlag.Load() {
				capture.RecycleFrame(frameT0)
				return false
			}
			if e.pauseFlag.Load() {
				// The loop blocks in place: frameT0 and holdHits survive
				// the pause untouched.
				if !e.holdPaused() {
					capture.RecycleFrame(frameT0)
					return false
				}
			}

			frameT, err := e.frames.CaptureFrame(calib.ROI)
			if err != nil {
				capture.RecycleFrame(frameT0)
				e.fail(err)
				return false
			}
			d, derr := diffkit.Diff(frameT, frameT0, mask)
			capture.RecycleFrame(frameT)
			if derr != nil {
				capture.RecycleFrame(frameT0)
				e.fail(derr)
				return false
			}

			if d >= th {
				holdHits++
			} else {
				holdHits = 0
			}
			e.emit(Sample{Diff: d, HoldHits: holdHits})

			if holdHits >= e.timing.HoldHitsRequired {
				e.logger.Info("change confirmed", "index", idx+1, "diff", d, "hits", holdHits)
				confirmed = true
				continue
			}
			if !e.sleepStop(e.timing.SampleInterval) {
				capture.RecycleFrame(frameT0)
				return false
			}
		}
		capture.RecycleFrame(frameT0)
	}

	e.logger.Info("run complete", "messages", n)
	return true
}

// countdown emits remaining-time ticks; only Stop is honored here.
func (e *Engine) countdown(total time.Duration) bool {
	remaining := total
	for remaining > 0 {
		if e.stopFlag.Load() {
			return false
		}
		e.emit(CountdownTick{Remaining: remaining})
		step := min(countdownTick, remaining)
		time.Sleep(step)
		remaining -= step
	}
	e.emit(CountdownTick{Remaining: 0})
	return !e.stopFlag.Load()
}

// checkpoint polls the control flags. False means the run must exit
// without any further click, paste, or capture.
func (e *Engine) checkpoint() bool {
	if e.stopFlag.Load() {
		return false
	}
	if e.pauseFlag.Load() {
		return e.holdPaused()
	}
	return true
}

// holdPaused blocks until resumed or stopped. On resume it restores the
// state that was frozen at pause time; a queue conflict or stop makes it
// return false.
func (e *Engine) holdPaused() bool {
	e.mu.Lock()
	prev := e.state
	e.mu.Unlock()

	e.setState(StatePaused)
	e.logger.Info("paused", "frozen_state", prev.String())

	for e.pauseFlag.Load() {
		if e.stopFlag.Load() {
			return false
		}
		time.Sleep(pausePoll)
	}
	if e.stopFlag.Load() {
		return false
	}
	if e.queueChanged() {
		e.logger.Warn("message list changed while paused; stopping")
		e.emit(QueueConflict{})
		return false
	}
	e.clearSnapshot()
	e.logger.Info("resumed", "state", prev.String())
	e.setState(prev)
	return true
}

// sleepStop sleeps d in slices, aborting early on Stop. Returns false
// when the run must exit.
func (e *Engine) sleepStop(d time.Duration) bool {
	for d > 0 {
		if e.stopFlag.Load() {
			return false
		}
		step := min(stopSlice, d)
		time.Sleep(step)
		d -= step
	}
	return !e.stopFlag.Load()
}

func (e *Engine) queueChanged() bool {
	e.mu.Lock()
	snap := e.snapshot
	fn := e.liveList
	locked := e.messages
	e.mu.Unlock()
	if snap == nil {
		return false
	}
	live := locked
	if fn != nil {
		live = fn()
	}
	return !slices.Equal(live, snap)
}

func (e *Engine) clearSnapshot() {
	e.mu.Lock()
	e.snapshot = nil
	e.mu.Unlock()
}

func (e *Engine) setState(next RunState) {
	e.mu.Lock()
	prev := e.state
	e.state = next
	e.mu.Unlock()
	if prev == next {
		return
	}
	e.timer.OnTick(next != StateIdle && next != StatePaused, time.Now())
	e.logger.Debug("state transition", "from", prev.String(), "to", next.String())
	e.emit(StateChange{From: prev, To: next})
}

func (e *Engine) fail(err error) {
	e.logger.Error("run failed", "error", err)
	e.emit(RunError{Err: err})
}

func (e *Engine) emit(ev any) {
	select {
	case e.events <- ev:
	default:
		e.dropped.Add(1)
	}
}

func preview(msg string) string {
	r := []rune(msg)
	if len(r) <= previewRunes {
		return msg
	}
	return string(r[:previewRunes])
}
