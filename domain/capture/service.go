package capture

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/soocke/queue-send-go/domain/geom"
)

const (
	// DefaultRetryAttempts is the fixed retry budget for transient grab
	// failures; exhausting it is terminal for the current run.
	DefaultRetryAttempts = 3
	// DefaultRetryBackoff is the fixed interval between attempts.
	DefaultRetryBackoff = 500 * time.Millisecond
)

// Service captures grayscale ROI frames from the desktop. It owns one
// long-lived Backend handle and reuses it across every capture for the
// life of the process; acquiring a fresh OS capture handle per call has
// been seen to exhaust the graphics resource pool within a handful of
// calls under per-monitor scaling awareness. On any grab error the held
// handle is discarded and lazily re-created on the next call.
type Service struct {
	mu      sync.Mutex
	backend Backend

	newBackend func() (Backend, error)
	attempts   int
	backoff    time.Duration
	logger     *slog.Logger

	captures  atomic.Uint64
	failures  atomic.Uint64
	resets    atomic.Uint64
	grabNanos atomic.Uint64
}

// Option tunes a Service.
type Option func(*Service)

// WithRetry overrides the retry budget and backoff. Values outside the
// supported ranges are clamped: attempts >= 1, backoff 300ms-1000ms.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(s *Service) {
		if attempts >= 1 {
			s.attempts = attempts
		}
		if backoff > 0 {
			s.backoff = min(max(backoff, 300*time.Millisecond), time.Second)
		}
	}
}

// withRawBackoff bypasses the backoff clamp. Test hook.
func withRawBackoff(backoff time.Duration) Option {
	return func(s *Service) { s.backoff = backoff }
}

// NewService returns a Service that constructs its backend lazily via
// newBackend on first use and after any grab error.
func NewService(newBackend func() (Backend, error), logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		newBackend: newBackend,
		attempts:   DefaultRetryAttempts,
		backoff:    DefaultRetryBackoff,
		logger:     logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Bounds reports the desktop coordinate space covered by the backend.
func (s *Service) Bounds() (geom.Bounds, error) {
	b, err := s.handle()
	if err != nil {
		return geom.Bounds{}, err
	}
	bounds, err := b.Bounds()
	if err != nil {
		s.dropHandle()
		return geom.Bounds{}, err
	}
	return bounds, nil
}

// CaptureFrame grabs the full desktop, crops roi's bounding rectangle and
// converts it to grayscale. Transient failures are retried up to the
// budget with a fixed backoff; after that a *Error is returned. An ROI
// outside the captured image fails immediately with ErrOutOfBounds.
func (s *Service) CaptureFrame(roi *geom.ROI) (*FrameBuffer, error) {
	rect := roi.Rect
	var lastErr error

	for attempt := 1; attempt <= s.attempts; attempt++ {
		if attempt > 1 {
			time.Sleep(s.backoff)
		}

		b, err := s.handle()
		if err != nil {
			lastErr = err
			s.failures.Add(1)
			continue
		}

		start := time.Now()
		img, origin, err := b.GrabDesktop()
		if err != nil {
			lastErr = err
			s.failures.Add(1)
			s.dropHandle()
			if s.logger != nil {
				s.logger.Warn("desktop grab failed", "attempt", attempt, "error", err)
			}
			continue
		}
		s.grabNanos.Add(uint64(time.Since(start).Nanoseconds()))

		// Map the ROI into local image indices.
		x0 := rect.X - origin.X
		y0 := rect.Y - origin.Y
		ib := img.Bounds()
		if x0 < 0 || y0 < 0 || x0+rect.W > ib.Dx() || y0+rect.H > ib.Dy() {
			return nil, fmt.Errorf("%w: roi=%v origin=(%d,%d) image=%dx%d",
				ErrOutOfBounds, rect, origin.X, origin.Y, ib.Dx(), ib.Dy())
		}

		dst := acquireFrame(rect.W, rect.H)
		grayscaleCrop(img, x0, y0, rect.W, rect.H, dst)
		s.captures.Add(1)
		return dst, nil
	}

	return nil, &Error{Attempts: s.attempts, Err: lastErr}
}

// Stats returns a snapshot of the capture counters.
func (s *Service) Stats() Stats {
	captures := s.captures.Load()
	total := s.grabNanos.Load()
	var avg time.Duration
	if captures > 0 {
		avg = time.Duration(total / captures)
	}
	return Stats{
		Captures: captures,
		Failures: s.failures.Load(),
		Resets:   s.resets.Load(),
		AvgGrab:  avg,
	}
}

// handle returns the held backend, creating it if needed.
func (s *Service) handle() (Backend, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backend != nil {
		return s.backend, nil
	}
	b, err := s.newBackend()
	if err != nil {
		return nil, err
	}
	s.backend = b
	return b, nil
}

// dropHandle discards the held backend so the next call re-creates it.
func (s *Service) dropHandle() {
	s.mu.Lock()
	s.backend = nil
	s.mu.Unlock()
	s.resets.Add(1)
}
