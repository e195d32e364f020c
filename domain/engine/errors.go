package engine

import "errors"

var (
	// ErrRunActive is returned by Start while a previous run has not yet
	// fully reached idle. Only one run may be active at a time.
	ErrRunActive = errors.New("engine: run already active")

	// ErrNoMessages is returned by Start when the locked message list
	// is empty.
	ErrNoMessages = errors.New("engine: no messages to send")
)

// ValidationError blocks Start: invalid calibration or out-of-bounds
// coordinates.
type ValidationError struct{ Err error }

func (e *ValidationError) Error() string { return "engine: invalid configuration: " + e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }
