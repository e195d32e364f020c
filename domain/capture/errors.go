package capture

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds marks an ROI whose mapped pixel range falls outside the
// captured image. It is a configuration problem, not a transient grab
// failure, so it is never retried.
var ErrOutOfBounds = errors.New("capture: roi outside captured image")

// Error reports a capture failure after the retry budget was exhausted.
// The engine treats it as terminal for the current run.
type Error struct {
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("capture failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
