// Package platform isolates per-OS process setup: display scaling
// awareness and capture/injection authorization.
package platform

import "errors"

// ErrNotAuthorized reports that the process may not capture the screen
// or inject input. A run must refuse to start in that case.
var ErrNotAuthorized = errors.New("platform: screen capture or input injection not authorized")

// Adapter is selected once at startup, one implementation per target OS.
type Adapter interface {
	// SetupScalingAwareness establishes the process scaling mode. It must
	// run before any coordinate is captured or used, and the mode stays
	// fixed for the process lifetime.
	SetupScalingAwareness() error

	// CheckPermissions reports whether the process is currently
	// authorized to capture the screen and inject input.
	CheckPermissions() error
}
