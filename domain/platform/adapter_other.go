//go:build !windows

package platform

import "log/slog"

// Non-Windows platforms need no process-level scaling setup here; the
// capture and injection libraries work in device pixels already. The
// macOS screen-recording / accessibility prompt flow is handled outside
// this process, so authorization is assumed granted once the binary runs.

type portableAdapter struct {
	logger *slog.Logger
}

// NewAdapter returns the portable no-op adapter.
func NewAdapter(logger *slog.Logger) Adapter { return &portableAdapter{logger: logger} }

func (a *portableAdapter) SetupScalingAwareness() error { return nil }

func (a *portableAdapter) CheckPermissions() error { return nil }
