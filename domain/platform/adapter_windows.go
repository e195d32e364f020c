//go:build windows

package platform

import (
	"fmt"
	"log/slog"

	"golang.org/x/sys/windows"
)

// Per-monitor-v2 DPI awareness keeps every coordinate in device pixels
// regardless of display scaling. Without it the desktop is reported in
// scaled units and every stored point drifts.

const (
	dpiAwarenessContextPerMonitorAwareV2 = ^uintptr(3) // (DPI_AWARENESS_CONTEXT)-4
	processPerMonitorDpiAware            = 2
)

var (
	modUser32                           = windows.NewLazySystemDLL("user32.dll")
	modShcore                           = windows.NewLazySystemDLL("shcore.dll")
	procSetProcessDpiAwarenessContext   = modUser32.NewProc("SetProcessDpiAwarenessContext")
	procSetProcessDpiAwareness          = modShcore.NewProc("SetProcessDpiAwareness")
)

type windowsAdapter struct {
	logger *slog.Logger
}

// NewAdapter returns the Windows platform adapter.
func NewAdapter(logger *slog.Logger) Adapter { return &windowsAdapter{logger: logger} }

// SetupScalingAwareness sets per-monitor-v2 DPI awareness, falling back
// to the older shcore API on systems that predate it. ERROR_ACCESS_DENIED
// means the mode was already set (manifest or a prior call) and is fine.
func (a *windowsAdapter) SetupScalingAwareness() error {
	if procSetProcessDpiAwarenessContext.Find() == nil {
		r1, _, err := procSetProcessDpiAwarenessContext.Call(dpiAwarenessContextPerMonitorAwareV2)
		if r1 != 0 {
			return nil
		}
		if err == windows.ERROR_ACCESS_DENIED {
			return nil
		}
	}
	if procSetProcessDpiAwareness.Find() == nil {
		hr, _, _ := procSetProcessDpiAwareness.Call(processPerMonitorDpiAware)
		if int32(hr) >= 0 { // S_OK or already set
			return nil
		}
		return fmt.Errorf("platform: SetProcessDpiAwareness failed: hr=%#x", uint32(hr))
	}
	return fmt.Errorf("platform: no DPI awareness API available")
}

// CheckPermissions reports authorization. Windows grants screen capture
// and input synthesis to interactive desktop processes without a
// dedicated permission, so this only verifies the injection API is
// reachable.
func (a *windowsAdapter) CheckPermissions() error {
	if err := modUser32.Load(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotAuthorized, err)
	}
	return nil
}
