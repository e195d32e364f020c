// Package action injects mouse and keyboard input into the desktop in
// the same absolute coordinate space the rest of the system uses.
package action

import (
	"log/slog"
	"runtime"
	"time"

	"github.com/go-vgo/robotgo"

	_ "github.com/go-vgo/robotgo/base"  // robotgo C sources
	_ "github.com/go-vgo/robotgo/key"   // robotgo C sources
	_ "github.com/go-vgo/robotgo/mouse" // robotgo C sources

	"github.com/soocke/queue-send-go/domain/geom"
)

const (
	moveSettle       = 10 * time.Millisecond
	clipboardSettle  = 20 * time.Millisecond
	pasteSettle      = 50 * time.Millisecond
	clipboardTimeout = 2 * time.Second
)

// Injector performs clicks and clipboard pastes via robotgo. Construct
// with NewInjector; the zero value is not usable.
type Injector struct {
	logger *slog.Logger
	clip   *clipboardOwner
}

// NewInjector returns an Injector with its clipboard owner thread
// started.
func NewInjector(logger *slog.Logger) *Injector {
	return &Injector{logger: logger, clip: newClipboardOwner()}
}

// Click moves the pointer to p and performs a left click.
func (in *Injector) Click(p geom.Point) {
	robotgo.Move(p.X, p.Y)
	time.Sleep(moveSettle)
	robotgo.Click("left")
	if in.logger != nil {
		in.logger.Debug("click", "x", p.X, "y", p.Y)
	}
}

// Paste transfers text into the focused application: clipboard write
// through the owning thread, then the platform paste chord. Internal
// line breaks are preserved by the clipboard transfer. The return value
// reflects only the transfer itself; whether the target accepted the
// paste is left to the caller's change detection.
func (in *Injector) Paste(text string) bool {
	if err := in.clip.Set(text, clipboardTimeout); err != nil {
		if in.logger != nil {
			in.logger.Error("clipboard write failed", "error", err, "length", len(text))
		}
		return false
	}
	time.Sleep(clipboardSettle)
	robotgo.KeyTap("v", pasteModifier())
	time.Sleep(pasteSettle)
	return true
}

func pasteModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}
