package action

import (
	"errors"
	"runtime"
	"time"

	"github.com/go-vgo/robotgo"
)

// The system clipboard is owned by a single OS thread for the life of
// the process: some platforms tie clipboard access to the thread that
// first initializes it, and touching it concurrently from worker
// goroutines is a known source of initialization hazards. All writes go
// through a request/response hand-off to that thread with a bounded
// wait.

// ErrClipboardTimeout reports that the owning thread did not answer
// within the bounded wait.
var ErrClipboardTimeout = errors.New("action: clipboard request timed out")

type clipRequest struct {
	text string
	done chan error
}

type clipboardOwner struct {
	requests chan clipRequest
}

func newClipboardOwner() *clipboardOwner {
	c := &clipboardOwner{requests: make(chan clipRequest)}
	go c.loop()
	return c
}

func (c *clipboardOwner) loop() {
	runtime.LockOSThread()
	for req := range c.requests {
		req.done <- robotgo.WriteAll(req.text)
	}
}

// Set writes text to the clipboard through the owning thread, waiting at
// most timeout for the result.
func (c *clipboardOwner) Set(text string, timeout time.Duration) error {
	done := make(chan error, 1)
	select {
	case c.requests <- clipRequest{text: text, done: done}:
	case <-time.After(timeout):
		return ErrClipboardTimeout
	}
	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		return ErrClipboardTimeout
	}
}
