package capture

import (
	"image"
	"time"

	"github.com/soocke/queue-send-go/domain/geom"
)

// FrameBuffer is an 8-bit grayscale intensity buffer local to an ROI's
// bounding rectangle. It carries no desktop offset; index (0,0) is the
// ROI's top-left pixel.
type FrameBuffer struct {
	W, H int
	Pix  []uint8 // row-major, length W*H
}

// Len returns the pixel count.
func (f *FrameBuffer) Len() int { return f.W * f.H }

// Clone returns an independent copy of the buffer.
func (f *FrameBuffer) Clone() *FrameBuffer {
	out := &FrameBuffer{W: f.W, H: f.H, Pix: make([]uint8, len(f.Pix))}
	copy(out.Pix, f.Pix)
	return out
}

// Backend acquires full-desktop images. GrabDesktop returns the image
// together with the desktop-space position of its top-left pixel, so
// callers can map absolute coordinates into image indices. Backends must
// tolerate being called at the run's sampling rate for the run's entire
// duration.
type Backend interface {
	GrabDesktop() (*image.RGBA, image.Point, error)
	Bounds() (geom.Bounds, error)
}

// FrameSource produces grayscale ROI frames. Implemented by Service and
// by test fakes.
type FrameSource interface {
	CaptureFrame(roi *geom.ROI) (*FrameBuffer, error)
}

// Stats summarises capture behaviour for instrumentation.
type Stats struct {
	Captures uint64
	Failures uint64
	Resets   uint64
	AvgGrab  time.Duration
}
