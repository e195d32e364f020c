package capture

import (
	"errors"
	"image"

	"github.com/kbinani/screenshot"

	"github.com/soocke/queue-send-go/domain/geom"
)

// DesktopBackend grabs the union of all active displays through the
// kbinani screenshot library. The display layout is resolved once at
// construction; the Service re-constructs the backend after a grab error
// so layout changes (monitor plug/unplug) are picked up lazily.
type DesktopBackend struct {
	union image.Rectangle
}

// NewDesktopBackend enumerates the active displays and returns a backend
// covering their union.
func NewDesktopBackend() (Backend, error) {
	n := screenshot.NumActiveDisplays()
	if n == 0 {
		return nil, errors.New("capture: no active displays")
	}
	union := screenshot.GetDisplayBounds(0)
	for i := 1; i < n; i++ {
		union = union.Union(screenshot.GetDisplayBounds(i))
	}
	return &DesktopBackend{union: union}, nil
}

// GrabDesktop captures the full virtual desktop and returns the image
// with its desktop-space origin.
func (b *DesktopBackend) GrabDesktop() (*image.RGBA, image.Point, error) {
	img, err := screenshot.CaptureRect(b.union)
	if err != nil {
		return nil, image.Point{}, err
	}
	return img, b.union.Min, nil
}

// Bounds returns the virtual desktop rectangle as coordinate-space bounds.
func (b *DesktopBackend) Bounds() (geom.Bounds, error) {
	return geom.Bounds{
		Left:   b.union.Min.X,
		Top:    b.union.Min.Y,
		Width:  b.union.Dx(),
		Height: b.union.Dy(),
	}, nil
}
