package capture

import (
	"errors"
	"image"
	"log/slog"
	"testing"

	"github.com/soocke/queue-send-go/domain/geom"
)

// dummy logger discards output
var discardLogger = slog.New(slog.NewTextHandler(&discardWriter{}, nil))

type discardWriter struct{}

func (d *discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// fakeBackend serves a fixed image at a fixed origin and can be told to
// fail the first N grabs.
type fakeBackend struct {
	img      *image.RGBA
	origin   image.Point
	failures int
	grabs    int
}

func (b *fakeBackend) GrabDesktop() (*image.RGBA, image.Point, error) {
	b.grabs++
	if b.failures > 0 {
		b.failures--
		return nil, image.Point{}, errors.New("device lost")
	}
	return b.img, b.origin, nil
}

func (b *fakeBackend) Bounds() (geom.Bounds, error) {
	r := b.img.Bounds()
	return geom.Bounds{Left: b.origin.X, Top: b.origin.Y, Width: r.Dx(), Height: r.Dy()}, nil
}

func newTestService(b *fakeBackend) (*Service, *int) {
	ctorCalls := 0
	s := NewService(func() (Backend, error) {
		ctorCalls++
		return b, nil
	}, discardLogger, withRawBackoff(0))
	return s, &ctorCalls
}

func solidImage(w, h int, r, g, b uint8) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = r
		img.Pix[i+1] = g
		img.Pix[i+2] = b
		img.Pix[i+3] = 255
	}
	return img
}

func TestCaptureFrame_CropMappingAndGrayscale(t *testing.T) {
	// Desktop origin at (100, 50): the ROI's absolute coordinates must be
	// shifted by the origin before indexing into the image.
	img := solidImage(8, 4, 0, 0, 0)
	// Mark one pixel pure red at absolute (102, 51) = local (2, 1).
	off := img.PixOffset(2, 1)
	img.Pix[off] = 255
	b := &fakeBackend{img: img, origin: image.Point{X: 100, Y: 50}}
	s, _ := newTestService(b)

	roi := geom.NewRectROI(geom.Rect{X: 102, Y: 51, W: 3, H: 2})
	f, err := s.CaptureFrame(roi)
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	defer RecycleFrame(f)

	if f.W != 3 || f.H != 2 {
		t.Fatalf("expected 3x2 frame, got %dx%d", f.W, f.H)
	}
	// (77*255)>>8 = 76 for pure red; everything else black.
	if f.Pix[0] != 76 {
		t.Fatalf("expected luma 76 at frame origin, got %d", f.Pix[0])
	}
	for i := 1; i < f.Len(); i++ {
		if f.Pix[i] != 0 {
			t.Fatalf("expected black at index %d, got %d", i, f.Pix[i])
		}
	}
}

func TestCaptureFrame_GrayscaleWeights(t *testing.T) {
	cases := []struct {
		r, g, b uint8
		want    uint8
	}{
		{255, 0, 0, 76},    // (77*255)>>8
		{0, 255, 0, 149},   // (150*255)>>8
		{0, 0, 255, 28},    // (29*255)>>8
		{255, 255, 255, 255},
	}
	for _, tc := range cases {
		b := &fakeBackend{img: solidImage(4, 4, tc.r, tc.g, tc.b)}
		s, _ := newTestService(b)
		f, err := s.CaptureFrame(geom.NewRectROI(geom.Rect{X: 0, Y: 0, W: 4, H: 4}))
		if err != nil {
			t.Fatalf("capture failed: %v", err)
		}
		if f.Pix[0] != tc.want {
			t.Fatalf("rgb(%d,%d,%d): expected luma %d, got %d", tc.r, tc.g, tc.b, tc.want, f.Pix[0])
		}
		RecycleFrame(f)
	}
}

func TestCaptureFrame_RetriesTransientFailure(t *testing.T) {
	b := &fakeBackend{img: solidImage(4, 4, 0, 0, 0), failures: 2}
	s, ctorCalls := newTestService(b)

	f, err := s.CaptureFrame(geom.NewRectROI(geom.Rect{X: 0, Y: 0, W: 2, H: 2}))
	if err != nil {
		t.Fatalf("expected success within retry budget, got %v", err)
	}
	RecycleFrame(f)
	if b.grabs != 3 {
		t.Fatalf("expected 3 grabs (2 failures + 1 success), got %d", b.grabs)
	}
	// Each failed grab discards the handle, so the third attempt must
	// have re-created it.
	if *ctorCalls != 3 {
		t.Fatalf("expected 3 backend constructions, got %d", *ctorCalls)
	}
	st := s.Stats()
	if st.Captures != 1 || st.Failures != 2 || st.Resets != 2 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestCaptureFrame_BudgetExhausted(t *testing.T) {
	b := &fakeBackend{img: solidImage(4, 4, 0, 0, 0), failures: 99}
	s, _ := newTestService(b)

	_, err := s.CaptureFrame(geom.NewRectROI(geom.Rect{X: 0, Y: 0, W: 2, H: 2}))
	if err == nil {
		t.Fatalf("expected error after exhausting budget")
	}
	var cerr *Error
	if !errors.As(err, &cerr) {
		t.Fatalf("expected *Error, got %T: %v", err, err)
	}
	if cerr.Attempts != DefaultRetryAttempts {
		t.Fatalf("expected %d attempts, got %d", DefaultRetryAttempts, cerr.Attempts)
	}
	if b.grabs != DefaultRetryAttempts {
		t.Fatalf("expected %d grabs, got %d", DefaultRetryAttempts, b.grabs)
	}
}

func TestCaptureFrame_OutOfBoundsFailsImmediately(t *testing.T) {
	b := &fakeBackend{img: solidImage(4, 4, 0, 0, 0)}
	s, _ := newTestService(b)

	_, err := s.CaptureFrame(geom.NewRectROI(geom.Rect{X: 2, Y: 2, W: 4, H: 4}))
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	// A misconfigured region is not transient; no retry may happen.
	if b.grabs != 1 {
		t.Fatalf("expected a single grab, got %d", b.grabs)
	}
}

func TestCaptureFrame_NegativeOriginMapping(t *testing.T) {
	// Secondary display left of primary: origin (-8, 0).
	img := solidImage(8, 4, 0, 0, 0)
	off := img.PixOffset(1, 2)
	img.Pix[off+1] = 255 // green at absolute (-7, 2)
	b := &fakeBackend{img: img, origin: image.Point{X: -8, Y: 0}}
	s, _ := newTestService(b)

	f, err := s.CaptureFrame(geom.NewRectROI(geom.Rect{X: -7, Y: 2, W: 1, H: 1}))
	if err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	defer RecycleFrame(f)
	if f.Pix[0] != 149 {
		t.Fatalf("expected luma 149 for green, got %d", f.Pix[0])
	}
}

func TestBounds_FromBackend(t *testing.T) {
	b := &fakeBackend{img: solidImage(8, 4, 0, 0, 0), origin: image.Point{X: -8, Y: -2}}
	s, _ := newTestService(b)
	bounds, err := s.Bounds()
	if err != nil {
		t.Fatalf("bounds failed: %v", err)
	}
	want := geom.Bounds{Left: -8, Top: -2, Width: 8, Height: 4}
	if bounds != want {
		t.Fatalf("expected %v, got %v", want, bounds)
	}
}
