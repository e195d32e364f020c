package geom

import "testing"

func TestCircleFromRect(t *testing.T) {
	c := CircleFromRect(Rect{X: 10, Y: 20, W: 40, H: 30})
	if c.CX != 30 || c.CY != 35 {
		t.Fatalf("expected center (30,35), got (%v,%v)", c.CX, c.CY)
	}
	if c.R != 15 {
		t.Fatalf("expected radius 15 (min(w,h)/2), got %v", c.R)
	}
}

func TestCircleMask_CornersExcludedCenterIncluded(t *testing.T) {
	roi := NewCircleROI(Rect{X: 0, Y: 0, W: 10, H: 10})
	m := roi.Mask()
	if len(m) != 100 {
		t.Fatalf("expected 100 mask entries, got %d", len(m))
	}
	// Corners lie outside the inscribed circle.
	for _, idx := range []int{0, 9, 90, 99} {
		if m[idx] {
			t.Fatalf("corner pixel %d should be excluded", idx)
		}
	}
	if !m[5*10+5] {
		t.Fatalf("center pixel should be included")
	}
	// Every included pixel satisfies the circle predicate exactly.
	c := Circle{CX: 5, CY: 5, R: 5}
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			want := c.Contains(float64(j), float64(i))
			if m[i*10+j] != want {
				t.Fatalf("mask mismatch at (%d,%d): got %v want %v", j, i, m[i*10+j], want)
			}
		}
	}
}

func TestCircleMask_CachedAcrossCalls(t *testing.T) {
	roi := NewCircleROI(Rect{X: 0, Y: 0, W: 4, H: 4})
	a := roi.Mask()
	b := roi.Mask()
	if &a[0] != &b[0] {
		t.Fatalf("mask should be computed once and shared")
	}
}

func TestRectROI_NoMask(t *testing.T) {
	roi := NewRectROI(Rect{X: 0, Y: 0, W: 4, H: 4})
	if roi.Mask() != nil {
		t.Fatalf("rect roi must not carry a mask")
	}
}

func TestBoundsContains(t *testing.T) {
	b := Bounds{Left: -100, Top: -50, Width: 300, Height: 200}
	if !b.ContainsPoint(Point{X: -100, Y: -50}) {
		t.Fatalf("top-left corner should be inside")
	}
	if b.ContainsPoint(Point{X: 200, Y: 0}) {
		t.Fatalf("x=200 is one past the right edge")
	}
	if !b.ContainsRect(Rect{X: -100, Y: -50, W: 300, H: 200}) {
		t.Fatalf("full-bounds rect should be inside")
	}
	if b.ContainsRect(Rect{X: 100, Y: 100, W: 101, H: 10}) {
		t.Fatalf("rect overhanging the right edge should be outside")
	}
}

func TestRectValid(t *testing.T) {
	if (Rect{W: 0, H: 5}).Valid() || (Rect{W: 5, H: -1}).Valid() {
		t.Fatalf("non-positive dimensions must be invalid")
	}
	if !(Rect{W: 1, H: 1}).Valid() {
		t.Fatalf("1x1 rect must be valid")
	}
}
