package geom

import "sync"

// Shape selects how a region of interest is interpreted for change
// detection: the full bounding rectangle, or the circle inscribed in it.
type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeRect:
		return "rect"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Circle is derived from a bounding rectangle as the inscribed circle:
// cx = x + w/2, cy = y + h/2, r = min(w,h)/2.
type Circle struct {
	CX, CY, R float64
}

// CircleFromRect returns the circle inscribed in r.
func CircleFromRect(r Rect) Circle {
	return Circle{
		CX: float64(r.X) + float64(r.W)/2,
		CY: float64(r.Y) + float64(r.H)/2,
		R:  float64(min(r.W, r.H)) / 2,
	}
}

// Contains reports whether (x, y) lies inside the circle.
func (c Circle) Contains(x, y float64) bool {
	dx, dy := x-c.CX, y-c.CY
	return dx*dx+dy*dy <= c.R*c.R
}

// Mask is a per-pixel filter over an ROI's local pixel grid, stored
// row-major with length W*H. A nil Mask means all pixels count.
type Mask []bool

// ROI is the screen region monitored for visual change. A circular ROI
// owns a boolean mask over its bounding rectangle's local pixel grid,
// computed once and reused for every diff against that ROI.
type ROI struct {
	Shape Shape
	Rect  Rect

	maskOnce sync.Once
	mask     Mask
}

// NewRectROI returns a rectangular ROI covering r.
func NewRectROI(r Rect) *ROI { return &ROI{Shape: ShapeRect, Rect: r} }

// NewCircleROI returns an ROI restricted to the circle inscribed in r.
func NewCircleROI(r Rect) *ROI { return &ROI{Shape: ShapeCircle, Rect: r} }

// Circle returns the inscribed circle in desktop coordinates.
func (roi *ROI) Circle() Circle { return CircleFromRect(roi.Rect) }

// Valid reports whether the bounding rectangle has positive dimensions.
func (roi *ROI) Valid() bool { return roi.Rect.Valid() }

// Mask returns the cached pixel mask for a circular ROI, or nil for a
// rectangular one. The mask is built lazily on first use and shared by
// all subsequent calls.
func (roi *ROI) Mask() Mask {
	if roi.Shape != ShapeCircle {
		return nil
	}
	roi.maskOnce.Do(func() {
		roi.mask = buildCircleMask(roi.Rect.W, roi.Rect.H)
	})
	return roi.mask
}

// buildCircleMask marks local pixel (j,i) as included iff
// (j-cx)^2 + (i-cy)^2 <= r^2, with the circle inscribed in the w x h grid.
func buildCircleMask(w, h int) Mask {
	cx := float64(w) / 2
	cy := float64(h) / 2
	r := float64(min(w, h)) / 2
	r2 := r * r

	m := make(Mask, w*h)
	for i := 0; i < h; i++ {
		dy := float64(i) - cy
		row := m[i*w : (i+1)*w]
		for j := 0; j < w; j++ {
			dx := float64(j) - cx
			row[j] = dx*dx+dy*dy <= r2
		}
	}
	return m
}
