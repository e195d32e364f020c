package geom

import "fmt"

// Point is a position in the absolute desktop coordinate space.
// Coordinates are device pixels and may be negative on multi-monitor
// setups where a secondary display sits left of or above the primary.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) String() string { return fmt.Sprintf("(%d,%d)", p.X, p.Y) }

// Rect is an axis-aligned rectangle in the absolute desktop coordinate
// space. A Rect is valid only when both dimensions are positive.
type Rect struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Right returns the exclusive right edge.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int { return r.Y + r.H }

// Valid reports whether both dimensions are positive.
func (r Rect) Valid() bool { return r.W > 0 && r.H > 0 }

// ContainsPoint reports whether p lies inside r (edges exclusive on
// the right and bottom).
func (r Rect) ContainsPoint(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

func (r Rect) String() string { return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H) }

// Bounds describes the full desktop coordinate space: the union of all
// active displays. Left/Top may be negative.
type Bounds struct {
	Left   int
	Top    int
	Width  int
	Height int
}

func (b Bounds) Right() int  { return b.Left + b.Width }
func (b Bounds) Bottom() int { return b.Top + b.Height }

// ContainsPoint reports whether p lies inside the desktop space.
func (b Bounds) ContainsPoint(p Point) bool {
	return p.X >= b.Left && p.X < b.Right() && p.Y >= b.Top && p.Y < b.Bottom()
}

// ContainsRect reports whether r lies entirely inside the desktop space.
func (b Bounds) ContainsRect(r Rect) bool {
	return r.X >= b.Left && r.Y >= b.Top && r.Right() <= b.Right() && r.Bottom() <= b.Bottom()
}

func (b Bounds) String() string {
	return fmt.Sprintf("[%d,%d %dx%d]", b.Left, b.Top, b.Width, b.Height)
}
