package geom

import (
	"fmt"
	"strings"
)

// Point is a position in logical units.
type Point struct {
	X float64
	Y float64
}

// Size is a width/height pair in logical units.
type Size struct {
	Width  float64
	Height float64
}

// Valid reports whether both dimensions are at least one unit.
func (s Size) Valid() bool {
	return s.Width >= 1 && s.Height >= 1
}

// Rect is a window rectangle anchored at its top-left corner.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Right() float64 { return r.X + r.Width }
func (r Rect) Bottom() float64 { return r.Y + r.Height }

func (r Rect) Size() Size {
	return Size{Width: r.Width, Height: r.Height}
}

func (r Rect) Origin() Point {
	return Point{X: r.X, Y: r.Y}
}

// Translate returns the rectangle shifted by dx, dy.
func (r Rect) Translate(dx, dy float64) Rect {
	r.X += dx
	r.Y += dy
	return r
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.Right() && p.Y >= r.Y && p.Y <= r.Bottom()
}

func (r Rect) String() string {
	return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height)
}

// BoundaryMode selects how a window is kept inside its parent area.
type BoundaryMode int

const (
	// Unconstrained lets the window float anywhere.
	Unconstrained BoundaryMode = iota
	// HandleAlwaysUsable allows partial off-screen placement while keeping
	// the title handle reachable.
	HandleAlwaysUsable
	// ClampToParent keeps the whole rectangle inside the parent.
	ClampToParent
)

func (m BoundaryMode) String() string {
	switch m {
	case Unconstrained:
		return "unconstrained"
	case HandleAlwaysUsable:
		return "handle"
	case ClampToParent:
		return "parent"
	default:
		return "unknown"
	}
}

// ParseBoundaryMode accepts the names produced by String plus a few aliases.
func ParseBoundaryMode(s string) (BoundaryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unconstrained", "none", "free":
		return Unconstrained, nil
	case "handle", "handle-always-usable", "":
		return HandleAlwaysUsable, nil
	case "parent", "clamp", "clamp-to-parent":
		return ClampToParent, nil
	}
	return Unconstrained, fmt.Errorf("unknown boundary mode %q", s)
}
