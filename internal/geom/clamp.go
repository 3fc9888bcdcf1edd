package geom

import "math"

const (
	// HandleReserve is the vertical band kept visible above the parent's
	// bottom edge in HandleAlwaysUsable mode.
	HandleReserve = 40.0
	// MaxProtrusion is the share of the window width allowed past the left
	// parent edge in HandleAlwaysUsable mode.
	MaxProtrusion = 0.8
	// MinVisible is the share of the window width that must stay left of the
	// parent's right edge in HandleAlwaysUsable mode.
	MinVisible = 0.2
)

// Clamp adjusts candidate against a parent area of the given size. The
// boolean reports whether the returned rectangle differs from candidate.
// Only the position is ever changed.
func Clamp(candidate Rect, parent Size, mode BoundaryMode) (Rect, bool) {
	var out Rect
	switch mode {
	case HandleAlwaysUsable:
		out = clampHandle(candidate, parent)
	case ClampToParent:
		out = clampParent(candidate, parent)
	default:
		return candidate, false
	}
	return out, out != candidate
}

func clampHandle(r Rect, parent Size) Rect {
	top := math.Max(0, r.Y)
	top = math.Min(parent.Height-HandleReserve, top)

	left := math.Max(-MaxProtrusion*r.Width, r.X)
	left = math.Min(parent.Width-MinVisible*r.Width, left)

	r.X = left
	r.Y = top
	return r
}

// clampParent applies the near edge first and the far edge second, so a
// rectangle larger than the parent ends up flush with the right/bottom edge.
func clampParent(r Rect, parent Size) Rect {
	if r.X < 0 {
		r.X = 0
	}
	if r.Right() > parent.Width {
		r.X = parent.Width - r.Width
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.Bottom() > parent.Height {
		r.Y = parent.Height - r.Height
	}
	return r
}
