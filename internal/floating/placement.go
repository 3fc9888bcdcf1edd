package floating

import (
	"math"

	"github.com/atomicstack/tmux-floatdesk/internal/geom"
)

const (
	// PlacementMargin is subtracted from the available area when sizing a
	// freshly placed window.
	PlacementMargin = 120.0
	// PlacementCornerCap bounds how far from the top-left corner a centred
	// window may start.
	PlacementCornerCap = 100.0
	// CascadeStep is the per-step offset between successive form windows.
	CascadeStep = 18.0

	cascadeLength = 4
)

// DefaultPlacement sizes the window to the desired dimensions within the
// available area, centres it no further than PlacementCornerCap from the
// top-left corner and, for forms, staggers it along a four step cascade.
func (w *Window) DefaultPlacement(availableWidth, availableHeight, desiredWidth, desiredHeight float64, isForm bool) geom.Rect {
	width := math.Max(MinWidth, math.Min(desiredWidth, availableWidth-PlacementMargin))
	height := math.Max(MinHeight, math.Min(desiredHeight, availableHeight-PlacementMargin))

	left := math.Min((availableWidth-width)/2, PlacementCornerCap)
	top := math.Min((availableHeight-height)/2, PlacementCornerCap)

	if isForm {
		step := w.nextCascadeStep()
		left += float64(step) * CascadeStep
		top -= float64(step) * CascadeStep
	}

	w.rect = geom.Rect{X: left, Y: top, Width: width, Height: height}
	return w.rect
}

// nextCascadeStep cycles 1, 2, 3, 4, 1, ...
func (w *Window) nextCascadeStep() int {
	w.formCascade++
	if w.formCascade > cascadeLength {
		w.formCascade = 1
	}
	return w.formCascade
}
