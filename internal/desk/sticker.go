package desk

import (
	"github.com/atomicstack/tmux-floatdesk/internal/content"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
)

// Sticker is a fixed-position surface showing a view, pinned to a corner of
// the canvas.
type Sticker struct {
	View     content.View
	Rect     geom.Rect
	priority int
}

func NewSticker(view content.View, rect geom.Rect) *Sticker {
	return &Sticker{View: view, Rect: rect}
}

func (s *Sticker) Priority() int { return s.priority }
func (s *Sticker) SetPriority(p int) { s.priority = p }
