package ui

import (
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/atomicstack/tmux-floatdesk/internal/floating"
	"github.com/atomicstack/tmux-floatdesk/internal/geom"
)

// Title bar glyphs, right-aligned before the top-right corner.
const (
	tearGlyph    = "[^]"
	closeGlyph   = "[x]"
	glyphWidth   = 3
	minGlyphCols = 10
)

// cellRect is a window rectangle in screen cells relative to the desk.
type cellRect struct {
	x, y, w, h int
}

func (c cellRect) contains(col, row int) bool {
	return col >= c.x && col < c.x+c.w && row >= c.y && row < c.y+c.h
}

func (m *Model) toCells(r geom.Rect) cellRect {
	return cellRect{
		x: int(math.Floor(r.X / m.cellWidth)),
		y: int(math.Floor(r.Y / m.cellHeight)),
		w: int(math.Max(1, math.Round(r.Width/m.cellWidth))),
		h: int(math.Max(1, math.Round(r.Height/m.cellHeight))),
	}
}

// glyphColumns returns the first column of each title glyph relative to the
// window's left edge. Narrow windows have none.
func glyphColumns(width int) (tearAt, closeAt int, ok bool) {
	if width < minGlyphCols {
		return 0, 0, false
	}
	closeAt = width - 1 - glyphWidth
	tearAt = closeAt - glyphWidth
	return tearAt, closeAt, true
}

type hitZone int

const (
	hitNone hitZone = iota
	hitBody
	hitTitle
	hitTear
	hitClose
	hitResizeRight
	hitResizeBottom
	hitResizeCorner
)

// hitTest locates a desk cell on the window frame.
func (m *Model) hitTest(w *floating.Window, col, row int) hitZone {
	if w == nil || !w.Visible() || !w.OnHost() {
		return hitNone
	}
	c := m.toCells(w.Rect())
	if !c.contains(col, row) {
		return hitNone
	}
	relX, relY := col-c.x, row-c.y
	if relY == 0 {
		if tearAt, closeAt, ok := glyphColumns(c.w); ok {
			switch {
			case relX >= closeAt && relX < closeAt+glyphWidth:
				return hitClose
			case relX >= tearAt && relX < tearAt+glyphWidth:
				return hitTear
			}
		}
		return hitTitle
	}
	switch {
	case relX == c.w-1 && relY == c.h-1:
		return hitResizeCorner
	case relX == c.w-1:
		return hitResizeRight
	case relY == c.h-1:
		return hitResizeBottom
	}
	return hitBody
}

func buttonOf(b tea.MouseButton) (floating.Button, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return floating.ButtonPrimary, true
	case tea.MouseButtonRight:
		return floating.ButtonSecondary, true
	case tea.MouseButtonMiddle:
		return floating.ButtonMiddle, true
	}
	return 0, false
}

func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	switch mouse.Action {
	case tea.MouseActionPress:
		m.mousePress(mouse)
	case tea.MouseActionMotion:
		m.mouseMotion(mouse)
	case tea.MouseActionRelease:
		m.mouseRelease()
	}
	return nil
}

func (m *Model) mousePress(mouse tea.MouseMsg) {
	button, ok := buttonOf(mouse.Button)
	if !ok {
		return
	}
	if mouse.Y < stripRows {
		if button == floating.ButtonPrimary {
			m.clickTabStrip(mouse)
		}
		return
	}
	w := m.registry.Existing()
	col, row := mouse.X, mouse.Y-stripRows
	point := geom.Point{X: float64(col) * m.cellWidth, Y: float64(row) * m.cellHeight}
	hit := m.hitTest(w, col, row)
	if hit == hitNone {
		return
	}
	if hit == hitTear {
		m.tearOut(button, point)
		return
	}
	if button != floating.ButtonPrimary {
		return
	}
	switch hit {
	case hitClose:
		if v := w.Content(); v != nil {
			m.registry.CloseContent(v)
		} else {
			w.CleanupAndClose()
		}
		return
	case hitTitle:
		w.Handle(floating.Event{Kind: floating.EventActivate})
		w.Handle(floating.Event{Kind: floating.EventMoveStart, Point: point})
	case hitResizeRight:
		w.Handle(floating.Event{Kind: floating.EventResizeStart, Handle: floating.ResizeHorizontal})
	case hitResizeBottom:
		w.Handle(floating.Event{Kind: floating.EventResizeStart, Handle: floating.ResizeVertical})
	case hitResizeCorner:
		w.Handle(floating.Event{Kind: floating.EventResizeStart, Handle: floating.ResizeBoth})
	case hitBody:
		w.Handle(floating.Event{Kind: floating.EventActivate})
		return
	}
	m.pointer = pointer{active: true, x: mouse.X, y: mouse.Y}
}

func (m *Model) mouseMotion(mouse tea.MouseMsg) {
	w := m.registry.Existing()
	if !m.pointer.active || w == nil {
		return
	}
	dx := float64(mouse.X-m.pointer.x) * m.cellWidth
	dy := float64(mouse.Y-m.pointer.y) * m.cellHeight
	m.pointer.x, m.pointer.y = mouse.X, mouse.Y
	switch w.State() {
	case floating.StateMoving:
		w.Handle(floating.Event{Kind: floating.EventMoveDelta, DX: dx, DY: dy})
	case floating.StateResizing:
		w.Handle(floating.Event{Kind: floating.EventResizeDelta, DX: dx, DY: dy})
	}
}

func (m *Model) mouseRelease() {
	w := m.registry.Existing()
	if w != nil {
		switch w.State() {
		case floating.StateMoving:
			w.Handle(floating.Event{Kind: floating.EventMoveEnd})
		case floating.StateResizing:
			w.Handle(floating.Event{Kind: floating.EventResizeEnd})
		}
	}
	m.pointer = pointer{}
}

func (m *Model) clickTabStrip(mouse tea.MouseMsg) {
	tabList := m.registry.Tabs()
	for i, tab := range tabList {
		if info := m.zones.Get(m.tabZoneID(i)); info != nil && info.InBounds(mouse) {
			m.registry.SelectTab(tab)
			return
		}
	}
	// Zones are indexed asynchronously after a render; fall back to the
	// spans recorded while drawing the strip.
	for _, span := range m.spans {
		if mouse.X >= span.start && mouse.X < span.end && span.index < len(tabList) {
			m.registry.SelectTab(tabList[span.index])
			return
		}
	}
}
