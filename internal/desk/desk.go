// Package desk provides the display area the floating window lives on. A
// Canvas reports its size, keeps its child surfaces and their stack
// priorities, and removes children on request.
package desk

import (
	"sort"

	"github.com/atomicstack/tmux-floatdesk/internal/geom"
)

// Surface is anything drawn on a canvas with a stack priority.
type Surface interface {
	Priority() int
	SetPriority(int)
}

// Resizable surfaces are told when the canvas changes size.
type Resizable interface {
	ParentResized()
}

// Canvas is not safe for concurrent use; it belongs to the UI goroutine.
type Canvas struct {
	size     geom.Size
	children []Surface
}

func NewCanvas(width, height float64) *Canvas {
	return &Canvas{size: geom.Size{Width: width, Height: height}}
}

func (c *Canvas) Size() geom.Size {
	return c.size
}

// Ready reports whether the canvas has a usable area.
func (c *Canvas) Ready() bool {
	return c != nil && c.size.Valid()
}

// Resize updates the area and lets resizable children re-clamp themselves.
func (c *Canvas) Resize(width, height float64) {
	next := geom.Size{Width: width, Height: height}
	if next == c.size {
		return
	}
	c.size = next
	for _, child := range c.Children() {
		if r, ok := child.(Resizable); ok {
			r.ParentResized()
		}
	}
}

// Add appends s unless it is already a child.
func (c *Canvas) Add(s Surface) {
	if s == nil || c.Contains(s) {
		return
	}
	c.children = append(c.children, s)
}

// Remove drops s; unknown surfaces are ignored.
func (c *Canvas) Remove(s Surface) {
	for i, child := range c.children {
		if child == s {
			c.children = append(c.children[:i], c.children[i+1:]...)
			return
		}
	}
}

func (c *Canvas) Contains(s Surface) bool {
	for _, child := range c.children {
		if child == s {
			return true
		}
	}
	return false
}

// Children returns a copy in insertion order.
func (c *Canvas) Children() []Surface {
	if len(c.children) == 0 {
		return nil
	}
	dup := make([]Surface, len(c.children))
	copy(dup, c.children)
	return dup
}

// Siblings returns every child except s.
func (c *Canvas) Siblings(s Surface) []Surface {
	out := make([]Surface, 0, len(c.children))
	for _, child := range c.children {
		if child != s {
			out = append(out, child)
		}
	}
	return out
}

// Ordered returns children bottom to top. Equal priorities keep insertion
// order.
func (c *Canvas) Ordered() []Surface {
	out := c.Children()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority() < out[j].Priority()
	})
	return out
}
