// Package tabs keeps the ordered list of open tabs and binds the selected
// one to the single floating window.
package tabs

import "github.com/atomicstack/tmux-floatdesk/internal/content"

// Emphasis is how a tab label is drawn.
type Emphasis int

const (
	EmphasisNormal Emphasis = iota
	EmphasisBold
)

// Tab references one hosted view. Only the Registry changes selection.
type Tab struct {
	view     content.View
	selected bool
}

func (t *Tab) Content() content.View {
	return t.view
}

func (t *Tab) Selected() bool {
	return t.selected
}

// Label is derived from the content's kind on every call.
func (t *Tab) Label() string {
	return content.KindOf(t.view)
}

func (t *Tab) Emphasis() Emphasis {
	if t.selected {
		return EmphasisBold
	}
	return EmphasisNormal
}
