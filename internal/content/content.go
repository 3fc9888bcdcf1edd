// Package content defines the contract for views hosted by the floating
// window, plus the small views the shell ships with.
//
// Views are compared by identity, so implementations must be pointer types.
// A view may be attached, detached and reattached any number of times; only
// Dispose ends its life.
package content

import (
	"reflect"
	"strings"
)

// View renders itself into a box of the given cell dimensions.
type View interface {
	Render(width, height int) string
}

// Kinded lets a view override the label derived from its type name.
type Kinded interface {
	Kind() string
}

// Attacher is notified when a view is placed into a window. A returned error
// (or a panic) leaves the window empty.
type Attacher interface {
	Attach() error
}

// Detacher is notified when a view is taken out of a window.
type Detacher interface {
	Detach()
}

// Disposer releases resources once the owning tab is gone for good.
type Disposer interface {
	Dispose()
}

// KindOf returns the runtime kind of v, used as its tab label.
func KindOf(v View) string {
	if v == nil {
		return ""
	}
	if k, ok := v.(Kinded); ok {
		if kind := strings.TrimSpace(k.Kind()); kind != "" {
			return kind
		}
	}
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}

// Same reports whether a and b are the same view instance.
func Same(a, b View) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
