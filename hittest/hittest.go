// Package hittest resolves a pointer coordinate to the topmost
// focusable vnode beneath it (spec.md §4.5), walking a layout.Tree in
// reverse child order so later (visually topmost, for overlapping
// z-ordered layers) nodes win ties.
//
// Grounded on the teacher's core/events.go pointer-event dispatch,
// which walks widgets back-to-front by child index to find the
// deepest widget under the cursor before bubbling the event up;
// generalized here from a live widget tree to a frozen layout.Tree.
package hittest

import (
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/vnode"
)

// focusableKinds is the closed set of kinds spec.md treats as
// interactive; everything else (text, spacer, decorative containers)
// is never a hit-test result even if its rect contains the point.
var focusableKinds = map[vnode.Kind]bool{
	vnode.KindButton:   true,
	vnode.KindInput:    true,
	vnode.KindCheckbox: true,
	vnode.KindSlider:   true,
	vnode.KindSelect:   true,
	vnode.KindTable:    true,
	vnode.KindTree:     true,
	vnode.KindCodeEditor: true,
}

// Focusable reports whether a kind can ever receive focus/hit-test
// hits.
func Focusable(k vnode.Kind) bool { return focusableKinds[k] }

// At returns the topmost focusable node whose rect contains (x, y),
// or nil if none does. Disabled widgets (props["disabled"] == true)
// are skipped, per spec.md §4.5.
func At(tree *layout.Tree, x, y int) *vnode.Node {
	return search(tree, x, y)
}

func search(t *layout.Tree, x, y int) *vnode.Node {
	if t == nil || !t.Rect.Contains(x, y) {
		return nil
	}
	// Later children draw on top of earlier ones (z-order follows
	// source order within a container, and Layers/Layer stack
	// children in the order given); search back-to-front so the
	// topmost overlapping node wins.
	for i := len(t.Children) - 1; i >= 0; i-- {
		if hit := search(t.Children[i], x, y); hit != nil {
			return hit
		}
	}
	if t.Node == nil {
		return nil
	}
	if !Focusable(t.Node.Kind) {
		return nil
	}
	if vnode.Get(t.Node, "disabled", false) {
		return nil
	}
	return t.Node
}
