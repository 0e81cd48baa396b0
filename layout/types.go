// Package layout implements the pure measure/layout pass (spec.md
// §4.4): turning a vnode tree plus available space into a tree of
// resolved rectangles, with a cache keyed on vnode identity and
// constraints.
//
// The teacher computes layout as a mutable pass over its widget tree
// (core/layout.go's Widget.SizeUp/SizeDown/Position, all methods on a
// long-lived *WidgetBase). This package generalizes that into pure
// functions over immutable vnode.Node values, since vnodes carry no
// methods and a fresh tree arrives every frame: Measure/Layout take a
// node and constraints and return a value, the way core/layout.go's
// SizeUp computes a size before any position is known.
package layout

import (
	"fmt"

	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

// Axis selects the main axis of a flex container.
type Axis uint8

const (
	AxisRow Axis = iota
	AxisColumn
)

// Justify is the closed set of main-axis distribution modes.
type Justify uint8

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifyBetween
	JustifyEvenly
)

// Align is the closed set of cross-axis alignment modes.
type Align uint8

const (
	AlignStart Align = iota
	AlignCenter
	AlignEnd
	AlignStretch
)

// Size is a measured width/height pair in character cells.
type Size struct{ W, H int }

// Rect is a resolved rectangle in character cells. Hit-testing treats
// rects as half-open on the right and bottom (spec.md §4.5).
type Rect struct{ X, Y, W, H int }

// Contains reports whether (x, y) falls within r under the half-open
// convention.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Tree is one resolved layout node: the vnode it was computed for,
// its rect, and its laid-out children in the same order as the
// vnode's children.
type Tree struct {
	Node     *vnode.Node
	Rect     Rect
	Children []*Tree
}

// WalkDown visits t and every descendant in pre-order, matching the
// teacher's tree.WalkDown traversal convention (core/tree package);
// visit returning false skips the subtree's children.
func (t *Tree) WalkDown(visit func(*Tree) bool) {
	if t == nil {
		return
	}
	if !visit(t) {
		return
	}
	for _, c := range t.Children {
		c.WalkDown(visit)
	}
}

// Union returns the smallest rect containing both a and b, used by
// package damage to cover an instance's movement between frames
// (spec.md §4.7: "union its current rect with its previous rect").
func Union(a, b Rect) Rect {
	x0, y0 := min(a.X, b.X), min(a.Y, b.Y)
	x1, y1 := max(a.X+a.W, b.X+b.W), max(a.Y+a.H, b.Y+b.H)
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}
}

// Clip intersects r with bound, returning ok=false if they do not
// overlap at all.
func Clip(r, bound Rect) (Rect, bool) {
	x0, y0 := max(r.X, bound.X), max(r.Y, bound.Y)
	x1, y1 := min(r.X+r.W, bound.X+bound.W), min(r.Y+r.H, bound.Y+bound.H)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}, false
	}
	return Rect{X: x0, Y: y0, W: x1 - x0, H: y1 - y0}, true
}

func invalidProps(format string, args ...any) *verror.Error {
	return verror.New(verror.InvalidProps, fmt.Sprintf(format, args...))
}
