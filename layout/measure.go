package layout

import (
	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

// Measure computes a vnode's natural size under the given constraints
// without producing positions. Pure in its arguments (spec.md §4.4).
func Measure(n *vnode.Node, maxW, maxH int, axis Axis) (Size, *verror.Error) {
	if n == nil {
		return Size{}, nil
	}
	switch n.Kind {
	case vnode.KindRow, vnode.KindColumn, vnode.KindVirtualList, vnode.KindFocusZone, vnode.KindErrorBoundary:
		return measureFlex(n, maxW, maxH)
	case vnode.KindBox:
		return measureBox(n, maxW, maxH), nil
	case vnode.KindGrid:
		return measureGrid(n, maxW, maxH), nil
	case vnode.KindLayers, vnode.KindLayer:
		return measureLayers(n, maxW, maxH), nil
	default:
		return intrinsicSize(n, maxW), nil
	}
}

// Layout computes a vnode's full resolved layout tree within
// (x, y, maxW, maxH). Pure in its arguments.
func Layout(n *vnode.Node, x, y, maxW, maxH int, axis Axis) (*Tree, *verror.Error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case vnode.KindRow, vnode.KindColumn, vnode.KindVirtualList, vnode.KindFocusZone, vnode.KindErrorBoundary:
		return layoutFlex(n, x, y, maxW, maxH)
	case vnode.KindBox:
		return layoutBox(n, x, y, maxW, maxH)
	case vnode.KindGrid:
		return layoutGrid(n, x, y, maxW, maxH)
	case vnode.KindLayers, vnode.KindLayer:
		return layoutLayers(n, x, y, maxW, maxH)
	default:
		sz, verr := Measure(n, maxW, maxH, axis)
		if verr != nil {
			return nil, verr
		}
		w, h := sz.W, sz.H
		if maxW > 0 && w > maxW {
			w = maxW
		}
		if maxH > 0 && h > maxH {
			h = maxH
		}
		return &Tree{Node: n, Rect: Rect{X: x, Y: y, W: w, H: h}}, nil
	}
}
