package layout

import (
	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

// layoutLayers stacks every child (each a layer) across the full
// rect in z-order; spec.md §4.4 lists layers/layer purely for
// z-ordered overlays, with no independent positioning per layer.
func layoutLayers(n *vnode.Node, x, y, maxW, maxH int) (*Tree, *verror.Error) {
	children := make([]*Tree, 0, len(n.Children))
	for _, c := range n.Children {
		sub, verr := Layout(c, x, y, maxW, maxH, axisOf(c.Kind))
		if verr != nil {
			return nil, verr
		}
		children = append(children, sub)
	}
	return &Tree{Node: n, Rect: Rect{X: x, Y: y, W: maxW, H: maxH}, Children: children}, nil
}

func measureLayers(n *vnode.Node, maxW, maxH int) Size {
	return Size{W: maxW, H: maxH}
}
