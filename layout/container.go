package layout

import (
	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

// layoutFlex lays out a row/column container's children into the
// rect (x, y, maxW, maxH), applying wrap, justify, align, explicit
// width/height overrides, and flex-weight remainder distribution
// (spec.md §4.4).
func layoutFlex(n *vnode.Node, x, y, maxW, maxH int) (*Tree, *verror.Error) {
	gap, wrap, justify, align, verr := flexProps(n)
	if verr != nil {
		return nil, verr
	}
	axis := axisOf(n.Kind)
	maxMain, maxCross := mainCross(axis, maxW, maxH)

	flexChildren := make([]flexChild, 0, len(n.Children))
	for _, c := range n.Children {
		var cw, ch int
		if axis == AxisRow {
			cw, ch = maxMain, maxCross
		} else {
			cw, ch = maxCross, maxMain
		}
		sz, verr := Measure(c, cw, ch, axisOf(c.Kind))
		if verr != nil {
			return nil, verr
		}
		natMain, natCross := mainCross(axis, sz.W, sz.H)

		mainSize := natMain
		crossSize := natCross
		if axis == AxisRow {
			if w, ok := sizeSpec(c, "width", maxMain); ok {
				mainSize = w
			}
			if h, ok := sizeSpec(c, "height", maxCross); ok {
				crossSize = h
			}
		} else {
			if h, ok := sizeSpec(c, "height", maxMain); ok {
				mainSize = h
			}
			if w, ok := sizeSpec(c, "width", maxCross); ok {
				crossSize = w
			}
		}
		flexChildren = append(flexChildren, flexChild{
			node:      c,
			mainSize:  mainSize,
			crossSize: crossSize,
			flex:      propFloat(c, "flex", 0),
		})
	}

	lines := splitIntoLines(flexChildren, wrap, gap, maxMain)

	mainOrigin, crossOrigin := y, x
	if axis == AxisRow {
		mainOrigin, crossOrigin = x, y
	}

	children := make([]*Tree, 0, len(n.Children))
	crossPos := crossOrigin
	for _, line := range lines {
		lineCross := 0
		for _, c := range line {
			if c.crossSize > lineCross {
				lineCross = c.crossSize
			}
		}
		crossAvail := lineCross
		if len(lines) == 1 {
			crossAvail = maxCross
		}
		rects := layoutFlexLine(line, axis, maxMain, crossAvail, gap, justify, align, mainOrigin, crossPos)
		for i, r := range rects {
			sub, verr := Layout(line[i].node, r.X, r.Y, r.W, r.H, axisOf(line[i].node.Kind))
			if verr != nil {
				return nil, verr
			}
			sub.Rect = r
			children = append(children, sub)
		}
		crossPos += lineCross + gap
	}

	return &Tree{Node: n, Rect: Rect{X: x, Y: y, W: maxW, H: maxH}, Children: children}, nil
}

func splitIntoLines(children []flexChild, wrap bool, gap, maxMain int) [][]flexChild {
	if !wrap || len(children) == 0 {
		return [][]flexChild{children}
	}
	var lines [][]flexChild
	var cur []flexChild
	used := 0
	for _, c := range children {
		need := c.mainSize
		if len(cur) > 0 {
			need += gap
		}
		if len(cur) > 0 && used+need > maxMain {
			lines = append(lines, cur)
			cur = nil
			used = 0
			need = c.mainSize
		}
		cur = append(cur, c)
		used += need
	}
	if len(cur) > 0 {
		lines = append(lines, cur)
	}
	return lines
}
