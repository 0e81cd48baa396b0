package layout

import (
	"github.com/vterm/vterm/styles"
	"github.com/vterm/vterm/textwidth"
	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

func boxBorder(n *vnode.Node) styles.BorderKind {
	switch propString(n, "border", "none") {
	case "single":
		return styles.BorderSingle
	case "double":
		return styles.BorderDouble
	case "rounded":
		return styles.BorderRounded
	case "heavy":
		return styles.BorderHeavy
	case "dashed":
		return styles.BorderDashed
	case "heavyDashed":
		return styles.BorderHeavyDashed
	default:
		return styles.BorderNone
	}
}

// boxInset returns the cells a box's border and padding consume on
// each side: one cell per present border side (spec.md §4.4), plus
// the padding prop (uniform int, or 0).
func boxInset(n *vnode.Node) (top, right, bottom, left int) {
	pad := propInt(n, "padding", 0)
	border := 0
	if boxBorder(n) != styles.BorderNone {
		border = 1
	}
	return border + pad, border + pad, border + pad, border + pad
}

// TruncateTitle applies spec.md §4.4's middle-ellipsis rule: when a
// box's title is wider than the available top-border cells (border
// width minus the two corner cells), it truncates with a single "…"
// inserted at the midpoint.
func TruncateTitle(title string, availCells int) string {
	w := textwidth.String(title, textwidth.DefaultOptions)
	if w <= availCells || availCells <= 0 {
		if availCells <= 0 {
			return ""
		}
		return title
	}
	clusters := textwidth.Clusters(title, textwidth.DefaultOptions)
	budget := availCells - 1 // reserve one cell for the ellipsis
	headBudget := (budget + 1) / 2
	tailBudget := budget - headBudget

	headRunes, headW := "", 0
	for _, c := range clusters {
		if headW+c.Width > headBudget {
			break
		}
		headRunes += c.Text
		headW += c.Width
	}
	tailRunes, tailW := "", 0
	for i := len(clusters) - 1; i >= 0; i-- {
		c := clusters[i]
		if tailW+c.Width > tailBudget {
			break
		}
		tailRunes = c.Text + tailRunes
		tailW += c.Width
	}
	return headRunes + "…" + tailRunes
}

func measureBox(n *vnode.Node, maxW, maxH int) Size {
	top, right, bottom, left := boxInset(n)
	contentW, contentH := maxW-left-right, maxH-top-bottom
	if contentW < 0 {
		contentW = 0
	}
	if contentH < 0 {
		contentH = 0
	}
	innerW, innerH := 0, 0
	for _, c := range n.Children {
		sz, verr := Measure(c, contentW, contentH, axisOf(c.Kind))
		if verr != nil {
			continue
		}
		if sz.W > innerW {
			innerW = sz.W
		}
		innerH += sz.H
	}
	return Size{W: innerW + left + right, H: innerH + top + bottom}
}

func layoutBox(n *vnode.Node, x, y, maxW, maxH int) (*Tree, *verror.Error) {
	top, right, bottom, left := boxInset(n)
	contentX, contentY := x+left, y+top
	contentW, contentH := maxW-left-right, maxH-top-bottom
	if contentW < 0 {
		contentW = 0
	}
	if contentH < 0 {
		contentH = 0
	}

	children := make([]*Tree, 0, len(n.Children))
	cy := contentY
	for _, c := range n.Children {
		sz, verr := Measure(c, contentW, contentH, axisOf(c.Kind))
		if verr != nil {
			return nil, verr
		}
		h := sz.H
		if cy+h > contentY+contentH {
			h = contentY + contentH - cy
			if h < 0 {
				h = 0
			}
		}
		sub, verr := Layout(c, contentX, cy, contentW, h, axisOf(c.Kind))
		if verr != nil {
			return nil, verr
		}
		children = append(children, sub)
		cy += h
	}
	return &Tree{Node: n, Rect: Rect{X: x, Y: y, W: maxW, H: maxH}, Children: children}, nil
}
