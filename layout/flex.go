package layout

import (
	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

func flexProps(n *vnode.Node) (gap int, wrap bool, justify Justify, align Align, err *verror.Error) {
	gap = propInt(n, "gap", 0)
	if gap < 0 {
		return 0, false, 0, 0, invalidProps("%s: gap must be non-negative, got %d", n.Kind, gap)
	}
	wrap = propBool(n, "wrap", false)
	switch propString(n, "justify", "start") {
	case "start":
		justify = JustifyStart
	case "center":
		justify = JustifyCenter
	case "end":
		justify = JustifyEnd
	case "between":
		justify = JustifyBetween
	case "evenly":
		justify = JustifyEvenly
	default:
		return 0, false, 0, 0, invalidProps("%s: unknown justify %q", n.Kind, n.Props["justify"])
	}
	switch propString(n, "align", "start") {
	case "start":
		align = AlignStart
	case "center":
		align = AlignCenter
	case "end":
		align = AlignEnd
	case "stretch":
		align = AlignStretch
	default:
		return 0, false, 0, 0, invalidProps("%s: unknown align %q", n.Kind, n.Props["align"])
	}
	return gap, wrap, justify, align, nil
}

// axisOf returns AxisRow for a row container, AxisColumn for column.
func axisOf(k vnode.Kind) Axis {
	if k == vnode.KindRow {
		return AxisRow
	}
	return AxisColumn
}

func mainCross(axis Axis, w, h int) (main, cross int) {
	if axis == AxisRow {
		return w, h
	}
	return h, w
}

func rectFromMainCross(axis Axis, mainPos, crossPos, mainLen, crossLen int) Rect {
	if axis == AxisRow {
		return Rect{X: mainPos, Y: crossPos, W: mainLen, H: crossLen}
	}
	return Rect{X: crossPos, Y: mainPos, W: crossLen, H: mainLen}
}

// measureFlex computes a flex container's natural size: main axis is
// the sum of children plus gaps, cross axis is the max child cross
// size. It does not consider wrap (wrap only affects Layout, since
// Measure does not fix a position to wrap against beyond maxW/maxH).
func measureFlex(n *vnode.Node, maxW, maxH int) (Size, *verror.Error) {
	gap, _, _, _, verr := flexProps(n)
	if verr != nil {
		return Size{}, verr
	}
	axis := axisOf(n.Kind)
	maxMain, maxCross := mainCross(axis, maxW, maxH)

	mainTotal, crossMax := 0, 0
	for i, c := range n.Children {
		childMaxMain := maxMain
		childMaxCross := maxCross
		var cw, ch int
		if axis == AxisRow {
			cw, ch = childMaxMain, childMaxCross
		} else {
			cw, ch = childMaxCross, childMaxMain
		}
		sz, verr := Measure(c, cw, ch, axisOf(c.Kind))
		if verr != nil {
			return Size{}, verr
		}
		m, cr := mainCross(axis, sz.W, sz.H)
		mainTotal += m
		if i > 0 {
			mainTotal += gap
		}
		if cr > crossMax {
			crossMax = cr
		}
	}
	if axis == AxisRow {
		return Size{W: mainTotal, H: crossMax}, nil
	}
	return Size{W: crossMax, H: mainTotal}, nil
}

type flexChild struct {
	node       *vnode.Node
	mainSize   int
	crossSize  int
	flex       float64
	mainResult int
}

// layoutFlexLine lays out one wrap line of children along axis within
// [mainAvail, crossAvail], applying flex-weight remainder
// distribution (spec.md §4.4: front-loaded, one extra unit at a time,
// source order) and justify/align. It returns each child's resolved
// Rect in the same order as children; the caller recurses into each
// child's own Layout to build the full subtree.
func layoutFlexLine(children []flexChild, axis Axis, mainAvail, crossAvail, gap int, justify Justify, align Align, mainOrigin, crossOrigin int) []Rect {
	fixedMain := 0
	totalFlex := 0.0
	for _, c := range children {
		if c.flex > 0 {
			totalFlex += c.flex
		} else {
			fixedMain += c.mainSize
		}
	}
	if len(children) > 1 {
		fixedMain += gap * (len(children) - 1)
	}
	remainder := mainAvail - fixedMain
	if remainder < 0 {
		remainder = 0
	}

	if totalFlex > 0 {
		distributed := 0
		unit := int(float64(remainder) / totalFlex)
		for i := range children {
			if children[i].flex <= 0 {
				children[i].mainResult = children[i].mainSize
				continue
			}
			share := int(children[i].flex * float64(unit))
			children[i].mainResult = share
			distributed += share
		}
		// Front-loaded remainder distribution for leftover integer
		// cells after the proportional split.
		leftover := remainder - distributed
		for i := range children {
			if leftover <= 0 {
				break
			}
			if children[i].flex <= 0 {
				continue
			}
			children[i].mainResult++
			leftover--
		}
	} else {
		for i := range children {
			children[i].mainResult = children[i].mainSize
		}
	}

	usedMain := 0
	for i, c := range children {
		usedMain += c.mainResult
		if i > 0 {
			usedMain += gap
		}
	}
	extra := mainAvail - usedMain
	if extra < 0 {
		extra = 0
	}

	var leadGap, betweenGap int
	switch justify {
	case JustifyStart:
		leadGap, betweenGap = 0, gap
	case JustifyCenter:
		leadGap, betweenGap = extra/2, gap
	case JustifyEnd:
		leadGap, betweenGap = extra, gap
	case JustifyBetween:
		if len(children) > 1 {
			betweenGap = gap + extra/(len(children)-1)
		}
	case JustifyEvenly:
		leadGap = extra / (len(children) + 1)
		betweenGap = gap + leadGap
	}

	out := make([]Rect, len(children))
	mainPos := mainOrigin + leadGap
	for i, c := range children {
		crossSize := c.crossSize
		crossPos := crossOrigin
		switch align {
		case AlignCenter:
			crossPos = crossOrigin + (crossAvail-crossSize)/2
		case AlignEnd:
			crossPos = crossOrigin + (crossAvail - crossSize)
		case AlignStretch:
			crossSize = crossAvail
		}
		out[i] = rectFromMainCross(axis, mainPos, crossPos, c.mainResult, crossSize)
		mainPos += c.mainResult
		if i < len(children)-1 {
			mainPos += betweenGap
		}
	}
	return out
}
