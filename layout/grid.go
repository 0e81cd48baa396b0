package layout

import (
	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

type trackKind uint8

const (
	trackFixed trackKind = iota
	trackAuto
	trackFr
)

type track struct {
	kind trackKind
	size int     // meaningful for trackFixed
	fr   float64 // meaningful for trackFr
}

func parseTrack(v any) track {
	switch t := v.(type) {
	case int:
		return track{kind: trackFixed, size: t}
	case float64:
		return track{kind: trackFixed, size: int(t)}
	case string:
		if t == "auto" {
			return track{kind: trackAuto}
		}
		if n, ok := parseFr(t); ok {
			return track{kind: trackFr, fr: n}
		}
	}
	return track{kind: trackAuto}
}

func parseFr(s string) (float64, bool) {
	if len(s) < 3 || s[len(s)-2:] != "fr" {
		return 0, false
	}
	n, ok := parsePercent(s[:len(s)-2] + "%")
	return n, ok
}

func gridTracks(n *vnode.Node) []track {
	cols, _ := n.Props["cols"].([]any)
	if len(cols) == 0 {
		return []track{{kind: trackFr, fr: 1}}
	}
	out := make([]track, len(cols))
	for i, c := range cols {
		out[i] = parseTrack(c)
	}
	return out
}

// compactChildren drops nil entries (spec.md §4.4: "sparse child
// arrays compact; holes skipped") and then caps the remaining run at
// an explicit row count, if given.
func compactChildren(n *vnode.Node, numCols int) []*vnode.Node {
	compacted := make([]*vnode.Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c != nil {
			compacted = append(compacted, c)
		}
	}
	if rows := propInt(n, "rows", 0); rows > 0 {
		limit := rows * numCols
		if len(compacted) > limit {
			compacted = compacted[:limit]
		}
	}
	return compacted
}

func resolveColumnWidths(tracks []track, children []*vnode.Node, numCols, contentW, colGap int) []int {
	widths := make([]int, numCols)
	for i, t := range tracks {
		if t.kind == trackFixed {
			widths[i] = t.size
		}
	}
	for i, t := range tracks {
		if t.kind != trackAuto {
			continue
		}
		max := 0
		for idx, c := range children {
			if idx%numCols != i {
				continue
			}
			sz, verr := Measure(c, contentW, 0, axisOf(c.Kind))
			if verr == nil && sz.W > max {
				max = sz.W
			}
		}
		widths[i] = max
	}
	used := 0
	totalFr := 0.0
	for i, t := range tracks {
		if t.kind == trackFr {
			totalFr += t.fr
		} else {
			used += widths[i]
		}
	}
	if numCols > 1 {
		used += colGap * (numCols - 1)
	}
	remainder := contentW - used
	if remainder < 0 {
		remainder = 0
	}
	if totalFr > 0 {
		distributed := 0
		unit := float64(remainder) / totalFr
		for i, t := range tracks {
			if t.kind != trackFr {
				continue
			}
			w := int(t.fr * unit)
			widths[i] = w
			distributed += w
		}
		leftover := remainder - distributed
		for i, t := range tracks {
			if leftover <= 0 {
				break
			}
			if t.kind != trackFr {
				continue
			}
			widths[i]++
			leftover--
		}
	}
	return widths
}

func layoutGrid(n *vnode.Node, x, y, maxW, maxH int) (*Tree, *verror.Error) {
	tracks := gridTracks(n)
	numCols := len(tracks)
	colGap := propInt(n, "colGap", propInt(n, "gap", 0))
	rowGap := propInt(n, "rowGap", propInt(n, "gap", 0))
	if colGap < 0 || rowGap < 0 {
		return nil, invalidProps("grid: gap must be non-negative")
	}
	children := compactChildren(n, numCols)
	widths := resolveColumnWidths(tracks, children, numCols, maxW, colGap)

	numRows := (len(children) + numCols - 1) / numCols
	rowHeights := make([]int, numRows)
	for idx, c := range children {
		row := idx / numCols
		col := idx % numCols
		sz, verr := Measure(c, widths[col], 0, axisOf(c.Kind))
		if verr != nil {
			return nil, verr
		}
		if sz.H > rowHeights[row] {
			rowHeights[row] = sz.H
		}
	}

	colX := make([]int, numCols)
	cx := x
	for i, w := range widths {
		colX[i] = cx
		cx += w + colGap
	}
	rowY := make([]int, numRows)
	ry := y
	for i, h := range rowHeights {
		rowY[i] = ry
		ry += h + rowGap
	}

	out := make([]*Tree, 0, len(children))
	for idx, c := range children {
		row, col := idx/numCols, idx%numCols
		sub, verr := Layout(c, colX[col], rowY[row], widths[col], rowHeights[row], axisOf(c.Kind))
		if verr != nil {
			return nil, verr
		}
		out = append(out, sub)
	}
	return &Tree{Node: n, Rect: Rect{X: x, Y: y, W: maxW, H: maxH}, Children: out}, nil
}

func measureGrid(n *vnode.Node, maxW, maxH int) Size {
	tree, verr := layoutGrid(n, 0, 0, maxW, maxH)
	if verr != nil {
		return Size{}
	}
	w, h := 0, 0
	for _, c := range tree.Children {
		if c.Rect.X+c.Rect.W > w {
			w = c.Rect.X + c.Rect.W
		}
		if c.Rect.Y+c.Rect.H > h {
			h = c.Rect.Y + c.Rect.H
		}
	}
	return Size{W: w, H: h}
}
