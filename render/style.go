package render

import (
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/styles"
	"github.com/vterm/vterm/vnode"
)

// resolveStyle merges a node's own style prop (if any) over the
// inherited base style, then dims disabled widgets. Props carry a
// fully-formed styles.Style rather than individual fg/bg/attr keys:
// style resolution (theme cascading, semantic color names) is a view
// concern upstream of this package, matching spec.md §4.8's render
// contract of "base_style" as an already-resolved input.
func resolveStyle(n *vnode.Node, base styles.Style) styles.Style {
	local := vnode.Get(n, "style", styles.Style{})
	merged := local.Merge(base)
	if vnode.Get(n, "disabled", false) {
		merged.Attrs |= styles.Dim
	}
	return merged
}

// renderBorder draws a border's eight glyphs and two edge runs around
// rect using style, with an optional middle-ellipsis-truncated title
// embedded in the top edge (spec.md §4.4 box title truncation,
// reused here for rendering instead of measurement).
func renderBorder(rec *recorder, rect layout.Rect, border styles.BorderKind, style styles.Style, title string) {
	if border == styles.BorderNone || rect.W <= 0 || rect.H <= 0 {
		return
	}
	tl, tr, bl, br, h, v := border.Glyphs()
	rec.DrawText(rect.X, rect.Y, topEdge(rect.W, h, tl, tr, title), style, rect.W)
	for y := rect.Y + 1; y < rect.Y+rect.H-1; y++ {
		rec.DrawText(rect.X, y, string(v), style, 1)
		rec.DrawText(rect.X+rect.W-1, y, string(v), style, 1)
	}
	if rect.H > 1 {
		bottom := string(bl) + repeatGlyph(h, rect.W-2) + string(br)
		rec.DrawText(rect.X, rect.Y+rect.H-1, bottom, style, rect.W)
	}
}

// topEdge builds the top border run, embedding a middle-ellipsis
// truncated title flanked by one space on each side when one is
// given and there is room for it.
func topEdge(width int, h, tl, tr rune, title string) string {
	available := width - 2 // minus the two corner cells
	if available <= 0 {
		return string(tl) + string(tr)
	}
	if title == "" {
		return string(tl) + repeatGlyph(h, available) + string(tr)
	}
	titleBudget := available - 2 // one space flanking each side
	if titleBudget < 1 {
		return string(tl) + repeatGlyph(h, available) + string(tr)
	}
	truncated := layout.TruncateTitle(title, titleBudget)
	mid := " " + truncated + " "
	remaining := max0(available-runeLen(mid), 0)
	return string(tl) + mid + repeatGlyph(h, remaining) + string(tr)
}

func repeatGlyph(r rune, n int) string {
	if n <= 0 {
		return ""
	}
	out := make([]rune, n)
	for i := range out {
		out[i] = r
	}
	return string(out)
}

func runeLen(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

func max0(a, b int) int {
	if a > b {
		return a
	}
	return b
}
