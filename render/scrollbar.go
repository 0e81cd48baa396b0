package render

import (
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/styles"
)

// ScrollbarGeometry is the resolved thumb position/size for a track
// of a given length, expressed in cells. Pure function of (track
// length, thumb position, viewport ratio), per spec.md §4.8
// "Scrollbar rendering is a pure function of ...".
type ScrollbarGeometry struct {
	ThumbStart int
	ThumbLen   int
}

// ComputeScrollbar derives thumb geometry from the scrollable content
// length, the visible viewport length, and the current scroll offset,
// all in the same units (rows for a vertical scrollbar, columns for a
// horizontal one). trackLen is the number of cells the thumb can move
// across (the gutter's own length).
func ComputeScrollbar(trackLen, contentLen, viewportLen, offset int) ScrollbarGeometry {
	if trackLen <= 0 || contentLen <= viewportLen || contentLen <= 0 {
		return ScrollbarGeometry{ThumbStart: 0, ThumbLen: trackLen}
	}
	ratio := float64(viewportLen) / float64(contentLen)
	thumbLen := int(ratio * float64(trackLen))
	if thumbLen < 1 {
		thumbLen = 1
	}
	if thumbLen > trackLen {
		thumbLen = trackLen
	}
	maxOffset := contentLen - viewportLen
	maxStart := trackLen - thumbLen
	start := 0
	if maxOffset > 0 {
		start = int(float64(offset) / float64(maxOffset) * float64(maxStart))
	}
	if start > maxStart {
		start = maxStart
	}
	if start < 0 {
		start = 0
	}
	return ScrollbarGeometry{ThumbStart: start, ThumbLen: thumbLen}
}

// scrollbarGlyphs are the closed track/thumb glyph pair this engine
// draws a gutter with; spec.md leaves the exact glyphs unspecified, so
// these match the block-shading convention the teacher's own terminal
// demos use for progress/scroll affordances.
const (
	scrollbarTrackGlyph = '░'
	scrollbarThumbGlyph = '█'
)

// renderVerticalScrollbar draws a one-cell-wide gutter at the right
// edge of rect and returns the rect shrunk to exclude it, so the
// caller can clip inner content to the remaining space (spec.md
// §4.8: "draws a gutter column ... and shrinks the inner clip
// accordingly").
func renderVerticalScrollbar(rec *recorder, rect layout.Rect, geom ScrollbarGeometry, style styles.Style) layout.Rect {
	if rect.W <= 1 {
		return rect
	}
	x := rect.X + rect.W - 1
	for y := 0; y < rect.H; y++ {
		glyph := scrollbarTrackGlyph
		if y >= geom.ThumbStart && y < geom.ThumbStart+geom.ThumbLen {
			glyph = scrollbarThumbGlyph
		}
		rec.DrawText(x, rect.Y+y, string(glyph), style, 1)
	}
	return layout.Rect{X: rect.X, Y: rect.Y, W: rect.W - 1, H: rect.H}
}

// renderHorizontalScrollbar is the row analogue of
// renderVerticalScrollbar, drawn along the bottom edge.
func renderHorizontalScrollbar(rec *recorder, rect layout.Rect, geom ScrollbarGeometry, style styles.Style) layout.Rect {
	if rect.H <= 1 {
		return rect
	}
	y := rect.Y + rect.H - 1
	for x := 0; x < rect.W; x++ {
		glyph := scrollbarTrackGlyph
		if x >= geom.ThumbStart && x < geom.ThumbStart+geom.ThumbLen {
			glyph = scrollbarThumbGlyph
		}
		rec.DrawText(rect.X+x, y, string(glyph), style, 1)
	}
	return layout.Rect{X: rect.X, Y: rect.Y, W: rect.W, H: rect.H - 1}
}
