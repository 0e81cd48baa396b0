// Package styles defines the visual style record drawlist and render
// consult, plus RGB color blending used to resolve inherited and
// theme-relative colors before a frame is rendered.
package styles

import "image/color"

// Attr is a bitmask of text attributes, matching the attrs field of
// the ZRDL style record (bits 0..7: bold, dim, italic, underline,
// inverse, strike, overline, blink).
type Attr uint32

const (
	Bold Attr = 1 << iota
	Dim
	Italic
	Underline
	Inverse
	Strike
	Overline
	Blink
)

// BorderKind is the closed set of border styles a box can draw.
type BorderKind uint8

const (
	BorderNone BorderKind = iota
	BorderSingle
	BorderDouble
	BorderRounded
	BorderHeavy
	BorderDashed
	BorderHeavyDashed
)

// Style is the resolved, per-node visual style consumed by the
// render pipeline and packed into drawlist FILL_RECT/DRAW_TEXT style
// records. Zero value is "inherit everything from the parent/theme".
type Style struct {
	Fg, Bg        color.RGBA
	Attrs         Attr
	UnderlineRGB  color.RGBA
	Border        BorderKind
	FocusRing     color.RGBA
	HasFocusRing  bool
}

// Pack returns the four style-derived words of the seven-u32 ZRDL
// style record (fg, bg, attrs, underline_rgb). The reserved word and
// the link_uri_ref/link_id_ref words are filled in by the caller
// (drawlist builder), since the link refs are per-call, not per-style.
func (s Style) Pack() (fg, bg, attrs, underlineRGB uint32) {
	return packRGBA(s.Fg), packRGBA(s.Bg), uint32(s.Attrs), packRGBA(s.UnderlineRGB)
}

func packRGBA(c color.RGBA) uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Merge returns a copy of s with every zero-value field in s replaced
// by the corresponding field of base. Used to resolve a node's local
// Style against its inherited/theme Style before rendering.
func (s Style) Merge(base Style) Style {
	out := s
	if out.Fg == (color.RGBA{}) {
		out.Fg = base.Fg
	}
	if out.Bg == (color.RGBA{}) {
		out.Bg = base.Bg
	}
	if out.Attrs == 0 {
		out.Attrs = base.Attrs
	}
	if out.UnderlineRGB == (color.RGBA{}) {
		out.UnderlineRGB = base.UnderlineRGB
	}
	if out.Border == BorderNone {
		out.Border = base.Border
	}
	if !out.HasFocusRing {
		out.FocusRing, out.HasFocusRing = base.FocusRing, base.HasFocusRing
	}
	return out
}

// Glyphs returns the six deterministic corner/edge glyphs for a
// border kind: top-left, top-right, bottom-left, bottom-right,
// horizontal, vertical.
func (b BorderKind) Glyphs() (tl, tr, bl, br, h, v rune) {
	switch b {
	case BorderSingle:
		return '┌', '┐', '└', '┘', '─', '│'
	case BorderDouble:
		return '╔', '╗', '╚', '╝', '═', '║'
	case BorderRounded:
		return '╭', '╮', '╰', '╯', '─', '│'
	case BorderHeavy:
		return '┏', '┓', '┗', '┛', '━', '┃'
	case BorderDashed:
		return '┌', '┐', '└', '┘', '╌', '╎'
	case BorderHeavyDashed:
		return '┏', '┓', '┗', '┛', '╍', '╏'
	default:
		return 0, 0, 0, 0, 0, 0
	}
}
