package styles

import "image/color"

// Theme holds the small set of semantic colors a frame needs: base
// text/background, a focus-ring accent, and a shadow tint for overlay
// drop-shadows (spec.md §4.8 "shadow cells before the frame").
//
// Grounded on cogentcore's colors package (colors/colors.go,
// colors/blend.go): we keep its AsRGBA/blend-in-RGB-space approach
// but drop its HCT/CAM16 colorimetry (colors/cam, colors/matcolor),
// which exists to generate Material You tonal palettes for a
// graphical desktop/web UI — no terminal backend renders tonal
// palettes, so DESIGN.md records that package as intentionally not
// adapted rather than ported unused.
type Theme struct {
	Name       string
	Fg, Bg     color.RGBA
	Accent     color.RGBA
	Danger     color.RGBA
	ShadowTint color.RGBA
	Border     BorderKind
}

// DefaultDark is the built-in fallback theme used when the app does
// not supply one and when rendering the built-in error screen
// (spec.md §4.9).
func DefaultDark() Theme {
	return Theme{
		Name:       "default-dark",
		Fg:         color.RGBA{220, 220, 220, 255},
		Bg:         color.RGBA{16, 16, 20, 255},
		Accent:     color.RGBA{90, 160, 255, 255},
		Danger:     color.RGBA{230, 90, 90, 255},
		ShadowTint: color.RGBA{0, 0, 0, 120},
		Border:     BorderSingle,
	}
}

// Base returns the Theme's default resolved Style for plain content.
func (t Theme) Base() Style {
	return Style{Fg: t.Fg, Bg: t.Bg, Border: t.Border}
}

// FocusStyle returns the Style applied to a focused widget: bold,
// underlined, with the ring color from the theme unless the node
// overrode it (spec.md §4.8).
func (t Theme) FocusStyle(base Style) Style {
	s := base
	s.Attrs |= Bold | Underline
	if !s.HasFocusRing {
		s.FocusRing = t.Accent
		s.HasFocusRing = true
	}
	return s
}

// BlendRGB returns the color that is pct percent (0-100) of x blended
// with (100-pct) percent of y, computed directly in non-premultiplied
// RGB space. Adapted from colors.BlendRGB (colors/blend.go), minus its
// HCT/CAM16 blend-space options, which this engine has no use for.
func BlendRGB(pct float32, x, y color.RGBA) color.RGBA {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	px := pct / 100
	py := 1 - px
	return color.RGBA{
		R: uint8(px*float32(x.R) + py*float32(y.R)),
		G: uint8(px*float32(x.G) + py*float32(y.G)),
		B: uint8(px*float32(x.B) + py*float32(y.B)),
		A: uint8(px*float32(x.A) + py*float32(y.A)),
	}
}

// AlphaBlend composites src over dst, handling alpha correctly.
// Adapted from colors.AlphaBlend (colors/blend.go); used to paint
// shadow cells under an overlay without a separate compositing pass
// in the backend.
func AlphaBlend(dst, src color.RGBA) color.RGBA {
	dr, dg, db, da := dst.RGBA()
	sr, sg, sb, sa := src.RGBA()
	const m = 1<<16 - 1
	a := m - sa
	return color.RGBA{
		R: uint8((uint32(dr)*a/m + sr) >> 8),
		G: uint8((uint32(dg)*a/m + sg) >> 8),
		B: uint8((uint32(db)*a/m + sb) >> 8),
		A: uint8((uint32(da)*a/m + sa) >> 8),
	}
}
