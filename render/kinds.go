package render

import (
	"fmt"

	"github.com/vterm/vterm/drawlist"
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/styles"
	"github.com/vterm/vterm/textwidth"
	"github.com/vterm/vterm/vnode"
)

// spinnerFrames is the closed glyph sequence a spinner cycles through,
// one per tick, matching the braille-dot convention common to
// terminal progress indicators.
var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

// renderLeaf dispatches to the per-kind drawing function. rect is in
// absolute screen coordinates; rec has already been positioned with
// that origin for packet recording.
func renderLeaf(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style, theme styles.Theme, tick uint64) {
	switch n.Kind {
	case vnode.KindText:
		renderText(rec, n, rect, style)
	case vnode.KindButton:
		renderButton(rec, n, rect, style)
	case vnode.KindInput:
		renderInput(rec, n, rect, style)
	case vnode.KindCheckbox:
		renderCheckbox(rec, n, rect, style)
	case vnode.KindSlider:
		renderSlider(rec, n, rect, style)
	case vnode.KindSelect:
		renderSelect(rec, n, rect, style)
	case vnode.KindIcon:
		renderIcon(rec, n, rect, style)
	case vnode.KindSpinner:
		renderSpinner(rec, n, rect, style, tick)
	case vnode.KindProgress:
		renderProgress(rec, n, rect, style)
	case vnode.KindImage:
		renderImage(rec, n, rect, style)
	case vnode.KindCanvas:
		renderCanvas(rec, n, rect, style)
	case vnode.KindBarChart:
		renderBarChart(rec, n, rect, style)
	case vnode.KindTable:
		renderTable(rec, n, rect, style)
	case vnode.KindTree:
		renderTree(rec, n, rect, style)
	case vnode.KindCodeEditor:
		renderCodeEditor(rec, n, rect, style, theme)
	}
}

func truncateEnd(s string, cells int) string {
	if cells <= 0 {
		return ""
	}
	if textwidth.String(s, textwidth.DefaultOptions) <= cells {
		return s
	}
	budget := cells - 1
	out := ""
	w := 0
	for _, c := range textwidth.Clusters(s, textwidth.DefaultOptions) {
		if w+c.Width > budget {
			break
		}
		out += c.Text
		w += c.Width
	}
	return out + "…"
}

func renderText(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	wrap := vnode.Get(n, "wrap", false)
	if !wrap {
		truncate := vnode.Get(n, "truncate", "end")
		text := n.Text
		if textwidth.String(text, textwidth.DefaultOptions) > rect.W {
			if truncate == "middle" {
				text = layout.TruncateTitle(text, rect.W)
			} else {
				text = truncateEnd(text, rect.W)
			}
		}
		rec.DrawText(rect.X, rect.Y, text, style, rect.W)
		return
	}
	line, lineW := "", 0
	y := rect.Y
	for _, c := range textwidth.Clusters(n.Text, textwidth.DefaultOptions) {
		if lineW+c.Width > rect.W && line != "" {
			if y >= rect.Y+rect.H {
				return
			}
			rec.DrawText(rect.X, y, line, style, rect.W)
			y++
			line, lineW = "", 0
		}
		line += c.Text
		lineW += c.Width
	}
	if line != "" && y < rect.Y+rect.H {
		rec.DrawText(rect.X, y, line, style, rect.W)
	}
}

func renderButton(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	rec.FillRect(rect.X, rect.Y, rect.W, rect.H, style)
	label := vnode.Get(n, "label", "")
	inner := rect.W - 2
	if inner < 0 {
		inner = 0
	}
	rec.DrawText(rect.X+1, rect.Y, truncateEnd(label, inner), style, inner)
}

func renderInput(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	rec.FillRect(rect.X, rect.Y, rect.W, rect.H, style)
	value := vnode.Get(n, "value", "")
	if value == "" {
		placeholder := vnode.Get(n, "placeholder", "")
		dim := style
		dim.Attrs |= styles.Dim
		rec.DrawText(rect.X, rect.Y, truncateEnd(placeholder, rect.W), dim, rect.W)
		return
	}
	rec.DrawText(rect.X, rect.Y, truncateEnd(value, rect.W), style, rect.W)
}

func renderCheckbox(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	checked := vnode.Get(n, "checked", false)
	mark := " "
	if checked {
		mark = "x"
	}
	label := vnode.Get(n, "label", "")
	text := "[" + mark + "] " + label
	rec.DrawText(rect.X, rect.Y, truncateEnd(text, rect.W), style, rect.W)
}

func renderSlider(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	min := vnode.Get(n, "min", 0.0)
	max := vnode.Get(n, "max", 100.0)
	value := vnode.Get(n, "value", min)
	span := max - min
	frac := 0.0
	if span > 0 {
		frac = (value - min) / span
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(rect.W))
	bar := ""
	for i := 0; i < rect.W; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "─"
		}
	}
	rec.DrawText(rect.X, rect.Y, bar, style, rect.W)
}

func renderSelect(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	label := vnode.Get(n, "label", "")
	if label == "" {
		label = vnode.Get(n, "placeholder", "")
	}
	text := label + " ▾"
	rec.DrawText(rect.X, rect.Y, truncateEnd(text, rect.W), style, rect.W)
}

func renderIcon(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	glyph := vnode.Get(n, "glyph", "•")
	rec.DrawText(rect.X, rect.Y, glyph, style, rect.W)
}

func renderSpinner(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style, tick uint64) {
	frame := spinnerFrames[int(tick)%len(spinnerFrames)]
	rec.DrawText(rect.X, rect.Y, string(frame), style, rect.W)
}

func renderProgress(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	value := vnode.Get(n, "value", 0.0)
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	filled := int(value * float64(rect.W))
	bar := ""
	for i := 0; i < rect.W; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	rec.DrawText(rect.X, rect.Y, bar, style, rect.W)
}

func renderImage(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	pixels := vnode.Get(n, "pixels", []byte(nil))
	if len(pixels) == 0 {
		rec.DrawText(rect.X, rect.Y, truncateEnd("[image]", rect.W), style, rect.W)
		return
	}
	format := drawlist.ImageFormat(vnode.Get(n, "format", 0))
	protocol := drawlist.ImageProtocol(vnode.Get(n, "protocol", 0))
	fit := drawlist.ImageFit(vnode.Get(n, "fit", 0))
	pxW := uint16(vnode.Get(n, "pxWidth", 0))
	pxH := uint16(vnode.Get(n, "pxHeight", 0))
	imageID := uint16(vnode.Get(n, "imageId", 0))
	rec.DrawImage(rect.X, rect.Y, rect.W, rect.H, pixels, format, protocol, 0, fit, imageID, pxW, pxH)
}

func renderCanvas(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	pixels := vnode.Get(n, "pixels", []byte(nil))
	if len(pixels) == 0 {
		rec.DrawText(rect.X, rect.Y, truncateEnd("[canvas]", rect.W), style, rect.W)
		return
	}
	blitter := drawlist.BlitterKind(vnode.Get(n, "blitter", 0))
	pxW := uint8(vnode.Get(n, "pxWidth", 0))
	pxH := uint8(vnode.Get(n, "pxHeight", 0))
	rec.DrawCanvas(rect.X, rect.Y, rect.W, rect.H, pixels, blitter, pxW, pxH)
}

func renderBarChart(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	values := vnode.Get(n, "values", []float64(nil))
	labels := vnode.Get(n, "labels", []string(nil))
	if len(values) == 0 {
		return
	}
	max := values[0]
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if max <= 0 {
		max = 1
	}
	labelWidth := 8
	barWidth := rect.W - labelWidth
	if barWidth < 1 {
		barWidth = 1
	}
	for i, v := range values {
		if i >= rect.H {
			break
		}
		label := ""
		if i < len(labels) {
			label = labels[i]
		}
		filled := int(v / max * float64(barWidth))
		bar := ""
		for j := 0; j < barWidth; j++ {
			if j < filled {
				bar += "█"
			} else {
				bar += " "
			}
		}
		line := fmt.Sprintf("%-*s%s", labelWidth, truncateEnd(label, labelWidth-1), bar)
		rec.DrawText(rect.X, rect.Y+i, line, style, rect.W)
	}
}

func renderTable(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	columns := vnode.Get(n, "columns", []string(nil))
	rows := vnode.Get(n, "rows", [][]string(nil))
	rec.PushClip(rect.X, rect.Y, rect.W, rect.H)
	defer rec.PopClip()

	y := rect.Y
	if len(columns) > 0 && y < rect.Y+rect.H {
		header := style
		header.Attrs |= styles.Bold
		rec.DrawText(rect.X, y, truncateEnd(joinCells(columns, rect.W), rect.W), header, rect.W)
		y++
	}
	for _, row := range rows {
		if y >= rect.Y+rect.H {
			break
		}
		rec.DrawText(rect.X, y, truncateEnd(joinCells(row, rect.W), rect.W), style, rect.W)
		y++
	}
}

func joinCells(cells []string, maxWidth int) string {
	out := ""
	for i, c := range cells {
		if i > 0 {
			out += "  "
		}
		out += c
	}
	return out
}

func renderTree(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style) {
	lines := vnode.Get(n, "lines", []string(nil))
	rec.PushClip(rect.X, rect.Y, rect.W, rect.H)
	defer rec.PopClip()
	for i, line := range lines {
		if i >= rect.H {
			break
		}
		rec.DrawText(rect.X, rect.Y+i, truncateEnd(line, rect.W), style, rect.W)
	}
}
