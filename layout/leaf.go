package layout

import (
	"github.com/vterm/vterm/textwidth"
	"github.com/vterm/vterm/vnode"
)

// intrinsicSize returns a leaf kind's natural size before any
// explicit width/height override is applied. Structural kinds never
// reach this function; see measure.go's dispatcher.
func intrinsicSize(n *vnode.Node, maxW int) Size {
	switch n.Kind {
	case vnode.KindText:
		return measureText(n.Text, maxW, propBool(n, "wrap", false))
	case vnode.KindButton:
		label := propString(n, "label", "")
		return Size{W: textwidth.String(label, textwidth.DefaultOptions) + 4, H: 1}
	case vnode.KindInput:
		return Size{W: propInt(n, "width", 20), H: 1}
	case vnode.KindCheckbox:
		label := propString(n, "label", "")
		return Size{W: textwidth.String(label, textwidth.DefaultOptions) + 4, H: 1}
	case vnode.KindSlider:
		return Size{W: propInt(n, "width", 20), H: 1}
	case vnode.KindSelect:
		label := propString(n, "label", "")
		return Size{W: textwidth.String(label, textwidth.DefaultOptions) + 6, H: 1}
	case vnode.KindIcon:
		return Size{W: 1, H: 1}
	case vnode.KindSpinner:
		return Size{W: 1, H: 1}
	case vnode.KindProgress:
		return Size{W: propInt(n, "width", 20), H: 1}
	case vnode.KindImage:
		return Size{W: propInt(n, "width", 10), H: propInt(n, "height", 5)}
	case vnode.KindCanvas:
		return Size{W: propInt(n, "width", 10), H: propInt(n, "height", 5)}
	case vnode.KindBarChart:
		return Size{W: propInt(n, "width", 20), H: propInt(n, "height", 8)}
	case vnode.KindTable:
		return Size{W: propInt(n, "width", 40), H: propInt(n, "height", 10)}
	case vnode.KindTree:
		return Size{W: propInt(n, "width", 30), H: propInt(n, "height", 10)}
	case vnode.KindCodeEditor:
		return Size{W: propInt(n, "width", 60), H: propInt(n, "height", 20)}
	case vnode.KindSpacer:
		return Size{W: propInt(n, "width", 0), H: propInt(n, "height", 0)}
	default:
		return Size{}
	}
}

func measureText(s string, maxW int, wrap bool) Size {
	natural := textwidth.String(s, textwidth.DefaultOptions)
	if !wrap || maxW <= 0 || natural <= maxW {
		w := natural
		if maxW > 0 && w > maxW {
			w = maxW
		}
		return Size{W: w, H: 1}
	}
	lines := 1
	lineW := 0
	for _, cl := range textwidth.Clusters(s, textwidth.DefaultOptions) {
		if lineW+cl.Width > maxW && lineW > 0 {
			lines++
			lineW = 0
		}
		lineW += cl.Width
	}
	return Size{W: maxW, H: lines}
}
