package layout

import "github.com/vterm/vterm/vnode"

func propInt(n *vnode.Node, key string, def int) int {
	switch v := n.Props[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return def
	}
}

func propFloat(n *vnode.Node, key string, def float64) float64 {
	switch v := n.Props[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

func propString(n *vnode.Node, key, def string) string {
	if v, ok := n.Props[key].(string); ok {
		return v
	}
	return def
}

func propBool(n *vnode.Node, key string, def bool) bool {
	if v, ok := n.Props[key].(bool); ok {
		return v
	}
	return def
}

// sizeSpec resolves a "width"/"height" style prop value against a
// parent content dimension: an int or float64 is absolute cells, a
// string like "50%" is a percentage of parent, anything else (missing,
// "auto") means "let the child decide" and returns ok=false.
func sizeSpec(n *vnode.Node, key string, parent int) (value int, ok bool) {
	switch v := n.Props[key].(type) {
	case int:
		return v, true
	case float64:
		return int(v), true
	case string:
		if v == "" || v == "auto" {
			return 0, false
		}
		if pct, isPct := parsePercent(v); isPct {
			return int(float64(parent) * pct / 100), true
		}
		return 0, false
	default:
		return 0, false
	}
}

func parsePercent(s string) (float64, bool) {
	if len(s) < 2 || s[len(s)-1] != '%' {
		return 0, false
	}
	var n float64
	var frac float64 = 1
	seenDot := false
	matched := false
	for _, r := range s[:len(s)-1] {
		switch {
		case r == '.' && !seenDot:
			seenDot = true
		case r >= '0' && r <= '9':
			matched = true
			if seenDot {
				frac /= 10
				n += float64(r-'0') * frac
			} else {
				n = n*10 + float64(r-'0')
			}
		default:
			return 0, false
		}
	}
	return n, matched
}
