package input

import (
	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/vnode"
)

// widgetKeyAction implements spec.md §4.10 step 4's closed per-kind
// default keyboard routing table: "virtual list Up/Down/Page/Home/
// End/Enter/Space; file tree Left/Right/Enter; slider Left/Right;
// input text; button Enter/Space." Everything else is left unhandled
// so the caller falls through to step 6 (focus cycling).
func widgetKeyAction(n *vnode.Node, id runtime.ID, k Key) (*Action, bool) {
	switch n.Kind {
	case vnode.KindVirtualList:
		return virtualListKey(id, k)
	case vnode.KindTree:
		return treeKey(id, k)
	case vnode.KindSlider:
		return sliderKey(n, id, k)
	case vnode.KindInput:
		return inputKey(n, id, k)
	case vnode.KindButton, vnode.KindCheckbox:
		return pressKey(id, k)
	default:
		return nil, false
	}
}

func virtualListKey(id runtime.ID, k Key) (*Action, bool) {
	switch k.Name {
	case "up":
		return &Action{ID: id, Action: "navigate", Value: "up"}, true
	case "down":
		return &Action{ID: id, Action: "navigate", Value: "down"}, true
	case "pageup":
		return &Action{ID: id, Action: "navigate", Value: "pageup"}, true
	case "pagedown":
		return &Action{ID: id, Action: "navigate", Value: "pagedown"}, true
	case "home":
		return &Action{ID: id, Action: "navigate", Value: "home"}, true
	case "end":
		return &Action{ID: id, Action: "navigate", Value: "end"}, true
	case "enter":
		return &Action{ID: id, Action: "select"}, true
	case "space":
		return &Action{ID: id, Action: "toggle"}, true
	default:
		return nil, false
	}
}

func treeKey(id runtime.ID, k Key) (*Action, bool) {
	switch k.Name {
	case "left":
		return &Action{ID: id, Action: "collapse"}, true
	case "right":
		return &Action{ID: id, Action: "expand"}, true
	case "enter":
		return &Action{ID: id, Action: "select"}, true
	default:
		return nil, false
	}
}

// sliderKey reads the widget's own step prop (default 1) so arrow
// keys move it by a caller-tunable amount rather than a hardcoded
// increment.
func sliderKey(n *vnode.Node, id runtime.ID, k Key) (*Action, bool) {
	step := vnode.Get(n, "step", 1.0)
	switch k.Name {
	case "left":
		return &Action{ID: id, Action: "adjust", Value: -step}, true
	case "right":
		return &Action{ID: id, Action: "adjust", Value: step}, true
	default:
		return nil, false
	}
}

// inputKey handles the closed set of editing keys a text input reacts
// to directly; any other printable rune is forwarded as an "input"
// action appending to the current value at the current cursor.
func inputKey(n *vnode.Node, id runtime.ID, k Key) (*Action, bool) {
	value := vnode.Get(n, "value", "")
	cursor := vnode.Get(n, "cursor", len([]rune(value)))

	switch k.Name {
	case "backspace":
		return &Action{ID: id, Action: "backspace", Cursor: cursor}, true
	case "delete":
		return &Action{ID: id, Action: "delete", Cursor: cursor}, true
	case "left":
		return &Action{ID: id, Action: "moveCursor", Value: -1, Cursor: cursor}, true
	case "right":
		return &Action{ID: id, Action: "moveCursor", Value: 1, Cursor: cursor}, true
	case "home":
		return &Action{ID: id, Action: "moveCursor", Value: "home", Cursor: cursor}, true
	case "end":
		return &Action{ID: id, Action: "moveCursor", Value: "end", Cursor: cursor}, true
	}
	if k.Ctrl || k.Alt || k.Name != "" {
		return nil, false
	}
	if k.Rune == 0 {
		return nil, false
	}
	return &Action{ID: id, Action: "input", Value: string(k.Rune), Cursor: cursor}, true
}

func pressKey(id runtime.ID, k Key) (*Action, bool) {
	if k.Name == "enter" || k.Name == "space" {
		return &Action{ID: id, Action: "press"}, true
	}
	return nil, false
}
