package input

import (
	"github.com/vterm/vterm/hittest"
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/vnode"
)

// Action is forwarded to the app as an action event, per spec.md
// §4.10 ("{id, action: 'press'}", "{id, action: 'input', value,
// cursor}").
type Action struct {
	ID     runtime.ID
	Action string
	Value  any
	Cursor int
}

// StateUpdate is the other shape a dispatch can produce: an opaque
// user closure an overlay or app keybinding registered directly
// (spec.md §4.10 "a state update request").
type StateUpdate func()

// Result is what routing one event produced. At most one of Update/
// Action is set; DirtyRender is set on its own for focus-only changes
// that need a render but not a state update (spec.md §4.10 step 6:
// "focus changes set DIRTY_RENDER only").
type Result struct {
	Update      StateUpdate
	Action      *Action
	DirtyRender bool
	Handled     bool
}

// Entry is one member of the focus ring: a focusable instance and the
// vnode it was committed against, in document order.
type Entry struct {
	ID   runtime.ID
	Node *vnode.Node
}

// Overlay is one entry in the modal/dropdown/command-palette stack
// (spec.md §4.10 step 1-2). Shortcuts is keyed by Key.Binding().
type Overlay struct {
	ID        runtime.ID
	Shortcuts map[string]func() Result
	OnClose   func() Result
}

// Router holds the overlay stack, app keybinding table, and focus
// ring, and implements the six-level precedence chain of spec.md
// §4.10 exactly.
type Router struct {
	Overlays []Overlay // topmost last

	AppKeys map[string]func() Result

	FocusRing  []Entry
	FocusedIdx int // -1 when nothing is focused
}

// NewRouter returns an empty Router with no focus.
func NewRouter() *Router {
	return &Router{AppKeys: map[string]func() Result{}, FocusedIdx: -1}
}

// BuildFocusRing walks tree and inst in lockstep (the same shape,
// since layout.Tree was computed from the post-commit vnode tree that
// inst.VNode now equals) and collects every focusable, non-disabled
// leaf in document order, replacing r.FocusRing. The previously
// focused id is preserved if it still appears in the new ring;
// otherwise focus is cleared.
func (r *Router) BuildFocusRing(tree *layout.Tree, inst *runtime.Instance) {
	var prevID runtime.ID
	hadFocus := r.FocusedIdx >= 0 && r.FocusedIdx < len(r.FocusRing)
	if hadFocus {
		prevID = r.FocusRing[r.FocusedIdx].ID
	}

	var entries []Entry
	collectFocusRing(tree, inst, &entries)
	r.FocusRing = entries

	r.FocusedIdx = -1
	if hadFocus {
		for i, e := range entries {
			if e.ID == prevID {
				r.FocusedIdx = i
				break
			}
		}
	}
}

func collectFocusRing(t *layout.Tree, inst *runtime.Instance, out *[]Entry) {
	if t == nil || t.Node == nil {
		return
	}
	if hittest.Focusable(t.Node.Kind) && !vnode.Get(t.Node, "disabled", false) {
		var id runtime.ID
		if inst != nil {
			id = inst.ID
		}
		*out = append(*out, Entry{ID: id, Node: t.Node})
	}
	for i, c := range t.Children {
		var childInst *runtime.Instance
		if inst != nil && i < len(inst.Children) {
			childInst = inst.Children[i]
		}
		collectFocusRing(c, childInst, out)
	}
}

// Focused returns the currently focused entry, or ok=false if none.
func (r *Router) Focused() (Entry, bool) {
	if r.FocusedIdx < 0 || r.FocusedIdx >= len(r.FocusRing) {
		return Entry{}, false
	}
	return r.FocusRing[r.FocusedIdx], true
}

// topOverlay returns the topmost overlay, or ok=false if none is
// open.
func (r *Router) topOverlay() (Overlay, bool) {
	if len(r.Overlays) == 0 {
		return Overlay{}, false
	}
	return r.Overlays[len(r.Overlays)-1], true
}

// HandleKey routes one keyboard Key through the precedence chain of
// spec.md §4.10 steps 1, 2, 3, 4, and 6 (step 5 is HandleMouse).
func (r *Router) HandleKey(k Key) Result {
	if overlay, ok := r.topOverlay(); ok {
		// Step 1: Esc always closes the topmost overlay.
		if k.Name == "esc" {
			r.Overlays = r.Overlays[:len(r.Overlays)-1]
			if overlay.OnClose != nil {
				res := overlay.OnClose()
				res.Handled = true
				return res
			}
			return Result{Handled: true, DirtyRender: true}
		}
		// Step 2: the overlay's own shortcut table.
		if fn, ok := overlay.Shortcuts[k.Binding()]; ok {
			res := fn()
			res.Handled = true
			return res
		}
		// While an overlay is open, only control-byte-synthesized
		// bindings fall through to app keybindings (spec.md §4.10 step
		// 3: "text events do not route to app bindings except for
		// these control bytes"). A plain, unmodified printable rune
		// never escapes the overlay.
		if k.Ctrl || k.Name != "" {
			if res, ok := r.routeAppKey(k); ok {
				return res
			}
		}
		return Result{Handled: true} // swallowed by the modal overlay
	}

	// Step 3: app-level keybinding table.
	if res, ok := r.routeAppKey(k); ok {
		return res
	}

	// Step 4: focused-widget keyboard routing.
	if entry, ok := r.Focused(); ok {
		if act, handled := widgetKeyAction(entry.Node, entry.ID, k); handled {
			return Result{Action: act, Handled: true}
		}
	}

	// Step 6: Tab/Shift+Tab focus cycling.
	if k.Name == "tab" {
		r.cycleFocus(!k.Shift)
		return Result{Handled: true, DirtyRender: true}
	}

	return Result{}
}

func (r *Router) routeAppKey(k Key) (Result, bool) {
	fn, ok := r.AppKeys[k.Binding()]
	if !ok {
		return Result{}, false
	}
	res := fn()
	res.Handled = true
	return res, true
}

// cycleFocus advances the focus ring by one position, wrapping
// around, in document order (forward) or reverse (Shift+Tab).
func (r *Router) cycleFocus(forward bool) {
	if len(r.FocusRing) == 0 {
		r.FocusedIdx = -1
		return
	}
	if r.FocusedIdx < 0 {
		if forward {
			r.FocusedIdx = 0
		} else {
			r.FocusedIdx = len(r.FocusRing) - 1
		}
		return
	}
	if forward {
		r.FocusedIdx = (r.FocusedIdx + 1) % len(r.FocusRing)
	} else {
		r.FocusedIdx = (r.FocusedIdx - 1 + len(r.FocusRing)) % len(r.FocusRing)
	}
}

// MouseInput is the subset of a decoded MouseEvent the router needs.
type MouseInput struct {
	X, Y      int
	Down      bool
	Up        bool
	ScrollX   int
	ScrollY   int
	IsScroll  bool
}

// HandleMouse implements spec.md §4.10 step 5: dispatch to the widget
// whose rect contains (x, y) per hit test, or scroll the nearest
// scroll container. tree/inst must be the same committed pair
// BuildFocusRing was last called with.
func (r *Router) HandleMouse(tree *layout.Tree, inst *runtime.Instance, m MouseInput) Result {
	if m.IsScroll {
		target, targetID := nearestScrollContainer(tree, inst, m.X, m.Y)
		if target == nil {
			return Result{}
		}
		return Result{
			Action:  &Action{ID: targetID, Action: "scroll", Value: [2]int{m.ScrollX, m.ScrollY}},
			Handled: true,
		}
	}

	hitNode := hittest.At(tree, m.X, m.Y)
	if hitNode == nil {
		return Result{}
	}
	id := lookupID(tree, inst, hitNode)

	if m.Down {
		// Clicking a focusable widget moves focus to it (spec.md
		// §4.10 step 5 implies this: mouse routing and the focus ring
		// share the same focusable-widget population).
		for i, e := range r.FocusRing {
			if e.ID == id {
				r.FocusedIdx = i
				break
			}
		}
		return Result{Action: &Action{ID: id, Action: "press"}, Handled: true, DirtyRender: true}
	}
	if m.Up {
		return Result{Action: &Action{ID: id, Action: "release"}, Handled: true}
	}
	return Result{Handled: true}
}

func lookupID(t *layout.Tree, inst *runtime.Instance, target *vnode.Node) runtime.ID {
	if t == nil || t.Node == nil {
		return 0
	}
	if t.Node == target {
		if inst != nil {
			return inst.ID
		}
		return 0
	}
	for i, c := range t.Children {
		var childInst *runtime.Instance
		if inst != nil && i < len(inst.Children) {
			childInst = inst.Children[i]
		}
		if id := lookupID(c, childInst, target); id != 0 {
			return id
		}
	}
	return 0
}

// scrollableKinds is the closed set of kinds that own a scroll offset
// and therefore can be "the nearest scroll container" for a wheel
// event (spec.md §4.10 step 5).
var scrollableKinds = map[vnode.Kind]bool{
	vnode.KindVirtualList: true,
	vnode.KindTable:       true,
	vnode.KindTree:        true,
	vnode.KindCodeEditor:  true,
}

// nearestScrollContainer walks from the deepest node containing
// (x, y) back up to the root, returning the first ancestor (or the
// node itself) that owns a scroll offset.
func nearestScrollContainer(t *layout.Tree, inst *runtime.Instance, x, y int) (*vnode.Node, runtime.ID) {
	if t == nil || !t.Rect.Contains(x, y) {
		return nil, 0
	}
	for i := len(t.Children) - 1; i >= 0; i-- {
		var childInst *runtime.Instance
		if inst != nil && i < len(inst.Children) {
			childInst = inst.Children[i]
		}
		if n, id := nearestScrollContainer(t.Children[i], childInst, x, y); n != nil {
			return n, id
		}
	}
	if t.Node != nil && scrollableKinds[t.Node.Kind] {
		var id runtime.ID
		if inst != nil {
			id = inst.ID
		}
		return t.Node, id
	}
	return nil, 0
}
