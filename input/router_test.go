package input

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vterm/vterm/eventbatch"
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/vnode"
)

func commitAndLayout(n *vnode.Node, w, h int) (*layout.Tree, *runtime.Instance) {
	inst, _ := runtime.Commit(nil, n, runtime.NewSeqAllocator(), runtime.Options{})
	tree, verr := layout.Layout(n, 0, 0, w, h, layout.AxisColumn)
	if verr != nil {
		panic(verr)
	}
	return tree, inst
}

func TestFromTextEventSynthesizesCtrlLetter(t *testing.T) {
	k := FromTextEvent(eventbatch.TextEvent{Rune: 0x10}) // ctrl+p
	require.True(t, k.Ctrl)
	require.Equal(t, 'p', k.Rune)
	require.Equal(t, "ctrl+p", k.Binding())
}

func TestFromTextEventNeverSynthesizesTabOrEnter(t *testing.T) {
	tab := FromTextEvent(eventbatch.TextEvent{Rune: 0x09})
	require.Equal(t, "tab", tab.Name)
	require.False(t, tab.Ctrl)

	enter := FromTextEvent(eventbatch.TextEvent{Rune: 0x0d})
	require.Equal(t, "enter", enter.Name)
	require.False(t, enter.Ctrl)
}

func TestFromTextEventPlainRunePassesThrough(t *testing.T) {
	k := FromTextEvent(eventbatch.TextEvent{Rune: 'x'})
	require.Equal(t, "", k.Name)
	require.Equal(t, 'x', k.Rune)
	require.Equal(t, "x", k.Binding())
}

func TestFromKeyEventResolvesNamedCodes(t *testing.T) {
	k := FromKeyEvent(eventbatch.KeyEvent{Code: CodeUp})
	require.Equal(t, "up", k.Name)
}

func TestBuildFocusRingCollectsFocusableLeavesInOrder(t *testing.T) {
	n := vnode.Row(nil,
		vnode.Text("label"),
		vnode.Button(vnode.Props{"label": "a"}),
		vnode.Input(nil),
		vnode.Button(vnode.Props{"label": "b", "disabled": true}),
	)
	tree, inst := commitAndLayout(n, 40, 1)
	r := NewRouter()
	r.BuildFocusRing(tree, inst)
	require.Len(t, r.FocusRing, 2) // text and disabled button excluded
	require.Equal(t, vnode.KindButton, r.FocusRing[0].Node.Kind)
	require.Equal(t, vnode.KindInput, r.FocusRing[1].Node.Kind)
}

func TestBuildFocusRingPreservesFocusAcrossRebuild(t *testing.T) {
	n := vnode.Row(nil, vnode.Button(vnode.Props{"label": "a"}), vnode.Input(nil))
	tree, inst := commitAndLayout(n, 40, 1)
	r := NewRouter()
	r.BuildFocusRing(tree, inst)
	r.FocusedIdx = 1
	focusedID := r.FocusRing[1].ID

	r.BuildFocusRing(tree, inst)
	entry, ok := r.Focused()
	require.True(t, ok)
	require.Equal(t, focusedID, entry.ID)
}

func TestTabCyclesFocusForwardAndWraps(t *testing.T) {
	n := vnode.Row(nil, vnode.Button(vnode.Props{"label": "a"}), vnode.Button(vnode.Props{"label": "b"}))
	tree, inst := commitAndLayout(n, 40, 1)
	r := NewRouter()
	r.BuildFocusRing(tree, inst)

	res := r.HandleKey(Key{Name: "tab"})
	require.True(t, res.DirtyRender)
	require.Equal(t, 0, r.FocusedIdx)

	r.HandleKey(Key{Name: "tab"})
	require.Equal(t, 1, r.FocusedIdx)

	r.HandleKey(Key{Name: "tab"})
	require.Equal(t, 0, r.FocusedIdx) // wraps
}

func TestShiftTabCyclesBackward(t *testing.T) {
	n := vnode.Row(nil, vnode.Button(vnode.Props{"label": "a"}), vnode.Button(vnode.Props{"label": "b"}))
	tree, inst := commitAndLayout(n, 40, 1)
	r := NewRouter()
	r.BuildFocusRing(tree, inst)

	r.HandleKey(Key{Name: "tab", Shift: true})
	require.Equal(t, 1, r.FocusedIdx)
}

func TestAppKeybindingTakesPrecedenceOverWidgetRouting(t *testing.T) {
	n := vnode.Input(nil)
	tree, inst := commitAndLayout(n, 40, 1)
	r := NewRouter()
	r.BuildFocusRing(tree, inst)
	r.FocusedIdx = 0

	called := false
	r.AppKeys["ctrl+p"] = func() Result { called = true; return Result{} }
	res := r.HandleKey(Key{Ctrl: true, Rune: 'p'})
	require.True(t, called)
	require.True(t, res.Handled)
}

func TestFocusedInputHandlesPlainTextWhenNoAppBindingMatches(t *testing.T) {
	n := vnode.Input(nil)
	tree, inst := commitAndLayout(n, 40, 1)
	r := NewRouter()
	r.BuildFocusRing(tree, inst)
	r.FocusedIdx = 0

	res := r.HandleKey(Key{Rune: 'x'})
	require.NotNil(t, res.Action)
	require.Equal(t, "input", res.Action.Action)
	require.Equal(t, "x", res.Action.Value)
}

func TestOverlayEscClosesTopmostOverlay(t *testing.T) {
	r := NewRouter()
	closed := false
	r.Overlays = []Overlay{{ID: 1, OnClose: func() Result { closed = true; return Result{} }}}
	res := r.HandleKey(Key{Name: "esc"})
	require.True(t, res.Handled)
	require.True(t, closed)
	require.Empty(t, r.Overlays)
}

func TestOverlayShortcutTakesPrecedenceOverAppKeys(t *testing.T) {
	r := NewRouter()
	overlayCalled, appCalled := false, false
	r.AppKeys["ctrl+s"] = func() Result { appCalled = true; return Result{} }
	r.Overlays = []Overlay{{
		ID:        1,
		Shortcuts: map[string]func() Result{"ctrl+s": func() Result { overlayCalled = true; return Result{} }},
	}}
	r.HandleKey(Key{Ctrl: true, Rune: 's'})
	require.True(t, overlayCalled)
	require.False(t, appCalled)
}

func TestOverlayOpenSwallowsPlainTextFromAppBindings(t *testing.T) {
	r := NewRouter()
	called := false
	r.AppKeys["p"] = func() Result { called = true; return Result{} }
	r.Overlays = []Overlay{{ID: 1}}
	res := r.HandleKey(Key{Rune: 'p'})
	require.False(t, called)
	require.True(t, res.Handled)
}

func TestOverlayOpenStillRoutesControlByteAppBindings(t *testing.T) {
	r := NewRouter()
	called := false
	r.AppKeys["ctrl+p"] = func() Result { called = true; return Result{} }
	r.Overlays = []Overlay{{ID: 1}}
	r.HandleKey(Key{Ctrl: true, Rune: 'p'})
	require.True(t, called)
}

func TestHandleMousePressDispatchesToHitWidgetAndMovesFocus(t *testing.T) {
	n := vnode.Row(nil, vnode.Button(vnode.Props{"label": "a"}), vnode.Button(vnode.Props{"label": "b"}))
	tree, inst := commitAndLayout(n, 40, 1)
	r := NewRouter()
	r.BuildFocusRing(tree, inst)

	res := r.HandleMouse(tree, inst, MouseInput{X: 0, Y: 0, Down: true})
	require.NotNil(t, res.Action)
	require.Equal(t, "press", res.Action.Action)
	require.Equal(t, 0, r.FocusedIdx)
}

func TestHandleMouseOutsideAnyWidgetIsNoOp(t *testing.T) {
	n := vnode.Row(nil, vnode.Button(vnode.Props{"label": "a"}))
	tree, inst := commitAndLayout(n, 40, 1)
	r := NewRouter()
	res := r.HandleMouse(tree, inst, MouseInput{X: 500, Y: 500, Down: true})
	require.False(t, res.Handled)
}

func TestHandleMouseScrollTargetsNearestScrollContainer(t *testing.T) {
	n := vnode.Column(nil, vnode.VirtualList(vnode.Props{"items": []string{"a", "b"}}))
	tree, inst := commitAndLayout(n, 20, 10)
	r := NewRouter()
	res := r.HandleMouse(tree, inst, MouseInput{X: 0, Y: 0, IsScroll: true, ScrollY: -1})
	require.NotNil(t, res.Action)
	require.Equal(t, "scroll", res.Action.Action)
}
