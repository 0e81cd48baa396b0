package damage

import (
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/vnode"
)

func commitFresh(n *vnode.Node) *runtime.Instance {
	alloc := runtime.NewSeqAllocator()
	inst, _ := runtime.Commit(nil, n, alloc, runtime.Options{})
	return inst
}

func sortedIDs(ids []runtime.ID) []runtime.ID {
	out := append([]runtime.ID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func TestComputeForcesFullRedrawOnFirstFrame(t *testing.T) {
	root := commitFresh(vnode.Row(nil, vnode.Text("a")))
	result := Compute(nil, root, nil, nil, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{NoPriorFrame: true})
	if !result.FullRedraw {
		t.Fatal("expected full redraw with no prior frame")
	}
}

func TestComputeForcesFullRedrawWhenOverlaysOpen(t *testing.T) {
	root := commitFresh(vnode.Text("a"))
	result := Compute(root, root, nil, nil, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{OverlaysOpen: true})
	if !result.FullRedraw {
		t.Fatal("expected full redraw when an overlay is open")
	}
}

func TestComputeNoChangesYieldsEmptyResult(t *testing.T) {
	root := commitFresh(vnode.Row(nil, vnode.Text("a")))
	// A leaf clean of self_dirty (no commit happened this frame,
	// layout and focus both unchanged) must produce no damage.
	root.SelfDirty = false
	root.Dirty = false
	root.Children[0].SelfDirty = false
	root.Children[0].Dirty = false

	rects := map[runtime.ID]layout.Rect{
		root.ID:             {X: 0, Y: 0, W: 10, H: 1},
		root.Children[0].ID: {X: 0, Y: 0, W: 1, H: 1},
	}
	result := Compute(root, root, rects, rects, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{})
	if result.FullRedraw {
		t.Fatal("did not expect a full redraw")
	}
	if len(result.Changed) != 0 || len(result.Removed) != 0 {
		t.Fatalf("expected no damage, got %+v", result)
	}
}

func TestComputeReportsChangedLeafAtGranularity(t *testing.T) {
	text := vnode.Text("a")
	root := commitFresh(vnode.Row(nil, text))
	root.SelfDirty, root.Dirty = false, true
	root.Children[0].SelfDirty, root.Children[0].Dirty = true, true

	rects := map[runtime.ID]layout.Rect{
		root.ID:             {X: 0, Y: 0, W: 10, H: 1},
		root.Children[0].ID: {X: 0, Y: 0, W: 1, H: 1},
	}
	result := Compute(root, root, rects, rects, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{})
	if result.FullRedraw {
		t.Fatal("did not expect a full redraw")
	}
	want := []runtime.ID{root.Children[0].ID}
	if diff := cmp.Diff(want, sortedIDs(result.Changed), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("changed ids mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSelfDirtyContainerDamagesWholeSubtree(t *testing.T) {
	root := commitFresh(vnode.Row(nil, vnode.Text("a"), vnode.Text("b")))
	root.SelfDirty, root.Dirty = true, true
	root.Children[0].SelfDirty, root.Children[0].Dirty = false, false
	root.Children[1].SelfDirty, root.Children[1].Dirty = false, false

	rects := map[runtime.ID]layout.Rect{
		root.ID:             {X: 0, Y: 0, W: 10, H: 1},
		root.Children[0].ID: {X: 0, Y: 0, W: 1, H: 1},
		root.Children[1].ID: {X: 1, Y: 0, W: 1, H: 1},
	}
	result := Compute(root, root, rects, rects, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{})
	want := []runtime.ID{root.Children[0].ID, root.Children[1].ID}
	if diff := cmp.Diff(want, sortedIDs(result.Changed), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("expected the whole subtree damaged (-want +got):\n%s", diff)
	}
}

func TestComputeLayoutMovedRectMarksSelfDirty(t *testing.T) {
	root := commitFresh(vnode.Text("a"))
	root.SelfDirty, root.Dirty = false, false

	prevRects := map[runtime.ID]layout.Rect{root.ID: {X: 0, Y: 0, W: 1, H: 1}}
	nextRects := map[runtime.ID]layout.Rect{root.ID: {X: 5, Y: 0, W: 1, H: 1}}
	result := Compute(root, root, prevRects, nextRects, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{})
	if len(result.Changed) != 1 || result.Changed[0] != root.ID {
		t.Fatalf("expected the moved instance reported as changed, got %+v", result)
	}
}

func TestComputeRemovedInstanceIsReported(t *testing.T) {
	prevRoot := commitFresh(vnode.Row(nil, vnode.Text("a"), vnode.Text("b")))
	nextRoot := commitFresh(vnode.Row(nil, vnode.Text("a")))
	removedID := prevRoot.Children[1].ID

	prevRects := map[runtime.ID]layout.Rect{
		prevRoot.ID:             {X: 0, Y: 0, W: 10, H: 1},
		prevRoot.Children[0].ID: {X: 0, Y: 0, W: 1, H: 1},
		prevRoot.Children[1].ID: {X: 1, Y: 0, W: 1, H: 1},
	}
	nextRoot.SelfDirty, nextRoot.Dirty = false, false
	nextRoot.Children[0].SelfDirty, nextRoot.Children[0].Dirty = false, false
	nextRects := map[runtime.ID]layout.Rect{
		nextRoot.ID:             {X: 0, Y: 0, W: 10, H: 1},
		nextRoot.Children[0].ID: {X: 0, Y: 0, W: 1, H: 1},
	}

	result := Compute(prevRoot, nextRoot, prevRects, nextRects, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{})
	if len(result.Removed) != 1 || result.Removed[0] != removedID {
		t.Fatalf("expected removed id %v, got %+v", removedID, result.Removed)
	}
}

func TestComputeFocusChangeMarksBothInstancesDirty(t *testing.T) {
	root := commitFresh(vnode.Row(nil, vnode.Button(vnode.Props{"label": "a"}), vnode.Button(vnode.Props{"label": "b"})))
	root.SelfDirty, root.Dirty = false, false
	for _, c := range root.Children {
		c.SelfDirty, c.Dirty = false, false
	}
	rects := map[runtime.ID]layout.Rect{
		root.ID:             {X: 0, Y: 0, W: 10, H: 1},
		root.Children[0].ID: {X: 0, Y: 0, W: 5, H: 1},
		root.Children[1].ID: {X: 5, Y: 0, W: 5, H: 1},
	}
	focus := FocusDelta{HasPrev: true, PrevID: root.Children[0].ID, HasNext: true, NextID: root.Children[1].ID}
	result := Compute(root, root, rects, rects, layout.Rect{W: 80, H: 24}, focus, DisableFlags{})
	want := []runtime.ID{root.Children[0].ID, root.Children[1].ID}
	if diff := cmp.Diff(want, sortedIDs(result.Changed), cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("focus delta damage mismatch (-want +got):\n%s", diff)
	}
}

func TestComputeSpinnerIsAlwaysDirty(t *testing.T) {
	root := commitFresh(vnode.Spinner(nil))
	root.SelfDirty, root.Dirty = false, false
	rects := map[runtime.ID]layout.Rect{root.ID: {X: 0, Y: 0, W: 1, H: 1}}
	result := Compute(root, root, rects, rects, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{})
	if len(result.Changed) != 1 || result.Changed[0] != root.ID {
		t.Fatalf("expected the spinner reported dirty every frame, got %+v", result)
	}
}

func TestComputeLargeDamageAreaTriggersFullRedraw(t *testing.T) {
	root := commitFresh(vnode.Text("a"))
	root.SelfDirty, root.Dirty = true, true
	rects := map[runtime.ID]layout.Rect{root.ID: {X: 0, Y: 0, W: 80, H: 20}}
	result := Compute(root, root, rects, rects, layout.Rect{W: 80, H: 24}, FocusDelta{}, DisableFlags{})
	if !result.FullRedraw {
		t.Fatal("expected damage covering most of the viewport to trigger a full redraw")
	}
}

func TestComputeTouchingRectsMerge(t *testing.T) {
	a := layout.Rect{X: 0, Y: 0, W: 2, H: 1}
	b := layout.Rect{X: 2, Y: 0, W: 2, H: 1}
	merged := mergeRects([]layout.Rect{a, b})
	if len(merged) != 1 {
		t.Fatalf("expected touching rects to merge into one, got %d: %+v", len(merged), merged)
	}
	want := layout.Rect{X: 0, Y: 0, W: 4, H: 1}
	if merged[0] != want {
		t.Fatalf("merged rect = %+v, want %+v", merged[0], want)
	}
}

func TestComputeDisjointRectsDoNotMerge(t *testing.T) {
	a := layout.Rect{X: 0, Y: 0, W: 1, H: 1}
	b := layout.Rect{X: 10, Y: 10, W: 1, H: 1}
	merged := mergeRects([]layout.Rect{a, b})
	if len(merged) != 2 {
		t.Fatalf("expected disjoint rects to stay separate, got %d", len(merged))
	}
}
