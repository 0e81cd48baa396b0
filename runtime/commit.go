package runtime

import (
	"log/slog"
	"reflect"

	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

// Options configures a Commit call. Log and OnUserCodeError are both
// optional; a nil OnUserCodeError silently drops callback panics
// (still recovered, never left to unwind commit).
type Options struct {
	Log             *slog.Logger
	OnUserCodeError func(error)
}

// Commit reconciles prev against next, implementing the six-step
// algorithm of spec.md §4.6. prev may be nil (first commit); next may
// be nil (unmount everything). The returned *verror.Error is currently
// always nil — reconciliation itself cannot fail, only the view
// function that produced next can, and that is caught upstream by the
// scheduler's error-boundary handling (spec.md §4.9) — but the
// signature returns one so callers don't need a follow-up API change
// if a future commit-time validation is added.
func Commit(prev *Instance, next *vnode.Node, alloc Allocator, opts Options) (*Instance, *verror.Error) {
	return commit(prev, next, alloc, opts), nil
}

func commit(prev *Instance, next *vnode.Node, alloc Allocator, opts Options) *Instance {
	// Step 2: nothing there yet, mount fresh.
	if prev == nil {
		if next == nil {
			return nil
		}
		return mount(next, alloc)
	}
	// next == nil: position held a child before, holds none now.
	if next == nil {
		unmount(prev, opts)
		return nil
	}
	// Step 3: reference identity short-circuit.
	if prev.VNode == next {
		prev.SelfDirty = false
		prev.Dirty = anyChildDirty(prev.Children)
		return prev
	}
	// Step 4: kind or key mismatch replaces the subtree wholesale.
	if prev.VNode.Kind != next.Kind || keysDiffer(prev.VNode, next) {
		unmount(prev, opts)
		inst := mount(next, alloc)
		inst.SelfDirty = true
		inst.Dirty = true
		return inst
	}
	// Step 5: reconcile in place.
	selfDirty := propsVisuallyDiffer(prev.VNode, next)
	prev.VNode = next
	prev.SelfDirty = selfDirty

	n := len(prev.Children)
	if len(next.Children) > n {
		n = len(next.Children)
	}
	children := make([]*Instance, 0, n)
	for i := 0; i < n; i++ {
		var prevChild *Instance
		if i < len(prev.Children) {
			prevChild = prev.Children[i]
		}
		var nextChild *vnode.Node
		if i < len(next.Children) {
			nextChild = next.Children[i]
		}
		if child := commit(prevChild, nextChild, alloc, opts); child != nil {
			children = append(children, child)
		}
	}
	prev.Children = children

	// Step 6: propagate.
	prev.Dirty = prev.SelfDirty || anyChildDirty(prev.Children)
	return prev
}

func anyChildDirty(children []*Instance) bool {
	for _, c := range children {
		if c.Dirty {
			return true
		}
	}
	return false
}

// keysDiffer reports whether either node carries an explicit Key and
// the two differ (spec.md §4.6 step 4). Absent keys never force a
// remount on their own; kind equality already guards that branch.
func keysDiffer(prev, next *vnode.Node) bool {
	if prev.Key == nil && next.Key == nil {
		return false
	}
	return prev.Key != next.Key
}

// propsVisuallyDiffer reports whether the visual or routing-relevant
// portion of a node's props changed (spec.md §4.6 step 5: "e.g. text,
// style, focus-id, or routing-class like 'interactive'"). Rather than
// maintain a fragile per-kind allow-list of which prop keys count as
// visual or routing-relevant, this compares Text and the full Props
// map: any prop change is treated as potentially visual, which is a
// safe over-approximation — a missed self_dirty would mean a stale
// frame, a spurious one only costs an extra render.
func propsVisuallyDiffer(prev, next *vnode.Node) bool {
	if prev.Text != next.Text {
		return true
	}
	return !reflect.DeepEqual(map[string]any(prev.Props), map[string]any(next.Props))
}

func mount(n *vnode.Node, alloc Allocator) *Instance {
	inst := &Instance{
		ID:    alloc.NextID(),
		VNode: n,
		// A freshly mounted instance is dirty by construction: it has
		// never been rendered, so there is no "previous frame" to diff
		// against.
		SelfDirty: true,
	}
	if len(n.Children) > 0 {
		inst.Children = make([]*Instance, len(n.Children))
		for i, c := range n.Children {
			inst.Children[i] = mount(c, alloc)
		}
	}
	inst.Dirty = inst.SelfDirty || anyChildDirty(inst.Children)
	return inst
}

// unmount tears inst and its whole subtree down, deepest first, per
// the semantics in spec.md §4.6: error boundary state cleared,
// transition tracks dropped, unmount/cleanup callbacks run once with
// panics caught rather than left to interrupt the surrounding commit.
func unmount(inst *Instance, opts Options) {
	if inst == nil {
		return
	}
	for _, c := range inst.Children {
		unmount(c, opts)
	}
	inst.ErrorBoundaryState = nil
	inst.HasTransition = false
	runUnmountCallbacks(inst, opts.Log, opts.OnUserCodeError)
	inst.UnmountCallbacks = nil
}
