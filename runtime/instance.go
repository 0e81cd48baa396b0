// Package runtime holds the persistent instance tree that survives
// across frames, and the Commit operation that reconciles it against a
// freshly produced vnode.Node tree (spec.md §4.6).
//
// Grounded on the teacher's tree.Node-walking convention — WalkDown
// returning a tree.Continue/tree.Break sentinel (core/tree.go) — but
// generalized from "walk a single live tree" to "walk two trees in
// lockstep and reconcile," since the teacher's widget tree is mutated
// in place by user code rather than replaced wholesale each frame.
package runtime

import (
	"log/slog"

	"github.com/vterm/vterm/vnode"
)

// ID names a runtime instance. Allocated once at mount and stable for
// the instance's lifetime, independent of its position in the tree.
type ID uint32

// Allocator hands out instance IDs. Injected into Commit so tests can
// supply a deterministic sequence instead of depending on process-wide
// state (spec.md §4.6: "so tests can use a fixed seed").
type Allocator interface {
	NextID() ID
}

// SeqAllocator is the default Allocator: a monotonically increasing
// counter. Zero value starts at 1, so 0 can be reserved as "no ID" if
// a caller ever needs that sentinel.
type SeqAllocator struct {
	next ID
}

func NewSeqAllocator() *SeqAllocator { return &SeqAllocator{next: 1} }

func (a *SeqAllocator) NextID() ID {
	if a.next == 0 {
		a.next = 1
	}
	id := a.next
	a.next++
	return id
}

// UnmountCallback is a user-supplied on_unmount or effect-cleanup
// hook. Panics from it are recovered and reported rather than let to
// unwind through commit (spec.md §4.6 "Unmount semantics").
type UnmountCallback func()

// Instance is one persistent node in the committed tree. It carries
// the vnode it was last reconciled against, its stable ID, dirty
// bits, and whatever per-instance state survives across frames
// (error-boundary state, unmount hooks) that a pure vnode.Node cannot
// hold.
type Instance struct {
	ID       ID
	VNode    *vnode.Node
	Children []*Instance

	// SelfDirty is true when this instance's own visual or
	// routing-relevant props changed this commit. Dirty is the
	// propagated OR of SelfDirty and every child's Dirty
	// (spec.md §4.6 step 6).
	SelfDirty bool
	Dirty     bool

	// ErrorBoundaryState is opaque per-instance state kept only for
	// errorBoundary-kind instances: the caught error (if any) and
	// whether the fallback is currently showing. Cleared on unmount.
	ErrorBoundaryState *ErrorBoundaryState

	// UnmountCallbacks run exactly once when this instance is
	// unmounted, in registration order.
	UnmountCallbacks []UnmountCallback

	// HasTransition marks an instance as having an animation track.
	// Commit clears it on unmount; nothing in this module sets it, and
	// the scheduler (package vterm) drops tracks of removed instances
	// from its own anim.Set instead.
	HasTransition bool
}

// ErrorBoundaryState is the caught-error state an errorBoundary-kind
// instance owns, isolated between nested boundaries per spec.md §4.9.
type ErrorBoundaryState struct {
	Err     error
	Showing bool
}

// WalkDown visits inst and every descendant, depth-first, in child
// order. visit returning false stops the walk early (mirroring the
// teacher's tree.Continue/tree.Break convention, spec.md has no
// equivalent sentinel so a bool suffices here).
func (inst *Instance) WalkDown(visit func(*Instance) bool) {
	if inst == nil {
		return
	}
	if !visit(inst) {
		return
	}
	for _, c := range inst.Children {
		c.WalkDown(visit)
	}
}

// runUnmountCallbacks fires every registered callback for inst,
// recovering panics and reporting them through onUserCodeError rather
// than letting them interrupt the surrounding commit walk
// (spec.md §4.6, §4.9 "Callback errors ... do not interrupt").
func runUnmountCallbacks(inst *Instance, log *slog.Logger, onUserCodeError func(error)) {
	for _, cb := range inst.UnmountCallbacks {
		callGuarded(cb, log, onUserCodeError)
	}
}

func callGuarded(cb UnmountCallback, log *slog.Logger, onUserCodeError func(error)) {
	defer func() {
		if r := recover(); r != nil {
			err := panicToError(r)
			if log != nil {
				log.Warn("unmount callback panicked", "error", err)
			}
			if onUserCodeError != nil {
				onUserCodeError(err)
			}
		}
	}()
	cb()
}

func panicToError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return &panicValue{v: r}
}

type panicValue struct{ v any }

func (p *panicValue) Error() string { return "panic: " + formatAny(p.v) }

func formatAny(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if st, ok := v.(interface{ String() string }); ok {
		return st.String()
	}
	return "non-string panic value"
}
