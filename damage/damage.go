// Package damage decides, once per commit, whether a frame can be
// rendered incrementally and if so which screen regions actually
// changed (spec.md §4.7). It never mutates the drawlist itself; it
// only produces the set of instance IDs and rects the render pipeline
// (package render) should revisit.
//
// Grounded on the teacher's region-invalidation convention in
// core/render.go's RenderWindow.rendered-bounds bookkeeping, adapted
// from "accumulate a single dirty bounding box per paint" (the
// teacher targets a GPU/raster full-repaint backend) to the spec's
// finer-grained id-and-rect-set model, since a terminal backend can
// cheaply redraw disjoint regions but not partial cells.
package damage

import (
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/vnode"
)

// FocusDelta carries the focused instance id before and after this
// frame's input processing, feeding the transient dirty set
// (spec.md §4.7: "any instance whose id equals the previously-focused
// or newly-focused id").
type FocusDelta struct {
	PrevID   runtime.ID
	HasPrev  bool
	NextID   runtime.ID
	HasNext  bool
}

// DisableFlags are the six conditions spec.md §4.7 lists as each
// independently sufficient to force a full redraw.
type DisableFlags struct {
	NoPriorFrame      bool
	ForcedRelayout    bool
	ActiveTransitions bool
	ViewportChanged   bool
	ThemeChanged      bool
	OverlaysOpen      bool
}

func (f DisableFlags) incrementalDisabled() bool {
	return f.NoPriorFrame || f.ForcedRelayout || f.ActiveTransitions ||
		f.ViewportChanged || f.ThemeChanged || f.OverlaysOpen
}

// Result is the output contract of spec.md §4.7: either a full-redraw
// signal, or a set of changed/removed instance ids plus the damage
// rects covering them.
type Result struct {
	FullRedraw bool
	Rects      []layout.Rect
	Changed    []runtime.ID
	Removed    []runtime.ID
}

// fullRedrawAreaThreshold is the 45% of viewport cells spec.md §4.7
// names as the point past which incremental stops paying for itself.
const fullRedrawAreaThreshold = 0.45

// Compute implements spec.md §4.7. prevRects and nextRects are keyed
// by instance id and give each surviving instance's previous and
// current rect, at whatever granularity the caller's layout pass
// tracked them (the render pipeline, package render, is expected to
// track rects for every granular-kind instance). nextRoot is the tree
// runtime.Commit just produced; prevRoot is the tree snapshot taken
// before that commit ran, used only to discover which granular
// instances existed last frame and no longer do.
func Compute(prevRoot, nextRoot *runtime.Instance, prevRects, nextRects map[runtime.ID]layout.Rect, viewport layout.Rect, focus FocusDelta, flags DisableFlags) Result {
	if flags.incrementalDisabled() {
		return Result{FullRedraw: true}
	}

	markLayoutDirty(nextRoot, prevRects, nextRects)
	markTransientDirty(nextRoot, focus)
	recomputeDirty(nextRoot)

	changedSet := map[runtime.ID]bool{}
	collectChangedIDs(nextRoot, changedSet)

	prevGranular := collectGranularIDs(prevRoot)
	nextGranular := collectGranularIDs(nextRoot)
	var removed []runtime.ID
	for id := range prevGranular {
		if !nextGranular[id] {
			removed = append(removed, id)
		}
	}

	if len(changedSet) == 0 && len(removed) == 0 {
		return Result{}
	}

	var rects []layout.Rect
	for id := range changedSet {
		if r, ok := unionRect(prevRects, nextRects, id); ok {
			if r, ok := layout.Clip(r, viewport); ok {
				rects = append(rects, r)
			}
		}
	}
	for _, id := range removed {
		if r, ok := prevRects[id]; ok {
			if r, ok := layout.Clip(r, viewport); ok {
				rects = append(rects, r)
			}
		}
	}

	merged := mergeRects(rects)
	if viewportArea := viewport.W * viewport.H; viewportArea > 0 {
		total := 0
		for _, r := range merged {
			total += r.W * r.H
		}
		if float64(total) > fullRedrawAreaThreshold*float64(viewportArea) {
			return Result{FullRedraw: true}
		}
	}

	changed := make([]runtime.ID, 0, len(changedSet))
	for id := range changedSet {
		changed = append(changed, id)
	}
	return Result{Rects: merged, Changed: changed, Removed: removed}
}

func unionRect(prevRects, nextRects map[runtime.ID]layout.Rect, id runtime.ID) (layout.Rect, bool) {
	prev, hasPrev := prevRects[id]
	next, hasNext := nextRects[id]
	switch {
	case hasPrev && hasNext:
		return layout.Union(prev, next), true
	case hasNext:
		return next, true
	case hasPrev:
		return prev, true
	default:
		return layout.Rect{}, false
	}
}

// markLayoutDirty sets SelfDirty on every instance whose rect changed
// between frames (spec.md §4.7 "layout-driven dirty set").
func markLayoutDirty(root *runtime.Instance, prevRects, nextRects map[runtime.ID]layout.Rect) {
	root.WalkDown(func(inst *runtime.Instance) bool {
		prev, hasPrev := prevRects[inst.ID]
		next, hasNext := nextRects[inst.ID]
		if hasPrev != hasNext || (hasPrev && hasNext && prev != next) {
			inst.SelfDirty = true
		}
		return true
	})
}

// markTransientDirty marks the previously- and newly-focused instance,
// plus every spinner, dirty every frame (spec.md §4.7 "transient dirty
// set").
func markTransientDirty(root *runtime.Instance, focus FocusDelta) {
	root.WalkDown(func(inst *runtime.Instance) bool {
		if focus.HasPrev && inst.ID == focus.PrevID {
			inst.SelfDirty = true
		}
		if focus.HasNext && inst.ID == focus.NextID {
			inst.SelfDirty = true
		}
		if inst.VNode != nil && inst.VNode.Kind == vnode.KindSpinner {
			inst.SelfDirty = true
		}
		return true
	})
}

// recomputeDirty re-derives Dirty bottom-up after markLayoutDirty and
// markTransientDirty may have flipped SelfDirty bits that Commit never
// saw (it ran before layout and before this frame's focus delta were
// known).
func recomputeDirty(inst *runtime.Instance) bool {
	if inst == nil {
		return false
	}
	dirty := inst.SelfDirty
	for _, c := range inst.Children {
		if recomputeDirty(c) {
			dirty = true
		}
	}
	inst.Dirty = dirty
	return dirty
}

// collectChangedIDs descends only into dirty subtrees; a self_dirty
// node damages its entire subtree at damage granularity (spec.md
// §4.7).
func collectChangedIDs(inst *runtime.Instance, out map[runtime.ID]bool) {
	if inst == nil || !inst.Dirty {
		return
	}
	if inst.SelfDirty {
		markSubtreeDamaged(inst, out)
		return
	}
	for _, c := range inst.Children {
		collectChangedIDs(c, out)
	}
}

func markSubtreeDamaged(inst *runtime.Instance, out map[runtime.ID]bool) {
	if inst == nil {
		return
	}
	if inst.VNode != nil && isGranular(inst.VNode.Kind) {
		out[inst.ID] = true
	}
	for _, c := range inst.Children {
		markSubtreeDamaged(c, out)
	}
}

func collectGranularIDs(root *runtime.Instance) map[runtime.ID]bool {
	out := map[runtime.ID]bool{}
	root.WalkDown(func(inst *runtime.Instance) bool {
		if inst.VNode != nil && isGranular(inst.VNode.Kind) {
			out[inst.ID] = true
		}
		return true
	})
	return out
}

// isGranular is "damage granularity" from spec.md §4.7: leaves and a
// closed list of text-like/widget-like kinds are granular; structural
// containers are not (their change always propagates to children
// instead of being reported at the container's own id).
func isGranular(k vnode.Kind) bool { return !k.IsStructural() }

// mergeRects iteratively unions any two rects that overlap or touch,
// per spec.md §4.7, until no further merge is possible.
func mergeRects(rects []layout.Rect) []layout.Rect {
	for {
		merged := false
		for i := 0; i < len(rects); i++ {
			for j := i + 1; j < len(rects); j++ {
				if overlapsOrTouches(rects[i], rects[j]) {
					rects[i] = layout.Union(rects[i], rects[j])
					rects = append(rects[:j], rects[j+1:]...)
					merged = true
					break
				}
			}
			if merged {
				break
			}
		}
		if !merged {
			return rects
		}
	}
}

func overlapsOrTouches(a, b layout.Rect) bool {
	xTouch := a.X <= b.X+b.W && b.X <= a.X+a.W
	yTouch := a.Y <= b.Y+b.H && b.Y <= a.Y+a.H
	return xTouch && yTouch
}
