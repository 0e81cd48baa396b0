package vterm

import (
	"context"
	"time"

	"github.com/vterm/vterm/damage"
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/render"
	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

// collectRects walks tree and inst in lockstep, building the rect
// index damage.Compute needs (spec.md §4.7). Valid because inst.VNode
// is pointer-identical to tree.Node for every instance that survived
// the commit that produced tree, the same invariant package input
// relies on for its own lockstep walks (input.lookupID).
func collectRects(tree *layout.Tree, inst *runtime.Instance, out map[runtime.ID]layout.Rect) {
	if tree == nil || tree.Node == nil || inst == nil {
		return
	}
	out[inst.ID] = tree.Rect
	for i, c := range tree.Children {
		var childInst *runtime.Instance
		if i < len(inst.Children) {
			childInst = inst.Children[i]
		}
		collectRects(c, childInst, out)
	}
}

// collectViewportAware reports whether any instance in the tree
// opted into "promote resize to DIRTY_VIEW" by setting
// props["viewport_aware"] (spec.md §4.9 "a 'viewport-aware' flag set
// during render" — concretely, a prop the view function sets on any
// node that read the viewport size while building this tree).
func collectViewportAware(inst *runtime.Instance) bool {
	aware := false
	inst.WalkDown(func(i *runtime.Instance) bool {
		if i.VNode != nil && i.VNode.Props != nil {
			if v, ok := i.VNode.Props["viewport_aware"].(bool); ok && v {
				aware = true
				return false
			}
		}
		return true
	})
	return aware
}

// runPipeline executes one pass of spec.md §4.9's frame plan in §5's
// fixed step order (apply state updates, view, commit, layout, render,
// each gated by the current dirty bits) and, on success, submits the
// resulting bytes to the backend. It returns a *verror.Error only for
// BackendFailure, when RequestFrame fails; a view throw or a fatal
// layout error is handled internally by switching to the crash screen
// rather than propagating.
func (a *App) runPipeline(ctx context.Context) *verror.Error {
	a.mu.Lock()
	dirty := a.dirty
	a.dirty = 0
	updates := a.pendingUpdates
	a.pendingUpdates = nil
	state := a.state
	view := a.view
	viewport := a.viewport
	theme := a.theme
	baseStyle := a.baseStyle
	overlaysOpen := len(a.router.Overlays) > 0
	crashed := a.crashed
	crashErr := a.crashErr
	forceFull := a.forceFullRedraw
	a.forceFullRedraw = false
	a.mu.Unlock()

	// Apply queued state updates in insertion order before view runs
	// (spec.md §5: "apply state updates (in insertion order) → view").
	if len(updates) > 0 {
		state = a.applyUpdates(state, updates)
		a.mu.Lock()
		a.state = state
		a.mu.Unlock()
	}

	now := time.Now()
	activeTransitions := a.tracks.Active(now)

	firstFrame := !a.hasRendered
	if firstFrame {
		dirty |= dirtyView
	}
	if activeTransitions {
		dirty |= dirtyRender
	}
	if dirty == 0 {
		return nil
	}

	prevRoot := a.root
	prevTree := a.tree
	prevRects := a.rects
	prevFocusID, prevHasFocus := runtime.ID(0), false
	if f, ok := a.router.Focused(); ok {
		prevFocusID, prevHasFocus = f.ID, true
	}

	newRoot := prevRoot
	newTree := prevTree

	if dirty.has(dirtyView) {
		var built *vnode.Node
		var err error
		if crashed {
			built = crashScreen(crashErr)
		} else if view == nil {
			built = nil
		} else {
			built, err = a.safeView(state)
			if err != nil {
				a.mu.Lock()
				a.crashed = true
				a.crashErr = err
				a.mu.Unlock()
				built = crashScreen(err)
			}
		}
		if built != nil {
			built = a.resolveBoundaries(built)
		}

		inst, _ := runtime.Commit(prevRoot, built, a.alloc, runtime.Options{
			Log:             a.log,
			OnUserCodeError: a.reportUserCodeError,
		})
		newRoot = inst
		dirty |= dirtyLayout
	}

	if newRoot == nil {
		return nil
	}

	if dirty.has(dirtyLayout) {
		tree, verr := layout.Layout(newRoot.VNode, 0, 0, viewport.W, viewport.H, layout.AxisColumn)
		if verr != nil {
			if verr.Fatal() {
				a.mu.Lock()
				a.crashed = true
				a.crashErr = verr
				a.mu.Unlock()
				fallbackTree, _ := layout.Layout(crashScreen(verr), 0, 0, viewport.W, viewport.H, layout.AxisColumn)
				newTree = fallbackTree
			}
		} else {
			newTree = tree
		}
		dirty |= dirtyRender
	}

	newRects := map[runtime.ID]layout.Rect{}
	collectRects(newTree, newRoot, newRects)

	a.router.BuildFocusRing(newTree, newRoot)
	newFocusID, newHasFocus := runtime.ID(0), false
	if f, ok := a.router.Focused(); ok {
		newFocusID, newHasFocus = f.ID, true
	}

	viewportChanged := viewport != a.lastViewport
	themeChanged := theme.Name != a.lastTheme

	dmg := damage.Compute(prevRoot, newRoot, prevRects, newRects, viewport,
		damage.FocusDelta{PrevID: prevFocusID, HasPrev: prevHasFocus, NextID: newFocusID, HasNext: newHasFocus},
		damage.DisableFlags{
			NoPriorFrame:      firstFrame,
			ForcedRelayout:    dirty.has(dirtyLayout),
			ActiveTransitions: activeTransitions,
			ViewportChanged:   viewportChanged,
			ThemeChanged:      themeChanged,
			OverlaysOpen:      overlaysOpen,
		},
	)
	if forceFull {
		dmg.FullRedraw = true
	}
	a.log.Debug("vterm: frame computed", "full_redraw", dmg.FullRedraw, "changed", len(dmg.Changed), "removed", len(dmg.Removed))
	for _, id := range dmg.Removed {
		a.cache.Drop(id)
		a.tracks.Drop(id)
	}

	focus := render.Focus{ID: newFocusID, OK: newHasFocus}
	a.builder.Reset()
	render.Frame(newTree, newRoot, viewport, theme, baseStyle, focus, a.tick, a.cache, a.builder)
	frame := a.builder.Build()

	reqCtx := ctx
	if a.cfg.FrameTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, a.cfg.FrameTimeout)
		defer cancel()
	}
	if err := a.backend.RequestFrame(reqCtx, frame.Bytes()); err != nil {
		return verror.Wrap(verror.BackendFailure, "request_frame rejected", err)
	}

	a.tracks.Settle(now)

	a.mu.Lock()
	a.root = newRoot
	a.tree = newTree
	a.rects = newRects
	a.lastViewport = viewport
	a.lastTheme = theme.Name
	a.hasRendered = true
	a.viewportAware = collectViewportAware(newRoot)
	a.overlaysOpen = overlaysOpen
	a.tick++
	if a.tracks.Active(now) {
		a.dirty |= dirtyRender
	}
	a.mu.Unlock()

	return nil
}

// applyUpdates runs each queued Mutator in order, recovering a panic
// into the on_user_code_error sink and leaving state unchanged for
// that one mutator rather than aborting the whole batch (spec.md §4.9
// "callback errors ... are caught, reported ..., and do not interrupt
// event routing").
func (a *App) applyUpdates(state any, updates []Mutator) any {
	for _, m := range updates {
		state = a.applyOneUpdate(state, m)
	}
	return state
}

func (a *App) applyOneUpdate(state any, m Mutator) (next any) {
	next = state
	defer func() {
		if r := recover(); r != nil {
			a.reportUserCodeError(toError(r))
			next = state
		}
	}()
	return m(state)
}

// submitFrame gates concurrent frame production behind the single
// in-flight slot spec.md §5 requires ("at most one frame is in-flight
// per submission channel"). If the slot is already held, the caller's
// dirtying has already been OR'd into a.dirty and will be picked up
// by whichever call currently holds the slot once it loops (spec.md
// §4.9 "coalesced frame fires once the ack arrives").
func (a *App) submitFrame(ctx context.Context) *verror.Error {
	if !a.frameSem.TryAcquire(1) {
		return nil
	}
	defer a.frameSem.Release(1)

	minInterval := a.cfg.minFrameInterval()
	var lastFrame time.Time
	for {
		a.mu.Lock()
		pending := a.dirty
		rendered := a.hasRendered
		a.mu.Unlock()
		if pending == 0 && rendered && !a.tracks.Active(time.Now()) {
			return nil
		}
		if !lastFrame.IsZero() {
			if wait := minInterval - time.Since(lastFrame); wait > 0 {
				select {
				case <-time.After(wait):
				case <-ctx.Done():
					return nil
				case <-a.stopCh:
					return nil
				}
			}
		}
		if verr := a.runPipeline(ctx); verr != nil {
			return verr
		}
		lastFrame = time.Now()

		a.mu.Lock()
		more := a.dirty != 0
		a.mu.Unlock()
		if !more && !a.tracks.Active(time.Now()) {
			return nil
		}
	}
}
