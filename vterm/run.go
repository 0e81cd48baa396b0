package vterm

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vterm/vterm/eventbatch"
	"github.com/vterm/vterm/input"
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/verror"
)

// Start runs the main loop in a new goroutine and returns immediately
// (spec.md §6.3 "app.start()"). Errors surfaced while running are
// only observable via OnUserCodeError / the crash screen / Stop being
// triggered automatically on a fatal backend/batch error; callers that
// want the blocking form should use Run instead.
func (a *App) Start(ctx context.Context) {
	go a.Run(ctx) //nolint:errcheck
}

// Run is the blocking main loop: spec.md §5's "engine main loop
// alternates between poll_events() and request_frame(bytes)." It
// returns when Stop is called, ctx is cancelled, or a fatal error
// (BatchMalformed, BackendFailure) occurs.
func (a *App) Run(ctx context.Context) error {
	for {
		select {
		case <-a.stopCh:
			return nil
		case <-ctx.Done():
			a.Stop()
			return ctx.Err()
		default:
		}

		batch, dropped, err := a.backend.PollEvents(ctx)
		if err != nil {
			if batch != nil {
				batch.Release()
			}
			a.Stop()
			return verror.Wrap(verror.BackendFailure, "poll_events failed", err)
		}
		if dropped > 0 {
			a.mu.Lock()
			a.forceFullRedraw = true
			a.dirty |= dirtyView
			a.mu.Unlock()
		}

		if batch != nil {
			for _, ev := range batch.Events() {
				a.handleEvent(ev)
			}
			batch.Release()
		}

		if verr := a.submitFrame(ctx); verr != nil {
			if verr.Fatal() {
				a.Stop()
				return verr
			}
		}

		select {
		case <-a.stopCh:
			return nil
		default:
		}
	}
}

// handleEvent routes one decoded event through the input router (or
// directly, for resize/focus/paste/user/engine kinds the router does
// not itself understand) and applies the resulting Result.
func (a *App) handleEvent(ev eventbatch.Event) {
	switch e := ev.(type) {
	case eventbatch.KeyEvent:
		a.handleKeyOrCrashKeys(input.FromKeyEvent(e))
	case eventbatch.TextEvent:
		a.handleKeyOrCrashKeys(input.FromTextEvent(e))
	case eventbatch.MouseEvent:
		a.applyResult(a.router.HandleMouse(a.tree, a.root, mouseInputFrom(e)))
	case eventbatch.ResizeEvent:
		a.handleResize(int(e.Cols), int(e.Rows))
	case eventbatch.PasteEvent:
		if entry, ok := a.router.Focused(); ok {
			a.dispatchAction(input.Action{ID: entry.ID, Action: "paste", Value: e.Text})
		}
	case eventbatch.FocusEvent, eventbatch.UserEvent, eventbatch.EngineEvent:
		// No routing semantics of their own in this engine; a future
		// backend-specific extension point.
	}
}

func (a *App) handleKeyOrCrashKeys(k input.Key) {
	a.mu.Lock()
	crashed := a.crashed
	a.mu.Unlock()
	if crashed {
		switch k.Rune {
		case 'r', 'R':
			a.mu.Lock()
			a.crashed = false
			a.crashErr = nil
			a.dirty |= dirtyView
			a.mu.Unlock()
		case 'q', 'Q':
			a.Stop()
		}
		return
	}
	a.applyResult(a.router.HandleKey(k))
}

func (a *App) applyResult(res input.Result) {
	if res.Update != nil {
		a.safeCallback(func() { res.Update() })
	}
	if res.Action != nil {
		a.dispatchAction(*res.Action)
	}
	if res.DirtyRender {
		a.setDirty(dirtyRender)
	}
	if res.Action != nil || res.Update != nil {
		a.setDirty(dirtyView)
	}
}

func (a *App) dispatchAction(act input.Action) {
	a.mu.Lock()
	onEvent := a.onEvent
	a.mu.Unlock()
	if onEvent == nil {
		return
	}
	a.safeCallback(func() { onEvent(act) })
}

// safeCallback recovers a panicking callback and reports it via
// on_user_code_error without interrupting the caller (spec.md §4.9
// "callback errors ... are caught, reported ..., and do not interrupt
// event routing").
func (a *App) safeCallback(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.reportUserCodeError(toError(r))
		}
	}()
	fn()
}

func (a *App) handleResize(cols, rows int) {
	a.mu.Lock()
	a.viewport = layout.Rect{X: 0, Y: 0, W: cols, H: rows}
	a.dirty |= dirtyLayout
	if a.viewportAware {
		a.dirty |= dirtyView
	}
	a.mu.Unlock()
}

func mouseInputFrom(e eventbatch.MouseEvent) input.MouseInput {
	mi := input.MouseInput{X: int(e.X), Y: int(e.Y)}
	switch e.MouseKind {
	case eventbatch.MouseDown:
		mi.Down = true
	case eventbatch.MouseUp:
		mi.Up = true
	case eventbatch.MouseScroll:
		mi.IsScroll = true
		mi.ScrollX = int(e.WheelX)
		mi.ScrollY = int(e.WheelY)
	}
	return mi
}

// RunWithSignals wraps Run with the SIGINT/SIGTERM/SIGHUP-to-Stop
// wiring spec.md §5 names ("a signal handler wrapper (run()) wires
// SIGINT/SIGTERM/SIGHUP to stop() then exits"), modeled on the
// teacher's GoStartEventLoop/StopEventLoop cancellable-main-loop pair
// (core/renderwindow.go) — signal wiring itself uses os/signal since
// no example repo ships a third-party signal library.
func (a *App) RunWithSignals(ctx context.Context) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	select {
	case <-sigCh:
		a.Stop()
		return <-done
	case err := <-done:
		return err
	}
}
