// Package vterm is the root coordinator (spec.md §4.9's widget
// renderer / frame scheduler, plus the App surface of spec.md §6.3).
// It owns the committed runtime tree, the previous layout, the render
// and animation caches, and drives the fixed per-frame pipeline order
// of spec.md §5: dequeue events, route, apply state updates, view,
// commit, layout, render, submit.
//
// Grounded on the teacher's RenderWindow as the single object that
// owns a main loop, an event source, and a paint target
// (core/renderwindow.go), generalized from a GPU/OS-window backend to
// the spec's opaque request_frame/poll_events backend contract.
package vterm

import "time"

// Config is the set of environment inputs spec.md §6.3 says the
// scheduler honors. Zero value is a usable default: no FPS cap
// clamp(0 means use DefaultFPSCap), no alternate-buffer or
// patch-console request, no frame timeout.
type Config struct {
	// FPSCap throttles frame submission (spec.md §4.9 "default 60").
	// 0 means DefaultFPSCap.
	FPSCap int

	// FrameTimeout bounds how long a single RequestFrame call may
	// take: the scheduler passes the backend a context with this
	// deadline and reports BackendFailure if RequestFrame returns an
	// error. 0 means no timeout.
	FrameTimeout time.Duration

	// AlternateBuffer and PatchConsole are carried in Config but not
	// read by this package: ZRDL frames and ZREV batches say nothing
	// about terminal-mode setup, and the Backend interface has no call
	// that takes them (spec.md §6.3).
	AlternateBuffer bool
	PatchConsole    bool
}

// DefaultFPSCap is spec.md §4.9's named default.
const DefaultFPSCap = 60

func (c Config) fpsCap() int {
	if c.FPSCap <= 0 {
		return DefaultFPSCap
	}
	return c.FPSCap
}

func (c Config) minFrameInterval() time.Duration {
	return time.Second / time.Duration(c.fpsCap())
}
