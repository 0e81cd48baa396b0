package anim

import (
	"time"

	"github.com/vterm/vterm/runtime"
)

// Set is the scheduler's whole transition-track table, one entry per
// animating instance (spec.md §4.9: "animation tracks (position /
// size / opacity, per instance)").
type Set map[runtime.ID]Track

// Active reports whether any track in the set has not yet settled at
// now; the scheduler uses this to decide whether to request a
// follow-up frame and to force incremental rendering off (spec.md
// §4.9: "Any active transition ⇒ incremental off, full render, and a
// follow-up frame is requested").
func (s Set) Active(now time.Time) bool {
	for _, t := range s {
		if !t.Done(now) {
			return true
		}
	}
	return false
}

// Settle removes every track that has finished by now, per spec.md
// §4.9 "clears tracks on settle." Call once per frame after rendering
// at the final (done) value, not before — a track still needs to be
// evaluated at its exact end point on the settling frame.
func (s Set) Settle(now time.Time) {
	for id, t := range s {
		if t.Done(now) {
			delete(s, id)
		}
	}
}

// Drop removes id's track immediately, per spec.md §4.9 "Unmounting a
// transitioning node drops its track immediately" — the scheduler
// calls it for every instance the frame's damage reports as removed,
// rather than waiting for Settle.
func (s Set) Drop(id runtime.ID) {
	delete(s, id)
}
