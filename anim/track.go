// Package anim holds the per-instance transition tracks the frame
// scheduler (root package vterm) advances every frame (spec.md §4.9
// "Animations"). A Track is a pure value: evaluating it at a given
// instant never mutates it, so the scheduler can re-evaluate the same
// track every frame without bookkeeping beyond "is it still running."
//
// Grounded on SPEC_FULL.md §3.9's citation of
// `github.com/tanema/gween` (pulled into the dependency pack by
// phanxgames-willow) for easing curve evaluation: each animated scalar
// (x, y, w, h, opacity) gets its own `gween.Tween`, built fresh and
// evaluated with a single `Update(elapsed)` call rather than kept as
// long-lived mutable state, since gween's own `Update` is a pure
// function of total elapsed time plus whatever state the tween
// accumulated from every previous `Update` call — calling it exactly
// once per evaluation keeps that accumulator meaningless and the track
// itself stateless.
package anim

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vterm/vterm/layout"
)

// Track describes one instance's in-flight rect/opacity transition
// (spec.md §4.9: "{from_rect, to_rect, from_opacity, to_opacity,
// start_ms, duration_ms, easing, animate_position, animate_size,
// animate_opacity}").
type Track struct {
	FromRect layout.Rect
	ToRect   layout.Rect

	FromOpacity float32
	ToOpacity   float32

	Start    time.Time
	Duration time.Duration
	Ease     ease.TweenFunction

	AnimatePosition bool
	AnimateSize     bool
	AnimateOpacity  bool
}

// NewTrack builds a track for a transition from -> to starting now,
// or reports ok=false when duration is zero: spec.md §4.9 "Zero-
// duration transitions are not tracked," since there is nothing to
// interpolate and the scheduler should just jump straight to the new
// value.
func NewTrack(from, to layout.Rect, fromOpacity, toOpacity float32, now time.Time, duration time.Duration, easing ease.TweenFunction, animatePosition, animateSize, animateOpacity bool) (Track, bool) {
	if duration <= 0 {
		return Track{}, false
	}
	if easing == nil {
		easing = ease.Linear
	}
	return Track{
		FromRect: from, ToRect: to,
		FromOpacity: fromOpacity, ToOpacity: toOpacity,
		Start: now, Duration: duration, Ease: easing,
		AnimatePosition: animatePosition,
		AnimateSize:     animateSize,
		AnimateOpacity:  animateOpacity,
	}, true
}

// Retarget builds a new track that starts from whatever value t is
// currently animated to at `now` and heads toward a newly requested
// destination, per spec.md §4.9 "Retargeting a running track uses the
// current animated value as the new origin." Reports ok=false (same
// as NewTrack) when the new duration is zero.
func (t Track) Retarget(now time.Time, toRect layout.Rect, toOpacity float32, duration time.Duration, easing ease.TweenFunction) (Track, bool) {
	rect, opacity, _ := t.At(now)
	return NewTrack(rect, toRect, opacity, toOpacity, now, duration, easing, t.AnimatePosition, t.AnimateSize, t.AnimateOpacity)
}

// At evaluates the track at an absolute instant, returning the
// interpolated rect and opacity and whether the transition has
// settled (now >= start+duration). A settled track still returns the
// exact end value, so the caller's final frame lands precisely on
// ToRect/ToOpacity rather than wherever the last tick happened to
// land.
func (t Track) At(now time.Time) (rect layout.Rect, opacity float32, done bool) {
	elapsed := now.Sub(t.Start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed >= t.Duration {
		return t.ToRect, t.ToOpacity, true
	}

	durSec := float32(t.Duration.Seconds())
	elapsedSec := float32(elapsed.Seconds())

	rect = t.ToRect
	if t.AnimatePosition {
		rect.X = int(tween(float32(t.FromRect.X), float32(t.ToRect.X), durSec, elapsedSec, t.Ease))
		rect.Y = int(tween(float32(t.FromRect.Y), float32(t.ToRect.Y), durSec, elapsedSec, t.Ease))
	} else {
		rect.X, rect.Y = t.ToRect.X, t.ToRect.Y
	}
	if t.AnimateSize {
		rect.W = int(tween(float32(t.FromRect.W), float32(t.ToRect.W), durSec, elapsedSec, t.Ease))
		rect.H = int(tween(float32(t.FromRect.H), float32(t.ToRect.H), durSec, elapsedSec, t.Ease))
	} else {
		rect.W, rect.H = t.ToRect.W, t.ToRect.H
	}

	opacity = t.ToOpacity
	if t.AnimateOpacity {
		opacity = tween(t.FromOpacity, t.ToOpacity, durSec, elapsedSec, t.Ease)
	}
	return rect, opacity, false
}

// tween evaluates one scalar's gween.Tween at elapsedSec by building
// it fresh and calling Update exactly once, so no mutable tween state
// needs to survive between frames.
func tween(from, to, durSec, elapsedSec float32, fn ease.TweenFunction) float32 {
	tw := gween.New(from, to, durSec, fn)
	v, _ := tw.Update(elapsedSec)
	return v
}

// Done reports whether now has reached the track's end without
// computing the interpolated values, useful for the scheduler's
// "any active transition" check (spec.md §4.9) across a whole track
// set without discarding two return values per call.
func (t Track) Done(now time.Time) bool {
	return now.Sub(t.Start) >= t.Duration
}
