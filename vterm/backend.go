package vterm

import (
	"context"

	"github.com/vterm/vterm/eventbatch"
)

// Backend is the opaque producer/consumer boundary of spec.md §5: the
// engine never knows whether it is a real terminal, a test harness, or
// a recorded fixture. All three calls may suspend; PostUserEvent alone
// is documented as safe to call from any goroutine.
type Backend interface {
	// RequestFrame hands an immutable ZRDL v5 byte buffer to the
	// backend. The engine must not mutate bytes after this call
	// returns (spec.md §5); the backend acknowledges by returning.
	RequestFrame(ctx context.Context, bytes []byte) error

	// PollEvents blocks for the next ZREV v1 batch. droppedBatches
	// being nonzero tells the scheduler to treat the next frame as a
	// full redraw (spec.md §5: "state may have diverged from what the
	// router saw"). The caller must call batch.Release() exactly
	// once, whether or not err is nil.
	PollEvents(ctx context.Context) (batch *eventbatch.Batch, droppedBatches int, err error)
}

// UserEventPoster is implemented by backends that support
// post_user_event's lock-free, any-thread wake signal (spec.md §5).
// It is optional: a Backend that only ever produces batches via
// PollEvents does not need it.
type UserEventPoster interface {
	PostUserEvent(tag uint32, payload []byte)
}
