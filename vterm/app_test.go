package vterm

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vterm/vterm/eventbatch"
	"github.com/vterm/vterm/input"
	"github.com/vterm/vterm/vnode"
)

// fakeBackend is a minimal in-memory Backend: PollEvents serves one
// queued batch per call (blocking on an empty queue until Close),
// RequestFrame just records the bytes it was handed.
type fakeBackend struct {
	mu      sync.Mutex
	batches []*eventbatch.Batch
	dropped []int
	frames  [][]byte
	closed  bool
}

func (b *fakeBackend) push(batch *eventbatch.Batch, dropped int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.batches = append(b.batches, batch)
	b.dropped = append(b.dropped, dropped)
}

func (b *fakeBackend) PollEvents(ctx context.Context) (*eventbatch.Batch, int, error) {
	for {
		b.mu.Lock()
		if len(b.batches) > 0 {
			batch := b.batches[0]
			dropped := b.dropped[0]
			b.batches = b.batches[1:]
			b.dropped = b.dropped[1:]
			b.mu.Unlock()
			return batch, dropped, nil
		}
		closed := b.closed
		b.mu.Unlock()
		if closed {
			return emptyBatch(), 0, nil
		}
		select {
		case <-ctx.Done():
			return nil, 0, ctx.Err()
		default:
			return emptyBatch(), 0, nil
		}
	}
}

func (b *fakeBackend) RequestFrame(ctx context.Context, bytes []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(bytes))
	copy(cp, bytes)
	b.frames = append(b.frames, cp)
	return nil
}

func (b *fakeBackend) frameCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

// emptyBatch builds a zero-event, already-released-safe batch via the
// real decoder so tests never need to hand-construct ZREV bytes for
// the "nothing happened this tick" case.
func emptyBatch() *eventbatch.Batch {
	hdr := make([]byte, eventbatch.HeaderSize)
	copy(hdr[0:4], eventbatch.Magic[:])
	putU32(hdr[4:8], eventbatch.Version)
	putU32(hdr[8:12], uint32(len(hdr)))
	putU32(hdr[12:16], 0)
	putU32(hdr[16:20], uint32(len(hdr)))
	putU32(hdr[20:24], 0)
	batch, verr := eventbatch.Decode(hdr, nil)
	if verr != nil {
		panic(verr)
	}
	return batch
}

func putU32(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func counterView(state any) *vnode.Node {
	n := state.(int)
	return vnode.Column(nil,
		vnode.Text("count"),
		vnode.Button(vnode.Props{"label": "inc"}),
		vnode.Button(vnode.Props{"label": "n" + itoa(n)}),
	)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func newTestApp(backend *fakeBackend) *App {
	app := NewApp(backend, 0, Config{})
	app.View(counterView)
	app.handleResize(20, 10)
	return app
}

func TestFirstFrameRunsFullPipelineAndSubmits(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)

	verr := app.submitFrame(context.Background())
	require.Nil(t, verr)
	require.Equal(t, 1, backend.frameCount())
	require.True(t, app.hasRendered)
	require.NotNil(t, app.root)
}

func TestNoDirtyBitsProducesNoFrame(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)
	require.Nil(t, app.submitFrame(context.Background()))
	require.Equal(t, 1, backend.frameCount())

	require.Nil(t, app.submitFrame(context.Background()))
	require.Equal(t, 1, backend.frameCount()) // unchanged: nothing dirtied it
}

func TestUpdateAppliesBeforeNextView(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)
	require.Nil(t, app.submitFrame(context.Background()))

	app.Update(func(s any) any { return s.(int) + 1 })
	require.Nil(t, app.submitFrame(context.Background()))

	app.mu.Lock()
	state := app.state
	app.mu.Unlock()
	require.Equal(t, 1, state)
	require.Equal(t, 2, backend.frameCount())
}

func TestViewPanicShowsCrashScreenAndRAndQRecover(t *testing.T) {
	backend := &fakeBackend{}
	app := NewApp(backend, 0, Config{})
	app.View(func(state any) *vnode.Node { panic("boom") })
	app.handleResize(20, 10)

	require.Nil(t, app.submitFrame(context.Background()))
	require.True(t, app.crashed)
	require.Equal(t, 1, backend.frameCount())

	// Q stops the app while crashed.
	app.handleKeyOrCrashKeys(keyRune('q'))
	require.True(t, app.stopped)
}

func TestCrashScreenRetryClearsCrashedFlag(t *testing.T) {
	backend := &fakeBackend{}
	shouldPanic := true
	app := NewApp(backend, 0, Config{})
	app.View(func(state any) *vnode.Node {
		if shouldPanic {
			panic("boom")
		}
		return vnode.Text("ok")
	})
	app.handleResize(20, 10)
	require.Nil(t, app.submitFrame(context.Background()))
	require.True(t, app.crashed)

	shouldPanic = false
	app.handleKeyOrCrashKeys(keyRune('r'))
	require.False(t, app.crashed)
	require.Nil(t, app.submitFrame(context.Background()))
	require.False(t, app.crashed)
}

func TestOnUserCodeErrorCatchesKeybindingPanicWithoutCrashing(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)
	require.Nil(t, app.submitFrame(context.Background()))

	var caught error
	app.OnUserCodeError(func(err error) { caught = err })
	app.Keys(map[string]func(){
		"ctrl+p": func() { panic("keybinding exploded") },
	})

	app.handleKeyOrCrashKeys(keyCtrl('p'))
	require.NotNil(t, caught)
	require.False(t, app.crashed)
}

func TestResizeSetsLayoutDirtyOnly(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)
	require.Nil(t, app.submitFrame(context.Background()))

	app.handleResize(30, 15)
	app.mu.Lock()
	dirty := app.dirty
	aware := app.viewportAware
	app.mu.Unlock()
	require.False(t, aware)
	require.True(t, dirty.has(dirtyLayout))
	require.False(t, dirty.has(dirtyView))
}

func TestViewportAwareNodePromotesResizeToDirtyView(t *testing.T) {
	backend := &fakeBackend{}
	app := NewApp(backend, 0, Config{})
	app.View(func(state any) *vnode.Node {
		return vnode.Column(vnode.Props{"viewport_aware": true}, vnode.Text("x"))
	})
	app.handleResize(20, 10)
	require.Nil(t, app.submitFrame(context.Background()))
	require.True(t, app.viewportAware)

	app.handleResize(30, 15)
	app.mu.Lock()
	dirty := app.dirty
	app.mu.Unlock()
	require.True(t, dirty.has(dirtyView))
}

func TestStopIsIdempotentAndUnmountsRoot(t *testing.T) {
	backend := &fakeBackend{}
	app := newTestApp(backend)
	require.Nil(t, app.submitFrame(context.Background()))
	require.NotNil(t, app.root)

	app.Stop()
	app.Stop() // must not panic or double-close stopCh
	require.Nil(t, app.root)
}

func TestErrorBoundaryCatchesPanicAndRetryClearsIt(t *testing.T) {
	backend := &fakeBackend{}
	boom := true
	app := NewApp(backend, 0, Config{})
	app.View(func(state any) *vnode.Node {
		return vnode.Column(nil,
			&vnode.Node{
				Kind: vnode.KindErrorBoundary,
				Key:  "panel",
				Props: vnode.Props{
					"render": func() *vnode.Node {
						if boom {
							panic("panel exploded")
						}
						return vnode.Text("panel ok")
					},
					"fallback": func(err error, retry func()) *vnode.Node {
						return vnode.Text("recovered: " + err.Error())
					},
				},
			},
		)
	})
	app.handleResize(20, 10)

	var caught error
	app.OnUserCodeError(func(err error) { caught = err })

	require.Nil(t, app.submitFrame(context.Background()))
	require.NotNil(t, caught)
	require.False(t, app.crashed) // boundary contains it; the app itself does not crash
	require.Len(t, app.boundaries, 1)

	// Retrying after the underlying panic is fixed clears the
	// boundary's caught state and renders the real content.
	retry := app.makeRetry("panel")
	boom = false
	retry()
	require.Nil(t, app.submitFrame(context.Background()))
	require.Empty(t, app.boundaries)
}

func keyRune(r rune) input.Key { return input.Key{Rune: r} }
func keyCtrl(r rune) input.Key { return input.Key{Rune: r, Ctrl: true} }
