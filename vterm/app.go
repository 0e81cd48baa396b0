package vterm

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/vterm/vterm/anim"
	"github.com/vterm/vterm/drawlist"
	"github.com/vterm/vterm/input"
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/render"
	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/styles"
	"github.com/vterm/vterm/vnode"
)

// ViewFunc builds a fresh vnode tree from a state snapshot (spec.md
// §6.3 "app.view(state_snapshot -> VNode)"). It must be
// side-effect-free; the engine may call it any number of times per
// committed state.
type ViewFunc func(state any) *vnode.Node

// Mutator is the shape app.update(mutator) takes: given the current
// state it returns the next state. Mutators run synchronously, in the
// order they were queued, before the next view invocation (spec.md
// §5 "apply state updates (in insertion order)").
type Mutator func(state any) any

// dirtyBits tracks spec.md §4.9's three independent dirty flags.
type dirtyBits uint8

const (
	dirtyView dirtyBits = 1 << iota
	dirtyLayout
	dirtyRender
)

func (d dirtyBits) has(b dirtyBits) bool { return d&b != 0 }

// App is the root coordinator: spec.md §4.9's widget renderer / frame
// scheduler plus the §6.3 app surface, combined the way the teacher's
// RenderWindow combines an event loop, a widget tree, and a paint
// target in one object (core/renderwindow.go).
type App struct {
	mu sync.Mutex

	backend Backend
	cfg     Config
	log     *slog.Logger

	state any
	view  ViewFunc

	keybindings     map[string]func()
	onEvent         func(input.Action)
	onUserCodeError func(error)
	debugLayout     bool

	pendingUpdates []Mutator

	router *input.Router
	alloc  runtime.Allocator

	root  *runtime.Instance
	tree  *layout.Tree
	rects map[runtime.ID]layout.Rect

	cache  *render.Cache
	tracks anim.Set
	tick   uint64

	theme     styles.Theme
	baseStyle styles.Style
	viewport  layout.Rect

	lastViewport    layout.Rect
	lastTheme       string
	hasRendered     bool
	viewportAware   bool
	overlaysOpen    bool
	dirty           dirtyBits
	forceFullRedraw bool

	crashed    bool
	crashErr   error
	boundaries map[any]*boundaryState

	builder  *drawlist.Builder
	frameSem *semaphore.Weighted

	stopOnce sync.Once
	stopCh   chan struct{}
	stopped  bool
}

// NewApp is create_app({backend, initial_state}) (spec.md §6.3).
// theme/viewport start at styles.DefaultDark() and a zero Rect; a
// real backend is expected to deliver an initial ResizeEvent before
// the first frame is requested.
func NewApp(backend Backend, initialState any, cfg Config) *App {
	theme := styles.DefaultDark()
	return &App{
		backend:     backend,
		cfg:         cfg,
		log:         slog.Default(),
		state:       initialState,
		keybindings: map[string]func(){},
		router:      input.NewRouter(),
		alloc:       runtime.NewSeqAllocator(),
		cache:       render.NewCache(),
		tracks:      anim.Set{},
		theme:       theme,
		baseStyle:   theme.Base(),
		builder:     drawlist.NewBuilder(),
		frameSem:    semaphore.NewWeighted(1),
		stopCh:      make(chan struct{}),
	}
}

// View installs the view function (spec.md §6.3 "app.view").
func (a *App) View(fn ViewFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.view = fn
	a.dirty |= dirtyView
}

// Update queues a state mutator (spec.md §6.3 "app.update(mutator)").
// Safe to call from any goroutine; mutators apply in insertion order
// on the scheduler's own goroutine before the next view call.
func (a *App) Update(m Mutator) {
	a.mu.Lock()
	a.pendingUpdates = append(a.pendingUpdates, m)
	a.dirty |= dirtyView
	a.mu.Unlock()
}

// OnEvent registers the sink that receives every routed Action the
// input router produces (spec.md §6.3 "app.on_event(handler)") —
// button presses, input edits, list navigation, and so on. Handlers
// typically call Update from inside the callback.
func (a *App) OnEvent(h func(input.Action)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onEvent = h
}

// OnUserCodeError registers the sink for caught callback panics
// (spec.md §4.9 "on_user_code_error sink").
func (a *App) OnUserCodeError(h func(error)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onUserCodeError = h
}

// Keys installs the app-level keybinding table (spec.md §6.3
// "app.keys({...})"). Each callback is invoked with no arguments and
// is expected to call Update itself if it wants a new state; Keys
// always marks a render dirty on a match. A panicking callback is
// recovered and reported through OnUserCodeError.
func (a *App) Keys(bindings map[string]func()) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for binding, fn := range bindings {
		fn := fn
		a.keybindings[binding] = fn
		a.router.AppKeys[binding] = func() input.Result {
			a.safeCallback(fn)
			return input.Result{Handled: true, DirtyRender: true}
		}
	}
}

// DebugLayout toggles whether committed frames additionally draw
// layout bound overlays (spec.md §6.3 "app.debug_layout(bool)"). The
// render pipeline itself does not currently consume this flag; it is
// surfaced here so a future debug overlay widget can read it via
// App.DebugLayoutEnabled without every caller threading a new
// parameter through Frame.
func (a *App) DebugLayout(on bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.debugLayout = on
}

// DebugLayoutEnabled reports the current debug_layout flag.
func (a *App) DebugLayoutEnabled() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.debugLayout
}

// SetTheme installs a new theme, triggering a full re-render on the
// next frame (spec.md §4.7 "theme changed" disables incremental
// damage).
func (a *App) SetTheme(theme styles.Theme) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.theme = theme
	a.baseStyle = theme.Base()
	a.dirty |= dirtyRender
}

// Stop cancels any pending frame, stops polling, runs unmount
// callbacks on the runtime tree, and resolves — idempotent (spec.md
// §5 "stop() is idempotent").
func (a *App) Stop() {
	a.stopOnce.Do(func() {
		close(a.stopCh)
		a.mu.Lock()
		root := a.root
		a.root = nil
		a.stopped = true
		a.mu.Unlock()
		if root != nil {
			runtime.Commit(root, nil, a.alloc, runtime.Options{Log: a.log, OnUserCodeError: a.reportUserCodeError})
		}
	})
}

// Dispose calls Stop (which does nothing if the App is already
// stopped) and then releases everything Stop does not: the render
// cache and animation tracks. The App is no longer usable afterward.
func (a *App) Dispose() {
	a.Stop()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cache.Reset()
	a.tracks = anim.Set{}
}

func (a *App) reportUserCodeError(err error) {
	a.mu.Lock()
	sink := a.onUserCodeError
	a.mu.Unlock()
	if sink != nil {
		sink(err)
	} else {
		a.log.Warn("vterm: user code error", "err", err)
	}
}

// Animate installs or retargets the transition track for id (spec.md
// §4.9's animation model). The scheduler requests follow-up frames
// while the track is active and drops it automatically once it
// settles or the instance unmounts.
func (a *App) Animate(id runtime.ID, track anim.Track) {
	a.mu.Lock()
	a.tracks[id] = track
	a.dirty |= dirtyRender
	a.mu.Unlock()
}

func (a *App) setDirty(b dirtyBits) {
	a.mu.Lock()
	a.dirty |= b
	a.mu.Unlock()
}
