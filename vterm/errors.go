package vterm

import (
	"fmt"

	"github.com/vterm/vterm/vnode"
)

// boundaryState is the caught-error state one errorBoundary node
// carries across renders, keyed by the node's own vnode.Key (spec.md
// §4.9: "isolate state between nested boundaries"). A boundary with no
// Key shares the App-wide nil-key slot; giving every errorBoundary
// node a distinct Key is the caller's responsibility if more than one
// appears in a tree, the same way vnode.Key disambiguates siblings
// during commit (spec.md §4.6 step 4).
type boundaryState struct {
	err     error
	showing bool
}

// crashScreen is the built-in error screen spec.md §4.9 mandates for
// an uncaught view throw: "Message: …", "Press R to retry / Q to
// quit".
func crashScreen(err error) *vnode.Node {
	return vnode.Column(vnode.Props{"gap": 1},
		vnode.Box(vnode.Props{"border": "single", "title": "Error"},
			vnode.Text("Message: "+err.Error()),
			vnode.Text("Press R to retry / Q to quit"),
		),
	)
}

// safeView calls the installed view function, recovering a panic into
// (nil, err) rather than letting it unwind into the scheduler (spec.md
// §7 "a view ... threw; view-throw triggers the error screen").
func (a *App) safeView(state any) (tree *vnode.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = toError(r)
		}
	}()
	tree = a.view(state)
	return tree, nil
}

func toError(r any) error {
	if e, ok := r.(error); ok {
		return e
	}
	return fmt.Errorf("%v", r)
}

// resolveBoundaries rewrites n, replacing every errorBoundary node
// whose "render" prop (a func() *vnode.Node) panics with that
// boundary's "fallback" prop (func(error, retry func()) *vnode.Node),
// or a generic text fallback if none was supplied. A boundary with no
// "render" prop is a plain eager container and is left as-is apart
// from recursing into its children, since there is nothing to protect:
// under the vnode data model, user code runs during commit only
// through this opt-in lazy-builder prop, never through plain
// Children.
func (a *App) resolveBoundaries(n *vnode.Node) *vnode.Node {
	if n == nil {
		return nil
	}
	if n.Kind == vnode.KindErrorBoundary {
		return a.resolveOneBoundary(n)
	}
	if len(n.Children) == 0 {
		return n
	}
	children := make([]*vnode.Node, len(n.Children))
	changed := false
	for i, c := range n.Children {
		rc := a.resolveBoundaries(c)
		children[i] = rc
		if rc != c {
			changed = true
		}
	}
	if !changed {
		return n
	}
	cp := *n
	cp.Children = children
	return &cp
}

func (a *App) resolveOneBoundary(n *vnode.Node) (result *vnode.Node) {
	a.mu.Lock()
	state := a.boundaries[n.Key]
	a.mu.Unlock()

	fallback, _ := n.Props["fallback"].(func(error, func()) *vnode.Node)
	if state != nil && state.showing {
		return a.buildFallback(fallback, state.err, n.Key)
	}

	renderFn, _ := n.Props["render"].(func() *vnode.Node)
	if renderFn == nil {
		cp := *n
		children := make([]*vnode.Node, len(n.Children))
		for i, c := range n.Children {
			children[i] = a.resolveBoundaries(c)
		}
		cp.Children = children
		return &cp
	}

	defer func() {
		if r := recover(); r != nil {
			err := toError(r)
			a.mu.Lock()
			if a.boundaries == nil {
				a.boundaries = map[any]*boundaryState{}
			}
			a.boundaries[n.Key] = &boundaryState{err: err, showing: true}
			a.mu.Unlock()
			a.reportUserCodeError(err)
			result = a.buildFallback(fallback, err, n.Key)
		}
	}()
	built := renderFn()
	return a.resolveBoundaries(built)
}

func (a *App) buildFallback(fallback func(error, func()) *vnode.Node, err error, key any) *vnode.Node {
	retry := a.makeRetry(key)
	if fallback != nil {
		return fallback(err, retry)
	}
	return vnode.Text("error: " + err.Error())
}

func (a *App) makeRetry(key any) func() {
	return func() {
		a.mu.Lock()
		delete(a.boundaries, key)
		a.mu.Unlock()
		a.setDirty(dirtyView)
	}
}
