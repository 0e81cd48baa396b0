package layout

import (
	"github.com/vterm/vterm/verror"
	"github.com/vterm/vterm/vnode"
)

// Cache memoizes Measure and Layout results keyed on vnode identity
// plus constraints (spec.md §4.4). Unlike a true weak map, Cache
// holds a strong reference to every vnode it has seen a result for;
// callers are expected to call Reset once per committed frame so
// stale vnodes from prior frames are dropped together rather than
// trickling out one at a time. This trades a GC-assisted eviction
// for a simpler, deterministic one, since Go's generational GC has no
// convenient weak-map primitive as of the Go version this module
// targets.
type Cache struct {
	measure map[measureKey]measureEntry
	layout  map[layoutKey]layoutEntry
}

type measureKey struct {
	node          *vnode.Node
	maxW, maxH    int
	axis          Axis
}

type measureEntry struct {
	size Size
	err  *verror.Error
}

type layoutKey struct {
	node               *vnode.Node
	x, y, maxW, maxH   int
	axis               Axis
}

type layoutEntry struct {
	tree *Tree
	err  *verror.Error
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{
		measure: make(map[measureKey]measureEntry),
		layout:  make(map[layoutKey]layoutEntry),
	}
}

// Reset discards every memoized result. Call once per committed
// frame: cache keys are only safe to compare by vnode pointer
// identity within a single committed tree.
func (c *Cache) Reset() {
	c.measure = make(map[measureKey]measureEntry)
	c.layout = make(map[layoutKey]layoutEntry)
}

// Measure is Measure with memoization: an unchanged vnode reference
// under identical constraints short-circuits without walking children.
func (c *Cache) Measure(n *vnode.Node, maxW, maxH int, axis Axis) (Size, *verror.Error) {
	if n == nil {
		return Size{}, nil
	}
	key := measureKey{node: n, maxW: maxW, maxH: maxH, axis: axis}
	if e, ok := c.measure[key]; ok {
		return e.size, e.err
	}
	sz, verr := Measure(n, maxW, maxH, axis)
	c.measure[key] = measureEntry{size: sz, err: verr}
	return sz, verr
}

// Layout is Layout with memoization, keyed additionally on position
// since a layout tree carries absolute rects.
func (c *Cache) Layout(n *vnode.Node, x, y, maxW, maxH int, axis Axis) (*Tree, *verror.Error) {
	if n == nil {
		return nil, nil
	}
	key := layoutKey{node: n, x: x, y: y, maxW: maxW, maxH: maxH, axis: axis}
	if e, ok := c.layout[key]; ok {
		return e.tree, e.err
	}
	tree, verr := Layout(n, x, y, maxW, maxH, axis)
	c.layout[key] = layoutEntry{tree: tree, err: verr}
	return tree, verr
}
