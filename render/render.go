// Package render walks a resolved layout.Tree alongside the
// runtime.Instance tree that produced it and emits drawlist ops
// (spec.md §4.8). It owns the render-packet cache: non-structural
// instances whose content key is unchanged from the previous frame
// are replayed with a translated origin instead of re-rendered.
//
// Grounded on the teacher's per-widget Render() dispatch
// (core/render.go, where every *WidgetBase knows how to paint itself)
// generalized from "each widget renders itself" to "a kind-indexed
// table of pure renderer functions," since a vnode.Node carries no
// methods — package render is the one place that knows how every
// closed Kind is drawn.
package render

import (
	"github.com/vterm/vterm/drawlist"
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/styles"
	"github.com/vterm/vterm/vnode"
)

// Focus carries which instance (if any) currently holds input focus,
// so renderLeaf can apply the theme's focus styling (spec.md §4.8:
// "bold + underline + ring color from theme when not overridden").
type Focus struct {
	ID runtime.ID
	OK bool
}

// Frame renders the whole committed tree into b. tick advances
// animated leaves (currently just spinner); theme and baseStyle seed
// every node's inherited style before per-node overrides apply.
func Frame(tree *layout.Tree, inst *runtime.Instance, viewport layout.Rect, theme styles.Theme, baseStyle styles.Style, focus Focus, tick uint64, cache *Cache, b *drawlist.Builder) {
	b.ClearTo(viewport.W, viewport.H, &baseStyle)
	renderNode(tree, inst, theme, baseStyle, focus, tick, cache, b)
}

func renderNode(t *layout.Tree, inst *runtime.Instance, theme styles.Theme, inherited styles.Style, focus Focus, tick uint64, cache *Cache, b *drawlist.Builder) {
	if t == nil || t.Node == nil {
		return
	}
	style := resolveStyle(t.Node, inherited)

	if !t.Node.Kind.IsStructural() {
		renderLeafCached(t, inst, theme, style, focus, tick, cache, b)
		return
	}

	switch t.Node.Kind {
	case vnode.KindBox:
		renderBoxChrome(t, style, b)
	case vnode.KindLayer:
		renderLayerShadow(t, theme, b)
	}

	for i, child := range t.Children {
		var childInst *runtime.Instance
		if inst != nil && i < len(inst.Children) {
			childInst = inst.Children[i]
		}
		renderNode(child, childInst, theme, style, focus, tick, cache, b)
	}
}

func renderBoxChrome(t *layout.Tree, style styles.Style, b *drawlist.Builder) {
	border := boxBorderKind(t.Node)
	if border == styles.BorderNone {
		return
	}
	rec := newRecorder(b, t.Rect.X, t.Rect.Y)
	title := vnode.Get(t.Node, "title", "")
	renderBorder(rec, t.Rect, border, style, title)
}

// renderLayerShadow draws a one-cell drop shadow along the right and
// bottom edges of an overlay layer before the frame's own content, the
// way spec.md §4.8 describes ("shadow cells before the frame"), when
// the layer opts in via props["shadow"].
func renderLayerShadow(t *layout.Tree, theme styles.Theme, b *drawlist.Builder) {
	if !vnode.Get(t.Node, "shadow", false) {
		return
	}
	shadowStyle := styles.Style{Bg: theme.ShadowTint}
	r := t.Rect
	if r.W <= 0 || r.H <= 0 {
		return
	}
	b.FillRect(r.X+1, r.Y+r.H, r.W, 1, shadowStyle)
	b.FillRect(r.X+r.W, r.Y+1, 1, r.H, shadowStyle)
}

func boxBorderKind(n *vnode.Node) styles.BorderKind {
	switch vnode.Get(n, "border", "") {
	case "single":
		return styles.BorderSingle
	case "double":
		return styles.BorderDouble
	case "rounded":
		return styles.BorderRounded
	case "heavy":
		return styles.BorderHeavy
	case "dashed":
		return styles.BorderDashed
	case "heavyDashed":
		return styles.BorderHeavyDashed
	default:
		return styles.BorderNone
	}
}

// renderLeafCached is the packet cache gate: a cache hit with a
// matching key and no pending self_dirty replays translated ops onto
// b; anything else calls the real per-kind renderer and records a
// fresh packet.
func renderLeafCached(t *layout.Tree, inst *runtime.Instance, theme styles.Theme, style styles.Style, focus Focus, tick uint64, cache *Cache, b *drawlist.Builder) {
	focused := focus.OK && inst != nil && inst.ID == focus.ID
	resolved := style
	if focused {
		resolved = theme.FocusStyle(style)
	}

	k := computeKey(t.Node, theme, resolved, focused, tick)
	k.rectW, k.rectH = t.Rect.W, t.Rect.H

	if inst != nil && !inst.SelfDirty {
		if p, ok := cache.get(inst.ID); ok && !p.Invalid && p.Key == k {
			replay(b, p.Ops, t.Rect.X, t.Rect.Y)
			return
		}
	}

	rec := newRecorder(b, t.Rect.X, t.Rect.Y)
	renderLeaf(rec, t.Node, t.Rect, resolved, theme, tick)

	if inst != nil {
		cache.set(inst.ID, Packet{Key: k, Ops: rec.ops, Invalid: rec.invalid})
	}
}
