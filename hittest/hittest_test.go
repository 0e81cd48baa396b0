package hittest

import (
	"testing"

	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/vnode"
)

func TestAtReturnsTopmostFocusableNode(t *testing.T) {
	button := vnode.Button(vnode.Props{"label": "ok"})
	n := vnode.Row(nil, button)
	tree, verr := layout.Layout(n, 0, 0, 10, 1, layout.AxisRow)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	got := At(tree, 1, 0)
	if got != button {
		t.Fatal("expected to hit the button node")
	}
}

func TestAtSkipsNonFocusableText(t *testing.T) {
	n := vnode.Row(nil, vnode.Text("hello"))
	tree, verr := layout.Layout(n, 0, 0, 10, 1, layout.AxisRow)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if got := At(tree, 1, 0); got != nil {
		t.Fatalf("expected no hit on plain text, got %v", got)
	}
}

func TestAtSkipsDisabledWidgets(t *testing.T) {
	button := vnode.Button(vnode.Props{"label": "ok", "disabled": true})
	n := vnode.Row(nil, button)
	tree, verr := layout.Layout(n, 0, 0, 10, 1, layout.AxisRow)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if got := At(tree, 1, 0); got != nil {
		t.Fatal("expected disabled widget to never be hit-testable")
	}
}

func TestAtIsHalfOpenOnRightAndBottom(t *testing.T) {
	button := vnode.Button(vnode.Props{"label": "ab"})
	tree, verr := layout.Layout(button, 0, 0, 6, 1, layout.AxisRow)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if got := At(tree, tree.Rect.W, 0); got != nil {
		t.Fatalf("x == rect.x+rect.w must not hit, got %v", got)
	}
	if got := At(tree, 0, tree.Rect.H); got != nil {
		t.Fatalf("y == rect.y+rect.h must not hit, got %v", got)
	}
}

func TestAtReturnsNilOutsideAnyRect(t *testing.T) {
	n := vnode.Row(nil, vnode.Button(vnode.Props{"label": "ok"}))
	tree, verr := layout.Layout(n, 0, 0, 10, 1, layout.AxisRow)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if got := At(tree, 100, 100); got != nil {
		t.Fatalf("expected nil outside any rect, got %v", got)
	}
}

func TestAtPrefersTopmostOverlappingLayer(t *testing.T) {
	back := vnode.Button(vnode.Props{"label": "back"})
	front := vnode.Button(vnode.Props{"label": "front"})
	n := vnode.Layers(nil, vnode.Layer(nil, back), vnode.Layer(nil, front))
	tree, verr := layout.Layout(n, 0, 0, 10, 1, layout.AxisRow)
	if verr != nil {
		t.Fatalf("unexpected error: %v", verr)
	}
	if got := At(tree, 1, 0); got != front {
		t.Fatal("expected the later (topmost) layer's button to win the hit test")
	}
}
