package vnode

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateRejectsChildrenOnLeaf(t *testing.T) {
	n := Button(nil)
	n.Children = []*Node{Text("oops")}
	if err := Validate(n); err == nil {
		t.Fatal("expected InvalidProps error for children on a leaf kind")
	}
}

func TestValidateLayersRequiresLayerChildren(t *testing.T) {
	n := Layers(nil, Text("not a layer"))
	if err := Validate(n); err == nil {
		t.Fatal("expected InvalidProps for non-layer child of layers")
	}
}

func TestValidateAcceptsWellFormedTree(t *testing.T) {
	n := Column(nil,
		Row(nil, Text("a"), Button(Props{"label": "go"})),
		Spacer(nil),
	)
	if err := Validate(n); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetTypedDefault(t *testing.T) {
	n := Button(Props{"label": "ok"})
	if got := Get(n, "label", "?"); got != "ok" {
		t.Fatalf("got %q", got)
	}
	if got := Get(n, "missing", 42); got != 42 {
		t.Fatalf("got %d", got)
	}
	if got := Get[int](n, "label", -1); got != -1 {
		t.Fatalf("type mismatch should fall back to default, got %d", got)
	}
}

func TestNodesAreReferenceUniqueButStructurallyEqual(t *testing.T) {
	a := Text("hi")
	b := Text("hi")
	if a == b {
		t.Fatal("constructors must return distinct pointers per call")
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Fatalf("structurally equal values should diff empty: %s", diff)
	}
}
