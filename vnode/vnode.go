// Package vnode is the immutable value tree a view function returns
// each frame (spec.md §3, §4.3). It is purely structural: no methods
// here ever mutate application state or talk to a backend.
//
// Grounded on the teacher's Plan/Add builder pattern (core/plan.go),
// adapted from "a Plan that later constructs and mutates a live
// Widget" into "a constructor that returns an already-frozen value",
// since C3 must be a pure producer.
package vnode

// Kind is the closed set of node kinds a view function can produce.
// Structural kinds may carry Children; leaf kinds may not.
type Kind uint8

const (
	KindInvalid Kind = iota

	// structural
	KindRow
	KindColumn
	KindBox
	KindGrid
	KindLayers
	KindLayer
	KindSpacer
	KindVirtualList
	KindFocusZone
	KindErrorBoundary

	// leaf / form / content
	KindText
	KindButton
	KindInput
	KindCheckbox
	KindSlider
	KindSelect
	KindIcon
	KindSpinner
	KindProgress
	KindImage
	KindCanvas
	KindBarChart
	KindTable
	KindTree
	KindCodeEditor

	kindSentinel
)

// structuralKinds is the closed set of kinds allowed to carry
// Children (spec.md §3: "an optional children list (only for
// structural kinds)").
var structuralKinds = map[Kind]bool{
	KindRow: true, KindColumn: true, KindBox: true, KindGrid: true,
	KindLayers: true, KindLayer: true, KindSpacer: true,
	KindVirtualList: true, KindFocusZone: true, KindErrorBoundary: true,
}

// IsStructural reports whether k is allowed to carry Children.
func (k Kind) IsStructural() bool { return structuralKinds[k] }

// String names a Kind for diagnostics and test failure messages.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(?)"
}

var kindNames = [...]string{
	KindInvalid: "invalid", KindRow: "row", KindColumn: "column", KindBox: "box",
	KindGrid: "grid", KindLayers: "layers", KindLayer: "layer", KindSpacer: "spacer",
	KindVirtualList: "virtualList", KindFocusZone: "focusZone", KindErrorBoundary: "errorBoundary",
	KindText: "text", KindButton: "button", KindInput: "input", KindCheckbox: "checkbox",
	KindSlider: "slider", KindSelect: "select", KindIcon: "icon", KindSpinner: "spinner",
	KindProgress: "progress", KindImage: "image", KindCanvas: "canvas",
	KindBarChart: "barChart", KindTable: "table", KindTree: "tree", KindCodeEditor: "codeEditor",
}

// Props is the opaque, per-kind property record. Shape depends on
// Kind; Validate in validate.go does not inspect it, and each prop is
// read with Get where it is consumed.
type Props map[string]any

// Node is an immutable virtual node value. Two Node values are
// value-identical under structural equality, but the commit stage
// (package runtime) primarily uses pointer identity as an O(1)
// equality hint (spec.md §3, §9 "Reference identity as diff hint").
type Node struct {
	Kind     Kind
	Props    Props
	Children []*Node
	Text     string // meaningful only for text-like kinds
	Key      any    // optional identity override, spec.md §4.6 step 4
}

// Get returns the value of a prop key with a typed default, used
// pervasively by layout and render to read optional per-kind props
// without a type switch at every call site.
func Get[T any](n *Node, key string, def T) T {
	if n == nil || n.Props == nil {
		return def
	}
	v, ok := n.Props[key]
	if !ok {
		return def
	}
	t, ok := v.(T)
	if !ok {
		return def
	}
	return t
}
