package vnode

// Text returns a frozen text leaf node.
func Text(s string) *Node { return &Node{Kind: KindText, Text: s} }

// Row returns a frozen flex-row container node.
func Row(props Props, children ...*Node) *Node {
	return &Node{Kind: KindRow, Props: props, Children: children}
}

// Column returns a frozen flex-column container node.
func Column(props Props, children ...*Node) *Node {
	return &Node{Kind: KindColumn, Props: props, Children: children}
}

// Box returns a frozen box container node (border + padding + shadow).
func Box(props Props, children ...*Node) *Node {
	return &Node{Kind: KindBox, Props: props, Children: children}
}

// Grid returns a frozen grid container node.
func Grid(props Props, children ...*Node) *Node {
	return &Node{Kind: KindGrid, Props: props, Children: children}
}

// Layers returns a frozen z-ordered overlay stack; children must be
// KindLayer nodes.
func Layers(props Props, children ...*Node) *Node {
	return &Node{Kind: KindLayers, Props: props, Children: children}
}

// Layer returns one z-ordered layer within a Layers container.
func Layer(props Props, children ...*Node) *Node {
	return &Node{Kind: KindLayer, Props: props, Children: children}
}

// Spacer returns a frozen flexible or fixed spacer leaf that still
// participates in layout as a structural kind with no children.
func Spacer(props Props) *Node { return &Node{Kind: KindSpacer, Props: props} }

// VirtualList returns a frozen virtualized list container; its
// children prop typically holds a windowed slice built by the caller.
func VirtualList(props Props, children ...*Node) *Node {
	return &Node{Kind: KindVirtualList, Props: props, Children: children}
}

// FocusZone returns a frozen focus-scoping container: Tab cycling
// inside it does not escape to sibling zones (input router, §4.10).
func FocusZone(props Props, children ...*Node) *Node {
	return &Node{Kind: KindFocusZone, Props: props, Children: children}
}

// ErrorBoundary returns a frozen node that catches descendant throws
// during commit and renders a fallback instead (spec.md §4.9).
func ErrorBoundary(props Props, children ...*Node) *Node {
	return &Node{Kind: KindErrorBoundary, Props: props, Children: children}
}

// Button returns a frozen pressable leaf.
func Button(props Props) *Node { return &Node{Kind: KindButton, Props: props} }

// Input returns a frozen single-line text-entry leaf.
func Input(props Props) *Node { return &Node{Kind: KindInput, Props: props} }

// Checkbox returns a frozen boolean toggle leaf.
func Checkbox(props Props) *Node { return &Node{Kind: KindCheckbox, Props: props} }

// Slider returns a frozen ranged value leaf.
func Slider(props Props) *Node { return &Node{Kind: KindSlider, Props: props} }

// Select returns a frozen dropdown-choice leaf.
func Select(props Props) *Node { return &Node{Kind: KindSelect, Props: props} }

// Icon returns a frozen glyph leaf.
func Icon(props Props) *Node { return &Node{Kind: KindIcon, Props: props} }

// Spinner returns a frozen animated-progress leaf; spec.md §4.7 marks
// every spinner dirty on every frame to advance its animation.
func Spinner(props Props) *Node { return &Node{Kind: KindSpinner, Props: props} }

// Progress returns a frozen determinate-progress leaf.
func Progress(props Props) *Node { return &Node{Kind: KindProgress, Props: props} }

// Image returns a frozen raster-image leaf.
func Image(props Props) *Node { return &Node{Kind: KindImage, Props: props} }

// Canvas returns a frozen arbitrary-blitter leaf.
func Canvas(props Props) *Node { return &Node{Kind: KindCanvas, Props: props} }

// BarChart returns a frozen bar-chart leaf.
func BarChart(props Props) *Node { return &Node{Kind: KindBarChart, Props: props} }

// Table returns a frozen tabular-data leaf.
func Table(props Props) *Node { return &Node{Kind: KindTable, Props: props} }

// Tree returns a frozen hierarchical-list leaf.
func Tree(props Props) *Node { return &Node{Kind: KindTree, Props: props} }

// CodeEditor returns a frozen syntax-highlighted source leaf.
func CodeEditor(props Props) *Node { return &Node{Kind: KindCodeEditor, Props: props} }
