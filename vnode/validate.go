package vnode

import (
	"fmt"

	"github.com/vterm/vterm/verror"
)

// Validate checks the shape invariants spec.md §3 states about the
// data model: a closed kind set, Children only on structural kinds,
// and only layer children under a layers node. It does not inspect
// Props. Per-kind numeric/enum prop validation (gap, justify, align)
// happens in package layout, which is where those values are actually
// consumed (spec.md §4.4's failure semantics list lives there).
func Validate(n *Node) *verror.Error {
	if n == nil {
		return verror.New(verror.InvalidProps, "nil node")
	}
	if n.Kind == KindInvalid || n.Kind >= kindSentinel {
		return verror.New(verror.InvalidProps, fmt.Sprintf("unknown kind %d", n.Kind))
	}
	if len(n.Children) > 0 && !n.Kind.IsStructural() {
		return verror.New(verror.InvalidProps, fmt.Sprintf("%s is not structural but has %d children", n.Kind, len(n.Children)))
	}
	if n.Kind == KindLayers {
		for _, c := range n.Children {
			if c.Kind != KindLayer {
				return verror.New(verror.InvalidProps, "layers children must all be kind layer")
			}
		}
	}
	for _, c := range n.Children {
		if err := Validate(c); err != nil {
			return err
		}
	}
	return nil
}
