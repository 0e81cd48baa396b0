package render

import (
	"fmt"
	"sort"

	"github.com/vterm/vterm/runtime"
	"github.com/vterm/vterm/styles"
	"github.com/vterm/vterm/vnode"
)

// key is the render packet's content key (spec.md §4.8): "hash(kind,
// text, props_visual_fields, theme, base_style, rect_w, rect_h,
// focus_bits, tick_if_animated)". Rather than compute an actual hash,
// this uses a plain comparable struct as the map key — Go lets two
// structs compare equal field-by-field, which is exactly what a
// content-addressed cache needs and skips any collision risk a real
// hash would carry.
type key struct {
	kind       vnode.Kind
	text       string
	props      string
	theme      string
	baseFg     uint32
	baseBg     uint32
	rectW      int
	rectH      int
	focusBits  uint8
	tick       uint64
}

// computeKey builds a packet's content key; it leaves rectW/rectH at
// zero, and renderLeafCached fills them from the leaf's rect. tick is
// included only for
// kinds whose rendering depends on animation progress (currently just
// spinner); every other kind gets tick=0 so an advancing clock never
// forces a cache miss for static content.
func computeKey(n *vnode.Node, theme styles.Theme, base styles.Style, focused bool, tick uint64) key {
	var focusBits uint8
	if focused {
		focusBits = 1
	}
	k := key{
		kind:      n.Kind,
		text:      n.Text,
		props:     fingerprintProps(n.Props),
		theme:     theme.Name,
		baseFg:    packColor(base.Fg),
		baseBg:    packColor(base.Bg),
		focusBits: focusBits,
	}
	if n.Kind == vnode.KindSpinner {
		k.tick = tick
	}
	return k
}

func packColor(c interface{ RGBA() (r, g, b, a uint32) }) uint32 {
	r, g, b, a := c.RGBA()
	return uint32(r>>8)<<24 | uint32(g>>8)<<16 | uint32(b>>8)<<8 | uint32(a>>8)
}

// fingerprintProps renders a node's props into a stable string so it
// can live inside a comparable struct key; map iteration order is
// randomized in Go, so keys are sorted first.
func fingerprintProps(props vnode.Props) string {
	if len(props) == 0 {
		return ""
	}
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := ""
	for _, k := range keys {
		out += fmt.Sprintf("%s=%v;", k, props[k])
	}
	return out
}

// Packet is a recorded, replayable render of one non-structural
// instance's drawlist output, in node-local coordinates (spec.md
// §4.8).
type Packet struct {
	Key     key
	Ops     []recordedOp
	Invalid bool
}

// Cache holds one Packet per runtime instance across frames.
type Cache struct {
	packets map[runtime.ID]Packet
}

func NewCache() *Cache { return &Cache{packets: make(map[runtime.ID]Packet)} }

// Reset discards every cached packet. App.Dispose calls it; the frame
// pipeline does not, and drops packets one instance at a time via Drop.
func (c *Cache) Reset() { c.packets = make(map[runtime.ID]Packet) }

func (c *Cache) get(id runtime.ID) (Packet, bool) {
	p, ok := c.packets[id]
	return p, ok
}

func (c *Cache) set(id runtime.ID, p Packet) {
	if p.Invalid {
		delete(c.packets, id)
		return
	}
	c.packets[id] = p
}

// Drop removes a packet for an instance that was unmounted this
// commit, so a future id reuse (the allocator never reuses ids, but
// defensive cleanup costs nothing) never replays stale ops.
func (c *Cache) Drop(id runtime.ID) { delete(c.packets, id) }
