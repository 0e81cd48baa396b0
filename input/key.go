// Package input routes decoded eventbatch.Events to either a state
// update closure or an action event, following the six-level
// precedence chain of spec.md §4.10.
//
// Grounded on the teacher's bubble-up dispatch
// (Events.handleFocusEvent's WalkUpParent in core/events.go) and on
// TroutSoftware-rx/etree.go's parents() walk for the
// focused-widget-then-ancestors search order — both describe
// "start at the event's target and climb until something claims it,"
// which this package keeps as its own relative-to-focus precedence
// chain even though the etree.go file itself did not survive into
// this pack's current copy (see the top-level note in DESIGN.md about
// the reference-pack incident).
package input

import "github.com/vterm/vterm/eventbatch"

// Named key codes this engine's KeyEvent.Code space reserves for
// non-printable keys. Backspace, Tab, Enter, Esc and Space keep their
// ASCII codes; the navigation keys (arrows, Home, End, PageUp,
// PageDown, Delete) take codes from 0xE000 upward, above the printable
// ASCII/control range, so they never collide with a literal
// character. Spec.md §6.2 leaves the exact code space to the backend; this
// is this engine's own closed contract for it.
const (
	CodeBackspace uint32 = 0x08
	CodeTab       uint32 = 0x09
	CodeEnter     uint32 = 0x0d
	CodeEsc       uint32 = 0x1b
	CodeSpace     uint32 = 0x20

	codeNamedBase uint32 = 0xE000
	CodeUp        uint32 = codeNamedBase + iota
	CodeDown
	CodeLeft
	CodeRight
	CodeHome
	CodeEnd
	CodePageUp
	CodePageDown
	CodeDelete
)

var namedKeys = map[uint32]string{
	CodeBackspace: "backspace",
	CodeTab:       "tab",
	CodeEnter:     "enter",
	CodeEsc:       "esc",
	CodeSpace:     "space",
	CodeUp:        "up",
	CodeDown:      "down",
	CodeLeft:      "left",
	CodeRight:     "right",
	CodeHome:      "home",
	CodeEnd:       "end",
	CodePageUp:    "pageup",
	CodePageDown:  "pagedown",
	CodeDelete:    "delete",
}

// Key is the router's normalized keyboard input: either a named key
// (Name non-empty) or a printable rune, plus whichever modifiers were
// held. Binding is the string form app keybinding tables and overlay
// shortcut tables key off (e.g. "ctrl+p", "esc", "enter").
type Key struct {
	Name  string
	Rune  rune
	Ctrl  bool
	Alt   bool
	Shift bool
}

// Binding renders k into the string form a keybinding table is keyed
// by: modifiers in a fixed ctrl+alt+shift order, then the key name or
// the lowercased rune.
func (k Key) Binding() string {
	s := ""
	if k.Ctrl {
		s += "ctrl+"
	}
	if k.Alt {
		s += "alt+"
	}
	if k.Shift {
		s += "shift+"
	}
	if k.Name != "" {
		return s + k.Name
	}
	return s + string(k.Rune)
}

// FromKeyEvent translates a raw KeyEvent into a Key, resolving named
// codes via the namedKeys table and falling back to treating Code as
// a literal rune.
func FromKeyEvent(ev eventbatch.KeyEvent) Key {
	k := Key{
		Ctrl:  ev.Mods&eventbatch.ModCtrl != 0,
		Alt:   ev.Mods&eventbatch.ModAlt != 0,
		Shift: ev.Mods&eventbatch.ModShift != 0,
	}
	if name, ok := namedKeys[ev.Code]; ok {
		k.Name = name
		return k
	}
	k.Rune = rune(ev.Code)
	return k
}

// FromTextEvent translates a decoded TextEvent into a Key, applying
// spec.md §4.10's control-byte synthesis rule: ASCII control bytes
// 0x01..0x1f become the corresponding Ctrl+Letter binding, except Tab
// (0x09) and Enter (0x0d), which must never synthesize Ctrl+I/Ctrl+M
// and are instead surfaced as their own named keys so level 4 widget
// routing (which expects a literal Tab/Enter, not a ctrl chord) still
// sees them correctly.
func FromTextEvent(ev eventbatch.TextEvent) Key {
	switch ev.Rune {
	case 0x09:
		return Key{Name: "tab"}
	case 0x0d:
		return Key{Name: "enter"}
	}
	if ev.Rune >= 0x01 && ev.Rune <= 0x1f {
		letter := rune('a' + (ev.Rune - 1))
		return Key{Ctrl: true, Rune: letter}
	}
	return Key{Rune: ev.Rune}
}

// Translate converts any decoded eventbatch.Event that carries
// keyboard information into a Key, reporting ok=false for events this
// package does not treat as keyboard input (mouse, resize, focus,
// paste, user, engine).
func Translate(ev eventbatch.Event) (Key, bool) {
	switch e := ev.(type) {
	case eventbatch.KeyEvent:
		return FromKeyEvent(e), true
	case eventbatch.TextEvent:
		return FromTextEvent(e), true
	default:
		return Key{}, false
	}
}
