package eventbatch

// Event is implemented by every concrete event type this package
// decodes. It is a closed set (Kind returns one of the Kind
// constants); callers type-switch on the concrete type to get at
// kind-specific fields, mirroring the teacher's events.Event
// interface plus per-kind struct split (events/event.go, events/mouse.go).
type Event interface {
	Kind() Kind
	TimeMs() uint32
}

type base struct {
	kind Kind
	time uint32
}

func (b base) Kind() Kind     { return b.kind }
func (b base) TimeMs() uint32 { return b.time }

// KeyEvent is a raw key press/release, keycode plus modifier bitmask.
type KeyEvent struct {
	base
	Code uint32
	Mods KeyMods
}

// KeyMods is a bitmask of modifier keys held during a KeyEvent.
type KeyMods uint32

const (
	ModCtrl KeyMods = 1 << iota
	ModAlt
	ModShift
	ModSuper
)

// TextEvent carries one decoded Unicode codepoint from the input
// stream (IME commit, printable key, pasted character run split into
// codepoints by the backend).
type TextEvent struct {
	base
	Rune rune
}

// MouseEvent carries a pointer action: position, sub-kind, held
// button bitmask, and scroll deltas (populated only for
// MouseScroll).
type MouseEvent struct {
	base
	X, Y       int32
	MouseKind  MouseKind
	Buttons    uint32
	WheelX     int32
	WheelY     int32
}

// ResizeEvent carries a new terminal size in character cells.
type ResizeEvent struct {
	base
	Cols, Rows int32
}

// FocusEvent reports the terminal window gaining or losing focus.
type FocusEvent struct {
	base
	Gained bool
}

// PasteEvent carries a bracketed-paste payload too large to fit in
// the fixed record; its text lives in the batch's trailing payload
// table.
type PasteEvent struct {
	base
	Text string
}

// UserEvent is an application-defined event with an opaque payload,
// used by app.on_event consumers to inject synthetic events.
type UserEvent struct {
	base
	Code    uint32
	Payload []byte
}

// EngineEvent is reserved for engine-internal signals (e.g. backend
// suspend/resume) that ride the same wire as user input.
type EngineEvent struct {
	base
	Code uint32
}
