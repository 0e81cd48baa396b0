// Package eventbatch decodes the ZREV v1 binary input-event batch
// (spec.md §6.2) into an ordered slice of typed events.
//
// Grounded on the teacher's events package (events/event.go's
// per-kind structs: Key, Mouse, MouseScroll) for the event taxonomy,
// and on events/deque.go's decode-once ownership discipline, adapted
// from a live, mutex-guarded OS event queue to a one-shot owned
// buffer decoded from bytes a backend handed over exactly once.
package eventbatch

import "encoding/binary"

// HeaderSize is the fixed ZREV v1 header size in bytes (spec.md §6.2:
// "24-byte header").
const HeaderSize = 24

// Magic is the 4-byte ASCII magic "ZREV".
var Magic = [4]byte{'Z', 'R', 'E', 'V'}

// Version is the ZREV protocol version this package decodes.
const Version uint32 = 1

// RecordSize is the fixed size of one event record: kind (1) +
// reserved (3) + time_ms (4) + six u32 payload words (24) = 32 bytes.
const RecordSize = 32

// Kind is the closed set of event kinds ZREV carries.
type Kind uint8

const (
	KindKey Kind = iota + 1
	KindText
	KindMouse
	KindResize
	KindFocus
	KindPaste
	KindUser
	KindEngine
)

func (k Kind) String() string {
	switch k {
	case KindKey:
		return "key"
	case KindText:
		return "text"
	case KindMouse:
		return "mouse"
	case KindResize:
		return "resize"
	case KindFocus:
		return "focus"
	case KindPaste:
		return "paste"
	case KindUser:
		return "user"
	case KindEngine:
		return "engine"
	default:
		return "unknown"
	}
}

// MouseKind is the closed set of mouse sub-kinds spec.md §6.2 lists.
type MouseKind uint32

const (
	MouseDown MouseKind = iota + 1
	MouseUp
	MousePress
	MouseRelease
	MouseScroll
)

func getU32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func getI32(b []byte) int32  { return int32(binary.LittleEndian.Uint32(b)) }
