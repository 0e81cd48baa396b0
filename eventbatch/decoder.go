package eventbatch

import (
	"fmt"
	"log/slog"

	"github.com/vterm/vterm/verror"
)

// Batch owns a decoded, ordered run of events plus the backing bytes
// they were decoded from. The caller that produced the raw bytes
// (typically a backend's read loop) must call Release exactly once,
// whether or not Decode succeeded — this mirrors the teacher's
// events.Deque buffer-reuse discipline, moved from a live queue to a
// one-shot batch.
type Batch struct {
	events   []Event
	raw      []byte
	released bool
	log      *slog.Logger
}

// Events returns the decoded events in wire order. The slice is only
// valid until Release is called.
func (b *Batch) Events() []Event { return b.events }

// Release marks the batch's backing buffer as returned to its owner.
// Calling Release more than once is a caller bug; it is logged, not
// panicked, since a double-release cannot corrupt already-decoded
// events.
func (b *Batch) Release() {
	if b.released {
		b.log.Warn("eventbatch: Release called more than once")
		return
	}
	b.released = true
	b.raw = nil
}

// Decode parses a ZREV v1 buffer into a Batch. On any structural
// error it returns a fatal verror.BatchMalformed and a nil batch: a
// partial batch is never produced, matching spec.md §4.2's "partial
// batches are never consumed."
func Decode(data []byte, log *slog.Logger) (*Batch, *verror.Error) {
	if log == nil {
		log = slog.Default()
	}
	if len(data) < HeaderSize {
		return nil, verror.New(verror.BatchMalformed, fmt.Sprintf("batch shorter than header (%d bytes)", len(data)))
	}
	if string(data[0:4]) != string(Magic[:]) {
		return nil, verror.New(verror.BatchMalformed, fmt.Sprintf("bad magic %q", data[0:4]))
	}
	version := getU32(data[4:8])
	if version != Version {
		return nil, verror.New(verror.BatchMalformed, fmt.Sprintf("unsupported version %d", version))
	}
	totalSize := getU32(data[8:12])
	eventCount := getU32(data[12:16])
	eventsOffset := getU32(data[16:20])
	eventsBytes := getU32(data[20:24])

	if int(totalSize) != len(data) {
		return nil, verror.New(verror.BatchMalformed, fmt.Sprintf("total_size %d does not match buffer length %d", totalSize, len(data)))
	}
	if eventsBytes != eventCount*RecordSize {
		return nil, verror.New(verror.BatchMalformed, fmt.Sprintf("events_bytes %d inconsistent with event_count %d", eventsBytes, eventCount))
	}
	end := uint64(eventsOffset) + uint64(eventsBytes)
	if end > uint64(len(data)) {
		return nil, verror.New(verror.BatchMalformed, fmt.Sprintf("events span extends past buffer end (%d > %d)", end, len(data)))
	}
	payloadBase := end

	events := make([]Event, 0, eventCount)
	for i := uint32(0); i < eventCount; i++ {
		recStart := uint64(eventsOffset) + uint64(i)*RecordSize
		rec := data[recStart : recStart+RecordSize]
		ev, verr := decodeRecord(rec, data, payloadBase)
		if verr != nil {
			return nil, verr
		}
		events = append(events, ev)
	}
	return &Batch{events: events, raw: data, log: log}, nil
}

func decodeRecord(rec []byte, full []byte, payloadBase uint64) (Event, *verror.Error) {
	kind := Kind(rec[0])
	timeMs := getU32(rec[4:8])
	b := base{kind: kind, time: timeMs}
	f := func(i int) uint32 { return getU32(rec[8+i*4 : 12+i*4]) }
	fi := func(i int) int32 { return getI32(rec[8+i*4 : 12+i*4]) }

	switch kind {
	case KindKey:
		return KeyEvent{base: b, Code: f(0), Mods: KeyMods(f(1))}, nil
	case KindText:
		return TextEvent{base: b, Rune: rune(f(0))}, nil
	case KindMouse:
		return MouseEvent{
			base:      b,
			X:         fi(0),
			Y:         fi(1),
			MouseKind: MouseKind(f(2)),
			Buttons:   f(3),
			WheelX:    fi(4),
			WheelY:    fi(5),
		}, nil
	case KindResize:
		return ResizeEvent{base: b, Cols: fi(0), Rows: fi(1)}, nil
	case KindFocus:
		return FocusEvent{base: b, Gained: f(0) != 0}, nil
	case KindPaste:
		text, verr := readPayloadString(full, payloadBase, f(0), f(1))
		if verr != nil {
			return nil, verr
		}
		return PasteEvent{base: b, Text: text}, nil
	case KindUser:
		payload, verr := readPayloadBytes(full, payloadBase, f(1), f(2))
		if verr != nil {
			return nil, verr
		}
		return UserEvent{base: b, Code: f(0), Payload: payload}, nil
	case KindEngine:
		return EngineEvent{base: b, Code: f(0)}, nil
	default:
		return nil, verror.New(verror.BatchMalformed, fmt.Sprintf("unknown event kind %d", rec[0]))
	}
}

func readPayloadBytes(full []byte, base uint64, offset, length uint32) ([]byte, *verror.Error) {
	start := base + uint64(offset)
	end := start + uint64(length)
	if end > uint64(len(full)) {
		return nil, verror.New(verror.BatchMalformed, fmt.Sprintf("payload span extends past buffer end (%d > %d)", end, len(full)))
	}
	return full[start:end], nil
}

func readPayloadString(full []byte, base uint64, offset, length uint32) (string, *verror.Error) {
	b, verr := readPayloadBytes(full, base, offset, length)
	if verr != nil {
		return "", verr
	}
	return string(b), nil
}
