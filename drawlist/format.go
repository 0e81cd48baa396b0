// Package drawlist implements the ZRDL v5 binary frame format
// (spec.md §6.1): an append-only writer that a terminal backend
// consumes to blit a frame.
//
// Grounded on TroutSoftware-rx's XAS instruction buffer
// (render.go: `type XAS []byte` plus `AddInstr`), generalized from
// XAS's variable-length string-tagged opcodes to ZRDL's fixed-size
// records with separate interned-string and blob spans, per the
// exact byte layout spec.md mandates (a format TroutSoftware-rx does
// not need, since its instructions are consumed by the same process
// rather than shipped across a backend boundary).
package drawlist

import "encoding/binary"

// HeaderSize is the fixed ZRDL frame header size in bytes.
const HeaderSize = 64

// Magic is the 4-byte ASCII magic "ZRDL".
var Magic = [4]byte{'Z', 'R', 'D', 'L'}

// Version is the ZRDL protocol version this package writes and reads.
const Version uint32 = 5

// Opcode identifies the kind of a fixed-size command record. Numeric
// values are this engine's own assignment except BLIT_RECT, which
// spec.md §6.1 pins to 14.
type Opcode uint16

const (
	OpClear       Opcode = 1
	OpFillRect    Opcode = 2
	OpDrawText    Opcode = 3
	OpPushClip    Opcode = 4
	OpPopClip     Opcode = 5
	OpDrawTextRun Opcode = 6
	OpSetCursor   Opcode = 7
	OpDrawCanvas  Opcode = 8
	OpDrawImage   Opcode = 9
	OpBlitRect    Opcode = 14
)

// Command record sizes in bytes, including the 8-byte
// (opcode, reserved, size) header. These are the exact sizes spec.md
// §6.1 names for CLEAR, FILL_RECT, DRAW_TEXT, PUSH_CLIP, POP_CLIP,
// DRAW_TEXT_RUN, SET_CURSOR, DRAW_CANVAS, DRAW_IMAGE; BLIT_RECT's size
// is this package's own derivation from its six int32 arguments
// (src_x, src_y, w, h, dst_x, dst_y), since spec.md pins only its
// opcode number, not its size.
const (
	SizeClear       = 8
	SizeFillRect    = 52
	SizeDrawText    = 60
	SizePushClip    = 24
	SizePopClip     = 8
	SizeDrawTextRun = 24
	SizeSetCursor   = 20
	SizeDrawCanvas  = 32
	SizeDrawImage   = 40
	SizeBlitRect    = 32
)

// StyleRecordSize is the 28-byte fixed style record spec.md §6.1
// defines: fg, bg, attrs, reserved, underline_rgb, link_uri_ref,
// link_id_ref, each a little-endian u32.
const StyleRecordSize = 28

// CursorShape is the closed set of terminal cursor shapes SET_CURSOR
// can request.
type CursorShape uint8

const (
	CursorBlock CursorShape = iota
	CursorUnderline
	CursorBar
)

// BlitterKind selects how DRAW_CANVAS's blob bytes are interpreted by
// the backend (e.g. half-block, sixel, kitty). The engine core does
// not interpret blob bytes; it only carries the tag.
type BlitterKind uint8

// ImageFormat and ImageProtocol mirror DRAW_IMAGE's format/protocol
// bytes; again opaque to the core, meaningful to the backend.
type ImageFormat uint8
type ImageProtocol uint8

// ImageFit is the closed set of fit modes for DRAW_IMAGE.
type ImageFit uint8

const (
	FitContain ImageFit = iota
	FitCover
	FitStretch
	FitNone
)

func putU16(b []byte, v uint16) { binary.LittleEndian.PutUint16(b, v) }
func putU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func putI32(b []byte, v int32)  { binary.LittleEndian.PutUint32(b, uint32(v)) }

func getU16(b []byte) uint16 { return binary.LittleEndian.Uint16(b) }
func getU32(b []byte) uint32 { return binary.LittleEndian.Uint32(b) }
func getI32(b []byte) int32  { return int32(binary.LittleEndian.Uint32(b)) }
