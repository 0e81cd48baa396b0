package drawlist

import (
	"github.com/vterm/vterm/styles"
)

// DefaultMaxBlobBytes bounds how much blob payload a single frame may
// accumulate before AddBlob/AddTextRunBlob starts returning "null"
// (spec.md §4.1 BuilderOverflow). Callers that need a different cap
// (e.g. a constrained backend) can set Builder.MaxBlobBytes directly.
const DefaultMaxBlobBytes = 8 << 20

type span struct{ Offset, Length uint32 }

// TextRun is one styled run within a text-run blob.
type TextRun struct {
	Text  string
	Style styles.Style
}

// Builder is a single-writer, append-only ZRDL frame builder. It is
// not safe for concurrent use; the scheduler (package vterm) gives
// each frame its own Builder or calls Reset between frames, matching
// spec.md §5 "Builders ... single-writer per frame, reset on reset()".
type Builder struct {
	cmds []byte

	stringBytes []byte
	stringSpans []span
	internIndex map[string]span

	blobBytes []byte
	blobSpans []span

	clipDepth int
	cmdCount  int

	pendingLinkURI, pendingLinkID uint32

	// MaxBlobBytes bounds total blob payload; zero means
	// DefaultMaxBlobBytes.
	MaxBlobBytes int
}

// NewBuilder returns a ready-to-use Builder.
func NewBuilder() *Builder {
	return &Builder{internIndex: make(map[string]span)}
}

// Reset clears the builder for reuse without reallocating its
// backing arrays, mirroring TroutSoftware-rx's GetNode/FreePool
// buffer-reuse discipline (render.go) adapted from a node pool to a
// byte-buffer pool.
func (b *Builder) Reset() {
	b.cmds = b.cmds[:0]
	b.stringBytes = b.stringBytes[:0]
	b.stringSpans = b.stringSpans[:0]
	for k := range b.internIndex {
		delete(b.internIndex, k)
	}
	b.blobBytes = b.blobBytes[:0]
	b.blobSpans = b.blobSpans[:0]
	b.clipDepth = 0
	b.cmdCount = 0
	b.pendingLinkURI, b.pendingLinkID = 0, 0
}

func (b *Builder) intern(s string) span {
	if sp, ok := b.internIndex[s]; ok {
		return sp
	}
	sp := span{Offset: uint32(len(b.stringBytes)), Length: uint32(len(s))}
	b.stringBytes = append(b.stringBytes, s...)
	b.stringSpans = append(b.stringSpans, sp)
	b.internIndex[s] = sp
	return sp
}

func (b *Builder) maxBlobBytes() int {
	if b.MaxBlobBytes > 0 {
		return b.MaxBlobBytes
	}
	return DefaultMaxBlobBytes
}

// AddBlob appends an opaque byte blob (canvas/image pixel payload)
// and returns its id, or ok=false ("null") if MaxBlobBytes would be
// exceeded (spec.md §4.1 BuilderOverflow).
func (b *Builder) AddBlob(data []byte) (id int32, ok bool) {
	if len(b.blobBytes)+len(data) > b.maxBlobBytes() {
		return -1, false
	}
	sp := span{Offset: uint32(len(b.blobBytes)), Length: uint32(len(data))}
	b.blobBytes = append(b.blobBytes, data...)
	id = int32(len(b.blobSpans))
	b.blobSpans = append(b.blobSpans, sp)
	return id, true
}

// AddTextRunBlob packs many styled runs into one blob (the "fast
// path" of spec.md §4.1) and returns its id, or ok=false if the
// resulting blob would exceed MaxBlobBytes. Each run is encoded as
// (string-offset u32, string-length u32, 28-byte style) = 36 bytes,
// with run text interned in the shared string table.
func (b *Builder) AddTextRunBlob(runs []TextRun) (id int32, ok bool) {
	payload := make([]byte, 0, len(runs)*36)
	for _, r := range runs {
		sp := b.intern(r.Text)
		var rec [36]byte
		putU32(rec[0:4], sp.Offset)
		putU32(rec[4:8], sp.Length)
		writeStyle(rec[8:36], r.Style, b.pendingLinkURI, b.pendingLinkID)
		payload = append(payload, rec[:]...)
	}
	return b.AddBlob(payload)
}

func writeStyle(dst []byte, s styles.Style, linkURI, linkID uint32) {
	fg, bg, attrs, underline := s.Pack()
	putU32(dst[0:4], fg)
	putU32(dst[4:8], bg)
	putU32(dst[8:12], attrs)
	putU32(dst[12:16], 0) // reserved
	putU32(dst[16:20], underline)
	putU32(dst[20:24], linkURI)
	putU32(dst[24:28], linkID)
}

func (b *Builder) appendCmd(op Opcode, size uint32, body func(buf []byte)) {
	start := len(b.cmds)
	b.cmds = append(b.cmds, make([]byte, size)...)
	rec := b.cmds[start : start+int(size)]
	putU16(rec[0:2], uint16(op))
	putU16(rec[2:4], 0)
	putU32(rec[4:8], size)
	if body != nil {
		body(rec[8:])
	}
	b.cmdCount++
}

// Clear appends a CLEAR command with no payload: "clear the whole
// viewport to its default background" (spec.md §4.1 clear()).
func (b *Builder) Clear() { b.appendCmd(OpClear, SizeClear, nil) }

// ClearTo is sugar for Clear followed, when style is non-nil, by a
// FillRect covering (0,0,cols,rows); a nil style emits only the
// Clear. spec.md §6.1's opcode table has no distinct
// CLEAR_TO record, so this composes the two primitives it does
// define rather than inventing an eleventh opcode.
func (b *Builder) ClearTo(cols, rows int, style *styles.Style) {
	b.Clear()
	if style != nil {
		b.FillRect(0, 0, cols, rows, *style)
	}
}

// FillRect appends a FILL_RECT command.
func (b *Builder) FillRect(x, y, w, h int, style styles.Style) {
	uri, id := b.pendingLinkURI, b.pendingLinkID
	b.appendCmd(OpFillRect, SizeFillRect, func(buf []byte) {
		putI32(buf[0:4], int32(x))
		putI32(buf[4:8], int32(y))
		putI32(buf[8:12], int32(w))
		putI32(buf[12:16], int32(h))
		writeStyle(buf[16:44], style, uri, id)
	})
}

// DrawText appends a DRAW_TEXT command. The text is interned: equal
// strings across calls share a single strings-table entry.
func (b *Builder) DrawText(x, y int, text string, style styles.Style, maxWidth int) {
	sp := b.intern(text)
	uri, id := b.pendingLinkURI, b.pendingLinkID
	b.appendCmd(OpDrawText, SizeDrawText, func(buf []byte) {
		putI32(buf[0:4], int32(x))
		putI32(buf[4:8], int32(y))
		putU32(buf[8:12], sp.Offset)
		putU32(buf[12:16], sp.Length)
		writeStyle(buf[16:44], style, uri, id)
		putI32(buf[44:48], int32(maxWidth))
		putU32(buf[48:52], 0)
	})
}

// DrawTextRun appends a DRAW_TEXT_RUN command referencing a blob
// built by AddTextRunBlob.
func (b *Builder) DrawTextRun(x, y int, blobID int32) {
	b.appendCmd(OpDrawTextRun, SizeDrawTextRun, func(buf []byte) {
		putI32(buf[0:4], int32(x))
		putI32(buf[4:8], int32(y))
		putU32(buf[8:12], uint32(blobID))
		putU32(buf[12:16], 0)
	})
}

// PushClip appends a PUSH_CLIP command. Nested clips intersect; the
// intersection is the render pipeline's responsibility (package
// render), the builder just records the stack depth for PopClip's
// balance check.
func (b *Builder) PushClip(x, y, w, h int) {
	b.clipDepth++
	b.appendCmd(OpPushClip, SizePushClip, func(buf []byte) {
		putI32(buf[0:4], int32(x))
		putI32(buf[4:8], int32(y))
		putI32(buf[8:12], int32(w))
		putI32(buf[12:16], int32(h))
	})
}

// PopClip appends a POP_CLIP command. Returns false if there is no
// matching PushClip (caller bug, not a wire-format error).
func (b *Builder) PopClip() bool {
	if b.clipDepth == 0 {
		return false
	}
	b.clipDepth--
	b.appendCmd(OpPopClip, SizePopClip, nil)
	return true
}

// SetCursor appends a SET_CURSOR command.
func (b *Builder) SetCursor(x, y int, shape CursorShape, visible, blink bool) {
	b.appendCmd(OpSetCursor, SizeSetCursor, func(buf []byte) {
		putI32(buf[0:4], int32(x))
		putI32(buf[4:8], int32(y))
		var packed uint32
		packed |= uint32(shape)
		if visible {
			packed |= 1 << 8
		}
		if blink {
			packed |= 1 << 9
		}
		putU32(buf[8:12], packed)
	})
}

// HideCursor is sugar for SetCursor(0, 0, CursorBlock, false, false).
func (b *Builder) HideCursor() { b.SetCursor(0, 0, CursorBlock, false, false) }

// SetLink stashes a hyperlink reference that is merged into the
// style record of the next style-bearing command (FillRect, DrawText,
// AddTextRunBlob). Pass 0, 0 to clear it. There is no dedicated wire
// opcode for SET_LINK: spec.md's closed opcode table has no SET_LINK
// entry, so it rides along inside the style record's existing
// link_uri_ref/link_id_ref fields instead.
func (b *Builder) SetLink(uriRef, idRef uint32) {
	b.pendingLinkURI, b.pendingLinkID = uriRef, idRef
}

// DrawCanvas appends a DRAW_CANVAS command. If blobID is -1 (a null
// blob from AddBlob), callers are expected to have already degraded
// to an alternative representation; DrawCanvas still emits a
// best-effort record with blob id 0xFFFFFFFF so the backend can skip it.
func (b *Builder) DrawCanvas(x, y, w, h int, blobID int32, blitter BlitterKind, pxW, pxH uint8) {
	b.appendCmd(OpDrawCanvas, SizeDrawCanvas, func(buf []byte) {
		putI32(buf[0:4], int32(x))
		putI32(buf[4:8], int32(y))
		putI32(buf[8:12], int32(w))
		putI32(buf[12:16], int32(h))
		putU32(buf[16:20], uint32(blobID))
		buf[20] = byte(blitter)
		buf[21] = pxW
		buf[22] = pxH
		buf[23] = 0
	})
}

// DrawImage appends a DRAW_IMAGE command.
func (b *Builder) DrawImage(x, y, w, h int, blobID int32, format ImageFormat, protocol ImageProtocol, zLayer int16, fit ImageFit, imageID uint16, pxW, pxH uint16) {
	b.appendCmd(OpDrawImage, SizeDrawImage, func(buf []byte) {
		putI32(buf[0:4], int32(x))
		putI32(buf[4:8], int32(y))
		putI32(buf[8:12], int32(w))
		putI32(buf[12:16], int32(h))
		putU32(buf[16:20], uint32(blobID))
		buf[20] = byte(format)
		buf[21] = byte(protocol)
		buf[22] = byte(fit)
		buf[23] = 0
		putU16(buf[24:26], uint16(zLayer))
		putU16(buf[26:28], imageID)
		putU16(buf[28:30], pxW)
		putU16(buf[30:32], pxH)
	})
}

// BlitRect appends a BLIT_RECT command (spec.md §6.1 opcode 14): copy
// a region from the previous frame, the scroll/blit optimization.
func (b *Builder) BlitRect(srcX, srcY, w, h, dstX, dstY int) {
	b.appendCmd(OpBlitRect, SizeBlitRect, func(buf []byte) {
		putI32(buf[0:4], int32(srcX))
		putI32(buf[4:8], int32(srcY))
		putI32(buf[8:12], int32(w))
		putI32(buf[12:16], int32(h))
		putI32(buf[16:20], int32(dstX))
		putI32(buf[20:24], int32(dstY))
	})
}

// CmdCount returns the number of commands appended so far, without
// building the frame.
func (b *Builder) CmdCount() int { return b.cmdCount }
