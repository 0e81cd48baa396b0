package render

import (
	"github.com/vterm/vterm/drawlist"
	"github.com/vterm/vterm/styles"
)

// opKind enumerates the drawlist ops a recorder can capture for
// translated replay. Spec.md §4.8 names four kinds of op that break
// replay: cursor, link, a clip whose effect outlives the packet, and
// a non-blob canvas/image. Everything else in this closed list is
// representable.
type opKind uint8

const (
	opFillRect opKind = iota
	opDrawText
	opDrawTextRun
	opDrawCanvas
	opDrawImage
)

// recordedOp is one captured builder call in node-local coordinates.
// Only the fields relevant to Kind are populated; blobData carries the
// raw bytes (not a blob id) because blob ids are only valid within the
// Builder that minted them, and a fresh Builder exists every frame —
// replay must re-intern the bytes to get an id valid in the new frame.
type recordedOp struct {
	kind opKind
	x, y int

	w, h int
	text string
	style styles.Style
	maxWidth int

	runs []drawlist.TextRun

	blobID   int32
	blobData []byte
	blitter  drawlist.BlitterKind
	pxW, pxH uint8

	format   drawlist.ImageFormat
	protocol drawlist.ImageProtocol
	zLayer   int16
	fit      drawlist.ImageFit
	imageID  uint16
	pxW16, pxH16 uint16
}

// recorder wraps a real Builder, forwarding every call so this
// frame's output is unaffected, while also capturing a translatable
// record of what it drew so a future frame with an unchanged content
// key can skip straight to replay (package render's packet cache).
type recorder struct {
	b *drawlist.Builder

	originX, originY int
	ops              []recordedOp
	invalid          bool
}

func newRecorder(b *drawlist.Builder, originX, originY int) *recorder {
	return &recorder{b: b, originX: originX, originY: originY}
}

func (r *recorder) FillRect(x, y, w, h int, style styles.Style) {
	r.b.FillRect(x, y, w, h, style)
	r.ops = append(r.ops, recordedOp{kind: opFillRect, x: x - r.originX, y: y - r.originY, w: w, h: h, style: style})
}

func (r *recorder) DrawText(x, y int, text string, style styles.Style, maxWidth int) {
	r.b.DrawText(x, y, text, style, maxWidth)
	r.ops = append(r.ops, recordedOp{kind: opDrawText, x: x - r.originX, y: y - r.originY, text: text, style: style, maxWidth: maxWidth})
}

func (r *recorder) DrawTextRunBlob(x, y int, runs []drawlist.TextRun) {
	id, ok := r.b.AddTextRunBlob(runs)
	if !ok {
		// BuilderOverflow: degrade to a plain DrawText of the
		// concatenated run text with the first run's style, and never
		// cache this frame's packet — the overflow condition is
		// frame-global, not stable content.
		var text string
		var style styles.Style
		if len(runs) > 0 {
			style = runs[0].Style
		}
		for _, run := range runs {
			text += run.Text
		}
		r.DrawText(x, y, text, style, 0)
		r.invalid = true
		return
	}
	r.b.DrawTextRun(x, y, id)
	// Blob ids only live for the Builder that minted them, so the raw
	// runs (not the id) are what replay needs: a fresh frame gets a
	// fresh Builder and must re-intern them to get a valid id.
	r.ops = append(r.ops, recordedOp{kind: opDrawTextRun, x: x - r.originX, y: y - r.originY, runs: runs})
}

// PushClip/PopClip/SetCursor/SetLink all affect state outside the
// packet's own node-local replay, or have no meaningful "translated"
// form (spec.md §4.8), so any use of them invalidates the packet.
func (r *recorder) PushClip(x, y, w, h int) {
	r.b.PushClip(x, y, w, h)
	r.invalid = true
}

func (r *recorder) PopClip() bool {
	ok := r.b.PopClip()
	r.invalid = true
	return ok
}

func (r *recorder) SetCursor(x, y int, shape drawlist.CursorShape, visible, blink bool) {
	r.b.SetCursor(x, y, shape, visible, blink)
	r.invalid = true
}

func (r *recorder) SetLink(uriRef, idRef uint32) {
	r.b.SetLink(uriRef, idRef)
	r.invalid = true
}

func (r *recorder) DrawCanvas(x, y, w, h int, data []byte, blitter drawlist.BlitterKind, pxW, pxH uint8) {
	id, ok := r.b.AddBlob(data)
	if !ok {
		r.invalid = true
		return
	}
	r.b.DrawCanvas(x, y, w, h, id, blitter, pxW, pxH)
	r.ops = append(r.ops, recordedOp{
		kind: opDrawCanvas, x: x - r.originX, y: y - r.originY, w: w, h: h,
		blobData: data, blitter: blitter, pxW: pxW, pxH: pxH,
	})
}

func (r *recorder) DrawImage(x, y, w, h int, data []byte, format drawlist.ImageFormat, protocol drawlist.ImageProtocol, zLayer int16, fit drawlist.ImageFit, imageID uint16, pxW, pxH uint16) {
	id, ok := r.b.AddBlob(data)
	if !ok {
		r.invalid = true
		return
	}
	r.b.DrawImage(x, y, w, h, id, format, protocol, zLayer, fit, imageID, pxW, pxH)
	r.ops = append(r.ops, recordedOp{
		kind: opDrawImage, x: x - r.originX, y: y - r.originY, w: w, h: h,
		blobData: data, format: format, protocol: protocol, zLayer: zLayer,
		fit: fit, imageID: imageID, pxW16: pxW, pxH16: pxH,
	})
}

// replay re-emits a packet's recorded ops onto b, translated so the
// node-local coordinates land at (originX, originY) this frame.
func replay(b *drawlist.Builder, ops []recordedOp, originX, originY int) {
	for _, op := range ops {
		switch op.kind {
		case opFillRect:
			b.FillRect(op.x+originX, op.y+originY, op.w, op.h, op.style)
		case opDrawText:
			b.DrawText(op.x+originX, op.y+originY, op.text, op.style, op.maxWidth)
		case opDrawTextRun:
			if id, ok := b.AddTextRunBlob(op.runs); ok {
				b.DrawTextRun(op.x+originX, op.y+originY, id)
			}
		case opDrawCanvas:
			if id, ok := b.AddBlob(op.blobData); ok {
				b.DrawCanvas(op.x+originX, op.y+originY, op.w, op.h, id, op.blitter, op.pxW, op.pxH)
			}
		case opDrawImage:
			if id, ok := b.AddBlob(op.blobData); ok {
				b.DrawImage(op.x+originX, op.y+originY, op.w, op.h, id, op.format, op.protocol, op.zLayer, op.fit, op.imageID, op.pxW16, op.pxH16)
			}
		}
	}
}
