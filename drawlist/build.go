package drawlist

// Frame is a built, immutable ZRDL v5 byte buffer. It is the thing a
// backend receives and a test decodes back into records.
type Frame struct {
	bytes []byte
}

// Bytes returns the encoded frame. Callers must not mutate the
// returned slice.
func (f Frame) Bytes() []byte { return f.bytes }

// Build assembles the accumulated commands, strings and blobs into a
// complete ZRDL v5 frame and returns it. Build does not reset the
// builder; call Reset explicitly to reuse it for the next frame,
// matching spec.md §5's single-writer-per-frame lifecycle.
func (b *Builder) Build() Frame {
	return Frame{bytes: b.buildInto(nil)}
}

// BuildInto appends the built frame to dst and returns the extended
// slice, avoiding an allocation when the caller already owns a
// reusable output buffer (the scheduler's steady-state path).
func (b *Builder) BuildInto(dst []byte) []byte {
	return b.buildInto(dst)
}

func (b *Builder) buildInto(dst []byte) []byte {
	spansBytes := encodeSpans(b.stringSpans)
	blobSpansBytes := encodeSpans(b.blobSpans)

	cmdsOff := uint32(HeaderSize)
	stringsSpanOff := cmdsOff + uint32(len(b.cmds))
	stringsBytesOff := stringsSpanOff + uint32(len(spansBytes))
	blobsSpanOff := stringsBytesOff + uint32(len(b.stringBytes))
	blobsBytesOff := blobsSpanOff + uint32(len(blobSpansBytes))
	total := blobsBytesOff + uint32(len(b.blobBytes))

	base := len(dst)
	out := append(dst, make([]byte, int(total))...)
	hdr := out[base:]

	copy(hdr[0:4], Magic[:])
	putU32(hdr[4:8], Version)
	putU32(hdr[8:12], uint32(b.cmdCount))
	putU32(hdr[12:16], cmdsOff)
	putU32(hdr[16:20], uint32(len(b.cmds)))
	putU32(hdr[20:24], uint32(len(b.stringSpans)))
	putU32(hdr[24:28], stringsSpanOff)
	putU32(hdr[28:32], stringsBytesOff)
	putU32(hdr[32:36], uint32(len(b.stringBytes)))
	putU32(hdr[36:40], uint32(len(b.blobSpans)))
	putU32(hdr[40:44], blobsSpanOff)
	putU32(hdr[44:48], blobsBytesOff)
	putU32(hdr[48:52], uint32(len(b.blobBytes)))
	putU32(hdr[52:56], uint32(b.clipDepth))
	// hdr[56:64] reserved, left zero.

	copy(hdr[cmdsOff:], b.cmds)
	copy(hdr[stringsSpanOff:], spansBytes)
	copy(hdr[stringsBytesOff:], b.stringBytes)
	copy(hdr[blobsSpanOff:], blobSpansBytes)
	copy(hdr[blobsBytesOff:], b.blobBytes)

	return out
}

func encodeSpans(spans []span) []byte {
	out := make([]byte, len(spans)*8)
	for i, sp := range spans {
		putU32(out[i*8:i*8+4], sp.Offset)
		putU32(out[i*8+4:i*8+8], sp.Length)
	}
	return out
}
