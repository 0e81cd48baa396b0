package drawlist

import (
	"image/color"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vterm/vterm/styles"
)

func TestBuildRoundTripsClearAndFillRect(t *testing.T) {
	b := NewBuilder()
	b.Clear()
	b.FillRect(1, 2, 10, 3, styles.Style{Fg: color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}})
	frame := b.Build().Bytes()

	h, err := ReadHeader(frame)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.CmdCount != 2 {
		t.Fatalf("cmd_count = %d, want 2", h.CmdCount)
	}
	cmds, err := Commands(frame, h)
	if err != nil {
		t.Fatalf("Commands: %v", err)
	}
	gotOps := []Opcode{cmds[0].Op, cmds[1].Op}
	if diff := cmp.Diff([]Opcode{OpClear, OpFillRect}, gotOps); diff != "" {
		t.Fatalf("opcode order mismatch (-want +got):\n%s", diff)
	}
	if len(cmds[0].Body) != SizeClear-8 {
		t.Fatalf("clear body length = %d, want %d", len(cmds[0].Body), SizeClear-8)
	}
	if len(cmds[1].Body) != SizeFillRect-8 {
		t.Fatalf("fill_rect body length = %d, want %d", len(cmds[1].Body), SizeFillRect-8)
	}
}

func TestDrawTextInternsEqualStringsOnce(t *testing.T) {
	b := NewBuilder()
	b.DrawText(0, 0, "hello", styles.Style{}, 80)
	b.DrawText(0, 1, "hello", styles.Style{}, 80)
	frame := b.Build().Bytes()

	h, err := ReadHeader(frame)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.StringCount != 1 {
		t.Fatalf("string_count = %d, want 1 (equal strings should share one span)", h.StringCount)
	}
	cmds, err := Commands(frame, h)
	if err != nil {
		t.Fatalf("Commands: %v", err)
	}
	for _, c := range cmds {
		off := getU32(c.Body[8:12])
		length := getU32(c.Body[12:16])
		if got := StringAt(frame, h, off, length); got != "hello" {
			t.Fatalf("StringAt = %q, want %q", got, "hello")
		}
	}
}

func TestPopClipWithoutPushFails(t *testing.T) {
	b := NewBuilder()
	if b.PopClip() {
		t.Fatal("PopClip should fail with no matching PushClip")
	}
	b.PushClip(0, 0, 80, 24)
	if !b.PopClip() {
		t.Fatal("PopClip should succeed after a matching PushClip")
	}
}

func TestAddBlobReturnsNullPastCap(t *testing.T) {
	b := NewBuilder()
	b.MaxBlobBytes = 4
	if _, ok := b.AddBlob([]byte{1, 2}); !ok {
		t.Fatal("first small blob should fit under the cap")
	}
	if _, ok := b.AddBlob([]byte{1, 2, 3}); ok {
		t.Fatal("second blob should overflow the cap and return ok=false")
	}
}

func TestAddTextRunBlobEncodesEachRun(t *testing.T) {
	b := NewBuilder()
	runs := []TextRun{
		{Text: "foo", Style: styles.Style{Fg: color.RGBA{R: 1, A: 0xff}}},
		{Text: "bar", Style: styles.Style{Fg: color.RGBA{R: 2, A: 0xff}}},
	}
	id, ok := b.AddTextRunBlob(runs)
	if !ok {
		t.Fatal("AddTextRunBlob should not overflow the default cap")
	}
	b.DrawTextRun(0, 0, id)
	frame := b.Build().Bytes()

	h, err := ReadHeader(frame)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.BlobCount != 1 {
		t.Fatalf("blob_count = %d, want 1", h.BlobCount)
	}
}

func TestResetClearsStateForReuse(t *testing.T) {
	b := NewBuilder()
	b.Clear()
	b.DrawText(0, 0, "x", styles.Style{}, 10)
	b.PushClip(0, 0, 1, 1)
	b.Reset()

	if b.CmdCount() != 0 {
		t.Fatalf("CmdCount after Reset = %d, want 0", b.CmdCount())
	}
	if b.PopClip() {
		t.Fatal("clip stack should be empty after Reset")
	}
	frame := b.Build().Bytes()
	h, err := ReadHeader(frame)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if h.CmdCount != 0 || h.StringCount != 0 {
		t.Fatalf("empty frame after reset should have zero counts, got %+v", h)
	}
}

func TestSetLinkMergesIntoNextStyleBearingOp(t *testing.T) {
	b := NewBuilder()
	b.SetLink(7, 9)
	b.FillRect(0, 0, 1, 1, styles.Style{})
	b.SetLink(0, 0)
	b.FillRect(0, 0, 1, 1, styles.Style{})
	frame := b.Build().Bytes()

	h, err := ReadHeader(frame)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	cmds, err := Commands(frame, h)
	if err != nil {
		t.Fatalf("Commands: %v", err)
	}
	firstLinkURI := getU32(cmds[0].Body[16+20 : 16+24])
	secondLinkURI := getU32(cmds[1].Body[16+20 : 16+24])
	if firstLinkURI != 7 {
		t.Fatalf("first fill_rect link_uri_ref = %d, want 7", firstLinkURI)
	}
	if secondLinkURI != 0 {
		t.Fatalf("second fill_rect link_uri_ref = %d, want 0 after clearing", secondLinkURI)
	}
}
