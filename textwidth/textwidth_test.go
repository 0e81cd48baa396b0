package textwidth

import "testing"

func TestASCIIIsWidthOne(t *testing.T) {
	if got := String("hello", DefaultOptions); got != 5 {
		t.Fatalf("String(hello) = %d, want 5", got)
	}
}

func TestCJKIdeographIsWidthTwo(t *testing.T) {
	if got := String("中文", DefaultOptions); got != 4 {
		t.Fatalf("String(中文) = %d, want 4", got)
	}
}

func TestFullwidthFormIsWidthTwo(t *testing.T) {
	if got := String("Ａ", DefaultOptions); got != 2 {
		t.Fatalf("fullwidth A = %d, want 2", got)
	}
}

func TestEmojiPresentationVS16IsWideByDefault(t *testing.T) {
	heart := "❤️" // heavy black heart + VS16
	if got := String(heart, DefaultOptions); got != 2 {
		t.Fatalf("String(heart+VS16) = %d, want 2", got)
	}
}

func TestEmojiNarrowPolicyOverridesWide(t *testing.T) {
	heart := "❤️"
	opts := Options{Emoji: EmojiNarrow}
	if got := String(heart, opts); got != 1 {
		t.Fatalf("String(heart+VS16, narrow) = %d, want 1", got)
	}
}

func TestKeycapSequenceIsWidthTwo(t *testing.T) {
	keycap := "1️⃣" // "1" + VS16 + combining keycap
	if got := String(keycap, DefaultOptions); got != 2 {
		t.Fatalf("String(keycap) = %d, want 2", got)
	}
}

func TestUnpairedSurrogateYieldsNonNegativeWidthAndNeverPanics(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("unexpected panic: %v", r)
		}
	}()
	// 0xED 0xA0 0x80 is the UTF-8-like encoding of an unpaired high
	// surrogate, invalid as UTF-8 but must not crash the measurer.
	bad := string([]byte{0xED, 0xA0, 0x80})
	if got := String(bad, DefaultOptions); got < 0 {
		t.Fatalf("String(bad) = %d, want >= 0", got)
	}
}

func TestClustersSegmentsCombiningMarksIntoOneCluster(t *testing.T) {
	s := "é" // "e" + combining acute accent
	cs := Clusters(s, DefaultOptions)
	if len(cs) != 1 {
		t.Fatalf("Clusters(e+acute) produced %d clusters, want 1", len(cs))
	}
	if cs[0].Width != 1 {
		t.Fatalf("combining-mark cluster width = %d, want 1", cs[0].Width)
	}
}
