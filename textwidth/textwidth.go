// Package textwidth measures the display-cell width of text for
// layout and rendering, per grapheme cluster rather than per rune, so
// combining marks, ZWJ emoji sequences, and East-Asian wide forms all
// measure correctly (spec.md §4.5).
//
// The teacher has no terminal text-measurement analogue (it targets a
// pixel-addressable GUI canvas where text width comes from a font
// rasterizer); this package is grounded directly on the ecosystem
// libraries a terminal engine needs instead: golang.org/x/text/width
// for East-Asian width classification and github.com/rivo/uniseg for
// grapheme cluster segmentation.
package textwidth

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/text/width"
)

// EmojiPolicy selects how emoji-presentation sequences are measured.
type EmojiPolicy uint8

const (
	// EmojiWide measures emoji-presentation clusters as width 2
	// (the default: most terminal emulators render emoji double-wide).
	EmojiWide EmojiPolicy = iota
	// EmojiNarrow measures them as width 1, for backends/fonts that
	// render emoji single-cell.
	EmojiNarrow
)

// Options configures String/Clusters measurement.
type Options struct {
	Emoji EmojiPolicy
}

// DefaultOptions is the wide-emoji default policy spec.md §4.5 names.
var DefaultOptions = Options{Emoji: EmojiWide}

// variationSelector16 forces emoji presentation on an otherwise
// text-presentation codepoint (e.g. U+2764 U+FE0F "heart, emoji
// style").
const (
	variationSelector16 = '\uFE0F'
	combiningKeycap     = '\u20E3'
	zeroWidthJoiner     = '\u200D'
)

// String returns the total display-cell width of s under opts.
func String(s string, opts Options) int {
	total := 0
	state := -1
	for len(s) > 0 {
		var cluster string
		var width int
		cluster, s, width, state = uniseg.FirstGraphemeClusterInString(s, state)
		total += clusterWidth(cluster, width, opts)
	}
	return total
}

// Cluster is one measured grapheme cluster.
type Cluster struct {
	Text  string
	Width int
}

// Clusters segments s into grapheme clusters with their measured
// widths, in order, for callers that need to lay out text cell by
// cell (the text/codeEditor/input renderers).
func Clusters(s string, opts Options) []Cluster {
	var out []Cluster
	state := -1
	for len(s) > 0 {
		var cluster string
		var uw int
		cluster, s, uw, state = uniseg.FirstGraphemeClusterInString(s, state)
		out = append(out, Cluster{Text: cluster, Width: clusterWidth(cluster, uw, opts)})
	}
	return out
}

// clusterWidth resolves uniseg's raw monospace-width guess against
// spec.md's explicit East-Asian-width and emoji policy rules.
func clusterWidth(cluster string, unisegWidth int, opts Options) int {
	if cluster == "" {
		return 0
	}
	r, size := utf8.DecodeRuneInString(cluster)
	if r == utf8.RuneError && size <= 1 {
		// Unpaired surrogate or invalid byte: spec.md requires a
		// non-negative width that never panics.
		return 1
	}

	if isEmojiPresentation(cluster, r) {
		if opts.Emoji == EmojiNarrow {
			return 1
		}
		return 2
	}

	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	case width.EastAsianAmbiguous:
		// spec.md's default ambiguous-width policy: treat as
		// narrow (1 cell) unless uniseg's own cluster-level
		// estimate already says wide (keeps multi-rune clusters
		// like flags/ZWJ sequences consistent with their
		// uniseg-reported width).
		if unisegWidth >= 2 {
			return 2
		}
		return 1
	}

	if unisegWidth > 0 {
		return unisegWidth
	}
	return 1
}

// isEmojiPresentation reports whether a cluster should be measured
// using the emoji policy: explicit VS16, a keycap sequence
// (digit/asterisk/pound + U+20E3), or a multi-rune ZWJ sequence.
func isEmojiPresentation(cluster string, first rune) bool {
	if len(cluster) > len(string(first)) {
		// More than one rune: either VS16, a keycap combining
		// enclosure, or a ZWJ-joined sequence. All are emoji
		// presentation under spec.md §4.5.
		for _, r := range cluster {
			if r == variationSelector16 || r == combiningKeycap || r == zeroWidthJoiner {
				return true
			}
		}
	}
	return isEmojiBaseRune(first)
}

func isEmojiBaseRune(r rune) bool {
	switch {
	case r >= 0x1F300 && r <= 0x1FAFF:
		return true
	case r >= 0x2600 && r <= 0x27BF:
		return true
	case r >= 0x1F1E6 && r <= 0x1F1FF: // regional indicators (flags)
		return true
	default:
		return false
	}
}
