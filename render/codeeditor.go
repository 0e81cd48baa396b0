package render

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/vterm/vterm/drawlist"
	"github.com/vterm/vterm/layout"
	"github.com/vterm/vterm/styles"
	"github.com/vterm/vterm/vnode"
)

// renderCodeEditor tokenizes the codeEditor leaf's source through
// chroma's lexer registry and draws each visible line as a styled
// text run blob, so syntax colors ride the same DRAW_TEXT_RUN path
// spec.md §4.1 defines for any multi-style line rather than a special
// opcode of their own.
//
// Grounded on SPEC_FULL.md §3.8: "runs its source text through
// chroma/v2's lexer/formatter-less tokenizer to build styled text
// runs" — this package never uses chroma's HTML/terminal formatters,
// only its Lexer.Tokenise, since the drawlist's own style records are
// the output format.
func renderCodeEditor(rec *recorder, n *vnode.Node, rect layout.Rect, style styles.Style, theme styles.Theme) {
	source := vnode.Get(n, "source", "")
	language := vnode.Get(n, "language", "")
	scrollTop := vnode.Get(n, "scrollTop", 0)

	rec.PushClip(rect.X, rect.Y, rect.W, rect.H)
	defer rec.PopClip()

	lines := tokenizeLines(source, language, theme)
	for row := 0; row < rect.H; row++ {
		idx := row + scrollTop
		if idx < 0 || idx >= len(lines) {
			continue
		}
		runs := lines[idx]
		if len(runs) == 0 {
			continue
		}
		rec.DrawTextRunBlob(rect.X, rect.Y+row, runs)
	}
}

// tokenizeLines lexes source and buckets the resulting tokens by
// line, converting chroma's token categories into this engine's own
// styles.Style via a small closed mapping onto the theme's palette.
// Falls back to one unstyled run per line when no lexer matches
// (plain text, or an unrecognized language name) rather than failing
// the render.
func tokenizeLines(source, language string, theme styles.Theme) [][]drawlist.TextRun {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		return plainLines(source, theme)
	}
	lexer = chroma.Coalesce(lexer)
	iter, err := lexer.Tokenise(nil, source)
	if err != nil {
		return plainLines(source, theme)
	}

	var lines [][]drawlist.TextRun
	var current []drawlist.TextRun
	for _, tok := range iter.Tokens() {
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, current)
				current = nil
			}
			if part == "" {
				continue
			}
			current = append(current, drawlist.TextRun{Text: part, Style: tokenStyle(tok.Type, theme)})
		}
	}
	lines = append(lines, current)
	return lines
}

func plainLines(source string, theme styles.Theme) [][]drawlist.TextRun {
	base := theme.Base()
	var lines [][]drawlist.TextRun
	for _, line := range strings.Split(source, "\n") {
		if line == "" {
			lines = append(lines, nil)
			continue
		}
		lines = append(lines, []drawlist.TextRun{{Text: line, Style: base}})
	}
	return lines
}

// tokenStyle maps chroma's token categories onto the theme's small
// semantic palette; this engine has no per-language color scheme
// config, only the theme's fg/accent/danger colors, so the mapping is
// coarse by design (comments dimmed, strings/literals tinted with the
// accent, errors/keywords with whatever contrast the theme affords).
func tokenStyle(t chroma.TokenType, theme styles.Theme) styles.Style {
	base := theme.Base()
	switch {
	case t.InCategory(chroma.Comment):
		s := base
		s.Attrs |= styles.Dim | styles.Italic
		return s
	case t.InCategory(chroma.Keyword):
		s := base
		s.Fg = theme.Accent
		s.Attrs |= styles.Bold
		return s
	case t.InCategory(chroma.LiteralString):
		s := base
		s.Fg = styles.BlendRGB(70, theme.Accent, theme.Fg)
		return s
	case t.InCategory(chroma.LiteralNumber):
		s := base
		s.Fg = theme.Accent
		return s
	case t.InCategory(chroma.NameFunction), t.InCategory(chroma.NameClass):
		s := base
		s.Attrs |= styles.Bold
		return s
	case t.InCategory(chroma.GenericError), t == chroma.Error:
		s := base
		s.Fg = theme.Danger
		return s
	default:
		return base
	}
}
