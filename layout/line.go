package layout

import "strings"

// CharWidth and CharHeight model the fixed-size monospace cell text is
// measured against; real font metrics are out of scope (§4.7).
const (
	CharWidth  = 8
	CharHeight = 16
)

// LineBox is one line of inline boxes, sized to fit within a block's
// content width.
type LineBox struct {
	Inlines []*InlineBox
}

// SplitLines packs inlines into LineBoxes no wider than maxWidth.
//
// A leaf text inline (Text != "") is split word-by-word, breaking only at
// the space character, carrying the remainder onto the next line. A
// non-leaf inline (one with nested Children, e.g. an <a>) is placed as a
// single atomic unit — this core does not split inline content across a
// line break inside a nested inline box.
func SplitLines(inlines []*InlineBox, maxWidth int) []*LineBox {
	var lines []*LineBox
	current := &LineBox{}
	width := 0

	newLine := func() {
		if len(current.Inlines) > 0 {
			lines = append(lines, current)
		}
		current = &LineBox{}
		width = 0
	}

	place := func(ib *InlineBox, w int) {
		if width > 0 && width+w > maxWidth {
			newLine()
		}
		current.Inlines = append(current.Inlines, ib)
		width += w
	}

	for _, inline := range inlines {
		if inline.Text == "" {
			place(inline, inlineWidth(inline))
			continue
		}
		for _, word := range splitKeepingSpaces(inline.Text) {
			place(&InlineBox{Origin: inline.Origin, Object: inline.Object, Style: inline.Style, Text: word}, len(word)*CharWidth)
		}
	}
	newLine()
	return lines
}

// splitKeepingSpaces splits s into pieces after each space, keeping each
// space attached to the end of the preceding word so that re-concatenating the
// pieces in order reproduces s exactly.
func splitKeepingSpaces(s string) []string {
	if s == "" {
		return nil
	}
	fields := strings.SplitAfter(s, " ")
	var out []string
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func inlineWidth(inline *InlineBox) int {
	if inline.Text != "" {
		return len(inline.Text) * CharWidth
	}
	w := 0
	for _, c := range inline.Children {
		w += inlineWidth(c)
	}
	return w
}
