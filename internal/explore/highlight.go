package explore

import (
	"strings"

	"github.com/colonyops/irex/internal/ir"
)

// Segment is a run of source text with a single highlight state.
type Segment struct {
	Text      string
	Highlight bool
}

// Line is one display line of composed source text.
type Line struct {
	Segments []Segment
}

// Plain concatenates the line's text without styling.
func (l Line) Plain() string {
	var b strings.Builder
	for _, seg := range l.Segments {
		b.WriteString(seg.Text)
	}
	return b.String()
}

// HighlightSpan maps the target span onto the block's source text, producing
// display lines where the substring the instruction was compiled from is
// marked highlighted and everything else is plain.
//
// Spans are byte offsets in absolute source coordinates; block.Start is the
// offset origin of source. Splitting happens on exact byte boundaries: spans
// are defined over the stored encoding, and a span edge inside a multi-byte
// rune is honored as-is rather than rounded.
//
// The function is pure; it is re-run on every selection change.
func HighlightSpan(source string, block, target ir.Span) []Line {
	// Instructions synthesized by lowering have no source correspondence;
	// spans outside the block fall back to fully plain text.
	if target.IsZero() || !block.Contains(target) {
		return plainLines(source)
	}

	start := target.Start - block.Start
	end := target.End - block.Start
	if start > len(source) || end > len(source) || start > end {
		return plainLines(source)
	}

	prefix := strings.Split(source[:start], "\n")
	marked := strings.Split(source[start:end], "\n")
	suffix := strings.Split(source[end:], "\n")

	lines := make([]Line, 0, len(prefix)+len(marked)+len(suffix)-2)

	// Complete lines strictly before the highlight.
	for _, text := range prefix[:len(prefix)-1] {
		lines = append(lines, plainLine(text))
	}

	// The line where the highlight starts: plain prefix + first marked run.
	first := Line{}
	if tail := prefix[len(prefix)-1]; tail != "" {
		first.Segments = append(first.Segments, Segment{Text: tail})
	}
	first.Segments = append(first.Segments, Segment{Text: marked[0], Highlight: true})

	if len(marked) == 1 {
		// Highlight begins and ends on the same line: close it with the
		// plain remainder and emit the rest as-is.
		if head := suffix[0]; head != "" {
			first.Segments = append(first.Segments, Segment{Text: head})
		}
		lines = append(lines, first)
	} else {
		lines = append(lines, first)

		// Lines fully inside the highlight.
		for _, text := range marked[1 : len(marked)-1] {
			lines = append(lines, Line{Segments: []Segment{{Text: text, Highlight: true}}})
		}

		// The line where the highlight ends: marked prefix + plain remainder.
		last := Line{Segments: []Segment{{Text: marked[len(marked)-1], Highlight: true}}}
		if head := suffix[0]; head != "" {
			last.Segments = append(last.Segments, Segment{Text: head})
		}
		lines = append(lines, last)
	}

	// Complete lines strictly after the highlight.
	for _, text := range suffix[1:] {
		lines = append(lines, plainLine(text))
	}

	return lines
}

func plainLines(source string) []Line {
	split := strings.Split(source, "\n")
	lines := make([]Line, len(split))
	for i, text := range split {
		lines[i] = plainLine(text)
	}
	return lines
}

func plainLine(text string) Line {
	return Line{Segments: []Segment{{Text: text}}}
}
