// spans.go — source positions and text spans.
//
// Every token and AST node carries a TextSpan pointing back into the original
// source. Spans are the only thing diagnostics ever need: a start/end Position
// pair plus the literal text the span covers. Positions are 1-based for line
// and column (what editors show) and 0-based for the byte index (what slicing
// needs).
package quill

import "fmt"

// Position is a location in a source buffer.
type Position struct {
	Line   int // 1-based
	Column int // 1-based
	Index  int // 0-based byte offset
}

// NewPosition returns the start-of-buffer position.
func NewPosition() Position {
	return Position{Line: 1, Column: 1, Index: 0}
}

// advanceColumn moves one character to the right.
func (p *Position) advanceColumn() {
	p.Column++
	p.Index++
}

// advanceLine moves past a newline: the line counter increments and the
// column resets.
func (p *Position) advanceLine() {
	p.Line++
	p.Column = 1
	p.Index++
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// TextSpan is a contiguous region of source text. Invariant:
// End.Index >= Start.Index.
type TextSpan struct {
	Start   Position
	End     Position
	Literal string
}

func NewTextSpan(start, end Position, literal string) TextSpan {
	return TextSpan{Start: start, End: end, Literal: literal}
}

// Length is the number of bytes the span covers.
func (s TextSpan) Length() int {
	return s.End.Index - s.Start.Index
}

// CombineSpans merges spans into one covering the full range. Spans are
// ordered by start index; literals are concatenated in that order. Combining
// zero spans is a programming error.
func CombineSpans(spans []TextSpan) TextSpan {
	if len(spans) == 0 {
		panic("CombineSpans: no spans")
	}
	sorted := make([]TextSpan, len(spans))
	copy(sorted, spans)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Start.Index < sorted[j-1].Start.Index; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	lit := ""
	for _, s := range sorted {
		lit += s.Literal
	}
	return TextSpan{Start: sorted[0].Start, End: sorted[len(sorted)-1].End, Literal: lit}
}

func (s TextSpan) String() string {
	return fmt.Sprintf("%q (%d:%d)", s.Literal, s.Start.Line, s.Start.Column)
}
