package span

import "github.com/smearlab/pixelsort/pkg/mask"

// Span is a maximal run of selected cells along one scan line. Line is the
// row index in horizontal mode and the column index in vertical mode. The
// offset range is half-open: Start is the first selected cell, End is one
// past the last, and End > Start always holds for extracted spans.
type Span struct {
	Line  int
	Start int
	End   int
}

// Len returns the number of cells covered by the span.
func (s Span) Len() int { return s.End - s.Start }

// Extract decomposes the grid into maximal spans. In horizontal mode rows
// are scanned left to right; in vertical mode columns are scanned top to
// bottom. Spans are returned ordered by ascending line, then ascending
// start offset. Lines with no selected cells contribute nothing.
func Extract(g *mask.Grid, horizontal bool) []Span {
	var spans []Span

	if horizontal {
		for y := range g.Height() {
			row := g.Row(y)
			start := -1
			for x, selected := range row {
				switch {
				case selected && start < 0:
					start = x
				case !selected && start >= 0:
					spans = append(spans, Span{Line: y, Start: start, End: x})
					start = -1
				}
			}
			if start >= 0 {
				spans = append(spans, Span{Line: y, Start: start, End: len(row)})
			}
		}
		return spans
	}

	for x := range g.Width() {
		start := -1
		for y := range g.Height() {
			switch selected := g.At(x, y); {
			case selected && start < 0:
				start = y
			case !selected && start >= 0:
				spans = append(spans, Span{Line: x, Start: start, End: y})
				start = -1
			}
		}
		if start >= 0 {
			spans = append(spans, Span{Line: x, Start: start, End: g.Height()})
		}
	}
	return spans
}
