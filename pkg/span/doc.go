// Package span extracts contiguous runs of selected pixels from a mask grid
// and reorders the pixels inside each run.
//
// # Overview
//
// The sorting effect never moves pixels between scan lines. A mask grid is
// first decomposed into spans, where each [Span] is a maximal run of
// selected cells along one row (horizontal mode) or one column (vertical
// mode). Each span is then sorted independently by a pixel metric, which is
// what produces the characteristic smeared look.
//
// # Span Geometry
//
// A span records the index of its scan line and a half-open [Start, End)
// offset range along that line. Maximality means a span is never split:
// two adjacent selected cells always belong to the same span, so the spans
// of one line are separated by at least one unselected cell. [Extract]
// returns spans ordered by ascending line, then ascending start offset, and
// never emits an empty span.
//
// # Sorting
//
// [SortPixels] permutes a pixel slice in place, ordered by a sort metric
// key computed once per pixel. The sort is stable in both directions:
// descending flips the comparison, not the input, so pixels with equal keys
// keep their original relative order. An unknown metric name leaves the
// slice untouched rather than failing; option validation upstream rejects
// unknown names before they reach this point.
package span
