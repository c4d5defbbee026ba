package span

import (
	"cmp"
	"slices"

	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// SortPixels reorders px in place by the given sort metric. Keys are
// computed once per pixel, then pixels are sorted stably: equal-key pixels
// keep their original relative order whether descending or not, because
// descending flips the comparison rather than reversing the result.
//
// An unknown metric leaves px in its original order. Slices of length zero
// or one are returned unchanged without computing keys.
func SortPixels(px []raster.Pixel, m metric.SortMetric, descending bool) {
	if len(px) < 2 {
		return
	}
	fn := metric.KeyFunc(m)
	if fn == nil {
		return
	}

	type keyed struct {
		key float64
		pix raster.Pixel
	}
	items := make([]keyed, len(px))
	for i, p := range px {
		items[i] = keyed{key: fn(p), pix: p}
	}

	compare := func(a, b keyed) int { return cmp.Compare(a.key, b.key) }
	if descending {
		compare = func(a, b keyed) int { return cmp.Compare(b.key, a.key) }
	}
	slices.SortStableFunc(items, compare)

	for i, it := range items {
		px[i] = it.pix
	}
}
