package span

import (
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/raster"
)

func grays(vals ...uint8) []raster.Pixel {
	out := make([]raster.Pixel, len(vals))
	for i, v := range vals {
		out[i] = raster.Pixel{v, v, v}
	}
	return out
}

func TestSortPixelsDirections(t *testing.T) {
	// Luminance keys 0.902, 0.2, 0.502.
	tests := []struct {
		name       string
		descending bool
		want       []raster.Pixel
	}{
		{name: "Ascending", descending: false, want: grays(51, 128, 230)},
		{name: "Descending", descending: true, want: grays(230, 128, 51)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			px := grays(230, 51, 128)
			SortPixels(px, metric.MetricLuminance, tt.descending)
			if !slices.Equal(px, tt.want) {
				t.Errorf("sorted = %v, want %v", px, tt.want)
			}
		})
	}
}

func TestSortPixelsStableOnEqualKeys(t *testing.T) {
	// All four pixels share red=100, so the red metric cannot distinguish
	// them. A stable sort must keep them exactly in place, in both
	// directions.
	original := []raster.Pixel{
		{100, 1, 1}, {100, 2, 2}, {100, 3, 3}, {100, 4, 4},
	}

	for _, descending := range []bool{false, true} {
		px := slices.Clone(original)
		SortPixels(px, metric.MetricRed, descending)
		if !slices.Equal(px, original) {
			t.Errorf("descending=%v: equal keys reordered: %v", descending, px)
		}
	}
}

func TestSortPixelsStableOnTies(t *testing.T) {
	// Two tie groups under the red metric; members must stay in input
	// order inside each group.
	px := []raster.Pixel{
		{200, 1, 0}, {100, 1, 0}, {200, 2, 0}, {100, 2, 0}, {200, 3, 0},
	}

	SortPixels(px, metric.MetricRed, false)
	want := []raster.Pixel{
		{100, 1, 0}, {100, 2, 0}, {200, 1, 0}, {200, 2, 0}, {200, 3, 0},
	}
	if !slices.Equal(px, want) {
		t.Errorf("ascending = %v, want %v", px, want)
	}

	px = []raster.Pixel{
		{200, 1, 0}, {100, 1, 0}, {200, 2, 0}, {100, 2, 0}, {200, 3, 0},
	}
	SortPixels(px, metric.MetricRed, true)
	want = []raster.Pixel{
		{200, 1, 0}, {200, 2, 0}, {200, 3, 0}, {100, 1, 0}, {100, 2, 0},
	}
	if !slices.Equal(px, want) {
		t.Errorf("descending = %v, want %v", px, want)
	}
}

func TestSortPixelsUnknownMetricKeepsOrder(t *testing.T) {
	original := grays(9, 1, 5, 3)
	px := slices.Clone(original)

	SortPixels(px, metric.SortMetric("entropy"), false)
	if !slices.Equal(px, original) {
		t.Errorf("unknown metric reordered pixels: %v", px)
	}
	SortPixels(px, metric.SortMetric(""), true)
	if !slices.Equal(px, original) {
		t.Errorf("empty metric reordered pixels: %v", px)
	}
}

func TestSortPixelsDegenerateLengths(t *testing.T) {
	SortPixels(nil, metric.MetricLuminance, false)

	one := grays(42)
	SortPixels(one, metric.MetricLuminance, true)
	if one[0] != (raster.Pixel{42, 42, 42}) {
		t.Errorf("single pixel changed: %v", one[0])
	}
}

func TestSortPixelsIsPermutation(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 9))
	px := make([]raster.Pixel, 200)
	for i := range px {
		px[i] = raster.Pixel{uint8(rng.UintN(256)), uint8(rng.UintN(256)), uint8(rng.UintN(256))}
	}

	count := func(s []raster.Pixel) map[raster.Pixel]int {
		m := make(map[raster.Pixel]int, len(s))
		for _, p := range s {
			m[p]++
		}
		return m
	}
	before := count(px)

	for m := range metric.ValidSortMetrics {
		shuffled := slices.Clone(px)
		SortPixels(shuffled, m, false)
		after := count(shuffled)
		if len(after) != len(before) {
			t.Fatalf("%s: pixel multiset changed", m)
		}
		for p, n := range before {
			if after[p] != n {
				t.Fatalf("%s: pixel %v count %d, want %d", m, p, after[p], n)
			}
		}
	}
}

func TestSortPixelsOrderedByKey(t *testing.T) {
	rng := rand.New(rand.NewPCG(21, 4))
	px := make([]raster.Pixel, 64)
	for i := range px {
		px[i] = raster.Pixel{uint8(rng.UintN(256)), uint8(rng.UintN(256)), uint8(rng.UintN(256))}
	}

	for m := range metric.ValidSortMetrics {
		fn := metric.KeyFunc(m)

		asc := slices.Clone(px)
		SortPixels(asc, m, false)
		for i := 1; i < len(asc); i++ {
			if fn(asc[i-1]) > fn(asc[i]) {
				t.Fatalf("%s ascending: key[%d] > key[%d]", m, i-1, i)
			}
		}

		desc := slices.Clone(px)
		SortPixels(desc, m, true)
		for i := 1; i < len(desc); i++ {
			if fn(desc[i-1]) < fn(desc[i]) {
				t.Fatalf("%s descending: key[%d] < key[%d]", m, i-1, i)
			}
		}
	}
}
