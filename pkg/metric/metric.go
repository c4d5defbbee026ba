// Package metric defines the scalar pixel metrics used for threshold masking
// and span sorting.
//
// Every metric maps a pixel to a value in [0, 1]. Metrics are pure functions
// with no failure mode: color-space conversion is delegated to
// github.com/lucasb-eyer/go-colorful and is total over 8-bit RGB input.
// Achromatic pixels report a hue of zero.
//
// Two name registries exist because the two call sites accept different
// sets: [Channel] names the metrics usable for mask thresholds, and
// [SortMetric] additionally admits the raw red, green, and blue channels for
// ordering pixels within a span.
package metric

import (
	"maps"
	"slices"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/smearlab/pixelsort/pkg/raster"
)

// Func computes a scalar in [0, 1] from a pixel. Implementations must be
// stateless so they can be applied concurrently.
type Func func(raster.Pixel) float64

// Channel identifies a metric usable as a mask threshold channel.
type Channel string

// Threshold channels.
const (
	ChannelLuminance  Channel = "luminance"
	ChannelHue        Channel = "hue"
	ChannelSaturation Channel = "saturation"
	ChannelLightness  Channel = "lightness"
)

// SortMetric identifies a metric usable for ordering pixels within a span.
type SortMetric string

// Sort metrics. The raw channel metrics return the channel value scaled to
// [0, 1]; scaling does not change the induced ordering.
const (
	MetricLuminance  SortMetric = "luminance"
	MetricRed        SortMetric = "red"
	MetricGreen      SortMetric = "green"
	MetricBlue       SortMetric = "blue"
	MetricHue        SortMetric = "hue"
	MetricSaturation SortMetric = "saturation"
	MetricLightness  SortMetric = "lightness"
)

// ValidChannels enumerates the accepted threshold channels.
var ValidChannels = map[Channel]bool{
	ChannelLuminance:  true,
	ChannelHue:        true,
	ChannelSaturation: true,
	ChannelLightness:  true,
}

// ValidSortMetrics enumerates the accepted sort metrics.
var ValidSortMetrics = map[SortMetric]bool{
	MetricLuminance:  true,
	MetricRed:        true,
	MetricGreen:      true,
	MetricBlue:       true,
	MetricHue:        true,
	MetricSaturation: true,
	MetricLightness:  true,
}

// ChannelNames returns the valid channel names in sorted order, for help
// text and error messages.
func ChannelNames() []string {
	names := make([]string, 0, len(ValidChannels))
	for _, c := range slices.Sorted(maps.Keys(ValidChannels)) {
		names = append(names, string(c))
	}
	return names
}

// SortMetricNames returns the valid sort metric names in sorted order.
func SortMetricNames() []string {
	names := make([]string, 0, len(ValidSortMetrics))
	for _, m := range slices.Sorted(maps.Keys(ValidSortMetrics)) {
		names = append(names, string(m))
	}
	return names
}

// Luminance returns the Rec. 601 weighted sum 0.299 R + 0.587 G + 0.114 B
// over channels normalized to [0, 1].
func Luminance(p raster.Pixel) float64 {
	r := float64(p[0]) / 255
	g := float64(p[1]) / 255
	b := float64(p[2]) / 255
	return 0.299*r + 0.587*g + 0.114*b
}

// HSL converts the pixel to hue, saturation, and lightness, each in [0, 1].
// Hue is the conventional angle scaled by 1/360; achromatic pixels have hue
// and saturation zero.
func HSL(p raster.Pixel) (h, s, l float64) {
	c := colorful.Color{
		R: float64(p[0]) / 255,
		G: float64(p[1]) / 255,
		B: float64(p[2]) / 255,
	}
	h, s, l = c.Hsl()
	return h / 360, s, l
}

// Hue returns the hue component of [HSL].
func Hue(p raster.Pixel) float64 {
	h, _, _ := HSL(p)
	return h
}

// Saturation returns the saturation component of [HSL].
func Saturation(p raster.Pixel) float64 {
	_, s, _ := HSL(p)
	return s
}

// Lightness returns the lightness component of [HSL].
func Lightness(p raster.Pixel) float64 {
	_, _, l := HSL(p)
	return l
}

// Red returns the red channel scaled to [0, 1].
func Red(p raster.Pixel) float64 { return float64(p[0]) / 255 }

// Green returns the green channel scaled to [0, 1].
func Green(p raster.Pixel) float64 { return float64(p[1]) / 255 }

// Blue returns the blue channel scaled to [0, 1].
func Blue(p raster.Pixel) float64 { return float64(p[2]) / 255 }

var channelFuncs = map[Channel]Func{
	ChannelLuminance:  Luminance,
	ChannelHue:        Hue,
	ChannelSaturation: Saturation,
	ChannelLightness:  Lightness,
}

var sortFuncs = map[SortMetric]Func{
	MetricLuminance:  Luminance,
	MetricRed:        Red,
	MetricGreen:      Green,
	MetricBlue:       Blue,
	MetricHue:        Hue,
	MetricSaturation: Saturation,
	MetricLightness:  Lightness,
}

// ChannelFunc returns the metric for a threshold channel, and whether the
// channel name is known.
func ChannelFunc(c Channel) (Func, bool) {
	fn, ok := channelFuncs[c]
	return fn, ok
}

// KeyFunc returns the metric for a sort metric name, or nil when the name is
// unknown. A nil result tells the span sorter to keep the original pixel
// order.
func KeyFunc(m SortMetric) Func {
	return sortFuncs[m]
}
