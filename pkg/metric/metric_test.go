package metric

import (
	"math"
	"slices"
	"testing"

	"github.com/smearlab/pixelsort/pkg/raster"
)

const tol = 1e-6

func approx(got, want float64) bool {
	return math.Abs(got-want) <= tol
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		name string
		p    raster.Pixel
		want float64
	}{
		{name: "Black", p: raster.Pixel{0, 0, 0}, want: 0},
		{name: "White", p: raster.Pixel{255, 255, 255}, want: 1},
		{name: "PureRed", p: raster.Pixel{255, 0, 0}, want: 0.299},
		{name: "PureGreen", p: raster.Pixel{0, 255, 0}, want: 0.587},
		{name: "PureBlue", p: raster.Pixel{0, 0, 255}, want: 0.114},
		{name: "MidGray", p: raster.Pixel{128, 128, 128}, want: 128.0 / 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Luminance(tt.p); !approx(got, tt.want) {
				t.Errorf("Luminance(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestHSL(t *testing.T) {
	tests := []struct {
		name    string
		p       raster.Pixel
		h, s, l float64
	}{
		{name: "Red", p: raster.Pixel{255, 0, 0}, h: 0, s: 1, l: 0.5},
		{name: "Green", p: raster.Pixel{0, 255, 0}, h: 1.0 / 3, s: 1, l: 0.5},
		{name: "Blue", p: raster.Pixel{0, 0, 255}, h: 2.0 / 3, s: 1, l: 0.5},
		{name: "Yellow", p: raster.Pixel{255, 255, 0}, h: 1.0 / 6, s: 1, l: 0.5},
		{name: "White", p: raster.Pixel{255, 255, 255}, h: 0, s: 0, l: 1},
		{name: "Black", p: raster.Pixel{0, 0, 0}, h: 0, s: 0, l: 0},
		{name: "Gray", p: raster.Pixel{128, 128, 128}, h: 0, s: 0, l: 128.0 / 255},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, l := HSL(tt.p)
			if !approx(h, tt.h) {
				t.Errorf("hue = %v, want %v", h, tt.h)
			}
			if !approx(s, tt.s) {
				t.Errorf("saturation = %v, want %v", s, tt.s)
			}
			if !approx(l, tt.l) {
				t.Errorf("lightness = %v, want %v", l, tt.l)
			}
		})
	}
}

func TestAchromaticHueIsZero(t *testing.T) {
	for _, v := range []uint8{0, 1, 127, 254, 255} {
		p := raster.Pixel{v, v, v}
		if got := Hue(p); got != 0 {
			t.Errorf("Hue(%v) = %v, want 0", p, got)
		}
		if got := Saturation(p); got != 0 {
			t.Errorf("Saturation(%v) = %v, want 0", p, got)
		}
	}
}

func TestRawChannels(t *testing.T) {
	p := raster.Pixel{51, 102, 204}
	if got := Red(p); !approx(got, 0.2) {
		t.Errorf("Red = %v, want 0.2", got)
	}
	if got := Green(p); !approx(got, 0.4) {
		t.Errorf("Green = %v, want 0.4", got)
	}
	if got := Blue(p); !approx(got, 0.8) {
		t.Errorf("Blue = %v, want 0.8", got)
	}
}

func TestAllMetricsStayInUnitInterval(t *testing.T) {
	samples := []raster.Pixel{
		{0, 0, 0}, {255, 255, 255}, {255, 0, 0}, {0, 255, 0}, {0, 0, 255},
		{1, 2, 3}, {254, 1, 128}, {17, 200, 90}, {128, 128, 127},
	}

	for name, fn := range sortFuncs {
		for _, p := range samples {
			v := fn(p)
			if v < 0 || v > 1 {
				t.Errorf("%s(%v) = %v, outside [0,1]", name, p, v)
			}
		}
	}
}

func TestChannelFunc(t *testing.T) {
	tests := []struct {
		name    string
		channel Channel
		wantOK  bool
	}{
		{name: "Luminance", channel: ChannelLuminance, wantOK: true},
		{name: "Hue", channel: ChannelHue, wantOK: true},
		{name: "Saturation", channel: ChannelSaturation, wantOK: true},
		{name: "Lightness", channel: ChannelLightness, wantOK: true},
		{name: "Unknown", channel: Channel("chroma"), wantOK: false},
		{name: "Empty", channel: Channel(""), wantOK: false},
		{name: "RedIsNotAChannel", channel: Channel("red"), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := ChannelFunc(tt.channel)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && fn == nil {
				t.Error("known channel returned nil func")
			}
		})
	}
}

func TestKeyFunc(t *testing.T) {
	for m := range ValidSortMetrics {
		if KeyFunc(m) == nil {
			t.Errorf("KeyFunc(%q) = nil, want func", m)
		}
	}
	if KeyFunc(SortMetric("entropy")) != nil {
		t.Error("KeyFunc for unknown metric should be nil")
	}
}

func TestNameLists(t *testing.T) {
	channels := ChannelNames()
	if !slices.IsSorted(channels) {
		t.Errorf("ChannelNames not sorted: %v", channels)
	}
	if len(channels) != len(ValidChannels) {
		t.Errorf("ChannelNames length = %d, want %d", len(channels), len(ValidChannels))
	}

	metrics := SortMetricNames()
	if !slices.IsSorted(metrics) {
		t.Errorf("SortMetricNames not sorted: %v", metrics)
	}
	if !slices.Contains(metrics, "red") {
		t.Errorf("SortMetricNames missing red: %v", metrics)
	}
}
