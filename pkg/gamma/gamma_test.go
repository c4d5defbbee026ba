package gamma

import (
	"math"
	"testing"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// ramp builds a 256x1 image whose pixel at column i is gray level i.
func ramp() *raster.Image {
	img := raster.New(256, 1)
	for x := range 256 {
		v := uint8(x)
		img.Set(x, 0, raster.Pixel{v, v, v})
	}
	return img
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		gamma   float64
		wantErr bool
	}{
		{"one", 1.0, false},
		{"below one", 0.5, false},
		{"above one", 2.2, false},
		{"tiny", 0.001, false},

		{"zero", 0, true},
		{"negative", -1.2, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.gamma)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%v) error = %v, wantErr %v", tt.gamma, err, tt.wantErr)
			}
			if err != nil && errors.GetCode(err) != errors.ErrCodeInvalidGamma {
				t.Errorf("code = %v, want INVALID_GAMMA", errors.GetCode(err))
			}
		})
	}
}

func TestApplyIdentityAtOne(t *testing.T) {
	img := ramp()
	want := img.Clone()

	if err := Apply(img, 1.0); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !img.Equal(want) {
		t.Error("gamma 1.0 modified the image")
	}
}

func TestApplyInvalidLeavesImageUntouched(t *testing.T) {
	img := ramp()
	want := img.Clone()

	if err := Apply(img, 0); err == nil {
		t.Fatal("Apply(0) returned nil error")
	}
	if !img.Equal(want) {
		t.Error("failed Apply modified the image")
	}
}

func TestApplyEndpoints(t *testing.T) {
	for _, g := range []float64{0.5, 1.2, 2.2, 3.0} {
		img := raster.New(2, 1)
		img.Set(0, 0, raster.Pixel{0, 0, 0})
		img.Set(1, 0, raster.Pixel{255, 255, 255})

		if err := Apply(img, g); err != nil {
			t.Fatalf("Apply(%v): %v", g, err)
		}
		if got := img.At(0, 0); got != (raster.Pixel{0, 0, 0}) {
			t.Errorf("gamma %v: black became %v", g, got)
		}
		if got := img.At(1, 0); got != (raster.Pixel{255, 255, 255}) {
			t.Errorf("gamma %v: white became %v", g, got)
		}
	}
}

func TestApplyBrightensAboveOne(t *testing.T) {
	// Encoding with gamma > 1 lifts midtones: v' = (v/255)^(1/g)*255 >= v.
	img := ramp()
	if err := Apply(img, 2.2); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	for x := range 256 {
		if got := img.At(x, 0).R(); int(got) < x {
			t.Fatalf("level %d darkened to %d under gamma 2.2", x, got)
		}
	}
}

func TestApplyMonotonic(t *testing.T) {
	for _, g := range []float64{0.5, 0.9, 1.2, 2.0, 3.0} {
		img := ramp()
		if err := Apply(img, g); err != nil {
			t.Fatalf("Apply(%v): %v", g, err)
		}
		for x := 1; x < 256; x++ {
			if img.At(x, 0).R() < img.At(x-1, 0).R() {
				t.Fatalf("gamma %v: mapping not monotonic at level %d", g, x)
			}
		}
	}
}

func TestApplyRoundTrip(t *testing.T) {
	// Applying g then 1/g must land within rounding distance of the input.
	const tolerance = 2
	for _, g := range []float64{0.5, 0.8, 1.5, 2.2, 3.0} {
		img := ramp()
		if err := Apply(img, g); err != nil {
			t.Fatalf("Apply(%v): %v", g, err)
		}
		if err := Apply(img, 1/g); err != nil {
			t.Fatalf("Apply(%v): %v", 1/g, err)
		}
		for x := range 256 {
			got := int(img.At(x, 0).R())
			if diff := got - x; diff < -tolerance || diff > tolerance {
				t.Errorf("gamma %v: level %d round-tripped to %d", g, x, got)
			}
		}
	}
}

func TestApplyPerChannel(t *testing.T) {
	img := raster.New(1, 1)
	img.Set(0, 0, raster.Pixel{10, 128, 240})

	if err := Apply(img, 2.0); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	want := raster.Pixel{
		uint8(math.Round(math.Pow(10.0/255, 0.5) * 255)),
		uint8(math.Round(math.Pow(128.0/255, 0.5) * 255)),
		uint8(math.Round(math.Pow(240.0/255, 0.5) * 255)),
	}
	if got := img.At(0, 0); got != want {
		t.Errorf("pixel = %v, want %v", got, want)
	}
}
