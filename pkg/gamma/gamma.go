// Package gamma applies power-law tone correction to raster images.
//
// Correction maps each channel value v to round(((v/255)^(1/gamma))*255),
// clamped to [0, 255]. Because input channels are 8-bit, the mapping is
// precomputed into a 256-entry lookup table and applied with one table read
// per channel.
package gamma

import (
	"math"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// Validate reports whether g is a usable gamma value. Gamma must be a
// positive number; zero, negatives, and NaN are configuration errors with
// code INVALID_GAMMA.
func Validate(g float64) error {
	if math.IsNaN(g) || g <= 0 {
		return errors.New(errors.ErrCodeInvalidGamma, "gamma must be positive, got %g", g)
	}
	return nil
}

// Apply corrects img in place. A gamma of exactly 1.0 returns immediately
// and leaves the buffer byte-identical. On a validation error the image is
// untouched.
func Apply(img *raster.Image, g float64) error {
	if err := Validate(g); err != nil {
		return err
	}
	if g == 1.0 {
		return nil
	}

	lut := buildLUT(g)
	pix := img.Pix()
	for i, p := range pix {
		pix[i] = raster.Pixel{lut[p[0]], lut[p[1]], lut[p[2]]}
	}
	return nil
}

func buildLUT(g float64) [256]uint8 {
	var lut [256]uint8
	inv := 1 / g
	for i := range lut {
		v := math.Round(math.Pow(float64(i)/255, inv) * 255)
		lut[i] = uint8(min(max(v, 0), 255))
	}
	return lut
}
