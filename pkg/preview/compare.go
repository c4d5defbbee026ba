package preview

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/raster"
)

const (
	sheetMargin = 16
	sheetGap    = 16
	sheetLabelH = 20
)

// SheetOption configures a comparison sheet.
type SheetOption func(*sheet)

type sheet struct {
	labels   [2]string
	maxWidth int
}

// WithLabels sets the captions drawn above the two panels.
func WithLabels(before, after string) SheetOption {
	return func(s *sheet) { s.labels = [2]string{before, after} }
}

// WithMaxPanelWidth downscales panels wider than w pixels, preserving
// aspect ratio. Zero disables scaling.
func WithMaxPanelWidth(w int) SheetOption {
	return func(s *sheet) { s.maxWidth = w }
}

// CompareSheet renders before and after side by side on a dark sheet with a
// caption above each panel. The images must have identical dimensions.
func CompareSheet(before, after *raster.Image, opts ...SheetOption) (*raster.Image, error) {
	if before == nil || after == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "two images are required")
	}
	if before.Width() != after.Width() || before.Height() != after.Height() {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"image sizes differ: %dx%d vs %dx%d",
			before.Width(), before.Height(), after.Width(), after.Height())
	}

	s := sheet{labels: [2]string{"Original", "Sorted"}}
	for _, opt := range opts {
		opt(&s)
	}

	left := panelImage(before, s.maxWidth)
	right := panelImage(after, s.maxWidth)
	pw := left.Bounds().Dx()
	ph := left.Bounds().Dy()

	dc := gg.NewContext(2*sheetMargin+2*pw+sheetGap, 2*sheetMargin+sheetLabelH+ph)
	dc.SetRGB255(24, 24, 28)
	dc.Clear()

	dc.DrawImage(left, sheetMargin, sheetMargin+sheetLabelH)
	dc.DrawImage(right, sheetMargin+pw+sheetGap, sheetMargin+sheetLabelH)

	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB255(235, 235, 235)
	dc.DrawStringAnchored(s.labels[0],
		float64(sheetMargin+pw/2), float64(sheetMargin+sheetLabelH/2), 0.5, 0.5)
	dc.DrawStringAnchored(s.labels[1],
		float64(sheetMargin+pw+sheetGap+pw/2), float64(sheetMargin+sheetLabelH/2), 0.5, 0.5)

	return raster.FromImage(dc.Image()), nil
}

// panelImage converts img for drawing, downscaling when it exceeds maxWidth.
func panelImage(img *raster.Image, maxWidth int) image.Image {
	n := img.ToNRGBA()
	if maxWidth > 0 && img.Width() > maxWidth {
		return imaging.Resize(n, maxWidth, 0, imaging.Lanczos)
	}
	return n
}
