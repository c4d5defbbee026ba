package raster

import (
	"image"
	"image/color"
)

// FromImage converts any standard-library image into a raster image,
// dropping alpha. Decoders in this codebase produce *image.NRGBA, which
// converts with a straight channel copy; other implementations go through
// the color model.
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	dst := New(b.Dx(), b.Dy())

	if n, ok := src.(*image.NRGBA); ok {
		for y := range dst.height {
			row := n.Pix[(y+b.Min.Y-n.Rect.Min.Y)*n.Stride:]
			for x := range dst.width {
				i := (x + b.Min.X - n.Rect.Min.X) * 4
				dst.pix[y*dst.width+x] = Pixel{row[i], row[i+1], row[i+2]}
			}
		}
		return dst
	}

	for y := range dst.height {
		for x := range dst.width {
			c := color.NRGBAModel.Convert(src.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			dst.pix[y*dst.width+x] = Pixel{c.R, c.G, c.B}
		}
	}
	return dst
}

// ToNRGBA converts the image to a standard-library NRGBA image with full
// opacity, suitable for encoding or further drawing.
func (m *Image) ToNRGBA() *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, m.width, m.height))
	for y := range m.height {
		for x := range m.width {
			p := m.pix[y*m.width+x]
			i := y*out.Stride + x*4
			out.Pix[i+0] = p[0]
			out.Pix[i+1] = p[1]
			out.Pix[i+2] = p[2]
			out.Pix[i+3] = 0xff
		}
	}
	return out
}
