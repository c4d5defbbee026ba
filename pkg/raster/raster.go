// Package raster provides the in-memory image model shared by every stage of
// the sorting pipeline: a dense row-major grid of 8-bit RGB pixels.
//
// # Overview
//
// The pipeline operates on plain RGB buffers rather than the standard
// library's interface-based images. A flat backing slice keeps pixel access
// branch-free in the hot loops (masking, span sorting, gamma correction) and
// makes cloning and equality checks trivial. Alpha is intentionally absent:
// the transformation is defined over three channels, and decoders drop alpha
// on ingestion.
//
// # Basic Usage
//
// Create an empty image with [New] or convert a decoded standard-library
// image with [FromImage]. Pixels are addressed as (x, y) = (column, row):
//
//	img := raster.New(640, 480)
//	img.Set(10, 20, raster.Pixel{255, 0, 0})
//	p := img.At(10, 20)
//
// [Image.Clone] produces an independent copy; the pipeline clones its input
// once and writes only to the copy. [Image.ToNRGBA] converts back for
// encoding.
package raster

import "slices"

// Pixel is one 3-channel RGB sample with 8 bits per channel, in R, G, B
// index order.
type Pixel [3]uint8

// R returns the red channel.
func (p Pixel) R() uint8 { return p[0] }

// G returns the green channel.
func (p Pixel) G() uint8 { return p[1] }

// B returns the blue channel.
func (p Pixel) B() uint8 { return p[2] }

// Image is a width by height grid of RGB pixels stored row-major in a single
// flat slice. The zero value is an empty image; use [New] or [FromImage] to
// create a usable instance.
//
// Image is not safe for concurrent writes to overlapping regions. Concurrent
// writers to disjoint pixel ranges are safe, which is what the span engine
// relies on.
type Image struct {
	width  int
	height int
	pix    []Pixel // len == width*height, index = y*width + x
}

// New returns a zero-filled image of the given dimensions. It panics if
// either dimension is negative.
func New(width, height int) *Image {
	if width < 0 || height < 0 {
		panic("raster: negative image dimensions")
	}
	return &Image{
		width:  width,
		height: height,
		pix:    make([]Pixel, width*height),
	}
}

// Width returns the number of columns.
func (m *Image) Width() int { return m.width }

// Height returns the number of rows.
func (m *Image) Height() int { return m.height }

// At returns the pixel at column x, row y. It panics if the coordinates are
// outside the image.
func (m *Image) At(x, y int) Pixel {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		panic("raster: pixel coordinates out of range")
	}
	return m.pix[y*m.width+x]
}

// Set writes the pixel at column x, row y. It panics if the coordinates are
// outside the image.
func (m *Image) Set(x, y int, p Pixel) {
	if x < 0 || x >= m.width || y < 0 || y >= m.height {
		panic("raster: pixel coordinates out of range")
	}
	m.pix[y*m.width+x] = p
}

// Row returns the pixels of row y as a slice aliasing the image's backing
// store. Writes through the returned slice modify the image.
func (m *Image) Row(y int) []Pixel {
	if y < 0 || y >= m.height {
		panic("raster: row index out of range")
	}
	return m.pix[y*m.width : (y+1)*m.width]
}

// Pix returns the backing slice in row-major order. The slice aliases the
// image; it is exposed for whole-buffer passes that do not care about
// coordinates, such as gamma correction.
func (m *Image) Pix() []Pixel { return m.pix }

// Clone returns a deep copy sharing no memory with the receiver.
func (m *Image) Clone() *Image {
	return &Image{
		width:  m.width,
		height: m.height,
		pix:    slices.Clone(m.pix),
	}
}

// Equal reports whether both images have identical dimensions and pixel data.
func (m *Image) Equal(o *Image) bool {
	if m.width != o.width || m.height != o.height {
		return false
	}
	return slices.Equal(m.pix, o.pix)
}
