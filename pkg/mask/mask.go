// Package mask turns an image into a boolean selection grid by thresholding
// a pixel metric, with optional random jitter on the compared value.
package mask

import (
	"math/rand/v2"
	"slices"

	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// Grid is a width by height boolean selection mask with the same addressing
// scheme as [raster.Image]: (x, y) = (column, row), row-major backing.
type Grid struct {
	width  int
	height int
	cells  []bool
}

// NewGrid returns an all-false grid of the given dimensions. It panics if
// either dimension is negative.
func NewGrid(width, height int) *Grid {
	if width < 0 || height < 0 {
		panic("mask: negative grid dimensions")
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// At reports whether the cell at column x, row y is selected. It panics if
// the coordinates are outside the grid.
func (g *Grid) At(x, y int) bool {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic("mask: cell coordinates out of range")
	}
	return g.cells[y*g.width+x]
}

// Set writes the cell at column x, row y. It panics if the coordinates are
// outside the grid.
func (g *Grid) Set(x, y int, v bool) {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		panic("mask: cell coordinates out of range")
	}
	g.cells[y*g.width+x] = v
}

// Row returns row y as a slice aliasing the grid's backing store.
func (g *Grid) Row(y int) []bool {
	if y < 0 || y >= g.height {
		panic("mask: row index out of range")
	}
	return g.cells[y*g.width : (y+1)*g.width]
}

// Count returns the number of selected cells.
func (g *Grid) Count() int {
	n := 0
	for _, c := range g.cells {
		if c {
			n++
		}
	}
	return n
}

// Equal reports whether both grids have identical dimensions and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g.width != o.width || g.height != o.height {
		return false
	}
	return slices.Equal(g.cells, o.cells)
}

// Options controls threshold selection.
//
// A cell is selected when Low <= v <= High, where v is the metric value of
// the pixel, perturbed by a uniform offset in [-Jitter, +Jitter] and clamped
// to [0, 1] when Jitter is positive. Low > High selects nothing before
// inversion; that is a valid configuration, not an error.
type Options struct {
	Low    float64
	High   float64
	Invert bool // flip every cell after thresholding

	// Jitter is the half-width of the uniform perturbation. Zero disables
	// jitter entirely and no random numbers are drawn.
	Jitter float64

	// Rand supplies jitter offsets. Offsets are drawn in row-major pixel
	// order, so a generator with a fixed seed reproduces the same grid on
	// every run. When nil and Jitter > 0, a generator seeded from the
	// global source is used and the grid is not reproducible.
	Rand *rand.Rand
}

// Build evaluates fn over every pixel of img and thresholds the result into
// a fresh grid of the same dimensions.
func Build(img *raster.Image, fn metric.Func, opts Options) *Grid {
	g := NewGrid(img.Width(), img.Height())

	rng := opts.Rand
	if rng == nil && opts.Jitter > 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	for y := range img.Height() {
		pixels := img.Row(y)
		cells := g.Row(y)
		for x, p := range pixels {
			v := fn(p)
			if opts.Jitter > 0 {
				v += (rng.Float64()*2 - 1) * opts.Jitter
				v = min(max(v, 0), 1)
			}
			cells[x] = opts.Low <= v && v <= opts.High
		}
	}

	if opts.Invert {
		for i := range g.cells {
			g.cells[i] = !g.cells[i]
		}
	}
	return g
}
