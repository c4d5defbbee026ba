package preview

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// Histogram holds per-channel counts of 8-bit values.
type Histogram struct {
	R [256]int
	G [256]int
	B [256]int
}

// ComputeHistogram counts the channel values of every pixel in img.
func ComputeHistogram(img *raster.Image) *Histogram {
	var h Histogram
	if img == nil {
		return &h
	}
	for _, p := range img.Pix() {
		h.R[p[0]]++
		h.G[p[1]]++
		h.B[p[2]]++
	}
	return &h
}

// Render plots the three channel curves and saves the chart at path. The
// chart format follows the file extension (.png, .svg, .pdf).
func (h *Histogram) Render(title, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Value"
	p.Y.Label.Text = "Pixels"
	p.X.Min, p.X.Max = 0, 255

	channels := []struct {
		name   string
		counts *[256]int
		color  color.Color
	}{
		{"red", &h.R, color.RGBA{R: 0xd0, G: 0x3a, B: 0x3a, A: 0xff}},
		{"green", &h.G, color.RGBA{R: 0x3a, G: 0xb0, B: 0x4f, A: 0xff}},
		{"blue", &h.B, color.RGBA{R: 0x3a, G: 0x6e, B: 0xd0, A: 0xff}},
	}
	for _, ch := range channels {
		pts := make(plotter.XYs, len(ch.counts))
		for i, n := range ch.counts {
			pts[i] = plotter.XY{X: float64(i), Y: float64(n)}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "failed to build %s curve", ch.name)
		}
		line.Color = ch.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(ch.name, line)
	}
	p.Legend.Top = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to save histogram to %s", path)
	}
	return nil
}

// MetricHistogram holds one sampled threshold channel value per pixel,
// ready to be binned into a chart. Values lie in [0, 1], the same scale
// the mask thresholds use.
type MetricHistogram struct {
	Channel metric.Channel
	Values  []float64
	Bins    int
}

// ComputeMetricHistogram samples ch for every pixel of img.
func ComputeMetricHistogram(img *raster.Image, ch metric.Channel, bins int) (*MetricHistogram, error) {
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image is empty")
	}
	if bins < 1 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "bins must be at least 1, got %d", bins)
	}
	fn, ok := metric.ChannelFunc(ch)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidChannel, "unknown channel: %q", ch)
	}

	pix := img.Pix()
	values := make([]float64, len(pix))
	for i, p := range pix {
		values[i] = fn(p)
	}
	return &MetricHistogram{Channel: ch, Values: values, Bins: bins}, nil
}

// Render bins the sampled values and saves the chart at path. The chart
// format follows the file extension (.png, .svg, .pdf).
func (h *MetricHistogram) Render(title, path string) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = string(h.Channel)
	p.Y.Label.Text = "Pixels"
	p.X.Min, p.X.Max = 0, 1

	hist, err := plotter.NewHist(plotter.Values(h.Values), h.Bins)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "failed to bin %s values", h.Channel)
	}
	hist.FillColor = color.RGBA{R: 0x3a, G: 0x6e, B: 0xd0, A: 0xff}
	p.Add(hist)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to save histogram to %s", path)
	}
	return nil
}
