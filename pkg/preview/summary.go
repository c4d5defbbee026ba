package preview

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// ChannelSummary describes the distribution of one channel on the 0-255
// scale.
type ChannelSummary struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
}

// Summary holds distribution statistics for an image. Entropy is the
// Shannon entropy of the 256-bin luminance histogram in bits: 0 for a flat
// single-tone image, up to 8 for a uniform spread.
type Summary struct {
	Width     int            `json:"width"`
	Height    int            `json:"height"`
	R         ChannelSummary `json:"r"`
	G         ChannelSummary `json:"g"`
	B         ChannelSummary `json:"b"`
	Luminance ChannelSummary `json:"luminance"`
	Entropy   float64        `json:"entropy"`
}

// Summarize computes per-channel statistics and tone entropy for img.
func Summarize(img *raster.Image) (*Summary, error) {
	if img == nil || img.Width() == 0 || img.Height() == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image is empty")
	}

	pix := img.Pix()
	r := make([]float64, len(pix))
	g := make([]float64, len(pix))
	b := make([]float64, len(pix))
	lum := make([]float64, len(pix))
	var bins [256]float64
	for i, p := range pix {
		r[i] = float64(p[0])
		g[i] = float64(p[1])
		b[i] = float64(p[2])
		lum[i] = metric.Luminance(p) * 255
		bins[int(math.Round(lum[i]))]++
	}

	s := &Summary{Width: img.Width(), Height: img.Height()}
	var err error
	if s.R, err = summarizeValues(r); err != nil {
		return nil, err
	}
	if s.G, err = summarizeValues(g); err != nil {
		return nil, err
	}
	if s.B, err = summarizeValues(b); err != nil {
		return nil, err
	}
	if s.Luminance, err = summarizeValues(lum); err != nil {
		return nil, err
	}

	total := float64(len(pix))
	probs := make([]float64, len(bins))
	for i, n := range bins {
		probs[i] = n / total
	}
	s.Entropy = stat.Entropy(probs) / math.Ln2

	return s, nil
}

func summarizeValues(values []float64) (ChannelSummary, error) {
	var cs ChannelSummary
	var err error
	if cs.Min, err = stats.Min(values); err != nil {
		return cs, errors.Wrap(errors.ErrCodeInternal, err, "failed to summarize channel")
	}
	if cs.Max, err = stats.Max(values); err != nil {
		return cs, errors.Wrap(errors.ErrCodeInternal, err, "failed to summarize channel")
	}
	if cs.Mean, err = stats.Mean(values); err != nil {
		return cs, errors.Wrap(errors.ErrCodeInternal, err, "failed to summarize channel")
	}
	if cs.Median, err = stats.Median(values); err != nil {
		return cs, errors.Wrap(errors.ErrCodeInternal, err, "failed to summarize channel")
	}
	if cs.StdDev, err = stats.StandardDeviation(values); err != nil {
		return cs, errors.Wrap(errors.ErrCodeInternal, err, "failed to summarize channel")
	}
	if cs.P25, err = stats.Percentile(values, 25); err != nil {
		return cs, errors.Wrap(errors.ErrCodeInternal, err, "failed to summarize channel")
	}
	if cs.P75, err = stats.Percentile(values, 75); err != nil {
		return cs, errors.Wrap(errors.ErrCodeInternal, err, "failed to summarize channel")
	}
	return cs, nil
}
