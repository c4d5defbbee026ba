package pipeline

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/ajroetker/go-highway/hwy/contrib/workerpool"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/gamma"
	"github.com/smearlab/pixelsort/pkg/mask"
	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/observability"
	"github.com/smearlab/pixelsort/pkg/raster"
	"github.com/smearlab/pixelsort/pkg/span"
)

// Run executes the complete mask → extract → sort → gamma pipeline on img
// and returns the sorted result. The input image is never modified; all
// stages operate on a clone. On any error the returned result is nil and no
// partial output escapes.
func Run(ctx context.Context, img *raster.Image, opts Options) (result *Result, err error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "image is required")
	}

	runStart := time.Now()
	hooks := observability.Pipeline()
	hooks.OnRunStart(ctx, img.Width(), img.Height())
	defer func() {
		spanCount := 0
		if result != nil {
			spanCount = result.Stats.SpanCount
		}
		hooks.OnRunComplete(ctx, spanCount, time.Since(runStart), err)
	}()

	result = &Result{Stats: Stats{Width: img.Width(), Height: img.Height()}}
	out := img.Clone()

	// Stage 1: Mask
	maskStart := time.Now()
	hooks.OnStageStart(ctx, "mask")
	grid := buildMask(img, opts)
	result.Stats.MaskTime = time.Since(maskStart)
	result.Stats.SelectedPixels = grid.Count()
	hooks.OnStageComplete(ctx, "mask", result.Stats.MaskTime, nil)

	opts.Logger.Debug("built mask",
		"channel", opts.Channel,
		"selected", result.Stats.SelectedPixels,
		"duration", result.Stats.MaskTime)

	if grid.Width() != out.Width() || grid.Height() != out.Height() {
		return nil, errors.New(errors.ErrCodeDimensionMismatch,
			"mask %dx%d does not match image %dx%d",
			grid.Width(), grid.Height(), out.Width(), out.Height())
	}

	// Stage 2: Extract
	extractStart := time.Now()
	hooks.OnStageStart(ctx, "extract")
	spans := span.Extract(grid, opts.IsHorizontal())
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.SpanCount = len(spans)
	hooks.OnStageComplete(ctx, "extract", result.Stats.ExtractTime, nil)

	opts.Logger.Debug("extracted spans",
		"direction", opts.Direction,
		"spans", result.Stats.SpanCount,
		"duration", result.Stats.ExtractTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 3: Sort
	sortStart := time.Now()
	hooks.OnStageStart(ctx, "sort")
	sortSpans(out, spans, opts)
	result.Stats.SortTime = time.Since(sortStart)
	hooks.OnStageComplete(ctx, "sort", result.Stats.SortTime, nil)

	opts.Logger.Debug("sorted spans",
		"metric", opts.Metric,
		"descending", opts.Descending,
		"duration", result.Stats.SortTime)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage 4: Gamma
	gammaStart := time.Now()
	hooks.OnStageStart(ctx, "gamma")
	gammaErr := gamma.Apply(out, opts.Gamma)
	result.Stats.GammaTime = time.Since(gammaStart)
	hooks.OnStageComplete(ctx, "gamma", result.Stats.GammaTime, gammaErr)
	if gammaErr != nil {
		return nil, gammaErr
	}

	opts.Logger.Debug("applied gamma",
		"gamma", opts.Gamma,
		"duration", result.Stats.GammaTime)

	result.Image = out
	return result, nil
}

// buildMask thresholds the selection channel of img into a boolean grid.
// Jitter offsets come from opts.Rand when set, otherwise from a generator
// seeded with opts.Seed, so identical options reproduce identical masks.
func buildMask(img *raster.Image, opts Options) *mask.Grid {
	fn, _ := metric.ChannelFunc(opts.Channel)

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}

	return mask.Build(img, fn, mask.Options{
		Low:    opts.Low,
		High:   opts.High,
		Invert: opts.Invert,
		Jitter: opts.Jitter,
		Rand:   rng,
	})
}

// sortSpans reorders the pixels inside each span of img in place. Spans
// cover disjoint pixels, so they are sorted concurrently without
// synchronization; the result is identical to sorting them one by one.
func sortSpans(img *raster.Image, spans []span.Span, opts Options) {
	if len(spans) == 0 {
		return
	}

	pool := workerpool.New(opts.Workers)
	defer pool.Close()

	horizontal := opts.IsHorizontal()
	pool.ParallelForAtomic(len(spans), func(i int) {
		s := spans[i]
		if horizontal {
			row := img.Row(s.Line)
			span.SortPixels(row[s.Start:s.End], opts.Metric, opts.Descending)
			return
		}

		// Vertical spans gather a column segment into a scratch slice.
		col := make([]raster.Pixel, s.Len())
		for j := range col {
			col[j] = img.At(s.Line, s.Start+j)
		}
		span.SortPixels(col, opts.Metric, opts.Descending)
		for j, p := range col {
			img.Set(s.Line, s.Start+j, p)
		}
	})
}
