// Package pipeline provides the core pixel sorting pipeline for pixelsort.
//
// This package implements the complete mask → extract → sort → gamma pipeline
// that can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code duplication.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Mask: Threshold a per-pixel channel metric into a boolean selection grid
//  2. Extract: Collect maximal runs of selected pixels along rows or columns
//  3. Sort: Reorder the pixels inside each run by a sort metric
//  4. Gamma: Apply power-law tone correction to the sorted image
//
// Stages two and three operate on a clone of the input; the caller's image is
// never modified.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.NewOptions()
//	opts.Metric = metric.MetricHue
//	opts.Descending = true
//	result, err := runner.Execute(ctx, img, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sorted := result.Image
//
// Run without caching:
//
//	result, err := pipeline.Run(ctx, img, pipeline.NewOptions())
package pipeline

import (
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/smearlab/pixelsort/pkg/cache"
	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultLowThreshold is the lower bound of the selection band.
	DefaultLowThreshold = 0.2

	// DefaultHighThreshold is the upper bound of the selection band.
	DefaultHighThreshold = 0.8

	// DefaultGamma is the default tone correction exponent. Values above 1
	// brighten the output, which compensates for the darkening that sorting
	// tends to produce on typical photographs.
	DefaultGamma = 1.2

	// DefaultSeed is the default random seed for reproducible jitter.
	DefaultSeed = uint64(42)

	// DefaultWorkers uses one worker per CPU when sorting spans.
	DefaultWorkers = 0
)

// DefaultChannel is the default mask channel.
const DefaultChannel = metric.ChannelLuminance

// DefaultMetric is the default sort metric.
const DefaultMetric = metric.MetricLightness

// Direction constants for span orientation.
const (
	DirectionHorizontal = "horizontal"
	DirectionVertical   = "vertical"
)

// DefaultDirection is the default span orientation.
const DefaultDirection = DirectionHorizontal

// ValidDirections is the set of supported span orientations.
var ValidDirections = map[string]bool{
	DirectionHorizontal: true,
	DirectionVertical:   true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the sorting pipeline.
// This struct supports JSON serialization for API requests.
//
// The zero value selects only pure black pixels; most callers want
// [NewOptions], which fills in the standard defaults.
type Options struct {
	// Mask options
	Low     float64        `json:"low"`
	High    float64        `json:"high"`
	Channel metric.Channel `json:"channel,omitempty"`
	Invert  bool           `json:"invert,omitempty"`
	Jitter  float64        `json:"jitter,omitempty"`
	Seed    uint64         `json:"seed,omitempty"` // jitter seed; zero selects DefaultSeed

	// Sort options
	Direction  string            `json:"direction,omitempty"`
	Metric     metric.SortMetric `json:"metric,omitempty"`
	Descending bool              `json:"descending,omitempty"`

	// Gamma options
	Gamma float64 `json:"gamma,omitempty"`

	// Execution options
	Workers int  `json:"workers,omitempty"` // span sort parallelism; zero uses GOMAXPROCS
	Refresh bool `json:"refresh,omitempty"` // recompute even when a cached result exists

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Rand   *rand.Rand  `json:"-"` // jitter source override; disables result caching

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// NewOptions returns Options populated with the standard defaults.
func NewOptions() Options {
	return Options{
		Low:       DefaultLowThreshold,
		High:      DefaultHighThreshold,
		Channel:   DefaultChannel,
		Seed:      DefaultSeed,
		Direction: DefaultDirection,
		Metric:    DefaultMetric,
		Gamma:     DefaultGamma,
		Workers:   DefaultWorkers,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Image is the sorted output raster.
	Image *raster.Image

	// ImageHash is the content hash of the input image. It is set when the
	// pipeline executes through a Runner and is empty otherwise.
	ImageHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the result came from cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Width          int
	Height         int
	SelectedPixels int
	SpanCount      int
	MaskTime       time.Duration
	ExtractTime    time.Duration
	SortTime       time.Duration
	GammaTime      time.Duration
}

// CacheInfo tracks cache hits for a pipeline run.
type CacheInfo struct {
	ResultHit bool // Whether the sorted result came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateChannel checks that a mask channel is valid.
func ValidateChannel(c metric.Channel) error {
	if !metric.ValidChannels[c] {
		return errors.New(errors.ErrCodeInvalidChannel,
			"invalid channel: %q (must be one of: %v)", c, metric.ChannelNames())
	}
	return nil
}

// ValidateMetric checks that a sort metric is valid.
func ValidateMetric(m metric.SortMetric) error {
	if !metric.ValidSortMetrics[m] {
		return errors.New(errors.ErrCodeInvalidMetric,
			"invalid metric: %q (must be one of: %v)", m, metric.SortMetricNames())
	}
	return nil
}

// ValidateDirection checks that a span orientation is valid.
func ValidateDirection(d string) error {
	if !ValidDirections[d] {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid direction: %q (must be one of: horizontal, vertical)", d)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults for the full
// pipeline. Fields whose zero value is meaningful (Low, High, Jitter) are
// validated but never replaced. This method is idempotent - calling it
// multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if err := errors.ValidateUnitInterval("low threshold", o.Low); err != nil {
		return err
	}
	if err := errors.ValidateUnitInterval("high threshold", o.High); err != nil {
		return err
	}
	if math.IsNaN(o.Jitter) || o.Jitter < 0 || o.Jitter > 1 {
		return errors.New(errors.ErrCodeInvalidJitter,
			"jitter must be in [0, 1], got %g", o.Jitter)
	}

	if o.Channel == "" {
		o.Channel = DefaultChannel
	}
	if err := ValidateChannel(o.Channel); err != nil {
		return err
	}

	if o.Direction == "" {
		o.Direction = DefaultDirection
	}
	if err := ValidateDirection(o.Direction); err != nil {
		return err
	}

	if o.Metric == "" {
		o.Metric = DefaultMetric
	}
	if err := ValidateMetric(o.Metric); err != nil {
		return err
	}

	if o.Gamma == 0 {
		o.Gamma = DefaultGamma
	}
	if math.IsNaN(o.Gamma) || o.Gamma <= 0 {
		return errors.New(errors.ErrCodeInvalidGamma,
			"gamma must be positive, got %g", o.Gamma)
	}

	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// IsHorizontal returns true if spans run along rows.
func (o *Options) IsHorizontal() bool {
	return o.Direction == "" || o.Direction == DirectionHorizontal
}

// IsVertical returns true if spans run along columns.
func (o *Options) IsVertical() bool {
	return o.Direction == DirectionVertical
}

// Cacheable reports whether a run with these options can be served from the
// result cache. Runs with an injected random source are excluded because the
// generator state is not captured by the cache key.
func (o *Options) Cacheable() bool {
	return o.Rand == nil
}

// ResultKeyOpts returns cache key options for the sorted result.
func (o *Options) ResultKeyOpts() cache.ResultKeyOpts {
	return cache.ResultKeyOpts{
		Low:        o.Low,
		High:       o.High,
		Channel:    string(o.Channel),
		Invert:     o.Invert,
		Jitter:     o.Jitter,
		Seed:       o.Seed,
		Horizontal: o.IsHorizontal(),
		Metric:     string(o.Metric),
		Descending: o.Descending,
		Gamma:      o.Gamma,
	}
}
