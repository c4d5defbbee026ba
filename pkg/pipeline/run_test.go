package pipeline

import (
	"context"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/observability"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// grayRow builds a one-row image from gray values. For achromatic pixels
// luminance and lightness both equal the gray value over 255, which makes
// expected selections and orderings easy to read off.
func grayRow(vals ...uint8) *raster.Image {
	img := raster.New(len(vals), 1)
	for x, v := range vals {
		img.Set(x, 0, raster.Pixel{v, v, v})
	}
	return img
}

func grayColumn(vals ...uint8) *raster.Image {
	img := raster.New(1, len(vals))
	for y, v := range vals {
		img.Set(0, y, raster.Pixel{v, v, v})
	}
	return img
}

func rowGrays(img *raster.Image, y int) []uint8 {
	out := make([]uint8, img.Width())
	for x := range out {
		out[x] = img.At(x, y).R()
	}
	return out
}

func colGrays(img *raster.Image, x int) []uint8 {
	out := make([]uint8, img.Height())
	for y := range out {
		out[y] = img.At(x, y).R()
	}
	return out
}

func randomImage(w, h int, seed uint64) *raster.Image {
	rng := rand.New(rand.NewPCG(seed, seed))
	img := raster.New(w, h)
	pix := img.Pix()
	for i := range pix {
		pix[i] = raster.Pixel{uint8(rng.UintN(256)), uint8(rng.UintN(256)), uint8(rng.UintN(256))}
	}
	return img
}

func gradientImage(w, h int) *raster.Image {
	img := raster.New(w, h)
	for y := range h {
		for x := range w {
			v := uint8((x + y) * 255 / (w + h - 2))
			img.Set(x, y, raster.Pixel{v, v, v})
		}
	}
	return img
}

// The band [0.2, 0.8] selects the middle three grays (0.698, 0.502, 0.6)
// and excludes the dark (0.102) and bright (0.949) endpoints.
func scenarioOptions() Options {
	opts := NewOptions()
	opts.Gamma = 1 // keep sorted bytes unchanged
	return opts
}

func TestRunSortsHorizontalSpans(t *testing.T) {
	img := grayRow(26, 178, 128, 153, 242)

	result, err := Run(context.Background(), img, scenarioOptions())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []uint8{26, 128, 153, 178, 242}
	if got := rowGrays(result.Image, 0); !slices.Equal(got, want) {
		t.Errorf("sorted row = %v, want %v", got, want)
	}

	if result.Stats.Width != 5 || result.Stats.Height != 1 {
		t.Errorf("stats size = %dx%d, want 5x1", result.Stats.Width, result.Stats.Height)
	}
	if result.Stats.SelectedPixels != 3 {
		t.Errorf("SelectedPixels = %d, want 3", result.Stats.SelectedPixels)
	}
	if result.Stats.SpanCount != 1 {
		t.Errorf("SpanCount = %d, want 1", result.Stats.SpanCount)
	}
}

func TestRunDescending(t *testing.T) {
	img := grayRow(26, 178, 128, 153, 242)
	opts := scenarioOptions()
	opts.Descending = true

	result, err := Run(context.Background(), img, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []uint8{26, 178, 153, 128, 242}
	if got := rowGrays(result.Image, 0); !slices.Equal(got, want) {
		t.Errorf("sorted row = %v, want %v", got, want)
	}
}

func TestRunVertical(t *testing.T) {
	img := grayColumn(26, 178, 128, 153, 242)
	opts := scenarioOptions()
	opts.Direction = DirectionVertical

	result, err := Run(context.Background(), img, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []uint8{26, 128, 153, 178, 242}
	if got := colGrays(result.Image, 0); !slices.Equal(got, want) {
		t.Errorf("sorted column = %v, want %v", got, want)
	}
}

func TestRunDoesNotMutateInput(t *testing.T) {
	img := randomImage(16, 16, 3)
	saved := img.Clone()

	if _, err := Run(context.Background(), img, NewOptions()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !img.Equal(saved) {
		t.Error("input image was modified")
	}
}

func TestRunGammaAdjustsTones(t *testing.T) {
	// 128/255 is outside the band, so the only change is tone correction:
	// round((128/255)^(1/2) * 255) = 181.
	img := grayRow(128)
	opts := NewOptions()
	opts.Low = 0
	opts.High = 0.1
	opts.Gamma = 2.0

	result, err := Run(context.Background(), img, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := result.Image.At(0, 0); got != (raster.Pixel{181, 181, 181}) {
		t.Errorf("corrected pixel = %v, want {181 181 181}", got)
	}
	if got := img.At(0, 0); got != (raster.Pixel{128, 128, 128}) {
		t.Errorf("input pixel = %v, want {128 128 128}", got)
	}
}

func TestRunIdentityWhenNothingSelected(t *testing.T) {
	// Low above High selects nothing; with gamma 1 the output is
	// byte-identical to the input.
	img := randomImage(8, 8, 4)
	opts := NewOptions()
	opts.Low = 0.9
	opts.High = 0.1
	opts.Gamma = 1

	result, err := Run(context.Background(), img, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !result.Image.Equal(img) {
		t.Error("output should equal input when nothing is selected")
	}
	if result.Stats.SelectedPixels != 0 {
		t.Errorf("SelectedPixels = %d, want 0", result.Stats.SelectedPixels)
	}
	if result.Stats.SpanCount != 0 {
		t.Errorf("SpanCount = %d, want 0", result.Stats.SpanCount)
	}
}

func TestRunPermutesSelectedPixels(t *testing.T) {
	// With everything selected and gamma 1, sorting only rearranges pixels.
	img := randomImage(32, 32, 5)
	opts := NewOptions()
	opts.Low = 0
	opts.High = 1
	opts.Metric = metric.MetricLuminance
	opts.Gamma = 1

	result, err := Run(context.Background(), img, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	counts := make(map[raster.Pixel]int)
	for _, p := range img.Pix() {
		counts[p]++
	}
	for _, p := range result.Image.Pix() {
		counts[p]--
	}
	for p, n := range counts {
		if n != 0 {
			t.Fatalf("pixel %v count off by %d; output is not a permutation", p, n)
		}
	}
}

func TestRunJitterReproducible(t *testing.T) {
	img := gradientImage(64, 64)
	opts := NewOptions()
	opts.Jitter = 0.3
	opts.Seed = 99
	opts.Gamma = 1

	first, err := Run(context.Background(), img, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	second, err := Run(context.Background(), img, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !first.Image.Equal(second.Image) {
		t.Error("same seed should reproduce the same output")
	}

	opts.Seed = 100
	other, err := Run(context.Background(), img, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if first.Image.Equal(other.Image) {
		t.Error("different seeds should perturb the mask differently")
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	img := randomImage(64, 64, 6)

	sequential := NewOptions()
	sequential.Workers = 1
	parallel := NewOptions()
	parallel.Workers = 8

	seqResult, err := Run(context.Background(), img, sequential)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	parResult, err := Run(context.Background(), img, parallel)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !seqResult.Image.Equal(parResult.Image) {
		t.Error("parallel sorting should match sequential output")
	}
}

func TestRunNilImage(t *testing.T) {
	_, err := Run(context.Background(), nil, NewOptions())
	if err == nil {
		t.Fatal("Run should reject a nil image")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestRunInvalidOptions(t *testing.T) {
	opts := NewOptions()
	opts.Low = -1

	_, err := Run(context.Background(), grayRow(1, 2, 3), opts)
	if err == nil {
		t.Fatal("Run should reject invalid options")
	}
	if !errors.Is(err, errors.ErrCodeInvalidThreshold) {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidThreshold)
	}
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, randomImage(8, 8, 7), NewOptions())
	if err != context.Canceled {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	runStarts    int
	runCompletes int
	stages       []string
}

func (h *recordingHooks) OnRunStart(context.Context, int, int) { h.runStarts++ }

func (h *recordingHooks) OnRunComplete(context.Context, int, time.Duration, error) {
	h.runCompletes++
}

func (h *recordingHooks) OnStageStart(_ context.Context, stage string) {
	h.stages = append(h.stages, stage)
}

func TestRunEmitsStageHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	if _, err := Run(context.Background(), grayRow(26, 178, 128, 153, 242), scenarioOptions()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"mask", "extract", "sort", "gamma"}
	if !slices.Equal(hooks.stages, want) {
		t.Errorf("stages = %v, want %v", hooks.stages, want)
	}
	if hooks.runStarts != 1 || hooks.runCompletes != 1 {
		t.Errorf("run hooks = %d starts, %d completes; want 1, 1",
			hooks.runStarts, hooks.runCompletes)
	}
}
