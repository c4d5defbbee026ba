package cli

import (
	"context"
	"fmt"
	neturl "net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/imageio"
	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/pipeline"
	"github.com/smearlab/pixelsort/pkg/preset"
	"github.com/smearlab/pixelsort/pkg/preview"
)

// sortOpts holds the command-line flags for the sort command that are not
// pipeline options. Pipeline options bind directly into pipeline.Options.
type sortOpts struct {
	output      string // output file path (derived from the input when empty)
	preset      string // preset name to apply
	channel     string // mask channel name
	metricName  string // sort metric name
	format      string // output format for derived file names
	quality     int    // JPEG quality, 1-100 (encoder default when 0)
	compare     bool   // also write a before/after comparison sheet
	noCache     bool   // disable the result and download caches
	interactive bool   // pick a preset interactively
}

// sortCommand creates the sort command, the main entry point of the tool.
// It loads an image from a file or URL, runs the mask/extract/sort/gamma
// pipeline, and writes the sorted image next to the input.
//
// Flags the user sets explicitly always win over preset values, so
// "--preset dusk --gamma 1.0" runs dusk with gamma forced to 1.0.
func (c *CLI) sortCommand() *cobra.Command {
	opts := pipeline.NewOptions()
	cmdOpts := sortOpts{
		channel:    string(opts.Channel),
		metricName: string(opts.Metric),
	}

	cmd := &cobra.Command{
		Use:   "sort <image>",
		Short: "Sort pixels inside a tonal band of an image",
		Long: `Sort pixels inside a tonal band of an image.

The image may be a local file or an http(s) URL. Downloads are cached, so
re-running with different options does not fetch the image again.

Examples:
  pixelsort sort shot.jpg                           # defaults, writes shot_sorted.jpg
  pixelsort sort shot.jpg --low 0.1 --high 0.6      # narrower selection band
  pixelsort sort shot.jpg --metric hue --descending # reverse hue ordering
  pixelsort sort shot.jpg --preset glitch --compare # preset plus side-by-side sheet
  pixelsort sort https://example.com/shot.png -o out.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Channel = metric.Channel(cmdOpts.channel)
			opts.Metric = metric.SortMetric(cmdOpts.metricName)

			proceed, err := resolvePreset(cmd, &opts, &cmdOpts)
			if err != nil || !proceed {
				return err
			}
			return c.runSort(cmd.Context(), args[0], opts, cmdOpts)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&cmdOpts.output, "output", "o", "", "output file (derived from the input when empty)")
	fl.Float64Var(&opts.Low, "low", opts.Low, "lower selection threshold in [0, 1]")
	fl.Float64Var(&opts.High, "high", opts.High, "upper selection threshold in [0, 1]")
	fl.StringVar(&cmdOpts.channel, "channel", cmdOpts.channel, fmt.Sprintf("mask channel: %s", strings.Join(metric.ChannelNames(), ", ")))
	fl.BoolVar(&opts.Invert, "invert", false, "sort everything outside the band instead")
	fl.Float64Var(&opts.Jitter, "jitter", 0, "random threshold jitter in [0, 1]")
	fl.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for jitter")
	fl.StringVar(&opts.Direction, "direction", opts.Direction, "span orientation: horizontal, vertical")
	fl.StringVar(&cmdOpts.metricName, "metric", cmdOpts.metricName, fmt.Sprintf("sort metric: %s", strings.Join(metric.SortMetricNames(), ", ")))
	fl.BoolVar(&opts.Descending, "descending", false, "sort from high to low")
	fl.Float64Var(&opts.Gamma, "gamma", opts.Gamma, "tone correction exponent, > 0")
	fl.IntVar(&opts.Workers, "workers", opts.Workers, "span sort parallelism (0 = one per CPU)")
	fl.BoolVar(&opts.Refresh, "refresh", false, "recompute even when a cached result exists")
	fl.StringVarP(&cmdOpts.preset, "preset", "p", "", "apply a named preset (see 'pixelsort presets')")
	fl.StringVar(&cmdOpts.format, "format", "", fmt.Sprintf("output format for derived file names: %s", strings.Join(imageio.FormatNames(), ", ")))
	fl.IntVar(&cmdOpts.quality, "quality", 0, "JPEG quality, 1-100 (encoder default when unset)")
	fl.BoolVar(&cmdOpts.compare, "compare", false, "also write a before/after comparison sheet")
	fl.BoolVar(&cmdOpts.noCache, "no-cache", false, "disable the result and download caches")
	fl.BoolVarP(&cmdOpts.interactive, "interactive", "i", false, "pick a preset interactively")

	return cmd
}

// resolvePreset applies the preset requested via --preset or the interactive
// picker. The bool result is false when the user quit the picker without
// choosing; the sort is then skipped without error.
func resolvePreset(cmd *cobra.Command, opts *pipeline.Options, cmdOpts *sortOpts) (bool, error) {
	if !cmdOpts.interactive && cmdOpts.preset == "" {
		return true, nil
	}

	presets, err := preset.Load(preset.DefaultPath())
	if err != nil {
		return false, err
	}

	var p preset.Preset
	if cmdOpts.interactive {
		chosen, ok, err := runPresetPicker(presets)
		if err != nil {
			return false, err
		}
		if !ok {
			printDetail("No preset selected")
			return false, nil
		}
		p = chosen
	} else {
		p, err = preset.Find(presets, cmdOpts.preset)
		if err != nil {
			return false, err
		}
	}

	applyPresetOverrides(cmd, p, opts)
	printInfo("Using preset %s", StyleHighlight.Render(p.Name))
	return true, nil
}

// applyPresetOverrides applies p onto opts, then restores every option whose
// flag was set explicitly. Explicit flags win over the preset.
func applyPresetOverrides(cmd *cobra.Command, p preset.Preset, opts *pipeline.Options) {
	flagged := *opts
	p.Apply(opts)

	fl := cmd.Flags()
	if fl.Changed("low") {
		opts.Low = flagged.Low
	}
	if fl.Changed("high") {
		opts.High = flagged.High
	}
	if fl.Changed("channel") {
		opts.Channel = flagged.Channel
	}
	if fl.Changed("invert") {
		opts.Invert = flagged.Invert
	}
	if fl.Changed("jitter") {
		opts.Jitter = flagged.Jitter
	}
	if fl.Changed("seed") {
		opts.Seed = flagged.Seed
	}
	if fl.Changed("direction") {
		opts.Direction = flagged.Direction
	}
	if fl.Changed("metric") {
		opts.Metric = flagged.Metric
	}
	if fl.Changed("descending") {
		opts.Descending = flagged.Descending
	}
	if fl.Changed("gamma") {
		opts.Gamma = flagged.Gamma
	}
}

// runSort loads the source image, executes the pipeline, and writes the
// sorted image (plus the optional comparison sheet).
func (c *CLI) runSort(ctx context.Context, source string, opts pipeline.Options, cmdOpts sortOpts) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	stem, ext := outputBase(cmdOpts.output, source)
	if cmdOpts.format != "" {
		if !imageio.KnownFormat(cmdOpts.format) {
			return errors.New(errors.ErrCodeInvalidFormat,
				"unknown format %q (valid: %s)", cmdOpts.format, strings.Join(imageio.FormatNames(), ", "))
		}
		ext = "." + strings.ToLower(cmdOpts.format)
	}
	outPath := cmdOpts.output
	if outPath == "" {
		outPath = stem + "_sorted" + ext
	}

	runner, err := c.newRunner(cmdOpts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	loader := imageio.NewLoader(newFetchCache(cmdOpts.noCache))

	sp := newSpinnerWithContext(ctx, fmt.Sprintf("Loading %s", source))
	sp.Start()

	img, err := loader.Load(ctx, source)
	if err != nil {
		sp.StopWithError(fmt.Sprintf("Failed to load %s", source))
		return err
	}
	logger.Debugf("Loaded %dx%d image", img.Width(), img.Height())

	sp.UpdateMessage("Sorting pixels")
	result, err := runner.Execute(ctx, img, opts)
	if err != nil {
		sp.StopWithError("Sorting failed")
		return err
	}

	sp.UpdateMessage(fmt.Sprintf("Writing %s", outPath))
	if err := imageio.Save(result.Image, outPath, imageio.SaveOptions{Quality: cmdOpts.quality}); err != nil {
		sp.StopWithError(fmt.Sprintf("Failed to write %s", outPath))
		return err
	}

	sp.StopWithSuccess(fmt.Sprintf("Sorted %s", source))
	printStats(result.Stats.SelectedPixels, result.Stats.SpanCount, result.CacheInfo.ResultHit)
	printFile(outPath)

	if cmdOpts.compare {
		sheet, err := preview.CompareSheet(img, result.Image)
		if err != nil {
			return err
		}
		comparePath := stem + "_compare" + ext
		if err := imageio.Save(sheet, comparePath, imageio.SaveOptions{Quality: cmdOpts.quality}); err != nil {
			return err
		}
		printFile(comparePath)
	}

	printNewline()
	printNextStep("Inspect the tonal spread", fmt.Sprintf("%s histogram %s", appName, outPath))
	return nil
}

// outputBase returns the stem and extension used to build output file names.
// An explicit output path wins; otherwise the stem derives from the source,
// with remote URLs reduced to the basename of their path. Extensions that do
// not name a supported format fall back to ".png".
func outputBase(output, source string) (stem, ext string) {
	base := output
	if base == "" {
		base = source
		if imageio.IsURL(source) {
			base = remoteBasename(source)
		}
	}
	ext = filepath.Ext(base)
	stem = strings.TrimSuffix(base, ext)
	if !imageio.KnownFormat(imageio.FormatFromPath(base)) {
		ext = ".png"
	}
	return stem, ext
}

// remoteBasename reduces a URL to a local file name, ignoring the query
// string. URLs without a usable path component become "image.png".
func remoteBasename(source string) string {
	u, err := neturl.Parse(source)
	if err != nil {
		return "image.png"
	}
	name := path.Base(u.Path)
	if name == "/" || name == "." || name == "" {
		return "image.png"
	}
	return name
}
