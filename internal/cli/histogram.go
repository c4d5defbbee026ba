package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/smearlab/pixelsort/pkg/imageio"
	"github.com/smearlab/pixelsort/pkg/metric"
	"github.com/smearlab/pixelsort/pkg/preview"
)

// histogramOpts holds the command-line flags for the histogram command.
type histogramOpts struct {
	output  string // chart file path (derived from the input when empty)
	title   string // chart title (input name when empty)
	channel string // chart a single threshold channel instead of RGB curves
	bins    int    // bin count for channel charts
	jsonOut bool   // print the summary as JSON instead of a table
	noCache bool   // disable the download cache
}

// histogramCommand creates the histogram command. It renders an intensity
// histogram chart and prints summary statistics for an image, which is the
// quickest way to see what a sort did to the tonal distribution.
func (c *CLI) histogramCommand() *cobra.Command {
	var opts histogramOpts

	cmd := &cobra.Command{
		Use:   "histogram <image>",
		Short: "Chart the intensity distribution of an image",
		Long: `Chart the intensity distribution of an image.

Renders per-channel intensity curves to a PNG chart and prints summary
statistics (per-channel spread, luminance, entropy). With --channel the chart
shows the distribution of one threshold channel on the 0-1 scale instead,
which maps directly onto the --low and --high sort flags.

Examples:
  pixelsort histogram shot.jpg                 # writes shot_histogram.png
  pixelsort histogram shot.jpg --channel hue   # hue distribution in 64 bins
  pixelsort histogram shot_sorted.jpg --json   # stats as JSON for scripting`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHistogram(cmd.Context(), args[0], opts)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&opts.output, "output", "o", "", "chart file (derived from the input when empty)")
	fl.StringVar(&opts.title, "title", "", "chart title (input name when empty)")
	fl.StringVar(&opts.channel, "channel", "", fmt.Sprintf("chart one threshold channel: %s", strings.Join(metric.ChannelNames(), ", ")))
	fl.IntVar(&opts.bins, "bins", 64, "bin count for --channel charts")
	fl.BoolVar(&opts.jsonOut, "json", false, "print the summary as JSON instead of a table")
	fl.BoolVar(&opts.noCache, "no-cache", false, "disable the download cache")

	return cmd
}

// runHistogram loads the image, writes the histogram chart, and prints the
// summary statistics.
func (c *CLI) runHistogram(ctx context.Context, source string, opts histogramOpts) error {
	logger := loggerFromContext(ctx)

	loader := imageio.NewLoader(newFetchCache(opts.noCache))
	img, err := loader.Load(ctx, source)
	if err != nil {
		return err
	}

	stem, _ := outputBase(opts.output, source)
	chartPath := opts.output
	if chartPath == "" {
		chartPath = stem + "_histogram.png"
	}
	title := opts.title
	if title == "" {
		title = stem
	}

	prog := newProgress(logger)
	summary, err := preview.Summarize(img)
	if err != nil {
		return err
	}
	if opts.channel != "" {
		hist, err := preview.ComputeMetricHistogram(img, metric.Channel(opts.channel), opts.bins)
		if err != nil {
			return err
		}
		if err := hist.Render(title, chartPath); err != nil {
			return err
		}
	} else {
		if err := preview.ComputeHistogram(img).Render(title, chartPath); err != nil {
			return err
		}
	}
	prog.done(fmt.Sprintf("Analyzed %d pixels", summary.Width*summary.Height))

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	printSuccess("Analyzed %s", source)
	printKeyValue("Size", fmt.Sprintf("%dx%d", summary.Width, summary.Height))
	printKeyValue("Luminance", fmt.Sprintf("mean %.1f, median %.1f, stddev %.1f",
		summary.Luminance.Mean, summary.Luminance.Median, summary.Luminance.StdDev))
	printKeyValue("Midband", fmt.Sprintf("p25 %.1f to p75 %.1f",
		summary.Luminance.P25, summary.Luminance.P75))
	printKeyValue("Entropy", StyleNumber.Render(fmt.Sprintf("%.2f", summary.Entropy))+" bits")
	printFile(chartPath)
	printNewline()
	printNextStep("Sort the midband", fmt.Sprintf("%s sort %s --low %.2f --high %.2f",
		appName, source, summary.Luminance.P25/255, summary.Luminance.P75/255))
	return nil
}
