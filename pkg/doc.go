// Package pkg provides the core libraries for pixelsort glitch-art processing.
//
// # Overview
//
// Pixelsort rearranges runs of pixels inside an image according to a
// brightness or color metric, producing the smeared "pixel sorting" effect.
// The pkg directory is organized into four main areas:
//
//  1. Stages - Domain logic ([raster], [metric], [mask], [span], [gamma])
//  2. [pipeline] - Orchestration (mask → extract → sort → gamma) with caching
//  3. Presentation - Inputs and outputs ([imageio], [preview], [preset])
//  4. Infrastructure - Supporting services ([cache], [httputil], [errors], [observability])
//
// # Architecture
//
// The typical data flow through pixelsort:
//
//	Image file or URL
//	         ↓
//	    [imageio] package (decode into an RGBA grid)
//	         ↓
//	    [mask] package (threshold band selection, optional jitter)
//	         ↓
//	    [span] package (maximal run extraction + stable sort)
//	         ↓
//	    [gamma] package (tone adjustment)
//	         ↓
//	    PNG/JPEG/GIF/BMP/TIFF output
//
// # Quick Start
//
// Load an image, sort it, and write the result:
//
//	import (
//	    "context"
//	    "github.com/smearlab/pixelsort/pkg/imageio"
//	    "github.com/smearlab/pixelsort/pkg/pipeline"
//	)
//
//	// 1. Decode the input
//	img, _ := imageio.LoadFile("glitch.png")
//
//	// 2. Configure the pipeline
//	opts := pipeline.NewOptions()
//	opts.Low, opts.High = 0.25, 0.75
//
//	// 3. Run mask → extract → sort → gamma
//	res, _ := pipeline.Run(context.Background(), img, opts)
//
//	// 4. Encode the output
//	_ = imageio.Save(res.Image, "glitch_sorted.png", imageio.SaveOptions{})
//
// # Main Packages
//
// ## Pipeline Stages
//
// [raster] - Mutable RGBA grid with row/column views, plus the color space
// conversions (luminance, HSL) every metric is built on.
//
// [metric] - Per-pixel scalar metrics in [0,1]: luminance, RGB channels, and
// the HSL components. Channels select mask thresholds, sort metrics order
// pixels inside a span.
//
// [mask] - Boolean selection grid from an inclusive threshold band over a
// channel, with optional inversion and seeded per-pixel jitter.
//
// [span] - Maximal horizontal or vertical runs of selected pixels, and the
// stable metric sort applied to each run.
//
// [gamma] - Lookup-table gamma correction applied after sorting.
//
// ## Orchestration
//
// [pipeline] - Complete sorting pipeline used by CLI and API. [pipeline.Run]
// executes the stages on a cloned input; [pipeline.Runner] adds content-keyed
// result caching so identical requests are served without recomputation.
//
// ## Presentation
//
// [imageio] - Decoding and encoding for PNG, JPEG, GIF, BMP, and TIFF, and a
// [imageio.Loader] that resolves local paths and remote URLs through an
// optional download cache.
//
// [preview] - Before/after compare sheets, luminance histograms rendered to
// chart images, and numeric channel summaries (mean, median, entropy).
//
// [preset] - Named parameter bundles. Built-ins ship with the binary and user
// presets load from a TOML file under the XDG config directory.
//
// ## Infrastructure
//
// [cache] - Byte-value caches keyed by content hashes: FileCache for the CLI,
// RedisCache for servers, NullCache for disabling. ScopedCache namespaces a
// shared backend.
//
// [httputil] - HTTP fetching with retry/backoff, response size caps, and a
// TTL file cache for downloaded images.
//
// [errors] - Coded errors shared by CLI and API so exit codes and HTTP
// statuses stay consistent.
//
// [observability] - Structured logging setup on charmbracelet/log.
//
// [buildinfo] - Version and commit metadata stamped at build time.
//
// # Common Workflows
//
// Run with result caching:
//
//	c, _ := cache.NewFileCache(dir)
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, _ := runner.Execute(ctx, img, opts)
//	fmt.Println(res.CacheInfo.ResultHit)
//
// Apply a preset, then override one knob:
//
//	presets, _ := preset.Load(preset.DefaultPath())
//	p, _ := preset.Find(presets, "classic")
//	p.Apply(&opts)
//	opts.Descending = true
//
// Build a compare sheet:
//
//	sheet, _ := preview.CompareSheet(before, after)
//	_ = imageio.Save(sheet, "compare.png", imageio.SaveOptions{})
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/span/...       # Specific package
//	go test -run Example         # Examples only
//
// [raster]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/raster
// [metric]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/metric
// [mask]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/mask
// [span]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/span
// [gamma]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/gamma
// [pipeline]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/pipeline
// [imageio]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/imageio
// [preview]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/preview
// [preset]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/preset
// [cache]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/httputil
// [errors]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/errors
// [observability]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/smearlab/pixelsort/pkg/buildinfo
package pkg
