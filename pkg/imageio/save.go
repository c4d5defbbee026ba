package imageio

import (
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// formats maps lowercase extension names to imaging encoders.
var formats = map[string]imaging.Format{
	"png":  imaging.PNG,
	"jpg":  imaging.JPEG,
	"jpeg": imaging.JPEG,
	"gif":  imaging.GIF,
	"tif":  imaging.TIFF,
	"tiff": imaging.TIFF,
	"bmp":  imaging.BMP,
}

// SaveOptions controls image encoding.
type SaveOptions struct {
	// Quality sets JPEG quality in [1, 100]. Zero uses the encoder
	// default. Ignored for other formats.
	Quality int `json:"quality"`
}

// FormatNames returns the supported format names in sorted order.
func FormatNames() []string {
	return slices.Sorted(maps.Keys(formats))
}

// FormatFromPath derives the format name from a file extension.
// "shot.PNG" yields "png". Paths without an extension yield "".
func FormatFromPath(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// KnownFormat reports whether name is a supported output format.
func KnownFormat(name string) bool {
	_, ok := formats[strings.ToLower(name)]
	return ok
}

// Encode writes img to w in the named format.
func Encode(w io.Writer, img *raster.Image, format string, opts SaveOptions) error {
	f, ok := formats[strings.ToLower(format)]
	if !ok {
		return errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (valid: %s)", format, strings.Join(FormatNames(), ", "))
	}
	if opts.Quality < 0 || opts.Quality > 100 {
		return errors.New(errors.ErrCodeInvalidInput,
			"quality must be in [1, 100], got %d", opts.Quality)
	}

	var encOpts []imaging.EncodeOption
	if opts.Quality > 0 {
		encOpts = append(encOpts, imaging.JPEGQuality(opts.Quality))
	}

	if err := imaging.Encode(w, img.ToNRGBA(), f, encOpts...); err != nil {
		return errors.Wrap(errors.ErrCodeEncode, err, "failed to encode %s", format)
	}
	return nil
}

// Save encodes img to path, deriving the format from the extension.
func Save(img *raster.Image, path string, opts SaveOptions) error {
	if err := errors.ValidateOutputPath(path); err != nil {
		return err
	}

	format := FormatFromPath(path)
	if _, ok := formats[format]; !ok {
		return errors.New(errors.ErrCodeInvalidFormat,
			"cannot infer format from %q (valid extensions: %s)", path, strings.Join(FormatNames(), ", "))
	}

	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "failed to create %s", path)
	}
	defer f.Close()
	return Encode(f, img, format, opts)
}
