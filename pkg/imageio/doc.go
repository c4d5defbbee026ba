// Package imageio loads and saves raster images in common formats.
//
// # Overview
//
// This package is the boundary between encoded image files and the flat RGB
// rasters the sorting pipeline operates on. It handles:
//
//   - Decoding PNG, JPEG, GIF, TIFF, and BMP files into rasters
//   - EXIF auto-orientation, so photos load the way they are displayed
//   - Fetching remote images over HTTP with caching and retries
//   - Encoding rasters back to any supported format
//
// Alpha channels are dropped on load; sorting operates on opaque RGB data
// and saved images are fully opaque.
//
// # Loading
//
// Use [LoadFile] for local paths, or a [Loader] when sources may also be
// http(s) URLs:
//
//	loader := imageio.NewLoader(cache)
//	img, err := loader.Load(ctx, "https://example.com/cat.png")
//
// Fetched URL bodies are stored in the loader's cache, so repeated runs
// against the same URL do not hit the network.
//
// # Saving
//
// [Save] derives the format from the file extension; [Encode] writes to any
// io.Writer with an explicit format name:
//
//	err := imageio.Save(img, "out/cat_sorted.png", imageio.SaveOptions{})
//	err = imageio.Encode(w, img, "jpeg", imageio.SaveOptions{Quality: 90})
package imageio
