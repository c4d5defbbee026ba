// Package preview renders diagnostic views of sorting runs.
//
// # Overview
//
// Three views are available:
//
//   - [CompareSheet] places the input and output images side by side on a
//     labeled sheet, for quick before/after inspection.
//   - [Histogram] counts 8-bit channel values; [Histogram.Render] plots the
//     three channel curves to a chart file.
//   - [Summarize] reduces an image to distribution statistics per channel
//     plus the Shannon entropy of its tone distribution.
//
// All views are pure functions of the image data. Rendering is done
// off-screen, so they work in headless environments.
package preview
